// Notification HTTP handlers.
//
// This file exposes the ingestion endpoint bridging the payment-app
// notification feed into the match engine:
//   - POST /notifications
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/upilabs/go-payment-match-backend/internal/services"
)

// IngestNotificationRequest is the JSON payload for one forwarded
// notification.
type IngestNotificationRequest struct {
	// Text is the raw notification body, as captured from the device.
	Text string `json:"text" binding:"required" example:"PhonePe: You've received Rs. 250"`
	// Source names the forwarding channel; when the server is configured
	// with a source channel, anything else is ignored.
	Source string `json:"source,omitempty" example:"upi-alerts"`
	// SeenAt is when the notification was observed (RFC 3339); defaults to
	// arrival time.
	SeenAt string `json:"seen_at,omitempty" example:"2025-03-01T12:00:00Z"`
}

// IngestNotificationResponse reports what a notification did.
type IngestNotificationResponse struct {
	Matched   int    `json:"matched"`
	AmountKey string `json:"amount_key,omitempty" example:"250"`
	Ignored   string `json:"ignored,omitempty" example:"no_session"`
}

// IngestNotification godoc
// @ID          ingestNotification
// @Summary     Ingest a payment notification
// @Description Parses the notification text and settles every session whose window covers it. Filtered or unmatched notifications return 200 with an ignore reason, not an error.
// @Tags        Notifications
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.IngestNotificationRequest  true  "Notification payload"
//
// @Success     200  {object}  handlers.IngestNotificationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /notifications [post]
func (h *Handlers) IngestNotification(c *gin.Context) {
	var req IngestNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	var seenAt time.Time
	if req.SeenAt != "" {
		var err error
		seenAt, err = time.Parse(time.RFC3339, req.SeenAt)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "seen_at must be RFC 3339")
			return
		}
	}

	res, err := h.notifs.Ingest(c.Request.Context(), services.IngestInput{
		RawText: req.Text,
		Source:  req.Source,
		SeenAt:  seenAt,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeIngestFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, IngestNotificationResponse{
		Matched:   res.Matched,
		AmountKey: res.AmountKey,
		Ignored:   res.Ignored,
	})
}
