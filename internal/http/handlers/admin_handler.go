// Admin HTTP handlers.
//
// This file exposes the operator surface:
//   - GET /admin/stats            (live counts)
//   - GET /admin/settings         (all settings)
//   - GET /admin/settings/:key    (one setting)
//   - PUT /admin/settings/:key    (override a setting)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/upilabs/go-payment-match-backend/internal/services"
)

// UpdateSettingRequest is the JSON payload for overriding one setting.
type UpdateSettingRequest struct {
	Value string `json:"value" example:"true"`
}

// SettingResponse is one setting key with its effective value.
type SettingResponse struct {
	Key   string `json:"key" example:"protect_content"`
	Value string `json:"value" example:"false"`
}

// GetStats godoc
// @ID          getStats
// @Summary     Operational counts
// @Description Returns live totals: registered buyers, pending sessions, held amount slots, products, and logged payments.
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object}  repo.Stats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	s, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// ListSettings godoc
// @ID          listSettings
// @Summary     All operator settings
// @Tags        Admin
// @Produce     json
//
// @Success     200  {object}  map[string]string
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/settings [get]
func (h *Handlers) ListSettings(c *gin.Context) {
	all, err := h.settings.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, all)
}

// GetSetting godoc
// @ID          getSetting
// @Summary     One operator setting
// @Tags        Admin
// @Produce     json
//
// @Param       key  path  string  true  "Setting key"  example(welcome_text)
//
// @Success     200  {object}  handlers.SettingResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown setting"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/settings/{key} [get]
func (h *Handlers) GetSetting(c *gin.Context) {
	key := c.Param("key")
	v, err := h.settings.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrUnknownSetting) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown setting")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, SettingResponse{Key: key, Value: v})
}

// UpdateSetting godoc
// @ID          updateSetting
// @Summary     Override an operator setting
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       key   path  string  true  "Setting key"  example(welcome_text)
// @Param       body  body  handlers.UpdateSettingRequest  true  "New value"
//
// @Success     200  {object}  handlers.SettingResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown setting"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/settings/{key} [put]
func (h *Handlers) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.settings.Set(c.Request.Context(), key, req.Value); err != nil {
		if errors.Is(err, services.ErrUnknownSetting) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "unknown setting")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, SettingResponse{Key: key, Value: req.Value})
}
