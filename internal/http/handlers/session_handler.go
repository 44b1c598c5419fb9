// Session HTTP handlers.
//
// This file exposes REST endpoints for payment sessions:
//   - POST   /sessions    (create; Idempotency-Key supported)
//   - GET    /sessions    (list pending, paginated)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/http/middleware"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
	"github.com/upilabs/go-payment-match-backend/internal/services"
	"github.com/upilabs/go-payment-match-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SessionService defines session lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SessionService interface {
	// Create reserves a unique amount and persists a pending session.
	Create(ctx context.Context, in services.CreateSessionInput) (*services.CreatedSession, error)
	// ListPage returns a page of pending sessions and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Session, int64, error)
}

// NotificationService ingests raw payment notification text.
type NotificationService interface {
	// Ingest parses a notification and settles any matching sessions.
	Ingest(ctx context.Context, in services.IngestInput) (services.IngestResult, error)
}

// ProductService defines catalogue operations consumed by HTTP handlers.
type ProductService interface {
	Create(ctx context.Context, in services.CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, itemID string) (*domain.Product, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Product, int64, error)
}

// SettingsService defines operator setting access for the admin endpoints.
type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

// StatsService reports operational counts for the admin endpoints.
type StatsService interface {
	Stats(ctx context.Context) (*repo.Stats, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for sessions, notifications, products, and
// the admin surface. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	sessions SessionService
	notifs   NotificationService
	products ProductService
	settings SettingsService
	stats    StatsService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sessions SessionService, notifs NotificationService, products ProductService, settings SettingsService, stats StatsService) *Handlers {
	return &Handlers{
		sessions: sessions,
		notifs:   notifs,
		products: products,
		settings: settings,
		stats:    stats,
	}
}

//
// DTOs
//

// CreateSessionRequest is the JSON payload for starting a purchase.
type CreateSessionRequest struct {
	// BuyerRef identifies the buyer (chat or account reference).
	BuyerRef string `json:"buyer_ref" binding:"required" example:"tg:5512345678"`
	// DestinationRef is where fulfilment should deliver; defaults to BuyerRef.
	DestinationRef string `json:"destination_ref,omitempty" example:"tg:5512345678"`
	// ItemRef identifies the catalogue product being bought.
	ItemRef string `json:"item_ref" binding:"required" example:"ebook-1"`
	// Username is an optional display name for the buyer registry.
	Username string `json:"username,omitempty" example:"alice"`
}

// SessionResponse is the JSON shape of one pending session.
type SessionResponse struct {
	Key       string `json:"key" example:"tg:5512345678:ebook-1:1756700000"`
	BuyerRef  string `json:"buyer_ref"`
	ItemRef   string `json:"item_ref"`
	Amount    string `json:"amount" example:"17"`
	ExpiresAt string `json:"expires_at" example:"2025-03-01T12:05:10Z"`
	Replayed  bool   `json:"replayed,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSessionsResponse wraps a page of sessions and pagination information.
type ListSessionsResponse struct {
	Sessions   []domain.Session `json:"sessions"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

func sessionResponse(s *domain.Session, replayed bool) SessionResponse {
	return SessionResponse{
		Key:       s.Key,
		BuyerRef:  s.BuyerRef,
		ItemRef:   s.ItemRef,
		Amount:    s.AmountKey,
		ExpiresAt: s.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		Replayed:  replayed,
	}
}

func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// CreateSession godoc
// @ID          createSession
// @Summary     Start a purchase session
// @Description Reserves a unique payable amount for the product and returns the pending session. Retries with the same Idempotency-Key replay the original session.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Safe-retry key"  example(9b2d...)
// @Param       body             body    handlers.CreateSessionRequest  true  "Create session payload"
//
// @Success     201  {object}  handlers.SessionResponse
// @Success     200  {object}  handlers.SessionResponse  "Replayed via Idempotency-Key"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown product"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	out, err := h.sessions.Create(c.Request.Context(), services.CreateSessionInput{
		BuyerRef:       req.BuyerRef,
		DestinationRef: req.DestinationRef,
		ItemRef:        req.ItemRef,
		Username:       req.Username,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey)),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingBuyerRef), errors.Is(err, services.ErrMissingItemRef):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrProductNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "product not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	ok(c, status, sessionResponse(out.Session, out.Replayed))
}

// ListSessions godoc
// @ID          listSessions
// @Summary     List pending sessions (paginated)
// @Description Returns a page of unexpired, unmatched sessions for the operator view.
// @Tags        Sessions
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSessionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions [get]
func (h *Handlers) ListSessions(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.sessions.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSessionsResponse{
		Sessions:   items,
		Pagination: paginationFor(page, pageSize, total),
	})
}
