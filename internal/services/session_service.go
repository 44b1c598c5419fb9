// Package services – SessionService
//
// This file implements SessionService, the application-level component that
// owns the purchase side of the pipeline. It validates input, resolves the
// product's price range, reserves a unique amount through the allocator, and
// persists the session whose window the match engine will later query.
//
// Optional enhancement: a client-supplied Idempotency-Key lets a buyer retry
// session creation without reserving a second amount; the original session is
// replayed instead.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// buyer/item identifiers and the allocated amount key.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/clock"
	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default window: a buyer has five minutes to pay, plus a short grace period
// for notification latency.
const (
	DefaultPayWindow = 5 * time.Minute
	DefaultGrace     = 10 * time.Second
)

// SessionService coordinates amount allocation and session persistence.
type SessionService struct {
	DB    *gorm.DB
	Alloc *Allocator
	Clock clock.Clock

	// Window and Grace define the session validity interval; zero values
	// fall back to the defaults above.
	Window time.Duration
	Grace  time.Duration

	// IdempotencyTTL bounds how long a Idempotency-Key replays the original
	// session; zero falls back to the session window.
	IdempotencyTTL time.Duration
}

// CreateSessionInput carries a purchase request into the core.
type CreateSessionInput struct {
	BuyerRef       string
	DestinationRef string
	ItemRef        string
	Username       string
	IdempotencyKey string
}

// CreatedSession is the outcome of Create. Replayed is true when an
// Idempotency-Key matched a previous request and no new amount was reserved;
// Reserved mirrors the allocator's degraded-path flag.
type CreatedSession struct {
	Session  *domain.Session
	Reserved bool
	Replayed bool
}

// window returns the effective validity duration.
func (s *SessionService) window() time.Duration {
	w, g := s.Window, s.Grace
	if w <= 0 {
		w = DefaultPayWindow
	}
	if g <= 0 {
		g = DefaultGrace
	}
	return w + g
}

// Create validates the request, reserves a unique amount for the product's
// price range, and persists the pending session. The returned session's
// Amount is what the buyer must pay, exactly, within the window.
func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*CreatedSession, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("buyer.ref", in.BuyerRef),
			attribute.String("item.ref", in.ItemRef),
		),
	)
	defer span.End()

	in.BuyerRef = strings.TrimSpace(in.BuyerRef)
	in.ItemRef = strings.TrimSpace(in.ItemRef)
	if in.BuyerRef == "" {
		return nil, ErrMissingBuyerRef
	}
	if in.ItemRef == "" {
		return nil, ErrMissingItemRef
	}
	if strings.TrimSpace(in.DestinationRef) == "" {
		in.DestinationRef = in.BuyerRef
	}

	now := s.Clock.Now()

	// Replay a previous creation when the buyer retries with the same key.
	if in.IdempotencyKey != "" {
		if rec, err := repo.GetIdempotency(ctx, s.DB, in.BuyerRef, in.ItemRef, in.IdempotencyKey, now); err == nil {
			if prev, err := repo.GetSession(ctx, s.DB, rec.SessionKey); err == nil {
				return &CreatedSession{Session: prev, Reserved: true, Replayed: true}, nil
			}
			// The original session was matched or expired meanwhile; fall
			// through and create a fresh one.
		}
	}

	product, err := repo.GetProduct(ctx, s.DB, in.ItemRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	expiresAt := now.Add(s.window())
	alloc, err := s.Alloc.Allocate(ctx, product.MinPrice, product.MaxPrice, expiresAt, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("amount.key", alloc.Key))

	sess := &domain.Session{
		Key:            fmt.Sprintf("%s:%s:%d", in.BuyerRef, in.ItemRef, now.Unix()),
		BuyerRef:       in.BuyerRef,
		DestinationRef: in.DestinationRef,
		ItemRef:        in.ItemRef,
		Amount:         alloc.Amount,
		AmountKey:      alloc.Key,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
	}
	if err := repo.CreateSession(ctx, s.DB, sess); err != nil {
		if !errors.Is(err, repo.ErrDuplicate) {
			s.releaseOnFailure(ctx, alloc)
			return nil, err
		}
		// Same buyer bought the same item within one second; disambiguate.
		sess.Key = sess.Key + ":" + uuid.NewString()[:8]
		if err := repo.CreateSession(ctx, s.DB, sess); err != nil {
			s.releaseOnFailure(ctx, alloc)
			return nil, err
		}
	}

	// Best-effort bookkeeping; neither blocks the purchase.
	if err := repo.UpsertUser(ctx, s.DB, in.BuyerRef, in.Username); err != nil {
		log.Warn().Err(err).Str("buyer_ref", in.BuyerRef).Msg("buyer registry update failed")
	}
	if in.IdempotencyKey != "" {
		ttl := s.IdempotencyTTL
		if ttl <= 0 {
			ttl = s.window()
		}
		if _, err := repo.CreateIdempotency(ctx, s.DB, in.BuyerRef, in.ItemRef, in.IdempotencyKey, sess.Key, 201, ttl); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Err(err).Msg("idempotency record write failed")
		}
	}

	sessionsCreated.Inc()
	return &CreatedSession{Session: sess, Reserved: alloc.Reserved}, nil
}

// releaseOnFailure frees a reserved slot when session persistence fails, so
// the amount does not stay blocked until natural expiry.
func (s *SessionService) releaseOnFailure(ctx context.Context, alloc Allocation) {
	if !alloc.Reserved {
		return
	}
	if err := s.Alloc.Slots.Release(ctx, alloc.Key); err != nil {
		log.Warn().Err(err).Str("amount_key", alloc.Key).Msg("slot release after failed create")
	}
}

// ListPage returns a page of pending sessions with the total count, for the
// operator view.
func (s *SessionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Session, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountSessions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Session{}, 0, nil
	}
	items, err := repo.ListSessionsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
