// Package services – MatchService
//
// This file implements the payment side of the pipeline: ingesting raw
// notification text, extracting the paid amount, and settling every session
// whose window covers the notification against it exactly once.
//
// Concurrency note: two notifications carrying the same amount may arrive
// together. Ingest serializes settlement per amount key with an in-process
// keyed mutex, so the find/deliver/delete sequence for one key never
// interleaves with itself; the row delete remains the final arbiter either
// way, a session already deleted by a racer is simply not counted again.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/amount"
	"github.com/upilabs/go-payment-match-backend/internal/domain"
	"github.com/upilabs/go-payment-match-backend/internal/notif"
	"github.com/upilabs/go-payment-match-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Ignore reasons reported by Ingest when a notification produces no match.
const (
	IgnoreSource    = "source"
	IgnoreMarker    = "marker"
	IgnoreNoAmount  = "no_amount"
	IgnoreNoSession = "no_session"
)

// IngestInput is one raw notification event.
type IngestInput struct {
	RawText string
	Source  string
	SeenAt  time.Time
}

// IngestResult reports what a notification did. Matched is the number of
// sessions settled; Ignored is empty when at least one session matched,
// otherwise one of the Ignore* reasons.
type IngestResult struct {
	Matched   int
	AmountKey string
	Ignored   string
}

// MatchService settles pending sessions against payment notifications.
type MatchService struct {
	DB      *gorm.DB
	Parser  *notif.Parser
	Deliver Deliverer

	// Settings, when set, supplies the protect-content flag forwarded with
	// each delivery.
	Settings *SettingsService

	// SourceChannel, when set, restricts ingestion to notifications whose
	// source matches it; events from anywhere else are ignored.
	SourceChannel string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMatchService constructs a MatchService.
func NewMatchService(db *gorm.DB, parser *notif.Parser, deliver Deliverer, sourceChannel string) *MatchService {
	if deliver == nil {
		deliver = LogDeliverer{}
	}
	return &MatchService{
		DB:            db,
		Parser:        parser,
		Deliver:       deliver,
		SourceChannel: sourceChannel,
		locks:         map[string]*sync.Mutex{},
	}
}

// keyLock returns the mutex guarding settlement of one amount key.
func (m *MatchService) keyLock(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks == nil {
		m.locks = map[string]*sync.Mutex{}
	}
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

// Ingest processes one notification end to end. The zero SeenAt defaults to
// the current time. Ingest never fails on a filtered or unmatched
// notification; errors are reserved for storage problems.
func (m *MatchService) Ingest(ctx context.Context, in IngestInput) (IngestResult, error) {
	tr := otel.Tracer("services/MatchService")
	ctx, span := tr.Start(ctx, "Ingest",
		trace.WithAttributes(attribute.String("notif.source", in.Source)),
	)
	defer span.End()

	if in.SeenAt.IsZero() {
		in.SeenAt = time.Now().UTC()
	}

	if m.SourceChannel != "" && !strings.EqualFold(strings.TrimSpace(in.Source), m.SourceChannel) {
		notificationsIgnored.WithLabelValues(IgnoreSource).Inc()
		return IngestResult{Ignored: IgnoreSource}, nil
	}
	if !m.Parser.IsPaymentNotification(in.RawText) {
		notificationsIgnored.WithLabelValues(IgnoreMarker).Inc()
		return IngestResult{Ignored: IgnoreMarker}, nil
	}
	amt, ok := m.Parser.ParseAmount(in.RawText)
	if !ok {
		notificationsIgnored.WithLabelValues(IgnoreNoAmount).Inc()
		log.Debug().Str("source", in.Source).Msg("payment notification without a parsable amount")
		return IngestResult{Ignored: IgnoreNoAmount}, nil
	}
	key := amount.Key(amt)
	span.SetAttributes(attribute.String("amount.key", key))

	if err := repo.LogPayment(ctx, m.DB, key, in.Source, in.RawText, in.SeenAt); err != nil {
		log.Warn().Err(err).Str("amount_key", key).Msg("payment log write failed")
	}

	l := m.keyLock(key)
	l.Lock()
	defer l.Unlock()

	sessions, err := repo.FindMatchingSessions(ctx, m.DB, key, in.SeenAt)
	if err != nil {
		return IngestResult{AmountKey: key}, err
	}
	if len(sessions) == 0 {
		notificationsIgnored.WithLabelValues(IgnoreNoSession).Inc()
		return IngestResult{AmountKey: key, Ignored: IgnoreNoSession}, nil
	}

	matched := 0
	for i := range sessions {
		n, err := m.settle(ctx, sessions[i], in.SeenAt)
		if err != nil {
			return IngestResult{Matched: matched, AmountKey: key}, err
		}
		matched += n
	}
	if matched == 0 {
		// Every candidate was claimed by a concurrent settle.
		notificationsIgnored.WithLabelValues(IgnoreNoSession).Inc()
		return IngestResult{AmountKey: key, Ignored: IgnoreNoSession}, nil
	}
	return IngestResult{Matched: matched, AmountKey: key}, nil
}

// settle delivers and removes one matched session. The session row delete is
// the commit point: only its winner counts the match and frees the slot.
func (m *MatchService) settle(ctx context.Context, sess domain.Session, at time.Time) (int, error) {
	d := Delivery{Session: sess, MatchedAt: at}
	if m.Settings != nil {
		d.ProtectContent = m.Settings.ProtectContent(ctx)
	}
	if p, err := repo.GetProduct(ctx, m.DB, sess.ItemRef); err == nil {
		d.Product = p
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Str("item_ref", sess.ItemRef).Msg("product lookup for delivery failed")
	}

	if err := m.Deliver.Deliver(ctx, d); err != nil {
		deliveryFailures.Inc()
		log.Error().Err(err).
			Str("session_key", sess.Key).
			Str("destination_ref", sess.DestinationRef).
			Msg("delivery failed; session settles anyway")
	}

	deleted, err := repo.DeleteSession(ctx, m.DB, sess.Key)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return 0, nil
	}
	if err := repo.ReleaseSlot(ctx, m.DB, sess.AmountKey); err != nil {
		log.Warn().Err(err).Str("amount_key", sess.AmountKey).Msg("slot release after match failed")
	}
	paymentsMatched.Inc()
	return 1, nil
}
