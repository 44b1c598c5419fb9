// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains the expiry sweeper, the stand-in for a
// store-level TTL: expired slots and sessions are already invisible to every
// query (all reads filter on expires_at), the sweeper merely reclaims the
// rows so unique keys become insertable again and the tables stay small.
package repo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/clock"
	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// SweepExpired deletes every slot and session whose deadline is at or before
// now. It returns the number of rows removed from each table.
func SweepExpired(ctx context.Context, db *gorm.DB, now time.Time) (slots, sessions int64, err error) {
	res := db.WithContext(ctx).Delete(&domain.Slot{}, "expires_at <= ?", now.UTC())
	if res.Error != nil {
		return 0, 0, res.Error
	}
	slots = res.RowsAffected

	res = db.WithContext(ctx).Delete(&domain.Session{}, "expires_at <= ?", now.UTC())
	if res.Error != nil {
		return slots, 0, res.Error
	}
	sessions = res.RowsAffected

	res = db.WithContext(ctx).Delete(&domain.Idempotency{}, "expires_at <= ?", now.UTC())
	if res.Error != nil {
		return slots, sessions, res.Error
	}
	return slots, sessions, nil
}

// StartSweeper runs SweepExpired every interval until ctx is canceled.
// Failures are logged and retried on the next tick; a flaky database must not
// take the sweeper down.
func StartSweeper(ctx context.Context, db *gorm.DB, clk clock.Clock, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				slots, sessions, err := SweepExpired(ctx, db, clk.Now())
				if err != nil {
					log.Warn().Err(err).Msg("expiry sweep failed")
					continue
				}
				if slots > 0 || sessions > 0 {
					log.Debug().
						Int64("slots", slots).
						Int64("sessions", sessions).
						Msg("expired records reclaimed")
				}
			}
		}
	}()
}
