package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/clock"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
)

// StatsService reports live operational counts for the admin surface.
type StatsService struct {
	DB    *gorm.DB
	Clock clock.Clock
}

// Stats returns current totals; pending sessions and held slots count only
// rows whose expiry is still in the future.
func (s *StatsService) Stats(ctx context.Context) (*repo.Stats, error) {
	return repo.GetStats(ctx, s.DB, s.Clock.Now())
}
