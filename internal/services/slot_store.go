package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/repo"
)

// DBSlotStore backs the allocator with the slots table, whose primary-key
// insert is the single arbitration point across processes.
type DBSlotStore struct {
	DB *gorm.DB
}

func (s DBSlotStore) Reserve(ctx context.Context, amountKey string, expiresAt, now time.Time) (bool, error) {
	return repo.ReserveSlot(ctx, s.DB, amountKey, expiresAt, now)
}

func (s DBSlotStore) Release(ctx context.Context, amountKey string) error {
	return repo.ReleaseSlot(ctx, s.DB, amountKey)
}
