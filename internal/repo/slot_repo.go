// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the slot store: time-bounded exclusive
// claims on amount keys, arbitrated by the primary key on slots.amount_key.
//
// Reservation is a single conditional INSERT; there is deliberately no
// existence-check-then-insert sequence anywhere, so two concurrent
// reservations of the same key are linearized by the database and exactly one
// caller wins. An expired row left behind by an abandoned session does not
// block the key: the loser of the INSERT attempts a single conditional UPDATE
// that takes over the row only if its deadline has passed.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// ErrDuplicate indicates that a uniqueness-constrained record already exists.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a unique/primary-key violation.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}

// ReserveSlot attempts to take exclusive ownership of amountKey until
// expiresAt. It returns true iff this caller now owns the key. A key owned by
// another live reservation returns false with no error; a key whose previous
// owner's deadline has passed is taken over.
func ReserveSlot(ctx context.Context, db *gorm.DB, amountKey string, expiresAt, now time.Time) (bool, error) {
	slot := &domain.Slot{
		AmountKey: amountKey,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now.UTC(),
	}
	err := db.WithContext(ctx).Create(slot).Error
	if err == nil {
		return true, nil
	}
	if !isUniqueViolation(err) {
		return false, err
	}

	// The key is occupied. Claim it only if the existing reservation lapsed;
	// the WHERE clause makes the takeover atomic.
	res := db.WithContext(ctx).Model(&domain.Slot{}).
		Where("amount_key = ? AND expires_at <= ?", amountKey, now.UTC()).
		Updates(map[string]any{
			"expires_at": expiresAt.UTC(),
			"created_at": now.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSlot frees the claim on amountKey. Releasing an absent key is a
// no-op so that duplicate cleanup after a match never errors.
func ReleaseSlot(ctx context.Context, db *gorm.DB, amountKey string) error {
	return db.WithContext(ctx).Delete(&domain.Slot{}, "amount_key = ?", amountKey).Error
}

// GetSlot fetches the slot row for amountKey, or ErrNotFound.
func GetSlot(ctx context.Context, db *gorm.DB, amountKey string) (*domain.Slot, error) {
	var s domain.Slot
	err := db.WithContext(ctx).First(&s, "amount_key = ?", amountKey).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
