// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Session
// model.
//
// Error semantics:
//   - When a session is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A duplicate session key surfaces as ErrDuplicate.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSession inserts a pending session row. The caller is expected to have
// reserved the session's amount key beforehand.
func CreateSession(ctx context.Context, db *gorm.DB, s *domain.Session) error {
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetSession fetches a session by its key, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, key string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindMatchingSessions returns every session whose amount key equals
// amountKey and whose validity window covers ts (inclusive on both ends).
// The query does not assume singularity: if two sessions somehow share a key
// and window, both are returned.
func FindMatchingSessions(ctx context.Context, db *gorm.DB, amountKey string, ts time.Time) ([]domain.Session, error) {
	var out []domain.Session
	err := db.WithContext(ctx).
		Where("amount_key = ? AND created_at <= ? AND expires_at >= ?", amountKey, ts.UTC(), ts.UTC()).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// DeleteSession removes a session by key and reports whether a row was
// actually deleted. Deleting an already-removed session is a no-op returning
// false, which is what makes notification reprocessing harmless.
func DeleteSession(ctx context.Context, db *gorm.DB, key string) (bool, error) {
	res := db.WithContext(ctx).Delete(&domain.Session{}, "key = ?", key)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountSessions returns the total number of pending sessions.
func CountSessions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Session{}).Count(&total).Error
	return total, err
}

// ListSessionsPage returns a page of pending sessions ordered by creation
// time descending. The caller computes offset and limit.
func ListSessionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Session, error) {
	var out []domain.Session
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
