// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the operator endpoints. Each function is context-aware and safe to call
// from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// Stats is the aggregate snapshot shown to operators.
type Stats struct {
	Users           int64 `json:"users"`
	PendingSessions int64 `json:"pending_sessions"`
	HeldSlots       int64 `json:"held_slots"`
	Products        int64 `json:"products"`
	PaymentsLogged  int64 `json:"payments_logged"`
}

// GetStats counts users, live sessions/slots (window covering now), products,
// and logged payments in one pass.
func GetStats(ctx context.Context, db *gorm.DB, now time.Time) (*Stats, error) {
	var s Stats

	if err := db.WithContext(ctx).Model(&domain.User{}).Count(&s.Users).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Session{}).
		Where("expires_at > ?", now.UTC()).
		Count(&s.PendingSessions).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Slot{}).
		Where("expires_at > ?", now.UTC()).
		Count(&s.HeldSlots).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Product{}).Count(&s.Products).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.PaymentLog{}).Count(&s.PaymentsLogged).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
