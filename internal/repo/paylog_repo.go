// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file records accepted payment notifications for
// operator reconciliation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// maxRawTextLen bounds how much of a notification is persisted.
const maxRawTextLen = 500

// LogPayment appends a payment-log row for an accepted notification. Raw text
// is truncated; callers treat failures as non-fatal.
func LogPayment(ctx context.Context, db *gorm.DB, amountKey, source, rawText string, seenAt time.Time) error {
	if len(rawText) > maxRawTextLen {
		rawText = rawText[:maxRawTextLen]
	}
	rec := &domain.PaymentLog{
		ID:        uuid.NewString(),
		AmountKey: amountKey,
		Source:    source,
		RawText:   rawText,
		SeenAt:    seenAt.UTC(),
	}
	return db.WithContext(ctx).Create(rec).Error
}

// CountPayments returns the total number of logged notifications.
func CountPayments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.PaymentLog{}).Count(&total).Error
	return total, err
}

// ListPaymentsPage returns a page of logged notifications, newest first.
func ListPaymentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.PaymentLog, error) {
	var out []domain.PaymentLog
	err := db.WithContext(ctx).
		Order("seen_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
