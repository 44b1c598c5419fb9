// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the buyer registry: an upsert keyed on
// buyer_ref, recorded whenever the purchase flow sees a buyer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// UpsertUser records (or refreshes) a buyer. Last-seen username wins.
func UpsertUser(ctx context.Context, db *gorm.DB, buyerRef, username string) error {
	now := time.Now().UTC()
	u := &domain.User{
		BuyerRef:  buyerRef,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_ref"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
		}).
		Create(u).Error
}

// CountUsers returns the total number of buyers seen so far.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}
