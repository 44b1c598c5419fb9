// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// model. The core only reads the price range; mutation happens through the
// admin endpoints.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// CreateProduct inserts a product. A duplicate item_id surfaces as
// ErrDuplicate.
func CreateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetProduct fetches a product by item id, or ErrNotFound.
func GetProduct(ctx context.Context, db *gorm.DB, itemID string) (*domain.Product, error) {
	var p domain.Product
	if err := db.WithContext(ctx).First(&p, "item_id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountProducts returns the total number of products.
func CountProducts(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, err
}

// ListProductsPage returns a page of products ordered by creation time
// descending.
func ListProductsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
