// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file persists the runtime settings that operators can
// flip without a restart.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// GetSetting returns the stored value for key, or ErrNotFound.
func GetSetting(ctx context.Context, db *gorm.DB, key string) (string, error) {
	var s domain.Setting
	if err := db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

// SetSetting stores value under key, inserting or overwriting.
func SetSetting(ctx context.Context, db *gorm.DB, key, value string) error {
	s := &domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(s).Error
}

// SeedSetting writes a default value only when the key is absent, so operator
// overrides survive restarts.
func SeedSetting(ctx context.Context, db *gorm.DB, key, value string) error {
	_, err := GetSetting(ctx, db, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return SetSetting(ctx, db, key, value)
}

// ListSettings returns all stored settings ordered by key.
func ListSettings(ctx context.Context, db *gorm.DB) ([]domain.Setting, error) {
	var out []domain.Setting
	err := db.WithContext(ctx).Order("key asc").Find(&out).Error
	return out, err
}
