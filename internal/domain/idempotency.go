// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed
// session-creation request, keyed by (buyer_ref, item_ref, key). It lets a
// buyer retry POST /sessions without reserving a second amount: the stored
// session key identifies the originally created session.
type Idempotency struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	BuyerRef   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_buyer_item_key,priority:1"`
	ItemRef    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_buyer_item_key,priority:2"`
	Key        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_buyer_item_key,priority:3"`
	SessionKey string    `gorm:"type:TEXT NOT NULL"`
	Status     int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
