// Package domain defines the persistence models for products, payment
// sessions, amount slots, and supporting records. These types are mapped with
// GORM and form the core data layer of the payment-matching application.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable item with a whole-rupee price range. The range
// bounds the candidate amounts the allocator may assign to a session; a fixed
// price is modeled as MinPrice == MaxPrice.
type Product struct {
	ItemID    string    `json:"item_id"    gorm:"type:varchar(64);primaryKey"`
	MinPrice  int       `json:"min_price"  gorm:"not null;check:min_price > 0"`
	MaxPrice  int       `json:"max_price"  gorm:"not null;check:max_price >= min_price"`
	FileRefs  string    `json:"file_refs,omitempty" gorm:"type:text"` // opaque delivery metadata, owned by the delivery layer
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Session is one pending order awaiting a matching payment notification.
//
// While a session with a given AmountKey exists and is unexpired, no other
// session may hold the same AmountKey; that exclusivity is enforced by the
// Slot record, not by this table.
//
// Fields:
//   - Key: unique identifier derived from buyer, item, and creation time.
//   - BuyerRef / DestinationRef: opaque routing identifiers owned by the
//     external messaging layer; the core only threads them through.
//   - ItemRef: the purchased product.
//   - Amount: the reserved value; AmountKey is its canonical string form used
//     for matching and locking.
//   - CreatedAt / ExpiresAt: the validity window (inclusive on both ends).
type Session struct {
	Key            string          `json:"key"             gorm:"type:varchar(128);primaryKey"`
	BuyerRef       string          `json:"buyer_ref"       gorm:"type:varchar(64);not null;index"`
	DestinationRef string          `json:"destination_ref" gorm:"type:varchar(64);not null"`
	ItemRef        string          `json:"item_ref"        gorm:"type:varchar(64);not null"`
	Amount         decimal.Decimal `json:"amount"          gorm:"type:numeric(12,2);not null"`
	AmountKey      string          `json:"amount_key"      gorm:"type:varchar(32);not null;index:idx_sessions_amount_key"`
	CreatedAt      time.Time       `json:"created_at"      gorm:"not null"`
	ExpiresAt      time.Time       `json:"expires_at"      gorm:"not null;index"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// Active reports whether the session window covers the given instant.
// Both bounds are inclusive.
func (s Session) Active(at time.Time) bool {
	return !at.Before(s.CreatedAt) && !at.After(s.ExpiresAt)
}

// Slot is a time-bounded exclusive claim on an amount key. It exists while
// some live session owns the key, or until the sweeper removes it after
// expiry; expiry itself is authoritative, the row is only its record.
type Slot struct {
	AmountKey string    `json:"amount_key" gorm:"type:varchar(32);primaryKey"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

// TableName returns the database table name for Slot.
func (Slot) TableName() string { return "slots" }

// Expired reports whether the slot's claim has lapsed at the given instant.
func (s Slot) Expired(at time.Time) bool {
	return !at.Before(s.ExpiresAt)
}

// User records a buyer seen by the purchase flow, kept for operator stats.
type User struct {
	BuyerRef  string    `json:"buyer_ref" gorm:"type:varchar(64);primaryKey"`
	Username  string    `json:"username"  gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// PaymentLog is a best-effort record of each accepted payment notification,
// kept for operator reconciliation. Failures to write it never block matching.
type PaymentLog struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	AmountKey string    `json:"amount_key" gorm:"type:varchar(32);not null;index"`
	Source    string    `json:"source"     gorm:"type:varchar(64)"`
	RawText   string    `json:"raw_text"   gorm:"type:text"` // truncated upstream
	SeenAt    time.Time `json:"seen_at"    gorm:"not null;index"`
}

// TableName returns the database table name for PaymentLog.
func (PaymentLog) TableName() string { return "payment_log" }

// Setting is one entry of the process-wide runtime configuration that
// operators can change without a restart (welcome text, content protection).
type Setting struct {
	Key       string    `json:"key"   gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string { return "settings" }
