package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/upilabs/go-payment-match-backend/internal/domain"
)

// Delivery is everything the fulfilment side needs once a payment matched a
// session: the session itself, the product when it still exists, and the
// match instant.
type Delivery struct {
	Session   domain.Session  `json:"session"`
	Product   *domain.Product `json:"product,omitempty"`
	MatchedAt time.Time       `json:"matched_at"`
	// ProtectContent asks the fulfilment channel to forbid forwarding and
	// saving of the delivered content, per the operator setting.
	ProtectContent bool `json:"protect_content,omitempty"`
}

// Deliverer hands a matched purchase to the fulfilment channel. Implementations
// must be safe for concurrent use.
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}

// LogDeliverer records deliveries in the structured log. It is the default
// when no webhook is configured and is useful in development.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(_ context.Context, d Delivery) error {
	log.Info().
		Str("session_key", d.Session.Key).
		Str("buyer_ref", d.Session.BuyerRef).
		Str("destination_ref", d.Session.DestinationRef).
		Str("item_ref", d.Session.ItemRef).
		Str("amount_key", d.Session.AmountKey).
		Time("matched_at", d.MatchedAt).
		Msg("payment matched")
	return nil
}

// WebhookDeliverer POSTs the delivery as JSON to a configured endpoint.
// Non-2xx responses are errors so the caller can count the failure.
type WebhookDeliverer struct {
	URL    string
	Client *http.Client
}

// NewWebhookDeliverer builds a deliverer with a bounded-timeout client.
func NewWebhookDeliverer(url string, timeout time.Duration) *WebhookDeliverer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDeliverer{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (w *WebhookDeliverer) Deliver(ctx context.Context, d Delivery) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode delivery: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver to webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
