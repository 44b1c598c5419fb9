// Package services – Allocator
//
// This file implements the amount allocator: given a product's whole-rupee
// price range and a deadline, it picks an amount no other live session holds
// and reserves its canonical key in the slot store. Candidates are visited in
// random order so a buyer cannot predict the next assigned amount from their
// own. Integers are tried first; only when every integer in the range is held
// does the allocator fall back to two-decimal extensions, which multiply the
// space by a hundred.
package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/upilabs/go-payment-match-backend/internal/amount"
)

// SlotStore is the atomic reserve/release primitive the allocator builds on.
// Reserve must be a single arbitration point: true means this caller now owns
// the key until expiry, false means someone else does.
type SlotStore interface {
	Reserve(ctx context.Context, amountKey string, expiresAt, now time.Time) (bool, error)
	Release(ctx context.Context, amountKey string) error
}

// Allocation is the outcome of an Allocate call. Reserved is false only on
// the degraded path where even the decimal space was exhausted and the
// returned amount holds no slot; callers must treat that as exceptional.
type Allocation struct {
	Amount   decimal.Decimal
	Key      string
	Reserved bool
}

// Allocator assigns unique amounts within a price range.
type Allocator struct {
	Slots SlotStore

	// Shuffle randomizes candidate order; the default uses the shared
	// math/rand source. Tests inject a deterministic permutation.
	Shuffle func([]int)
}

// NewAllocator constructs an Allocator over the given slot store.
func NewAllocator(slots SlotStore) *Allocator {
	return &Allocator{
		Slots: slots,
		Shuffle: func(xs []int) {
			rand.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
		},
	}
}

// Allocate reserves an amount in [min, max] until expiresAt.
//
// Exhaustion handling: once every integer is held the two-decimal fallback is
// tried; if that is exhausted too (effectively unreachable in practice, it
// offers 100x the slots), the last candidate integer is returned unreserved
// rather than failing the purchase. That degraded result is flagged on the
// Allocation and counted, never silently conflated with a reservation.
func (a *Allocator) Allocate(ctx context.Context, min, max int, expiresAt, now time.Time) (Allocation, error) {
	if min < 1 || max < min {
		return Allocation{}, ErrInvalidPriceRange
	}

	ints := make([]int, 0, max-min+1)
	for v := min; v <= max; v++ {
		ints = append(ints, v)
	}
	a.Shuffle(ints)

	for _, v := range ints {
		d := decimal.NewFromInt(int64(v))
		k := amount.Key(d)
		ok, err := a.Slots.Reserve(ctx, k, expiresAt, now)
		if err != nil {
			return Allocation{}, err
		}
		if ok {
			return Allocation{Amount: d, Key: k, Reserved: true}, nil
		}
	}

	// Integer pool exhausted; extend into two-decimal space in the same
	// randomized base order.
	allocatorFallbacks.WithLabelValues("decimal").Inc()
	for _, base := range ints {
		for p := 1; p <= 99; p++ {
			d := amount.FromParts(base, p)
			k := amount.Key(d)
			ok, err := a.Slots.Reserve(ctx, k, expiresAt, now)
			if err != nil {
				return Allocation{}, err
			}
			if ok {
				return Allocation{Amount: d, Key: k, Reserved: true}, nil
			}
		}
	}

	// Bounded-effort degradation: hand out the last candidate without a
	// reservation. Uniqueness is not guaranteed on this path.
	last := ints[len(ints)-1]
	d := decimal.NewFromInt(int64(last))
	allocatorFallbacks.WithLabelValues("unreserved").Inc()
	log.Warn().
		Int("min", min).
		Int("max", max).
		Str("amount", d.String()).
		Msg("amount space exhausted; returning unreserved amount")
	return Allocation{Amount: d, Key: amount.Key(d), Reserved: false}, nil
}
