// Package amount defines the canonical string form of a monetary value, the
// "amount key", which is the identifier used both for slot locking and for
// matching incoming payment notifications back to sessions.
//
// The rendering rule must be bit-identical on the allocation side and the
// matching side, or reserved amounts would never be found again:
//   - integral values render without a decimal point ("250")
//   - fractional values render with exactly two decimal digits ("250.50")
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Key returns the canonical amount key for a monetary value.
func Key(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.Truncate(0).String()
	}
	return d.StringFixed(2)
}

// FromParts builds the decimal value for an integer rupee base and a two-digit
// fraction in [1,99]. A zero fraction yields the integral value.
func FromParts(base int, fraction int) decimal.Decimal {
	if fraction == 0 {
		return decimal.NewFromInt(int64(base))
	}
	d, _ := decimal.NewFromString(fmt.Sprintf("%d.%02d", base, fraction))
	return d
}

// Display renders an amount for user-facing text using the same integral vs.
// two-decimal rule as Key. Kept separate so presentation can diverge from the
// lock identifier later without touching matching.
func Display(d decimal.Decimal) string {
	return Key(d)
}
