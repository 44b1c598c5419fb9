// Package notif turns free-text payment notifications into candidate
// monetary amounts.
//
// Upstream notification channels render digits with decorative glyphs that
// are visually identical to ASCII digits but are distinct code points:
// mathematical bold/double-struck digits (𝟙), fullwidth digits, and emoji
// keycaps built from a digit plus enclosing combining marks (1️⃣). A fixed
// substitution table silently drops real payments the first time a new glyph
// style appears, so normalization here is driven by Unicode categories
// instead:
//
//   - every combining/enclosing mark (category M*) is removed, which strips
//     keycap enclosures and variation selectors down to their base digit
//   - every rune that is a decimal digit in any numbering system (category Nd)
//     is replaced by its ASCII equivalent
//   - all other runes pass through untouched
package notif

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// normalizer strips marks and folds all decimal digits to ASCII.
var normalizer = transform.Chain(
	runes.Remove(runes.In(unicode.M)),
	runes.Map(func(r rune) rune {
		if v, ok := digitValue(r); ok {
			return '0' + rune(v)
		}
		return r
	}),
)

// NormalizeDigits returns s with combining marks removed and every decimal
// digit of any script folded to its ASCII equivalent.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		// The chain never fails on valid UTF-8; on malformed input fall back
		// to the original text so the caller's regex simply finds no amount.
		return s
	}
	return out
}

// digitValue reports the numeric value of a rune classified as a decimal
// digit (Unicode category Nd). Every Nd range in the Unicode tables is an
// aligned run of consecutive 0..9 blocks, so the value is the offset from the
// range start modulo ten.
func digitValue(r rune) (int, bool) {
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rng := range unicode.Nd.R16 {
		if uint32(r) >= uint32(rng.Lo) && uint32(r) <= uint32(rng.Hi) {
			return int((uint32(r) - uint32(rng.Lo)) / uint32(rng.Stride) % 10), true
		}
	}
	for _, rng := range unicode.Nd.R32 {
		if uint32(r) >= rng.Lo && uint32(r) <= rng.Hi {
			return int((uint32(r) - rng.Lo) / rng.Stride % 10), true
		}
	}
	return 0, false
}
