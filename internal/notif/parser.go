package notif

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTriggers are the phrases that introduce a paid amount in PhonePe
// Business notification texts.
var DefaultTriggers = []string{
	"received rs",
	"you've received rs",
}

// Parser extracts a monetary amount from raw notification text. It is
// configured once with the trigger phrases and the channel signature marker,
// and is safe for concurrent use.
type Parser struct {
	// Marker identifies a genuine payment notification (e.g. "phonepe
	// business"). Empty disables the gate.
	Marker string

	re *regexp.Regexp
}

// NewParser compiles a Parser for the given trigger phrases. Phrases are
// matched case-insensitively, may span line breaks, tolerate flexible
// whitespace between words, and accept both ASCII and typographic
// apostrophes. Empty triggers fall back to DefaultTriggers.
func NewParser(marker string, triggers ...string) *Parser {
	if len(triggers) == 0 {
		triggers = DefaultTriggers
	}
	alts := make([]string, 0, len(triggers))
	for _, t := range triggers {
		words := strings.Fields(strings.ToLower(t))
		if len(words) == 0 {
			continue
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			q := regexp.QuoteMeta(w)
			q = strings.ReplaceAll(q, `'`, `['’]`)
			quoted[i] = q
		}
		alts = append(alts, strings.Join(quoted, `\s*`))
	}
	// Trigger, then optional punctuation / currency glyph / whitespace, then
	// a numeric token: digits with optional comma separators and an optional
	// 1-2 digit fraction.
	pat := `(?is)(?:` + strings.Join(alts, `|`) + `)[\s.:,]*₹?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`
	return &Parser{
		Marker: strings.ToLower(strings.TrimSpace(marker)),
		re:     regexp.MustCompile(pat),
	}
}

// IsPaymentNotification reports whether raw carries the configured channel
// signature. Texts mentioning an amount without the marker are treated as
// unrelated chatter.
func (p *Parser) IsPaymentNotification(raw string) bool {
	if p.Marker == "" {
		return true
	}
	return strings.Contains(strings.ToLower(raw), p.Marker)
}

// ParseAmount extracts the paid amount from raw text, or reports ok=false
// when no trigger phrase with a parsable amount is present. Absence is the
// expected outcome for unrelated messages, not an error.
func (p *Parser) ParseAmount(raw string) (decimal.Decimal, bool) {
	norm := NormalizeDigits(raw)
	m := p.re.FindStringSubmatch(norm)
	if m == nil {
		return decimal.Decimal{}, false
	}
	token := strings.ReplaceAll(m[1], ",", "")
	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
