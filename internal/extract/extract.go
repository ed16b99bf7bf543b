package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"smsledger/internal/model"
)

// Default currency markers recognized in front of an amount token.
var DefaultCurrencyMarkers = []string{"Rs.", "Rs", "INR", "₹"}

// direction indicator terms, checked in order against the lowercased body.
// "credited" is checked before any debit term so a body mentioning both
// resolves to credit.
var (
	creditTerms = []string{"credited"}
	debitTerms  = []string{"debited", "sent", "paid"}
)

// counterparty patterns: a case-insensitive preposition followed by a
// case-sensitive run of capitalized words. Lowercase-only names are
// deliberately not captured; see the extractor contract.
var (
	capRun  = `([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*)`
	toPat   = regexp.MustCompile(`\b(?i:to)\s+` + capRun)
	fromPat = regexp.MustCompile(`\b(?i:from)\s+` + capRun)
)

// Extractor performs the three independent field lookups over a body text.
// Each rule succeeds or reports absence on its own; a missed amount never
// blocks direction or description resolution.
type Extractor struct {
	amountPat *regexp.Regexp
}

// NewExtractor builds an extractor recognizing the given currency markers
// (DefaultCurrencyMarkers when empty).
func NewExtractor(markers []string) *Extractor {
	if len(markers) == 0 {
		markers = DefaultCurrencyMarkers
	}
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	// marker, optional space, digits with optional grouping commas and
	// an optional decimal fraction.
	pat := `(?:` + strings.Join(quoted, "|") + `)\s?([\d,]+\.?\d*)`
	return &Extractor{amountPat: regexp.MustCompile(pat)}
}

// Amount returns the first currency-marked numeric token as a non-negative
// decimal, or nil when the body has none. Grouping commas are stripped
// before parsing; absence is distinct from zero.
func (e *Extractor) Amount(body string) *float64 {
	m := e.amountPat.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// Direction classifies the body by indicator term, case-insensitively.
// Credit wins over debit when both appear; an empty body is unknown.
func (e *Extractor) Direction(body string) model.Direction {
	if body == "" {
		return model.Unknown
	}
	lower := strings.ToLower(body)
	for _, t := range creditTerms {
		if strings.Contains(lower, t) {
			return model.Credit
		}
	}
	for _, t := range debitTerms {
		if strings.Contains(lower, t) {
			return model.Debit
		}
	}
	return model.Unknown
}

// Description returns the counterparty name following "to " (preferred)
// or "from ", title-cased and trimmed, or "" when neither pattern finds a
// capitalized run.
func (e *Extractor) Description(body string) string {
	for _, pat := range []*regexp.Regexp{toPat, fromPat} {
		if m := pat.FindStringSubmatch(body); m != nil {
			return titleCase(m[1])
		}
	}
	return ""
}

// titleCase lowercases each word and capitalizes its first letter,
// collapsing internal whitespace runs.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
