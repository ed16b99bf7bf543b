// Package extract turns raw message bodies into structured transaction
// fields: filtering, amount/direction/description extraction, and
// rule-table categorization.
package extract

import (
	"regexp"
	"strings"

	"smsledger/internal/source"
)

// Filter selects messages that look like financial transactions by
// whole-word, case-sensitive match of indicator terms against the body.
type Filter struct {
	pattern *regexp.Regexp
}

// NewFilter compiles a filter from indicator terms. Terms are matched
// verbatim (case-sensitive) on word boundaries.
func NewFilter(terms []string) *Filter {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) == 0 {
		// A filter with no terms matches nothing.
		return &Filter{pattern: nil}
	}
	return &Filter{
		pattern: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Match reports whether a single body qualifies. Empty bodies never match.
func (f *Filter) Match(body string) bool {
	if f.pattern == nil || body == "" {
		return false
	}
	return f.pattern.MatchString(body)
}

// Apply returns the subsequence of messages whose bodies qualify,
// preserving input order.
func (f *Filter) Apply(msgs []source.RawMessage) []source.RawMessage {
	var out []source.RawMessage
	for _, m := range msgs {
		if f.Match(m.Body) {
			out = append(out, m)
		}
	}
	return out
}
