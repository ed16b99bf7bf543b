package extract

import "strings"

// CategoryOther is the fallback label when no rule matches.
const CategoryOther = "Other"

// Rule maps a substring to a category label. Rules are evaluated in slice
// order, so earlier entries win on overlapping substrings — precedence is
// an explicit part of the table, not an accident of map iteration.
type Rule struct {
	Match    string
	Category string
}

// Categorizer assigns exactly one category per transaction using two
// injected, ordered rule tables:
//
//  1. payee overrides — matched against the extracted description only
//  2. keywords — matched against the full body text
//
// Both tiers use case-insensitive substring containment; the first hit
// wins and payee hits never fall through to the keyword table.
type Categorizer struct {
	payees   []Rule
	keywords []Rule
}

// NewCategorizer builds a categorizer from the two rule tables. Match
// strings are lowercased once here so per-message checks stay cheap.
func NewCategorizer(payees, keywords []Rule) *Categorizer {
	return &Categorizer{
		payees:   lowerRules(payees),
		keywords: lowerRules(keywords),
	}
}

func lowerRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Match == "" || r.Category == "" {
			continue
		}
		out = append(out, Rule{Match: strings.ToLower(r.Match), Category: r.Category})
	}
	return out
}

// Categorize resolves the category for a body/description pair. The payee
// tier is skipped when the description is absent; an absent body can still
// match nothing and falls back to CategoryOther.
func (c *Categorizer) Categorize(body, description string) string {
	if description != "" {
		desc := strings.ToLower(description)
		for _, r := range c.payees {
			if strings.Contains(desc, r.Match) {
				return r.Category
			}
		}
	}

	if body != "" {
		lower := strings.ToLower(body)
		for _, r := range c.keywords {
			if strings.Contains(lower, r.Match) {
				return r.Category
			}
		}
	}

	return CategoryOther
}
