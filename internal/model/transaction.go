// Package model defines the domain types shared across the pipeline.
package model

import "time"

// Direction classifies a transaction's money flow.
type Direction string

const (
	Credit  Direction = "credit"
	Debit   Direction = "debit"
	Unknown Direction = "unknown"
)

// Transaction is one structured record derived from a raw message.
// Date is the zero time when the message timestamp could not be parsed.
// Amount is nil when no currency-marked token was found in the body;
// absent is distinct from zero and contributes nothing to sums.
type Transaction struct {
	Date        time.Time
	Description string // empty when no counterparty pattern matched
	Amount      *float64
	Direction   Direction
	Category    string // always non-empty; "Other" when nothing matched
}

// HasDate reports whether the transaction carries a resolvable calendar date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// InMonth reports whether the transaction is dated within the given calendar
// month (month given as the first day of the month, UTC).
func (t Transaction) InMonth(month time.Time) bool {
	if !t.HasDate() {
		return false
	}
	return t.Date.Year() == month.Year() && t.Date.Month() == month.Month()
}
