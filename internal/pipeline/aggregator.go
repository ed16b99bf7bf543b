package pipeline

import (
	"sort"
	"time"

	"smsledger/internal/model"
)

// MonthOf returns the first day of ts's calendar month, UTC.
func MonthOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday on/before the given date.
func WeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0 ... Sunday = 6
	return dateOf(d).AddDate(0, 0, -offset)
}

// AggregateMonths computes one bucket per calendar month. Credit amounts
// sum into income, debit amounts into expense; transactions with an absent
// date or amount contribute nothing. Months between the first and last
// observed month are materialized with zero values so the range is
// contiguous, and the result is sorted ascending.
func AggregateMonths(txs []model.Transaction) []model.MonthlyStats {
	buckets := make(map[time.Time]*model.MonthlyStats)

	for _, tx := range txs {
		if !tx.HasDate() || tx.Amount == nil {
			continue
		}
		m := MonthOf(tx.Date)
		ms, ok := buckets[m]
		if !ok {
			ms = &model.MonthlyStats{Month: m}
			buckets[m] = ms
		}
		switch tx.Direction {
		case model.Credit:
			ms.Income += *tx.Amount
		case model.Debit:
			ms.Expense += *tx.Amount
		}
	}

	if len(buckets) == 0 {
		return nil
	}

	var first, last time.Time
	for m := range buckets {
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}

	var months []model.MonthlyStats
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		ms := model.MonthlyStats{Month: m}
		if b, ok := buckets[m]; ok {
			ms = *b
		}
		if ms.Income > 0 {
			ms.SpendingRatio = ms.Expense / ms.Income
		}
		months = append(months, ms)
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

// AggregateWeeks buckets the target month's transactions into Monday-start
// calendar weeks. A week is materialized only when at least one transaction
// (of any direction) falls in it; weekly expense sums debit amounts, and
// cumulative expense is the running sum across ascending weeks. Budget
// fields are filled in later by ApplyForecast.
func AggregateWeeks(txs []model.Transaction, month time.Time) []model.WeeklyStats {
	buckets := make(map[time.Time]*model.WeeklyStats)

	for _, tx := range txs {
		if !tx.InMonth(month) {
			continue
		}
		ws := WeekStart(tx.Date)
		wk, ok := buckets[ws]
		if !ok {
			wk = &model.WeeklyStats{
				WeekStart: ws,
				WeekEnd:   ws.AddDate(0, 0, 6),
			}
			buckets[ws] = wk
		}
		if tx.Direction == model.Debit && tx.Amount != nil {
			wk.WeeklyExpense += *tx.Amount
		}
	}

	weeks := make([]model.WeeklyStats, 0, len(buckets))
	for _, wk := range buckets {
		weeks = append(weeks, *wk)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})

	var running float64
	for i := range weeks {
		running += weeks[i].WeeklyExpense
		weeks[i].CumulativeExpense = running
	}

	return weeks
}

// FilterMonth returns the subset of transactions dated in the given month,
// preserving order.
func FilterMonth(txs []model.Transaction, month time.Time) []model.Transaction {
	var out []model.Transaction
	for _, tx := range txs {
		if tx.InMonth(month) {
			out = append(out, tx)
		}
	}
	return out
}
