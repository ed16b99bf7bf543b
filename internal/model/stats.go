package model

import "time"

// MonthlyStats holds income/expense totals for one calendar month.
// SpendingRatio is expense/income as a plain ratio (0.6, not 60) and is
// defined as 0 when income is 0 so downstream math never divides by zero.
type MonthlyStats struct {
	Month         time.Time // first day of the month, UTC
	Income        float64
	Expense       float64
	SpendingRatio float64
}

// WeeklyStats holds one Monday-start week bucket of the target month.
// CumulativeExpense is the running debit total across buckets in ascending
// week order; RemainingBudget is EstimatedBudget minus that running total.
type WeeklyStats struct {
	WeekStart         time.Time // Monday on/before the bucket's transactions
	WeekEnd           time.Time // WeekStart + 6 days
	WeeklyExpense     float64
	CumulativeExpense float64
	RemainingBudget   float64
	EstimatedBudget   float64
	FirstWeekIncome   float64
}

// Forecast is the budget estimate for one target month.
type Forecast struct {
	Month            time.Time // first day of the target month, UTC
	AvgSpendingRatio float64   // mean prior-month ratio, or the fallback
	FirstWeekIncome  float64
	EstimatedBudget  float64 // FirstWeekIncome * AvgSpendingRatio
}

// Alert is the per-week budget check result.
type Alert struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Message   string
	Exceeded  bool
}
