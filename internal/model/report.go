package model

// Report is the pipeline's terminal output document. The JSON key spellings
// (including the spaced column names) are part of the export contract and
// must stay byte-compatible across runs on identical input.
type Report struct {
	MonthlySummary []MonthlyRow `json:"monthly_summary"`
	WeeklySummary  []WeeklyRow  `json:"weekly_summary"`
	WeeklyAlerts   []string     `json:"weekly_alerts"`
}

// MonthlyRow is one monthly_summary record.
type MonthlyRow struct {
	Month            string  `json:"Month"` // "2025-10"
	Income           float64 `json:"Income"`
	Expense          float64 `json:"Expense"`
	SpendingRatioPct float64 `json:"Spending Ratio (%)"`
}

// WeeklyRow is one weekly_summary record for the target month.
type WeeklyRow struct {
	WeekStart         string  `json:"week_start"` // "2025-10-06"
	WeekEnd           string  `json:"week_end"`
	WeeklyExpense     float64 `json:"Weekly Expense"`
	CumulativeExpense float64 `json:"Cumulative Expense"`
	RemainingBudget   float64 `json:"Remaining Budget"`
	EstimatedBudget   float64 `json:"Estimated Budget"`
	FirstWeekIncome   float64 `json:"First Week Income"`
}
