package pipeline

import (
	"math"
	"strings"
	"testing"

	"smsledger/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildForecast(t *testing.T) {
	target := date(2025, 10, 1)
	months := []model.MonthlyStats{
		{Month: date(2025, 8, 1), SpendingRatio: 0.5},
		{Month: date(2025, 9, 1), SpendingRatio: 0.7},
		{Month: date(2025, 10, 1), SpendingRatio: 0.9}, // target month excluded
	}
	monthTxs := []model.Transaction{
		tx(date(2025, 10, 1), model.Credit, 3000),
		tx(date(2025, 10, 5), model.Credit, 2000),
		tx(date(2025, 10, 10), model.Credit, 9999), // past first week
		tx(date(2025, 10, 2), model.Debit, 400),
	}

	f := BuildForecast(months, monthTxs, target, 0.8)

	if !almostEqual(f.AvgSpendingRatio, 0.6) {
		t.Errorf("avg ratio = %v, want 0.6 (mean of prior months)", f.AvgSpendingRatio)
	}
	if f.FirstWeekIncome != 5000 {
		t.Errorf("first week income = %v, want 5000", f.FirstWeekIncome)
	}
	if !almostEqual(f.EstimatedBudget, 3000) {
		t.Errorf("estimated budget = %v, want 3000", f.EstimatedBudget)
	}
}

func TestBuildForecastFallbackRatio(t *testing.T) {
	target := date(2025, 10, 1)
	monthTxs := []model.Transaction{
		tx(date(2025, 10, 1), model.Credit, 1000),
	}

	f := BuildForecast(nil, monthTxs, target, 0.8)
	if f.AvgSpendingRatio != 0.8 {
		t.Errorf("avg ratio = %v, want fallback 0.8", f.AvgSpendingRatio)
	}
	if !almostEqual(f.EstimatedBudget, 800) {
		t.Errorf("estimated budget = %v, want 800", f.EstimatedBudget)
	}
}

func TestBuildForecastNoIncome(t *testing.T) {
	target := date(2025, 10, 1)
	monthTxs := []model.Transaction{
		tx(date(2025, 10, 3), model.Debit, 500),
	}

	f := BuildForecast(nil, monthTxs, target, 0.8)
	if f.FirstWeekIncome != 0 {
		t.Errorf("first week income = %v, want 0", f.FirstWeekIncome)
	}
	if f.EstimatedBudget != 0 {
		t.Errorf("estimated budget = %v, want 0", f.EstimatedBudget)
	}
}

func TestBuildForecastFirstWeekWindow(t *testing.T) {
	// First transaction is Oct 3, so the window closes Oct 9 inclusive.
	target := date(2025, 10, 1)
	monthTxs := []model.Transaction{
		tx(date(2025, 10, 3), model.Debit, 100),
		tx(date(2025, 10, 9), model.Credit, 2000),  // inside
		tx(date(2025, 10, 10), model.Credit, 3000), // outside
	}

	f := BuildForecast(nil, monthTxs, target, 0.8)
	if f.FirstWeekIncome != 2000 {
		t.Errorf("first week income = %v, want 2000", f.FirstWeekIncome)
	}
}

func TestApplyForecast(t *testing.T) {
	f := model.Forecast{EstimatedBudget: 3000, FirstWeekIncome: 5000}
	weeks := []model.WeeklyStats{
		{WeekStart: date(2025, 9, 29), CumulativeExpense: 1200},
		{WeekStart: date(2025, 10, 6), CumulativeExpense: 3200},
	}

	got := ApplyForecast(weeks, f)
	if got[0].RemainingBudget != 1800 {
		t.Errorf("week 0 remaining = %v, want 1800", got[0].RemainingBudget)
	}
	if got[1].RemainingBudget != -200 {
		t.Errorf("week 1 remaining = %v, want -200", got[1].RemainingBudget)
	}
	for i, w := range got {
		if w.EstimatedBudget != 3000 || w.FirstWeekIncome != 5000 {
			t.Errorf("week %d budget fields not propagated: %+v", i, w)
		}
	}
}

func TestBuildAlerts(t *testing.T) {
	f := model.Forecast{
		Month:           date(2025, 10, 1),
		EstimatedBudget: 3000,
		FirstWeekIncome: 5000,
	}
	weeks := ApplyForecast([]model.WeeklyStats{
		{
			WeekStart:         date(2025, 9, 29),
			WeekEnd:           date(2025, 10, 5),
			WeeklyExpense:     1200,
			CumulativeExpense: 1200,
		},
		{
			WeekStart:         date(2025, 10, 6),
			WeekEnd:           date(2025, 10, 12),
			WeeklyExpense:     2000,
			CumulativeExpense: 3200,
		},
	}, f)

	alerts := BuildAlerts(weeks, f)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}

	want0 := "Week 2025-09-29 - 2025-10-05 (Month: 2025-10): Weekly expenditure ₹1200.00, " +
		"Estimated monthly budget ₹3000.00 (first week income ₹5000.00), Remaining budget ₹1800.00"
	if alerts[0].Message != want0 {
		t.Errorf("alert 0 = %q, want %q", alerts[0].Message, want0)
	}
	if alerts[0].Exceeded {
		t.Error("alert 0 should not be exceeded")
	}

	if !alerts[1].Exceeded {
		t.Error("alert 1 should be exceeded")
	}
	if !strings.HasSuffix(alerts[1].Message, ExceededSuffix) {
		t.Errorf("alert 1 missing exceeded suffix: %q", alerts[1].Message)
	}
	if !strings.Contains(alerts[1].Message, "Remaining budget ₹-200.00") {
		t.Errorf("alert 1 remaining budget wrong: %q", alerts[1].Message)
	}
}

func TestBuildAlertsEmpty(t *testing.T) {
	alerts := BuildAlerts(nil, model.Forecast{})
	if len(alerts) != 0 {
		t.Errorf("got %d alerts, want 0", len(alerts))
	}
}
