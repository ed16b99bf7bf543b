package pipeline

import (
	"fmt"
	"time"

	"smsledger/internal/model"
)

// ExceededSuffix is appended to an alert message when the remaining budget
// goes negative.
const ExceededSuffix = " ⚠️ You have exceeded your estimated monthly budget! Please adjust spending."

// BuildForecast derives the target month's budget estimate.
//
// The average spending ratio is the mean of monthly spending ratios over
// months strictly before the target; with no prior months the fallback
// ratio applies. First-week income sums credit amounts dated on/before the
// month's first transaction date plus six days. The estimated budget is
// their product — zero first-week income gives a zero estimate, which is a
// defined outcome, not an error.
func BuildForecast(months []model.MonthlyStats, monthTxs []model.Transaction, target time.Time, fallbackRatio float64) model.Forecast {
	f := model.Forecast{Month: MonthOf(target)}

	var sum float64
	var n int
	for _, ms := range months {
		if ms.Month.Before(f.Month) {
			sum += ms.SpendingRatio
			n++
		}
	}
	if n > 0 {
		f.AvgSpendingRatio = sum / float64(n)
	} else {
		f.AvgSpendingRatio = fallbackRatio
	}

	var firstDate time.Time
	for _, tx := range monthTxs {
		if !tx.HasDate() {
			continue
		}
		if firstDate.IsZero() || tx.Date.Before(firstDate) {
			firstDate = tx.Date
		}
	}
	if !firstDate.IsZero() {
		firstWeekEnd := firstDate.AddDate(0, 0, 6)
		for _, tx := range monthTxs {
			if tx.Direction == model.Credit && tx.Amount != nil && !tx.Date.After(firstWeekEnd) {
				f.FirstWeekIncome += *tx.Amount
			}
		}
	}

	f.EstimatedBudget = f.FirstWeekIncome * f.AvgSpendingRatio
	return f
}

// ApplyForecast fills the budget columns of each week bucket:
// remaining = estimated budget − cumulative expense, exactly.
func ApplyForecast(weeks []model.WeeklyStats, f model.Forecast) []model.WeeklyStats {
	for i := range weeks {
		weeks[i].EstimatedBudget = f.EstimatedBudget
		weeks[i].FirstWeekIncome = f.FirstWeekIncome
		weeks[i].RemainingBudget = f.EstimatedBudget - weeks[i].CumulativeExpense
	}
	return weeks
}

// BuildAlerts produces one alert per week bucket, in ascending week order.
// The message wording and ₹ formatting are part of the report contract.
func BuildAlerts(weeks []model.WeeklyStats, f model.Forecast) []model.Alert {
	alerts := make([]model.Alert, 0, len(weeks))
	for _, w := range weeks {
		msg := fmt.Sprintf(
			"Week %s - %s (Month: %s): Weekly expenditure ₹%.2f, Estimated monthly budget ₹%.2f (first week income ₹%.2f), Remaining budget ₹%.2f",
			w.WeekStart.Format("2006-01-02"),
			w.WeekEnd.Format("2006-01-02"),
			f.Month.Format("2006-01"),
			w.WeeklyExpense,
			w.EstimatedBudget,
			w.FirstWeekIncome,
			w.RemainingBudget,
		)

		a := model.Alert{
			WeekStart: w.WeekStart,
			WeekEnd:   w.WeekEnd,
			Exceeded:  w.RemainingBudget < 0,
		}
		if a.Exceeded {
			msg += ExceededSuffix
		}
		a.Message = msg
		alerts = append(alerts, a)
	}
	return alerts
}
