package pipeline

import (
	"encoding/json"
	"time"

	"smsledger/internal/model"
	"smsledger/internal/source"
)

// Result holds every derived view for one full pipeline run. All entities
// are recomputed from scratch per run; nothing is carried between runs.
type Result struct {
	TargetMonth  time.Time
	Transactions []model.Transaction
	Months       []model.MonthlyStats
	Weeks        []model.WeeklyStats
	Forecast     model.Forecast
	Alerts       []model.Alert
}

// Run executes the complete batch transform: filter, extract, categorize,
// aggregate, forecast. target must resolve to a calendar month (the zero
// time returns ErrInvalidMonth); an empty message set returns
// ErrNoMessages. Degenerate-but-valid inputs — no qualifying transactions,
// no target-month activity, no prior months — produce defined zero-valued
// output rather than errors.
func (p *Pipeline) Run(msgs []source.RawMessage, target time.Time, progressFn ProgressFunc) (*Result, error) {
	if target.IsZero() {
		return nil, ErrInvalidMonth
	}

	txs, err := p.Transactions(msgs, progressFn)
	if err != nil {
		return nil, err
	}

	r := &Result{
		TargetMonth:  MonthOf(target),
		Transactions: txs,
	}

	r.Months = AggregateMonths(txs)
	monthTxs := FilterMonth(txs, r.TargetMonth)
	r.Forecast = BuildForecast(r.Months, monthTxs, r.TargetMonth, p.FallbackRatio)
	r.Weeks = ApplyForecast(AggregateWeeks(txs, r.TargetMonth), r.Forecast)
	r.Alerts = BuildAlerts(r.Weeks, r.Forecast)

	return r, nil
}

// EncodeReport renders the report document as indented JSON, matching the
// export file layout. Encoding the same report twice is byte-identical.
func EncodeReport(rep model.Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "    ")
}

// BuildReport assembles the JSON report document from a pipeline result.
// Slices are always non-nil so the degenerate all-zero case still encodes
// as well-formed JSON arrays.
func BuildReport(r *Result) model.Report {
	rep := model.Report{
		MonthlySummary: []model.MonthlyRow{},
		WeeklySummary:  []model.WeeklyRow{},
		WeeklyAlerts:   []string{},
	}

	for _, ms := range r.Months {
		rep.MonthlySummary = append(rep.MonthlySummary, model.MonthlyRow{
			Month:            ms.Month.Format("2006-01"),
			Income:           ms.Income,
			Expense:          ms.Expense,
			SpendingRatioPct: ms.SpendingRatio * 100,
		})
	}

	for _, wk := range r.Weeks {
		rep.WeeklySummary = append(rep.WeeklySummary, model.WeeklyRow{
			WeekStart:         wk.WeekStart.Format("2006-01-02"),
			WeekEnd:           wk.WeekEnd.Format("2006-01-02"),
			WeeklyExpense:     wk.WeeklyExpense,
			CumulativeExpense: wk.CumulativeExpense,
			RemainingBudget:   wk.RemainingBudget,
			EstimatedBudget:   wk.EstimatedBudget,
			FirstWeekIncome:   wk.FirstWeekIncome,
		})
	}

	for _, a := range r.Alerts {
		rep.WeeklyAlerts = append(rep.WeeklyAlerts, a.Message)
	}

	return rep
}
