package cmd

import (
	"fmt"

	"smsledger/internal/cli"
	"smsledger/internal/model"
	"smsledger/internal/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the full financial report",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	result, _, err := loadResult()
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderTitle("Financial Report · " + cli.FormatMonth(result.TargetMonth)))
	fmt.Println()

	fmt.Print(renderMonthlyTable(result.Months))
	fmt.Println()
	fmt.Print(renderWeeklyTable(result))
	fmt.Println()
	printAlerts(result)
	fmt.Println()
	printBudgetBar(result)

	return nil
}

func renderMonthlyTable(months []model.MonthlyStats) string {
	rows := make([][]string, 0, len(months))
	for _, m := range months {
		rows = append(rows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatAmount(m.Income),
			cli.FormatAmount(m.Expense),
			cli.FormatPercent(m.SpendingRatio),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Monthly Summary",
		Headers: []string{"Month", "Income", "Expense", "Spending Ratio"},
		Rows:    rows,
	})
}

func renderWeeklyTable(r *pipeline.Result) string {
	rows := make([][]string, 0, len(r.Weeks))
	for _, w := range r.Weeks {
		rows = append(rows, []string{
			cli.FormatDate(w.WeekStart) + " – " + cli.FormatDate(w.WeekEnd),
			cli.FormatAmount(w.WeeklyExpense),
			cli.FormatAmount(w.CumulativeExpense),
			cli.FormatAmount(w.RemainingBudget),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Weekly Summary · " + cli.FormatMonth(r.TargetMonth),
		Headers: []string{"Week", "Expense", "Cumulative", "Remaining"},
		Rows:    rows,
	})
}

func printAlerts(r *pipeline.Result) {
	if len(r.Alerts) == 0 {
		fmt.Println("  No weekly alerts.")
		return
	}
	fmt.Println("  Weekly Alerts")
	for _, a := range r.Alerts {
		fmt.Println(cli.RenderAlert(a.Message, a.Exceeded))
	}
}

func printBudgetBar(r *pipeline.Result) {
	if r.Forecast.EstimatedBudget <= 0 {
		return
	}
	spent := 0.0
	if n := len(r.Weeks); n > 0 {
		spent = r.Weeks[n-1].CumulativeExpense
	}
	fmt.Printf("  Budget %s · spent %s\n",
		cli.FormatAmount(r.Forecast.EstimatedBudget),
		cli.FormatAmount(spent))
	fmt.Println("  " + cli.RenderBudgetBar(spent, r.Forecast.EstimatedBudget, 40))
}
