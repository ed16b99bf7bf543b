package tui

import (
	"fmt"
	"strings"

	"smsledger/internal/cli"
	"smsledger/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cli.ColorAccent).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(cli.ColorTextDim)

	errStyle = lipgloss.NewStyle().
			Foreground(cli.ColorRed).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.ColorAccent).
			Padding(1, 3)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(cli.ColorText).
			Background(cli.ColorBorder).
			Bold(true).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(cli.ColorTextMuted).
				Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Foreground(cli.ColorAccent).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(cli.ColorText).
				Background(cli.ColorBorder)

	creditStyle = lipgloss.NewStyle().Foreground(cli.ColorGreen)
	debitStyle  = lipgloss.NewStyle().Foreground(cli.ColorOrange)
)

func renderTabBar(active, width int) string {
	var b strings.Builder
	for i, name := range tabs {
		label := fmt.Sprintf("%s [%s]", name, strings.ToLower(name[:1]))
		if i == active {
			b.WriteString(tabActiveStyle.Render(label))
		} else {
			b.WriteString(tabInactiveStyle.Render(label))
		}
		if i < len(tabs)-1 {
			b.WriteString(dimStyle.Render("│"))
		}
	}
	bar := b.String()
	underline := dimStyle.Render(strings.Repeat("─", width))
	return bar + "\n" + underline
}

func progressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	fillStyle := lipgloss.NewStyle().Foreground(cli.ColorAccent)
	return fillStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
}

func (a App) renderOverviewTab(width int) string {
	r := a.result
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + sectionStyle.Render("Budget · "+r.TargetMonth.Format("January 2006")))
	b.WriteString("\n\n")

	spent := 0.0
	if n := len(r.Weeks); n > 0 {
		spent = r.Weeks[n-1].CumulativeExpense
	}

	rows := [][]string{
		{"Estimated budget", cli.FormatAmount(r.Forecast.EstimatedBudget)},
		{"First week income", cli.FormatAmount(r.Forecast.FirstWeekIncome)},
		{"Avg spending ratio", cli.FormatPercent(r.Forecast.AvgSpendingRatio)},
		{"Spent so far", cli.FormatAmount(spent)},
		{"Remaining", cli.FormatAmount(r.Forecast.EstimatedBudget - spent)},
	}
	b.WriteString(cli.RenderTable(cli.Table{Rows: rows}))

	if r.Forecast.EstimatedBudget > 0 {
		barW := width - 14
		if barW > 50 {
			barW = 50
		}
		if barW > 0 {
			b.WriteString("\n  ")
			b.WriteString(cli.RenderBudgetBar(spent, r.Forecast.EstimatedBudget, barW))
			b.WriteString("\n")
		}
	}

	if len(r.Weeks) > 0 {
		values := make([]float64, len(r.Weeks))
		for i, w := range r.Weeks {
			values[i] = w.WeeklyExpense
		}
		b.WriteString("\n  " + sectionStyle.Render("Weekly spend"))
		b.WriteString("  " + cli.RenderSparkline(values))
		b.WriteString("\n")
	}

	if len(r.Alerts) > 0 {
		b.WriteString("\n  " + sectionStyle.Render("Alerts"))
		b.WriteString("\n")
		for _, alert := range r.Alerts {
			b.WriteString(cli.RenderAlert(alert.Message, alert.Exceeded))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (a App) renderMonthlyTab(_ int) string {
	r := a.result
	var b strings.Builder

	b.WriteString("\n")
	rows := make([][]string, 0, len(r.Months))
	for _, m := range r.Months {
		rows = append(rows, []string{
			cli.FormatMonth(m.Month),
			cli.FormatAmount(m.Income),
			cli.FormatAmount(m.Expense),
			cli.FormatPercent(m.SpendingRatio),
		})
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Monthly Summary",
		Headers: []string{"Month", "Income", "Expense", "Spending Ratio"},
		Rows:    rows,
	}))

	return b.String()
}

func (a App) renderWeeklyTab(_ int) string {
	r := a.result
	var b strings.Builder

	b.WriteString("\n")
	rows := make([][]string, 0, len(r.Weeks))
	for _, w := range r.Weeks {
		rows = append(rows, []string{
			cli.FormatDate(w.WeekStart) + " – " + cli.FormatDate(w.WeekEnd),
			cli.FormatAmount(w.WeeklyExpense),
			cli.FormatAmount(w.CumulativeExpense),
			cli.FormatAmount(w.RemainingBudget),
		})
	}
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Weekly Summary · " + r.TargetMonth.Format("2006-01"),
		Headers: []string{"Week", "Expense", "Cumulative", "Remaining"},
		Rows:    rows,
	}))

	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("  No transactions in the target month.\n"))
	}

	return b.String()
}

func (a App) renderTransactionsTab(_, height int) string {
	r := a.result
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + sectionStyle.Render(fmt.Sprintf("Transactions (%d)", len(r.Transactions))))
	b.WriteString("\n\n")

	visible := height - 5
	if visible < 3 {
		visible = 3
	}

	start := 0
	if a.txCursor >= visible {
		start = a.txCursor - visible + 1
	}
	end := start + visible
	if end > len(r.Transactions) {
		end = len(r.Transactions)
	}

	for i := start; i < end; i++ {
		t := r.Transactions[i]
		b.WriteString(renderTransactionRow(t, i == a.txCursor))
		b.WriteString("\n")
	}

	if len(r.Transactions) == 0 {
		b.WriteString(dimStyle.Render("  No transactions extracted.\n"))
	}

	return b.String()
}

func renderTransactionRow(t model.Transaction, selected bool) string {
	date := "          "
	if t.HasDate() {
		date = cli.FormatDate(t.Date)
	}

	amount := "        —"
	if t.Amount != nil {
		amount = cli.FormatAmount(*t.Amount)
	}

	desc := t.Description
	if desc == "" {
		desc = "—"
	}
	if len([]rune(desc)) > 24 {
		desc = string([]rune(desc)[:23]) + "…"
	}

	dirLabel := string(t.Direction)
	line := fmt.Sprintf("  %s  %-7s %12s  %-24s %s",
		date, dirLabel, amount, desc, t.Category)

	if selected {
		return selectedRowStyle.Render(line)
	}
	switch t.Direction {
	case model.Credit:
		return creditStyle.Render(line)
	case model.Debit:
		return debitStyle.Render(line)
	default:
		return dimStyle.Render(line)
	}
}
