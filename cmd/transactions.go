package cmd

import (
	"fmt"
	"strings"

	"smsledger/internal/cli"
	"smsledger/internal/model"
	"smsledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagTxCategory  string
	flagTxDirection string
	flagTxAll       bool
)

func init() {
	transactionsCmd.Flags().StringVarP(&flagTxCategory, "category", "c", "", "Filter to a category (exact, case-insensitive)")
	transactionsCmd.Flags().StringVar(&flagTxDirection, "direction", "", "Filter to credit or debit")
	transactionsCmd.Flags().BoolVarP(&flagTxAll, "all", "a", false, "Show all months, not just the target month")
	rootCmd.AddCommand(transactionsCmd)
}

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"txns"},
	Short:   "List extracted transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := loadResult()
		if err != nil {
			return err
		}

		txs := result.Transactions
		if !flagTxAll {
			txs = pipeline.FilterMonth(txs, result.TargetMonth)
		}
		if flagTxCategory != "" {
			txs = filterCategory(txs, flagTxCategory)
		}
		if flagTxDirection != "" {
			dir := model.Direction(strings.ToLower(flagTxDirection))
			if dir != model.Credit && dir != model.Debit && dir != model.Unknown {
				return fmt.Errorf("invalid direction %q (want credit, debit, or unknown)", flagTxDirection)
			}
			txs = filterDirection(txs, dir)
		}

		rows := make([][]string, 0, len(txs))
		for _, t := range txs {
			date := "—"
			if t.HasDate() {
				date = cli.FormatDate(t.Date)
			}
			amount := "—"
			if t.Amount != nil {
				amount = cli.FormatAmount(*t.Amount)
			}
			desc := t.Description
			if desc == "" {
				desc = "—"
			}
			rows = append(rows, []string{date, string(t.Direction), amount, desc, t.Category})
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Transactions (%d)", len(txs)),
			Headers: []string{"Date", "Direction", "Amount", "Description", "Category"},
			Rows:    rows,
		}))
		return nil
	},
}

func filterCategory(txs []model.Transaction, category string) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out
}

func filterDirection(txs []model.Transaction, dir model.Direction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if t.Direction == dir {
			out = append(out, t)
		}
	}
	return out
}
