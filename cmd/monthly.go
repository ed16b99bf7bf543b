package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Show income, expense, and spending ratio per month",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := loadResult()
		if err != nil {
			return err
		}
		fmt.Print(renderMonthlyTable(result.Months))
		return nil
	},
}
