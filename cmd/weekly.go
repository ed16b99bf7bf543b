package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show weekly spend against the estimated budget for the target month",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := loadResult()
		if err != nil {
			return err
		}
		fmt.Print(renderWeeklyTable(result))
		fmt.Println()
		printBudgetBar(result)
		return nil
	},
}
