package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(alertsCmd)
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show weekly budget alerts for the target month",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := loadResult()
		if err != nil {
			return err
		}
		printAlerts(result)
		return nil
	},
}
