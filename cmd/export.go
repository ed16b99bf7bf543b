package cmd

import (
	"fmt"
	"os"

	"smsledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagExportOut string

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "financial_summary.json", "Output file ('-' for stdout)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the financial report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, _, err := loadResult()
		if err != nil {
			return err
		}

		data, err := pipeline.EncodeReport(pipeline.BuildReport(result))
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		if flagExportOut == "-" {
			fmt.Println(string(data))
			return nil
		}

		if err := os.WriteFile(flagExportOut, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagExportOut)
		}
		return nil
	},
}
