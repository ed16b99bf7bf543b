package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"smsledger/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dataDir := cfg.General.DataDir
		defaultMonth := cfg.General.DefaultMonth
		terms := strings.Join(cfg.Filter.Terms, ", ")
		ratio := strconv.FormatFloat(cfg.Forecast.FallbackRatio, 'f', -1, 64)
		confirmed := true

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Data directory").
					Description("Where the message archive lives (empty = XDG data dir)").
					Value(&dataDir),
				huh.NewInput().
					Title("Default month").
					Description("Target month as YYYY-MM (empty = current month)").
					Value(&defaultMonth).
					Validate(validateMonth),
				huh.NewInput().
					Title("Transaction terms").
					Description("Comma-separated words that mark a transaction SMS").
					Value(&terms),
				huh.NewInput().
					Title("Fallback spending ratio").
					Description("Used when no prior months exist (0-1)").
					Value(&ratio).
					Validate(validateRatio),
				huh.NewConfirm().
					Title("Write config?").
					Affirmative("Save").
					Negative("Cancel").
					Value(&confirmed),
			),
		)

		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "  Setup canceled.")
			return nil
		}

		cfg.General.DataDir = strings.TrimSpace(dataDir)
		cfg.General.DefaultMonth = strings.TrimSpace(defaultMonth)
		cfg.Filter.Terms = splitTerms(terms)
		if f, err := strconv.ParseFloat(strings.TrimSpace(ratio), 64); err == nil {
			cfg.Forecast.FallbackRatio = f
		}

		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", config.ConfigPath())
		return nil
	},
}

func validateMonth(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return fmt.Errorf("want YYYY-MM")
	}
	return nil
}

func validateRatio(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("want a number")
	}
	if f <= 0 || f > 1 {
		return fmt.Errorf("want a ratio between 0 and 1")
	}
	return nil
}

func splitTerms(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
