package cmd

import (
	"fmt"
	"os"
	"time"

	"smsledger/internal/config"
	"smsledger/internal/pipeline"
	"smsledger/internal/source"
	"smsledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagInput   string
	flagMonth   string
	flagDataDir string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "smsledger",
	Short: "SMS transaction ledger and budget forecaster",
	Long: "Extract bank transactions from SMS dumps, categorize them, " +
		"and forecast a monthly budget with weekly alerts.",
	RunE: runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "SMS dump CSV file (default: message archive)")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Target month as YYYY-MM (default: current month)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory holding the message archive")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// resolveMonth picks the target month: --month flag, then the configured
// default, then the current month.
func resolveMonth(cfg config.Config) (time.Time, error) {
	raw := flagMonth
	if raw == "" {
		raw = cfg.General.DefaultMonth
	}
	if raw == "" {
		return pipeline.MonthOf(time.Now()), nil
	}

	m, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", raw, err)
	}
	return m, nil
}

// loadMessages reads raw messages from the --input CSV when given,
// otherwise from the local archive.
func loadMessages(cfg config.Config) ([]source.RawMessage, error) {
	if flagInput != "" {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Reading %s...\n", flagInput)
		}
		return source.ReadDumpFile(flagInput)
	}

	archivePath := store.Path(config.DataDir(cfg))
	archive, err := store.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = archive.Close() }()

	msgs, err := archive.LoadMessages()
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("message archive at %s is empty; run 'smsledger import' or pass --input", archivePath)
	}
	return msgs, nil
}

func progressFn(current, total int) {
	if flagQuiet {
		return
	}
	if current%500 == 0 || current == total {
		fmt.Fprintf(os.Stderr, "\r  Extracting [%d/%d]", current, total)
	}
}

// loadResult is the shared pipeline path used by the reporting commands.
func loadResult() (*pipeline.Result, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}

	target, err := resolveMonth(cfg)
	if err != nil {
		return nil, cfg, err
	}

	msgs, err := loadMessages(cfg)
	if err != nil {
		return nil, cfg, err
	}

	p := pipeline.New(cfg)
	result, err := p.Run(msgs, target, progressFn)
	if err != nil {
		return nil, cfg, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Extracted %d transactions from %d messages    \n",
			len(result.Transactions), len(msgs))
	}

	return result, cfg, nil
}
