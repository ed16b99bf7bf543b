package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smsledger/internal/config"
	"smsledger/internal/daemon"
	"smsledger/internal/pipeline"
	"smsledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
)

func init() {
	daemonCmd.Flags().StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 30*time.Second, "Poll interval")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the budget monitor service",
	Long: "Recompute the forecast from the message archive on an interval and " +
		"serve status, the JSON report, and a budget event stream over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var month time.Time
		if flagMonth != "" || cfg.General.DefaultMonth != "" {
			month, err = resolveMonth(cfg)
			if err != nil {
				return err
			}
		}

		svc := daemon.New(daemon.Config{
			ArchivePath: store.Path(config.DataDir(cfg)),
			Month:       month,
			Interval:    flagDaemonInterval,
			Addr:        flagDaemonAddr,
		}, pipeline.New(cfg))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  smsledger daemon listening on %s\n", flagDaemonAddr)
		}
		return svc.Run(ctx)
	},
}
