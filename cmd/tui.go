package cmd

import (
	"smsledger/internal/config"
	"smsledger/internal/pipeline"
	"smsledger/internal/store"
	"smsledger/internal/tui"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		month, err := resolveMonth(cfg)
		if err != nil {
			return err
		}

		archivePath := store.Path(config.DataDir(cfg))
		return tui.Run(pipeline.New(cfg), flagInput, archivePath, month)
	},
}
