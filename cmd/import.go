package cmd

import (
	"fmt"
	"os"

	"smsledger/internal/config"
	"smsledger/internal/source"
	"smsledger/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagImportCSV    string
	flagImportBackup string
)

func init() {
	importCmd.Flags().StringVar(&flagImportCSV, "csv", "", "SMS dump CSV file to import")
	importCmd.Flags().StringVar(&flagImportBackup, "backup", "", "iPhone backup directory to import")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import messages into the local archive",
	Long: "Import raw SMS messages from a CSV dump or an iPhone backup into " +
		"the local archive. Re-importing the same messages is idempotent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagImportCSV == "" && flagImportBackup == "" {
			return fmt.Errorf("nothing to import: pass --csv or --backup")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var msgs []source.RawMessage

		if flagImportCSV != "" {
			csvMsgs, err := source.ReadDumpFile(flagImportCSV)
			if err != nil {
				return fmt.Errorf("reading CSV dump: %w", err)
			}
			msgs = append(msgs, csvMsgs...)
		}

		if flagImportBackup != "" {
			dbPath, err := source.FindMessageDB(flagImportBackup)
			if err != nil {
				return err
			}
			if dbPath == "" {
				return fmt.Errorf("no message database found under %s", flagImportBackup)
			}
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Found message db: %s\n", dbPath)
			}
			backupMsgs, err := source.ReadBackupDB(dbPath)
			if err != nil {
				return err
			}
			msgs = append(msgs, backupMsgs...)
		}

		if len(msgs) == 0 {
			return fmt.Errorf("no messages found in the given sources")
		}

		archivePath := store.Path(config.DataDir(cfg))
		archive, err := store.Open(archivePath)
		if err != nil {
			return err
		}
		defer func() { _ = archive.Close() }()

		if err := archive.SaveMessages(msgs); err != nil {
			return fmt.Errorf("saving messages: %w", err)
		}

		total, err := archive.Count()
		if err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Imported %d messages (%d total in archive)\n", len(msgs), total)
		}
		return nil
	},
}
