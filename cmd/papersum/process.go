package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paperlab/paper-summarizer/internal/bootstrap"
	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

var processOut string

var processCmd = &cobra.Command{
	Use:   "process <paper.pdf>",
	Short: "Summarize one local PDF and write its summary record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat input: %w", err)
		}

		app, err := bootstrap.NewLocal(cfg, logger, filepath.Dir(path), processOut)
		if err != nil {
			return err
		}

		doc := &domain.Document{
			ID:         uuid.NewString(),
			Filename:   filepath.Base(path),
			StorageKey: filepath.Base(path),
			ByteSize:   info.Size(),
		}
		rec, err := app.Pipeline.Run(cmd.Context(), doc)
		if err != nil {
			return err
		}
		if err := app.Archive.Save(cmd.Context(), rec); err != nil {
			return fmt.Errorf("write summary record: %w", err)
		}

		printRecord(cmd.OutOrStdout(), rec)
		fmt.Fprintf(cmd.OutOrStdout(), "\nrecord: %s\n", app.Archive.RecordPath(rec.DocumentID))
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processOut, "out", "./data/records", "directory for summary record files")
	rootCmd.AddCommand(processCmd)
}
