package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paperlab/paper-summarizer/internal/bootstrap"
	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/usecase"
)

var (
	batchOut     string
	batchMax     int
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Summarize every PDF in a directory and write a batch report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve directory: %w", err)
		}
		docs, err := discoverPDFs(dir, batchMax)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no PDF files in %s", dir)
		}

		app, err := bootstrap.NewLocal(cfg, logger, dir, batchOut)
		if err != nil {
			return err
		}

		batch := usecase.NewBatchSummarizeUseCase(app.Pipeline, app.Archive, batchWorkers, logger)
		report := batch.Run(cmd.Context(), docs)

		reportPath := filepath.Join(batchOut, "batch_report.json")
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal batch report: %w", err)
		}
		if err := os.WriteFile(reportPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write batch report: %w", err)
		}

		printBatchReport(cmd.OutOrStdout(), report)
		fmt.Fprintf(cmd.OutOrStdout(), "\nreport: %s\n", reportPath)
		return nil
	},
}

// discoverPDFs lists the PDFs directly under dir, capped at max when max > 0.
// os.ReadDir returns entries sorted by name, so the batch order is stable.
func discoverPDFs(dir string, max int) ([]*domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var docs []*domain.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		docs = append(docs, &domain.Document{
			ID:         uuid.NewString(),
			Filename:   entry.Name(),
			StorageKey: entry.Name(),
			ByteSize:   size,
		})
	}
	if max > 0 && len(docs) > max {
		docs = docs[:max]
	}
	return docs, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "./data/records", "directory for summary records and the batch report")
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "process at most this many PDFs (0 = all)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 2, "documents summarized concurrently")
	rootCmd.AddCommand(batchCmd)
}
