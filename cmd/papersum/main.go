package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperlab/paper-summarizer/internal/config"
	"github.com/paperlab/paper-summarizer/internal/observability/logging"
)

var (
	cfg    config.Config
	logger *slog.Logger

	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "papersum",
	Short: "Summarize research papers with GROBID and local Ollama models",
	Long: `papersum turns research-paper PDFs into summary records. Extraction goes
through GROBID when it is reachable and falls back to raw PDF text when it
is not; two local Ollama models then produce a quick and a deep summary.

process and batch run the pipeline locally and write JSON records; submit
pushes documents into a service deployment for the worker to pick up.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg = config.Load()
		if cfgFile != "" {
			if err := cfg.ApplyFile(cfgFile); err != nil {
				return err
			}
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger = logging.NewTextLogger("papersum", cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML file overlaying environment configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "papersum: %v\n", err)
		os.Exit(1)
	}
}
