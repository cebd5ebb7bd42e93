package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperlab/paper-summarizer/internal/infrastructure/extractor/grobid"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/llm/ollama"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that GROBID and the Ollama models are reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		out := cmd.OutOrStdout()
		healthy := true

		grobidClient := grobid.NewClient(grobid.Config{
			BaseURL:           cfg.GrobidURL,
			RequestsPerSecond: cfg.GrobidRequestsPerSec,
		})
		if err := grobidClient.Healthy(ctx); err != nil {
			healthy = false
			fmt.Fprintf(out, "FAIL grobid %s: %v\n", cfg.GrobidURL, err)
		} else {
			fmt.Fprintf(out, "OK   grobid %s\n", cfg.GrobidURL)
		}

		ollamaClient := ollama.NewClient(cfg.OllamaURL, 15*time.Second)
		models, err := ollamaClient.Models(ctx)
		if err != nil {
			healthy = false
			fmt.Fprintf(out, "FAIL ollama %s: %v\n", cfg.OllamaURL, err)
		} else {
			fmt.Fprintf(out, "OK   ollama %s\n", cfg.OllamaURL)
			for _, model := range []string{cfg.OllamaQuickModel, cfg.OllamaDeepModel} {
				if ollama.HasModel(models, model) {
					fmt.Fprintf(out, "OK   model %s\n", model)
				} else {
					healthy = false
					fmt.Fprintf(out, "FAIL model %s: not pulled\n", model)
				}
			}
		}

		if !healthy {
			return errors.New("one or more dependencies are unavailable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
