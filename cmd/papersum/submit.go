package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paperlab/paper-summarizer/internal/bootstrap"
)

var submitCmd = &cobra.Command{
	Use:   "submit <paper.pdf> [more.pdf ...]",
	Short: "Upload PDFs to the service deployment and enqueue them for the worker",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap.NewSubmitter(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		failed := 0
		for _, arg := range args {
			if err := submitOne(cmd, app, arg); err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", arg, err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d submissions failed", failed, len(args))
		}
		return nil
	},
}

func submitOne(cmd *cobra.Command, app *bootstrap.SubmitApp, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	doc, err := app.SubmitUC.Submit(cmd.Context(), filepath.Base(path), info.Size(), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "submitted %s  %s\n", doc.ID, doc.Filename)
	return nil
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
