package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/usecase"
)

func printRecord(w io.Writer, rec *domain.SummaryRecord) {
	title := rec.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "%s\n", title)
	if len(rec.Authors) > 0 {
		fmt.Fprintf(w, "authors: %s\n", strings.Join(rec.Authors, ", "))
	}
	fmt.Fprintf(w, "extraction: %s  sections: %d  characters: %d  ai_enhanced: %v\n",
		rec.ExtractionMethod, rec.Stats.Sections, rec.Stats.Characters, rec.AIEnhanced)

	if rec.QuickSummary != "" {
		fmt.Fprintf(w, "\nquick summary (%s):\n%s\n", rec.SummarySource, rec.QuickSummary)
	}
	if rec.DeepSummary != "" {
		fmt.Fprintf(w, "\ndeep summary:\n%s\n", rec.DeepSummary)
	}
	if rec.QuickSummary == "" && rec.DeepSummary == "" {
		fmt.Fprintf(w, "\nno summary produced\n")
	}

	if len(rec.Diagnostics) > 0 {
		stages := make([]string, 0, len(rec.Diagnostics))
		for stage := range rec.Diagnostics {
			stages = append(stages, stage)
		}
		sort.Strings(stages)
		fmt.Fprintf(w, "\ndiagnostics:\n")
		for _, stage := range stages {
			fmt.Fprintf(w, "  %s: %s\n", stage, rec.Diagnostics[stage])
		}
	}
}

func printBatchReport(w io.Writer, report *usecase.BatchReport) {
	fmt.Fprintf(w, "processed %d (structured %d, raw %d)  unreadable %d  ai_enhanced %d  in %.1fs\n",
		report.Processed, report.Structured, report.Raw, report.Unreadable, report.AIEnhanced, report.WallTimeSeconds)
	for _, line := range report.Documents {
		if line.Error != "" {
			fmt.Fprintf(w, "  fail %-40s %s\n", line.Filename, line.Error)
			continue
		}
		fmt.Fprintf(w, "  ok   %-40s %s ai_enhanced=%v\n", line.Filename, line.ExtractionMethod, line.AIEnhanced)
	}
}
