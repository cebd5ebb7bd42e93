package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

// BatchDocumentReport is one line of a batch run.
type BatchDocumentReport struct {
	DocumentID       string `json:"document_id"`
	Filename         string `json:"filename"`
	ExtractionMethod string `json:"extraction_method"`
	AIEnhanced       bool   `json:"ai_enhanced"`
	Error            string `json:"error,omitempty"`
}

// BatchReport aggregates one batch run. Processed counts documents that
// yielded a record; Unreadable counts the ones that could not be opened.
type BatchReport struct {
	Processed       int                   `json:"processed"`
	Structured      int                   `json:"structured"`
	Raw             int                   `json:"raw"`
	Unreadable      int                   `json:"unreadable"`
	AIEnhanced      int                   `json:"ai_enhanced"`
	WallTimeSeconds float64               `json:"wall_time_seconds"`
	Documents       []BatchDocumentReport `json:"documents"`
}

// BatchSummarizeUseCase drives the pipeline over a set of local documents
// with a small worker pool. One bad document never stops the batch.
type BatchSummarizeUseCase struct {
	pipeline ports.Summarizer
	archive  ports.RecordArchive
	workers  int
	logger   *slog.Logger
}

func NewBatchSummarizeUseCase(pipeline ports.Summarizer, archive ports.RecordArchive, workers int, logger *slog.Logger) *BatchSummarizeUseCase {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchSummarizeUseCase{
		pipeline: pipeline,
		archive:  archive,
		workers:  workers,
		logger:   logger,
	}
}

func (uc *BatchSummarizeUseCase) Run(ctx context.Context, docs []*domain.Document) *BatchReport {
	start := time.Now()
	report := &BatchReport{Documents: make([]BatchDocumentReport, 0, len(docs))}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan *domain.Document)

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				line := uc.processOne(ctx, doc)
				mu.Lock()
				uc.tally(report, line)
				mu.Unlock()
			}
		}()
	}

	// Cancellation stops feeding; documents already picked up run to their
	// own terminal state.
	fed := 0
feed:
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			uc.logger.Warn("batch interrupted", "remaining", len(docs)-fed)
			break feed
		case jobs <- doc:
			fed++
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(report.Documents, func(i, j int) bool {
		return report.Documents[i].Filename < report.Documents[j].Filename
	})
	report.WallTimeSeconds = time.Since(start).Seconds()
	return report
}

func (uc *BatchSummarizeUseCase) processOne(ctx context.Context, doc *domain.Document) BatchDocumentReport {
	line := BatchDocumentReport{DocumentID: doc.ID, Filename: doc.Filename}

	rec, err := uc.pipeline.Run(ctx, doc)
	if err != nil {
		uc.logger.Warn("document skipped", "filename", doc.Filename, "error", err)
		line.Error = err.Error()
		return line
	}

	line.ExtractionMethod = string(rec.ExtractionMethod)
	line.AIEnhanced = rec.AIEnhanced
	if uc.archive != nil {
		if err := uc.archive.Save(ctx, rec); err != nil {
			uc.logger.Warn("record archive write failed", "filename", doc.Filename, "error", err)
			line.Error = "archive: " + err.Error()
		}
	}
	return line
}

func (uc *BatchSummarizeUseCase) tally(report *BatchReport, line BatchDocumentReport) {
	report.Documents = append(report.Documents, line)
	if line.ExtractionMethod == "" && line.Error != "" {
		report.Unreadable++
		return
	}
	report.Processed++
	switch domain.ExtractionMethod(line.ExtractionMethod) {
	case domain.MethodStructured:
		report.Structured++
	case domain.MethodRaw:
		report.Raw++
	}
	if line.AIEnhanced {
		report.AIEnhanced++
	}
}
