package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

// ProcessDocumentUseCase is the worker-side wrapper around the pipeline: it
// moves the document row through uploaded → processing → summarized|failed
// and persists the record to Postgres plus the JSON archive.
type ProcessDocumentUseCase struct {
	repo     ports.DocumentRepository
	pipeline ports.Summarizer
	archive  ports.RecordArchive
	metrics  ports.PipelineMetrics
	logger   *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	pipeline ports.Summarizer,
	archive ports.RecordArchive,
	metrics ports.PipelineMetrics,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:     repo,
		pipeline: pipeline,
		archive:  archive,
		metrics:  metrics,
		logger:   logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) (*domain.SummaryRecord, error) {
	start := time.Now()
	status := "failed"
	if uc.metrics != nil {
		uc.metrics.DocumentStarted()
		defer func() {
			uc.metrics.DocumentFinished(status, time.Since(start))
		}()
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.QueueLag(time.Since(doc.CreatedAt))
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("set status=processing: %w", err)
	}

	rec, err := uc.pipeline.Run(ctx, doc)
	if err != nil {
		if domain.IsKind(err, domain.ErrUnreadableDocument) {
			status = "unreadable"
		}
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}

	if err := uc.repo.SaveSummary(ctx, documentID, rec); err != nil {
		err = fmt.Errorf("save summary: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusSummarized, ""); err != nil {
		return nil, fmt.Errorf("set status=summarized: %w", err)
	}

	// The row is already authoritative; a missing archive copy is worth a
	// warning, not a failed document.
	if uc.archive != nil {
		if err := uc.archive.Save(ctx, rec); err != nil {
			uc.logger.Warn("record archive write failed",
				"document_id", documentID, "error", err)
		}
	}

	status = "summarized"
	return rec, nil
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	return uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
