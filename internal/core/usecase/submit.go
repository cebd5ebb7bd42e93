package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

// SubmitDocumentUseCase stores an uploaded PDF, records it, and notifies the
// worker pool.
type SubmitDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	logger  *slog.Logger
}

func NewSubmitDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	logger *slog.Logger,
) *SubmitDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

func (uc *SubmitDocumentUseCase) Submit(ctx context.Context, filename string, size int64, body io.Reader) (*domain.Document, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit document",
			fmt.Errorf("unsupported file type %q", filepath.Ext(filename)))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:         id,
		Filename:   filepath.Base(filename),
		StorageKey: storageKey,
		ByteSize:   size,
		Status:     domain.StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	// The row stays 'uploaded' when the publish fails; a requeue tool or a
	// resubmission can pick it up without re-uploading bytes.
	if err := uc.queue.PublishDocumentSubmitted(ctx, doc.ID); err != nil {
		uc.logger.Error("publish after upload failed",
			"document_id", doc.ID, "error", err)
		return doc, fmt.Errorf("publish submitted event: %w", err)
	}

	uc.logger.Info("document submitted",
		"document_id", doc.ID, "filename", doc.Filename, "bytes", size)
	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.pdf"
	}
	return base
}
