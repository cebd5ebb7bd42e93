package ports

import (
	"context"
	"io"
	"time"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// DocumentRepository persists document state and summary columns.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveSummary(ctx context.Context, id string, rec *domain.SummaryRecord) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document-submitted events.
type MessageQueue interface {
	PublishDocumentSubmitted(ctx context.Context, documentID string) error
	SubscribeDocumentSubmitted(ctx context.Context, handler func(context.Context, string) error) error
}

// SectionExtractor pulls titled sections from a stored document.
//
// Implementations tag their outcome inside the result: a failed attempt is a
// result with Success=false and a diagnostic. Only the raw fallback may
// return an error, and only the unreadable-document kind.
type SectionExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractionResult, error)
}

// Preprocessor cleans extracted sections and windows them per model.
type Preprocessor interface {
	Prepare(res *domain.ExtractionResult) *domain.ChunkSet
}

// SummaryEngine produces the two summary variants. The backends fail
// independently; a failed backend returns an empty string and an error the
// caller retains as a diagnostic.
type SummaryEngine interface {
	SummarizeQuick(ctx context.Context, chunks []domain.Chunk) (string, error)
	SummarizeDeep(ctx context.Context, chunks []domain.Chunk) (string, error)
}

// RecordArchive writes the terminal summary record to its archive location.
type RecordArchive interface {
	Save(ctx context.Context, rec *domain.SummaryRecord) error
}

// PipelineMetrics observes pipeline progress. Callers treat a nil value as
// metrics-off, so implementations never gate correctness.
type PipelineMetrics interface {
	ExtractionAttempted(method domain.ExtractionMethod, ok bool)
	SummaryProduced(backend string, ok bool)
	DocumentStarted()
	DocumentFinished(status string, elapsed time.Duration)
	QueueLag(lag time.Duration)
}
