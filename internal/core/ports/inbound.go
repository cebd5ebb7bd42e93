package ports

import (
	"context"
	"io"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// DocumentSubmitter is the inbound contract for service-mode ingestion.
type DocumentSubmitter interface {
	Submit(ctx context.Context, filename string, size int64, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous processing of a
// stored document.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (*domain.SummaryRecord, error)
}

// Summarizer runs the hybrid pipeline on one document. The only error it
// returns is the unreadable-document kind; every readable document yields a
// record.
type Summarizer interface {
	Run(ctx context.Context, doc *domain.Document) (*domain.SummaryRecord, error)
}
