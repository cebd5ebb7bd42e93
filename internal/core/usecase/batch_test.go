package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// batchSummarizerFake routes each filename to a canned outcome.
type batchSummarizerFake struct {
	mu      sync.Mutex
	calls   int
	outcome func(doc *domain.Document) (*domain.SummaryRecord, error)
}

func (f *batchSummarizerFake) Run(_ context.Context, doc *domain.Document) (*domain.SummaryRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.outcome(doc)
}

func batchDoc(id, filename string) *domain.Document {
	return &domain.Document{ID: id, Filename: filename}
}

func TestBatchRunAggregatesOutcomes(t *testing.T) {
	summarizer := &batchSummarizerFake{
		outcome: func(doc *domain.Document) (*domain.SummaryRecord, error) {
			switch doc.Filename {
			case "broken.pdf":
				return nil, domain.WrapError(domain.ErrUnreadableDocument, "parse pdf", context.Canceled)
			case "scanned.pdf":
				return &domain.SummaryRecord{
					DocumentID:       doc.ID,
					Filename:         doc.Filename,
					ExtractionMethod: domain.MethodRaw,
					AIEnhanced:       true,
				}, nil
			default:
				return &domain.SummaryRecord{
					DocumentID:       doc.ID,
					Filename:         doc.Filename,
					ExtractionMethod: domain.MethodStructured,
					AIEnhanced:       true,
				}, nil
			}
		},
	}
	archive := &archiveFake{}
	uc := NewBatchSummarizeUseCase(summarizer, archive, 3, quietLogger())

	docs := []*domain.Document{
		batchDoc("1", "alpha.pdf"),
		batchDoc("2", "broken.pdf"),
		batchDoc("3", "scanned.pdf"),
		batchDoc("4", "zeta.pdf"),
	}
	report := uc.Run(context.Background(), docs)

	if summarizer.calls != 4 {
		t.Fatalf("pipeline calls = %d, want 4", summarizer.calls)
	}
	if report.Processed != 3 || report.Unreadable != 1 {
		t.Fatalf("processed=%d unreadable=%d", report.Processed, report.Unreadable)
	}
	if report.Structured != 2 || report.Raw != 1 {
		t.Fatalf("structured=%d raw=%d", report.Structured, report.Raw)
	}
	if report.AIEnhanced != 3 {
		t.Fatalf("ai_enhanced=%d", report.AIEnhanced)
	}
	if len(report.Documents) != 4 {
		t.Fatalf("document lines = %d", len(report.Documents))
	}
	for i := 1; i < len(report.Documents); i++ {
		if report.Documents[i-1].Filename > report.Documents[i].Filename {
			t.Fatalf("lines not sorted by filename: %+v", report.Documents)
		}
	}
	if len(archive.saved) != 3 {
		t.Fatalf("archived records = %d, want 3", len(archive.saved))
	}

	var brokenLine *BatchDocumentReport
	for i := range report.Documents {
		if report.Documents[i].Filename == "broken.pdf" {
			brokenLine = &report.Documents[i]
		}
	}
	if brokenLine == nil || brokenLine.Error == "" {
		t.Fatalf("unreadable document must carry its error line: %+v", report.Documents)
	}
}

func TestBatchRunStopsFeedingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	summarizer := &batchSummarizerFake{
		outcome: func(doc *domain.Document) (*domain.SummaryRecord, error) {
			cancel()
			return &domain.SummaryRecord{DocumentID: doc.ID, Filename: doc.Filename,
				ExtractionMethod: domain.MethodStructured}, nil
		},
	}
	uc := NewBatchSummarizeUseCase(summarizer, &archiveFake{}, 1, quietLogger())

	docs := make([]*domain.Document, 10)
	for i := range docs {
		docs[i] = batchDoc(string(rune('a'+i)), "doc.pdf")
	}
	report := uc.Run(ctx, docs)

	if summarizer.calls >= 10 {
		t.Fatalf("cancellation must stop feeding, processed %d", summarizer.calls)
	}
	if len(report.Documents) != summarizer.calls {
		t.Fatalf("report lines (%d) must match processed docs (%d)", len(report.Documents), summarizer.calls)
	}
}

func TestBatchRunArchiveFailureRecordedPerLine(t *testing.T) {
	summarizer := &batchSummarizerFake{
		outcome: func(doc *domain.Document) (*domain.SummaryRecord, error) {
			return &domain.SummaryRecord{DocumentID: doc.ID, Filename: doc.Filename,
				ExtractionMethod: domain.MethodStructured, AIEnhanced: true}, nil
		},
	}
	failing := &archiveFake{err: context.DeadlineExceeded}
	uc := NewBatchSummarizeUseCase(summarizer, failing, 1, quietLogger())

	report := uc.Run(context.Background(), []*domain.Document{batchDoc("1", "alpha.pdf")})
	if report.Processed != 1 {
		t.Fatalf("processed = %d", report.Processed)
	}
	if !strings.HasPrefix(report.Documents[0].Error, "archive:") {
		t.Fatalf("expected archive error on the line, got %q", report.Documents[0].Error)
	}
}
