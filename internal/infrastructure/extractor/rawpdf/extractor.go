package rawpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

// Extractor is the raw-text fallback. It reads the PDF directly, page by
// page, and rebuilds sections from heading heuristics. Page-level defects
// are tolerated; the unreadable-document kind is returned only when the file
// cannot be opened or no page yields text at all.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractionResult, error) {
	reader, err := e.storage.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "open stored document", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "read stored document", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "parse pdf", err)
	}

	total := r.NumPage()
	pages := make([]string, 0, total)
	readable := 0
	for i := 1; i <= total; i++ {
		text, err := pageText(r, i)
		if err != nil {
			continue
		}
		readable++
		pages = append(pages, text)
	}
	if total == 0 || readable == 0 {
		return nil, domain.WrapError(domain.ErrUnreadableDocument, "extract pages",
			fmt.Errorf("no readable pages out of %d", total))
	}

	res := assemble(pages)
	res.Stats.Pages = total
	return res, nil
}

// pageText isolates one page extraction. The pdf library panics on some
// malformed content streams; a defective page must cost that page only.
func pageText(r *pdf.Reader, number int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", number, rec)
		}
	}()

	page := r.Page(number)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: null object", number)
	}
	return page.GetPlainText(nil)
}
