package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

// Extractor implements the structured extraction attempt. Every failure mode
// (storage, transport, timeout, bad TEI, empty yield) becomes a failed
// result with a diagnostic; the error return is always nil so the pipeline
// falls through to the raw extractor.
type Extractor struct {
	client  *Client
	storage ports.ObjectStorage
}

func NewExtractor(client *Client, storage ports.ObjectStorage) *Extractor {
	return &Extractor{client: client, storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractionResult, error) {
	res, err := e.extract(ctx, doc)
	if err != nil {
		return domain.FailedExtraction(domain.MethodStructured, err.Error()), nil
	}
	return res, nil
}

func (e *Extractor) extract(ctx context.Context, doc *domain.Document) (*domain.ExtractionResult, error) {
	reader, err := e.storage.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}

	// One timed attempt. The deadline scales with document size and the
	// context is released as soon as the call returns.
	callCtx, cancel := context.WithTimeout(ctx, e.client.TimeoutFor(int64(len(pdf))))
	defer cancel()

	tei, err := e.client.ProcessFulltext(callCtx, doc.Filename, bytes.NewReader(pdf))
	if err != nil {
		return nil, err
	}

	content, err := parseTEI(tei)
	if err != nil {
		return nil, err
	}
	if len(content.Sections) == 0 {
		return nil, fmt.Errorf("tei contained no usable sections")
	}

	chars := 0
	for _, s := range content.Sections {
		chars += len(s.Text)
	}
	return &domain.ExtractionResult{
		Method:   domain.MethodStructured,
		Success:  true,
		Title:    content.Title,
		Authors:  content.Authors,
		Abstract: content.Abstract,
		Sections: content.Sections,
		Stats: domain.ExtractionStats{
			Characters: chars,
			Sections:   len(content.Sections),
		},
	}, nil
}
