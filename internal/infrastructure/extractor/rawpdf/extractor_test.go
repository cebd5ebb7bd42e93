package rawpdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

type storageFake struct {
	data map[string][]byte
}

func (s *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = b
	return nil
}

func (s *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := s.data[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func TestExtractGarbageBytesIsUnreadable(t *testing.T) {
	storage := &storageFake{data: map[string][]byte{
		"doc-1_paper.pdf": []byte("this is not a pdf at all"),
	}}
	ex := NewExtractor(storage)

	res, err := ex.Extract(context.Background(), &domain.Document{
		ID:         "doc-1",
		StorageKey: "doc-1_paper.pdf",
	})
	if err == nil {
		t.Fatalf("expected error, got result %+v", res)
	}
	if !domain.IsKind(err, domain.ErrUnreadableDocument) {
		t.Errorf("error kind = %v, want unreadable document", err)
	}
}

func TestExtractMissingObjectIsUnreadable(t *testing.T) {
	ex := NewExtractor(&storageFake{})

	_, err := ex.Extract(context.Background(), &domain.Document{
		ID:         "doc-2",
		StorageKey: "gone.pdf",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrUnreadableDocument) {
		t.Errorf("error kind = %v, want unreadable document", err)
	}
}
