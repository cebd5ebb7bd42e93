package jsonfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// Archive writes one pretty-printed JSON file per summary record. It is the
// CLI's only output sink and the worker's on-disk copy next to Postgres.
type Archive struct {
	dir string
}

func New(dir string) (*Archive, error) {
	if dir == "" {
		dir = "./data/records"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create records dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

func (a *Archive) Save(_ context.Context, rec *domain.SummaryRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary record: %w", err)
	}
	data = append(data, '\n')

	path := a.RecordPath(rec.DocumentID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary record: %w", err)
	}
	return nil
}

// RecordPath returns where the record for the given document lives.
func (a *Archive) RecordPath(documentID string) string {
	return filepath.Join(a.dir, documentID+"_summary.json")
}
