package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across submitter/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	byte_size BIGINT NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	authors JSONB NOT NULL DEFAULT '[]'::jsonb,
	quick_summary TEXT NOT NULL DEFAULT '',
	deep_summary TEXT NOT NULL DEFAULT '',
	summary_source TEXT NOT NULL DEFAULT '',
	extraction_method TEXT NOT NULL DEFAULT '',
	ai_enhanced BOOLEAN NOT NULL DEFAULT FALSE,
	sections JSONB NOT NULL DEFAULT '[]'::jsonb,
	pages INTEGER NOT NULL DEFAULT 0,
	characters INTEGER NOT NULL DEFAULT 0,
	diagnostics JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	summarized_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, storage_key, byte_size, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		doc.ID, doc.Filename, doc.StorageKey, doc.ByteSize,
		string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, storage_key, byte_size, status, error_message, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status string

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.StorageKey, &doc.ByteSize,
		&status, &doc.Error, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRow(res, "update document status", id)
}

// SaveSummary writes every summary column of the record in one statement.
// Degraded records land the same way as full ones; blank columns are
// meaningful (they say a backend produced nothing).
func (r *DocumentRepository) SaveSummary(ctx context.Context, id string, rec *domain.SummaryRecord) error {
	authorsJSON, err := json.Marshal(jsonArray(rec.Authors))
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	sectionsJSON, err := json.Marshal(jsonArray(rec.SectionsFound))
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	diagnosticsJSON, err := json.Marshal(jsonObject(rec.Diagnostics))
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET title = $2,
	authors = $3,
	quick_summary = $4,
	deep_summary = $5,
	summary_source = $6,
	extraction_method = $7,
	ai_enhanced = $8,
	sections = $9,
	pages = $10,
	characters = $11,
	diagnostics = $12,
	summarized_at = $13,
	updated_at = $13
WHERE id = $1
`,
		id, rec.Title, authorsJSON, rec.QuickSummary, rec.DeepSummary,
		string(rec.SummarySource), string(rec.ExtractionMethod), rec.AIEnhanced,
		sectionsJSON, rec.Stats.Pages, rec.Stats.Characters, diagnosticsJSON,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return requireRow(res, "save summary", id)
}

func requireRow(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}

func jsonArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func jsonObject(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}
