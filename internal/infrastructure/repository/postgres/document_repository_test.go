package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDScansDocument(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "storage_key", "byte_size",
		"status", "error_message", "created_at", "updated_at",
	}).AddRow("doc-1", "paper.pdf", "doc-1_paper.pdf", int64(2048),
		"uploaded", "", created, created)

	mock.ExpectQuery("SELECT id, filename, storage_key, byte_size").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %q", doc.Status)
	}
	if doc.StorageKey != "doc-1_paper.pdf" || doc.ByteSize != 2048 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, storage_key, byte_size").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryWritesAllColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", "A Title",
			[]byte(`["Ada Lovelace"]`),
			"quick text", "deep text",
			string(domain.SummarySourceLLM), string(domain.MethodStructured), true,
			[]byte(`["abstract","introduction"]`),
			12, 34567,
			[]byte(`{"deep_summary":"timeout"}`),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &domain.SummaryRecord{
		DocumentID:       "doc-1",
		Title:            "A Title",
		Authors:          []string{"Ada Lovelace"},
		QuickSummary:     "quick text",
		DeepSummary:      "deep text",
		SummarySource:    domain.SummarySourceLLM,
		ExtractionMethod: domain.MethodStructured,
		SectionsFound:    []string{"abstract", "introduction"},
		AIEnhanced:       true,
		Stats:            domain.ExtractionStats{Pages: 12, Characters: 34567, Sections: 2},
		Diagnostics:      map[string]string{"deep_summary": "timeout"},
	}
	if err := repo.SaveSummary(context.Background(), "doc-1", rec); err != nil {
		t.Fatalf("SaveSummary() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveSummaryReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := &domain.SummaryRecord{DocumentID: "missing", ExtractionMethod: domain.MethodNone}
	err := repo.SaveSummary(context.Background(), "missing", rec)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
