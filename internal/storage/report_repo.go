package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_report_store.go -package=mocks finsight/internal/storage ReportStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ReportStore defines the interface for build-report operations.
type ReportStore interface {
	// Insert records a completed index build.
	Insert(ctx context.Context, report *BuildReport) error
	// Latest returns the most recent build report.
	// Returns ErrNotFound when no build has run yet.
	Latest(ctx context.Context) (*BuildReport, error)
}

// ReportRepo provides methods for build-report operations.
// It implements the ReportStore interface.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Insert records a completed index build.
func (r *ReportRepo) Insert(ctx context.Context, report *BuildReport) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO build_reports
			(embedding_model, documents_processed, documents_skipped,
			 workbooks_processed, workbooks_skipped, total_chunks)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.EmbeddingModel, report.DocumentsProcessed, report.DocumentsSkipped,
		report.WorkbooksProcessed, report.WorkbooksSkipped, report.TotalChunks,
	)
	if err != nil {
		return fmt.Errorf("failed to insert build report: %w", err)
	}
	return nil
}

// Latest returns the most recent build report.
func (r *ReportRepo) Latest(ctx context.Context) (*BuildReport, error) {
	var report BuildReport
	err := r.db.QueryRowContext(ctx,
		`SELECT id, built_at, embedding_model, documents_processed, documents_skipped,
			workbooks_processed, workbooks_skipped, total_chunks
		 FROM build_reports ORDER BY id DESC LIMIT 1`,
	).Scan(&report.ID, &report.BuiltAt, &report.EmbeddingModel, &report.DocumentsProcessed,
		&report.DocumentsSkipped, &report.WorkbooksProcessed, &report.WorkbooksSkipped,
		&report.TotalChunks)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query build report: %w", err)
	}

	return &report, nil
}
