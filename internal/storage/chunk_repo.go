package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks finsight/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkStore defines the interface for chunk catalog operations.
type ChunkStore interface {
	// Insert inserts a single chunk. The chunk.ID must be set (UUID).
	Insert(ctx context.Context, chunk *ChunkRecord) error
	// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChunkRecord, error)
	// Count returns the number of cataloged chunks.
	Count(ctx context.Context) (int, error)
	// DeleteAll wipes the catalog. Used for full index rebuilds.
	DeleteAll(ctx context.Context) error
}

// ChunkRepo provides methods for chunk catalog operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk into the catalog.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chunks (id, company, year, doc_type, section, chunk_index, content) VALUES (?, ?, ?, ?, ?, ?, ?)",
		chunk.ID, chunk.Company, chunk.Year, chunk.DocType, chunk.Section, chunk.ChunkIndex, chunk.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// GetByID gets a chunk by its ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByID(ctx context.Context, id string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, company, year, doc_type, section, chunk_index, content FROM chunks WHERE id = ?",
		id,
	).Scan(&chunk.ID, &chunk.Company, &chunk.Year, &chunk.DocType, &chunk.Section, &chunk.ChunkIndex, &chunk.Content)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}

// Count returns the number of cataloged chunks.
func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// DeleteAll wipes the chunk catalog.
func (r *ChunkRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}
