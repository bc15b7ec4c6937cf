package storage

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// New opens a SQLite database connection at the given path.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the required tables. Idempotent.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			company TEXT NOT NULL,
			year TEXT NOT NULL,
			doc_type TEXT NOT NULL,
			section TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_company_year ON chunks (company, year);`,
		`CREATE TABLE IF NOT EXISTS build_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			built_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			embedding_model TEXT NOT NULL,
			documents_processed INTEGER NOT NULL,
			documents_skipped INTEGER NOT NULL,
			workbooks_processed INTEGER NOT NULL,
			workbooks_skipped INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
