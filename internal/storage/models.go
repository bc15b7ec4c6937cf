package storage

import "time"

// ChunkRecord mirrors one indexed chunk. The ID doubles as the Qdrant point
// ID so a catalog row can always be traced back to its vector.
type ChunkRecord struct {
	ID         string
	Company    string
	Year       string
	DocType    string
	Section    string
	ChunkIndex int
	Content    string
}

// BuildReport summarizes one index build: what was processed, what was
// skipped, and the embedding model the vectors were produced with.
type BuildReport struct {
	ID                 int
	BuiltAt            time.Time
	EmbeddingModel     string
	DocumentsProcessed int
	DocumentsSkipped   int
	WorkbooksProcessed int
	WorkbooksSkipped   int
	TotalChunks        int
}
