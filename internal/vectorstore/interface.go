package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks finsight/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrIndexUnavailable is returned when the backing collection does not exist
// or cannot be reached. The host must treat this as "system offline" rather
// than an empty result.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents one search hit. Score is a cosine similarity
// (larger = better) and is only meaningful when Scored is true; diversity
// search yields unscored results.
type SearchResult struct {
	PointID string
	Score   float32
	Scored  bool
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a plain similarity search returning scored results.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Drop removes the whole collection. Used for full index rebuilds.
	Drop(ctx context.Context, collection string) error
}

// DiverseSearcher is the capability interface for backends that can run a
// diversity-maximizing (maximal-marginal-relevance) search. Callers
// type-assert it and fall back to VectorStore.Search when absent.
type DiverseSearcher interface {
	// SearchDiverse returns k results selected for relevance and mutual
	// diversity out of a candidate pool of fetchK nearest neighbors.
	// Results carry no scores.
	SearchDiverse(ctx context.Context, collection string, query []float32, k, fetchK int) ([]SearchResult, error)
}
