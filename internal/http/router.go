// Package http assembles the API router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finsight/internal/handlers"
	"finsight/internal/rag"
	"finsight/internal/storage"
)

// VectorStore is the read-only view of the vector store the API endpoints
// need.
type VectorStore interface {
	handlers.CollectionChecker
	handlers.CollectionInspector
}

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	VectorStore VectorStore
	ChunkRepo   storage.ChunkStore
	ReportRepo  storage.ReportStore
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	queryHandler := handlers.NewQueryHandler(deps.Engine)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)
	statusHandler := handlers.NewStatusHandler(deps.VectorStore, deps.ChunkRepo, deps.ReportRepo, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/query", queryHandler)
			r.Method(http.MethodGet, "/status", statusHandler)
		})
	})

	return r
}
