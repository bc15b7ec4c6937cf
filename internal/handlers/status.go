package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"finsight/internal/contextutil"
	"finsight/internal/storage"
	"finsight/internal/vectorstore"
)

// CollectionInspector is the subset of the vector store used by the status
// endpoint.
type CollectionInspector interface {
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
}

// StatusHandler reports what is currently in the index: collection stats,
// catalog counts, and the most recent build.
type StatusHandler struct {
	vectorStore CollectionInspector
	chunks      storage.ChunkStore
	reports     storage.ReportStore
	collection  string
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(vectorStore CollectionInspector, chunks storage.ChunkStore, reports storage.ReportStore, collection string) *StatusHandler {
	return &StatusHandler{
		vectorStore: vectorStore,
		chunks:      chunks,
		reports:     reports,
		collection:  collection,
	}
}

// StatusResponse represents the index status response.
//
// swagger:model StatusResponse
type StatusResponse struct {
	// IndexReady is false when the collection does not exist yet.
	IndexReady bool `json:"index_ready"`
	// Collection is the collection name being served.
	Collection string `json:"collection"`
	// Points is the point count in the vector collection.
	Points int `json:"points"`
	// VectorSize is the embedding dimensionality of the collection.
	VectorSize int `json:"vector_size"`
	// CatalogChunks is the chunk count in the catalog database.
	CatalogChunks int `json:"catalog_chunks"`
	// LastBuild describes the most recent index build, if any.
	LastBuild *BuildReportResponse `json:"last_build,omitempty"`
}

// BuildReportResponse represents one index build in the HTTP response.
//
// swagger:model BuildReportResponse
type BuildReportResponse struct {
	BuiltAt            time.Time `json:"built_at"`
	EmbeddingModel     string    `json:"embedding_model"`
	DocumentsProcessed int       `json:"documents_processed"`
	DocumentsSkipped   int       `json:"documents_skipped"`
	WorkbooksProcessed int       `json:"workbooks_processed"`
	WorkbooksSkipped   int       `json:"workbooks_skipped"`
	TotalChunks        int       `json:"total_chunks"`
}

// ServeHTTP handles HTTP requests for index status.
//
// swagger:route GET /api/v1/status status
//
// # Report index status
//
// Returns collection point count, catalog chunk count, and the most recent
// index build report. A missing collection is reported as index_ready=false,
// not as an error.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	resp := StatusResponse{Collection: h.collection}

	info, err := h.vectorStore.GetCollectionInfo(ctx, h.collection)
	switch {
	case errors.Is(err, vectorstore.ErrIndexUnavailable):
		// No index yet. Still report catalog and build history.
	case err != nil:
		logger.ErrorContext(ctx, "failed to get collection info", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	default:
		resp.IndexReady = true
		resp.Points = info.PointsCount
		resp.VectorSize = info.VectorSize
	}

	count, err := h.chunks.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count catalog chunks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read chunk catalog")
		return
	}
	resp.CatalogChunks = count

	report, err := h.reports.Latest(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// No build has run yet.
	case err != nil:
		logger.ErrorContext(ctx, "failed to read latest build report", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read build history")
		return
	default:
		resp.LastBuild = &BuildReportResponse{
			BuiltAt:            report.BuiltAt,
			EmbeddingModel:     report.EmbeddingModel,
			DocumentsProcessed: report.DocumentsProcessed,
			DocumentsSkipped:   report.DocumentsSkipped,
			WorkbooksProcessed: report.WorkbooksProcessed,
			WorkbooksSkipped:   report.WorkbooksSkipped,
			TotalChunks:        report.TotalChunks,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode status response", "error", err)
	}
}
