// Package handlers contains the HTTP handlers for the API surface.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"finsight/internal/contextutil"
	"finsight/internal/rag"
	"finsight/internal/vectorstore"
)

// QueryHandler handles HTTP requests for report questions.
type QueryHandler struct {
	engine   rag.Engine
	markdown goldmark.Markdown
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine rag.Engine) *QueryHandler {
	return &QueryHandler{
		engine:   engine,
		markdown: goldmark.New(),
	}
}

// QueryRequest represents the HTTP request payload for report questions.
// This mirrors rag.QueryRequest but is defined here for HTTP layer separation.
//
// swagger:model QueryRequest
type QueryRequest struct {
	Query   string `json:"query"`
	Company string `json:"company,omitempty"`
	Year    string `json:"year,omitempty"`
	TopK    int    `json:"top_k,omitempty"`
}

// QueryResponse represents the HTTP response payload for report questions.
//
// swagger:model QueryResponse
type QueryResponse struct {
	// Answer is the generated answer in markdown.
	Answer string `json:"answer"`
	// AnswerHTML is the answer rendered to HTML, present when the client
	// requested format=html.
	AnswerHTML string `json:"answer_html,omitempty"`
	// Sources are the deduplicated citation cards backing the answer.
	Sources []SourceResponse `json:"sources"`
	// Intent is the detected query intent.
	Intent string `json:"intent"`
	// Company is the company filter that was applied, or "All Companies".
	Company string `json:"company"`
	// Year is the fiscal-year filter that was applied, or "All Years".
	Year string `json:"year"`
}

// SourceResponse represents one source citation in the HTTP response.
//
// swagger:model SourceResponse
type SourceResponse struct {
	Company    string `json:"company"`
	Year       string `json:"year"`
	Section    string `json:"section"`
	ChunkIndex int    `json:"chunk_index"`
}

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for report questions.
//
// swagger:route POST /api/v1/query query
//
// # Ask a question about the indexed annual reports
//
// Runs the full retrieval and answer pipeline. Company and year filters are
// auto-detected from the query text unless passed explicitly. Use the
// `format=html` query parameter to additionally receive the answer rendered
// to HTML.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Structured answer with source citations
//	  schema:
//	    "$ref": "#/definitions/QueryResponse"
//	'400':
//	  description: Bad request (missing query)
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Vector index unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if req.TopK < 0 {
		req.TopK = 0
	}

	result, err := h.engine.Answer(ctx, rag.QueryRequest{
		Query:   req.Query,
		Company: req.Company,
		Year:    req.Year,
		TopK:    req.TopK,
	})
	if err != nil {
		h.handleEngineError(w, r, err)
		return
	}

	sources := make([]SourceResponse, len(result.Sources))
	for i, s := range result.Sources {
		sources[i] = SourceResponse{
			Company:    s.Company,
			Year:       s.Year,
			Section:    s.Section,
			ChunkIndex: s.ChunkIndex,
		}
	}

	resp := QueryResponse{
		Answer:  result.Answer,
		Sources: sources,
		Intent:  result.Intent,
		Company: result.Company,
		Year:    result.Year,
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(result.Answer), &buf); err != nil {
			logger.WarnContext(ctx, "failed to render answer to HTML", "error", err)
		} else {
			resp.AnswerHTML = buf.String()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps engine errors to HTTP status codes. A missing index
// is a 503 so the caller can render a "system offline" state.
func (h *QueryHandler) handleEngineError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "query engine error", "error", err)

	if errors.Is(err, vectorstore.ErrIndexUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "Index unavailable. Run the index builder first.")
		return
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "embed") {
		writeError(w, http.StatusBadGateway, "Embedding service error")
		return
	}
	if strings.Contains(errMsg, "search") {
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	writeError(w, http.StatusInternalServerError, "Failed to process query")
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
