// Package rag wires query classification, retrieval, and answer composition
// into the single entrypoint the HTTP layer calls.
package rag

import (
	"context"
	"fmt"

	"finsight/internal/contextutil"
)

// Labels reported when retrieval ran without a company or year filter.
const (
	AllCompanies = "All Companies"
	AllYears     = "All Years"
)

// emptyRetrievalAnswer is returned when every candidate was filtered out.
// Unlike NoInformationMessage it includes recovery hints, because at this
// point the whole pipeline ran and found nothing.
const emptyRetrievalAnswer = "No relevant information found. Try rephrasing, selecting a specific company/year, or ensure the index has been built."

// Engine answers questions against the indexed annual reports.
type Engine interface {
	// Answer runs the full retrieve-and-compose pipeline for one query.
	// An unreachable or missing index returns vectorstore.ErrIndexUnavailable
	// so the host can render a "system offline" state; every other failure
	// mode resolves into the result's answer string.
	Answer(ctx context.Context, req QueryRequest) (QueryResult, error)
}

type ragEngine struct {
	retriever *Retriever
	composer  *Composer
}

// NewEngine creates an Engine from its two halves.
func NewEngine(retriever *Retriever, composer *Composer) Engine {
	return &ragEngine{retriever: retriever, composer: composer}
}

func (e *ragEngine) Answer(ctx context.Context, req QueryRequest) (QueryResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Query == "" {
		return QueryResult{}, fmt.Errorf("query must not be empty")
	}

	retrieval, err := e.retriever.Retrieve(ctx, req)
	if err != nil {
		return QueryResult{}, err
	}

	result := QueryResult{
		Sources: retrieval.Sources,
		Intent:  string(retrieval.Intent),
		Company: retrieval.Company,
		Year:    retrieval.Year,
	}
	if result.Company == "" {
		result.Company = AllCompanies
	}
	if result.Year == "" {
		result.Year = AllYears
	}
	if result.Sources == nil {
		result.Sources = []Source{}
	}

	if len(retrieval.Chunks) == 0 {
		logger.InfoContext(ctx, "retrieval returned no chunks",
			"intent", retrieval.Intent, "company", result.Company, "year", result.Year)
		result.Answer = emptyRetrievalAnswer
		return result, nil
	}

	result.Answer = e.composer.Compose(ctx,
		req.Query, retrieval.Chunks, retrieval.Intent, retrieval.Company, retrieval.Year)

	logger.InfoContext(ctx, "query answered",
		"intent", retrieval.Intent,
		"company", result.Company,
		"year", result.Year,
		"chunks", len(retrieval.Chunks),
		"sources", len(result.Sources),
	)

	return result, nil
}
