package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"finsight/internal/contextutil"
	"finsight/internal/query"
	"finsight/internal/storage"
	"finsight/internal/vectorstore"
)

// minChunkChars drops degenerate hits whose stored text is too short to
// support an answer.
const minChunkChars = 100

// expansionTerms is how many intent keywords are appended to the raw query
// before embedding.
const expansionTerms = 4

// Embedder generates one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Retrieval is the output of one retrieval pass: surviving chunk texts, the
// deduplicated citations, and the classification that drove the search.
type Retrieval struct {
	Chunks  []string
	Sources []Source
	Intent  query.Intent
	Company string
	Year    string
}

// Retriever runs the search side of a query: classify, rewrite, search,
// filter, attribute.
type Retriever struct {
	analyzer   *query.Analyzer
	embedder   Embedder
	vectors    vectorstore.VectorStore
	chunks     storage.ChunkStore
	collection string
	topK       int
	threshold  float32
}

// NewRetriever creates a Retriever. threshold is the minimum cosine
// similarity a plain-search hit must reach; diversity search is unscored and
// ignores it.
func NewRetriever(
	analyzer *query.Analyzer,
	embedder Embedder,
	vectors vectorstore.VectorStore,
	chunks storage.ChunkStore,
	collection string,
	topK int,
	threshold float32,
) *Retriever {
	return &Retriever{
		analyzer:   analyzer,
		embedder:   embedder,
		vectors:    vectors,
		chunks:     chunks,
		collection: collection,
		topK:       topK,
		threshold:  threshold,
	}
}

// Retrieve classifies the query, rewrites it with intent vocabulary, runs a
// diversity search (falling back to plain similarity search), and applies
// the metadata post-filters. Explicit filters in the request override
// auto-extraction from the query text.
func (r *Retriever) Retrieve(ctx context.Context, req QueryRequest) (Retrieval, error) {
	logger := contextutil.LoggerFromContext(ctx)

	analysis := r.analyzer.Analyze(req.Query)

	// Blank or whitespace-only filters mean "no filter", same as absent.
	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = analysis.Company
	}
	year := strings.TrimSpace(req.Year)
	if year == "" {
		year = analysis.Year
	}

	topK := req.TopK
	if topK <= 0 {
		topK = r.topK
	}

	// Company matching is a loose substring check on the first word of the
	// filter, so "ICICI Bank" matches chunks tagged "ICICI Bank Ltd".
	companyKey := ""
	if company != "" {
		companyKey = strings.ToLower(strings.Fields(company)[0])
	}

	enhanced := req.Query + " " + query.Expansion(analysis.Intent, expansionTerms)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{enhanced})
	if err != nil {
		return Retrieval{}, fmt.Errorf("failed to embed query: %w", err)
	}
	vec := embeddings[0]

	results, err := r.search(ctx, vec, topK)
	if err != nil {
		return Retrieval{}, err
	}

	logger.InfoContext(ctx, "retrieval search completed",
		"intent", analysis.Intent,
		"company", company,
		"year", year,
		"candidates", len(results),
	)

	out := Retrieval{
		Intent:  analysis.Intent,
		Company: company,
		Year:    year,
	}
	seen := make(map[string]bool)

	for _, res := range results {
		if res.Scored && res.Score < r.threshold {
			continue
		}

		metaCompany, _ := res.Meta["company"].(string)
		metaYear, _ := res.Meta["year"].(string)
		metaSection, _ := res.Meta["section"].(string)
		chunkIndex := metaInt(res.Meta["chunk_index"])

		if companyKey != "" && !strings.Contains(strings.ToLower(metaCompany), companyKey) {
			continue
		}
		if year != "" && metaYear != year {
			continue
		}

		text := strings.TrimSpace(r.chunkText(ctx, res))
		if utf8.RuneCountInString(text) < minChunkChars {
			continue
		}

		out.Chunks = append(out.Chunks, text)

		dedupeKey := metaCompany + "|" + metaYear + "|" + metaSection
		if seen[dedupeKey] {
			continue
		}
		seen[dedupeKey] = true
		out.Sources = append(out.Sources, Source{
			Company:    metaCompany,
			Year:       metaYear,
			Section:    metaSection,
			ChunkIndex: chunkIndex,
		})
	}

	logger.InfoContext(ctx, "retrieval filtering completed",
		"chunks", len(out.Chunks), "sources", len(out.Sources))

	return out, nil
}

// search prefers the diversity-maximizing mode when the backend supports it
// and falls back to plain scored search otherwise. A missing index always
// propagates as ErrIndexUnavailable.
func (r *Retriever) search(ctx context.Context, vec []float32, topK int) ([]vectorstore.SearchResult, error) {
	if ds, ok := r.vectors.(vectorstore.DiverseSearcher); ok {
		results, err := ds.SearchDiverse(ctx, r.collection, vec, topK, topK*3)
		if err == nil {
			return results, nil
		}
		if errors.Is(err, vectorstore.ErrIndexUnavailable) {
			return nil, err
		}
		logger := contextutil.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "diversity search failed, falling back to plain search", "error", err)
	}

	results, err := r.vectors.Search(ctx, r.collection, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}

// chunkText resolves a hit's text. The catalog is authoritative; the vector
// payload carries a copy so a hit still resolves when the catalog row is
// missing.
func (r *Retriever) chunkText(ctx context.Context, res vectorstore.SearchResult) string {
	if r.chunks != nil {
		rec, err := r.chunks.GetByID(ctx, res.PointID)
		if err == nil {
			return rec.Content
		}
		if !errors.Is(err, storage.ErrNotFound) {
			logger := contextutil.LoggerFromContext(ctx)
			logger.WarnContext(ctx, "failed to fetch chunk from catalog",
				"chunk_id", res.PointID, "error", err)
		}
	}
	content, _ := res.Meta["content"].(string)
	return content
}

// metaInt reads an integer payload field that may round-trip as a float or
// an int depending on the transport.
func metaInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
