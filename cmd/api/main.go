package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"finsight/internal/config"
	"finsight/internal/http"
	"finsight/internal/llm"
	"finsight/internal/query"
	"finsight/internal/rag"
	"finsight/internal/storage"
	"finsight/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API answers questions about indexed company annual reports using
// retrieval-augmented generation over MD&A narrative text and spreadsheet
// financial data.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Finsight API
//   description: |
//     Question answering over indexed annual reports. Queries are classified
//     for intent, company, and fiscal year, matched against a vector index of
//     report chunks, and answered by a language model constrained to the
//     retrieved excerpts.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	chunkRepo := storage.NewChunkRepo(db)
	reportRepo := storage.NewReportRepo(db)

	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// The API never creates the collection; that is the index builder's job.
	// A missing collection is reported per-request as "index unavailable".
	exists, err := vectorStore.CollectionExists(ctx, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to reach Qdrant: %v", err)
	}
	if !exists {
		slog.Warn("Collection does not exist yet, run the index builder",
			"collection", cfg.QdrantCollection)
	} else {
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection)
	}

	// Validate embedding client vector size (fail-fast). The query path must
	// embed with the exact configuration the index was built with.
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	retriever := rag.NewRetriever(
		query.NewAnalyzer(),
		embedder,
		vectorStore,
		chunkRepo,
		cfg.QdrantCollection,
		cfg.TopK,
		cfg.ScoreThreshold,
	)
	engine := rag.NewEngine(retriever, rag.NewComposer(llmClient))
	slog.Info("RAG engine initialized")

	deps := &http.Deps{
		Engine:      engine,
		VectorStore: vectorStore,
		ChunkRepo:   chunkRepo,
		ReportRepo:  reportRepo,
		Collection:  cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
