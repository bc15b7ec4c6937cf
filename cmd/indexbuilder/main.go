// Command indexbuilder builds the vector index and chunk catalog from the
// source manifest. It is an offline batch job; it must not run concurrently
// with an API instance serving the same storage.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"finsight/internal/config"
	"finsight/internal/contextutil"
	"finsight/internal/indexer"
	"finsight/internal/llm"
	"finsight/internal/manifest"
	"finsight/internal/storage"
	"finsight/internal/vectorstore"
)

func main() {
	rebuild := flag.Bool("rebuild", false, "drop the existing collection and catalog before building")
	manifestPath := flag.String("manifest", "", "manifest path (overrides MANIFEST_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	path := cfg.ManifestPath
	if *manifestPath != "" {
		path = *manifestPath
	}
	m, err := manifest.Load(path)
	if err != nil {
		log.Fatalf("Failed to load manifest: %v", err)
	}
	slog.Info("Manifest loaded",
		"path", path, "documents", len(m.Documents), "workbooks", len(m.Workbooks))

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

	ctx := contextutil.WithLogger(context.Background(), logger)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready",
		"collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)

	pipeline := indexer.NewPipeline(
		embedder,
		vectorStore,
		storage.NewChunkRepo(db),
		storage.NewReportRepo(db),
		cfg.QdrantCollection,
		cfg.EmbeddingModel,
	)

	if *rebuild {
		// Dropping removes the collection entirely, so recreate it before
		// the first upsert.
		if err := vectorStore.Drop(ctx, cfg.QdrantCollection); err != nil {
			log.Fatalf("Failed to drop collection: %v", err)
		}
		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			log.Fatalf("Failed to recreate collection: %v", err)
		}
		if err := storage.NewChunkRepo(db).DeleteAll(ctx); err != nil {
			log.Fatalf("Failed to clear chunk catalog: %v", err)
		}
		slog.Info("Existing index dropped", "collection", cfg.QdrantCollection)
	}

	report, err := pipeline.Run(ctx, m)
	if err != nil {
		log.Fatalf("Index build failed: %v", err)
	}

	slog.Info("Index build complete",
		"documents", report.DocumentsProcessed,
		"documents_skipped", report.DocumentsSkipped,
		"workbooks", report.WorkbooksProcessed,
		"workbooks_skipped", report.WorkbooksSkipped,
		"chunks", report.TotalChunks,
	)
}
