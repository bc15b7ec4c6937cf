package indexer

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"finsight/internal/chunk"
	"finsight/internal/contextutil"
	"finsight/internal/extractor"
	"finsight/internal/financials"
	"finsight/internal/manifest"
	"finsight/internal/storage"
	"finsight/internal/vectorstore"
)

// embedBatchSize caps how many chunk texts go to the embeddings API in one
// request. Large annual reports produce hundreds of chunks; one giant request
// trips provider payload limits.
const embedBatchSize = 64

// Embedder generates one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline builds the vector index and chunk catalog from a source manifest.
//
// Missing or unreadable source files are skipped and counted, never fatal:
// one bad PDF must not block a rebuild of every other company's data. Embed
// or upsert failures abort the build, because a partially embedded index is
// worse than a stale one.
type Pipeline struct {
	extractor  *extractor.Extractor
	chunker    *SentenceChunker
	embedder   Embedder
	vectors    vectorstore.VectorStore
	chunks     storage.ChunkStore
	reports    storage.ReportStore
	collection string
	model      string
}

// NewPipeline creates an index-build pipeline.
func NewPipeline(
	embedder Embedder,
	vectors vectorstore.VectorStore,
	chunks storage.ChunkStore,
	reports storage.ReportStore,
	collection, embeddingModel string,
) *Pipeline {
	return &Pipeline{
		extractor:  extractor.New(),
		chunker:    NewSentenceChunker(),
		embedder:   embedder,
		vectors:    vectors,
		chunks:     chunks,
		reports:    reports,
		collection: collection,
		model:      embeddingModel,
	}
}

// Run processes every manifest entry and writes the resulting vectors and
// catalog rows. The returned report is also persisted. Run appends to
// whatever the collection already holds; idempotency comes from a full
// rebuild (drop, recreate, run), which the caller orchestrates.
func (p *Pipeline) Run(ctx context.Context, m *manifest.Manifest) (*storage.BuildReport, error) {
	logger := contextutil.LoggerFromContext(ctx)

	report := &storage.BuildReport{EmbeddingModel: p.model}

	for _, doc := range m.Documents {
		path := m.DocumentPath(doc)
		chunks, err := p.documentChunks(path, doc.Company, doc.Year)
		if err != nil {
			logger.Warn("skipping document", "path", path, "error", err)
			report.DocumentsSkipped++
			continue
		}
		if len(chunks) == 0 {
			logger.Warn("skipping document with no usable text", "path", path)
			report.DocumentsSkipped++
			continue
		}

		if err := p.indexChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", path, err)
		}
		logger.Info("indexed document",
			"company", doc.Company, "year", doc.Year, "chunks", len(chunks))
		report.DocumentsProcessed++
		report.TotalChunks += len(chunks)
	}

	for _, wb := range m.Workbooks {
		path := m.WorkbookPath(wb)
		chunks, err := p.workbookChunks(path, wb.Company)
		if err != nil {
			logger.Warn("skipping workbook", "path", path, "error", err)
			report.WorkbooksSkipped++
			continue
		}
		if len(chunks) == 0 {
			logger.Warn("skipping workbook with no recognized statements", "path", path)
			report.WorkbooksSkipped++
			continue
		}

		if err := p.indexChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", path, err)
		}
		logger.Info("indexed workbook", "company", wb.Company, "chunks", len(chunks))
		report.WorkbooksProcessed++
		report.TotalChunks += len(chunks)
	}

	if err := p.reports.Insert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to record build report: %w", err)
	}

	return report, nil
}

func (p *Pipeline) documentChunks(path, company, year string) ([]chunk.Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source file unavailable: %w", err)
	}

	sections, err := p.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return p.chunker.ChunkSections(sections, company, year), nil
}

func (p *Pipeline) workbookChunks(path, company string) ([]chunk.Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source file unavailable: %w", err)
	}
	return financials.IngestWorkbook(path, company)
}

// indexChunks embeds a source's chunks in batches and writes each batch to
// the vector store and the catalog. Vector and catalog rows share the same
// UUID so either side can be traced to the other.
func (p *Pipeline) indexChunks(ctx context.Context, chunks []chunk.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}

		points := make([]vectorstore.Point, len(batch))
		records := make([]*storage.ChunkRecord, len(batch))
		for i, c := range batch {
			id := uuid.New().String()
			points[i] = vectorstore.Point{
				ID:  id,
				Vec: vectors[i],
				Meta: map[string]any{
					"company":     c.Meta.Company,
					"year":        c.Meta.Year,
					"doc_type":    string(c.Meta.DocType),
					"section":     c.Meta.Section,
					"chunk_index": c.Meta.ChunkIndex,
					"content":     c.Content,
				},
			}
			records[i] = &storage.ChunkRecord{
				ID:         id,
				Company:    c.Meta.Company,
				Year:       c.Meta.Year,
				DocType:    string(c.Meta.DocType),
				Section:    c.Meta.Section,
				ChunkIndex: c.Meta.ChunkIndex,
				Content:    c.Content,
			}
		}

		if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
			return fmt.Errorf("failed to upsert vectors: %w", err)
		}
		for _, rec := range records {
			if err := p.chunks.Insert(ctx, rec); err != nil {
				return fmt.Errorf("failed to catalog chunk %s: %w", rec.ID, err)
			}
		}
	}
	return nil
}
