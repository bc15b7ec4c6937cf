package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"finsight/internal/chunk"
	"finsight/internal/manifest"
	"finsight/internal/storage"
	storagemocks "finsight/internal/storage/mocks"
	"finsight/internal/vectorstore"
	vsmocks "finsight/internal/vectorstore/mocks"
)

type countingEmbedder struct {
	calls      int
	lastInputs []string
	err        error
}

func (e *countingEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.lastInputs = texts
	if e.err != nil {
		return nil, e.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}

func makeChunks(n int) []chunk.Chunk {
	chunks := make([]chunk.Chunk, n)
	for i := range chunks {
		chunks[i] = chunk.Chunk{
			Content: fmt.Sprintf("chunk %d content", i),
			Meta: chunk.Metadata{
				Company:    "TCS",
				Year:       "FY2024-25",
				DocType:    chunk.DocTypeNarrative,
				Section:    "Business Outlook",
				ChunkIndex: i,
			},
		}
	}
	return chunks
}

func TestPipeline_Run_SkipsMissingSources(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No Upsert or Insert expectations: the mocks fail the test if any
	// indexing happens for missing files.
	vectors := vsmocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)

	reports := storagemocks.NewMockReportStore(ctrl)
	reports.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	p := NewPipeline(&countingEmbedder{}, vectors, chunks, reports, "annual-reports", "text-embedding-3-small")

	m := &manifest.Manifest{
		DataDir: t.TempDir(),
		Documents: []manifest.Document{
			{File: "icici_2024.pdf", Company: "ICICI Bank", Year: "FY2023-24"},
			{File: "tcs_2025.pdf", Company: "TCS", Year: "FY2024-25"},
		},
		Workbooks: []manifest.Workbook{
			{File: "hdfc_financials.xlsx", Company: "HDFC Bank"},
		},
	}

	report, err := p.Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.DocumentsSkipped != 2 {
		t.Errorf("DocumentsSkipped = %d, want 2", report.DocumentsSkipped)
	}
	if report.WorkbooksSkipped != 1 {
		t.Errorf("WorkbooksSkipped = %d, want 1", report.WorkbooksSkipped)
	}
	if report.DocumentsProcessed != 0 || report.WorkbooksProcessed != 0 || report.TotalChunks != 0 {
		t.Errorf("report = %+v, want no processed sources", report)
	}
	if report.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", report.EmbeddingModel)
	}
}

func TestPipeline_IndexChunks_Batching(t *testing.T) {
	ctrl := gomock.NewController(t)
	embedder := &countingEmbedder{}

	var upsertBatches [][]vectorstore.Point
	vectors := vsmocks.NewMockVectorStore(ctrl)
	vectors.EXPECT().
		Upsert(gomock.Any(), "annual-reports", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			upsertBatches = append(upsertBatches, points)
			return nil
		}).
		Times(3)

	inserted := 0
	chunkStore := storagemocks.NewMockChunkStore(ctrl)
	chunkStore.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *storage.ChunkRecord) error {
			inserted++
			return nil
		}).
		Times(150)

	reports := storagemocks.NewMockReportStore(ctrl)

	p := NewPipeline(embedder, vectors, chunkStore, reports, "annual-reports", "text-embedding-3-small")

	if err := p.indexChunks(context.Background(), makeChunks(150)); err != nil {
		t.Fatalf("indexChunks() error = %v", err)
	}

	if embedder.calls != 3 {
		t.Errorf("embed calls = %d, want 3 batches of 64/64/22", embedder.calls)
	}
	if len(embedder.lastInputs) != 22 {
		t.Errorf("final batch size = %d, want 22", len(embedder.lastInputs))
	}
	if inserted != 150 {
		t.Errorf("catalog inserts = %d, want 150", inserted)
	}
	if got := len(upsertBatches[0]); got != 64 {
		t.Errorf("first upsert batch = %d points, want 64", got)
	}

	first := upsertBatches[0][0]
	if first.ID == "" {
		t.Error("point ID must be set")
	}
	if first.Meta["company"] != "TCS" || first.Meta["doc_type"] != "MD&A" {
		t.Errorf("point metadata = %+v", first.Meta)
	}
	if !strings.Contains(first.Meta["content"].(string), "chunk 0") {
		t.Errorf("content payload = %v", first.Meta["content"])
	}
}

func TestPipeline_IndexChunks_EmbedFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)

	vectors := vsmocks.NewMockVectorStore(ctrl)
	chunkStore := storagemocks.NewMockChunkStore(ctrl)
	reports := storagemocks.NewMockReportStore(ctrl)

	embedder := &countingEmbedder{err: errors.New("rate limited")}
	p := NewPipeline(embedder, vectors, chunkStore, reports, "annual-reports", "text-embedding-3-small")

	err := p.indexChunks(context.Background(), makeChunks(5))
	if err == nil {
		t.Fatal("expected embed failure to abort the batch")
	}
	if !strings.Contains(err.Error(), "failed to embed") {
		t.Errorf("error = %v", err)
	}
}
