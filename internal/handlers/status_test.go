package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"finsight/internal/storage"
	"finsight/internal/storage/mocks"
	"finsight/internal/vectorstore"
)

type stubInspector struct {
	info *vectorstore.CollectionInfo
	err  error
}

func (s *stubInspector) GetCollectionInfo(_ context.Context, _ string) (*vectorstore.CollectionInfo, error) {
	return s.info, s.err
}

func TestStatusHandler_Ready(t *testing.T) {
	ctrl := gomock.NewController(t)

	chunks := mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Count(gomock.Any()).Return(42, nil)

	builtAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reports := mocks.NewMockReportStore(ctrl)
	reports.EXPECT().Latest(gomock.Any()).Return(&storage.BuildReport{
		BuiltAt:            builtAt,
		EmbeddingModel:     "text-embedding-3-small",
		DocumentsProcessed: 3,
		DocumentsSkipped:   1,
		WorkbooksProcessed: 2,
		WorkbooksSkipped:   0,
		TotalChunks:        42,
	}, nil)

	inspector := &stubInspector{info: &vectorstore.CollectionInfo{PointsCount: 42, VectorSize: 1536}}
	handler := NewStatusHandler(inspector, chunks, reports, "annual-reports")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IndexReady {
		t.Error("index_ready = false, want true")
	}
	if resp.Points != 42 || resp.VectorSize != 1536 {
		t.Errorf("points = %d, vector_size = %d", resp.Points, resp.VectorSize)
	}
	if resp.CatalogChunks != 42 {
		t.Errorf("catalog_chunks = %d", resp.CatalogChunks)
	}
	if resp.LastBuild == nil {
		t.Fatal("last_build missing")
	}
	if !resp.LastBuild.BuiltAt.Equal(builtAt) || resp.LastBuild.TotalChunks != 42 {
		t.Errorf("last_build = %+v", resp.LastBuild)
	}
	if resp.LastBuild.DocumentsSkipped != 1 || resp.LastBuild.WorkbooksSkipped != 0 {
		t.Errorf("skip counts = %d docs, %d workbooks", resp.LastBuild.DocumentsSkipped, resp.LastBuild.WorkbooksSkipped)
	}
}

func TestStatusHandler_NoIndexYet(t *testing.T) {
	ctrl := gomock.NewController(t)

	chunks := mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Count(gomock.Any()).Return(0, nil)

	reports := mocks.NewMockReportStore(ctrl)
	reports.EXPECT().Latest(gomock.Any()).Return(nil, storage.ErrNotFound)

	inspector := &stubInspector{err: vectorstore.ErrIndexUnavailable}
	handler := NewStatusHandler(inspector, chunks, reports, "annual-reports")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("missing collection must not be an error, status = %d", w.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.IndexReady {
		t.Error("index_ready = true, want false")
	}
	if resp.LastBuild != nil {
		t.Errorf("last_build = %+v, want nil", resp.LastBuild)
	}
}

func TestStatusHandler_VectorStoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)

	chunks := mocks.NewMockChunkStore(ctrl)
	reports := mocks.NewMockReportStore(ctrl)

	inspector := &stubInspector{err: context.DeadlineExceeded}
	handler := NewStatusHandler(inspector, chunks, reports, "annual-reports")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
