package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"finsight/internal/rag"
	"finsight/internal/storage"
	"finsight/internal/storage/mocks"
	"finsight/internal/vectorstore"
)

type stubVectorStore struct{}

func (s *stubVectorStore) CollectionExists(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (s *stubVectorStore) GetCollectionInfo(_ context.Context, _ string) (*vectorstore.CollectionInfo, error) {
	return &vectorstore.CollectionInfo{PointsCount: 1, VectorSize: 1536}, nil
}

type staticEngine struct{}

func (staticEngine) Answer(_ context.Context, _ rag.QueryRequest) (rag.QueryResult, error) {
	return rag.QueryResult{
		Answer:  "ok",
		Sources: []rag.Source{},
		Intent:  "general",
		Company: rag.AllCompanies,
		Year:    rag.AllYears,
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	chunks := mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().Count(gomock.Any()).Return(1, nil).AnyTimes()
	reports := mocks.NewMockReportStore(ctrl)
	reports.EXPECT().Latest(gomock.Any()).Return(nil, storage.ErrNotFound).AnyTimes()

	return NewRouter(&Deps{
		Engine:      staticEngine{},
		VectorStore: &stubVectorStore{},
		ChunkRepo:   chunks,
		ReportRepo:  reports,
		Collection:  "annual-reports",
	})
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/api/health", "", http.StatusOK},
		{"status", http.MethodGet, "/api/v1/status", "", http.StatusOK},
		{"query", http.MethodPost, "/api/v1/query", `{"query":"q"}`, http.StatusOK},
		{"query wrong method", http.MethodGet, "/api/v1/query", "", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	router := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestRouter_CORSApplied(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/query", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
