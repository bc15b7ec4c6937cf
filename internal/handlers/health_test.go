package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	exists bool
	err    error
}

func (s *stubChecker) CollectionExists(_ context.Context, _ string) (bool, error) {
	return s.exists, s.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checker    *stubChecker
		wantStatus int
		wantHealth string
		wantCheck  string
	}{
		{
			name:       "healthy",
			checker:    &stubChecker{exists: true},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
			wantCheck:  "ok",
		},
		{
			name:       "collection missing",
			checker:    &stubChecker{exists: false},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantCheck:  "error",
		},
		{
			name:       "vector store unreachable",
			checker:    &stubChecker{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantCheck:  "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checker, "annual-reports")
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("health = %q, want %q", resp.Status, tt.wantHealth)
			}
			if resp.Checks["vector_store"] != tt.wantCheck {
				t.Errorf("vector_store check = %q, want %q", resp.Checks["vector_store"], tt.wantCheck)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(&stubChecker{exists: true}, "annual-reports")
	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
