package rag

import (
	"context"
	"net/http"
	"testing"

	"finsight/internal/llm"
	"finsight/internal/query"
	"finsight/internal/vectorstore"
)

func newTestEngine(vs vectorstore.VectorStore, llmBaseURL string) Engine {
	retriever := NewRetriever(query.NewAnalyzer(), &fakeEmbedder{vec: []float32{1}}, vs, nil, "reports", 10, 0.25)
	composer := NewComposer(llm.NewClient(llmBaseURL, "key", "test-model"))
	return NewEngine(retriever, composer)
}

func TestAnswer_EmptyQueryRejected(t *testing.T) {
	e := newTestEngine(&diverseStub{}, "http://localhost:0")
	if _, err := e.Answer(context.Background(), QueryRequest{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestAnswer_NoResultsUsesFallbackLabels(t *testing.T) {
	e := newTestEngine(&diverseStub{}, "http://localhost:0")

	got, err := e.Answer(context.Background(), QueryRequest{Query: "completely unrelated topic"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got.Answer != emptyRetrievalAnswer {
		t.Errorf("answer = %q, want the empty-retrieval message", got.Answer)
	}
	if got.Company != AllCompanies {
		t.Errorf("company = %q, want %q", got.Company, AllCompanies)
	}
	if got.Year != AllYears {
		t.Errorf("year = %q, want %q", got.Year, AllYears)
	}
	if got.Sources == nil || len(got.Sources) != 0 {
		t.Errorf("sources must be an empty slice, got %v", got.Sources)
	}
	if got.Intent != string(query.IntentGeneral) {
		t.Errorf("intent = %q", got.Intent)
	}
}

func TestAnswer_FullPipeline(t *testing.T) {
	var req llm.ChatRequest
	srv := chatServer(t, http.StatusOK, "Revenue grew 6% in FY2024-25.", &req)
	defer srv.Close()

	res := scoredResult("a", "TCS", "FY2024-25", "Operating & Financial Performance", 0, 0)
	res.Scored = false
	stub := &diverseStub{results: []vectorstore.SearchResult{res}}

	e := newTestEngine(stub, srv.URL)
	got, err := e.Answer(context.Background(), QueryRequest{Query: "How did TCS revenue grow in FY25?"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if got.Answer != "Revenue grew 6% in FY2024-25." {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.Intent != string(query.IntentPerformance) {
		t.Errorf("intent = %q, want performance", got.Intent)
	}
	if got.Company != "TCS" {
		t.Errorf("company = %q, want TCS", got.Company)
	}
	if got.Year != "FY2024-25" {
		t.Errorf("year = %q, want FY2024-25", got.Year)
	}
	if len(got.Sources) != 1 || got.Sources[0].Section != "Operating & Financial Performance" {
		t.Errorf("sources = %+v", got.Sources)
	}
}
