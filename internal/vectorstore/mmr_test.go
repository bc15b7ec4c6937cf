package vectorstore

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaximalMarginalRelevance_PrefersDiversity(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := [][]float32{
		{0.99, 0.141, 0}, // most relevant
		{0.98, 0.199, 0}, // slightly less relevant, nearly identical to the first
		{0.8, 0, 0.6},    // less relevant but pointing elsewhere
	}

	selected := maximalMarginalRelevance(query, candidates, mmrLambda, 2)
	if len(selected) != 2 {
		t.Fatalf("selected %d candidates, want 2", len(selected))
	}
	if selected[0] != 0 {
		t.Errorf("first pick = %d, want the most relevant candidate", selected[0])
	}
	if selected[1] != 2 {
		t.Errorf("second pick = %d, want the diverse candidate over the near-duplicate", selected[1])
	}
}

func TestMaximalMarginalRelevance_Bounds(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{{1, 0}, {0, 1}}

	if got := maximalMarginalRelevance(query, candidates, mmrLambda, 0); got != nil {
		t.Errorf("k=0 should select nothing, got %v", got)
	}
	if got := maximalMarginalRelevance(query, nil, mmrLambda, 5); got != nil {
		t.Errorf("no candidates should select nothing, got %v", got)
	}
	if got := maximalMarginalRelevance(query, candidates, mmrLambda, 10); len(got) != 2 {
		t.Errorf("k above candidate count should select all, got %v", got)
	}
}
