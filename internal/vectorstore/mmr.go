package vectorstore

import "math"

// mmrLambda balances relevance against diversity; 0.5 weights them equally.
const mmrLambda = float32(0.5)

// maximalMarginalRelevance selects up to k candidate indices, each step
// picking the candidate with the best blend of similarity to the query and
// dissimilarity to everything already selected.
func maximalMarginalRelevance(query []float32, candidates [][]float32, lambda float32, k int) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	queryScores := make([]float32, len(candidates))
	for i, c := range candidates {
		queryScores[i] = cosineSimilarity(query, c)
	}

	selected := make([]int, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k {
		best := -1
		bestScore := float32(math.Inf(-1))

		for i := range candidates {
			if used[i] {
				continue
			}

			maxRedundancy := float32(0)
			for _, s := range selected {
				if sim := cosineSimilarity(candidates[i], candidates[s]); sim > maxRedundancy {
					maxRedundancy = sim
				}
			}

			score := lambda*queryScores[i] - (1-lambda)*maxRedundancy
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best == -1 {
			break
		}
		used[best] = true
		selected = append(selected, best)
	}

	return selected
}

// cosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either has zero magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
