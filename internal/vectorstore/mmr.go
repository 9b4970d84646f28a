package vectorstore

import (
	"math"

	"ragbot/internal/rag/schema"
)

// defaultMMRLambda balances query relevance against diversity when MMR mode
// re-ranks candidates. Higher values favor relevance.
const defaultMMRLambda = 0.7

// maximalMarginalRelevance greedily selects up to topK candidates maximizing
// lambda*sim(query, doc) - (1-lambda)*max(sim(doc, selected)).
func maximalMarginalRelevance(query []float32, candidates []schema.ScoredChunk, topK int, lambda float32) []schema.ScoredChunk {
	if len(candidates) <= 1 || topK <= 0 {
		if len(candidates) > topK {
			return candidates[:topK]
		}
		return candidates
	}

	selected := make([]schema.ScoredChunk, 0, topK)
	remaining := make([]schema.ScoredChunk, len(candidates))
	copy(remaining, candidates)

	for len(selected) < topK && len(remaining) > 0 {
		bestIdx := -1
		bestScore := float32(math.Inf(-1))
		for i, cand := range remaining {
			relevance := cosineSimilarity(query, cand.Embedding)
			redundancy := float32(0)
			for _, sel := range selected {
				if sim := cosineSimilarity(cand.Embedding, sel.Embedding); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
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
