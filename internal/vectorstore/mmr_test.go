package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/rag/schema"
)

func scored(id string, emb []float32, score float32) schema.ScoredChunk {
	return schema.ScoredChunk{
		Chunk: schema.Chunk{ID: id, Embedding: emb},
		Score: score,
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestMMRPrefersDiverseResults(t *testing.T) {
	query := []float32{1, 0}
	candidates := []schema.ScoredChunk{
		scored("a", []float32{0.9, 0.436}, 0.9),
		scored("a-dup", []float32{0.9, 0.436}, 0.9),
		scored("b", []float32{0.9, -0.436}, 0.9),
	}

	out := maximalMarginalRelevance(query, candidates, 2, 0.5)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	// The duplicate of "a" is fully redundant, so the diverse candidate wins.
	assert.Equal(t, "b", out[1].ID)
}

func TestMMRHighLambdaKeepsRelevanceOrder(t *testing.T) {
	query := []float32{1, 0}
	candidates := []schema.ScoredChunk{
		scored("a", []float32{0.9, 0.436}, 0.9),
		scored("a-dup", []float32{0.9, 0.436}, 0.9),
		scored("b", []float32{0.9, -0.436}, 0.9),
	}

	out := maximalMarginalRelevance(query, candidates, 2, 1.0)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "a-dup", out[1].ID)
}

func TestMMRBounds(t *testing.T) {
	query := []float32{1, 0}
	candidates := []schema.ScoredChunk{
		scored("a", []float32{1, 0}, 1.0),
		scored("b", []float32{0, 1}, 0.1),
	}

	assert.Empty(t, maximalMarginalRelevance(query, candidates, 0, 0.7))
	assert.Len(t, maximalMarginalRelevance(query, candidates, 10, 0.7), 2)
	assert.Len(t, maximalMarginalRelevance(query, candidates[:1], 1, 0.7), 1)
	assert.Empty(t, maximalMarginalRelevance(query, nil, 3, 0.7))
}
