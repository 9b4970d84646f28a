package rerankers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/rag/schema"
)

func TestCohereRerankerReordersByScore(t *testing.T) {
	var gotReq cohereRerankRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(cohereRerankResponse{
			Results: []cohereRerankResult{
				{Index: 2, RelevanceScore: 0.95},
				{Index: 0, RelevanceScore: 0.40},
			},
		})
	}))
	defer srv.Close()

	r := NewCohereReranker("test-key", "rerank-v3.5", 2)
	r.baseURL = srv.URL

	chunks := []schema.ScoredChunk{
		{Chunk: schema.Chunk{ID: "a", Content: "alpha"}},
		{Chunk: schema.Chunk{ID: "b", Content: "beta"}},
		{Chunk: schema.Chunk{ID: "c", Content: "gamma"}},
	}

	out, err := r.Rerank(context.Background(), "which greek letter?", chunks)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "c", out[0].ID)
	assert.InDelta(t, 0.95, float64(out[0].Score), 1e-6)
	assert.Equal(t, "a", out[1].ID)

	assert.Equal(t, "which greek letter?", gotReq.Query)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, gotReq.Documents)
	assert.Equal(t, 2, gotReq.TopN)
}

func TestCohereRerankerEmptyInput(t *testing.T) {
	r := NewCohereReranker("k", "m", 3)
	out, err := r.Rerank(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCohereRerankerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewCohereReranker("k", "m", 3)
	r.baseURL = srv.URL

	_, err := r.Rerank(context.Background(), "q", []schema.ScoredChunk{{Chunk: schema.Chunk{Content: "x"}}})
	assert.Error(t, err)
}
