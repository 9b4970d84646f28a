// Package rerankers re-orders retrieved chunks by relevance to the query.
package rerankers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

const cohereRerankURL = "https://api.cohere.ai/v1/rerank"

// CohereReranker re-scores chunks with the Cohere Rerank API.
type CohereReranker struct {
	apiKey     string
	httpClient *http.Client
	model      string
	topN       int
	baseURL    string
}

type cohereRerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

// NewCohereReranker creates a reranker. topN caps how many chunks survive
// the rerank.
func NewCohereReranker(apiKey, model string, topN int) *CohereReranker {
	return &CohereReranker{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		model:      model,
		topN:       topN,
		baseURL:    cohereRerankURL,
	}
}

// Rerank re-orders chunks by Cohere relevance scores, descending.
func (r *CohereReranker) Rerank(ctx context.Context, query string, chunks []schema.ScoredChunk) ([]schema.ScoredChunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	docTexts := make([]string, len(chunks))
	for i, c := range chunks {
		docTexts[i] = c.Content
	}

	payload, err := json.Marshal(cohereRerankRequest{
		Model:           r.model,
		Query:           query,
		Documents:       docTexts,
		TopN:            r.topN,
		ReturnDocuments: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cohere request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create cohere request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call cohere api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cohere api returned non-200 status: %s", resp.Status)
	}

	var cohereResp cohereRerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&cohereResp); err != nil {
		return nil, fmt.Errorf("failed to decode cohere response: %w", err)
	}

	reranked := make([]schema.ScoredChunk, 0, len(cohereResp.Results))
	for _, result := range cohereResp.Results {
		if result.Index >= len(chunks) {
			continue
		}
		c := chunks[result.Index]
		c.Score = float32(result.RelevanceScore)
		reranked = append(reranked, c)
	}

	sort.Slice(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return reranked, nil
}

var _ interfaces.Reranker = (*CohereReranker)(nil)
