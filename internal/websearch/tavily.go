// Package websearch wraps the external web search capability.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

const (
	tavilySearchURL  = "https://api.tavily.com/search"
	tavilyExtractURL = "https://api.tavily.com/extract"
)

// TavilyClient implements the WebSearcher capability against the Tavily
// API.
type TavilyClient struct {
	apiKey     string
	httpClient *http.Client
}

// NewTavilyClient creates a TavilyClient.
func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Configured reports whether an API key is present. Callers fall back to
// direct fetching when it is not.
func (c *TavilyClient) Configured() bool { return c.apiKey != "" }

type tavilySearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyExtractRequest struct {
	URLs []string `json:"urls"`
}

type tavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content"`
	Score      float32 `json:"score"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search runs a ranked web search for the query.
func (c *TavilyClient) Search(ctx context.Context, query string, topK int) ([]schema.WebResult, error) {
	resp, err := c.post(ctx, tavilySearchURL, tavilySearchRequest{Query: query, MaxResults: topK})
	if err != nil {
		return nil, err
	}

	results := make([]schema.WebResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, schema.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return results, nil
}

// Extract pulls the raw page content for each URL.
func (c *TavilyClient) Extract(ctx context.Context, urls []string) ([]schema.WebResult, error) {
	resp, err := c.post(ctx, tavilyExtractURL, tavilyExtractRequest{URLs: urls})
	if err != nil {
		return nil, err
	}

	results := make([]schema.WebResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, schema.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.RawContent,
		})
	}
	return results, nil
}

func (c *TavilyClient) post(ctx context.Context, url string, body interface{}) (*tavilyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tavily api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api returned non-200 status: %s", resp.Status)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}
	return &decoded, nil
}

var _ interfaces.WebSearcher = (*TavilyClient)(nil)
