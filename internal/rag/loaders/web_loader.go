package loaders

import (
	"context"
	"fmt"
	"io"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// WebLoader fetches a URL directly and converts its HTML to markdown text.
// It is the fallback path for URL ingestion when no web search provider is
// configured.
type WebLoader struct {
	httpClient *http.Client
}

// NewWebLoader creates a new WebLoader.
func NewWebLoader() *WebLoader {
	return &WebLoader{httpClient: &http.Client{}}
}

// Load fetches the URL and returns its readable content as a single page.
func (l *WebLoader) Load(ctx context.Context, url string) ([]schema.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s returned status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to markdown: %w", url, err)
	}

	return []schema.Page{{Number: 1, Text: markdown}}, nil
}

var _ interfaces.Loader = (*WebLoader)(nil)
