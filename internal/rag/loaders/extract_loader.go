package loaders

import (
	"context"
	"fmt"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// ExtractLoader loads a URL through a web search provider's content
// extraction endpoint. Preferred over direct fetching when a provider is
// configured.
type ExtractLoader struct {
	searcher interfaces.WebSearcher
}

// NewExtractLoader creates an ExtractLoader over a web search provider.
func NewExtractLoader(searcher interfaces.WebSearcher) *ExtractLoader {
	return &ExtractLoader{searcher: searcher}
}

// Load extracts the URL's content and returns it as a single page.
func (l *ExtractLoader) Load(ctx context.Context, url string) ([]schema.Page, error) {
	results, err := l.searcher.Extract(ctx, []string{url})
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", url, err)
	}
	if len(results) == 0 || results[0].Content == "" {
		return nil, fmt.Errorf("no content extracted from %s", url)
	}
	return []schema.Page{{Number: 1, Text: results[0].Content}}, nil
}

var _ interfaces.Loader = (*ExtractLoader)(nil)
