// Package tools exposes the retrieval capabilities as uniform tool
// adapters: each returns a numbered context block for prompting plus the
// structured sources behind it.
package tools

import (
	"context"
	"fmt"
	"strings"

	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
	"ragbot/pkg/logger"
)

// Toolbox bundles the retrieval tools with their dependencies and tuning.
type Toolbox struct {
	log      *logger.Logger
	embedder interfaces.EmbeddingModel
	store    interfaces.VectorStore
	searcher interfaces.WebSearcher
	reranker interfaces.Reranker

	topK       int
	threshold  float32
	searchMode schema.SearchMode
	webTopK    int
}

// Options tunes retrieval. Reranker is optional.
type Options struct {
	TopK       int
	Threshold  float32
	SearchMode schema.SearchMode
	WebTopK    int
	Reranker   interfaces.Reranker
}

// NewToolbox wires the retrieval tools.
func NewToolbox(embedder interfaces.EmbeddingModel, store interfaces.VectorStore, searcher interfaces.WebSearcher, opts Options, log *logger.Logger) *Toolbox {
	return &Toolbox{
		log:        log,
		embedder:   embedder,
		store:      store,
		searcher:   searcher,
		reranker:   opts.Reranker,
		topK:       opts.TopK,
		threshold:  opts.Threshold,
		searchMode: opts.SearchMode,
		webTopK:    opts.WebTopK,
	}
}

// VectorSearch embeds the query, searches the collection, and renders the
// hits as a numbered context block. Source numbering starts at 1 for every
// call.
func (t *Toolbox) VectorSearch(ctx context.Context, collection, query string) (string, []models.RetrievedSource, error) {
	vectors, err := t.embedder.Embed(ctx, []string{query})
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return "", nil, fmt.Errorf("embedding provider returned no vector for query")
	}

	hits, err := t.store.Search(ctx, collection, vectors[0], t.topK, t.threshold, t.searchMode)
	if err != nil {
		return "", nil, err
	}

	if t.reranker != nil && len(hits) > 0 {
		reranked, err := t.reranker.Rerank(ctx, query, hits)
		if err != nil {
			t.log.Warn(fmt.Sprintf("Reranker failed, keeping store order: %v", err))
		} else {
			hits = reranked
		}
	}

	var blocks []string
	sources := make([]models.RetrievedSource, 0, len(hits))
	for i, hit := range hits {
		id := i + 1
		blocks = append(blocks, fmt.Sprintf("Source ID: [%d]\nContent: %s", id, hit.Content))
		sources = append(sources, models.RetrievedSource{
			SourceID: id,
			Content:  hit.Content,
			Origin:   models.OriginVectorStore,
			Metadata: map[string]any{
				"source":       hit.Source,
				"page":         hit.Page,
				"start_offset": hit.StartOffset,
				"score":        hit.Score,
			},
		})
	}
	return strings.Join(blocks, "\n\n"), sources, nil
}

// WebSearch queries the web and renders the results in the same numbered
// shape as VectorSearch. Numbering restarts at 1; the two stages never
// share a numbering space.
func (t *Toolbox) WebSearch(ctx context.Context, query string) (string, []models.RetrievedSource, error) {
	results, err := t.searcher.Search(ctx, query, t.webTopK)
	if err != nil {
		return "", nil, fmt.Errorf("web search failed: %w", err)
	}

	var blocks []string
	sources := make([]models.RetrievedSource, 0, len(results))
	for i, res := range results {
		id := i + 1
		blocks = append(blocks, fmt.Sprintf("Source ID: [%d]\nTitle: %s\nContent: %s", id, res.Title, res.Content))
		sources = append(sources, models.RetrievedSource{
			SourceID: id,
			Content:  res.Content,
			Origin:   models.OriginWebSearch,
			Metadata: map[string]any{
				"url":   res.URL,
				"title": res.Title,
				"score": res.Score,
			},
		})
	}
	return strings.Join(blocks, "\n\n"), sources, nil
}

// Dispatch executes a named tool call from the agent loop. Unknown tool
// names report an error result instead of failing the whole turn.
func (t *Toolbox) Dispatch(ctx context.Context, collection string, call interfaces.ToolCall) (string, []models.RetrievedSource, error) {
	query, _ := call.Args["query"].(string)
	switch call.Name {
	case interfaces.ToolVectorSearch:
		return t.VectorSearch(ctx, collection, query)
	case interfaces.ToolWebSearch:
		return t.WebSearch(ctx, query)
	default:
		return "", nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}
