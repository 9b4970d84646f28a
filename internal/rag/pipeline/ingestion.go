// Package pipeline contains the three request-scoped flows of the system:
// document ingestion, the fixed retrieve-then-fallback query flow, and the
// agentic tool-calling flow.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/loaders"
	"ragbot/internal/rag/schema"
	"ragbot/pkg/logger"
)

// IngestionPipeline turns documents and URLs into embedded chunks in a
// collection: load, split with page attribution, embed, upsert.
type IngestionPipeline struct {
	log       *logger.Logger
	splitter  interfaces.Splitter
	embedder  interfaces.EmbeddingModel
	store     interfaces.VectorStore
	urlLoader interfaces.Loader
}

// NewIngestionPipeline wires an ingestion pipeline. urlLoader is the
// strategy for URL content (search-provider extraction or direct fetch),
// chosen at startup.
func NewIngestionPipeline(splitter interfaces.Splitter, embedder interfaces.EmbeddingModel, store interfaces.VectorStore, urlLoader interfaces.Loader, log *logger.Logger) *IngestionPipeline {
	return &IngestionPipeline{
		log:       log,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		urlLoader: urlLoader,
	}
}

// IngestFile ingests one local document into the collection and returns the
// number of chunks stored. Unsupported file types fail before any provider
// or store is contacted.
func (p *IngestionPipeline) IngestFile(ctx context.Context, collection, path string) (int, error) {
	loader, err := loaders.ForFile(path)
	if err != nil {
		return 0, err
	}

	pages, err := loader.Load(ctx, path)
	if err != nil {
		return 0, apperr.Ingestion(fmt.Sprintf("Failed to load document %s", filepath.Base(path)), err)
	}

	return p.ingestPages(ctx, collection, pages, filepath.Base(path))
}

// IngestURL ingests one web page into the collection as a single-page
// document with the URL as source.
func (p *IngestionPipeline) IngestURL(ctx context.Context, collection, url string) (int, error) {
	pages, err := p.urlLoader.Load(ctx, url)
	if err != nil {
		return 0, apperr.Ingestion(fmt.Sprintf("Failed to load URL %s", url), err)
	}
	return p.ingestPages(ctx, collection, pages, url)
}

func (p *IngestionPipeline) ingestPages(ctx context.Context, collection string, pages []schema.Page, source string) (int, error) {
	chunks := p.splitter.Split(pages, source)
	if len(chunks) == 0 {
		p.log.Warn(fmt.Sprintf("No text extracted from %s, nothing to ingest", source))
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, classifyEmbedError(err)
	}
	if len(vectors) != len(chunks) {
		return 0, apperr.Ingestion(fmt.Sprintf("embedding provider returned %d vectors for %d chunks", len(vectors), len(chunks)), nil)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := p.store.Upsert(ctx, collection, chunks); err != nil {
		return 0, apperr.Ingestion(fmt.Sprintf("Failed to store chunks from %s in collection %q", source, collection), err)
	}

	p.log.Info(fmt.Sprintf("Ingested %d chunks from %s into collection %q", len(chunks), source, collection))
	return len(chunks), nil
}

// classifyEmbedError distinguishes credential problems from generic
// provider failures so clients get an actionable message. Either way the
// failure belongs to the ingestion request, not the server.
func classifyEmbedError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "api key") || strings.Contains(msg, "api_key_invalid") ||
		strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission") {
		return apperr.Ingestion("Failed to generate embeddings. Please check your Google Generative AI API key.", err)
	}
	return apperr.Ingestion("Failed to generate embeddings", err)
}
