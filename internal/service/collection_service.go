// Package service implements the request-level use cases behind the HTTP
// handlers: collection management, ingestion and chat.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/interfaces"
	"ragbot/pkg/logger"
)

// dimProbeText is embedded once to discover the provider's vector
// dimension before the first collection is created.
const dimProbeText = "dimension probe"

var collectionNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// CollectionName derives the default collection name for an embedding
// provider/model pair, sanitized to what the vector store accepts.
func CollectionName(provider, model string) string {
	name := fmt.Sprintf("collection_%s_%s", provider, model)
	return collectionNameSanitizer.ReplaceAllString(name, "_")
}

// CollectionService manages the lifecycle of vector-store collections.
type CollectionService struct {
	log      *logger.Logger
	store    interfaces.VectorStore
	embedder interfaces.EmbeddingModel

	dimOnce sync.Once
	dim     int
	dimErr  error
}

// NewCollectionService wires a collection service.
func NewCollectionService(store interfaces.VectorStore, embedder interfaces.EmbeddingModel, log *logger.Logger) *CollectionService {
	return &CollectionService{log: log, store: store, embedder: embedder}
}

// embeddingDim discovers the provider's vector dimension once per process.
func (s *CollectionService) embeddingDim(ctx context.Context) (int, error) {
	s.dimOnce.Do(func() {
		vectors, err := s.embedder.Embed(ctx, []string{dimProbeText})
		if err != nil {
			s.dimErr = apperr.LLMProvider("Failed to probe embedding dimension", err)
			return
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			s.dimErr = apperr.LLMProvider("Embedding provider returned an empty probe vector", nil)
			return
		}
		s.dim = len(vectors[0])
		s.log.Info(fmt.Sprintf("Embedding dimension is %d", s.dim))
	})
	return s.dim, s.dimErr
}

// Create creates a named collection sized to the embedding model's vector
// dimension. An existing name fails before anything is mutated.
func (s *CollectionService) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Query("Collection name must not be empty", nil)
	}

	dim, err := s.embeddingDim(ctx)
	if err != nil {
		return err
	}
	return s.store.CreateCollection(ctx, name, dim)
}

// EnsureDefault creates the provider-derived default collection when it
// does not exist yet, so ingestion has a target out of the box.
func (s *CollectionService) EnsureDefault(ctx context.Context, provider, model string) (string, error) {
	name := CollectionName(provider, model)

	exists, err := s.store.HasCollection(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		return name, nil
	}
	if err := s.Create(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

// List returns all collection names.
func (s *CollectionService) List(ctx context.Context) ([]string, error) {
	return s.store.ListCollections(ctx)
}

// Delete drops a collection. Deletion is irreversible.
func (s *CollectionService) Delete(ctx context.Context, name string) error {
	return s.store.DropCollection(ctx, name)
}
