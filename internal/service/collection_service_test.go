package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/schema"
	"ragbot/pkg/logger"
)

type countingEmbedder struct {
	calls int
	dim   int
}

func (e *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, e.dim)
	}
	return out, nil
}

type recordingStore struct {
	created map[string]int
}

func (s *recordingStore) Upsert(context.Context, string, []schema.Chunk) error { return nil }
func (s *recordingStore) Search(context.Context, string, []float32, int, float32, schema.SearchMode) ([]schema.ScoredChunk, error) {
	return nil, nil
}
func (s *recordingStore) CreateCollection(_ context.Context, name string, dim int) error {
	s.created[name] = dim
	return nil
}
func (s *recordingStore) ListCollections(context.Context) ([]string, error)   { return nil, nil }
func (s *recordingStore) HasCollection(_ context.Context, name string) (bool, error) {
	_, ok := s.created[name]
	return ok, nil
}
func (s *recordingStore) DropCollection(context.Context, string) error        { return nil }

func TestCollectionNameSanitized(t *testing.T) {
	assert.Equal(t, "collection_google_gemini_embedding_001", CollectionName("google", "gemini-embedding-001"))
	assert.Equal(t, "collection_cohere_embed_v4_0", CollectionName("cohere", "embed-v4.0"))
}

func TestCreateProbesDimensionOnce(t *testing.T) {
	embedder := &countingEmbedder{dim: 768}
	store := &recordingStore{created: make(map[string]int)}
	s := NewCollectionService(store, embedder, logger.New("test"))

	require.NoError(t, s.Create(context.Background(), "docs"))
	require.NoError(t, s.Create(context.Background(), "notes"))

	assert.Equal(t, 768, store.created["docs"])
	assert.Equal(t, 768, store.created["notes"])
	assert.Equal(t, 1, embedder.calls)
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	embedder := &countingEmbedder{dim: 768}
	store := &recordingStore{created: make(map[string]int)}
	s := NewCollectionService(store, embedder, logger.New("test"))

	name, err := s.EnsureDefault(context.Background(), "google", "gemini-embedding-001")
	require.NoError(t, err)
	assert.Equal(t, "collection_google_gemini_embedding_001", name)
	assert.Equal(t, 768, store.created[name])

	again, err := s.EnsureDefault(context.Background(), "google", "gemini-embedding-001")
	require.NoError(t, err)
	assert.Equal(t, name, again)
	assert.Len(t, store.created, 1)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	embedder := &countingEmbedder{dim: 8}
	store := &recordingStore{created: make(map[string]int)}
	s := NewCollectionService(store, embedder, logger.New("test"))

	err := s.Create(context.Background(), "   ")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindQuery, appErr.Kind)

	assert.Empty(t, store.created)
	assert.Zero(t, embedder.calls)
}
