// Package vectorstore adapts Milvus to the VectorStore capability:
// collections as named partitions of the knowledge base, columnar chunk
// upserts and thresholded similarity/MMR search.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"ragbot/internal/apperr"
	"ragbot/internal/database/milvus"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
	"ragbot/pkg/logger"
)

// Schema fields of a chunk collection.
const (
	FieldID          = "id"
	FieldContent     = "content"
	FieldSource      = "source"
	FieldPage        = "page"
	FieldStartOffset = "start_offset"
	FieldEmbedding   = "embedding"
)

// mmrFetchFactor controls how many candidates an MMR search over-fetches
// before re-ranking for diversity.
const mmrFetchFactor = 4

// MilvusStore implements the VectorStore capability on a Milvus server.
type MilvusStore struct {
	log       *logger.Logger
	client    client.Client
	mmrLambda float32
}

// NewMilvusStore creates a MilvusStore over an established connection.
// mmrLambda tunes MMR re-ranking; values outside (0, 1] fall back to the
// default.
func NewMilvusStore(mc *milvus.Client, mmrLambda float32, log *logger.Logger) (*MilvusStore, error) {
	if mc == nil || mc.Client == nil {
		return nil, apperr.VectorDB("milvus client is not initialized", nil)
	}
	if mmrLambda <= 0 || mmrLambda > 1 {
		mmrLambda = defaultMMRLambda
	}
	return &MilvusStore{log: log, client: mc.Client, mmrLambda: mmrLambda}, nil
}

// CreateCollection creates a chunk collection for vectors of the given
// dimension. The name conflict is detected before any mutation happens.
func (s *MilvusStore) CreateCollection(ctx context.Context, name string, dim int) error {
	exists, err := s.client.HasCollection(ctx, name)
	if err != nil {
		return apperr.VectorDB("failed to check collection existence", err)
	}
	if exists {
		return apperr.CollectionExists(name)
	}

	collSchema := entity.NewSchema().
		WithName(name).
		WithDescription("RAG chunk collection").
		WithField(entity.NewField().WithName(FieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
		WithField(entity.NewField().WithName(FieldContent).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)).
		WithField(entity.NewField().WithName(FieldSource).WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
		WithField(entity.NewField().WithName(FieldPage).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(FieldStartOffset).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(FieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(dim)))

	if err := s.client.CreateCollection(ctx, collSchema, entity.DefaultShardNumber); err != nil {
		return apperr.VectorDB(fmt.Sprintf("failed to create collection %q", name), err)
	}

	idx, err := entity.NewIndexAUTOINDEX(entity.COSINE)
	if err != nil {
		return apperr.VectorDB("failed to build index definition", err)
	}
	if err := s.client.CreateIndex(ctx, name, FieldEmbedding, idx, false); err != nil {
		return apperr.VectorDB(fmt.Sprintf("failed to create index for collection %q", name), err)
	}

	s.log.Info(fmt.Sprintf("Created collection %q (dim=%d)", name, dim))
	return nil
}

// ListCollections returns the names of all collections.
func (s *MilvusStore) ListCollections(ctx context.Context) ([]string, error) {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return nil, apperr.VectorDB("failed to list collections", err)
	}
	names := make([]string, 0, len(collections))
	for _, c := range collections {
		names = append(names, c.Name)
	}
	return names, nil
}

// HasCollection reports whether a collection exists.
func (s *MilvusStore) HasCollection(ctx context.Context, name string) (bool, error) {
	exists, err := s.client.HasCollection(ctx, name)
	if err != nil {
		return false, apperr.VectorDB("failed to check collection existence", err)
	}
	return exists, nil
}

// DropCollection irreversibly deletes a collection and its vectors.
func (s *MilvusStore) DropCollection(ctx context.Context, name string) error {
	exists, err := s.client.HasCollection(ctx, name)
	if err != nil {
		return apperr.VectorDB("failed to check collection existence", err)
	}
	if !exists {
		return apperr.CollectionNotFound(name)
	}
	if err := s.client.DropCollection(ctx, name); err != nil {
		return apperr.VectorDB(fmt.Sprintf("failed to drop collection %q", name), err)
	}
	s.log.Info(fmt.Sprintf("Dropped collection %q", name))
	return nil
}

// Upsert inserts chunks as columns and flushes so they become searchable.
func (s *MilvusStore) Upsert(ctx context.Context, collection string, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	pages := make([]int64, len(chunks))
	offsets := make([]int64, len(chunks))
	embeddings := make([][]float32, len(chunks))

	dim := 0
	for i, c := range chunks {
		ids[i] = c.ID
		contents[i] = c.Content
		sources[i] = c.Source
		pages[i] = int64(c.Page)
		offsets[i] = int64(c.StartOffset)
		embeddings[i] = c.Embedding
		if len(c.Embedding) > dim {
			dim = len(c.Embedding)
		}
	}

	s.log.Info(fmt.Sprintf("Inserting %d chunks into collection %q", len(chunks), collection))
	_, err := s.client.Insert(ctx, collection, "",
		entity.NewColumnVarChar(FieldID, ids),
		entity.NewColumnVarChar(FieldContent, contents),
		entity.NewColumnVarChar(FieldSource, sources),
		entity.NewColumnInt64(FieldPage, pages),
		entity.NewColumnInt64(FieldStartOffset, offsets),
		entity.NewColumnFloatVector(FieldEmbedding, dim, embeddings),
	)
	if err != nil {
		return apperr.VectorDB(fmt.Sprintf("failed to insert chunks into collection %q", collection), err)
	}

	if err := s.client.Flush(ctx, collection, false); err != nil {
		return apperr.VectorDB(fmt.Sprintf("failed to flush collection %q", collection), err)
	}
	return nil
}

// Search runs a vector search. Results below the similarity threshold are
// filtered here, on the store side of the pipeline boundary; MMR mode
// over-fetches and re-ranks for diversity before applying topK.
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, topK int, threshold float32, mode schema.SearchMode) ([]schema.ScoredChunk, error) {
	if err := s.client.LoadCollection(ctx, collection, false); err != nil {
		return nil, apperr.VectorDB(fmt.Sprintf("failed to load collection %q", collection), err)
	}

	fetchK := topK
	if mode == schema.SearchModeMMR {
		fetchK = topK * mmrFetchFactor
	}

	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, apperr.VectorDB("failed to build search parameters", err)
	}
	outputFields := []string{FieldID, FieldContent, FieldSource, FieldPage, FieldStartOffset, FieldEmbedding}

	results, err := s.client.Search(
		ctx, collection, []string{}, "", outputFields,
		[]entity.Vector{entity.FloatVector(embedding)},
		FieldEmbedding, entity.COSINE, fetchK, sp,
	)
	if err != nil {
		return nil, apperr.VectorDB(fmt.Sprintf("failed to search collection %q", collection), err)
	}

	var candidates []schema.ScoredChunk
	for _, res := range results {
		chunks, err := decodeSearchResult(res)
		if err != nil {
			s.log.Warn(fmt.Sprintf("Skipping malformed search result: %v", err))
			continue
		}
		for _, c := range chunks {
			if c.Score >= threshold {
				candidates = append(candidates, c)
			}
		}
	}

	if mode == schema.SearchModeMMR {
		return maximalMarginalRelevance(embedding, candidates, topK, s.mmrLambda), nil
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// decodeSearchResult converts one Milvus result set into scored chunks.
func decodeSearchResult(res client.SearchResult) ([]schema.ScoredChunk, error) {
	findColumn := func(name string) entity.Column {
		for _, field := range res.Fields {
			if field.Name() == name {
				return field
			}
		}
		return nil
	}

	idCol, ok := findColumn(FieldID).(*entity.ColumnVarChar)
	if !ok {
		return nil, fmt.Errorf("result is missing %s column", FieldID)
	}
	contentCol, ok := findColumn(FieldContent).(*entity.ColumnVarChar)
	if !ok {
		return nil, fmt.Errorf("result is missing %s column", FieldContent)
	}
	sourceCol, ok := findColumn(FieldSource).(*entity.ColumnVarChar)
	if !ok {
		return nil, fmt.Errorf("result is missing %s column", FieldSource)
	}
	pageCol, ok := findColumn(FieldPage).(*entity.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("result is missing %s column", FieldPage)
	}
	offsetCol, ok := findColumn(FieldStartOffset).(*entity.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("result is missing %s column", FieldStartOffset)
	}

	var embeddingData [][]float32
	if embCol, ok := findColumn(FieldEmbedding).(*entity.ColumnFloatVector); ok {
		embeddingData = embCol.Data()
	}

	chunks := make([]schema.ScoredChunk, 0, res.ResultCount)
	for i := 0; i < res.ResultCount; i++ {
		c := schema.ScoredChunk{
			Chunk: schema.Chunk{
				ID:          idCol.Data()[i],
				Content:     contentCol.Data()[i],
				Source:      sourceCol.Data()[i],
				Page:        int(pageCol.Data()[i]),
				StartOffset: int(offsetCol.Data()[i]),
			},
			Score: res.Scores[i],
		}
		if embeddingData != nil {
			c.Embedding = embeddingData[i]
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

var _ interfaces.VectorStore = (*MilvusStore)(nil)
