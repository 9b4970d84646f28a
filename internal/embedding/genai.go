// Package embedding provides text embedding clients for the supported
// providers.
package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ragbot/internal/rag/interfaces"
)

// GoogleModel is a client for the Google GenAI embedding API.
type GoogleModel struct {
	model *genai.EmbeddingModel
}

// NewGoogleModel creates a GoogleModel for the given embedding model name.
func NewGoogleModel(ctx context.Context, apiKey, modelName string) (*GoogleModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GoogleModel{model: client.EmbeddingModel(modelName)}, nil
}

// Embed generates embeddings for a batch of texts in a single request.
func (m *GoogleModel) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	batch := m.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	res, err := m.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed batch of %d texts: %w", len(texts), err)
	}

	embeddings := make([][]float32, 0, len(res.Embeddings))
	for _, emb := range res.Embeddings {
		embeddings = append(embeddings, emb.Values)
	}
	return embeddings, nil
}

var _ interfaces.EmbeddingModel = (*GoogleModel)(nil)
