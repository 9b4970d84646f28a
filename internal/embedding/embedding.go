package embedding

import (
	"context"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/interfaces"
)

// Provider identifies an embedding model vendor.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderCohere Provider = "cohere"
)

// NewModel creates an embedding model for the given provider. The provider
// is fixed at configuration time; call sites depend only on the
// EmbeddingModel capability.
func NewModel(ctx context.Context, provider Provider, apiKey, modelName string) (interfaces.EmbeddingModel, error) {
	switch provider {
	case ProviderGoogle:
		return NewGoogleModel(ctx, apiKey, modelName)
	default:
		return nil, apperr.LLMProvider("unsupported embedding provider: "+string(provider), nil)
	}
}
