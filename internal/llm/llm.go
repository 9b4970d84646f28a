// Package llm provides hosted language model clients.
package llm

import (
	"context"

	"ragbot/internal/apperr"
)

// Provider identifies an LLM vendor.
type Provider string

const (
	ProviderGoogle Provider = "google"
)

// NewClient creates the configured provider's client. The provider is
// selected once at configuration time; call sites depend only on the LLM
// and AgentLLM capabilities.
func NewClient(ctx context.Context, provider Provider, apiKey, modelName string) (*Gemini, error) {
	switch provider {
	case ProviderGoogle:
		if apiKey == "" {
			return nil, apperr.LLMProvider("google API key is not configured", nil)
		}
		return NewGemini(ctx, apiKey, modelName)
	default:
		return nil, apperr.LLMProvider("unsupported LLM provider: "+string(provider), nil)
	}
}
