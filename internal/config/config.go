package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address"` // listen address, e.g. ":8080"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// MilvusConfig holds the Milvus connection settings.
type MilvusConfig struct {
	Address string `yaml:"address"` // Milvus server address, e.g. "localhost:19530"
}

// RedisConfig holds the Redis connection settings for session history.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GoogleConfig holds the Google GenAI settings for both the chat model and
// the embedding model.
type GoogleConfig struct {
	APIKey         string `yaml:"apiKey"`
	LLMModel       string `yaml:"llmModel"`       // e.g. "gemini-2.5-flash"
	EmbeddingModel string `yaml:"embeddingModel"` // e.g. "gemini-embedding-001"
}

// TavilyConfig holds the Tavily web search settings.
type TavilyConfig struct {
	APIKey string `yaml:"apiKey"`
}

// CohereConfig holds the optional Cohere reranker settings. Reranking is
// disabled when the API key is empty.
type CohereConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"` // e.g. "rerank-english-v3.0"
}

// ChunkingConfig controls the document splitter.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunkSize"`
	ChunkOverlap int `yaml:"chunkOverlap"`
}

// RetrievalConfig controls vector and web retrieval.
type RetrievalConfig struct {
	TopK                int     `yaml:"topK"`                // vector search top-K
	SimilarityThreshold float32 `yaml:"similarityThreshold"` // minimum cosine similarity
	SearchMode          string  `yaml:"searchMode"`          // "similarity" or "mmr"
	MMRLambda           float32 `yaml:"mmrLambda"`           // relevance/diversity trade-off for MMR
	WebTopK             int     `yaml:"webTopK"`             // web search top-K
}

// QueryConfig controls the answering pipeline.
type QueryConfig struct {
	Mode          string `yaml:"mode"`          // "pipeline" or "agentic"
	MaxAgentSteps int    `yaml:"maxAgentSteps"` // upper bound on agent tool-loop iterations
}

// AppConfig is the root configuration for the RAG server.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Milvus    MilvusConfig    `yaml:"milvus"`
	Redis     RedisConfig     `yaml:"redis"`
	Google    GoogleConfig    `yaml:"google"`
	Tavily    TavilyConfig    `yaml:"tavily"`
	Cohere    CohereConfig    `yaml:"cohere"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Query     QueryConfig     `yaml:"query"`
}

// LoadConfig reads a yaml config file, expands ${VAR} references from the
// environment and applies defaults for all unset tunables.
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Chunking.ChunkSize == 0 {
		c.Chunking.ChunkSize = 1000
	}
	if c.Chunking.ChunkOverlap == 0 {
		c.Chunking.ChunkOverlap = 50
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.SimilarityThreshold == 0 {
		c.Retrieval.SimilarityThreshold = 0.5
	}
	if c.Retrieval.SearchMode == "" {
		c.Retrieval.SearchMode = "similarity"
	}
	if c.Retrieval.MMRLambda == 0 {
		c.Retrieval.MMRLambda = 0.7
	}
	if c.Retrieval.WebTopK == 0 {
		c.Retrieval.WebTopK = 5
	}
	if c.Query.Mode == "" {
		c.Query.Mode = "pipeline"
	}
	if c.Query.MaxAgentSteps == 0 {
		c.Query.MaxAgentSteps = 6
	}
	if c.Cohere.Model == "" {
		c.Cohere.Model = "rerank-english-v3.0"
	}
}
