// Package interfaces declares the capability contracts the RAG pipelines
// depend on. Concrete providers (Milvus, Gemini, Tavily, Redis) implement
// these; pipelines never import a provider directly.
package interfaces

import (
	"context"

	"ragbot/internal/models"
	"ragbot/internal/rag/schema"
)

// Loader extracts per-page text from a source document or URL.
type Loader interface {
	Load(ctx context.Context, path string) ([]schema.Page, error)
}

// Splitter cuts a concatenated page buffer into overlapping chunks that are
// attributed back to their originating pages.
type Splitter interface {
	Split(pages []schema.Page, source string) []schema.Chunk
}

// EmbeddingModel turns texts into vectors.
type EmbeddingModel interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the nearest-neighbor store partitioned into named
// collections. Search applies the similarity threshold and ranking mode on
// the store side; callers receive only results at or above the threshold.
type VectorStore interface {
	Upsert(ctx context.Context, collection string, chunks []schema.Chunk) error
	Search(ctx context.Context, collection string, embedding []float32, topK int, threshold float32, mode schema.SearchMode) ([]schema.ScoredChunk, error)
	CreateCollection(ctx context.Context, name string, dim int) error
	ListCollections(ctx context.Context) ([]string, error)
	HasCollection(ctx context.Context, name string) (bool, error)
	DropCollection(ctx context.Context, name string) error
}

// WebSearcher is the external web search capability. Search ranks results
// for a query; Extract pulls raw page content for explicit URLs.
type WebSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]schema.WebResult, error)
	Extract(ctx context.Context, urls []string) ([]schema.WebResult, error)
}

// Reranker re-orders retrieved chunks by relevance to the query.
type Reranker interface {
	Rerank(ctx context.Context, query string, chunks []schema.ScoredChunk) ([]schema.ScoredChunk, error)
}

// GradedAnswer is the structured LLM verdict on whether the supplied
// context was sufficient to answer the query.
type GradedAnswer struct {
	Answer      string `json:"answer"`
	FoundAnswer bool   `json:"found_answer"`
}

// LLM is the hosted language model capability used by the fixed pipeline.
// History carries the session's prior turns in order.
type LLM interface {
	Generate(ctx context.Context, history []models.ChatMessage, prompt string) (string, error)
	GenerateGraded(ctx context.Context, history []models.ChatMessage, prompt string) (*GradedAnswer, error)
}

// Tool names the agent model may call. The agent pipeline dispatches on
// these.
const (
	ToolVectorSearch = "vector_search"
	ToolWebSearch    = "web_search"
)

// ToolCall is one function invocation requested by the model during an
// agent session.
type ToolCall struct {
	Name string
	Args map[string]interface{}
}

// ToolResult is the outcome of a dispatched tool call, fed back to the
// model.
type ToolResult struct {
	Name     string
	Response map[string]interface{}
}

// AgentTurn is one model reply inside an agent session: either tool calls
// to dispatch, or final text.
type AgentTurn struct {
	Text  string
	Calls []ToolCall
}

// AgentSession is a stateful multi-turn exchange with a tool-aware model.
// The caller owns the iteration loop and its step bound.
type AgentSession interface {
	Send(ctx context.Context, text string) (*AgentTurn, error)
	Reply(ctx context.Context, results []ToolResult) (*AgentTurn, error)
}

// AgentLLM creates tool-aware model sessions seeded with prior history.
type AgentLLM interface {
	NewSession(ctx context.Context, history []models.ChatMessage) (AgentSession, error)
}

// HistoryStore is the append-only per-session message log.
type HistoryStore interface {
	Append(ctx context.Context, sessionID, role, content string) error
	Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
}
