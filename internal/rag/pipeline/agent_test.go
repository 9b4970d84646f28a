package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// scriptedSession replays a fixed sequence of agent turns and records what
// it was fed.
type scriptedSession struct {
	turns   []*interfaces.AgentTurn
	sent    []string
	replies [][]interfaces.ToolResult
}

func (s *scriptedSession) next() *interfaces.AgentTurn {
	turn := s.turns[0]
	if len(s.turns) > 1 {
		s.turns = s.turns[1:]
	}
	return turn
}

func (s *scriptedSession) Send(_ context.Context, text string) (*interfaces.AgentTurn, error) {
	s.sent = append(s.sent, text)
	return s.next(), nil
}

func (s *scriptedSession) Reply(_ context.Context, results []interfaces.ToolResult) (*interfaces.AgentTurn, error) {
	s.replies = append(s.replies, results)
	return s.next(), nil
}

type scriptedAgentLLM struct {
	session *scriptedSession
	history []models.ChatMessage
}

func (s *scriptedAgentLLM) NewSession(_ context.Context, history []models.ChatMessage) (interfaces.AgentSession, error) {
	s.history = history
	return s.session, nil
}

func toolCall(name, query string) interfaces.ToolCall {
	return interfaces.ToolCall{Name: name, Args: map[string]interface{}{"query": query}}
}

func TestAgentPipelineDispatchesToolsAndKeepsLastSources(t *testing.T) {
	store := newFakeStore(vectorHit("a", "local knowledge"))
	searcher := &fakeSearcher{results: []schema.WebResult{
		{Title: "Page", URL: "https://example.org", Content: "web knowledge"},
	}}
	session := &scriptedSession{turns: []*interfaces.AgentTurn{
		{Calls: []interfaces.ToolCall{toolCall(interfaces.ToolVectorSearch, "q")}},
		{Calls: []interfaces.ToolCall{toolCall(interfaces.ToolWebSearch, "q")}},
		{Text: "final answer [1]"},
	}}
	llm := &scriptedAgentLLM{session: session}
	history := newMemoryHistory()
	require.NoError(t, history.Append(context.Background(), "s1", models.RoleUser, "earlier turn"))

	p := NewAgentPipeline(llm, testToolbox(&fakeEmbedder{}, store, searcher), history, 6, testLogger())

	data, err := p.Answer(context.Background(), "docs", "s1", "what do you know?")
	require.NoError(t, err)

	assert.Equal(t, "final answer [1]", data.Answer)

	// Sources come from the most recent executed tool call, the web search.
	require.Len(t, data.Sources, 1)
	assert.Equal(t, models.OriginWebSearch, data.Sources[0].Origin)

	// Prior history seeded the session; tool output was fed back to it.
	assert.Equal(t, "earlier turn", llm.history[0].Content)
	require.Len(t, session.replies, 2)
	assert.Contains(t, session.replies[0][0].Response["content"], "local knowledge")
	assert.Contains(t, session.replies[1][0].Response["content"], "web knowledge")

	// The turn is persisted after the final answer: 1 prior + user + model.
	assert.Len(t, history.entries["s1"], 3)
}

func TestAgentPipelineNoToolsMeansEmptySources(t *testing.T) {
	session := &scriptedSession{turns: []*interfaces.AgentTurn{{Text: "answered from memory"}}}
	p := NewAgentPipeline(&scriptedAgentLLM{session: session}, testToolbox(&fakeEmbedder{}, newFakeStore(), &fakeSearcher{}), newMemoryHistory(), 6, testLogger())

	data, err := p.Answer(context.Background(), "docs", "s1", "q")
	require.NoError(t, err)
	assert.Equal(t, "answered from memory", data.Answer)
	assert.NotNil(t, data.Sources)
	assert.Empty(t, data.Sources)
}

func TestAgentPipelineStepLimit(t *testing.T) {
	// The model never stops asking for tools.
	session := &scriptedSession{turns: []*interfaces.AgentTurn{
		{Calls: []interfaces.ToolCall{toolCall(interfaces.ToolVectorSearch, "q")}},
	}}
	p := NewAgentPipeline(&scriptedAgentLLM{session: session}, testToolbox(&fakeEmbedder{}, newFakeStore(vectorHit("a", "x")), &fakeSearcher{}), newMemoryHistory(), 3, testLogger())

	data, err := p.Answer(context.Background(), "docs", "s1", "q")
	require.NoError(t, err)
	assert.Equal(t, exhaustedAnswer, data.Answer)
	assert.Len(t, session.replies, 3)
}

func TestAgentPipelineUnknownToolDegradesToErrorResult(t *testing.T) {
	session := &scriptedSession{turns: []*interfaces.AgentTurn{
		{Calls: []interfaces.ToolCall{toolCall("delete_everything", "q")}},
		{Text: "done"},
	}}
	p := NewAgentPipeline(&scriptedAgentLLM{session: session}, testToolbox(&fakeEmbedder{}, newFakeStore(), &fakeSearcher{}), newMemoryHistory(), 6, testLogger())

	data, err := p.Answer(context.Background(), "docs", "s1", "q")
	require.NoError(t, err)
	assert.Equal(t, "done", data.Answer)
	assert.Empty(t, data.Sources)

	require.Len(t, session.replies, 1)
	assert.Contains(t, session.replies[0][0].Response["error"], "unknown tool")
}
