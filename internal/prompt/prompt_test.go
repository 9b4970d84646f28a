package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGet(t *testing.T) {
	m := NewManager()

	text, err := m.Get(QueryPrompt)
	require.NoError(t, err)
	assert.Contains(t, text, "{context}")
	assert.Contains(t, text, "{question}")
	assert.Contains(t, text, "found_answer")

	system, err := m.Get(AgentSystemPrompt)
	require.NoError(t, err)
	assert.Contains(t, system, "vector_search")
	assert.Contains(t, system, "web_search")
}

func TestManagerGetUnknown(t *testing.T) {
	m := NewManager()
	_, err := m.Get("nope")
	assert.Error(t, err)
}

func TestManagerRender(t *testing.T) {
	m := NewManager()

	text, err := m.Render(QueryPrompt, map[string]string{
		"context":  "Source ID: [1]\nContent: the sky is blue",
		"question": "what color is the sky?",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "the sky is blue")
	assert.Contains(t, text, "what color is the sky?")
	assert.NotContains(t, text, "{context}")
	assert.NotContains(t, text, "{question}")
}
