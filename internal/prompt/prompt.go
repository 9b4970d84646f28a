// Package prompt loads the model prompts shipped with the binary.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// Prompt names resolvable by the manager.
const (
	QueryPrompt       = "query"
	AgentSystemPrompt = "agent_system"
)

// Manager resolves named prompts from the embedded prompt directory and
// caches them after first load.
type Manager struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewManager creates an empty prompt cache.
func NewManager() *Manager {
	return &Manager{cache: make(map[string]string)}
}

// Get returns the prompt text for a name.
func (m *Manager) Get(name string) (string, error) {
	m.mu.RLock()
	if text, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return text, nil
	}
	m.mu.RUnlock()

	raw, err := promptFS.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("unknown prompt %q: %w", name, err)
	}
	text := strings.TrimSpace(string(raw))

	m.mu.Lock()
	m.cache[name] = text
	m.mu.Unlock()
	return text, nil
}

// Render substitutes {key} placeholders in a named prompt.
func (m *Manager) Render(name string, vars map[string]string) (string, error) {
	text, err := m.Get(name)
	if err != nil {
		return "", err
	}
	for key, value := range vars {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text, nil
}
