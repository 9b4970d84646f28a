package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
)

// Gemini is a client for the Google Gemini API implementing the LLM and
// AgentLLM capabilities.
type Gemini struct {
	client      *genai.Client
	modelName   string
	agentSystem string
}

// NewGemini creates a Gemini client for the given chat model.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

// SetAgentSystemPrompt sets the system instruction used by agent sessions.
func (g *Gemini) SetAgentSystemPrompt(prompt string) {
	g.agentSystem = prompt
}

// Generate sends the prompt with the session's prior turns as chat history
// and returns the model's free-text reply.
func (g *Gemini) Generate(ctx context.Context, history []models.ChatMessage, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	cs := model.StartChat()
	cs.History = toGenaiHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return responseText(resp)
}

// gradedAnswerSchema constrains the model to return exactly the two fields
// the answer-check stage needs.
var gradedAnswerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"answer": {
			Type:        genai.TypeString,
			Description: "The answer to the user's query, citing sources as [n].",
		},
		"found_answer": {
			Type:        genai.TypeBoolean,
			Description: "True only if the supplied context contains the information needed to answer.",
		},
	},
	Required: []string{"answer", "found_answer"},
}

// GenerateGraded sends the prompt requesting a structured JSON response with
// answer and found_answer fields.
func (g *Gemini) GenerateGraded(ctx context.Context, history []models.ChatMessage, prompt string) (*interfaces.GradedAnswer, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = gradedAnswerSchema

	cs := model.StartChat()
	cs.History = toGenaiHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini structured generation failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var graded interfaces.GradedAnswer
	if err := json.Unmarshal([]byte(text), &graded); err != nil {
		return nil, fmt.Errorf("failed to decode structured response %q: %w", text, err)
	}
	return &graded, nil
}

// agentToolDeclarations describes the two retrieval tools the agent mode
// exposes to the model.
func agentToolDeclarations() []*genai.FunctionDeclaration {
	queryParam := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"query": {
				Type:        genai.TypeString,
				Description: "The search query.",
			},
		},
		Required: []string{"query"},
	}

	return []*genai.FunctionDeclaration{
		{
			Name:        interfaces.ToolVectorSearch,
			Description: "Search the user's ingested documents for passages relevant to a query. Prefer this for anything that could be covered by uploaded material.",
			Parameters:  queryParam,
		},
		{
			Name:        interfaces.ToolWebSearch,
			Description: "Search the public web for up-to-date information not present in the ingested documents.",
			Parameters:  queryParam,
		},
	}
}

// NewSession starts a tool-aware chat session seeded with prior history.
func (g *Gemini) NewSession(ctx context.Context, history []models.ChatMessage) (interfaces.AgentSession, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.Tools = []*genai.Tool{{FunctionDeclarations: agentToolDeclarations()}}
	if g.agentSystem != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(g.agentSystem)}}
	}

	cs := model.StartChat()
	cs.History = toGenaiHistory(history)

	return &geminiAgentSession{cs: cs}, nil
}

type geminiAgentSession struct {
	cs *genai.ChatSession
}

func (s *geminiAgentSession) Send(ctx context.Context, text string) (*interfaces.AgentTurn, error) {
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("agent turn failed: %w", err)
	}
	return parseTurn(resp), nil
}

func (s *geminiAgentSession) Reply(ctx context.Context, results []interfaces.ToolResult) (*interfaces.AgentTurn, error) {
	parts := make([]genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, genai.FunctionResponse{Name: r.Name, Response: r.Response})
	}

	resp, err := s.cs.SendMessage(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("agent tool reply failed: %w", err)
	}
	return parseTurn(resp), nil
}

// parseTurn splits a model response into text and requested tool calls.
func parseTurn(resp *genai.GenerateContentResponse) *interfaces.AgentTurn {
	turn := &interfaces.AgentTurn{}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return turn
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			turn.Text += string(p)
		case genai.FunctionCall:
			turn.Calls = append(turn.Calls, interfaces.ToolCall{Name: p.Name, Args: p.Args})
		}
	}
	return turn
}

// toGenaiHistory converts stored chat messages to the Gemini wire format.
func toGenaiHistory(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, &genai.Content{
			Role:  msg.Role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// responseText extracts the concatenated text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini response contained no text parts")
	}
	return text, nil
}

var (
	_ interfaces.LLM      = (*Gemini)(nil)
	_ interfaces.AgentLLM = (*Gemini)(nil)
)
