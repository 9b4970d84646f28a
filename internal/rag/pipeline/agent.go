package pipeline

import (
	"context"
	"fmt"

	"ragbot/internal/apperr"
	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/tools"
	"ragbot/pkg/logger"
)

// exhaustedAnswer is returned when the model keeps requesting tools past
// the step limit.
const exhaustedAnswer = "I was unable to produce a final answer within the allowed number of tool calls."

// AgentPipeline lets the model drive retrieval itself: it chooses which
// tools to call and when to stop, inside an iteration loop bounded by this
// code.
type AgentPipeline struct {
	log      *logger.Logger
	llm      interfaces.AgentLLM
	tools    *tools.Toolbox
	history  interfaces.HistoryStore
	maxSteps int
}

// NewAgentPipeline wires the agentic flow. maxSteps bounds the number of
// tool-dispatch rounds per request.
func NewAgentPipeline(llm interfaces.AgentLLM, toolbox *tools.Toolbox, history interfaces.HistoryStore, maxSteps int, log *logger.Logger) *AgentPipeline {
	return &AgentPipeline{
		log:      log,
		llm:      llm,
		tools:    toolbox,
		history:  history,
		maxSteps: maxSteps,
	}
}

// Answer runs one agent session for the query. The returned sources are
// those of the most recent successfully executed tool call; if the model
// answered without tools, or the last tool round produced nothing usable,
// sources are empty rather than the request failing.
func (p *AgentPipeline) Answer(ctx context.Context, collection, sessionID, query string) (*models.ChatData, error) {
	history, err := p.history.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.Query("Failed to load session history", err)
	}

	session, err := p.llm.NewSession(ctx, history)
	if err != nil {
		return nil, apperr.LLMProvider("Failed to start agent session", err)
	}

	turn, err := session.Send(ctx, query)
	if err != nil {
		return nil, apperr.LLMProvider("LLM request failed", err)
	}

	sources := []models.RetrievedSource{}
	for step := 0; step < p.maxSteps && len(turn.Calls) > 0; step++ {
		results := make([]interfaces.ToolResult, 0, len(turn.Calls))
		for _, call := range turn.Calls {
			p.log.Info(fmt.Sprintf("Agent step %d: calling tool %s", step+1, call.Name))

			contextBlock, callSources, err := p.tools.Dispatch(ctx, collection, call)
			if err != nil {
				p.log.Warn(fmt.Sprintf("Tool %s failed: %v", call.Name, err))
				results = append(results, interfaces.ToolResult{
					Name:     call.Name,
					Response: map[string]interface{}{"error": err.Error()},
				})
				continue
			}

			sources = callSources
			results = append(results, interfaces.ToolResult{
				Name:     call.Name,
				Response: map[string]interface{}{"content": contextBlock},
			})
		}

		turn, err = session.Reply(ctx, results)
		if err != nil {
			return nil, apperr.LLMProvider("LLM request failed", err)
		}
	}

	answer := turn.Text
	if len(turn.Calls) > 0 || answer == "" {
		p.log.Warn(fmt.Sprintf("Agent did not finish within %d steps", p.maxSteps))
		answer = exhaustedAnswer
	}

	if err := p.history.Append(ctx, sessionID, models.RoleUser, query); err != nil {
		return nil, apperr.Query("Failed to persist session history", err)
	}
	if err := p.history.Append(ctx, sessionID, models.RoleModel, answer); err != nil {
		return nil, apperr.Query("Failed to persist session history", err)
	}

	return &models.ChatData{Answer: answer, Sources: sources}, nil
}
