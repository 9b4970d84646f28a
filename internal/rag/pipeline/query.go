package pipeline

import (
	"context"
	"fmt"

	"ragbot/internal/apperr"
	"ragbot/internal/models"
	"ragbot/internal/prompt"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/tools"
	"ragbot/pkg/logger"
)

// QueryPipeline is the fixed retrieve-then-fallback flow: vector search,
// graded answer check, at most one web-search fallback whose answer is
// accepted as final.
type QueryPipeline struct {
	log     *logger.Logger
	llm     interfaces.LLM
	tools   *tools.Toolbox
	prompts *prompt.Manager
	history interfaces.HistoryStore
}

// NewQueryPipeline wires the fixed query flow.
func NewQueryPipeline(llm interfaces.LLM, toolbox *tools.Toolbox, prompts *prompt.Manager, history interfaces.HistoryStore, log *logger.Logger) *QueryPipeline {
	return &QueryPipeline{
		log:     log,
		llm:     llm,
		tools:   toolbox,
		prompts: prompts,
		history: history,
	}
}

// Answer resolves a query against a collection, falling back to web search
// when the local context is insufficient, and persists the turn to session
// history. The returned sources always come from exactly one stage.
func (p *QueryPipeline) Answer(ctx context.Context, collection, sessionID, query string) (*models.ChatData, error) {
	history, err := p.history.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.Query("Failed to load session history", err)
	}

	vectorCtx, vectorSources, err := p.tools.VectorSearch(ctx, collection, query)
	if err != nil {
		return nil, err
	}

	graded, err := p.grade(ctx, history, vectorCtx, query)
	if err != nil {
		return nil, err
	}

	answer := graded.Answer
	sources := vectorSources

	if !graded.FoundAnswer {
		p.log.Info("Knowledge base context was insufficient, falling back to web search")

		webCtx, webSources, err := p.tools.WebSearch(ctx, query)
		if err != nil {
			return nil, err
		}

		// The web-stage answer is final; it is not graded again.
		graded, err = p.grade(ctx, history, webCtx, query)
		if err != nil {
			return nil, err
		}
		answer = graded.Answer
		sources = webSources
	}

	if err := p.history.Append(ctx, sessionID, models.RoleUser, query); err != nil {
		return nil, apperr.Query("Failed to persist session history", err)
	}
	if err := p.history.Append(ctx, sessionID, models.RoleModel, answer); err != nil {
		return nil, apperr.Query("Failed to persist session history", err)
	}

	return &models.ChatData{Answer: answer, Sources: sources}, nil
}

func (p *QueryPipeline) grade(ctx context.Context, history []models.ChatMessage, contextBlock, query string) (*interfaces.GradedAnswer, error) {
	rendered, err := p.prompts.Render(prompt.QueryPrompt, map[string]string{
		"context":  contextBlock,
		"question": query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render query prompt: %w", err)
	}

	graded, err := p.llm.GenerateGraded(ctx, history, rendered)
	if err != nil {
		return nil, apperr.LLMProvider("LLM request failed", err)
	}
	return graded, nil
}
