package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ragbot/internal/apperr"
	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
	"ragbot/pkg/logger"
)

// Answerer is a query pipeline: the fixed retrieve-then-fallback flow or
// the agentic flow, chosen at configuration time.
type Answerer interface {
	Answer(ctx context.Context, collection, sessionID, query string) (*models.ChatData, error)
}

// QueryService validates chat requests and delegates to the configured
// pipeline.
type QueryService struct {
	log      *logger.Logger
	store    interfaces.VectorStore
	answerer Answerer
}

// NewQueryService wires a query service around the configured pipeline.
func NewQueryService(store interfaces.VectorStore, answerer Answerer, log *logger.Logger) *QueryService {
	return &QueryService{log: log, store: store, answerer: answerer}
}

// Chat answers a query against a collection within a session.
func (s *QueryService) Chat(ctx context.Context, collection, sessionID, query string) (*models.ChatData, error) {
	exists, err := s.store.HasCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.Query(fmt.Sprintf("Collection %q does not exist", collection), nil)
	}

	s.log.WithField("session_id", sessionID).Info(fmt.Sprintf("Answering query against collection %q", collection))
	return s.answerer.Answer(ctx, collection, sessionID, query)
}

// NewSessionID mints an opaque session identifier.
func NewSessionID() string {
	return uuid.New().String()
}
