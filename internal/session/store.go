// Package session persists per-session chat history in Redis lists so
// conversations survive process restarts.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"ragbot/internal/models"
	"ragbot/internal/rag/interfaces"
)

const historyKeyPrefix = "chat:history:"

// Store keeps chat history in Redis, one list per session, ordered oldest
// to newest.
type Store struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewStore creates a history store. A zero ttl keeps history forever.
func NewStore(rdb *goredis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// Append records one message at the end of the session's history.
func (s *Store) Append(ctx context.Context, sessionID, role, content string) error {
	payload, err := json.Marshal(models.ChatMessage{Role: role, Content: content})
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	key := historyKey(sessionID)
	if err := s.rdb.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("failed to append history for session %s: %w", sessionID, err)
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh history ttl for session %s: %w", sessionID, err)
		}
	}
	return nil
}

// Get replays a session's history in order. An unknown session yields an
// empty history, not an error.
func (s *Store) Get(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history for session %s: %w", sessionID, err)
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to decode history entry for session %s: %w", sessionID, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

var _ interfaces.HistoryStore = (*Store)(nil)
