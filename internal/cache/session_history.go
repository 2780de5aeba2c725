package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"visaguide/internal/ai"
)

// SessionHistory keeps the most recent chat turns of each session in a Redis
// list.
type SessionHistory struct {
	client     *redisv9.Client
	maxEntries int64
	ttl        time.Duration
}

// NewSessionHistory keeps at most 2*turns messages per session.
func NewSessionHistory(client *redisv9.Client, turns int, ttl time.Duration) *SessionHistory {
	if turns <= 0 {
		turns = 1
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionHistory{
		client:     client,
		maxEntries: int64(2 * turns),
		ttl:        ttl,
	}
}

func (h *SessionHistory) Recent(ctx context.Context, sessionID string, limit int) ([]ai.ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := h.client.LRange(ctx, h.key(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read session history failed: %w", err)
	}

	out := make([]ai.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ai.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal session history failed: %w", err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// Append pushes both messages, trims the list and refreshes its expiry in one
// MULTI block.
func (h *SessionHistory) Append(ctx context.Context, sessionID string, user, assistant ai.ChatMessage) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session turn failed: %w", err)
	}
	assistantJSON, err := json.Marshal(assistant)
	if err != nil {
		return fmt.Errorf("marshal session turn failed: %w", err)
	}

	key := h.key(sessionID)
	_, err = h.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.RPush(ctx, key, userJSON, assistantJSON)
		pipe.LTrim(ctx, key, -h.maxEntries, -1)
		pipe.Expire(ctx, key, h.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append session history failed: %w", err)
	}
	return nil
}

func (h *SessionHistory) key(sessionID string) string {
	return "chat:session:" + sessionID
}
