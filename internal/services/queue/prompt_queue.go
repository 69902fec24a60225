package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/roll-engine/pkg/rollreq"
)

// PromptQueue holds the roll prompts extracted from narrator messages
// that players have not yet resolved, one queue per session. The roll
// handler clears a prompt when a roll for it executes, which is what
// keeps prompt delivery at-most-once at the application layer.
type PromptQueue struct {
	client *Client
}

func NewPromptQueue(client *Client) *PromptQueue {
	return &PromptQueue{
		client: client,
	}
}

func promptKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("roll-prompts:%s", sessionID.String())
}

// Enqueue appends roll requests to the session's pending prompts.
func (pq *PromptQueue) Enqueue(ctx context.Context, sessionID uuid.UUID, reqs ...rollreq.Request) error {
	if len(reqs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(reqs))
	for _, req := range reqs {
		data, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to serialize roll request: %w", err)
		}
		values = append(values, data)
	}

	if err := pq.client.rdb.RPush(ctx, promptKey(sessionID), values...).Err(); err != nil {
		return fmt.Errorf("failed to enqueue roll prompts: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next pending prompt for a session.
// Returns false when no prompt is pending.
func (pq *PromptQueue) Dequeue(ctx context.Context, sessionID uuid.UUID) (rollreq.Request, bool, error) {
	result, err := pq.client.rdb.LPop(ctx, promptKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return rollreq.Request{}, false, nil
		}
		return rollreq.Request{}, false, fmt.Errorf("failed to dequeue roll prompt: %w", err)
	}

	var req rollreq.Request
	if err := json.Unmarshal([]byte(result), &req); err != nil {
		return rollreq.Request{}, false, fmt.Errorf("failed to parse roll prompt: %w", err)
	}
	return req, true, nil
}

// Peek returns up to limit pending prompts without removing them.
// A limit of zero or less returns all of them.
func (pq *PromptQueue) Peek(ctx context.Context, sessionID uuid.UUID, limit int) ([]rollreq.Request, error) {
	end := int64(limit - 1)
	if limit <= 0 {
		end = -1 // Get all
	}

	entries, err := pq.client.rdb.LRange(ctx, promptKey(sessionID), 0, end).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to peek roll prompts: %w", err)
	}

	reqs := make([]rollreq.Request, 0, len(entries))
	for _, entry := range entries {
		var req rollreq.Request
		if err := json.Unmarshal([]byte(entry), &req); err != nil {
			return nil, fmt.Errorf("failed to parse roll prompt: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Clear removes all pending prompts for a session.
func (pq *PromptQueue) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if err := pq.client.rdb.Del(ctx, promptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear roll prompts: %w", err)
	}
	return nil
}

// Depth returns the number of pending prompts for a session.
func (pq *PromptQueue) Depth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := pq.client.rdb.LLen(ctx, promptKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get prompt queue depth: %w", err)
	}
	return int(count), nil
}
