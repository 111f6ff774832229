package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func actionQueueKey(id uuid.UUID) string {
	return "actions:" + id.String()
}

// Enqueue adds an action to the end of the queue for a game
func (r *RedisStorage) Enqueue(ctx context.Context, gameID uuid.UUID, action string) error {
	key := actionQueueKey(gameID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, action)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to enqueue action: %w", err)
	}
	return nil
}

// Drain removes and returns all queued actions for a game in one transaction
func (r *RedisStorage) Drain(ctx context.Context, gameID uuid.UUID) ([]string, error) {
	key := actionQueueKey(gameID)
	pipe := r.client.TxPipeline()
	actions := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to drain actions: %w", err)
	}
	return actions.Val(), nil
}

// Clear removes all queued actions for a game
func (r *RedisStorage) Clear(ctx context.Context, gameID uuid.UUID) error {
	if err := r.client.Del(ctx, actionQueueKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to clear action queue: %w", err)
	}
	return nil
}
