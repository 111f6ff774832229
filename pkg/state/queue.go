package state

import (
	"context"

	"github.com/google/uuid"
)

// ActionQueue holds system actions waiting to be narrated on a game's next turn, such as
// the text produced by UseItem.
type ActionQueue interface {
	// Enqueue adds an action text to the queue for a game
	Enqueue(ctx context.Context, gameID uuid.UUID, action string) error

	// Drain removes and returns every queued action for a game, oldest first
	Drain(ctx context.Context, gameID uuid.UUID) ([]string, error)

	// Clear removes all queued actions for a game
	Clear(ctx context.Context, gameID uuid.UUID) error
}
