package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

// ErrNotFound is returned when no game is stored under an id.
var ErrNotFound = errors.New("gamestate not found")

// Storage persists game documents and the per-game queue of pending system actions.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// GameState operations
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// Pending system actions, replayed to the narrator on the next turn
	state.ActionQueue
}
