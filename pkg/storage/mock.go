package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID][]byte
	actions    map[uuid.UUID][]string
	pingError  error
	saveError  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		gamestates: make(map[uuid.UUID][]byte),
		actions:    make(map[uuid.UUID][]string),
	}
}

// SetPingError configures the mock to fail on ping
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveGameState stores a serialized copy so later mutation of gs is not visible.
func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}
	m.gamestates[id] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.gamestates[id]
	if !ok {
		return nil, ErrNotFound
	}
	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	delete(m.actions, id)
	return nil
}

func (m *MockStorage) Enqueue(ctx context.Context, gameID uuid.UUID, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[gameID] = append(m.actions[gameID], action)
	return nil
}

func (m *MockStorage) Drain(ctx context.Context, gameID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := m.actions[gameID]
	delete(m.actions, gameID)
	return actions, nil
}

func (m *MockStorage) Clear(ctx context.Context, gameID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actions, gameID)
	return nil
}
