package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/realm-engine/pkg/chat"
)

// MockLLM is a mock implementation of LLMService for testing
type MockLLM struct {
	GenerateFunc  func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	SummarizeFunc func(ctx context.Context, text string) (string, error)

	// Track calls for testing
	GenerateCalls  [][]chat.ChatMessage
	SummarizeCalls []string

	mu sync.Mutex // protects all fields above
}

// Ensure MockLLM implements LLMService
var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a mock that answers every turn with response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{
		GenerateFunc: func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
			return response, nil
		},
	}
}

func (m *MockLLM) Generate(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, messages)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return "Mock response\n1. Tiếp tục", nil
}

func (m *MockLLM) Summarize(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.SummarizeCalls = append(m.SummarizeCalls, text)
	fn := m.SummarizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}
	return "Mock summary", nil
}

// SetGenerateError sets up the mock to fail every Generate call
func (m *MockLLM) SetGenerateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", err
	}
}

// SetSummarizeError sets up the mock to fail every Summarize call
func (m *MockLLM) SetSummarizeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummarizeFunc = func(ctx context.Context, text string) (string, error) {
		return "", err
	}
}

// Calls returns copies of the recorded calls
func (m *MockLLM) Calls() ([][]chat.ChatMessage, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen := make([][]chat.ChatMessage, len(m.GenerateCalls))
	copy(gen, m.GenerateCalls)
	sum := make([]string, len(m.SummarizeCalls))
	copy(sum, m.SummarizeCalls)
	return gen, sum
}
