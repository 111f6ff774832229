package services

import (
	"context"

	"github.com/jwebster45206/realm-engine/pkg/chat"
)

// LLMService defines the interface for interacting with the narrator model
type LLMService interface {
	// Generate returns the raw narration for a turn prompt
	Generate(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Summarize returns a short recap of text
	Summarize(ctx context.Context, text string) (string, error)
}
