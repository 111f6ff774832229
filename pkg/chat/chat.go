package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TurnRequest represents a player action sent to the realm-engine api.
type TurnRequest struct {
	GameStateID uuid.UUID `json:"gamestate_id"` // Unique ID for the game state
	Action      string    `json:"action"`
}

// TurnResponse represents the outcome of one narrated turn.
type TurnResponse struct {
	GameStateID uuid.UUID `json:"gamestate_id,omitempty"` // Unique ID for the game state
	Turn        int       `json:"turn"`
	Story       string    `json:"story,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	// SystemLog holds the engine entries written during the turn.
	SystemLog []string `json:"system_log,omitempty"`
	// Ignored lists tag commands that changed nothing, with the reason.
	Ignored []string `json:"ignored,omitempty"`
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator
	ChatRoleSystem = "system"    // Instructions and engine notes
)

// ChatMessage represents a single message sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

func (tr *TurnRequest) Validate() error {
	if tr.GameStateID == uuid.Nil {
		return fmt.Errorf("gamestate_id is required")
	}
	if strings.TrimSpace(tr.Action) == "" {
		return fmt.Errorf("action cannot be empty")
	}
	return nil
}
