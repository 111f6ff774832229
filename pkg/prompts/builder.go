package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// summaryContextEntries is how many story entries precede the new narration in a summary request.
const summaryContextEntries = 4

// Builder constructs chat messages for LLM interaction using a fluent interface.
// It separates prompt building logic from game state management.
type Builder struct {
	gs           *state.GameState
	action       string
	historyLimit int
	messages     []chat.ChatMessage
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: DefaultHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithGameState sets the game being narrated.
func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// WithAction sets the player's action for this turn. An empty action requests the opening scene.
func (b *Builder) WithAction(action string) *Builder {
	b.action = action
	return b
}

// WithHistoryLimit sets the story log window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build constructs and returns the final message array for LLM consumption.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.gs == nil {
		return nil, fmt.Errorf("gamestate is required")
	}

	b.messages = make([]chat.ChatMessage, 0)

	// 1. Narrator role, world rules
	b.addSystemPrompt()

	// 2. Current context and history
	b.addStatePrompt()

	// 3. Player action
	b.addUserMessage()

	// 4. Task and choice format
	b.addFinalPrompt()

	return b.messages, nil
}

func (b *Builder) addSystemPrompt() {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(NarratorSystemPrompt, b.gs.World.Style))
	sb.WriteString("\n" + GetNSFWPrompt(b.gs.World.NSFW))
	if b.gs.World.Difficulty != "" {
		sb.WriteString("\nĐộ khó: " + b.gs.World.Difficulty)
	}
	if b.gs.World.AuthorStyle != "" {
		sb.WriteString("\n" + fmt.Sprintf(AuthorStyleTemplate, b.gs.World.AuthorStyle))
	}
	sb.WriteString("\n\n" + BuildHeavenlyRules(b.gs.HeavenlyRules))
	sb.WriteString("\n\n" + CreationRules)

	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: sb.String(),
	})
}

func (b *Builder) addStatePrompt() {
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: ToPromptState(b.gs, b.historyLimit).ToString(),
	})
}

func (b *Builder) addUserMessage() {
	if b.action == "" {
		return
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: fmt.Sprintf("**HÀNH ĐỘNG CỦA NGƯỜI CHƠI:**\n%q", b.action),
	})
}

func (b *Builder) addFinalPrompt() {
	final := TurnTaskPrompt
	if b.action == "" {
		final = OpeningTaskPrompt
	}
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: final,
	})
}

// BuildMessages is a convenience function for the common case.
func BuildMessages(gs *state.GameState, action string, historyLimit int) ([]chat.ChatMessage, error) {
	return New().
		WithGameState(gs).
		WithAction(action).
		WithHistoryLimit(historyLimit).
		Build()
}

// SummaryInput joins the last few story entries with the new narration for summarizing.
func SummaryInput(gs *state.GameState, story string) string {
	entries := gs.StoryLog
	if len(entries) > summaryContextEntries {
		entries = entries[len(entries)-summaryContextEntries:]
	}
	parts := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		parts = append(parts, e.Text)
	}
	parts = append(parts, story)
	return strings.Join(parts, " ")
}
