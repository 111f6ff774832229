package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/prompts"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"github.com/jwebster45206/realm-engine/pkg/textfilter"

	"github.com/jwebster45206/realm-engine/internal/services"
)

const (
	// DefaultSummaryInterval is how many turns pass between story summaries.
	DefaultSummaryInterval = 5

	summaryFallbackRunes = 100
)

// ErrTurnInProgress is returned when a game already has a turn being narrated.
var ErrTurnInProgress = errors.New("a turn is already in progress for this game")

// TurnProcessor runs one narrated turn end to end: prompt, narration, state update, save.
// At most one turn per game runs at a time.
type TurnProcessor struct {
	storage         storage.Storage
	llmService      services.LLMService
	filter          *textfilter.ProfanityFilter
	summaryInterval int
	historyLimit    int
	logger          *slog.Logger

	busyMu sync.Mutex
	busy   map[uuid.UUID]struct{}
}

// NewTurnProcessor creates a turn processor. A non-positive summaryInterval uses
// DefaultSummaryInterval.
func NewTurnProcessor(
	storage storage.Storage,
	llmService services.LLMService,
	summaryInterval int,
	logger *slog.Logger,
) *TurnProcessor {
	if summaryInterval <= 0 {
		summaryInterval = DefaultSummaryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TurnProcessor{
		storage:         storage,
		llmService:      llmService,
		filter:          textfilter.NewProfanityFilter(),
		summaryInterval: summaryInterval,
		historyLimit:    prompts.DefaultHistoryLimit,
		logger:          logger,
		busy:            make(map[uuid.UUID]struct{}),
	}
}

// acquire marks a game busy. It reports false if the game was already busy.
func (p *TurnProcessor) acquire(id uuid.UUID) bool {
	p.busyMu.Lock()
	defer p.busyMu.Unlock()
	if _, ok := p.busy[id]; ok {
		return false
	}
	p.busy[id] = struct{}{}
	return true
}

func (p *TurnProcessor) release(id uuid.UUID) {
	p.busyMu.Lock()
	defer p.busyMu.Unlock()
	delete(p.busy, id)
}

// IsBusy reports whether a turn is running for the game.
func (p *TurnProcessor) IsBusy(id uuid.UUID) bool {
	p.busyMu.Lock()
	defer p.busyMu.Unlock()
	_, ok := p.busy[id]
	return ok
}

// ProcessTurn narrates the player's action. Shortcut actions (look, inventory, status) are
// answered from the state without calling the narrator and change nothing.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return p.run(ctx, req.GameStateID, strings.TrimSpace(req.Action))
}

// Open narrates the opening scene of a game that has no story yet.
func (p *TurnProcessor) Open(ctx context.Context, id uuid.UUID) (*chat.TurnResponse, error) {
	return p.run(ctx, id, "")
}

func (p *TurnProcessor) run(ctx context.Context, id uuid.UUID, action string) (*chat.TurnResponse, error) {
	if !p.acquire(id) {
		return nil, ErrTurnInProgress
	}
	defer p.release(id)

	log := p.logger.With("game_state_id", id.String())

	gs, err := p.storage.LoadGameState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	if action != "" {
		if res := gs.TryHandleCommand(action); res.Handled {
			log.Debug("Answered shortcut command", "action", action)
			return &chat.TurnResponse{
				GameStateID: gs.ID,
				Turn:        gs.Turn,
				Story:       res.Message,
				Choices:     gs.CurrentChoices,
			}, nil
		}
	}

	queued, err := p.storage.Drain(ctx, id)
	if err != nil {
		// Continue without queued actions on error
		log.Error("Failed to drain action queue", "error", err)
	}
	prompt := strings.Join(append(queued, action), "\n")
	prompt = strings.TrimSpace(prompt)

	messages, err := prompts.New().
		WithGameState(gs).
		WithAction(prompt).
		WithHistoryLimit(p.historyLimit).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	log.Debug("Sending turn to narrator", "messages", len(messages), "queued_actions", len(queued))
	raw, err := p.llmService.Generate(ctx, messages)
	var narration chat.Narration
	if err != nil {
		log.Error("Narrator generation failed", "error", err)
		narration = chat.SystemError(chat.ConnectionErrorStory)
	} else {
		narration = chat.ParseNarration(raw)
	}

	if narration.IsSystemError() {
		for _, a := range queued {
			if err := p.storage.Enqueue(ctx, id, a); err != nil {
				log.Error("Failed to requeue action", "error", err)
			}
		}
		return p.recordFailure(ctx, gs, narration)
	}

	if !gs.World.NSFW {
		narration.Story = p.filter.FilterText(narration.Story)
		for i, c := range narration.Choices {
			narration.Choices[i] = p.filter.FilterText(c)
		}
	}

	summaryInput := prompts.SummaryInput(gs, narration.Story)
	logStart := len(gs.StoryLog)

	if action != "" && !strings.HasPrefix(action, state.SystemActionPrefix) {
		gs.Log(state.EntryPlayer, action)
	}

	for _, e := range state.TickEffects(gs) {
		gs.SystemLog(fmt.Sprintf("Hiệu ứng %q đã kết thúc.", e.Name))
	}

	next, ignored := state.ApplyTags(gs, narration.Tags, log)
	for _, ig := range ignored {
		log.Debug("Tag command ignored", "command", ig.Command, "reason", ig.Reason)
	}

	next, found := state.DiscoverEntities(next, narration.Story+" "+strings.Join(narration.Choices, " "))

	next.Log(state.EntryAI, narration.Story)
	next.StoryLog[len(next.StoryLog)-1].Tags = narration.Tags
	for _, d := range found {
		next.Log(state.EntrySystem, d.Message())
	}

	next.CurrentChoices = narration.Choices
	if next.CurrentChoices == nil {
		next.CurrentChoices = []string{}
	}

	turn := next.Turn
	next.Turn++
	if turn > 0 && (turn+1)%p.summaryInterval == 0 {
		summary := p.summarize(ctx, summaryInput, narration.Story, log)
		next.StorySummaries = append([]state.StorySummaryEntry{{
			ID:      next.NewID(),
			Turn:    next.Turn,
			Summary: summary,
		}}, next.StorySummaries...)
	}

	if err := p.storage.SaveGameState(ctx, next.ID, next); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	log.Info("Turn narrated", "turn", next.Turn, "ignored", len(ignored), "discovered", len(found))

	resp := &chat.TurnResponse{
		GameStateID: next.ID,
		Turn:        next.Turn,
		Story:       narration.Story,
		Choices:     next.CurrentChoices,
		SystemLog:   systemEntries(next.StoryLog[logStart:]),
	}
	for _, ig := range ignored {
		resp.Ignored = append(resp.Ignored, ig.Error())
	}
	return resp, nil
}

// recordFailure logs a failed narration with the fallback choices and saves. Nothing
// else changes and the turn does not advance.
func (p *TurnProcessor) recordFailure(ctx context.Context, gs *state.GameState, narration chat.Narration) (*chat.TurnResponse, error) {
	gs.Log(state.EntryAI, narration.Story)
	gs.CurrentChoices = narration.Choices
	if err := p.storage.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}
	return &chat.TurnResponse{
		GameStateID: gs.ID,
		Turn:        gs.Turn,
		Story:       narration.Story,
		Choices:     gs.CurrentChoices,
	}, nil
}

// summarize asks the narrator for a recap, falling back to the head of the story.
func (p *TurnProcessor) summarize(ctx context.Context, input, story string, log *slog.Logger) string {
	summary, err := p.llmService.Summarize(ctx, input)
	if err == nil && strings.TrimSpace(summary) != "" {
		return strings.TrimSpace(summary)
	}
	if err != nil {
		log.Warn("Story summary failed, using story head", "error", err)
	}
	return FallbackSummary(story)
}

// FallbackSummary returns the first 100 characters of story followed by an ellipsis.
func FallbackSummary(story string) string {
	runes := []rune(story)
	if len(runes) > summaryFallbackRunes {
		runes = runes[:summaryFallbackRunes]
	}
	return string(runes) + "..."
}

func systemEntries(entries []state.StoryEntry) []string {
	var out []string
	for _, e := range entries {
		if e.Type == state.EntrySystem {
			out = append(out, e.Text)
		}
	}
	return out
}
