package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

const narration = `Lão Trương trao cho ngươi một viên đan dược rồi chỉ về phía núi.
[ITEM_ACQUIRED: name="Hồi Xuân Đan", quantity=2, stats="hp:20"]
1. Cảm ơn lão
2. Lên núi ngay`

func setup(t *testing.T, response string, mutate func(*state.GameState)) (*TurnProcessor, *storage.MockStorage, *services.MockLLM, uuid.UUID) {
	t.Helper()
	store := storage.NewMockStorage()
	llm := services.NewMockLLM(response)
	gs := state.NewGameState(
		state.Character{Name: "Lâm Phong", Gender: "Nam"},
		state.World{
			Setting:     "Thiên Nguyên Đại Lục",
			RealmSystem: []string{"Phàm Nhân", "Luyện Khí", "Trúc Cơ"},
			Currencies:  []string{"Linh Thạch"},
		},
	)
	gs.NPCs = []state.NPC{{ID: gs.NewID(), Name: "Lão Trương"}}
	if mutate != nil {
		mutate(gs)
	}
	require.NoError(t, store.SaveGameState(context.Background(), gs.ID, gs))
	return NewTurnProcessor(store, llm, 5, nil), store, llm, gs.ID
}

func load(t *testing.T, store *storage.MockStorage, id uuid.UUID) *state.GameState {
	t.Helper()
	gs, err := store.LoadGameState(context.Background(), id)
	require.NoError(t, err)
	return gs
}

func TestProcessTurn(t *testing.T) {
	p, store, _, id := setup(t, narration, nil)

	resp, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Chào lão"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Turn)
	assert.Equal(t, "Lão Trương trao cho ngươi một viên đan dược rồi chỉ về phía núi.", resp.Story)
	assert.Equal(t, []string{"1. Cảm ơn lão", "2. Lên núi ngay"}, resp.Choices)
	assert.Contains(t, resp.SystemLog, "[Hệ thống] Bạn đã có dữ liệu về nhân vật: Lão Trương")
	assert.Contains(t, resp.SystemLog, "[Hệ thống] Bạn đã nhận được vật phẩm: Hồi Xuân Đan (x2)")
	assert.Empty(t, resp.Ignored)

	gs := load(t, store, id)
	assert.Equal(t, 1, gs.Turn)
	assert.Equal(t, resp.Choices, gs.CurrentChoices)
	require.Len(t, gs.Inventory, 1)
	assert.Equal(t, 2, gs.Inventory[0].Quantity)
	assert.True(t, gs.NPCs[0].IsDiscovered)

	require.GreaterOrEqual(t, len(gs.StoryLog), 3)
	assert.Equal(t, state.EntryPlayer, gs.StoryLog[0].Type)
	assert.Equal(t, "Chào lão", gs.StoryLog[0].Text)

	var ai *state.StoryEntry
	for i := range gs.StoryLog {
		if gs.StoryLog[i].Type == state.EntryAI {
			ai = &gs.StoryLog[i]
		}
	}
	require.NotNil(t, ai)
	assert.Equal(t, resp.Story, ai.Text)
	assert.Contains(t, ai.Tags, "ITEM_ACQUIRED")

	last := gs.StoryLog[len(gs.StoryLog)-1]
	assert.Equal(t, "[Hệ thống] Bạn đã có dữ liệu về nhân vật: Lão Trương", last.Text, "discoveries follow the narration")
}

func TestProcessTurn_SystemAction(t *testing.T) {
	p, store, _, id := setup(t, narration, nil)

	_, err := p.ProcessTurn(context.Background(), chat.TurnRequest{
		GameStateID: id,
		Action:      state.SystemActionPrefix + " Sử dụng 1 x \"Hồi Xuân Đan\".",
	})
	require.NoError(t, err)

	for _, e := range load(t, store, id).StoryLog {
		assert.NotEqual(t, state.EntryPlayer, e.Type)
	}
}

func TestProcessTurn_QueuedActions(t *testing.T) {
	p, store, llm, id := setup(t, narration, nil)
	ctx := context.Background()
	require.NoError(t, store.Enqueue(ctx, id, state.SystemActionPrefix+" Dùng đan."))

	_, err := p.ProcessTurn(ctx, chat.TurnRequest{GameStateID: id, Action: "Đi tiếp"})
	require.NoError(t, err)

	calls, _ := llm.Calls()
	require.Len(t, calls, 1)
	var user string
	for _, m := range calls[0] {
		if m.Role == chat.ChatRoleUser {
			user = m.Content
		}
	}
	assert.Contains(t, user, "Dùng đan.")
	assert.Contains(t, user, "Đi tiếp")

	left, err := store.Drain(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestProcessTurn_NarratorFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*services.MockLLM)
		story string
	}{
		{
			name:  "generate error",
			setup: func(m *services.MockLLM) { m.SetGenerateError(errors.New("quota exceeded")) },
			story: chat.SystemErrorMarker + " " + chat.ConnectionErrorStory,
		},
		{
			name: "system error narration",
			setup: func(m *services.MockLLM) {
				m.GenerateFunc = func(context.Context, []chat.ChatMessage) (string, error) {
					return chat.SystemErrorMarker + " Lỗi định dạng [ITEM_ACQUIRED: name=\"Kiếm\"]", nil
				}
			},
			story: chat.SystemErrorMarker + ` Lỗi định dạng [ITEM_ACQUIRED: name="Kiếm"]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, store, llm, id := setup(t, narration, nil)
			tt.setup(llm)
			ctx := context.Background()
			require.NoError(t, store.Enqueue(ctx, id, "hành động chờ"))

			resp, err := p.ProcessTurn(ctx, chat.TurnRequest{GameStateID: id, Action: "Chào lão"})
			require.NoError(t, err)
			assert.Equal(t, tt.story, resp.Story)
			assert.Equal(t, chat.FallbackChoices, resp.Choices)
			assert.Zero(t, resp.Turn)

			gs := load(t, store, id)
			assert.Zero(t, gs.Turn)
			assert.Empty(t, gs.Inventory)
			require.Len(t, gs.StoryLog, 1, "only the error entry is recorded")
			assert.Equal(t, state.EntryAI, gs.StoryLog[0].Type)
			assert.Equal(t, chat.FallbackChoices, gs.CurrentChoices)

			requeued, err := store.Drain(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, []string{"hành động chờ"}, requeued)
		})
	}
}

func TestProcessTurn_Shortcut(t *testing.T) {
	p, store, llm, id := setup(t, narration, nil)

	resp, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Trạng thái"})
	require.NoError(t, err)
	assert.Contains(t, resp.Story, "Tinh Lực: 100/100")

	calls, _ := llm.Calls()
	assert.Empty(t, calls)
	assert.Empty(t, load(t, store, id).StoryLog)
}

func TestProcessTurn_Summary(t *testing.T) {
	tests := []struct {
		name      string
		turn      int
		fail      bool
		summaries int
		want      string
	}{
		{name: "on interval", turn: 4, summaries: 1, want: "Mock summary"},
		{name: "fallback", turn: 9, fail: true, summaries: 1, want: FallbackSummary("Lão Trương trao cho ngươi một viên đan dược rồi chỉ về phía núi.")},
		{name: "off interval", turn: 5},
		{name: "first turn", turn: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, store, llm, id := setup(t, narration, func(gs *state.GameState) {
				gs.Turn = tt.turn
				gs.StorySummaries = []state.StorySummaryEntry{}
			})
			if tt.fail {
				llm.SetSummarizeError(errors.New("timeout"))
			}

			_, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Chào lão"})
			require.NoError(t, err)

			gs := load(t, store, id)
			require.Len(t, gs.StorySummaries, tt.summaries)
			if tt.summaries > 0 {
				assert.Equal(t, tt.want, gs.StorySummaries[0].Summary)
				assert.Equal(t, tt.turn+1, gs.StorySummaries[0].Turn)
			}
		})
	}
}

func TestProcessTurn_SummaryIsPrepended(t *testing.T) {
	p, store, _, id := setup(t, narration, func(gs *state.GameState) {
		gs.Turn = 4
		gs.StorySummaries = []state.StorySummaryEntry{{ID: 99, Turn: 0, Summary: "cũ"}}
	})

	_, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Chào lão"})
	require.NoError(t, err)

	gs := load(t, store, id)
	require.Len(t, gs.StorySummaries, 2)
	assert.Equal(t, "Mock summary", gs.StorySummaries[0].Summary)
	assert.Equal(t, "cũ", gs.StorySummaries[1].Summary)
}

func TestProcessTurn_TicksEffects(t *testing.T) {
	p, store, _, id := setup(t, "Ngươi nghỉ ngơi.\n1. Tiếp tục", func(gs *state.GameState) {
		gs.Character.ActiveEffects = []state.ActiveEffect{
			{Name: "Cuồng Lực", Duration: 1, Stats: stats.Mods{stats.Attack: 4}},
			{Name: "Thiên Phú", Duration: state.PermanentDuration, Stats: stats.Mods{stats.Defense: 2}},
		}
	})

	resp, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Nghỉ"})
	require.NoError(t, err)
	assert.Contains(t, resp.SystemLog, `[Hệ thống] Hiệu ứng "Cuồng Lực" đã kết thúc.`)

	gs := load(t, store, id)
	require.Len(t, gs.Character.ActiveEffects, 1)
	assert.Equal(t, "Thiên Phú", gs.Character.ActiveEffects[0].Name)
}

func TestProcessTurn_ProfanityFilter(t *testing.T) {
	tests := []struct {
		name string
		nsfw bool
		want string
	}{
		{name: "filtered", want: "ta chẳng sợ"},
		{name: "mature world", nsfw: true, want: "ta đéo sợ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _, id := setup(t, "Hắn nói: ta đéo sợ.\n1. Đánh", func(gs *state.GameState) {
				gs.World.NSFW = tt.nsfw
			})
			resp, err := p.ProcessTurn(context.Background(), chat.TurnRequest{GameStateID: id, Action: "Khiêu khích"})
			require.NoError(t, err)
			assert.Contains(t, resp.Story, tt.want)
		})
	}
}

func TestProcessTurn_Errors(t *testing.T) {
	p, _, _, id := setup(t, narration, nil)
	ctx := context.Background()

	_, err := p.ProcessTurn(ctx, chat.TurnRequest{GameStateID: uuid.New(), Action: "Đi"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = p.ProcessTurn(ctx, chat.TurnRequest{GameStateID: id, Action: " "})
	assert.Error(t, err)

	require.True(t, p.acquire(id))
	assert.True(t, p.IsBusy(id))
	_, err = p.ProcessTurn(ctx, chat.TurnRequest{GameStateID: id, Action: "Đi"})
	assert.ErrorIs(t, err, ErrTurnInProgress)
	p.release(id)
	assert.False(t, p.IsBusy(id))
}

func TestOpen(t *testing.T) {
	p, store, llm, id := setup(t, narration, nil)

	resp, err := p.Open(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Turn)

	calls, _ := llm.Calls()
	require.Len(t, calls, 1)
	for _, m := range calls[0] {
		assert.NotEqual(t, chat.ChatRoleUser, m.Role, "the opening has no player action")
	}
	for _, e := range load(t, store, id).StoryLog {
		assert.NotEqual(t, state.EntryPlayer, e.Type)
	}
}

func TestFallbackSummary(t *testing.T) {
	long := strings.Repeat("á", 150)
	tests := []struct {
		name  string
		story string
		want  string
	}{
		{name: "short", story: "Ngắn gọn.", want: "Ngắn gọn...."},
		{name: "long", story: long, want: strings.Repeat("á", 100) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FallbackSummary(tt.story); got != tt.want {
				t.Errorf("FallbackSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}
