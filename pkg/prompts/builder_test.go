package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

func testGame() *state.GameState {
	gs := state.NewGameState(
		state.Character{Name: "Lâm Phong", Gender: "Nam"},
		state.World{
			Setting:     "Cửu Châu đại lục",
			Style:       "Tiên hiệp",
			RealmSystem: []string{"Phàm Nhân", "Luyện Khí", "Trúc Cơ"},
			Currencies:  []string{"Linh Thạch"},
		},
	)
	gs.Location = "Thanh Vân Sơn"
	return gs
}

func TestNew(t *testing.T) {
	builder := New()
	if builder.historyLimit != DefaultHistoryLimit {
		t.Errorf("Expected default history limit of %d, got %d", DefaultHistoryLimit, builder.historyLimit)
	}
	if builder.messages == nil {
		t.Error("Expected messages slice to be initialized")
	}
}

func TestBuilder_Build_RequiresGameState(t *testing.T) {
	_, err := New().WithAction("Ngồi thiền").Build()
	if err == nil || err.Error() != "gamestate is required" {
		t.Errorf("Expected 'gamestate is required' error, got: %v", err)
	}
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		wantRoles []string
		wantFinal string
	}{
		{
			name:      "regular turn",
			action:    "Ngồi thiền",
			wantRoles: []string{chat.ChatRoleSystem, chat.ChatRoleSystem, chat.ChatRoleUser, chat.ChatRoleSystem},
			wantFinal: TurnTaskPrompt,
		},
		{
			name:      "opening scene",
			wantRoles: []string{chat.ChatRoleSystem, chat.ChatRoleSystem, chat.ChatRoleSystem},
			wantFinal: OpeningTaskPrompt,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, err := BuildMessages(testGame(), tt.action, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(messages) != len(tt.wantRoles) {
				t.Fatalf("Expected %d messages, got %d", len(tt.wantRoles), len(messages))
			}
			for i, role := range tt.wantRoles {
				if messages[i].Role != role {
					t.Errorf("message %d: role = %q, want %q", i, messages[i].Role, role)
				}
			}
			if got := messages[len(messages)-1].Content; got != tt.wantFinal {
				t.Errorf("final prompt = %q, want %q", got, tt.wantFinal)
			}
		})
	}
}

func TestBuilder_SystemPrompt(t *testing.T) {
	gs := testGame()
	gs.World.AuthorStyle = "Nhĩ Căn"
	gs.World.NSFW = true
	gs.HeavenlyRules = []string{"Không được giết phàm nhân", "  "}

	messages, err := New().WithGameState(gs).WithAction("Ngồi thiền").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	system := messages[0].Content
	for _, want := range []string{"'Tiên hiệp'", NSFWAllowed, "'Nhĩ Căn'", "- Không được giết phàm nhân", DefaultHeavenlyRules[0], CreationRules} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(system, "\n-   ") {
		t.Error("blank heavenly rules should be skipped")
	}
	if messages[2].Content != "**HÀNH ĐỘNG CỦA NGƯỜI CHƠI:**\n\"Ngồi thiền\"" {
		t.Errorf("unexpected user message %q", messages[2].Content)
	}
}

func TestSummaryInput(t *testing.T) {
	gs := testGame()
	for i := 1; i <= 6; i++ {
		gs.Log(state.EntryAI, fmt.Sprintf("đoạn %d", i))
	}
	got := SummaryInput(gs, "mới")
	want := "đoạn 3 đoạn 4 đoạn 5 đoạn 6 mới"
	if got != want {
		t.Errorf("SummaryInput() = %q, want %q", got, want)
	}

	if got := SummaryInput(testGame(), "mới"); got != "mới" {
		t.Errorf("SummaryInput() on empty log = %q", got)
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	got := BuildSummaryPrompt("Lâm Phong đột phá.")
	if !strings.HasPrefix(got, "Tóm tắt lại đoạn văn sau trong khoảng 30-50 từ") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, "Đoạn văn:\n\"Lâm Phong đột phá.\"") {
		t.Errorf("unexpected suffix: %q", got)
	}
}
