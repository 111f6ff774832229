package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		entry state.StoryEntry
		want  string
	}{
		{entry: state.StoryEntry{Type: state.EntryPlayer, Text: "Rút kiếm"}, want: `Người chơi: "Rút kiếm"`},
		{entry: state.StoryEntry{Type: state.EntryCustomAction, Text: "Hét lớn"}, want: `Người chơi: "Hét lớn"`},
		{entry: state.StoryEntry{Type: state.EntrySystem, Text: "[Hệ thống] x"}, want: `Hệ thống: "[Hệ thống] x"`},
		{entry: state.StoryEntry{Type: state.EntryAI, Text: "Gió thổi."}, want: `AI: "Gió thổi."`},
	}
	for _, tt := range tests {
		if got := FormatEntry(tt.entry); got != tt.want {
			t.Errorf("FormatEntry(%v) = %q, want %q", tt.entry.Type, got, tt.want)
		}
	}
}

func TestToPromptState(t *testing.T) {
	gs := testGame()
	gs.NPCs = []state.NPC{
		{ID: 1, Name: "Tiểu Mai", Gender: "Nữ", IsDiscovered: true},
		{ID: 2, Name: "Hắc Y Nhân"},
	}
	for i := 1; i <= 5; i++ {
		gs.Log(state.EntryAI, fmt.Sprintf("đoạn %d", i))
	}
	gs.Equipment[0].Item = &state.Item{Name: "Giáp", EquipmentDetails: &state.EquipmentDetails{}}
	gs.Character.Stats.HP = 40

	ps := ToPromptState(gs, 3)

	if len(ps.History) != 3 || ps.History[0] != `AI: "đoạn 3"` {
		t.Errorf("unexpected history window: %q", ps.History)
	}
	if len(ps.NPCs) != 1 {
		t.Fatalf("Expected only discovered NPCs, got %q", ps.NPCs)
	}
	if ps.NPCs[0] != "- Tiểu Mai (Giới tính: Nữ, Cảnh giới: Chưa rõ, Tính cách: Chưa rõ)" {
		t.Errorf("unexpected npc line %q", ps.NPCs[0])
	}
	if ps.HP != 40 || ps.MaxHP != 100 {
		t.Errorf("pools = %d/%d, want 40/100", ps.HP, ps.MaxHP)
	}

	out := ps.ToString()
	for _, want := range []string{
		"- Thế giới: Cửu Châu đại lục, phong cách Tiên hiệp.",
		"- Địa điểm hiện tại: Thanh Vân Sơn",
		"- Nhân vật: Lâm Phong (Cấp 0, Phàm Nhân)",
		"Tinh Lực: 40/100",
		`AI: "đoạn 5"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToString() missing %q", want)
		}
	}
}

func TestToString_NoNPCs(t *testing.T) {
	out := ToPromptState(testGame(), DefaultHistoryLimit).ToString()
	if !strings.Contains(out, "Chưa gặp NPC nào.") {
		t.Errorf("expected empty npc marker, got:\n%s", out)
	}
}
