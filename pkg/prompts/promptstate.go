package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// DefaultHistoryLimit is the number of story entries replayed to the narrator.
const DefaultHistoryLimit = 50

// PromptState is the reduced view of a game the narrator sees each turn.
type PromptState struct {
	Setting   string `json:"setting"`
	Style     string `json:"style"`
	Location  string `json:"location"`
	Turn      int    `json:"turn"`
	Character string `json:"character"`
	Level     int    `json:"level"`
	Realm     string `json:"realm"`

	// Pools are current/maximum with equipment and effects applied.
	HP         int `json:"hp"`
	MaxHP      int `json:"max_hp"`
	MP         int `json:"mp"`
	MaxMP      int `json:"max_mp"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"max_stamina"`

	NPCs       []string `json:"npcs"`
	CoreMemory []string `json:"core_memory"`
	History    []string `json:"history"`
}

// ToPromptState reduces gs to what the narrator needs, keeping the last historyLimit story entries.
func ToPromptState(gs *state.GameState, historyLimit int) *PromptState {
	total := gs.Totals()
	ps := &PromptState{
		Setting:    gs.World.Setting,
		Style:      gs.World.Style,
		Location:   gs.Location,
		Turn:       gs.Turn,
		Character:  gs.Character.Name,
		Level:      gs.Character.Stats.Level,
		Realm:      gs.Character.Realm,
		HP:         gs.Character.Stats.HP,
		MaxHP:      total.MaxHP,
		MP:         gs.Character.Stats.MP,
		MaxMP:      total.MaxMP,
		Stamina:    gs.Character.Stats.Stamina,
		MaxStamina: total.MaxStamina,
		CoreMemory: gs.CoreMemory,
	}

	for _, npc := range gs.NPCs {
		if npc.IsDiscovered {
			ps.NPCs = append(ps.NPCs, FormatNPC(npc))
		}
	}

	entries := gs.StoryLog
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}
	for _, e := range entries {
		ps.History = append(ps.History, FormatEntry(e))
	}
	return ps
}

// FormatEntry renders one story entry with its speaker.
func FormatEntry(e state.StoryEntry) string {
	switch e.Type {
	case state.EntryPlayer, state.EntryCustomAction:
		return fmt.Sprintf("Người chơi: %q", e.Text)
	case state.EntrySystem:
		return fmt.Sprintf("Hệ thống: %q", e.Text)
	default:
		return fmt.Sprintf("AI: %q", e.Text)
	}
}

// FormatNPC renders a known NPC with the fields the narrator must stay consistent with.
func FormatNPC(npc state.NPC) string {
	return fmt.Sprintf("- %s (Giới tính: %s, Cảnh giới: %s, Tính cách: %s)",
		npc.Name, orDefault(npc.Gender, "Không rõ"), orDefault(npc.Realm, "Chưa rõ"), orDefault(npc.Personality, "Chưa rõ"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// ToString renders the context block.
//
// Example output:
// **BỐI CẢNH HIỆN TẠI:**
// - Thế giới: Cửu Châu đại lục, phong cách Tiên hiệp.
// - Địa điểm hiện tại: Thanh Vân Sơn
// - Lượt: 3
// - Nhân vật: Lâm Phong (Cấp 2, Luyện Khí Tầng 2)
// ...
func (ps *PromptState) ToString() string {
	var sb strings.Builder

	sb.WriteString("**BỐI CẢNH HIỆN TẠI:**\n")
	sb.WriteString(fmt.Sprintf("- Thế giới: %s, phong cách %s.\n", ps.Setting, ps.Style))
	sb.WriteString(fmt.Sprintf("- Địa điểm hiện tại: %s\n", ps.Location))
	sb.WriteString(fmt.Sprintf("- Lượt: %d\n", ps.Turn))
	sb.WriteString(fmt.Sprintf("- Nhân vật: %s (Cấp %d, %s)\n", ps.Character, ps.Level, ps.Realm))
	sb.WriteString("- Chỉ số Hiện tại (gốc + trang bị + hiệu ứng):\n")
	sb.WriteString(fmt.Sprintf("    - %s: %d/%d\n", stats.Label(stats.HP), ps.HP, ps.MaxHP))
	sb.WriteString(fmt.Sprintf("    - %s: %d/%d\n", stats.Label(stats.MP), ps.MP, ps.MaxMP))
	sb.WriteString(fmt.Sprintf("    - %s: %d/%d\n", stats.Label(stats.Stamina), ps.Stamina, ps.MaxStamina))

	sb.WriteString("\n**CÁC NPC ĐÃ BIẾT (TUÂN THỦ GIỚI TÍNH):**\n")
	if len(ps.NPCs) == 0 {
		sb.WriteString("Chưa gặp NPC nào.\n")
	} else {
		sb.WriteString(strings.Join(ps.NPCs, "\n") + "\n")
	}

	sb.WriteString("\n**BỘ NHỚ CỐT LÕI (Không bao giờ quên):**\n")
	for _, m := range ps.CoreMemory {
		sb.WriteString("- " + m + "\n")
	}

	sb.WriteString("\n**LỊCH SỬ GẦN ĐÂY:**\n")
	sb.WriteString(strings.Join(ps.History, "\n"))

	return sb.String()
}
