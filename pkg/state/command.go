package state

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/textfilter"
)

type ShortcutType string

const (
	CmdLook      ShortcutType = "look"
	CmdInventory ShortcutType = "inventory"
	CmdStatus    ShortcutType = "status"
	CmdNone      ShortcutType = "" // No command, used for fallback
)

var shortcuts = map[string]ShortcutType{
	"nhìn":       CmdLook,
	"quan sát":   CmdLook,
	"l":          CmdLook,
	"túi đồ":     CmdInventory,
	"hành trang": CmdInventory,
	"i":          CmdInventory,
	"trạng thái": CmdStatus,
	"s":          CmdStatus,
}

// parseShortcut recognizes a player input that the engine answers by itself.
func parseShortcut(input string) ShortcutType {
	trimmed := textfilter.Fold(strings.TrimSpace(input))
	if trimmed == "" {
		return CmdNone
	}
	return shortcuts[trimmed]
}

// CommandResult is an early evaluation of a player action.
type CommandResult struct {
	Handled bool   // True if the action was fully resolved and no narration is needed
	Message string // Reply to log, or the action passed through
}

// TryHandleCommand answers shortcut actions without calling the narrator.
func (gs *GameState) TryHandleCommand(input string) *CommandResult {
	switch parseShortcut(input) {
	case CmdLook:
		return &CommandResult{Handled: true, Message: gs.DescribeLocation()}
	case CmdInventory:
		return &CommandResult{Handled: true, Message: gs.DescribeInventory()}
	case CmdStatus:
		return &CommandResult{Handled: true, Message: gs.DescribeStatus()}
	}
	return &CommandResult{Handled: false, Message: input}
}

func (gs *GameState) DescribeLocation() string {
	if loc := gs.locationByName(gs.Location); loc != nil && loc.Description != "" {
		return fmt.Sprintf("Bạn đang ở %s. %s", loc.Name, loc.Description)
	}
	return fmt.Sprintf("Bạn đang ở %s.", gs.Location)
}

func (gs *GameState) DescribeInventory() string {
	if len(gs.Inventory) == 0 {
		return "Túi đồ trống rỗng."
	}
	lines := make([]string, len(gs.Inventory))
	for i, it := range gs.Inventory {
		lines[i] = fmt.Sprintf("- %s (x%d)", DisplayName(it.Name, it.Quality, it.ItemType), it.Quantity)
	}
	return "Bạn có:\n" + strings.Join(lines, "\n")
}

// DescribeStatus lists realm, pools and attributes with equipment and effects included.
func (gs *GameState) DescribeStatus() string {
	c := &gs.Character
	total := gs.Totals()
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s (cấp %d, %d/%d %s)\n", c.Name, c.Realm, c.Stats.Level, c.Stats.Exp, c.Stats.NextLevelExp, stats.Label(stats.Exp))
	for _, p := range stats.Pools {
		cur, _ := total.Get(p.CurrentKey())
		maxV, _ := total.Get(p.MaxKey())
		fmt.Fprintf(&b, "%s: %d/%d\n", stats.Label(p.CurrentKey()), cur, maxV)
	}
	for _, k := range []stats.Key{stats.Attack, stats.Defense, stats.Speed, stats.MagicPower, stats.BurstPower, stats.Constitution, stats.KillingIntent} {
		v, _ := total.Get(k)
		fmt.Fprintf(&b, "%s: %d\n", stats.Label(k), v)
	}
	for _, e := range c.ActiveEffects {
		if e.IsPermanent() {
			fmt.Fprintf(&b, "* %s (vĩnh viễn)\n", e.Name)
			continue
		}
		fmt.Fprintf(&b, "* %s (%d lượt)\n", e.Name, e.Duration)
	}
	return strings.TrimRight(b.String(), "\n")
}
