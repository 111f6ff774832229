package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// SystemActionPrefix marks an action text written by the engine on the player's behalf.
// Turns driven by such an action do not log a player entry.
const SystemActionPrefix = "[Hành động hệ thống]"

// act runs fn on a copy of gs and settles the result. On error gs is returned untouched.
func act(gs *GameState, fn func(*GameState) error) (*GameState, error) {
	next := gs.Clone()
	if err := fn(next); err != nil {
		return gs, err
	}
	Settle(next)
	return next, nil
}

// UseItem uses qty units of the inventory item with the given id. It returns the new
// state and the system action text that tells the narrator what happened.
func UseItem(gs *GameState, id int64, qty int) (*GameState, string, error) {
	var name string
	var applied stats.Mods
	var duration int

	next, err := act(gs, func(s *GameState) error {
		if qty <= 0 {
			return ErrInvalidAmount
		}
		idx := s.ItemByID(id)
		if idx < 0 {
			return ErrItemNotFound
		}
		item := s.Inventory[idx]
		if item.IsEquipment() {
			return ErrNotConsumable
		}
		if item.Quantity < qty {
			return fmt.Errorf("%w: have %d, want %d", ErrInvalidAmount, item.Quantity, qty)
		}
		name, duration = item.Name, item.Duration

		applied = stats.Mods{}
		for range qty {
			for k, v := range s.consume(idx) {
				applied[k] += v
			}
		}
		if duration > 0 {
			applied = item.Stats.Clone()
		}
		s.removeItemQuantity(idx, qty)

		s.SystemLog(fmt.Sprintf("Bạn đã sử dụng %d x %s.", qty, name))
		if summary := stats.FormatMods(applied); summary != "" {
			s.SystemLog(summary + ".")
		}
		return nil
	})
	if err != nil {
		return gs, "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Người chơi vừa sử dụng %d x %q.", SystemActionPrefix, qty, name)
	if summary := stats.FormatMods(applied); summary != "" {
		fmt.Fprintf(&b, " Hiệu ứng: %s.", summary)
	}
	if duration > 0 {
		fmt.Fprintf(&b, " Kéo dài trong %d lượt.", duration)
	}
	b.WriteString(" Hãy mô tả lại hành động này và những gì xảy ra tiếp theo. Không cần dùng tag [ITEM_USED] hay [STATS_UPDATE] nữa vì hệ thống đã tự xử lý.")
	return next, b.String(), nil
}

// DropItem discards up to qty units of an inventory item.
func DropItem(gs *GameState, id int64, qty int) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		if qty <= 0 {
			return ErrInvalidAmount
		}
		idx := s.ItemByID(id)
		if idx < 0 {
			return ErrItemNotFound
		}
		name := s.Inventory[idx].Name
		n := min(qty, s.Inventory[idx].Quantity)
		s.removeItemQuantity(idx, n)
		s.SystemLog(fmt.Sprintf("Bạn đã vứt bỏ %d x %s.", n, name))
		return nil
	})
}

// RenameItem renames an inventory item.
func RenameItem(gs *GameState, id int64, name string) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrEmptyName
		}
		idx := s.ItemByID(id)
		if idx < 0 {
			return ErrItemNotFound
		}
		s.Inventory[idx].Name = name
		return nil
	})
}

// EquipItem moves an equipment item from the inventory into its slot, returning the
// previous occupant to the inventory.
func EquipItem(gs *GameState, id int64) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		idx := s.ItemByID(id)
		if idx < 0 {
			return ErrItemNotFound
		}
		item := s.Inventory[idx]
		if item.EquipmentDetails == nil {
			return ErrNotEquipment
		}
		if !meetsLevel(item, s.Character.Stats.Level) {
			return fmt.Errorf("%w: %s needs level %d", ErrLevelTooLow, item.Name, *item.RequiredLevel)
		}
		slot := s.Slot(item.EquipmentDetails.Position)
		if slot == nil {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, item.EquipmentDetails.Position)
		}
		if slot.Item != nil {
			s.unequip(slot)
			idx = s.ItemByID(id)
		}
		s.equip(idx, slot)
		s.SystemLog(fmt.Sprintf("Bạn đã trang bị %s.", item.Name))
		return nil
	})
}

// UnequipItem empties a slot into the inventory.
func UnequipItem(gs *GameState, slotID Slot) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		slot := s.Slot(slotID)
		if slot == nil {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
		}
		if slot.Item == nil {
			return ErrSlotEmpty
		}
		item := s.unequip(slot)
		s.SystemLog(fmt.Sprintf("Bạn đã tháo %s.", item.Name))
		return nil
	})
}

func (gs *GameState) questByID(id int64) int {
	return slices.IndexFunc(gs.Quests, func(q Quest) bool { return q.ID == id })
}

// AcceptQuest accepts a quest that is waiting for an answer.
func AcceptQuest(gs *GameState, questID int64) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		i := s.questByID(questID)
		if i < 0 {
			return ErrQuestNotFound
		}
		if s.Quests[i].Status != QuestNotAccepted {
			return ErrInvalidStatus
		}
		s.Quests[i].Status = QuestAccepted
		return nil
	})
}

// DeclineQuest removes a quest.
func DeclineQuest(gs *GameState, questID int64) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		i := s.questByID(questID)
		if i < 0 {
			return ErrQuestNotFound
		}
		s.Quests = slices.Delete(s.Quests, i, i+1)
		return nil
	})
}

func UpdateStorySummary(gs *GameState, id int64, summary string) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		i := slices.IndexFunc(s.StorySummaries, func(e StorySummaryEntry) bool { return e.ID == id })
		if i < 0 {
			return ErrNotFound
		}
		s.StorySummaries[i].Summary = summary
		return nil
	})
}

func DeleteStorySummary(gs *GameState, id int64) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		i := slices.IndexFunc(s.StorySummaries, func(e StorySummaryEntry) bool { return e.ID == id })
		if i < 0 {
			return ErrNotFound
		}
		s.StorySummaries = slices.Delete(s.StorySummaries, i, i+1)
		return nil
	})
}

// UpdateLocation replaces the location with the same id.
func UpdateLocation(gs *GameState, loc Location) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		if strings.TrimSpace(loc.Name) == "" {
			return ErrEmptyName
		}
		i := slices.IndexFunc(s.Locations, func(l Location) bool { return l.ID == loc.ID })
		if i < 0 {
			return ErrNotFound
		}
		s.Locations[i] = loc
		return nil
	})
}

func DeleteLocation(gs *GameState, id int64) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		i := slices.IndexFunc(s.Locations, func(l Location) bool { return l.ID == id })
		if i < 0 {
			return ErrNotFound
		}
		s.Locations = slices.Delete(s.Locations, i, i+1)
		return nil
	})
}

// SetHeavenlyRules replaces the player's world rules. Blank rules are dropped.
func SetHeavenlyRules(gs *GameState, rules []string) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		s.HeavenlyRules = compactLines(rules)
		return nil
	})
}

// SetCoreMemory replaces the facts the narrator must never forget. Blank entries are dropped.
func SetCoreMemory(gs *GameState, memory []string) (*GameState, error) {
	return act(gs, func(s *GameState) error {
		s.CoreMemory = compactLines(memory)
		return nil
	})
}

func compactLines(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
