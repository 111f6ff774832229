package state

import (
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// consume applies one use of the inventory item at idx without changing its quantity.
// An item without a duration changes base stats directly and the applied stats are
// returned; an item with a duration starts or refreshes its effect.
func (gs *GameState) consume(idx int) stats.Mods {
	item := gs.Inventory[idx]
	if len(item.Stats) == 0 {
		return nil
	}
	if item.Duration <= 0 {
		gs.Character.Stats.Apply(item.Stats)
		return item.Stats
	}

	desc := item.Description
	if desc == "" {
		desc = "Hiệu ứng từ " + item.Name
	}
	effects := gs.Character.ActiveEffects
	for i := range effects {
		if effects[i].Source == item.Name {
			effects[i].Duration = item.Duration
			effects[i].Stats = item.Stats.Clone()
			effects[i].Description = desc
			return nil
		}
	}
	gs.Character.ActiveEffects = append(effects, ActiveEffect{
		Name:        "Hiệu ứng: " + item.Name,
		Source:      item.Name,
		Description: desc,
		Duration:    item.Duration,
		Stats:       item.Stats.Clone(),
	})
	return nil
}

// unequip moves the slot's item back to the inventory, merging it into a stack of the
// same name and kind when there is one.
func (gs *GameState) unequip(slot *EquipmentSlot) Item {
	item := slot.Item.Clone()
	slot.Item = nil
	gs.KnowledgeBase.Remember(item)

	idx := gs.findItem(func(it Item) bool { return it.Name == item.Name && it.ItemType == item.ItemType })
	if idx >= 0 {
		gs.Inventory[idx].Quantity++
		return item
	}
	back := item.Clone()
	back.Quantity = 1
	gs.Inventory = append(gs.Inventory, back)
	return item
}

// equip moves one unit of the inventory item at idx into slot, which must be empty.
// Taking one from a larger stack gives the equipped copy a fresh id.
func (gs *GameState) equip(idx int, slot *EquipmentSlot) Item {
	item := gs.Inventory[idx].Clone()
	item.Quantity = 1
	if gs.Inventory[idx].Quantity > 1 {
		item.ID = gs.NewID()
	}
	slot.Item = &item
	gs.removeItemQuantity(idx, 1)
	gs.KnowledgeBase.Remember(item)
	return item
}
