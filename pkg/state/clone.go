package state

import "slices"

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.RequiredLevel = cloneIntPtr(it.RequiredLevel)
	out.Stats = it.Stats.Clone()
	out.Effects = slices.Clone(it.Effects)
	if it.EquipmentDetails != nil {
		d := *it.EquipmentDetails
		d.Stats = d.Stats.Clone()
		d.Effects = slices.Clone(d.Effects)
		out.EquipmentDetails = &d
	}
	return out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Clone returns a deep copy of the character.
func (c Character) Clone() Character {
	out := c
	out.Currencies = slices.Clone(c.Currencies)
	out.Skills = slices.Clone(c.Skills)
	if c.ActiveEffects != nil {
		out.ActiveEffects = make([]ActiveEffect, len(c.ActiveEffects))
		for i, e := range c.ActiveEffects {
			e.Stats = e.Stats.Clone()
			out.ActiveEffects[i] = e
		}
	}
	return out
}

// Clone returns a deep copy of the game state. Turn processing and player actions work
// on a clone so a failed pass leaves the previous document untouched.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Character = gs.Character.Clone()
	out.World.RealmSystem = slices.Clone(gs.World.RealmSystem)
	out.World.Currencies = slices.Clone(gs.World.Currencies)
	out.Inventory = cloneItems(gs.Inventory)

	if gs.Equipment != nil {
		out.Equipment = make([]EquipmentSlot, len(gs.Equipment))
		for i, s := range gs.Equipment {
			if s.Item != nil {
				it := s.Item.Clone()
				s.Item = &it
			}
			out.Equipment[i] = s
		}
	}

	if gs.Quests != nil {
		out.Quests = make([]Quest, len(gs.Quests))
		for i, q := range gs.Quests {
			q.Penalties = slices.Clone(q.Penalties)
			out.Quests[i] = q
		}
	}

	out.NPCs = slices.Clone(gs.NPCs)
	out.Companions = slices.Clone(gs.Companions)
	out.StoryLog = slices.Clone(gs.StoryLog)
	out.CurrentChoices = slices.Clone(gs.CurrentChoices)
	out.Locations = slices.Clone(gs.Locations)
	out.Factions = slices.Clone(gs.Factions)
	out.Lore = slices.Clone(gs.Lore)

	out.KnowledgeBase.Items = cloneItems(gs.KnowledgeBase.Items)
	if gs.KnowledgeBase.Recipes != nil {
		out.KnowledgeBase.Recipes = make([]Recipe, len(gs.KnowledgeBase.Recipes))
		for i, r := range gs.KnowledgeBase.Recipes {
			r.Ingredients = slices.Clone(r.Ingredients)
			r.ResultItem = r.ResultItem.Clone()
			out.KnowledgeBase.Recipes[i] = r
		}
	}

	out.HeavenlyRules = slices.Clone(gs.HeavenlyRules)
	out.CoreMemory = slices.Clone(gs.CoreMemory)
	out.StorySummaries = slices.Clone(gs.StorySummaries)
	return &out
}
