package state

import "github.com/jwebster45206/realm-engine/pkg/stats"

// TotalStats returns the character's effective stats: base plus every equipped item's
// modifiers plus every active effect's modifiers. Only the modifiable fields change;
// pool current values, level and experience pass through from base.
func TotalStats(c *Character, equipment []EquipmentSlot) stats.Stats {
	total := c.Stats
	for _, k := range stats.Modifiable {
		base, _ := c.Stats.Get(k)
		total.Set(k, base+modifierSum(c, equipment, k))
	}
	return total
}

func modifierSum(c *Character, equipment []EquipmentSlot, k stats.Key) int {
	sum := 0
	for _, s := range equipment {
		if s.Item == nil || s.Item.EquipmentDetails == nil {
			continue
		}
		sum += s.Item.EquipmentDetails.Stats.Get(k)
	}
	for _, e := range c.ActiveEffects {
		sum += e.Stats.Get(k)
	}
	return sum
}

// Breakdown splits one stat into base, modifier and total for display.
type Breakdown struct {
	Key      stats.Key `json:"key"`
	Base     int       `json:"base"`
	Modifier int       `json:"modifier"`
	Total    int       `json:"total"`
}

// StatBreakdown reports how equipment and effects contribute to key.
func StatBreakdown(c *Character, equipment []EquipmentSlot, key stats.Key) Breakdown {
	base, _ := c.Stats.Get(key)
	mod := modifierSum(c, equipment, key)
	return Breakdown{Key: key, Base: base, Modifier: mod, Total: base + mod}
}

// PoolBreakdown reports the breakdown of a pool's maximum, labelled with the pool's own
// key: the breakdown of "hp" is the breakdown of "maxHp".
func PoolBreakdown(c *Character, equipment []EquipmentSlot, pool stats.Pool) Breakdown {
	b := StatBreakdown(c, equipment, pool.MaxKey())
	b.Key = pool.CurrentKey()
	return b
}

// Totals is TotalStats for the game's character and equipment.
func (gs *GameState) Totals() stats.Stats {
	return TotalStats(&gs.Character, gs.Equipment)
}
