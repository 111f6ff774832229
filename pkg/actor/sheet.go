// Package actor builds d20 combat sheets from cultivator stat blocks.
package actor

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// attributeKeys are the stats exposed as d20 attributes.
var attributeKeys = []stats.Key{
	stats.Attack, stats.Defense, stats.Speed, stats.MagicPower, stats.BurstPower,
	stats.Constitution, stats.KillingIntent,
	stats.MP, stats.MaxMP, stats.Stamina, stats.MaxStamina, stats.Level,
}

// SheetSpec is the serializable specification for a combat sheet.
type SheetSpec struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Realm string `json:"realm,omitempty"`
	Level int    `json:"level"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	AC    int    `json:"ac"`
	// CombatModifiers maps an item or effect name to its attack bonus.
	CombatModifiers map[string]int `json:"combat_modifiers,omitempty"`
	Attributes      map[string]int `json:"attributes,omitempty"`
}

// Sheet is the runtime combat sheet of a character.
type Sheet struct {
	Spec  *SheetSpec
	Actor *d20.Actor // Built at runtime from SheetSpec
}

// ArmorClass derives a d20 armor class from total defense.
func ArmorClass(defense int) int {
	return max(1, 10+defense/2)
}

// SpecFromGameState describes the character of gs with equipment and active effects applied.
func SpecFromGameState(gs *state.GameState) *SheetSpec {
	total := gs.Totals()
	spec := &SheetSpec{
		ID:              gs.ID.String(),
		Name:            gs.Character.Name,
		Realm:           gs.Character.Realm,
		Level:           total.Level,
		MaxHP:           max(1, total.MaxHP),
		HP:              min(max(0, total.HP), max(1, total.MaxHP)),
		AC:              ArmorClass(total.Defense),
		CombatModifiers: make(map[string]int),
		Attributes:      make(map[string]int, len(attributeKeys)),
	}
	for _, k := range attributeKeys {
		v, _ := total.Get(k)
		spec.Attributes[string(k)] = v
	}

	for _, slot := range gs.Equipment {
		if slot.Item == nil || slot.Item.EquipmentDetails == nil {
			continue
		}
		if atk := slot.Item.EquipmentDetails.Stats.Get(stats.Attack); atk != 0 {
			spec.CombatModifiers[slot.Item.Name] += atk
		}
	}
	for _, e := range gs.Character.ActiveEffects {
		if atk := e.Stats.Get(stats.Attack); atk != 0 {
			spec.CombatModifiers[e.Name] += atk
		}
	}
	return spec
}

// NewSheetFromSpec creates a Sheet and builds its d20.Actor.
func NewSheetFromSpec(spec *SheetSpec) (*Sheet, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	actor, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(spec.AC).
		WithAttributes(maps.Clone(spec.Attributes)).
		WithCombatModifiers(maps.Clone(spec.CombatModifiers)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if spec.HP != spec.MaxHP {
		if err := actor.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Sheet{Spec: spec, Actor: actor}, nil
}

// NewSheet builds the combat sheet of the character in gs.
func NewSheet(gs *state.GameState) (*Sheet, error) {
	return NewSheetFromSpec(SpecFromGameState(gs))
}

// MarshalJSON writes the spec with the actor's current values.
func (s *Sheet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	if s.Actor == nil {
		return json.Marshal(s.Spec)
	}

	out := *s.Spec
	out.HP = s.Actor.HP()
	out.MaxHP = s.Actor.MaxHP()
	out.AC = s.Actor.AC()

	out.CombatModifiers = make(map[string]int)
	for _, mod := range s.Actor.GetCombatModifiers() {
		out.CombatModifiers[mod.Reason] = mod.Value
	}

	out.Attributes = make(map[string]int, len(s.Spec.Attributes))
	for key := range s.Spec.Attributes {
		if val, ok := s.Actor.Attribute(key); ok {
			out.Attributes[key] = val
		}
	}
	return json.Marshal(out)
}
