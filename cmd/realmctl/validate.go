package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/realm-engine/pkg/state"
)

var requiredKeys = []string{"character", "world", "turn", "storyLog"}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <gamestate.json>...",
		Short: "Check game state files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, filename := range args {
				validator := &GameStateValidator{}
				if err := validator.validateFile(filename); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Validation failed: %v\n", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", filename)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}

// GameStateValidator collects every problem in a game state file instead of stopping
// at the first.
type GameStateValidator struct {
	errors []string
}

func (v *GameStateValidator) validateFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := v.validate(data); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func (v *GameStateValidator) validate(data []byte) error {
	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("top level must be an object: %w", err)
	}
	for _, k := range requiredKeys {
		if _, ok := keys[k]; !ok {
			v.addError(fmt.Sprintf("missing required field '%s'", k))
		}
	}

	var gs state.GameState
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&gs); err != nil {
		return fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}

	v.validateGameState(&gs)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *GameStateValidator) validateGameState(gs *state.GameState) {
	if strings.TrimSpace(gs.Character.Name) == "" {
		v.addError("character name is empty")
	}
	if len(gs.World.RealmSystem) == 0 {
		v.addError("world has no realm system")
	}
	if gs.Turn < 0 {
		v.addError(fmt.Sprintf("turn %d is negative", gs.Turn))
	}

	s := gs.Character.Stats
	for _, p := range []struct {
		name     string
		cur, max int
	}{
		{"hp", s.HP, s.MaxHP},
		{"mp", s.MP, s.MaxMP},
		{"stamina", s.Stamina, s.MaxStamina},
	} {
		if p.cur < 0 {
			v.addError(fmt.Sprintf("%s %d is negative", p.name, p.cur))
		}
		if p.max > 0 && p.cur > p.max {
			v.addError(fmt.Sprintf("%s %d exceeds max %d", p.name, p.cur, p.max))
		}
	}

	seen := map[int64]string{}
	checkID := func(kind string, id int64) {
		if id <= 0 {
			v.addError(fmt.Sprintf("%s has no id", kind))
			return
		}
		if prev, ok := seen[id]; ok {
			v.addError(fmt.Sprintf("%s id %d is already used by a %s", kind, id, prev))
		}
		seen[id] = kind
		if gs.NextID > 0 && id >= gs.NextID {
			v.addError(fmt.Sprintf("%s id %d is not below nextId %d", kind, id, gs.NextID))
		}
	}

	for _, it := range gs.Inventory {
		checkID("item", it.ID)
		if it.Quantity <= 0 {
			v.addError(fmt.Sprintf("item '%s' has quantity %d", it.Name, it.Quantity))
		}
	}
	for _, slot := range gs.Equipment {
		if !slices.Contains(state.DefaultSlots, slot.Slot) {
			v.addError(fmt.Sprintf("unknown equipment slot '%s'", slot.Slot))
		}
		if slot.Item != nil {
			checkID("equipped item", slot.Item.ID)
		}
	}
	for _, q := range gs.Quests {
		checkID("quest", q.ID)
		if !q.Status.Valid() {
			v.addError(fmt.Sprintf("quest '%s' has unknown status '%s'", q.Title, q.Status))
		}
		if q.Type != "" && !q.Type.Valid() {
			v.addError(fmt.Sprintf("quest '%s' has unknown type '%s'", q.Title, q.Type))
		}
	}
	for _, n := range gs.NPCs {
		checkID("npc", n.ID)
	}
	for _, l := range gs.Locations {
		checkID("location", l.ID)
	}
	for _, e := range gs.StoryLog {
		checkID("story entry", e.ID)
	}
}

func (v *GameStateValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
