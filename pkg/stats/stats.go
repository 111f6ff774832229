// Package stats defines the character stat record, its field keys, display labels and
// partial modifier maps shared by items, active effects and tag commands.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Key names a single numeric field of Stats. Values match the JSON field names.
type Key string

const (
	HP            Key = "hp"
	MaxHP         Key = "maxHp"
	MP            Key = "mp"
	MaxMP         Key = "maxMp"
	Stamina       Key = "stamina"
	MaxStamina    Key = "maxStamina"
	Exp           Key = "exp"
	BonusExp      Key = "expr"
	Level         Key = "level"
	NextLevelExp  Key = "nextLevelExp"
	KillingIntent Key = "killingIntent"
	Constitution  Key = "constitution"
	Speed         Key = "spd"
	BurstPower    Key = "burstPower"
	Defense       Key = "def"
	Attack        Key = "atk"
	MagicPower    Key = "magicPower"
)

// Keys lists every stat field in display order.
var Keys = []Key{
	HP, MaxHP, MP, MaxMP, Stamina, MaxStamina,
	Exp, BonusExp, Level, NextLevelExp,
	KillingIntent, Constitution, Speed, BurstPower, Defense, Attack, MagicPower,
}

// Modifiable lists the fields that equipment and active effects can change.
// Current pool values and progression fields always pass through from base.
var Modifiable = []Key{
	MaxHP, MaxMP, MaxStamina, Attack, Defense, Speed, BonusExp,
	MagicPower, BurstPower, Constitution, KillingIntent,
}

// IsModifiable reports whether equipment and effects stack onto k.
func IsModifiable(k Key) bool {
	return slices.Contains(Modifiable, k)
}

// Stats is the full stat block of a character.
type Stats struct {
	// Pools
	HP         int `json:"hp"`
	MaxHP      int `json:"maxHp"`
	MP         int `json:"mp"`
	MaxMP      int `json:"maxMp"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"maxStamina"`

	// Progression
	Exp          int `json:"exp"`
	BonusExp     int `json:"expr"`
	Level        int `json:"level"`
	NextLevelExp int `json:"nextLevelExp"`

	// Attributes
	KillingIntent int `json:"killingIntent"`
	Constitution  int `json:"constitution"`
	Speed         int `json:"spd"`
	BurstPower    int `json:"burstPower"`
	Defense       int `json:"def"`
	Attack        int `json:"atk"`
	MagicPower    int `json:"magicPower"`
}

func (s *Stats) field(k Key) *int {
	switch k {
	case HP:
		return &s.HP
	case MaxHP:
		return &s.MaxHP
	case MP:
		return &s.MP
	case MaxMP:
		return &s.MaxMP
	case Stamina:
		return &s.Stamina
	case MaxStamina:
		return &s.MaxStamina
	case Exp:
		return &s.Exp
	case BonusExp:
		return &s.BonusExp
	case Level:
		return &s.Level
	case NextLevelExp:
		return &s.NextLevelExp
	case KillingIntent:
		return &s.KillingIntent
	case Constitution:
		return &s.Constitution
	case Speed:
		return &s.Speed
	case BurstPower:
		return &s.BurstPower
	case Defense:
		return &s.Defense
	case Attack:
		return &s.Attack
	case MagicPower:
		return &s.MagicPower
	}
	return nil
}

// Get returns the value of field k.
func (s *Stats) Get(k Key) (int, bool) {
	if f := s.field(k); f != nil {
		return *f, true
	}
	return 0, false
}

// Set assigns field k. It reports false for unknown keys.
func (s *Stats) Set(k Key, v int) bool {
	f := s.field(k)
	if f == nil {
		return false
	}
	*f = v
	return true
}

// Add adds delta to field k. It reports false for unknown keys.
func (s *Stats) Add(k Key, delta int) bool {
	f := s.field(k)
	if f == nil {
		return false
	}
	*f += delta
	return true
}

// Apply adds every modifier in m to the matching field.
func (s *Stats) Apply(m Mods) {
	for k, v := range m {
		s.Add(k, v)
	}
}

// Lookup resolves a field name case-insensitively.
func Lookup(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	for _, k := range Keys {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return "", false
}

// Pool identifies one of the three resource pools.
type Pool string

const (
	PoolHP      Pool = "hp"
	PoolMP      Pool = "mp"
	PoolStamina Pool = "stamina"
)

// Pools lists the resource pools.
var Pools = []Pool{PoolHP, PoolMP, PoolStamina}

// CurrentKey returns the key of the pool's current value.
func (p Pool) CurrentKey() Key {
	return Key(p)
}

// MaxKey returns the key of the pool's maximum.
func (p Pool) MaxKey() Key {
	switch p {
	case PoolMP:
		return MaxMP
	case PoolStamina:
		return MaxStamina
	default:
		return MaxHP
	}
}

// Mods is a partial stat block: field -> delta.
type Mods map[Key]int

// Clone returns a copy of m.
func (m Mods) Clone() Mods {
	if m == nil {
		return nil
	}
	out := make(Mods, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Get returns the modifier for k, zero when absent.
func (m Mods) Get(k Key) int {
	return m[k]
}

// UnmarshalJSON accepts an object of field -> number, dropping unknown fields and
// non-numeric values rather than failing the whole document.
func (m *Mods) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*m = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	out := make(Mods, len(raw))
	for name, v := range raw {
		k, ok := Lookup(name)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			out[k] = int(n)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				out[k] = int(f)
			}
		}
	}
	*m = out
	return nil
}

// ParseMods parses the compact "key:value,key:value" form emitted in tags. A JSON
// object is accepted as well. Unknown keys and malformed parts are skipped.
func ParseMods(s string) Mods {
	s = strings.TrimSpace(s)
	if s == "" {
		return Mods{}
	}
	if strings.HasPrefix(s, "{") {
		var m Mods
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
		return Mods{}
	}

	out := Mods{}
	for part := range strings.SplitSeq(s, ",") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k, ok := Lookup(name)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		out[k] = int(f)
	}
	return out
}

// Initial returns the stat block of a new character.
func Initial() Stats {
	return Stats{
		HP: 100, MaxHP: 100,
		MP: 50, MaxMP: 50,
		Stamina: 50, MaxStamina: 50,
		NextLevelExp: 100,
		Attack:       5,
		Defense:      5,
		Speed:        5,
		MagicPower:   5,
		BurstPower:   5,
		Constitution: 5,
	}
}
