package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input    string
		expected Key
		ok       bool
	}{
		{"hp", HP, true},
		{"MAXHP", MaxHP, true},
		{" Atk ", Attack, true},
		{"nextlevelexp", NextLevelExp, true},
		{"charisma", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStats_GetSetAdd(t *testing.T) {
	var s Stats
	require.True(t, s.Set(Attack, 7))
	require.True(t, s.Add(Attack, 3))
	v, ok := s.Get(Attack)
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 10, s.Attack)

	assert.False(t, s.Set("luck", 1))
	_, ok = s.Get("luck")
	assert.False(t, ok)

	s.Apply(Mods{Defense: 4, MaxHP: 20})
	assert.Equal(t, 4, s.Defense)
	assert.Equal(t, 20, s.MaxHP)
}

func TestPool_Keys(t *testing.T) {
	assert.Equal(t, MaxHP, PoolHP.MaxKey())
	assert.Equal(t, MaxMP, PoolMP.MaxKey())
	assert.Equal(t, MaxStamina, PoolStamina.MaxKey())
	assert.Equal(t, Stamina, PoolStamina.CurrentKey())
}

func TestParseMods(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Mods
	}{
		{name: "empty", input: "", expected: Mods{}},
		{name: "compact", input: "atk:5, def:-2", expected: Mods{Attack: 5, Defense: -2}},
		{name: "case insensitive keys", input: "MaxHp:30", expected: Mods{MaxHP: 30}},
		{name: "unknown and malformed skipped", input: "luck:3,atk,spd:fast,mp:4", expected: Mods{MP: 4}},
		{name: "json object", input: `{"atk": 5, "magicPower": 2}`, expected: Mods{Attack: 5, MagicPower: 2}},
		{name: "broken json", input: `{"atk": `, expected: Mods{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMods(tt.input))
		})
	}
}

func TestMods_UnmarshalJSON(t *testing.T) {
	var m Mods
	require.NoError(t, json.Unmarshal([]byte(`{"atk":3,"luck":9,"def":"2","spd":null}`), &m))
	assert.Equal(t, Mods{Attack: 3, Defense: 2}, m)
}

func TestLookupLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected Key
		ok       bool
	}{
		{"Sức Mạnh", Attack, true},
		{"sức mạnh", Attack, true},
		{"Tinh Lực Tối đa", MaxHP, true},
		{"Tinh Lực", HP, true},
		{"Thần Thức giới hạn", MaxMP, true},
		{"Thể lực giới hạn", MaxStamina, true},
		{"Pháp Lực", MagicPower, true},
		{"Vận May", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LookupLabel(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatMods(t *testing.T) {
	assert.Equal(t, "Phòng Ngự: -2, Sức Mạnh: +5", FormatMods(Mods{Attack: 5, Defense: -2, Speed: 0}))
	assert.Equal(t, "", FormatMods(nil))
}
