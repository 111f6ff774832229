package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

var labels = map[Key]string{
	HP:            "Tinh Lực",
	MaxHP:         "Tinh Lực Tối đa",
	MP:            "Thần Thức",
	MaxMP:         "Thần Thức Tối đa",
	Stamina:       "Thể Lực",
	MaxStamina:    "Thể Lực Tối đa",
	Exp:           "Kinh Nghiệm",
	KillingIntent: "Sát Ý",
	Constitution:  "Căn Cốt",
	Speed:         "Thân Pháp",
	BurstPower:    "Lực Bộc Phát",
	Defense:       "Phòng Ngự",
	Attack:        "Sức Mạnh",
	MagicPower:    "Pháp Lực",
	BonusExp:      "Bonus EXP",
}

// Penalty texts name pool maxima with these alternate labels.
var maxAliases = map[string]Key{
	"tinh lực giới hạn":  MaxHP,
	"thần thức giới hạn": MaxMP,
	"thể lực giới hạn":   MaxStamina,
}

type labelEntry struct {
	text string
	key  Key
}

// labelIndex is ordered longest label first so "Tinh Lực Tối đa" wins over "Tinh Lực".
var labelIndex = buildLabelIndex()

func buildLabelIndex() []labelEntry {
	var idx []labelEntry
	for k, l := range labels {
		idx = append(idx, labelEntry{text: strings.ToLower(l), key: k})
	}
	for l, k := range maxAliases {
		idx = append(idx, labelEntry{text: l, key: k})
	}
	slices.SortFunc(idx, func(a, b labelEntry) int {
		if c := cmp.Compare(len(b.text), len(a.text)); c != 0 {
			return c
		}
		return cmp.Compare(a.text, b.text)
	})
	return idx
}

// Label returns the display label of k, or the key itself when it has none.
func Label(k Key) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// LookupLabel finds the stat whose label appears in text, preferring the longest match.
func LookupLabel(text string) (Key, bool) {
	lower := strings.ToLower(text)
	for _, e := range labelIndex {
		if strings.Contains(lower, e.text) {
			return e.key, true
		}
	}
	return "", false
}

// FormatMods renders non-zero modifiers as "Sức Mạnh: +5, Phòng Ngự: -2" in key order.
func FormatMods(m Mods) string {
	var parts []string
	for _, k := range Keys {
		v, ok := m[k]
		if !ok || v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %+d", Label(k), v))
	}
	return strings.Join(parts, ", ")
}
