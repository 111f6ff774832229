// Package realm maps absolute character levels to cultivation realm names and back.
//
// A realm system is an ordered list of major realm names. When the first entry is a
// mortal realm (its name contains "phàm"), it represents level 0. The first cultivation
// realm spans levels 1..13 and is displayed as "<Realm> Tầng <level>". Every following
// realm is split into four minor stages, one level each, displayed as "<Realm> <Minor>".
// Levels past the last configured stage saturate at the last stage with a summit suffix.
package realm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FirstRealmLevels is the number of levels spanned by the first cultivation realm.
const FirstRealmLevels = 13

const (
	// MortalName is returned when no realm system is configured.
	MortalName = "Phàm Nhân"
	// UnknownName is returned when the system only holds a mortal realm.
	UnknownName = "Cảnh giới không xác định"
	// StageWord labels the numbered levels of the first cultivation realm.
	StageWord = "Tầng"
	// SummitSuffix marks levels beyond the end of the configured system.
	SummitSuffix = "(Đỉnh Phong)"

	mortalMarker = "phàm"
)

// MinorStages are the four subdivisions of every realm after the first.
var MinorStages = [4]string{"Sơ Kỳ", "Trung Kỳ", "Hậu Kỳ", "Đại Viên Mãn"}

var stagePattern = regexp.MustCompile(`(?i)` + StageWord + `\s+(\d+)`)

// hasMortal reports whether the system opens with a mortal realm.
func hasMortal(tiers []string) bool {
	return strings.Contains(strings.ToLower(tiers[0]), mortalMarker)
}

func firstCultivationIndex(tiers []string) int {
	if hasMortal(tiers) {
		return 1
	}
	return 0
}

// Name returns the display name of the realm for the given level.
func Name(level int, tiers []string) string {
	if len(tiers) == 0 {
		return MortalName
	}
	if level < 0 {
		level = 0
	}

	first := firstCultivationIndex(tiers)
	if level == 0 && first == 1 {
		return tiers[0]
	}
	if level < 1 {
		level = 1
	}

	if level <= FirstRealmLevels {
		if first >= len(tiers) {
			return UnknownName
		}
		return fmt.Sprintf("%s %s %d", tiers[first], StageWord, level)
	}

	offset := level - (FirstRealmLevels + 1)
	major := offset/len(MinorStages) + first + 1
	if major < len(tiers) {
		return tiers[major] + " " + MinorStages[offset%len(MinorStages)]
	}

	return summitName(tiers)
}

func summitName(tiers []string) string {
	return fmt.Sprintf("%s %s %s", tiers[len(tiers)-1], MinorStages[len(MinorStages)-1], SummitSuffix)
}

// MaxLevel returns the last level that has its own name before the summit.
func MaxLevel(tiers []string) int {
	if len(tiers) == 0 {
		return 0
	}
	first := firstCultivationIndex(tiers)
	if first >= len(tiers) {
		return 0
	}
	return FirstRealmLevels + (len(tiers)-first-1)*len(MinorStages)
}

// LevelFor resolves a realm display name back to an absolute level. It accepts
// "<Realm> Tầng <n>", "<Realm> <Minor>", a bare major realm name (its first stage)
// and the summit name (the first saturated level). Matching is case-insensitive.
func LevelFor(name string, tiers []string) (int, bool) {
	if len(tiers) == 0 {
		return 0, false
	}
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return 0, false
	}

	first := firstCultivationIndex(tiers)
	if first == 1 && trimmed == strings.ToLower(tiers[0]) {
		return 0, true
	}

	if trimmed == strings.ToLower(summitName(tiers)) {
		return MaxLevel(tiers) + 1, true
	}

	if first < len(tiers) {
		firstName := strings.ToLower(tiers[first])
		if strings.HasPrefix(trimmed, firstName) {
			if m := stagePattern.FindStringSubmatch(trimmed); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= FirstRealmLevels {
					return n, true
				}
			}
			return 1, true
		}
	}

	for i := first + 1; i < len(tiers); i++ {
		major := strings.ToLower(tiers[i])
		base := FirstRealmLevels + 1 + (i-first-1)*len(MinorStages)
		for j, minor := range MinorStages {
			if trimmed == major+" "+strings.ToLower(minor) {
				return base + j, true
			}
		}
		if trimmed == major {
			return base, true
		}
	}

	return 0, false
}

// Option is one entry of a realm ladder.
type Option struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// Options lists every named level from 0 up to and including the first summit level,
// capped at maxLevel. A non-positive maxLevel means no cap.
func Options(tiers []string, maxLevel int) []Option {
	if len(tiers) == 0 {
		return []Option{{Level: 0, Name: MortalName}}
	}
	if maxLevel <= 0 {
		maxLevel = math.MaxInt32
	}

	var opts []Option
	for level := 0; level <= maxLevel; level++ {
		name := Name(level, tiers)
		opts = append(opts, Option{Level: level, Name: name})
		if strings.HasSuffix(name, SummitSuffix) {
			break
		}
	}
	return opts
}
