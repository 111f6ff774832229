package tags

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// PenaltyKind classifies one clause of a timed quest's penalty text.
type PenaltyKind string

const (
	// PenaltyEffect is a timed stat modifier: "Sức Mạnh -10 (Trong vòng 3 lượt)".
	PenaltyEffect PenaltyKind = "effect"
	// PenaltyExp changes experience directly: "bị giảm tu vi 50" or "EXP -50".
	PenaltyExp PenaltyKind = "exp"
	// PenaltyCurrency changes the first currency: "tiền tệ -100".
	PenaltyCurrency PenaltyKind = "currency"
)

// Penalty is one parsed penalty clause.
type Penalty struct {
	Kind PenaltyKind `json:"kind"`
	// Label is the stat phrase as written, for effect penalties.
	Label    string    `json:"label,omitempty"`
	Stat     stats.Key `json:"stat,omitempty"`
	Value    int       `json:"value"`
	Duration int       `json:"duration,omitempty"`
}

var (
	effectClause   = regexp.MustCompile(`(?i)(.+?)\s+(-?\d+)\s*\(Trong vòng (\d+) lượt\)`)
	expClause      = regexp.MustCompile(`(?i)(?:bị giảm tu vi|EXP)\s*(-?\d+)`)
	currencyClause = regexp.MustCompile(`(?i)tiền tệ\s*(-?\d+)`)
)

// ParsePenalties parses comma-separated penalty text. Each clause is tried against the
// effect, experience and currency forms in that order; a clause that matches the effect
// form but names no known stat is dropped, as is any clause matching nothing.
func ParsePenalties(text string) []Penalty {
	var out []Penalty
	for clause := range strings.SplitSeq(text, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if p, ok := parseClause(clause); ok {
			out = append(out, p)
		}
	}
	return out
}

func parseClause(clause string) (Penalty, bool) {
	if m := effectClause.FindStringSubmatch(clause); m != nil {
		key, ok := stats.LookupLabel(m[1])
		if !ok {
			return Penalty{}, false
		}
		value, err1 := strconv.Atoi(m[2])
		duration, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil {
			return Penalty{}, false
		}
		return Penalty{
			Kind:     PenaltyEffect,
			Label:    strings.TrimSpace(m[1]),
			Stat:     key,
			Value:    value,
			Duration: duration,
		}, true
	}
	if m := expClause.FindStringSubmatch(clause); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return Penalty{Kind: PenaltyExp, Value: v}, true
		}
		return Penalty{}, false
	}
	if m := currencyClause.FindStringSubmatch(clause); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return Penalty{Kind: PenaltyCurrency, Value: v}, true
		}
	}
	return Penalty{}, false
}
