package state

import (
	"fmt"
	"math"

	"github.com/jwebster45206/realm-engine/pkg/realm"
	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/tags"
)

// BaseNextLevelExp is the experience needed to leave level 0.
const BaseNextLevelExp = 100

const maxLevelExp = math.MaxInt64 / 2

// ExpForLevel returns the experience needed to advance from level to level+1:
// floor(BaseNextLevelExp * 1.5^level).
func ExpForLevel(level int) int {
	if level <= 0 {
		return BaseNextLevelExp
	}
	v := math.Floor(BaseNextLevelExp * math.Pow(1.5, float64(level)))
	if v >= maxLevelExp || math.IsInf(v, 0) {
		return maxLevelExp
	}
	return int(v)
}

// Normalize runs the end-of-turn pipeline on gs in place: level-up, timed quest expiry,
// level-down, then pool clamping.
func Normalize(gs *GameState) {
	levelUp(gs)
	expireQuests(gs)
	settleDown(gs)
}

// Settle is Normalize without the quest countdown. Player actions use it so that they
// do not spend quest turns.
func Settle(gs *GameState) {
	levelUp(gs)
	settleDown(gs)
}

func settleDown(gs *GameState) {
	levelDown(gs)
	clampPools(gs)
}

func levelUp(gs *GameState) {
	s := &gs.Character.Stats
	for s.NextLevelExp > 0 && s.Exp >= s.NextLevelExp {
		s.Exp -= s.NextLevelExp
		s.Level++
		s.NextLevelExp = ExpForLevel(s.Level)
		gs.Character.Realm = realm.Name(s.Level, gs.World.RealmSystem)

		totals := gs.Totals()
		for _, p := range stats.Pools {
			maxV, _ := totals.Get(p.MaxKey())
			s.Set(p.CurrentKey(), maxV)
		}
	}
}

func expireQuests(gs *GameState) {
	for i := range gs.Quests {
		q := &gs.Quests[i]
		if q.Status != QuestAccepted || q.Type != QuestTimedSide || q.TurnsToComplete <= 0 {
			continue
		}
		q.TurnsToComplete--
		if q.TurnsToComplete > 0 {
			continue
		}
		q.Status = QuestFailed
		penalties := q.Penalties
		if penalties == nil {
			penalties = tags.ParsePenalties(q.Penalty)
		}
		for _, p := range penalties {
			applyPenalty(gs, q.Title, p)
		}
		gs.SystemLog(fmt.Sprintf("Nhiệm vụ %q đã thất bại.", q.Title))
	}
}

func applyPenalty(gs *GameState, title string, p tags.Penalty) {
	c := &gs.Character
	switch p.Kind {
	case tags.PenaltyEffect:
		if p.Stat == "" {
			return
		}
		c.ActiveEffects = append(c.ActiveEffects, ActiveEffect{
			Name:        "Hình Phạt: " + p.Label,
			Source:      "Nhiệm vụ: " + title,
			Description: fmt.Sprintf("Do thất bại nhiệm vụ %q", title),
			Duration:    p.Duration,
			Stats:       stats.Mods{p.Stat: p.Value},
		})
	case tags.PenaltyExp:
		c.Stats.Exp += p.Value
	case tags.PenaltyCurrency:
		if len(c.Currencies) == 0 {
			return
		}
		first := &c.Currencies[0]
		first.Amount = max(0, first.Amount+p.Value)
	}
}

func levelDown(gs *GameState) {
	s := &gs.Character.Stats
	for s.Exp < 0 && s.Level > 0 {
		prev := ExpForLevel(s.Level - 1)
		s.Exp += prev
		s.Level--
		s.NextLevelExp = prev
	}
	if s.Level <= 0 {
		s.Level = 0
		s.Exp = max(s.Exp, 0)
		s.NextLevelExp = BaseNextLevelExp
	}
	if s.NextLevelExp <= 0 {
		s.NextLevelExp = ExpForLevel(s.Level)
	}
	gs.Character.Realm = realm.Name(s.Level, gs.World.RealmSystem)
}

// clampPools keeps every pool within [0, max(1, total max)] and re-derives the realm name.
func clampPools(gs *GameState) {
	s := &gs.Character.Stats
	totals := gs.Totals()
	for _, p := range stats.Pools {
		maxV, _ := totals.Get(p.MaxKey())
		maxV = max(maxV, 1)
		cur, _ := s.Get(p.CurrentKey())
		s.Set(p.CurrentKey(), min(max(cur, 0), maxV))
	}
	gs.Character.Realm = realm.Name(s.Level, gs.World.RealmSystem)
}
