package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/realm-engine/pkg/realm"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

func TestExpForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{level: -1, expected: 100},
		{level: 0, expected: 100},
		{level: 1, expected: 150},
		{level: 2, expected: 225},
		{level: 3, expected: 337},
		{level: 10, expected: 5766},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpForLevel(tt.level), "level %d", tt.level)
	}
	assert.Equal(t, math.MaxInt64/2, ExpForLevel(500), "huge levels saturate")
}

func timedQuest(gs *GameState, turns int, penalty string) *GameState {
	gs.Quests = append(gs.Quests, Quest{
		ID:              gs.NewID(),
		Title:           "Diệt Yêu Lang",
		Status:          QuestAccepted,
		Type:            QuestTimedSide,
		TurnsToComplete: turns,
		Penalty:         penalty,
	})
	return gs
}

func TestNormalize_TimedQuestFailure(t *testing.T) {
	gs := timedQuest(newTestState(), 1, "Sức Mạnh -10 (Trong vòng 3 lượt)")
	Normalize(gs)

	q := gs.Quests[0]
	assert.Equal(t, QuestFailed, q.Status)
	assert.Zero(t, q.TurnsToComplete)
	require.Len(t, gs.Character.ActiveEffects, 1)
	e := gs.Character.ActiveEffects[0]
	assert.Equal(t, -10, e.Stats.Get(stats.Attack))
	assert.Equal(t, 3, e.Duration)
	assert.Equal(t, "Hình Phạt: Sức Mạnh", e.Name)
	assert.Equal(t, "Nhiệm vụ: Diệt Yêu Lang", e.Source)
	assert.Contains(t, systemEntries(gs), `[Hệ thống] Nhiệm vụ "Diệt Yêu Lang" đã thất bại.`)

	Normalize(gs)
	assert.Len(t, gs.Character.ActiveEffects, 1, "a failed quest is not punished twice")
}

func TestNormalize_QuestCountdown(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Quest)
		turns  int
		status QuestStatus
	}{
		{name: "counts down", turns: 2, status: QuestAccepted},
		{name: "not accepted", mutate: func(q *Quest) { q.Status = QuestNotAccepted }, turns: 3, status: QuestNotAccepted},
		{name: "untimed", mutate: func(q *Quest) { q.Type = QuestSideNoTime }, turns: 3, status: QuestAccepted},
		{name: "completed", mutate: func(q *Quest) { q.Status = QuestCompleted }, turns: 3, status: QuestCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := timedQuest(newTestState(), 3, "EXP -10")
			if tt.mutate != nil {
				tt.mutate(&gs.Quests[0])
			}
			Normalize(gs)
			assert.Equal(t, tt.turns, gs.Quests[0].TurnsToComplete)
			assert.Equal(t, tt.status, gs.Quests[0].Status)
		})
	}
}

func TestNormalize_PenaltyKinds(t *testing.T) {
	gs := timedQuest(newTestState(), 1, "tiền tệ -30, EXP -20, Tinh Lực Tối đa -5 (Trong vòng 2 lượt), nói lời xin lỗi")
	gs.Character.Currencies.Set("Linh Thạch", 100)
	gs.Character.Stats.Exp = 50

	Normalize(gs)

	amount, _ := gs.Character.Currencies.Get("Linh Thạch")
	assert.Equal(t, 70, amount)
	assert.Equal(t, 30, gs.Character.Stats.Exp)
	require.Len(t, gs.Character.ActiveEffects, 1)
	assert.Equal(t, -5, gs.Character.ActiveEffects[0].Stats.Get(stats.MaxHP))
	assert.Equal(t, 95, gs.Character.Stats.HP, "hp clamps to the lowered maximum")
}

func TestNormalize_LevelDown(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		exp       int
		next      int
		wantLevel int
		wantExp   int
		wantNext  int
		wantRealm string
	}{
		{name: "one level down", level: 2, exp: -90, wantLevel: 1, wantExp: 60, wantNext: 150, wantRealm: "Luyện Khí Tầng 1"},
		{name: "two levels down", level: 2, exp: -200, wantLevel: 0, wantExp: 50, wantNext: 100, wantRealm: "Phàm Nhân"},
		{name: "floor at level zero", level: 0, exp: -50, wantLevel: 0, wantExp: 0, wantNext: 100, wantRealm: "Phàm Nhân"},
		{name: "negative level", level: -4, exp: 10, wantLevel: 0, wantExp: 10, wantNext: 100, wantRealm: "Phàm Nhân"},
		{name: "level zero resets raised threshold", level: 0, exp: 20, next: 500, wantLevel: 0, wantExp: 20, wantNext: 100, wantRealm: "Phàm Nhân"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestState()
			s := &gs.Character.Stats
			s.Level, s.Exp, s.NextLevelExp = tt.level, tt.exp, ExpForLevel(tt.level)
			if tt.next != 0 {
				s.NextLevelExp = tt.next
			}
			Normalize(gs)
			assert.Equal(t, tt.wantLevel, s.Level)
			assert.Equal(t, tt.wantExp, s.Exp)
			assert.Equal(t, tt.wantNext, s.NextLevelExp)
			assert.Equal(t, tt.wantRealm, gs.Character.Realm)
		})
	}
}

func TestApplyTags_LevelZeroThreshold(t *testing.T) {
	gs, ignored := ApplyTags(newTestState(), "[STATS_UPDATE: nextLevelExp=400, exp=20]", nil)
	assert.Empty(t, ignored)
	s := gs.Character.Stats
	assert.Equal(t, 0, s.Level)
	assert.Equal(t, 20, s.Exp)
	assert.Equal(t, BaseNextLevelExp, s.NextLevelExp)
}

func TestNormalize_LevelDownFromHugeLevel(t *testing.T) {
	gs := newTestState()
	s := &gs.Character.Stats
	s.Level, s.Exp, s.NextLevelExp = 1_000_000_000, -1, maxLevelExp
	Normalize(gs)
	assert.Equal(t, 999_999_999, s.Level)
	assert.Equal(t, maxLevelExp-1, s.Exp)
	assert.Equal(t, maxLevelExp, s.NextLevelExp)
	assert.Equal(t, realm.Name(s.Level, gs.World.RealmSystem), gs.Character.Realm)
}

func TestNormalize_MultipleLevelUps(t *testing.T) {
	gs := newTestState()
	gs.Character.Stats.Exp = 100 + 150 + 225 + 337
	Normalize(gs)
	assert.Equal(t, 4, gs.Character.Stats.Level)
	assert.Zero(t, gs.Character.Stats.Exp)
	assert.Equal(t, ExpForLevel(4), gs.Character.Stats.NextLevelExp)
}

func TestSettle_SkipsQuestCountdown(t *testing.T) {
	gs := timedQuest(newTestState(), 1, "EXP -10")
	gs.Character.Stats.HP = -5
	Settle(gs)
	assert.Equal(t, QuestAccepted, gs.Quests[0].Status)
	assert.Equal(t, 1, gs.Quests[0].TurnsToComplete)
	assert.Zero(t, gs.Character.Stats.HP)
}
