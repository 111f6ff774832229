package tags

import (
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// Kind is the closed set of command names the dispatcher understands.
type Kind string

const (
	KindStatsUpdate        Kind = "STATS_UPDATE"
	KindCurrencyChanged    Kind = "CURRENCY_CHANGED"
	KindItemAcquired       Kind = "ITEM_ACQUIRED"
	KindItemRemoved        Kind = "ITEM_REMOVED"
	KindItemUsed           Kind = "ITEM_USED"
	KindEquipmentChanged   Kind = "EQUIPMENT_CHANGED"
	KindQuestAssigned      Kind = "QUEST_ASSIGNED"
	KindQuestUpdated       Kind = "QUEST_UPDATED"
	KindCompanionAdd       Kind = "COMPANION_ADD"
	KindCompanionRemove    Kind = "COMPANION_REMOVE"
	KindSetLocation        Kind = "SET_LOCATION"
	KindSkillAcquired      Kind = "SKILL_ACQUIRED"
	KindCharacterSetRealm  Kind = "CHARACTER_SET_REALM"
	KindLoreKnowledge      Kind = "LORE_KNOWLEDGE"
	KindLoreLocation       Kind = "LORE_LOCATION"
	KindLoreFaction        Kind = "LORE_FACTION"
	KindLoreNPC            Kind = "LORE_NPC"
	KindReputationChanged  Kind = "REPUTATION_CHANGED"
	KindEffectApplied      Kind = "EFFECT_APPLIED"
	KindSystemLog          Kind = "SYSTEM_LOG"
	KindPersonalityDefined Kind = "PERSONALITY_DEFINED"
	KindNoChanges          Kind = "NO_CHANGES"
)

// Command is a decoded tag. Each kind has its own payload type.
type Command interface {
	Kind() Kind
}

// StatDelta adds Delta to one base stat.
type StatDelta struct {
	Stat  stats.Key
	Delta int
}

type StatsUpdate struct {
	Deltas []StatDelta
	// Unknown holds attribute names that matched no stat or carried no number.
	Unknown []string
}

type CurrencyChanged struct {
	Name string
	// Amount is nil when the tag carried no numeric amount.
	Amount *int
}

type ItemAcquired struct {
	Name          string
	Quantity      int
	Description   string
	ItemType      string
	Type          string
	Rarity        string
	Quality       int
	Stats         stats.Mods
	Effects       []string
	PillType      string
	Position      string
	RequiredLevel *int
	Duration      int
	Uses          int
}

type ItemRemoved struct {
	Name     string
	Quantity int
}

type ItemUsed struct {
	Name string
}

type EquipmentChanged struct {
	Slot string
	// Name is empty for a plain unequip.
	Name string
}

type QuestAssigned struct {
	Title           string
	Description     string
	Reward          string
	Type            string
	TurnsToComplete int
	Penalty         string
	Penalties       []Penalty
}

type QuestUpdated struct {
	Title       string
	Status      string
	Description string
}

type CompanionAdd struct {
	Name        string
	Description string
}

type CompanionRemove struct {
	Name string
}

type SetLocation struct {
	Name string
}

type SkillAcquired struct {
	Name        string
	Description string
	Type        string
	ManaCost    int
	Cooldown    int
	Effect      string
}

type CharacterSetRealm struct {
	Name string
}

type LoreKnowledge struct {
	Title   string
	Content string
}

type LoreLocation struct {
	Name        string
	Description string
	Region      string
	IsSafeZone  *bool
}

type LoreFaction struct {
	Name        string
	Description string
	Alignment   string
}

type LoreNPC struct {
	Name         string
	Description  string
	Relationship string
	Age          int
	Realm        string
	Personality  string
	Gender       string
}

type ReputationChanged struct {
	Name   string
	Change int
}

type EffectApplied struct {
	Name        string
	Source      string
	Description string
	// Duration is negative for a permanent effect.
	Duration int
	Stats    stats.Mods
}

type SystemLog struct {
	Message string
}

type PersonalityDefined struct {
	Personality string
}

type NoChanges struct{}

func (StatsUpdate) Kind() Kind        { return KindStatsUpdate }
func (CurrencyChanged) Kind() Kind    { return KindCurrencyChanged }
func (ItemAcquired) Kind() Kind       { return KindItemAcquired }
func (ItemRemoved) Kind() Kind        { return KindItemRemoved }
func (ItemUsed) Kind() Kind           { return KindItemUsed }
func (EquipmentChanged) Kind() Kind   { return KindEquipmentChanged }
func (QuestAssigned) Kind() Kind      { return KindQuestAssigned }
func (QuestUpdated) Kind() Kind       { return KindQuestUpdated }
func (CompanionAdd) Kind() Kind       { return KindCompanionAdd }
func (CompanionRemove) Kind() Kind    { return KindCompanionRemove }
func (SetLocation) Kind() Kind        { return KindSetLocation }
func (SkillAcquired) Kind() Kind      { return KindSkillAcquired }
func (CharacterSetRealm) Kind() Kind  { return KindCharacterSetRealm }
func (LoreKnowledge) Kind() Kind      { return KindLoreKnowledge }
func (LoreLocation) Kind() Kind       { return KindLoreLocation }
func (LoreFaction) Kind() Kind        { return KindLoreFaction }
func (LoreNPC) Kind() Kind            { return KindLoreNPC }
func (ReputationChanged) Kind() Kind  { return KindReputationChanged }
func (EffectApplied) Kind() Kind      { return KindEffectApplied }
func (SystemLog) Kind() Kind          { return KindSystemLog }
func (PersonalityDefined) Kind() Kind { return KindPersonalityDefined }
func (NoChanges) Kind() Kind          { return KindNoChanges }

// Decode converts a raw tag into its typed command. It reports false for command names
// outside the dispatch table. Missing attributes decode to zero values; whether a command
// is actionable is decided by the code that applies it.
func Decode(t Tag) (Command, bool) {
	switch Kind(t.Name) {
	case KindStatsUpdate:
		return decodeStatsUpdate(t), true
	case KindCurrencyChanged:
		c := CurrencyChanged{Name: t.String("name")}
		if n, ok := t.Int("amount"); ok {
			c.Amount = &n
		}
		return c, true
	case KindItemAcquired:
		return decodeItemAcquired(t), true
	case KindItemRemoved:
		return ItemRemoved{Name: t.String("name"), Quantity: t.IntOr("quantity", 1)}, true
	case KindItemUsed:
		return ItemUsed{Name: t.String("name")}, true
	case KindEquipmentChanged:
		return EquipmentChanged{Slot: t.String("slot"), Name: t.String("name")}, true
	case KindQuestAssigned:
		penalty := t.String("penalty")
		return QuestAssigned{
			Title:           t.String("title"),
			Description:     t.String("description"),
			Reward:          t.String("reward"),
			Type:            t.String("type"),
			TurnsToComplete: t.IntOr("turnsToComplete", 0),
			Penalty:         penalty,
			Penalties:       ParsePenalties(penalty),
		}, true
	case KindQuestUpdated:
		return QuestUpdated{Title: t.String("title"), Status: t.String("status"), Description: t.String("description")}, true
	case KindCompanionAdd:
		return CompanionAdd{Name: t.String("name"), Description: t.String("description")}, true
	case KindCompanionRemove:
		return CompanionRemove{Name: t.String("name")}, true
	case KindSetLocation:
		return SetLocation{Name: t.String("name")}, true
	case KindSkillAcquired:
		return SkillAcquired{
			Name:        t.String("name"),
			Description: t.String("description"),
			Type:        t.String("type"),
			ManaCost:    t.IntOr("manaCost", 0),
			Cooldown:    t.IntOr("cooldown", 0),
			Effect:      t.String("effect"),
		}, true
	case KindCharacterSetRealm:
		return CharacterSetRealm{Name: t.String("name")}, true
	case KindLoreKnowledge:
		return LoreKnowledge{Title: t.String("title"), Content: t.String("content")}, true
	case KindLoreLocation:
		l := LoreLocation{Name: t.String("name"), Description: t.String("description"), Region: t.String("region")}
		if b, ok := t.Bool("isSafeZone"); ok {
			l.IsSafeZone = &b
		}
		return l, true
	case KindLoreFaction:
		return LoreFaction{Name: t.String("name"), Description: t.String("description"), Alignment: t.String("alignment")}, true
	case KindLoreNPC:
		return LoreNPC{
			Name:         t.String("name"),
			Description:  t.String("description"),
			Relationship: t.String("relationship"),
			Age:          t.IntOr("age", 0),
			Realm:        t.String("realm"),
			Personality:  t.String("personality"),
			Gender:       t.String("gender"),
		}, true
	case KindReputationChanged:
		return ReputationChanged{Name: t.String("name"), Change: t.IntOr("change", 0)}, true
	case KindEffectApplied:
		return EffectApplied{
			Name:        t.String("name"),
			Source:      t.String("source"),
			Description: t.String("description"),
			Duration:    t.IntOr("duration", -1),
			Stats:       stats.ParseMods(t.String("stats")),
		}, true
	case KindSystemLog:
		return SystemLog{Message: t.String("message")}, true
	case KindPersonalityDefined:
		return PersonalityDefined{Personality: strings.TrimSpace(strings.ReplaceAll(t.Body, `"`, ""))}, true
	case KindNoChanges:
		return NoChanges{}, true
	}
	return nil, false
}

func decodeStatsUpdate(t Tag) StatsUpdate {
	var u StatsUpdate
	done := map[string]bool{}
	for _, a := range t.Attrs {
		if done[a.Key] {
			continue
		}
		done[a.Key] = true
		v, _ := t.Lookup(a.Key)
		key, ok := stats.Lookup(a.Key)
		n, isNum := v.Int()
		if !ok || !isNum {
			u.Unknown = append(u.Unknown, a.Key)
			continue
		}
		u.Deltas = append(u.Deltas, StatDelta{Stat: key, Delta: n})
	}
	return u
}

func decodeItemAcquired(t Tag) ItemAcquired {
	item := ItemAcquired{
		Name:        t.String("name"),
		Quantity:    t.IntOr("quantity", 1),
		Description: t.String("description"),
		ItemType:    t.String("itemType"),
		Type:        t.String("type"),
		Rarity:      t.String("rarity"),
		Quality:     t.IntOr("quality", 0),
		Stats:       stats.ParseMods(t.String("stats")),
		Effects:     ParseEffects(t.String("effects")),
		PillType:    t.String("pillType"),
		Position:    t.String("position"),
		Duration:    t.IntOr("duration", 0),
		Uses:        t.IntOr("uses", 0),
	}
	if n, ok := t.Int("requiredLevel"); ok {
		item.RequiredLevel = &n
	}
	return item
}

// ParseEffects splits a ';'-separated effect list, dropping blanks.
func ParseEffects(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseCommands parses and decodes every recognised tag in text, in order.
// Unknown commands are dropped.
func ParseCommands(text string) []Command {
	var cmds []Command
	for _, t := range Parse(text) {
		if c, ok := Decode(t); ok {
			cmds = append(cmds, c)
		}
	}
	return cmds
}
