package state

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/pkg/realm"
	"github.com/jwebster45206/realm-engine/pkg/stats"
)

// DefaultLocation is where a new game starts until the narration sets a location.
const DefaultLocation = "Nơi chưa xác định"

// NewGameState creates the state of a new game. The character starts with default stats,
// every world currency at zero and no effects or skills. If c.Realm names a realm of the
// world's realm system, the character starts at that realm's level.
func NewGameState(c Character, w World) *GameState {
	c.Stats = stats.Initial()
	if level, ok := realm.LevelFor(c.Realm, w.RealmSystem); c.Realm != "" && ok {
		c.Stats.Level = level
		c.Stats.NextLevelExp = ExpForLevel(level)
	}
	c.Realm = realm.Name(c.Stats.Level, w.RealmSystem)
	c.ActiveEffects = []ActiveEffect{}
	c.Skills = []Skill{}
	c.Currencies = Wallet{}
	for _, name := range w.Currencies {
		c.Currencies.Set(name, 0)
	}

	equipment := make([]EquipmentSlot, len(DefaultSlots))
	for i, s := range DefaultSlots {
		equipment[i] = EquipmentSlot{Slot: s}
	}

	return &GameState{
		ID:             uuid.New(),
		Character:      c,
		World:          w,
		Inventory:      []Item{},
		Equipment:      equipment,
		Quests:         []Quest{},
		NPCs:           []NPC{},
		Companions:     []Companion{},
		Location:       DefaultLocation,
		StoryLog:       []StoryEntry{},
		CurrentChoices: []string{},
		Locations:      []Location{},
		Factions:       []Faction{},
		Lore:           []Lore{},
		KnowledgeBase:  KnowledgeBase{Items: []Item{}, Recipes: []Recipe{}},
		HeavenlyRules:  []string{},
		CoreMemory:     []string{},
		StorySummaries: []StorySummaryEntry{},
		NextID:         1,
	}
}

// AddStartingItem gives a new character an item. Equipment asked to start equipped goes
// straight into its slot when the character's level allows it; everything else goes to
// the inventory.
func (gs *GameState) AddStartingItem(item Item, equipped bool) {
	item.ID = gs.NewID()
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	gs.KnowledgeBase.Remember(item)
	if equipped && item.EquipmentDetails != nil && meetsLevel(item, gs.Character.Stats.Level) {
		if slot := gs.Slot(item.EquipmentDetails.Position); slot != nil && slot.Item == nil {
			it := item.Clone()
			slot.Item = &it
			return
		}
	}
	gs.Inventory = append(gs.Inventory, item)
}

func meetsLevel(item Item, level int) bool {
	return item.RequiredLevel == nil || level >= *item.RequiredLevel
}
