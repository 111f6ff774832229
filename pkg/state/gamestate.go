package state

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/tags"
)

// ItemKind is the coarse classification of an item.
type ItemKind string

const (
	ItemOrdinary  ItemKind = "Vật phẩm thường"
	ItemEquipment ItemKind = "Trang bị"
	ItemQuest     ItemKind = "Nhiệm vụ"
	ItemTechnique ItemKind = "Công pháp"
)

// Rarity is one of six rarity grades.
type Rarity string

const (
	RarityCommon    Rarity = "thường"
	RarityRare      Rarity = "hiếm"
	RarityPrecious  Rarity = "quý"
	RarityEpic      Rarity = "sử thi"
	RarityLegendary Rarity = "huyền thoại"
	RarityMythic    Rarity = "thần thoại"
)

// QualityLabels are the item quality grade prefixes, indexed 1-5.
var QualityLabels = map[int]string{
	1: "Nhân Phẩm",
	2: "Địa Phẩm",
	3: "Thiên Phẩm",
	4: "Huyền Phẩm",
	5: "Hoàng Phẩm",
}

// Slot identifies an equipment slot.
type Slot string

const (
	SlotWeapon     Slot = "Vũ khí"
	SlotTalisman   Slot = "Pháp Bảo"
	SlotCloak      Slot = "Áo choàng"
	SlotArmor      Slot = "Giáp"
	SlotHelmet     Slot = "Mũ"
	SlotGloves     Slot = "Găng tay"
	SlotBoots      Slot = "Giày"
	SlotAccessory  Slot = "Phụ kiện"
	SlotTechnique1 Slot = "gongfa1"
	SlotTechnique2 Slot = "gongfa2"
	SlotTechnique3 Slot = "gongfa3"
)

// DefaultSlots is the slot layout of a new game, in display order.
var DefaultSlots = []Slot{
	SlotWeapon, SlotTalisman, SlotCloak, SlotArmor, SlotHelmet, SlotGloves, SlotBoots, SlotAccessory,
	SlotTechnique1, SlotTechnique2, SlotTechnique3,
}

// TypeSlots maps a fine-grained equipment type to the slot it occupies.
var TypeSlots = map[string]Slot{
	"weapon":    SlotWeapon,
	"magic":     SlotTalisman,
	"cloak":     SlotCloak,
	"armor":     SlotArmor,
	"helmet":    SlotHelmet,
	"gloves":    SlotGloves,
	"boots":     SlotBoots,
	"accessory": SlotAccessory,
}

// Item types that are never consumed on use.
var nonConsumableTypes = []string{"material", "ore", "herb", "book"}

// QuestStatus is the four-state quest lifecycle.
type QuestStatus string

const (
	QuestNotAccepted QuestStatus = "Chưa nhận"
	QuestAccepted    QuestStatus = "Đã nhận"
	QuestCompleted   QuestStatus = "Hoàn thành"
	QuestFailed      QuestStatus = "Không hoàn thành"
)

// Valid reports whether s is one of the four statuses.
func (s QuestStatus) Valid() bool {
	switch s {
	case QuestNotAccepted, QuestAccepted, QuestCompleted, QuestFailed:
		return true
	}
	return false
}

// QuestType distinguishes story quests from timed and untimed side quests.
type QuestType string

const (
	QuestStory      QuestType = "Cốt truyện"
	QuestTimedSide  QuestType = "Phụ (có hẹn giờ)"
	QuestSideNoTime QuestType = "Phụ (vô hạn)"
)

// Valid reports whether t is a known quest type.
func (t QuestType) Valid() bool {
	switch t {
	case QuestStory, QuestTimedSide, QuestSideNoTime:
		return true
	}
	return false
}

// EntryKind tags the author of a story log entry.
type EntryKind string

const (
	EntryPlayer       EntryKind = "player"
	EntryAI           EntryKind = "ai"
	EntrySystem       EntryKind = "system"
	EntryCustomAction EntryKind = "user_custom_action"
)

// PermanentDuration marks an active effect that never expires. Any negative duration is permanent.
const PermanentDuration = -1

// ActiveEffect is a timed or permanent stat modifier. Source identifies what created it.
type ActiveEffect struct {
	Name        string     `json:"name"`
	Source      string     `json:"source"`
	Description string     `json:"description"`
	Duration    int        `json:"duration"`
	Stats       stats.Mods `json:"stats"`
}

// IsPermanent reports whether the effect never expires.
func (e ActiveEffect) IsPermanent() bool {
	return e.Duration < 0
}

type Skill struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	ManaCost        int    `json:"manaCost"`
	Cooldown        int    `json:"cooldown"`
	Effect          string `json:"effect"`
	CurrentCooldown int    `json:"currentCooldown"`
}

// EquipmentDetails holds the slot and modifiers of an equipment item.
type EquipmentDetails struct {
	Position Slot       `json:"position"`
	Stats    stats.Mods `json:"stats"`
	Effects  []string   `json:"effects"`
}

type Item struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Quantity    int      `json:"quantity"`
	Description string   `json:"description"`
	ItemType    ItemKind `json:"itemType"`

	Rarity        Rarity `json:"rarity,omitempty"`
	Quality       int    `json:"quality,omitempty"`
	Type          string `json:"type,omitempty"`
	RequiredLevel *int   `json:"requiredLevel,omitempty"`

	// Consumables
	IsConsumable bool       `json:"isConsumable,omitempty"`
	Uses         int        `json:"uses,omitempty"`
	Duration     int        `json:"duration,omitempty"`
	Stats        stats.Mods `json:"stats,omitempty"`
	PillType     string     `json:"pillType,omitempty"`
	Effects      []string   `json:"effects,omitempty"`

	EquipmentDetails *EquipmentDetails `json:"equipmentDetails,omitempty"`
}

// IsEquipment reports whether the item is classified as equipment.
func (it Item) IsEquipment() bool {
	return it.ItemType == ItemEquipment
}

// EquipmentSlot is one slot of the equipment layout. Item is nil when the slot is empty.
type EquipmentSlot struct {
	Slot Slot  `json:"slot"`
	Item *Item `json:"item"`
}

type Quest struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Status          QuestStatus `json:"status"`
	Type            QuestType   `json:"type"`
	TurnsToComplete int         `json:"turnsToComplete,omitempty"`
	Reward          string      `json:"reward,omitempty"`
	Penalty         string      `json:"penalty,omitempty"`
	// Penalties is Penalty parsed when the quest was assigned.
	Penalties []tags.Penalty `json:"penalties,omitempty"`
}

type NPC struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Age          int    `json:"age,omitempty"`
	Realm        string `json:"realm,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Personality  string `json:"personality,omitempty"`
	Details      string `json:"details,omitempty"`
	IsDiscovered bool   `json:"isDiscovered"`
}

type Location struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Region       string `json:"region,omitempty"`
	IsSafeZone   bool   `json:"isSafeZone,omitempty"`
	IsDiscovered bool   `json:"isDiscovered"`
}

type Faction struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Alignment    string `json:"alignment,omitempty"`
	Reputation   int    `json:"reputation"`
	IsDiscovered bool   `json:"isDiscovered"`
}

type Lore struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Companion struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StoryEntry struct {
	ID   int64     `json:"id"`
	Type EntryKind `json:"type"`
	Text string    `json:"text"`
	// Tags is the raw tag text of an AI entry.
	Tags string `json:"tags,omitempty"`
}

type StorySummaryEntry struct {
	ID      int64  `json:"id"`
	Turn    int    `json:"turn"`
	Summary string `json:"summary"`
}

type RecipeIngredient struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Recipe struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	ResultItem  Item               `json:"resultItem"`
}

// KnowledgeBase catalogs every distinct item seen, by base name, with quantity 1.
type KnowledgeBase struct {
	Items   []Item   `json:"items"`
	Recipes []Recipe `json:"recipes"`
}

type Character struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Background  string `json:"background"`
	Goal        string `json:"goal"`
	Personality string `json:"personality,omitempty"`

	Stats    stats.Stats `json:"stats"`
	Age      int         `json:"age"`
	Lifespan int         `json:"lifespan"`
	// Realm is derived from Stats.Level and the world's realm system.
	Realm string `json:"realm"`

	Currencies    Wallet         `json:"currencies"`
	ActiveEffects []ActiveEffect `json:"activeEffects"`
	Skills        []Skill        `json:"skills"`
}

// World is the static setting chosen at game creation.
type World struct {
	Setting     string   `json:"setting"`
	Style       string   `json:"style"`
	RealmSystem []string `json:"realmSystem"`
	Currencies  []string `json:"currencies"`
	NSFW        bool     `json:"nsfw"`
	AuthorStyle string   `json:"authorStyle,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// GameState is the whole persisted document of one game.
type GameState struct {
	ID uuid.UUID `json:"id"`

	Character  Character       `json:"character"`
	World      World           `json:"world"`
	Inventory  []Item          `json:"inventory"`
	Equipment  []EquipmentSlot `json:"equipment"`
	Quests     []Quest         `json:"quests"`
	NPCs       []NPC           `json:"npcs"`
	Companions []Companion     `json:"companions"`
	Location   string          `json:"location"`

	StoryLog       []StoryEntry `json:"storyLog"`
	CurrentChoices []string     `json:"currentChoices"`
	Turn           int          `json:"turn"`

	Locations     []Location    `json:"locations"`
	Factions      []Faction     `json:"factions"`
	Lore          []Lore        `json:"lore"`
	KnowledgeBase KnowledgeBase `json:"knowledgeBase"`

	HeavenlyRules  []string            `json:"heavenlyRules"`
	CoreMemory     []string            `json:"coreMemory"`
	StorySummaries []StorySummaryEntry `json:"storySummaries"`

	// NextID is the next local id handed out to a new record.
	NextID int64 `json:"nextId"`
}

// NewID returns the next local record id.
func (gs *GameState) NewID() int64 {
	if gs.NextID <= 0 {
		gs.NextID = 1
	}
	id := gs.NextID
	gs.NextID++
	return id
}

// Log appends a story entry and returns it.
func (gs *GameState) Log(kind EntryKind, text string) StoryEntry {
	e := StoryEntry{ID: gs.NewID(), Type: kind, Text: text}
	gs.StoryLog = append(gs.StoryLog, e)
	return e
}

// SystemLog appends a system entry prefixed with the system marker.
func (gs *GameState) SystemLog(text string) {
	gs.Log(EntrySystem, SystemPrefix+text)
}

// SystemPrefix marks engine-generated story entries.
const SystemPrefix = "[Hệ thống] "

// Slot returns the equipment slot with the given id.
func (gs *GameState) Slot(id Slot) *EquipmentSlot {
	for i := range gs.Equipment {
		if gs.Equipment[i].Slot == id {
			return &gs.Equipment[i]
		}
	}
	return nil
}

func (gs *GameState) findItem(match func(Item) bool) int {
	for i, it := range gs.Inventory {
		if match(it) {
			return i
		}
	}
	return -1
}

// ItemByID returns the inventory index of the item with id, or -1.
func (gs *GameState) ItemByID(id int64) int {
	return gs.findItem(func(it Item) bool { return it.ID == id })
}

// ItemByName returns the inventory index of the first item named name, or -1.
func (gs *GameState) ItemByName(name string) int {
	return gs.findItem(func(it Item) bool { return it.Name == name })
}

// removeItemQuantity takes n off the item at idx, dropping the record at zero.
func (gs *GameState) removeItemQuantity(idx, n int) {
	gs.Inventory[idx].Quantity -= n
	if gs.Inventory[idx].Quantity <= 0 {
		gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
	}
}

func (gs *GameState) questByTitle(title string) *Quest {
	for i := range gs.Quests {
		if gs.Quests[i].Title == title {
			return &gs.Quests[i]
		}
	}
	return nil
}

func (gs *GameState) npcByName(name string) *NPC {
	for i := range gs.NPCs {
		if gs.NPCs[i].Name == name {
			return &gs.NPCs[i]
		}
	}
	return nil
}

func (gs *GameState) locationByName(name string) *Location {
	for i := range gs.Locations {
		if gs.Locations[i].Name == name {
			return &gs.Locations[i]
		}
	}
	return nil
}

func (gs *GameState) factionByName(name string) *Faction {
	for i := range gs.Factions {
		if gs.Factions[i].Name == name {
			return &gs.Factions[i]
		}
	}
	return nil
}
