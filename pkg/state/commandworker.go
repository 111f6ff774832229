package state

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/jwebster45206/realm-engine/pkg/realm"
	"github.com/jwebster45206/realm-engine/pkg/tags"
)

const (
	defaultItemDescription = "AI quyết định"
	defaultItemType        = "other"
	defaultSkillType       = "Bị động"
)

// CommandWorker applies decoded tag commands to a game state in order.
// The game state is mutated in place; callers hand it a private clone.
type CommandWorker struct {
	gs     *GameState
	cmds   []tags.Command
	logger *slog.Logger
}

// NewCommandWorker creates a worker for applying cmds to gs.
func NewCommandWorker(gs *GameState, cmds []tags.Command, logger *slog.Logger) *CommandWorker {
	return &CommandWorker{
		gs:     gs,
		cmds:   cmds,
		logger: logger,
	}
}

// Apply runs every command and returns the ones that changed nothing.
// A NO_CHANGES command anywhere in the batch suppresses the whole batch.
func (cw *CommandWorker) Apply() []*Ignored {
	if slices.ContainsFunc(cw.cmds, func(c tags.Command) bool { return c.Kind() == tags.KindNoChanges }) {
		if cw.logger != nil {
			cw.logger.Debug("NO_CHANGES present, skipping tag commands", "count", len(cw.cmds))
		}
		return nil
	}

	var ignored []*Ignored
	for _, cmd := range cw.cmds {
		ig := cw.apply(cmd)
		if ig == nil {
			continue
		}
		ignored = append(ignored, ig)
		if cw.logger != nil {
			cw.logger.Debug("Tag command ignored",
				"command", ig.Command,
				"reason", ig.Reason,
				"game_id", cw.gs.ID.String())
		}
	}
	return ignored
}

func (cw *CommandWorker) apply(cmd tags.Command) *Ignored {
	switch c := cmd.(type) {
	case tags.StatsUpdate:
		return cw.handleStatsUpdate(c)
	case tags.CurrencyChanged:
		return cw.handleCurrencyChanged(c)
	case tags.ItemAcquired:
		return cw.handleItemAcquired(c)
	case tags.ItemRemoved:
		return cw.handleItemRemoved(c)
	case tags.ItemUsed:
		return cw.handleItemUsed(c)
	case tags.EquipmentChanged:
		return cw.handleEquipmentChanged(c)
	case tags.QuestAssigned:
		return cw.handleQuestAssigned(c)
	case tags.QuestUpdated:
		return cw.handleQuestUpdated(c)
	case tags.CompanionAdd:
		return cw.handleCompanionAdd(c)
	case tags.CompanionRemove:
		return cw.handleCompanionRemove(c)
	case tags.SetLocation:
		if c.Name == "" {
			return ignore(c.Kind(), "missing name")
		}
		cw.gs.Location = c.Name
		return nil
	case tags.SkillAcquired:
		return cw.handleSkillAcquired(c)
	case tags.CharacterSetRealm:
		return cw.handleSetRealm(c)
	case tags.LoreKnowledge:
		return cw.handleLoreKnowledge(c)
	case tags.LoreLocation:
		return cw.handleLoreLocation(c)
	case tags.LoreFaction:
		return cw.handleLoreFaction(c)
	case tags.LoreNPC:
		return cw.handleLoreNPC(c)
	case tags.ReputationChanged:
		return cw.handleReputationChanged(c)
	case tags.EffectApplied:
		return cw.handleEffectApplied(c)
	case tags.SystemLog:
		if c.Message == "" {
			return ignore(c.Kind(), "missing message")
		}
		cw.gs.SystemLog(c.Message)
		return nil
	case tags.PersonalityDefined:
		if c.Personality == "" {
			return ignore(c.Kind(), "empty personality")
		}
		cw.gs.Character.Personality = c.Personality
		return nil
	case tags.NoChanges:
		return nil
	}
	return ignore(cmd.Kind(), "no handler")
}

// handleStatsUpdate adds each delta to the matching base stat
func (cw *CommandWorker) handleStatsUpdate(c tags.StatsUpdate) *Ignored {
	if len(c.Unknown) > 0 && cw.logger != nil {
		cw.logger.Debug("STATS_UPDATE skipped fields", "fields", c.Unknown)
	}
	if len(c.Deltas) == 0 {
		return ignore(c.Kind(), "no recognised stat fields")
	}
	for _, d := range c.Deltas {
		cw.gs.Character.Stats.Add(d.Stat, d.Delta)
	}
	return nil
}

// handleCurrencyChanged adjusts a balance, flooring at zero. Unknown currencies are only
// created by positive amounts.
func (cw *CommandWorker) handleCurrencyChanged(c tags.CurrencyChanged) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if c.Amount == nil {
		return ignore(c.Kind(), "missing numeric amount")
	}
	w := &cw.gs.Character.Currencies
	if cur, ok := w.Get(c.Name); ok {
		w.Set(c.Name, max(0, cur+*c.Amount))
		return nil
	}
	if *c.Amount <= 0 {
		return ignore(c.Kind(), "cannot open %q with amount %d", c.Name, *c.Amount)
	}
	w.Set(c.Name, *c.Amount)
	return nil
}

// handleItemAcquired stacks onto an existing non-equipment item of the same name, or
// adds a new item record. Equipment never stacks.
func (cw *CommandWorker) handleItemAcquired(c tags.ItemAcquired) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if c.Quantity <= 0 {
		return ignore(c.Kind(), "non-positive quantity %d", c.Quantity)
	}

	kind := itemKind(c.ItemType)
	gs := cw.gs
	stacked := false
	if kind != ItemEquipment {
		idx := gs.findItem(func(it Item) bool { return it.Name == c.Name && !it.IsEquipment() })
		if idx >= 0 {
			gs.Inventory[idx].Quantity += c.Quantity
			gs.KnowledgeBase.Remember(gs.Inventory[idx])
			stacked = true
		}
	}
	if !stacked {
		item := newItem(gs.NewID(), c, kind)
		gs.Inventory = append(gs.Inventory, item)
		gs.KnowledgeBase.Remember(item)
	}

	gs.SystemLog(fmt.Sprintf("Bạn đã nhận được vật phẩm: %s (x%d)", DisplayName(c.Name, c.Quality, kind), c.Quantity))
	return nil
}

func itemKind(s string) ItemKind {
	switch k := ItemKind(s); k {
	case ItemOrdinary, ItemEquipment, ItemQuest, ItemTechnique:
		return k
	}
	return ItemOrdinary
}

func newItem(id int64, c tags.ItemAcquired, kind ItemKind) Item {
	item := Item{
		ID:            id,
		Name:          c.Name,
		Quantity:      c.Quantity,
		Description:   c.Description,
		ItemType:      kind,
		Rarity:        Rarity(c.Rarity),
		Quality:       min(max(c.Quality, 1), len(QualityLabels)),
		Type:          c.Type,
		RequiredLevel: cloneIntPtr(c.RequiredLevel),
		Uses:          c.Uses,
		Duration:      c.Duration,
		PillType:      c.PillType,
	}
	if item.Description == "" {
		item.Description = defaultItemDescription
	}
	if item.Rarity == "" {
		item.Rarity = RarityCommon
	}
	if item.Type == "" {
		item.Type = defaultItemType
	}

	if kind == ItemEquipment {
		item.EquipmentDetails = &EquipmentDetails{
			Position: equipmentPosition(c.Position, item.Type),
			Stats:    c.Stats.Clone(),
			Effects:  slices.Clone(c.Effects),
		}
		return item
	}

	if len(c.Stats) > 0 {
		item.Stats = c.Stats.Clone()
	}
	item.Effects = slices.Clone(c.Effects)
	item.IsConsumable = !slices.Contains(nonConsumableTypes, item.Type)
	return item
}

// equipmentPosition picks the slot named by the tag, then the slot implied by the type,
// then the weapon slot.
func equipmentPosition(position, itemType string) Slot {
	if slices.Contains(DefaultSlots, Slot(position)) {
		return Slot(position)
	}
	if s, ok := TypeSlots[itemType]; ok {
		return s
	}
	return SlotWeapon
}

func (cw *CommandWorker) handleItemRemoved(c tags.ItemRemoved) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if c.Quantity <= 0 {
		return ignore(c.Kind(), "non-positive quantity %d", c.Quantity)
	}
	idx := cw.gs.ItemByName(c.Name)
	if idx < 0 {
		return ignore(c.Kind(), "%q not in inventory", c.Name)
	}
	cw.gs.removeItemQuantity(idx, c.Quantity)
	return nil
}

func (cw *CommandWorker) handleItemUsed(c tags.ItemUsed) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	idx := cw.gs.ItemByName(c.Name)
	if idx < 0 {
		return ignore(c.Kind(), "%q not in inventory", c.Name)
	}
	cw.gs.consume(idx)
	cw.gs.removeItemQuantity(idx, 1)
	return nil
}

// handleEquipmentChanged returns the slot's occupant to the inventory, then equips the
// named equipment item from the inventory, if any.
func (cw *CommandWorker) handleEquipmentChanged(c tags.EquipmentChanged) *Ignored {
	if c.Slot == "" {
		return ignore(c.Kind(), "missing slot")
	}
	slot := cw.gs.Slot(Slot(c.Slot))
	if slot == nil {
		return ignore(c.Kind(), "unknown slot %q", c.Slot)
	}

	changed := false
	if slot.Item != nil {
		cw.gs.unequip(slot)
		changed = true
	}
	if c.Name != "" {
		idx := cw.gs.findItem(func(it Item) bool { return it.Name == c.Name && it.IsEquipment() })
		if idx >= 0 {
			cw.gs.equip(idx, slot)
			return nil
		}
		if !changed {
			return ignore(c.Kind(), "equipment %q not in inventory", c.Name)
		}
		if cw.logger != nil {
			cw.logger.Debug("EQUIPMENT_CHANGED item missing, slot left empty", "slot", c.Slot, "item", c.Name)
		}
	}
	if !changed {
		return ignore(c.Kind(), "slot %q already empty", c.Slot)
	}
	return nil
}

func (cw *CommandWorker) handleQuestAssigned(c tags.QuestAssigned) *Ignored {
	if c.Title == "" {
		return ignore(c.Kind(), "missing title")
	}
	if cw.gs.questByTitle(c.Title) != nil {
		return ignore(c.Kind(), "quest %q already exists", c.Title)
	}
	qt := QuestType(c.Type)
	if !qt.Valid() {
		qt = QuestSideNoTime
	}
	q := Quest{
		ID:          cw.gs.NewID(),
		Title:       c.Title,
		Description: c.Description,
		Reward:      c.Reward,
		Status:      QuestNotAccepted,
		Type:        qt,
	}
	if qt == QuestTimedSide {
		q.TurnsToComplete = max(c.TurnsToComplete, 0)
		q.Penalty = c.Penalty
		q.Penalties = slices.Clone(c.Penalties)
	}
	cw.gs.Quests = append(cw.gs.Quests, q)
	return nil
}

func (cw *CommandWorker) handleQuestUpdated(c tags.QuestUpdated) *Ignored {
	if c.Title == "" {
		return ignore(c.Kind(), "missing title")
	}
	q := cw.gs.questByTitle(c.Title)
	if q == nil {
		return ignore(c.Kind(), "unknown quest %q", c.Title)
	}
	changed := false
	if status := QuestStatus(c.Status); status.Valid() {
		q.Status = status
		changed = true
	}
	if c.Description != "" {
		q.Description = c.Description
		changed = true
	}
	if !changed {
		return ignore(c.Kind(), "no valid status or description")
	}
	return nil
}

func (cw *CommandWorker) handleCompanionAdd(c tags.CompanionAdd) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if slices.ContainsFunc(cw.gs.Companions, func(cp Companion) bool { return cp.Name == c.Name }) {
		return ignore(c.Kind(), "companion %q already present", c.Name)
	}
	cw.gs.Companions = append(cw.gs.Companions, Companion{ID: cw.gs.NewID(), Name: c.Name, Description: c.Description})
	return nil
}

func (cw *CommandWorker) handleCompanionRemove(c tags.CompanionRemove) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	before := len(cw.gs.Companions)
	cw.gs.Companions = slices.DeleteFunc(cw.gs.Companions, func(cp Companion) bool { return cp.Name == c.Name })
	if len(cw.gs.Companions) == before {
		return ignore(c.Kind(), "no companion %q", c.Name)
	}
	return nil
}

func (cw *CommandWorker) handleSkillAcquired(c tags.SkillAcquired) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	skills := &cw.gs.Character.Skills
	if slices.ContainsFunc(*skills, func(s Skill) bool { return s.Name == c.Name }) {
		return ignore(c.Kind(), "skill %q already known", c.Name)
	}
	s := Skill{
		ID:          strconv.FormatInt(cw.gs.NewID(), 10),
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		ManaCost:    c.ManaCost,
		Cooldown:    c.Cooldown,
		Effect:      c.Effect,
	}
	if s.Type == "" {
		s.Type = defaultSkillType
	}
	if s.Effect == "" {
		s.Effect = s.Description
	}
	*skills = append(*skills, s)
	cw.gs.SystemLog("Bạn đã học được kỹ năng: " + c.Name)
	return nil
}

func (cw *CommandWorker) handleSetRealm(c tags.CharacterSetRealm) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	tiers := cw.gs.World.RealmSystem
	level, ok := realm.LevelFor(c.Name, tiers)
	if !ok {
		return ignore(c.Kind(), "unknown realm %q", c.Name)
	}
	cw.gs.Character.Stats.Level = level
	cw.gs.Character.Realm = realm.Name(level, tiers)
	return nil
}

func (cw *CommandWorker) handleLoreKnowledge(c tags.LoreKnowledge) *Ignored {
	if c.Title == "" || c.Content == "" {
		return ignore(c.Kind(), "missing title or content")
	}
	if slices.ContainsFunc(cw.gs.Lore, func(l Lore) bool { return l.Title == c.Title }) {
		return ignore(c.Kind(), "lore %q already recorded", c.Title)
	}
	cw.gs.Lore = append(cw.gs.Lore, Lore{ID: cw.gs.NewID(), Title: c.Title, Content: c.Content})
	cw.gs.SystemLog("Bạn đã có dữ liệu về tri thức: " + c.Title)
	return nil
}

// handleLoreLocation updates a known location in place or records a new one. Either way
// the location ends up discovered.
func (cw *CommandWorker) handleLoreLocation(c tags.LoreLocation) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if l := cw.gs.locationByName(c.Name); l != nil {
		l.IsDiscovered = true
		if c.Description != "" {
			l.Description = c.Description
		}
		if c.Region != "" {
			l.Region = c.Region
		}
		if c.IsSafeZone != nil {
			l.IsSafeZone = *c.IsSafeZone
		}
		return nil
	}
	l := Location{
		ID:           cw.gs.NewID(),
		Name:         c.Name,
		Description:  c.Description,
		Region:       c.Region,
		IsDiscovered: true,
	}
	if c.IsSafeZone != nil {
		l.IsSafeZone = *c.IsSafeZone
	}
	cw.gs.Locations = append(cw.gs.Locations, l)
	cw.gs.SystemLog("Bạn đã khám phá ra địa điểm mới: " + c.Name)
	return nil
}

func (cw *CommandWorker) handleLoreFaction(c tags.LoreFaction) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if f := cw.gs.factionByName(c.Name); f != nil {
		f.IsDiscovered = true
		if c.Description != "" {
			f.Description = c.Description
		}
		if c.Alignment != "" {
			f.Alignment = c.Alignment
		}
		return nil
	}
	cw.gs.Factions = append(cw.gs.Factions, Faction{
		ID:           cw.gs.NewID(),
		Name:         c.Name,
		Description:  c.Description,
		Alignment:    c.Alignment,
		IsDiscovered: true,
	})
	cw.gs.SystemLog("Bạn đã có dữ liệu về phe phái: " + c.Name)
	return nil
}

func (cw *CommandWorker) handleLoreNPC(c tags.LoreNPC) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if n := cw.gs.npcByName(c.Name); n != nil {
		n.IsDiscovered = true
		setIfNotEmpty(&n.Description, c.Description)
		setIfNotEmpty(&n.Relationship, c.Relationship)
		setIfNotEmpty(&n.Realm, c.Realm)
		setIfNotEmpty(&n.Personality, c.Personality)
		setIfNotEmpty(&n.Gender, c.Gender)
		if c.Age > 0 {
			n.Age = c.Age
		}
		return nil
	}
	cw.gs.NPCs = append(cw.gs.NPCs, NPC{
		ID:           cw.gs.NewID(),
		Name:         c.Name,
		Description:  c.Description,
		Relationship: c.Relationship,
		Age:          max(c.Age, 0),
		Realm:        c.Realm,
		Gender:       c.Gender,
		Personality:  c.Personality,
		IsDiscovered: true,
	})
	cw.gs.SystemLog("Bạn đã có dữ liệu về nhân vật: " + c.Name)
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (cw *CommandWorker) handleReputationChanged(c tags.ReputationChanged) *Ignored {
	if c.Name == "" {
		return ignore(c.Kind(), "missing name")
	}
	if c.Change == 0 {
		return ignore(c.Kind(), "zero change")
	}
	f := cw.gs.factionByName(c.Name)
	if f == nil {
		return ignore(c.Kind(), "unknown faction %q", c.Name)
	}
	f.Reputation += c.Change
	return nil
}

// handleEffectApplied adds an effect, or refreshes the effect with the same name and source.
func (cw *CommandWorker) handleEffectApplied(c tags.EffectApplied) *Ignored {
	if c.Name == "" || c.Source == "" {
		return ignore(c.Kind(), "missing name or source")
	}
	e := ActiveEffect{
		Name:        c.Name,
		Source:      c.Source,
		Description: c.Description,
		Duration:    c.Duration,
		Stats:       c.Stats.Clone(),
	}
	if e.Duration < 0 {
		e.Duration = PermanentDuration
	}
	effects := cw.gs.Character.ActiveEffects
	for i := range effects {
		if effects[i].Source == e.Source && effects[i].Name == e.Name {
			effects[i] = e
			return nil
		}
	}
	cw.gs.Character.ActiveEffects = append(effects, e)
	return nil
}

// Reduce applies a single command to a copy of gs. When the command changes nothing it
// returns gs itself along with the *Ignored describing why.
func Reduce(gs *GameState, cmd tags.Command) (*GameState, error) {
	next := gs.Clone()
	if ig := NewCommandWorker(next, nil, nil).apply(cmd); ig != nil {
		return gs, ig
	}
	return next, nil
}

// ApplyCommands applies cmds to a copy of gs and normalizes the result.
func ApplyCommands(gs *GameState, cmds []tags.Command, logger *slog.Logger) (*GameState, []*Ignored) {
	next := gs.Clone()
	ignored := NewCommandWorker(next, cmds, logger).Apply()
	Normalize(next)
	return next, ignored
}

// ApplyTags parses tagText and applies its commands to a copy of gs, then normalizes.
// Text without tags, or with NO_CHANGES, only normalizes.
func ApplyTags(gs *GameState, tagText string, logger *slog.Logger) (*GameState, []*Ignored) {
	return ApplyCommands(gs, tags.ParseCommands(tagText), logger)
}
