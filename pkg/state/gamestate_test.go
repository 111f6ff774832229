package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/realm-engine/pkg/stats"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(
		Character{Name: "Lâm Phong", Realm: "Luyện Khí Tầng 3"},
		World{RealmSystem: testTiers, Currencies: []string{"Linh Thạch"}},
	)

	assert.Equal(t, 3, gs.Character.Stats.Level)
	assert.Equal(t, "Luyện Khí Tầng 3", gs.Character.Realm)
	assert.Equal(t, ExpForLevel(3), gs.Character.Stats.NextLevelExp)
	assert.Equal(t, 100, gs.Character.Stats.MaxHP)
	assert.Len(t, gs.Equipment, len(DefaultSlots))
	assert.Equal(t, Wallet{{"Linh Thạch", 0}}, gs.Character.Currencies)
	assert.Equal(t, DefaultLocation, gs.Location)
	assert.NotEmpty(t, gs.ID)

	mortal := NewGameState(Character{Realm: "không tồn tại"}, World{RealmSystem: testTiers})
	assert.Equal(t, 0, mortal.Character.Stats.Level)
	assert.Equal(t, "Phàm Nhân", mortal.Character.Realm)
}

func TestAddStartingItem(t *testing.T) {
	gs := newTestState()
	required := 10
	gated := sword("Huyền Thiết Kiếm", 9)
	gated.RequiredLevel = &required

	gs.AddStartingItem(sword("Kiếm Gỗ", 1), true)
	gs.AddStartingItem(gated, true)
	gs.AddStartingItem(Item{Name: "Hồi Xuân Đan", ItemType: ItemOrdinary}, false)

	require.NotNil(t, gs.Slot(SlotWeapon).Item)
	assert.Equal(t, "Kiếm Gỗ", gs.Slot(SlotWeapon).Item.Name)
	require.Len(t, gs.Inventory, 2)
	assert.Equal(t, "Huyền Thiết Kiếm", gs.Inventory[0].Name)
	assert.Equal(t, 1, gs.Inventory[1].Quantity)
	assert.Len(t, gs.KnowledgeBase.Items, 3)
}

func TestGameState_JSONRoundTrip(t *testing.T) {
	gs := newTestState()
	gs, _ = ApplyTags(gs, `[ITEM_ACQUIRED: name="Thanh Phong Kiếm", itemType="Trang bị", type="weapon", stats="atk:5", requiredLevel=2]`+
		`[QUEST_ASSIGNED: title="Diệt Yêu Lang", type="Phụ (có hẹn giờ)", turnsToComplete=3, penalty="Sức Mạnh -10 (Trong vòng 3 lượt)"]`+
		`[EFFECT_APPLIED: name="Thiên Phú", source="Huyết Mạch", stats="def:3"]`+
		`[CURRENCY_CHANGED: name="Vàng", amount=12]`, nil)

	data, err := json.Marshal(gs)
	require.NoError(t, err)

	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, gs, &back)
}

func TestWallet_JSON(t *testing.T) {
	w := Wallet{{"Vàng", 5}, {"Linh Thạch", 12}}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, `{"Vàng":5,"Linh Thạch":12}`, string(data))

	var back Wallet
	require.NoError(t, json.Unmarshal([]byte(`{"Linh Thạch": 3, "Vàng": 1.0}`), &back))
	assert.Equal(t, Wallet{{"Linh Thạch", 3}, {"Vàng", 1}}, back)

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
}

func TestClone_Independent(t *testing.T) {
	gs := withItems(newTestState(), sword("Kiếm A", 3))
	gs.Character.ActiveEffects = []ActiveEffect{{Name: "Thiên Phú", Source: "Huyết Mạch", Duration: -1, Stats: stats.Mods{stats.Defense: 3}}}
	gs.Equipment[0].Item = &Item{ID: 50, Name: "Kiếm B", EquipmentDetails: &EquipmentDetails{Stats: stats.Mods{stats.Attack: 1}}}

	c := gs.Clone()
	c.Inventory[0].EquipmentDetails.Stats[stats.Attack] = 99
	c.Character.ActiveEffects[0].Stats[stats.Defense] = 99
	c.Equipment[0].Item.Name = "đổi"
	c.Character.Currencies.Set("Linh Thạch", 1000)

	assert.Equal(t, 3, gs.Inventory[0].EquipmentDetails.Stats[stats.Attack])
	assert.Equal(t, 3, gs.Character.ActiveEffects[0].Stats[stats.Defense])
	assert.Equal(t, "Kiếm B", gs.Equipment[0].Item.Name)
	amount, _ := gs.Character.Currencies.Get("Linh Thạch")
	assert.Zero(t, amount)
}

func TestTotalsAndBreakdowns(t *testing.T) {
	gs := newTestState()
	gs.Equipment[0].Item = &Item{Name: "Kiếm", EquipmentDetails: &EquipmentDetails{Stats: stats.Mods{stats.Attack: 4, stats.MaxHP: 20, stats.Level: 7}}}
	gs.Character.ActiveEffects = []ActiveEffect{{Name: "Hình Phạt", Duration: 2, Stats: stats.Mods{stats.Attack: -1, stats.HP: 5}}}

	total := gs.Totals()
	assert.Equal(t, 8, total.Attack)
	assert.Equal(t, 120, total.MaxHP)
	assert.Equal(t, 100, total.HP, "current pools are not modified")
	assert.Equal(t, 0, total.Level, "only modifiable fields are modified")

	assert.Equal(t, Breakdown{Key: stats.Attack, Base: 5, Modifier: 3, Total: 8}, StatBreakdown(&gs.Character, gs.Equipment, stats.Attack))
	assert.Equal(t, Breakdown{Key: stats.HP, Base: 100, Modifier: 20, Total: 120}, PoolBreakdown(&gs.Character, gs.Equipment, stats.PoolHP))
}

func TestKnowledgeBase(t *testing.T) {
	var kb KnowledgeBase
	assert.True(t, kb.Remember(Item{Name: "Thiên Phẩm Hồi Xuân Đan", Quantity: 4}))
	assert.False(t, kb.Remember(Item{Name: "hồi xuân đan", Quantity: 1}))
	assert.True(t, kb.Remember(Item{Name: "Bạch Ngọc", Quantity: 1}))

	require.Len(t, kb.Items, 2)
	assert.Equal(t, "Bạch Ngọc", kb.Items[0].Name)
	assert.Equal(t, "Hồi Xuân Đan", kb.Items[1].Name)
	assert.Equal(t, 1, kb.Items[1].Quantity)

	it, ok := kb.Lookup("Địa Phẩm Hồi Xuân Đan")
	assert.True(t, ok)
	assert.Equal(t, "Hồi Xuân Đan", it.Name)

	assert.Equal(t, "Huyền Phẩm Kiếm", DisplayName("Kiếm", 4, ItemEquipment))
	assert.Equal(t, "Lệnh Bài", DisplayName("Lệnh Bài", 4, ItemQuest))
	assert.Equal(t, "Kiếm", DisplayName("Kiếm", 0, ItemEquipment))
}

func TestDiscoverEntities(t *testing.T) {
	gs := newTestState()
	gs.NPCs = []NPC{{ID: 1, Name: "Lão Trương"}, {ID: 2, Name: "Tiểu Mai", IsDiscovered: true}}
	gs.Locations = []Location{{ID: 3, Name: "Vọng Nguyệt Thành"}}
	gs.Factions = []Faction{{ID: 4, Name: "Thanh Vân Môn"}}

	text := "Ngươi gặp LÃO TRƯƠNG và Tiểu Mai trước cổng vọng nguyệt thành."
	next, found := DiscoverEntities(gs, text)

	assert.Equal(t, []Discovery{
		{Type: DiscoveredNPC, Name: "Lão Trương"},
		{Type: DiscoveredLocation, Name: "Vọng Nguyệt Thành"},
	}, found)
	assert.True(t, next.NPCs[0].IsDiscovered)
	assert.False(t, next.Factions[0].IsDiscovered)
	assert.False(t, gs.NPCs[0].IsDiscovered, "input state is untouched")
	assert.Equal(t, "[Hệ thống] Bạn đã có dữ liệu về nhân vật: Lão Trương", found[0].Message())

	again, found := DiscoverEntities(next, text+" Thanh Vân Môn")
	require.Len(t, found, 1)
	assert.Equal(t, DiscoveredFaction, found[0].Type)
	assert.True(t, again.NPCs[0].IsDiscovered)
	assert.True(t, again.Locations[0].IsDiscovered)
}

func TestTryHandleCommand(t *testing.T) {
	gs := withItems(newTestState(), Item{Name: "Hồi Xuân Đan", Quantity: 2, Quality: 1, ItemType: ItemOrdinary})
	gs.Location = "Vọng Nguyệt Thành"
	gs.Locations = []Location{{ID: 9, Name: "Vọng Nguyệt Thành", Description: "Thành trì phồn hoa."}}

	tests := []struct {
		input    string
		handled  bool
		contains string
	}{
		{input: "Túi Đồ", handled: true, contains: "- Nhân Phẩm Hồi Xuân Đan (x2)"},
		{input: " nhìn ", handled: true, contains: "Thành trì phồn hoa."},
		{input: "trạng thái", handled: true, contains: "Tinh Lực: 100/100"},
		{input: "Rút kiếm xông lên", handled: false, contains: "Rút kiếm xông lên"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := gs.TryHandleCommand(tt.input)
			assert.Equal(t, tt.handled, res.Handled)
			assert.Contains(t, res.Message, tt.contains)
		})
	}
}
