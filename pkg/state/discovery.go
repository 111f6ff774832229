package state

import (
	"fmt"

	"github.com/jwebster45206/realm-engine/pkg/textfilter"
)

// Discovery types, as shown to the player.
const (
	DiscoveredNPC      = "nhân vật"
	DiscoveredLocation = "địa điểm"
	DiscoveredFaction  = "phe phái"
)

// Discovery names an entity first mentioned in a piece of narration.
type Discovery struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Message is the system log line announcing the discovery.
func (d Discovery) Message() string {
	return fmt.Sprintf("%sBạn đã có dữ liệu về %s: %s", SystemPrefix, d.Type, d.Name)
}

// DiscoverEntities marks every undiscovered NPC, location and faction whose name occurs
// in text (ignoring case) as discovered. It works on a copy of gs and returns the copy
// along with what was newly discovered, NPCs first, then locations, then factions.
func DiscoverEntities(gs *GameState, text string) (*GameState, []Discovery) {
	next := gs.Clone()
	var found []Discovery
	for i := range next.NPCs {
		n := &next.NPCs[i]
		if !n.IsDiscovered && textfilter.ContainsFold(text, n.Name) {
			n.IsDiscovered = true
			found = append(found, Discovery{Type: DiscoveredNPC, Name: n.Name})
		}
	}
	for i := range next.Locations {
		l := &next.Locations[i]
		if !l.IsDiscovered && textfilter.ContainsFold(text, l.Name) {
			l.IsDiscovered = true
			found = append(found, Discovery{Type: DiscoveredLocation, Name: l.Name})
		}
	}
	for i := range next.Factions {
		f := &next.Factions[i]
		if !f.IsDiscovered && textfilter.ContainsFold(text, f.Name) {
			f.IsDiscovered = true
			found = append(found, Discovery{Type: DiscoveredFaction, Name: f.Name})
		}
	}
	return next, found
}
