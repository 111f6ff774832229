package state

import "slices"

// TickEffects counts down every timed effect by one turn and drops the ones that run
// out, returning them. Permanent effects are untouched.
func TickEffects(gs *GameState) []ActiveEffect {
	var expired []ActiveEffect
	effects := gs.Character.ActiveEffects
	for i := range effects {
		if effects[i].IsPermanent() {
			continue
		}
		effects[i].Duration--
		if effects[i].Duration <= 0 {
			expired = append(expired, effects[i])
		}
	}
	gs.Character.ActiveEffects = slices.DeleteFunc(effects, func(e ActiveEffect) bool {
		return !e.IsPermanent() && e.Duration <= 0
	})
	return expired
}
