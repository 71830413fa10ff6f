package rules

import (
	"github.com/nathoo/brigands/engine/movement"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// ResolveAgent returns the item an agent ref points at in s. Only fixed-id
// and selected refs name agents.
func ResolveAgent(s *types.State, ref types.Ref) (types.Item, bool) {
	switch ref.Kind {
	case types.RefItem:
		return state.ItemByID(s, ref.ID)
	case types.RefSelected:
		return state.SelectedItem(s)
	default:
		return types.Item{}, false
	}
}

// ResolveTarget returns the item a target ref points at in s, as seen from
// agent. Relative refs (nearest enemy, home, nearest kind) are recomputed
// on every call so rules follow a moving world.
func ResolveTarget(s *types.State, ref *types.Ref, agent types.Item) (types.Item, bool) {
	if ref == nil {
		return types.Item{}, false
	}
	switch ref.Kind {
	case types.RefItem:
		return state.ItemByID(s, ref.ID)
	case types.RefSelected:
		return state.SelectedItem(s)
	case types.RefHome:
		return state.BuiltBy(s, agent.ID, types.KindFarm)
	case types.RefNearestEnemy:
		return nearest(s, agent, func(it types.Item) bool {
			return state.IsUnit(it.Kind) && !state.IsDead(it) &&
				it.OwnerID != "" && it.OwnerID != agent.OwnerID
		})
	case types.RefNearestKind:
		return nearest(s, agent, func(it types.Item) bool {
			return it.Kind == ref.ItemKind && it.ID != agent.ID
		})
	default:
		return types.Item{}, false
	}
}

// Rebind returns a copy of a with its agent ref pointing at agentID.
func Rebind(a types.Action, agentID int) types.Action {
	a.Agent = types.Ref{Kind: types.RefItem, ID: agentID}
	return a
}

// nearest returns the matching item closest to agent; ties go to the lowest id.
func nearest(s *types.State, agent types.Item, match func(types.Item) bool) (types.Item, bool) {
	var best types.Item
	found := false
	bestDist := 0
	for _, it := range s.Items {
		if !match(it) {
			continue
		}
		d := movement.ItemDistance(agent, it)
		if !found || d < bestDist || (d == bestDist && it.ID < best.ID) {
			best, bestDist, found = it, d, true
		}
	}
	return best, found
}
