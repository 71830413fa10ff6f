package engine

import (
	"github.com/nathoo/brigands/engine/movement"
	"github.com/nathoo/brigands/engine/rules"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Verb effects. Each runs after rules.Valid accepted the order, so lookups
// the precondition already checked are not re-checked here.

func (e *Engine) attack(s *types.State, agent types.Item, a types.Action) *types.State {
	target, _ := rules.ResolveTarget(s, a.Target, agent)
	target.HP--
	return state.ReplaceItem(s, target)
}

// move steps the agent one cell along the cheapest path to its target and
// wears the cell it lands on. When no path exists the agent takes one
// greedy step along the dominant axis instead.
func (e *Engine) move(s *types.State, agent types.Item, a types.Action) *types.State {
	target, _ := rules.ResolveTarget(s, a.Target, agent)

	nodes := movement.Nodes(s.Items, e.Tuning)
	path := movement.FindPath(agent.X, agent.Y, target.X, target.Y, nodes, e.Tuning.MinCost())
	if len(path) >= 2 {
		agent.X, agent.Y = path[1].X, path[1].Y
	} else {
		dx, dy := movement.Toward(agent.X, agent.Y, target.X, target.Y)
		agent.X += dx
		agent.Y += dy
	}

	next := state.ReplaceItem(s, agent)
	if cell, ok := state.ItemAtCellOfKind(next, agent.X, agent.Y, types.KindGrass); ok {
		next = state.ReplaceItem(next, movement.Wear(cell, s.Turn, e.Tuning.WearThreshold))
	}
	return next
}

// build replaces the grass under the agent with a new item of kind, built
// by the agent on this turn.
func build(s *types.State, agent types.Item, kind types.Kind) *types.State {
	grass, _ := state.ItemAtCellOfKind(s, agent.X, agent.Y, types.KindGrass)
	next := state.RemoveItem(s, grass.ID)
	next, _ = state.AddItem(next, types.Item{
		X:           agent.X,
		Y:           agent.Y,
		Kind:        kind,
		BuilderID:   agent.ID,
		CreatedTurn: s.Turn,
	})
	return next
}

func harvest(s *types.State, agent types.Item) *types.State {
	crop, _ := state.ItemAtCellOfKind(s, agent.X, agent.Y, types.KindCrop)

	agent.Resources = appendResource(agent.Resources, types.ResourceCrop)
	next := state.ReplaceItem(s, agent)
	next = state.RemoveItem(next, crop.ID)
	next, _ = state.AddItem(next, types.Item{X: crop.X, Y: crop.Y, Kind: types.KindGrass})
	return next
}

func load(s *types.State, agent types.Item) *types.State {
	store, _ := rules.StoreAt(s, agent.X, agent.Y)

	r := store.Resources[0]
	store.Resources = store.Resources[1:]
	agent.Resources = appendResource(agent.Resources, r)
	return state.ReplaceItem(state.ReplaceItem(s, store), agent)
}

// unload moves the agent's oldest resource into the building under it.
// Delivering to its own home tells the agent with a local ResourcePickup.
func unload(s *types.State, agent types.Item) *types.State {
	store, _ := rules.StoreAt(s, agent.X, agent.Y)

	r := agent.Resources[0]
	agent.Resources = agent.Resources[1:]
	store.Resources = appendResource(store.Resources, r)
	next := state.ReplaceItem(state.ReplaceItem(s, agent), store)

	if !rules.IsHome(store, agent) {
		return next
	}
	next, id := state.AllocID(next)
	return state.AppendEvents(next, types.Event{
		ID:       id,
		Type:     types.EventResourcePickup,
		Turn:     s.Turn,
		ItemID:   store.ID,
		Local:    true,
		AgentID:  agent.ID,
		Resource: r,
	})
}

// sleep parks the agent for the rest of the turn: its only rule is this
// sleep, which stops holding once the turn moves on.
func sleep(s *types.State, agent types.Item, a types.Action) *types.State {
	self := rules.Rebind(a, agent.ID)
	agent.ActiveEvent = types.Event{Type: types.EventSleeping, Turn: s.Turn}
	agent.ConditionalActions = []types.Action{self}
	return state.ReplaceItem(s, agent)
}

// appendResource returns rs with r at the tail, never writing into the
// backing array of rs.
func appendResource(rs []string, r string) []string {
	out := make([]string, 0, len(rs)+1)
	out = append(out, rs...)
	return append(out, r)
}
