package rules

import (
	"github.com/nathoo/brigands/engine/movement"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Env is the environment When expressions run against, e.g.
// `Carrying("crop") > 0 && HasHome()` or `Agent.HP < 3`.
type Env struct {
	Turn      int
	Agent     types.Item
	Target    types.Item
	HasTarget bool
	Distance  int // agent → target, 0 without a target

	s *types.State
}

// NewEnv builds the expression environment for agent in s.
func NewEnv(s *types.State, agent types.Item, target *types.Ref) Env {
	env := Env{Turn: s.Turn, Agent: agent, s: s}
	if t, ok := ResolveTarget(s, target, agent); ok {
		env.Target = t
		env.HasTarget = true
		env.Distance = movement.ItemDistance(agent, t)
	}
	return env
}

// Carrying counts resources of the given kind carried by the agent.
func (e Env) Carrying(kind string) int {
	n := 0
	for _, r := range e.Agent.Resources {
		if r == kind {
			n++
		}
	}
	return n
}

// HasHome reports whether the agent has built a farm.
func (e Env) HasHome() bool {
	if e.s == nil {
		return false
	}
	return state.HasBuilt(e.s, e.Agent.ID, types.KindFarm)
}

// Count returns the number of items of a kind in the world.
func (e Env) Count(kind string) int {
	if e.s == nil {
		return 0
	}
	n := 0
	for _, it := range e.s.Items {
		if string(it.Kind) == kind {
			n++
		}
	}
	return n
}

// Here reports whether an item of the given kind shares the agent's cell.
func (e Env) Here(kind string) bool {
	if e.s == nil {
		return false
	}
	_, ok := state.ItemAtCellOfKind(e.s, e.Agent.X, e.Agent.Y, types.Kind(kind))
	return ok
}
