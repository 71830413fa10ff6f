// Package engine is the world reducer. Apply takes one immutable snapshot
// and one action and returns the next snapshot; it never mutates its input
// and never fails. Orders that cannot run return the input pointer itself,
// so callers detect "nothing happened" with a pointer comparison.
package engine

import (
	"io"
	"log/slog"

	"github.com/nathoo/brigands/config"
	"github.com/nathoo/brigands/engine/rules"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// MaxAutoSteps bounds how many rule lookups and behavior switches one
// AutoAction may make before giving up for the turn.
const MaxAutoSteps = 16

// Engine holds the immutable tuning and the rule evaluator. It carries no
// world state; every snapshot is passed in and returned.
type Engine struct {
	Tuning config.Tuning
	Logger *slog.Logger
	Rules  *rules.Evaluator
}

// New creates an engine. A nil logger discards output.
func New(t config.Tuning, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		Tuning: t,
		Logger: logger,
		Rules:  rules.NewEvaluator(t, logger),
	}
}

// Apply reduces one action against s. Unknown action types and invalid
// orders return s unchanged (the same pointer).
func (e *Engine) Apply(s *types.State, a types.Action) *types.State {
	next := e.apply(s, a)
	if next == s {
		e.Logger.Debug("action rejected", "type", a.Type, "agent", a.Agent.ID, "turn", s.Turn)
	} else {
		e.Logger.Debug("action applied", "type", a.Type, "agent", a.Agent.ID, "turn", s.Turn)
	}
	return next
}

func (e *Engine) apply(s *types.State, a types.Action) *types.State {
	if rules.ConsumesAP(a.Type) {
		return e.order(s, a)
	}

	switch a.Type {
	case types.ActionEndTurn:
		return e.endTurn(s)
	case types.ActionSetActiveEvent:
		return e.setActiveEvent(s, a)
	case types.ActionTrainEvent:
		return e.trainEvent(s, a)
	case types.ActionFinishTrainEvent:
		return e.finishTrainEvent(s, a)
	case types.ActionSetUnitBehavior:
		return e.setUnitBehavior(s, a)
	case types.ActionAutoAction:
		return e.autoAction(s, a)
	case types.ActionSetSelected:
		return setSelected(s, a.ID)
	case types.ActionRestart:
		return e.restart(s, a)
	default:
		return s
	}
}

// order runs an AP-consuming verb: check its precondition, apply its
// effect, then the shared post-action bookkeeping.
func (e *Engine) order(s *types.State, a types.Action) *types.State {
	if !e.Rules.Valid(s, a) {
		return s
	}
	agent, _ := rules.ResolveAgent(s, a.Agent)

	var next *types.State
	switch a.Type {
	case types.ActionAttack:
		next = e.attack(s, agent, a)
	case types.ActionMove:
		next = e.move(s, agent, a)
	case types.ActionBuildFarm:
		next = build(s, agent, types.KindFarm)
	case types.ActionBuildWarehouse:
		next = build(s, agent, types.KindWarehouse)
	case types.ActionPlantCrop:
		next = build(s, agent, types.KindPlanted)
	case types.ActionHarvestCrop:
		next = harvest(s, agent)
	case types.ActionLoadResource:
		next = load(s, agent)
	case types.ActionUnloadResource:
		next = unload(s, agent)
	case types.ActionSleep:
		next = sleep(s, agent, a)
	default:
		return s
	}
	return postAction(next, agent.ID, a)
}

// postAction spends the agent's AP, records a into an open training
// session, otherwise advances the agent's rule sequence, and remembers a as
// the agent's last action.
func postAction(s *types.State, agentID int, a types.Action) *types.State {
	agent, ok := state.ItemByID(s, agentID)
	if !ok {
		return s
	}
	agent.AP = 0

	switch {
	case agent.Training && agent.BehaviorTraining != nil:
		if a.Type != types.ActionSleep {
			tr := *agent.BehaviorTraining
			recorded := make([]types.Action, 0, len(tr.Actions)+1)
			recorded = append(recorded, tr.Actions...)
			recorded = append(recorded, a)
			tr.Actions = recorded
			agent.BehaviorTraining = &tr
		}
	default:
		agent.ConditionalActions = advanceRules(agent.ConditionalActions, a.Type)
	}

	last := a
	agent.LastAction = &last
	return state.ReplaceItem(s, agent)
}

// advanceRules drops the rules that precede the first rule of the executed
// type, so a unit works through its rule list instead of restarting at the
// top each turn.
func advanceRules(rs []types.Action, executed types.ActionType) []types.Action {
	for i, r := range rs {
		if r.Type != executed {
			continue
		}
		if i == 0 {
			return rs
		}
		return rs[i:]
	}
	return rs
}

func setSelected(s *types.State, id int) *types.State {
	if id == s.SelectedID {
		return s
	}
	if _, ok := state.ItemByID(s, id); !ok {
		return s
	}
	next := state.Clone(s)
	next.SelectedID = id
	return next
}

// restart generates a fresh world and carries the learned behavior table
// forward. Seed 0 means "the next seed after the current one". Ids keep
// counting from the old world, so rules trained on a fixed id can never
// reach an unrelated item.
func (e *Engine) restart(s *types.State, a types.Action) *types.State {
	seed := a.Seed
	if seed == 0 {
		seed = s.Seed + 1
	}
	e.Logger.Info("world restarted", "seed", seed)
	return e.generate(seed, s.Behaviors, highestID(s))
}

// highestID is the largest id s has handed out to an item or event.
func highestID(s *types.State) int {
	top := s.NextID
	for _, it := range s.Items {
		top = max(top, it.ID)
	}
	for _, ev := range s.Events {
		top = max(top, ev.ID)
	}
	for _, it := range s.Items {
		for _, ev := range it.Events {
			top = max(top, ev.ID)
		}
	}
	return top
}
