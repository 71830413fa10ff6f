package engine

import (
	"github.com/nathoo/brigands/engine/actions"
	"github.com/nathoo/brigands/engine/events"
	"github.com/nathoo/brigands/engine/rules"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// liveUnit resolves the agent of a and reports whether it is a unit that
// can still act.
func liveUnit(s *types.State, a types.Action) (types.Item, bool) {
	agent, ok := rules.ResolveAgent(s, a.Agent)
	if !ok || !state.IsUnit(agent.Kind) || state.IsDead(agent) {
		return types.Item{}, false
	}
	return agent, true
}

func (e *Engine) setActiveEvent(s *types.State, a types.Action) *types.State {
	agent, ok := liveUnit(s, a)
	if !ok || a.Event == nil {
		return s
	}
	agent.ActiveEvent = *a.Event
	return state.ReplaceItem(s, agent)
}

// trainEvent opens a recording session. Every order the agent carries out
// until finishTrainEvent is appended to it.
func (e *Engine) trainEvent(s *types.State, a types.Action) *types.State {
	agent, ok := liveUnit(s, a)
	if !ok || a.Event == nil {
		return s
	}
	name := agent.BehaviorName
	if name == "" {
		name = string(agent.Kind)
	}
	agent.BehaviorName = name
	agent.Training = true
	agent.BehaviorTraining = &types.Training{
		BehaviorName: name,
		EventType:    a.Event.Type,
		Event:        *a.Event,
	}
	e.Logger.Info("training started", "agent", agent.ID, "behavior", name, "event", a.Event.Type)
	return state.ReplaceItem(s, agent)
}

// finishTrainEvent writes the recording into the behavior table and makes
// it the agent's current rule list.
func (e *Engine) finishTrainEvent(s *types.State, a types.Action) *types.State {
	agent, ok := rules.ResolveAgent(s, a.Agent)
	if !ok || !agent.Training || agent.BehaviorTraining == nil {
		return s
	}
	tr := agent.BehaviorTraining

	next := state.Clone(s)
	next.Behaviors = withBehavior(s.Behaviors, tr.BehaviorName, types.EventBehavior{
		EventType: tr.EventType,
		Actions:   tr.Actions,
	})

	agent.Training = false
	agent.BehaviorTraining = nil
	agent.ConditionalActions = bind(tr.Actions, agent.ID)
	e.Logger.Info("training finished", "agent", agent.ID, "behavior", tr.BehaviorName,
		"event", tr.EventType, "rules", len(tr.Actions))
	return state.ReplaceItem(next, agent)
}

// withBehavior returns a copy of b with eb stored under name. The maps of b
// are left untouched so older snapshots keep their table.
func withBehavior(b types.Behaviors, name string, eb types.EventBehavior) types.Behaviors {
	out := make(types.Behaviors, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	byEvent := make(map[string]types.EventBehavior, len(b[name])+1)
	for k, v := range b[name] {
		byEvent[k] = v
	}
	byEvent[eb.EventType] = eb
	out[name] = byEvent
	return out
}

// setUnitBehavior picks the agent's next event (head of its queue, or the
// default event) and installs the matching rules. An agent with nothing to
// do by default goes to sleep for the turn.
func (e *Engine) setUnitBehavior(s *types.State, a types.Action) *types.State {
	agent, ok := liveUnit(s, a)
	if !ok {
		return s
	}

	event := types.Event{Type: types.EventDefault, Turn: s.Turn}
	queue := agent.Events
	if len(queue) > 0 {
		event = queue[0]
		queue = queue[1:]
	}
	rs := bind(events.RulesFor(s.Behaviors, agent.BehaviorName, event.Type), agent.ID)

	if event.Type == types.EventDefault {
		if _, ok := e.runFirst(s, rs, agent.ID); !ok {
			return e.apply(s, actions.Sleep(actions.Item(agent.ID), s.Turn))
		}
	}

	agent.ActiveEvent = event
	agent.Events = queue
	agent.ConditionalActions = rs
	return state.ReplaceItem(s, agent)
}

// autoAction runs the agent's first satisfied rule. When none holds it
// switches to the next behavior and tries again, for at most MaxAutoSteps
// rounds. It stops as soon as one action ran or the agent's AP is spent.
func (e *Engine) autoAction(s *types.State, a types.Action) *types.State {
	agent, ok := liveUnit(s, a)
	if !ok {
		return s
	}
	self := actions.Item(agent.ID)

	cur := s
	for step := 0; step < MaxAutoSteps; step++ {
		agent, ok := rules.ResolveAgent(cur, self)
		if !ok || agent.AP <= 0 {
			return cur
		}
		if next, ok := e.runFirst(cur, agent.ConditionalActions, agent.ID); ok {
			return next
		}
		next := e.setUnitBehavior(cur, actions.SetUnitBehavior(self))
		if next == cur {
			return cur
		}
		cur = next
	}
	e.Logger.Warn("auto action gave up", "agent", agent.ID, "steps", MaxAutoSteps)
	return cur
}

// runFirst applies the first rule whose guard holds and that changes the
// world. A rule that holds but leaves s unchanged, such as an Always rule
// whose verb cannot run, counts as not holding. Rules that would start
// another auto action are skipped.
func (e *Engine) runFirst(s *types.State, rs []types.Action, agentID int) (*types.State, bool) {
	for _, r := range rs {
		if r.Type == types.ActionAutoAction || !e.Rules.Holds(s, r) {
			continue
		}
		if next := e.apply(s, rules.Rebind(r, agentID)); next != s {
			return next, true
		}
	}
	return s, false
}

// bind returns copies of rs with every agent ref pointing at agentID.
func bind(rs []types.Action, agentID int) []types.Action {
	if len(rs) == 0 {
		return nil
	}
	out := make([]types.Action, len(rs))
	for i, r := range rs {
		out[i] = rules.Rebind(r, agentID)
	}
	return out
}
