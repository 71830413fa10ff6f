// Package events implements event visibility and the end-of-turn delivery
// of world events into unit queues. Delivery is a single pass: queueing an
// event never produces new events.
package events

import (
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Visible reports whether agentID can see the event: global events are seen
// by everyone, local events only by their addressee.
func Visible(e types.Event, agentID int) bool {
	return !e.Local || e.AgentID == agentID
}

// RulesFor returns the rule list the behavior table holds for a behavior
// and event type. Missing entries yield nil.
func RulesFor(b types.Behaviors, behaviorName, eventType string) []types.Action {
	byEvent, ok := b[behaviorName]
	if !ok {
		return nil
	}
	return byEvent[eventType].Actions
}

// HasBehaviorFor reports whether the item's behavior has at least one rule
// for the event type.
func HasBehaviorFor(s *types.State, it types.Item, eventType string) bool {
	return len(RulesFor(s.Behaviors, it.BehaviorName, eventType)) > 0
}

// Wanted reports whether the event should be queued on it: the event is
// visible to it, and it either reacts to the type or is recording one.
func Wanted(s *types.State, it types.Item, e types.Event) bool {
	if !Visible(e, it.ID) {
		return false
	}
	return it.Training || HasBehaviorFor(s, it, e.Type)
}

// Retain keeps the events stamped with turn, dropping older ones.
func Retain(evts []types.Event, turn int) []types.Event {
	var kept []types.Event
	for _, e := range evts {
		if e.Turn == turn {
			kept = append(kept, e)
		}
	}
	return kept
}

// Deliver appends the wanted events from evts to the queue of every unit
// owned by ownerID. Units that want nothing are left untouched.
func Deliver(s *types.State, ownerID string, evts []types.Event) *types.State {
	next := s
	for _, it := range s.Items {
		if it.OwnerID != ownerID || !state.IsUnit(it.Kind) {
			continue
		}
		var add []types.Event
		for _, e := range evts {
			if Wanted(s, it, e) {
				add = append(add, e)
			}
		}
		if len(add) == 0 {
			continue
		}
		queue := make([]types.Event, 0, len(it.Events)+len(add))
		queue = append(queue, it.Events...)
		queue = append(queue, add...)
		it.Events = queue
		next = state.ReplaceItem(next, it)
	}
	return next
}
