// Package actions is the action catalog: pure constructors for every
// reducer verb. Constructing an action never looks at the world; agents and
// targets are accessors resolved when the action runs.
package actions

import "github.com/nathoo/brigands/types"

// Item refers to a fixed item id.
func Item(id int) types.Ref {
	return types.Ref{Kind: types.RefItem, ID: id}
}

// Selected refers to whatever item is selected when the action runs.
func Selected() types.Ref {
	return types.Ref{Kind: types.RefSelected}
}

// NearestEnemy refers to the closest living unit of another faction.
func NearestEnemy() types.Ref {
	return types.Ref{Kind: types.RefNearestEnemy}
}

// Home refers to the farm the agent built.
func Home() types.Ref {
	return types.Ref{Kind: types.RefHome}
}

// NearestKind refers to the closest item of the given kind.
func NearestKind(k types.Kind) types.Ref {
	return types.Ref{Kind: types.RefNearestKind, ItemKind: k}
}

func order(t types.ActionType, agent types.Ref) types.Action {
	return types.Action{Type: t, Agent: agent, Guard: types.Guard{Type: types.GuardValid}}
}

func targeted(t types.ActionType, agent, target types.Ref) types.Action {
	a := order(t, agent)
	a.Target = &target
	return a
}

// Attack hits target for one hp when it stands within melee range.
func Attack(agent, target types.Ref) types.Action {
	return targeted(types.ActionAttack, agent, target)
}

// Move steps agent one cell along the cheapest path toward target.
func Move(agent, target types.Ref) types.Action {
	return targeted(types.ActionMove, agent, target)
}

// BuildFarm turns the grass under agent into the agent's farm.
func BuildFarm(agent types.Ref) types.Action {
	return order(types.ActionBuildFarm, agent)
}

// BuildWarehouse turns the grass under agent into a shared warehouse.
func BuildWarehouse(agent types.Ref) types.Action {
	return order(types.ActionBuildWarehouse, agent)
}

// PlantCrop plants the grass under agent. Requires a farm.
func PlantCrop(agent types.Ref) types.Action {
	return order(types.ActionPlantCrop, agent)
}

// HarvestCrop picks the crop under agent.
func HarvestCrop(agent types.Ref) types.Action {
	return order(types.ActionHarvestCrop, agent)
}

// LoadResource takes the oldest resource from the building under agent.
func LoadResource(agent types.Ref) types.Action {
	return order(types.ActionLoadResource, agent)
}

// UnloadResource stores the agent's oldest resource in the building under it.
func UnloadResource(agent types.Ref) types.Action {
	return order(types.ActionUnloadResource, agent)
}

// SetActiveEvent makes event the one driving agent's rule selection.
func SetActiveEvent(agent types.Ref, event types.Event) types.Action {
	a := types.Action{Type: types.ActionSetActiveEvent, Agent: agent, Guard: types.Guard{Type: types.GuardAlways}}
	a.Event = &event
	return a
}

// TrainEvent starts recording agent's orders as its behavior for event.
func TrainEvent(agent types.Ref, event types.Event) types.Action {
	a := types.Action{Type: types.ActionTrainEvent, Agent: agent, Guard: types.Guard{Type: types.GuardAlways}}
	a.Event = &event
	return a
}

// FinishTrainEvent stores the recording in the behavior table.
func FinishTrainEvent(agent types.Ref) types.Action {
	return types.Action{Type: types.ActionFinishTrainEvent, Agent: agent, Guard: types.Guard{Type: types.GuardAlways}}
}

// Sleep idles agent; as a rule it keeps firing while the world turn is at
// most turn.
func Sleep(agent types.Ref, turn int) types.Action {
	return types.Action{
		Type:  types.ActionSleep,
		Agent: agent,
		Guard: types.Guard{Type: types.GuardUntilTurn, Turn: turn},
	}
}

// SetUnitBehavior installs the rules for agent's next event.
func SetUnitBehavior(agent types.Ref) types.Action {
	return types.Action{Type: types.ActionSetUnitBehavior, Agent: agent, Guard: types.Guard{Type: types.GuardAlways}}
}

// AutoAction lets agent act on its own rules.
func AutoAction(agent types.Ref) types.Action {
	return types.Action{Type: types.ActionAutoAction, Agent: agent, Guard: types.Guard{Type: types.GuardAlways}}
}

// EndTurn finishes the active player's turn.
func EndTurn() types.Action {
	return types.Action{Type: types.ActionEndTurn, Guard: types.Guard{Type: types.GuardAlways}}
}

// SetSelected selects the item with the given id.
func SetSelected(id int) types.Action {
	return types.Action{Type: types.ActionSetSelected, ID: id, Guard: types.Guard{Type: types.GuardAlways}}
}

// Restart generates a fresh world from seed, keeping learned behaviors.
func Restart(seed int64) types.Action {
	return types.Action{Type: types.ActionRestart, Seed: seed, Guard: types.Guard{Type: types.GuardAlways}}
}

// When returns a copy of a that additionally requires expression src.
func When(a types.Action, src string) types.Action {
	a.Guard.When = src
	return a
}

// Always returns a copy of a whose guard always passes. The reducer still
// rejects the order if the verb cannot run.
func Always(a types.Action) types.Action {
	a.Guard.Type = types.GuardAlways
	return a
}
