// Package session turns shell commands into reducer actions. It owns the
// current snapshot and is the only place a shell touches the engine.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/brigands/engine"
	"github.com/nathoo/brigands/engine/actions"
	"github.com/nathoo/brigands/engine/parser"
	"github.com/nathoo/brigands/engine/resolve"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Session holds the engine and the current world snapshot.
type Session struct {
	Engine *engine.Engine
	State  *types.State
	Human  string // the interactive seat; every other player is auto-played
}

// New creates a session on top of an initial snapshot. The first player is
// the interactive one.
func New(eng *engine.Engine, s *types.State) *Session {
	ss := &Session{Engine: eng, State: s}
	if len(s.Players) > 0 {
		ss.Human = s.Players[0]
	}
	return ss
}

var orderVerbs = map[string]types.ActionType{
	"move":      types.ActionMove,
	"attack":    types.ActionAttack,
	"farm":      types.ActionBuildFarm,
	"warehouse": types.ActionBuildWarehouse,
	"plant":     types.ActionPlantCrop,
	"harvest":   types.ActionHarvestCrop,
	"load":      types.ActionLoadResource,
	"unload":    types.ActionUnloadResource,
}

// Commands still allowed once the game has a winner.
var afterGameVerbs = map[string]bool{
	"restart": true, "map": true, "unit": true, "events": true,
}

// Step processes one command and returns what happened.
func (ss *Session) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	if ss.State.Winner != "" && !afterGameVerbs[intent.Verb] {
		result.Output = append(result.Output, fmt.Sprintf(
			"The game is over: %s won. Type restart to play again.", ss.State.Winner))
		return result
	}

	if t, ok := orderVerbs[intent.Verb]; ok {
		ss.order(t, intent, &result)
		return result
	}

	switch intent.Verb {
	case "select":
		ss.selectItem(intent, &result)
	case "train":
		ss.train(intent, &result)
	case "finish":
		ss.finish(&result)
	case "auto":
		ss.auto(&result)
	case "end":
		ss.endTurn(&result)
	case "restart":
		ss.restart(intent, &result)
	case "map":
		result.Output = append(result.Output, MapLines(ss.State, ss.Engine.Tuning.GridSize)...)
	case "unit":
		ss.unitCard(intent, &result)
	case "events":
		result.Output = append(result.Output, EventLines(ss.State)...)
	default:
		result.Output = append(result.Output, fmt.Sprintf("I don't know how to %q.", intent.Verb))
	}
	return result
}

// apply runs one action and records it in result when it changed the world.
func (ss *Session) apply(a types.Action, result *types.Result) bool {
	prev := ss.State
	next := ss.Engine.Apply(prev, a)
	if next == prev {
		return false
	}
	result.Actions = append(result.Actions, a)
	result.Events = append(result.Events, newEvents(prev, next)...)
	ss.State = next
	return true
}

// newEvents returns the events of next that prev did not have.
func newEvents(prev, next *types.State) []types.Event {
	seen := make(map[int]bool, len(prev.Events))
	for _, e := range prev.Events {
		seen[e.ID] = true
	}
	var out []types.Event
	for _, e := range next.Events {
		if !seen[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// controlledUnit returns the selected unit if the active player may give
// it orders. Otherwise it returns a message saying why not.
func (ss *Session) controlledUnit() (types.Item, string) {
	it, ok := state.SelectedItem(ss.State)
	if !ok {
		return types.Item{}, "Nothing is selected. Use select <id> first."
	}
	if !state.IsUnit(it.Kind) {
		return types.Item{}, fmt.Sprintf("%s is not a unit.", Label(it))
	}
	if state.IsDead(it) {
		return types.Item{}, fmt.Sprintf("%s is dead.", Label(it))
	}
	if it.OwnerID != ss.State.ActivePlayerID {
		return types.Item{}, fmt.Sprintf("%s belongs to %s.", Label(it), it.OwnerID)
	}
	return it, ""
}

func (ss *Session) selectItem(intent types.Intent, result *types.Result) {
	switch intent.Object {
	case "":
		result.Output = append(result.Output, "Select what? Give an item id or a unit name.")
		return
	case "next":
		ss.selectNext(result)
		return
	}
	id, err := resolve.Item(ss.State, intent.Object)
	if err != nil {
		result.Output = append(result.Output, sentence(err))
		return
	}
	it, _ := state.ItemByID(ss.State, id)
	ss.apply(actions.SetSelected(id), result)
	result.Output = append(result.Output, fmt.Sprintf("Selected %s at (%d, %d).", Label(it), it.X, it.Y))
}

// SelectNext selects the human seat's next living unit after the current
// selection, in id order, wrapping around.
func (ss *Session) SelectNext() types.Result {
	var result types.Result
	ss.selectNext(&result)
	return result
}

func (ss *Session) selectNext(result *types.Result) {
	var own []types.Item
	for _, it := range state.ItemsByOwner(ss.State, ss.Human) {
		if state.IsUnit(it.Kind) && !state.IsDead(it) {
			own = append(own, it)
		}
	}
	if len(own) == 0 {
		result.Output = append(result.Output, "You have no units left.")
		return
	}
	sort.Slice(own, func(i, j int) bool { return own[i].ID < own[j].ID })

	next := own[0]
	for _, it := range own {
		if it.ID > ss.State.SelectedID {
			next = it
			break
		}
	}
	ss.apply(actions.SetSelected(next.ID), result)
	result.Output = append(result.Output, fmt.Sprintf("Selected %s at (%d, %d).", Label(next), next.X, next.Y))
}

// sentence turns an error into a line of output.
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func (ss *Session) order(t types.ActionType, intent types.Intent, result *types.Result) {
	unit, msg := ss.controlledUnit()
	if msg != "" {
		result.Output = append(result.Output, msg)
		return
	}
	agent := actions.Item(unit.ID)

	var a types.Action
	switch t {
	case types.ActionMove:
		if intent.Object == "" {
			result.Output = append(result.Output, "Move where? Give an item id, enemy, home or a kind like crop.")
			return
		}
		target, err := ParseTarget(ss.State, intent.Object)
		if err != nil {
			result.Output = append(result.Output, err.Error())
			return
		}
		a = actions.Move(agent, target)
	case types.ActionAttack:
		target := actions.NearestEnemy()
		if intent.Object != "" {
			var err error
			if target, err = ParseTarget(ss.State, intent.Object); err != nil {
				result.Output = append(result.Output, err.Error())
				return
			}
		}
		a = actions.Attack(agent, target)
	default:
		a = types.Action{Type: t, Agent: agent, Guard: types.Guard{Type: types.GuardValid}}
	}

	prev := ss.State
	if !ss.apply(a, result) {
		if unit.AP <= 0 {
			result.Output = append(result.Output, fmt.Sprintf("%s has no action points left this turn.", Label(unit)))
		} else {
			result.Output = append(result.Output, fmt.Sprintf("%s can't %s right now.", Label(unit), intent.Verb))
		}
		return
	}
	result.Output = append(result.Output, ss.describe(prev, unit.ID, a))
}

// ParseTarget reads a target word: "enemy", "home", an item kind, which
// names the nearest item of that kind, or anything resolve.Item accepts.
func ParseTarget(s *types.State, word string) (types.Ref, error) {
	word = strings.TrimSpace(word)
	switch strings.TrimPrefix(word, "nearest ") {
	case "enemy":
		return actions.NearestEnemy(), nil
	case "home":
		return actions.Home(), nil
	}
	if k := types.Kind(strings.TrimPrefix(word, "nearest ")); targetKinds[k] {
		return actions.NearestKind(k), nil
	}
	id, err := resolve.Item(s, word)
	if err != nil {
		return types.Ref{}, errors.New(sentence(err))
	}
	return actions.Item(id), nil
}

var targetKinds = map[types.Kind]bool{
	types.KindGrass: true, types.KindPath: true, types.KindTree: true,
	types.KindRock: true, types.KindWater: true, types.KindFarm: true,
	types.KindWarehouse: true, types.KindPlanted: true, types.KindCrop: true,
}

// describe narrates an action the agent just carried out, comparing the
// snapshot before it with the current one.
func (ss *Session) describe(prev *types.State, agentID int, a types.Action) string {
	after, _ := state.ItemByID(ss.State, agentID)
	who := Label(after)

	var line string
	switch a.Type {
	case types.ActionMove:
		line = fmt.Sprintf("%s moves to (%d, %d).", who, after.X, after.Y)
	case types.ActionAttack:
		line = fmt.Sprintf("%s attacks.", who)
		if victim, ok := damaged(prev, ss.State); ok {
			line = fmt.Sprintf("%s attacks %s (hp %d).", who, Label(victim), victim.HP)
			if state.IsDead(victim) {
				line += fmt.Sprintf(" %s falls.", Label(victim))
			}
		}
	case types.ActionBuildFarm:
		line = fmt.Sprintf("%s builds a farm at (%d, %d).", who, after.X, after.Y)
	case types.ActionBuildWarehouse:
		line = fmt.Sprintf("%s builds a warehouse at (%d, %d).", who, after.X, after.Y)
	case types.ActionPlantCrop:
		line = fmt.Sprintf("%s plants a crop at (%d, %d).", who, after.X, after.Y)
	case types.ActionHarvestCrop:
		line = fmt.Sprintf("%s harvests a crop (carrying %d).", who, len(after.Resources))
	case types.ActionLoadResource:
		line = fmt.Sprintf("%s loads a crop (carrying %d).", who, len(after.Resources))
	case types.ActionUnloadResource:
		line = fmt.Sprintf("%s unloads a crop (carrying %d).", who, len(after.Resources))
	case types.ActionSleep:
		line = fmt.Sprintf("%s goes to sleep.", who)
	default:
		line = fmt.Sprintf("%s does %s.", who, a.Type)
	}
	if after.Training {
		line += " (recorded)"
	}
	return line
}

// damaged returns the unit whose hp dropped between prev and next.
func damaged(prev, next *types.State) (types.Item, bool) {
	for _, it := range next.Items {
		if !state.IsUnit(it.Kind) {
			continue
		}
		if before, ok := state.ItemByID(prev, it.ID); ok && before.HP > it.HP {
			return it, true
		}
	}
	return types.Item{}, false
}

func (ss *Session) train(intent types.Intent, result *types.Result) {
	unit, msg := ss.controlledUnit()
	if msg != "" {
		result.Output = append(result.Output, msg)
		return
	}
	if unit.Training {
		result.Output = append(result.Output, fmt.Sprintf(
			"%s is already training %s. Type finish first.", Label(unit), unit.BehaviorTraining.EventType))
		return
	}

	eventType := unit.ActiveEvent.Type
	if intent.Object != "" {
		var ok bool
		if eventType, ok = EventType(intent.Object); !ok {
			result.Output = append(result.Output, fmt.Sprintf(
				"Unknown event %q. Known events: %s.", intent.Object, strings.Join(trainableEvents, ", ")))
			return
		}
	}
	if eventType == "" || eventType == types.EventSleeping {
		eventType = types.EventDefault
	}

	event := types.Event{Type: eventType, Turn: ss.State.Turn}
	if unit.ActiveEvent.Type == eventType {
		event = unit.ActiveEvent
	}
	agent := actions.Item(unit.ID)
	ss.apply(actions.SetActiveEvent(agent, event), result)
	ss.apply(actions.TrainEvent(agent, event), result)

	trained, _ := state.ItemByID(ss.State, unit.ID)
	result.Output = append(result.Output, fmt.Sprintf(
		"%s is learning what a %s does on %s. Give orders, then type finish.",
		Label(trained), trained.BehaviorName, eventType))
}

func (ss *Session) finish(result *types.Result) {
	it, ok := state.SelectedItem(ss.State)
	if !ok {
		result.Output = append(result.Output, "Nothing is selected.")
		return
	}
	tr := it.BehaviorTraining
	if !ss.apply(actions.FinishTrainEvent(actions.Item(it.ID)), result) {
		result.Output = append(result.Output, fmt.Sprintf("%s is not training.", Label(it)))
		return
	}
	result.Output = append(result.Output, fmt.Sprintf(
		"%s behavior %q learned %d rule(s) for %s.", Label(it), tr.BehaviorName, len(tr.Actions), tr.EventType))
}

func (ss *Session) auto(result *types.Result) {
	unit, msg := ss.controlledUnit()
	if msg != "" {
		result.Output = append(result.Output, msg)
		return
	}
	if line, ok := ss.autoUnit(unit, result); ok {
		result.Output = append(result.Output, line)
		return
	}
	result.Output = append(result.Output, fmt.Sprintf("%s has nothing to do.", Label(unit)))
}

// autoUnit lets one unit act on its behavior and narrates the result.
func (ss *Session) autoUnit(unit types.Item, result *types.Result) (string, bool) {
	prev := ss.State
	if !ss.apply(actions.AutoAction(actions.Item(unit.ID)), result) {
		return "", false
	}
	after, _ := state.ItemByID(ss.State, unit.ID)
	if after.LastAction != nil && after.AP < unit.AP {
		return ss.describe(prev, unit.ID, *after.LastAction), true
	}
	return fmt.Sprintf("%s turns to %s.", Label(after), after.ActiveEvent.Type), true
}

// autoPlay runs one AutoAction for every living unit of player that is not
// being trained.
func (ss *Session) autoPlay(player string, result *types.Result) {
	var ids []int
	for _, it := range state.ItemsByOwner(ss.State, player) {
		if state.IsUnit(it.Kind) && !state.IsDead(it) && !it.Training {
			ids = append(ids, it.ID)
		}
	}
	for _, id := range ids {
		unit, ok := state.ItemByID(ss.State, id)
		if !ok || state.IsDead(unit) {
			continue
		}
		if line, ok := ss.autoUnit(unit, result); ok {
			result.Output = append(result.Output, line)
		}
	}
}

// endTurn auto-plays the active player's units and closes the turn, then
// plays every other seat the same way until play comes back to the human.
func (ss *Session) endTurn(result *types.Result) {
	ss.autoPlay(ss.State.ActivePlayerID, result)
	ss.apply(actions.EndTurn(), result)

	for i := 0; i < len(ss.State.Players); i++ {
		if ss.State.Winner != "" || ss.State.ActivePlayerID == ss.Human {
			break
		}
		ss.autoPlay(ss.State.ActivePlayerID, result)
		ss.apply(actions.EndTurn(), result)
	}

	if ss.State.Winner != "" {
		result.Output = append(result.Output, fmt.Sprintf("%s wins on turn %d!", ss.State.Winner, ss.State.Turn))
		return
	}
	result.Output = append(result.Output, fmt.Sprintf("Turn %d: %s to move.", ss.State.Turn, ss.State.ActivePlayerID))
}

func (ss *Session) restart(intent types.Intent, result *types.Result) {
	var seed int64
	if intent.Object != "" {
		n, err := strconv.ParseInt(intent.Object, 10, 64)
		if err != nil {
			result.Output = append(result.Output, fmt.Sprintf("Bad seed %q.", intent.Object))
			return
		}
		seed = n
	}
	ss.apply(actions.Restart(seed), result)
	result.Output = append(result.Output, fmt.Sprintf(
		"A new world from seed %d. Turn %d: %s to move.", ss.State.Seed, ss.State.Turn, ss.State.ActivePlayerID))
}

func (ss *Session) unitCard(intent types.Intent, result *types.Result) {
	id := ss.State.SelectedID
	if intent.Object != "" {
		var err error
		if id, err = resolve.Item(ss.State, intent.Object); err != nil {
			result.Output = append(result.Output, sentence(err))
			return
		}
	}
	lines, ok := UnitCard(ss.State, id)
	if !ok {
		result.Output = append(result.Output, "Nothing is selected.")
		return
	}
	result.Output = append(result.Output, lines...)
}
