package engine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/nathoo/brigands/config"
	"github.com/nathoo/brigands/engine/actions"
	"github.com/nathoo/brigands/engine/movement"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

func testEngine() *Engine {
	return New(config.Default(), nil)
}

func unit(id, x, y int, owner string) types.Item {
	it := types.Item{ID: id, X: x, Y: y, HP: 5, AP: 1, OwnerID: owner,
		ActiveEvent: types.Event{Type: types.EventDefault}}
	if owner == types.PlayerHuman {
		it.Kind = types.KindHuman
		it.BehaviorName = "farmer"
	} else {
		it.Kind = types.KindEnemy
		it.BehaviorName = "brigand"
	}
	return it
}

// world builds a w×h grass field under the given units. Terrain ids start
// at 101.
func world(w, h int, units ...types.Item) *types.State {
	s := &types.State{
		ActivePlayerID: types.PlayerHuman,
		Players:        []string{types.PlayerHuman, types.PlayerAI},
		Behaviors:      types.Behaviors{},
	}
	s.Items = append(s.Items, units...)
	id := 100
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id++
			s.Items = append(s.Items, types.Item{ID: id, X: x, Y: y, Kind: types.KindGrass})
		}
	}
	s.NextID = id
	if len(units) > 0 {
		s.SelectedID = units[0].ID
	}
	return s
}

// terrain returns a pointer to the fixture's terrain item on (x, y), for
// editing a fixture before the engine sees it.
func terrain(t *testing.T, s *types.State, x, y int) *types.Item {
	t.Helper()
	for i := range s.Items {
		it := &s.Items[i]
		if it.X == x && it.Y == y && !state.IsUnit(it.Kind) {
			return it
		}
	}
	t.Fatalf("no terrain on (%d,%d)", x, y)
	return nil
}

func item(t *testing.T, s *types.State, id int) types.Item {
	t.Helper()
	it, ok := state.ItemByID(s, id)
	if !ok {
		t.Fatalf("item %d not found", id)
	}
	return it
}

func snapshot(t *testing.T, s *types.State) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// refill restores a unit's AP between orders without ending the turn.
func refill(t *testing.T, s *types.State, id int) *types.State {
	t.Helper()
	it := item(t, s, id)
	it.AP = 1
	return state.ReplaceItem(s, it)
}

func TestApply_UnknownTypeIsNoop(t *testing.T) {
	e := testEngine()
	s := world(3, 3, unit(1, 0, 0, types.PlayerHuman))

	if got := e.Apply(s, types.Action{Type: "UNKNOWN"}); got != s {
		t.Error("expected the identical snapshot for an unknown action")
	}
}

func TestAttack_InRange(t *testing.T) {
	e := testEngine()
	s := world(3, 3, unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 0, types.PlayerAI))

	next := e.Apply(s, actions.Attack(actions.Item(1), actions.Item(2)))

	if got := item(t, next, 2).HP; got != 4 {
		t.Errorf("expected target hp 4, got %d", got)
	}
	if got := item(t, next, 1).AP; got != 0 {
		t.Errorf("expected attacker AP 0, got %d", got)
	}
	if item(t, s, 2).HP != 5 {
		t.Error("input snapshot mutated")
	}
}

func TestAttack_OutOfRangeLeavesStateUnchanged(t *testing.T) {
	e := testEngine()
	s := world(3, 3, unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 1, types.PlayerAI))
	before := snapshot(t, s)

	next := e.Apply(s, actions.Attack(actions.Item(1), actions.Item(2)))

	if next != s {
		t.Fatal("expected the identical snapshot for an out-of-range attack")
	}
	if snapshot(t, next) != before {
		t.Error("state changed after a rejected attack")
	}
}

func TestAttack_NonUnitTargetIsRejected(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))
	tree := terrain(t, s, 1, 0)
	tree.Kind = types.KindTree
	before := snapshot(t, s)

	next := e.Apply(s, actions.Attack(actions.Item(1), actions.Item(tree.ID)))

	if next != s {
		t.Fatal("expected the identical snapshot when attacking terrain")
	}
	if snapshot(t, next) != before {
		t.Error("state changed after attacking terrain")
	}
}

func TestAttack_NearestEnemyRef(t *testing.T) {
	e := testEngine()
	s := world(4, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 0, types.PlayerAI), unit(3, 3, 0, types.PlayerAI))

	next := e.Apply(s, actions.Attack(actions.Item(1), actions.NearestEnemy()))
	if item(t, next, 2).HP != 4 || item(t, next, 3).HP != 5 {
		t.Error("expected only the adjacent enemy to be hit")
	}
}

func TestMove_StepsAlongCheapestPath(t *testing.T) {
	e := testEngine()
	s := world(3, 3, unit(1, 0, 0, types.PlayerHuman), unit(2, 2, 0, types.PlayerAI))
	terrain(t, s, 1, 0).Kind = types.KindWater

	next := e.Apply(s, actions.Move(actions.Item(1), actions.Item(2)))

	agent := item(t, next, 1)
	if agent.X != 0 || agent.Y != 1 {
		t.Errorf("expected detour step to (0,1), got (%d,%d)", agent.X, agent.Y)
	}
	if agent.AP != 0 {
		t.Errorf("expected AP 0 after moving, got %d", agent.AP)
	}
	if got := terrain(t, next, 0, 1).Visited; len(got) != 1 {
		t.Errorf("expected one visit on the entered cell, got %v", got)
	}
}

func TestMove_RepeatedReachesTarget(t *testing.T) {
	e := testEngine()
	s := world(4, 2, unit(1, 0, 0, types.PlayerHuman), unit(2, 3, 1, types.PlayerAI))
	move := actions.Move(actions.Item(1), actions.Item(2))

	for i := 0; i < 4; i++ {
		before := movement.ItemDistance(item(t, s, 1), item(t, s, 2))
		s = refill(t, e.Apply(s, move), 1)
		after := movement.ItemDistance(item(t, s, 1), item(t, s, 2))
		if after != before-1 {
			t.Fatalf("step %d: distance %d -> %d, expected one cell closer", i, before, after)
		}
	}

	if d := movement.ItemDistance(item(t, s, 1), item(t, s, 2)); d != 0 {
		t.Fatalf("expected to reach the target, distance %d", d)
	}
	if next := e.Apply(s, move); next != s {
		t.Error("expected no move once co-located")
	}
}

func TestMove_WithoutAPIsRejected(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.AP = 0
	s := world(3, 1, u, unit(2, 2, 0, types.PlayerAI))

	if next := e.Apply(s, actions.Move(actions.Item(1), actions.Item(2))); next != s {
		t.Error("expected an exhausted unit to stay put")
	}
}

func TestPathWearing_FourthStepConverts(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))
	home := terrain(t, s, 0, 0).ID
	road := terrain(t, s, 1, 0).ID

	for visit := 1; visit <= 4; visit++ {
		s.Turn = visit * 2
		s = refill(t, e.Apply(s, actions.Move(actions.Item(1), actions.Item(road))), 1)

		cell := item(t, s, road)
		if len(cell.Visited) != visit {
			t.Fatalf("visit %d: expected %d visits logged, got %v", visit, visit, cell.Visited)
		}
		want := types.KindGrass
		if visit == 4 {
			want = types.KindPath
		}
		if cell.Kind != want {
			t.Fatalf("visit %d: expected %s, got %s", visit, want, cell.Kind)
		}

		s.Turn++
		s = refill(t, e.Apply(s, actions.Move(actions.Item(1), actions.Item(home))), 1)
	}
}

func TestBuildFarm_WithoutGrassIsNoop(t *testing.T) {
	e := testEngine()
	s := world(2, 2, unit(1, 0, 0, types.PlayerHuman))
	terrain(t, s, 0, 0).Kind = types.KindRock

	next := e.Apply(s, actions.BuildFarm(actions.Item(1)))
	if next != s {
		t.Fatal("expected the identical snapshot")
	}
	if state.HasBuilt(next, 1, types.KindFarm) {
		t.Error("no farm should appear")
	}
	if item(t, next, 1).AP != 1 {
		t.Error("AP must not be spent on a rejected order")
	}
}

func TestBuildFarm_ReplacesGrass(t *testing.T) {
	e := testEngine()
	s := world(2, 2, unit(1, 1, 1, types.PlayerHuman))
	s.Turn = 3
	grass := terrain(t, s, 1, 1).ID

	next := e.Apply(s, actions.BuildFarm(actions.Item(1)))

	if _, ok := state.ItemByID(next, grass); ok {
		t.Error("expected the grass to be consumed")
	}
	farm, ok := state.BuiltBy(next, 1, types.KindFarm)
	if !ok {
		t.Fatal("expected a farm built by unit 1")
	}
	if farm.X != 1 || farm.Y != 1 || farm.CreatedTurn != 3 {
		t.Errorf("unexpected farm %+v", farm)
	}
	if farm.ID != s.NextID+1 {
		t.Errorf("expected fresh id %d, got %d", s.NextID+1, farm.ID)
	}
	if item(t, next, 1).AP != 0 {
		t.Error("expected AP 0 after building")
	}

	again := refill(t, next, 1)
	if e.Apply(again, actions.BuildFarm(actions.Item(1))) != again {
		t.Error("a unit builds at most one farm")
	}
}

func TestPlantCrop_NeedsFarm(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))

	if e.Apply(s, actions.PlantCrop(actions.Item(1))) != s {
		t.Fatal("expected planting without a farm to be rejected")
	}

	f := terrain(t, s, 1, 0)
	f.Kind, f.BuilderID = types.KindFarm, 1
	next := e.Apply(s, actions.PlantCrop(actions.Item(1)))
	if _, ok := state.ItemAtCellOfKind(next, 0, 0, types.KindPlanted); !ok {
		t.Error("expected planted crop on the agent's cell")
	}
}

func TestHarvestCrop(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.Resources = []string{"seed"}
	s := world(2, 1, u)
	crop := terrain(t, s, 0, 0)
	crop.Kind = types.KindCrop
	cropID := crop.ID

	next := e.Apply(s, actions.HarvestCrop(actions.Item(1)))

	if _, ok := state.ItemByID(next, cropID); ok {
		t.Error("expected the crop to disappear")
	}
	if _, ok := state.ItemAtCellOfKind(next, 0, 0, types.KindGrass); !ok {
		t.Error("expected grass in place of the crop")
	}
	if got := item(t, next, 1).Resources; !reflect.DeepEqual(got, []string{"seed", types.ResourceCrop}) {
		t.Errorf("expected crop appended after seed, got %v", got)
	}
	if got := item(t, s, 1).Resources; len(got) != 1 {
		t.Errorf("input snapshot mutated: %v", got)
	}
}

func TestUnload_ToOwnFarmEmitsPickup(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.Resources = []string{types.ResourceCrop, "seed"}
	s := world(1, 1, u)
	s.Turn = 4
	farm := terrain(t, s, 0, 0)
	farm.Kind, farm.BuilderID = types.KindFarm, 1
	farmID := farm.ID

	next := e.Apply(s, actions.UnloadResource(actions.Item(1)))

	if got := item(t, next, 1).Resources; !reflect.DeepEqual(got, []string{"seed"}) {
		t.Errorf("expected head removed from agent, got %v", got)
	}
	if got := item(t, next, farmID).Resources; !reflect.DeepEqual(got, []string{types.ResourceCrop}) {
		t.Errorf("expected crop at the farm's tail, got %v", got)
	}
	if len(next.Events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(next.Events))
	}
	ev := next.Events[0]
	if ev.Type != types.EventResourcePickup || !ev.Local || ev.AgentID != 1 ||
		ev.ItemID != farmID || ev.Resource != types.ResourceCrop || ev.Turn != 4 {
		t.Errorf("unexpected pickup event %+v", ev)
	}
}

func TestUnload_ToWarehouseEmitsNothing(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.Resources = []string{types.ResourceCrop}
	s := world(1, 1, u)
	wh := terrain(t, s, 0, 0)
	wh.Kind, wh.BuilderID, wh.Resources = types.KindWarehouse, 1, []string{"seed"}
	whID := wh.ID

	next := e.Apply(s, actions.UnloadResource(actions.Item(1)))

	if len(next.Events) != 0 {
		t.Errorf("expected no events, got %v", next.Events)
	}
	if got := item(t, next, whID).Resources; !reflect.DeepEqual(got, []string{"seed", types.ResourceCrop}) {
		t.Errorf("expected crop appended to warehouse, got %v", got)
	}
	if len(item(t, next, 1).Resources) != 0 {
		t.Error("expected agent to be empty-handed")
	}
}

func TestLoad_TakesOldest(t *testing.T) {
	e := testEngine()
	s := world(1, 1, unit(1, 0, 0, types.PlayerHuman))
	wh := terrain(t, s, 0, 0)
	wh.Kind, wh.Resources = types.KindWarehouse, []string{"first", "second"}
	whID := wh.ID

	next := e.Apply(s, actions.LoadResource(actions.Item(1)))

	if got := item(t, next, 1).Resources; !reflect.DeepEqual(got, []string{"first"}) {
		t.Errorf("expected oldest resource loaded, got %v", got)
	}
	if got := item(t, next, whID).Resources; !reflect.DeepEqual(got, []string{"second"}) {
		t.Errorf("expected one resource left, got %v", got)
	}
}

func TestTraining_RecordsIssuedActionsInOrder(t *testing.T) {
	e := testEngine()
	s := world(4, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 3, 0, types.PlayerAI))
	event := types.Event{ID: 50, Type: types.EventCropGrown, Turn: 0}

	s = e.Apply(s, actions.TrainEvent(actions.Item(1), event))
	if it := item(t, s, 1); !it.Training || it.BehaviorTraining == nil {
		t.Fatal("expected an open training session")
	}

	issued := []types.Action{
		actions.BuildFarm(actions.Item(1)),
		actions.Move(actions.Item(1), actions.Item(2)),
		actions.Move(actions.Item(1), actions.Item(2)),
	}
	for i, a := range issued {
		// A rejected order is not recorded.
		if e.Apply(s, actions.Attack(actions.Item(1), actions.Item(2))) != s {
			t.Fatalf("step %d: expected the out-of-range attack to be rejected", i)
		}
		next := e.Apply(s, a)
		if next == s {
			t.Fatalf("action %d (%s) was rejected", i, a.Type)
		}
		s = refill(t, next, 1)
	}

	s = e.Apply(s, actions.FinishTrainEvent(actions.Item(1)))

	got := s.Behaviors["farmer"][types.EventCropGrown].Actions
	if !reflect.DeepEqual(got, issued) {
		t.Fatalf("recorded actions differ:\n got %+v\nwant %+v", got, issued)
	}
	agent := item(t, s, 1)
	if agent.Training || agent.BehaviorTraining != nil {
		t.Error("expected training to be closed")
	}
	if !reflect.DeepEqual(agent.ConditionalActions, issued) {
		t.Error("expected the recording to become the active rule list")
	}

	agent.Events = []types.Event{event}
	agent.ConditionalActions = nil
	s = e.Apply(state.ReplaceItem(s, agent), actions.SetUnitBehavior(actions.Item(1)))
	agent = item(t, s, 1)
	if !reflect.DeepEqual(agent.ConditionalActions, issued) {
		t.Errorf("expected SetUnitBehavior to install the trained rules, got %+v", agent.ConditionalActions)
	}
	if agent.ActiveEvent.Type != types.EventCropGrown || len(agent.Events) != 0 {
		t.Errorf("expected CropGrown popped into the active event, got %+v / %v", agent.ActiveEvent, agent.Events)
	}
}

func TestFinishTrainEvent_DoesNotTouchOlderTable(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))
	s.Behaviors = types.Behaviors{"farmer": {types.EventDefault: {EventType: types.EventDefault}}}
	s = e.Apply(s, actions.TrainEvent(actions.Item(1), types.Event{Type: types.EventGameStarted}))
	s = e.Apply(s, actions.BuildFarm(actions.Item(1)))

	next := e.Apply(s, actions.FinishTrainEvent(actions.Item(1)))

	if _, ok := s.Behaviors["farmer"][types.EventGameStarted]; ok {
		t.Error("older snapshot's behavior table was modified")
	}
	if len(next.Behaviors["farmer"]) != 2 {
		t.Errorf("expected both event behaviors in the new table, got %v", next.Behaviors["farmer"])
	}
}

func TestFinishTrainEvent_WithoutSessionIsNoop(t *testing.T) {
	e := testEngine()
	s := world(1, 1, unit(1, 0, 0, types.PlayerHuman))
	if e.Apply(s, actions.FinishTrainEvent(actions.Item(1))) != s {
		t.Error("expected no-op without an open session")
	}
}

func TestSleep_WorksWithoutAPAndIsNotRecorded(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	s := world(1, 1, u)
	s = e.Apply(s, actions.TrainEvent(actions.Item(1), types.Event{Type: types.EventGameStarted}))

	s = e.Apply(s, actions.Sleep(actions.Item(1), 0))
	agent := item(t, s, 1)
	if agent.ActiveEvent.Type != types.EventSleeping {
		t.Errorf("expected Sleeping, got %q", agent.ActiveEvent.Type)
	}
	if len(agent.BehaviorTraining.Actions) != 0 {
		t.Error("sleep must not be recorded")
	}
	if len(agent.ConditionalActions) != 1 || agent.ConditionalActions[0].Type != types.ActionSleep {
		t.Errorf("expected a single sleep rule, got %+v", agent.ConditionalActions)
	}
	if next := e.Apply(s, actions.Sleep(actions.Item(1), 0)); next == s {
		t.Error("sleep should be accepted with AP 0")
	}
}

func TestSetUnitBehavior_RebindsAgent(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 0, types.PlayerHuman))
	s.Behaviors = types.Behaviors{"farmer": {types.EventDefault: {
		EventType: types.EventDefault,
		Actions:   []types.Action{actions.BuildFarm(actions.Selected())},
	}}}

	next := e.Apply(s, actions.SetUnitBehavior(actions.Item(2)))

	rs := item(t, next, 2).ConditionalActions
	if len(rs) != 1 || rs[0].Agent != actions.Item(2) {
		t.Errorf("expected the rule bound to unit 2, got %+v", rs)
	}
	if s.Behaviors["farmer"][types.EventDefault].Actions[0].Agent != actions.Selected() {
		t.Error("behavior table was modified")
	}
}

func TestAutoAction_NoRulesSleeps(t *testing.T) {
	e := testEngine()
	s := world(2, 2, unit(1, 0, 0, types.PlayerHuman))

	next := e.Apply(s, actions.AutoAction(actions.Item(1)))

	agent := item(t, next, 1)
	if agent.ActiveEvent.Type != types.EventSleeping {
		t.Errorf("expected Sleeping, got %q", agent.ActiveEvent.Type)
	}
	if agent.AP != 0 {
		t.Errorf("expected AP 0, got %d", agent.AP)
	}
}

func TestAutoAction_RunsFirstHoldingRule(t *testing.T) {
	e := testEngine()
	s := world(2, 2, unit(1, 0, 0, types.PlayerHuman))
	s.Behaviors = types.Behaviors{"farmer": {types.EventDefault: {
		EventType: types.EventDefault,
		Actions: []types.Action{
			actions.PlantCrop(actions.Selected()),
			actions.BuildFarm(actions.Selected()),
		},
	}}}

	next := e.Apply(s, actions.AutoAction(actions.Item(1)))

	if !state.HasBuilt(next, 1, types.KindFarm) {
		t.Fatal("expected the farm rule to fire")
	}
	rs := item(t, next, 1).ConditionalActions
	if len(rs) != 1 || rs[0].Type != types.ActionBuildFarm {
		t.Errorf("expected rule list advanced to the executed rule, got %+v", rs)
	}
	if last := item(t, next, 1).LastAction; last == nil || last.Type != types.ActionBuildFarm {
		t.Errorf("expected last action build_farm, got %+v", last)
	}
}

func TestAutoAction_ExhaustedIsNoop(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.AP = 0
	s := world(1, 1, u)

	if e.Apply(s, actions.AutoAction(actions.Item(1))) != s {
		t.Error("expected no-op without AP")
	}
}

func TestAutoAction_FallsThroughQueuedEventToSleep(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.Events = []types.Event{{ID: 9, Type: types.EventCropGrown}}
	s := world(1, 1, u)
	s.Behaviors = types.Behaviors{"farmer": {types.EventCropGrown: {
		EventType: types.EventCropGrown,
		Actions:   []types.Action{actions.HarvestCrop(actions.Selected())},
	}}}

	next := e.Apply(s, actions.AutoAction(actions.Item(1)))

	agent := item(t, next, 1)
	if len(agent.Events) != 0 {
		t.Errorf("expected the queued event consumed, got %v", agent.Events)
	}
	if agent.ActiveEvent.Type != types.EventSleeping {
		t.Errorf("expected Sleeping, got %q", agent.ActiveEvent.Type)
	}
}

func TestAutoAction_AlwaysRuleThatCannotRunSleeps(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))
	farm := terrain(t, s, 0, 0)
	farm.Kind, farm.BuilderID = types.KindFarm, 1

	goHome := actions.Move(actions.Selected(), actions.Home())
	goHome.Guard.Type = types.GuardAlways
	s.Behaviors = types.Behaviors{"farmer": {types.EventDefault: {
		EventType: types.EventDefault,
		Actions:   []types.Action{goHome},
	}}}

	next := e.Apply(s, actions.AutoAction(actions.Item(1)))

	agent := item(t, next, 1)
	if agent.ActiveEvent.Type != types.EventSleeping {
		t.Errorf("expected Sleeping, got %q", agent.ActiveEvent.Type)
	}
	if agent.AP != 0 {
		t.Errorf("expected AP 0, got %d", agent.AP)
	}
}

func TestAutoAction_Bounded(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	for i := 0; i < 3*MaxAutoSteps; i++ {
		u.Events = append(u.Events, types.Event{ID: i + 1, Type: types.EventCropGrown})
	}
	s := world(1, 1, u)
	s.Behaviors = types.Behaviors{"farmer": {types.EventCropGrown: {
		EventType: types.EventCropGrown,
		Actions:   []types.Action{actions.HarvestCrop(actions.Selected())},
	}}}

	next := e.Apply(s, actions.AutoAction(actions.Item(1)))

	agent := item(t, next, 1)
	if consumed := 3*MaxAutoSteps - len(agent.Events); consumed > MaxAutoSteps {
		t.Errorf("expected at most %d behavior switches, got %d", MaxAutoSteps, consumed)
	}
	if agent.AP != 1 {
		t.Errorf("expected no action to run, AP %d", agent.AP)
	}
}

func TestEndTurn_Rotation(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 0, types.PlayerAI))
	s.Turn = 2

	s = e.Apply(s, actions.EndTurn())
	if s.Turn != 2 || s.ActivePlayerID != types.PlayerAI {
		t.Fatalf("after human: expected turn 2 / ai, got %d / %s", s.Turn, s.ActivePlayerID)
	}
	s = e.Apply(s, actions.EndTurn())
	if s.Turn != 3 || s.ActivePlayerID != types.PlayerHuman {
		t.Fatalf("after ai: expected turn 3 / human, got %d / %s", s.Turn, s.ActivePlayerID)
	}
	if s.Winner != "" {
		t.Errorf("expected no winner, got %q", s.Winner)
	}
}

func TestEndTurn_RefillsActivePlayerOnly(t *testing.T) {
	e := testEngine()
	h, a := unit(1, 0, 0, types.PlayerHuman), unit(2, 1, 0, types.PlayerAI)
	h.AP, a.AP = 0, 0
	s := world(2, 1, h, a)

	next := e.Apply(s, actions.EndTurn())
	if item(t, next, 1).AP != 1 {
		t.Error("expected human AP refilled")
	}
	if item(t, next, 2).AP != 0 {
		t.Error("ai AP must wait for the ai's own end of turn")
	}
}

func TestEndTurn_GrowsCropsAndNotifiesBuilder(t *testing.T) {
	e := testEngine()
	s := world(3, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 2, 0, types.PlayerAI))
	s.Turn = 5
	s.Events = []types.Event{{ID: 90, Type: types.EventGameStarted, Turn: 4}}
	s.Behaviors = types.Behaviors{"farmer": {types.EventCropGrown: {
		EventType: types.EventCropGrown,
		Actions:   []types.Action{actions.HarvestCrop(actions.Selected())},
	}}}
	ripe := terrain(t, s, 1, 0)
	ripe.Kind, ripe.BuilderID, ripe.CreatedTurn = types.KindPlanted, 1, 0
	ripeID := ripe.ID
	young := terrain(t, s, 2, 0)
	young.Kind, young.BuilderID, young.CreatedTurn = types.KindPlanted, 1, 1
	youngID := young.ID

	next := e.Apply(s, actions.EndTurn())

	if item(t, next, ripeID).Kind != types.KindCrop {
		t.Error("expected the ripe planting to become a crop")
	}
	if item(t, next, youngID).Kind != types.KindPlanted {
		t.Error("expected the young planting to keep growing")
	}
	if len(next.Events) != 1 {
		t.Fatalf("expected only this turn's CropGrown event, got %v", next.Events)
	}
	ev := next.Events[0]
	if ev.Type != types.EventCropGrown || !ev.Local || ev.AgentID != 1 || ev.ItemID != ripeID {
		t.Errorf("unexpected event %+v", ev)
	}
	if q := item(t, next, 1).Events; len(q) != 1 || q[0].ID != ev.ID {
		t.Errorf("expected the builder to queue the event, got %v", q)
	}
}

func TestEndTurn_Winner(t *testing.T) {
	e := testEngine()
	dead := unit(2, 1, 0, types.PlayerAI)
	dead.HP = 0
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman), dead)

	next := e.Apply(s, actions.EndTurn())
	if next.Winner != types.PlayerHuman {
		t.Errorf("expected human to win, got %q", next.Winner)
	}
	if state.DisplayKind(item(t, next, 2)) != types.KindDead {
		t.Error("dead unit should persist and display as dead")
	}
}

func TestSetSelected(t *testing.T) {
	e := testEngine()
	s := world(1, 1, unit(1, 0, 0, types.PlayerHuman), unit(2, 0, 0, types.PlayerHuman))

	next := e.Apply(s, actions.SetSelected(2))
	if next.SelectedID != 2 {
		t.Errorf("expected selection 2, got %d", next.SelectedID)
	}
	if e.Apply(next, actions.SetSelected(99)) != next {
		t.Error("selecting an unknown id should be a no-op")
	}
}

func TestRestart_PreservesBehaviors(t *testing.T) {
	e := testEngine()
	s := world(2, 1, unit(1, 0, 0, types.PlayerHuman))
	s.Turn = 12
	s.Behaviors = types.Behaviors{"farmer": {types.EventDefault: {
		EventType: types.EventDefault,
		Actions:   []types.Action{actions.BuildFarm(actions.Selected())},
	}}}

	next := e.Apply(s, actions.Restart(7))

	if next.Turn != 0 || next.Seed != 7 {
		t.Errorf("expected a fresh world from seed 7, got turn %d seed %d", next.Turn, next.Seed)
	}
	if !reflect.DeepEqual(next.Behaviors, s.Behaviors) {
		t.Error("expected the behavior table to survive restart")
	}
	if len(next.Items) == len(s.Items) {
		t.Error("expected a regenerated world")
	}
}

func TestRestart_NeverReusesIDs(t *testing.T) {
	e := testEngine()
	s := e.Generate(1, nil)

	used := map[int]bool{}
	collect := func(st *types.State) {
		for _, it := range st.Items {
			used[it.ID] = true
		}
		for _, ev := range st.Events {
			used[ev.ID] = true
		}
	}
	collect(s)

	for _, seed := range []int64{2, 0} {
		next := e.Apply(s, actions.Restart(seed))
		if next.NextID <= s.NextID {
			t.Errorf("NextID went from %d to %d", s.NextID, next.NextID)
		}
		for _, it := range next.Items {
			if used[it.ID] {
				t.Fatalf("restart reused item id %d", it.ID)
			}
		}
		for _, ev := range next.Events {
			if used[ev.ID] {
				t.Fatalf("restart reused event id %d", ev.ID)
			}
		}
		collect(next)
		s = next
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	e := testEngine()

	a := e.Generate(42, nil)
	b := e.Generate(42, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different worlds")
	}
	if reflect.DeepEqual(a.Items, e.Generate(43, nil).Items) {
		t.Error("different seeds produced the same world")
	}
}

func TestGenerate_Layout(t *testing.T) {
	e := testEngine()
	s := e.Generate(1, nil)

	units := state.Units(s)
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}
	if len(state.ItemsByOwner(s, types.PlayerHuman)) != 3 || len(state.ItemsByOwner(s, types.PlayerAI)) != 1 {
		t.Error("expected 3 human units and 1 ai unit")
	}

	perCell := map[[2]int]int{}
	kinds := map[types.Kind]int{}
	for _, it := range s.Items {
		if state.IsUnit(it.Kind) {
			continue
		}
		perCell[[2]int{it.X, it.Y}]++
		kinds[it.Kind]++
	}
	if len(perCell) != 100 {
		t.Errorf("expected terrain on all 100 cells, got %d", len(perCell))
	}
	for c, n := range perCell {
		if n != 1 {
			t.Errorf("cell %v has %d terrain items", c, n)
		}
	}
	if kinds[types.KindTree] != 6 || kinds[types.KindRock] != 3 || kinds[types.KindWater] != 3 || kinds[types.KindGrass] != 88 {
		t.Errorf("unexpected terrain mix %v", kinds)
	}

	if s.SelectedID != units[0].ID || s.ActivePlayerID != types.PlayerHuman {
		t.Error("expected the first unit selected and human to move first")
	}
	if len(s.Events) != 2 || s.Events[0].Type != types.EventEnemySpotted || s.Events[1].Type != types.EventGameStarted {
		t.Fatalf("unexpected initial events %v", s.Events)
	}
	spotted := item(t, s, s.Events[0].ItemID)
	if spotted.OwnerID != types.PlayerAI {
		t.Errorf("expected the spotted unit to be the ai's, got %q", spotted.OwnerID)
	}
	if s.NextID != len(s.Items)+2 {
		t.Errorf("expected NextID %d, got %d", len(s.Items)+2, s.NextID)
	}
}

func TestApply_NeverMutatesInput(t *testing.T) {
	e := testEngine()
	u := unit(1, 0, 0, types.PlayerHuman)
	u.Resources = []string{types.ResourceCrop}
	s := world(3, 3, u, unit(2, 1, 0, types.PlayerAI))
	f := terrain(t, s, 0, 0)
	f.Kind, f.BuilderID = types.KindFarm, 1
	before := snapshot(t, s)

	for _, a := range []types.Action{
		actions.Attack(actions.Item(1), actions.Item(2)),
		actions.Move(actions.Item(1), actions.Item(2)),
		actions.PlantCrop(actions.Item(1)),
		actions.UnloadResource(actions.Item(1)),
		actions.TrainEvent(actions.Item(1), types.Event{Type: types.EventGameStarted}),
		actions.AutoAction(actions.Item(1)),
		actions.EndTurn(),
		actions.SetSelected(2),
		actions.Restart(3),
	} {
		e.Apply(s, a)
		if snapshot(t, s) != before {
			t.Fatalf("%s mutated its input", a.Type)
		}
	}
}
