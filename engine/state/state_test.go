package state

import (
	"testing"

	"github.com/nathoo/brigands/types"
)

func testState() *types.State {
	return &types.State{
		Turn:           0,
		ActivePlayerID: types.PlayerHuman,
		Players:        []string{types.PlayerHuman, types.PlayerAI},
		Items: []types.Item{
			{ID: 1, X: 0, Y: 0, Kind: types.KindHuman, HP: 5, AP: 1, OwnerID: types.PlayerHuman},
			{ID: 2, X: 1, Y: 0, Kind: types.KindEnemy, HP: 5, AP: 1, OwnerID: types.PlayerAI},
			{ID: 3, X: 0, Y: 0, Kind: types.KindGrass},
			{ID: 4, X: 1, Y: 0, Kind: types.KindTree},
			{ID: 5, X: 2, Y: 2, Kind: types.KindFarm, BuilderID: 1},
		},
		SelectedID: 1,
		NextID:     5,
	}
}

func TestItemByID_Found(t *testing.T) {
	s := testState()

	it, ok := ItemByID(s, 2)
	if !ok {
		t.Fatal("expected to find item 2")
	}
	if it.Kind != types.KindEnemy {
		t.Errorf("expected enemy-unit, got %q", it.Kind)
	}
}

func TestItemByID_Missing(t *testing.T) {
	s := testState()

	if _, ok := ItemByID(s, 99); ok {
		t.Error("expected unknown id to return not found")
	}
}

func TestItemsByOwner(t *testing.T) {
	s := testState()

	items := ItemsByOwner(s, types.PlayerHuman)
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("expected only item 1 for human, got %v", items)
	}
	if got := ItemsByOwner(s, ""); len(got) != 3 {
		t.Errorf("expected 3 neutral items, got %d", len(got))
	}
}

func TestItemsAtCell_UnitCoexistsWithTerrain(t *testing.T) {
	s := testState()

	items := ItemsAtCell(s, 0, 0)
	if len(items) != 2 {
		t.Fatalf("expected unit and grass on (0,0), got %d items", len(items))
	}
}

func TestItemAtCellOfKind(t *testing.T) {
	s := testState()

	if _, ok := ItemAtCellOfKind(s, 0, 0, types.KindGrass); !ok {
		t.Error("expected grass at (0,0)")
	}
	if _, ok := ItemAtCellOfKind(s, 0, 0, types.KindCrop); ok {
		t.Error("expected no crop at (0,0)")
	}
}

func TestSelectedItem(t *testing.T) {
	s := testState()

	it, ok := SelectedItem(s)
	if !ok || it.ID != 1 {
		t.Errorf("expected selected item 1, got %v (ok=%v)", it.ID, ok)
	}
}

func TestEnemyItems_RelativeToActivePlayer(t *testing.T) {
	s := testState()

	enemies := EnemyItems(s)
	if len(enemies) != 1 || enemies[0].ID != 2 {
		t.Fatalf("expected ai unit as enemy of human, got %v", enemies)
	}

	s.ActivePlayerID = types.PlayerAI
	enemies = EnemyItems(s)
	if len(enemies) != 1 || enemies[0].ID != 1 {
		t.Errorf("expected human unit as enemy of ai, got %v", enemies)
	}
}

func TestDisplayKind_DeadUnit(t *testing.T) {
	it := types.Item{Kind: types.KindHuman, HP: 0}
	if DisplayKind(it) != types.KindDead {
		t.Errorf("expected dead display kind, got %q", DisplayKind(it))
	}
	grass := types.Item{Kind: types.KindGrass}
	if DisplayKind(grass) != types.KindGrass {
		t.Errorf("terrain with zero hp must not display as dead")
	}
}

func TestHasBuilt(t *testing.T) {
	s := testState()

	if !HasBuilt(s, 1, types.KindFarm) {
		t.Error("expected unit 1 to have a farm")
	}
	if HasBuilt(s, 2, types.KindFarm) {
		t.Error("expected unit 2 to have no farm")
	}
}

func TestReplaceItem_DoesNotMutateInput(t *testing.T) {
	s := testState()

	it, _ := ItemByID(s, 1)
	it.HP = 1
	next := ReplaceItem(s, it)

	if next == s {
		t.Fatal("expected a new snapshot")
	}
	if got, _ := ItemByID(s, 1); got.HP != 5 {
		t.Errorf("input snapshot mutated: hp=%d", got.HP)
	}
	if got, _ := ItemByID(next, 1); got.HP != 1 {
		t.Errorf("expected hp 1 in new snapshot, got %d", got.HP)
	}
}

func TestReplaceItem_UnknownIDIsNoop(t *testing.T) {
	s := testState()

	if next := ReplaceItem(s, types.Item{ID: 42}); next != s {
		t.Error("expected same snapshot for unknown id")
	}
}

func TestRemoveItem(t *testing.T) {
	s := testState()

	next := RemoveItem(s, 3)
	if _, ok := ItemByID(next, 3); ok {
		t.Error("expected item 3 removed")
	}
	if len(s.Items) != 5 {
		t.Errorf("input snapshot mutated: %d items", len(s.Items))
	}
}

func TestAddItem_AllocatesFreshIDs(t *testing.T) {
	s := testState()

	next, id := AddItem(s, types.Item{Kind: types.KindWarehouse})
	if id != 6 {
		t.Errorf("expected id 6, got %d", id)
	}
	next, id2 := AddItem(next, types.Item{Kind: types.KindGrass})
	if id2 != 7 {
		t.Errorf("expected id 7, got %d", id2)
	}
	if next.NextID != 7 {
		t.Errorf("expected NextID 7, got %d", next.NextID)
	}
	if s.NextID != 5 {
		t.Errorf("input snapshot mutated: NextID=%d", s.NextID)
	}
}

func TestAppendEvents(t *testing.T) {
	s := testState()

	if AppendEvents(s) != s {
		t.Error("expected no-op for zero events")
	}
	next := AppendEvents(s, types.Event{ID: 1, Type: types.EventCropGrown})
	if len(next.Events) != 1 || len(s.Events) != 0 {
		t.Errorf("expected 1 event in new snapshot and 0 in old, got %d/%d", len(next.Events), len(s.Events))
	}
}
