package engine

import (
	"sort"

	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

type cell struct{ x, y int }

// Generate builds a fresh world from seed. Units and terrain are placed on
// two independent shuffles of the grid, so units share cells with terrain.
// Every cell gets exactly one terrain item: the scattered kinds first, the
// rest grass. The same seed and tuning always yield the same world.
func (e *Engine) Generate(seed int64, behaviors types.Behaviors) *types.State {
	return e.generate(seed, behaviors, 0)
}

// generate allocates ids above floor, so a restarted world never hands out
// an id the previous one used.
func (e *Engine) generate(seed int64, behaviors types.Behaviors, floor int) *types.State {
	t := e.Tuning
	rng := NewRNG(seed)
	nextID := floor
	alloc := func() int {
		nextID++
		return nextID
	}

	var items []types.Item

	unitCells := shuffledCells(rng, t.GridSize)
	for i, spec := range t.Roster {
		c := unitCells[i]
		items = append(items, types.Item{
			ID:           alloc(),
			X:            c.x,
			Y:            c.y,
			Kind:         spec.Kind,
			HP:           t.UnitHP,
			AP:           t.MaxAP,
			OwnerID:      spec.Owner,
			BehaviorName: spec.Behavior,
			ActiveEvent:  types.Event{Type: types.EventDefault},
		})
	}

	kinds := make([]string, 0, len(t.Scatter))
	for k := range t.Scatter {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	terrainCells := shuffledCells(rng, t.GridSize)
	for _, k := range kinds {
		for n := 0; n < t.Scatter[types.Kind(k)] && len(terrainCells) > 0; n++ {
			c := terrainCells[0]
			terrainCells = terrainCells[1:]
			items = append(items, types.Item{ID: alloc(), X: c.x, Y: c.y, Kind: types.Kind(k)})
		}
	}
	for _, c := range terrainCells {
		items = append(items, types.Item{ID: alloc(), X: c.x, Y: c.y, Kind: types.KindGrass})
	}

	s := &types.State{
		Turn:      0,
		Players:   append([]string(nil), t.Players...),
		Items:     items,
		Behaviors: behaviors,
		Seed:      seed,
	}
	if len(t.Players) > 0 {
		s.ActivePlayerID = t.Players[0]
	}
	if len(t.Roster) > 0 {
		s.SelectedID = items[0].ID
	}
	if s.Behaviors == nil {
		s.Behaviors = types.Behaviors{}
	}

	if enemy, ok := firstEnemyUnit(items, s.ActivePlayerID); ok {
		s.Events = append(s.Events, types.Event{ID: alloc(), Type: types.EventEnemySpotted, ItemID: enemy.ID})
	}
	s.Events = append(s.Events, types.Event{ID: alloc(), Type: types.EventGameStarted})
	s.NextID = nextID

	e.Logger.Debug("world generated", "seed", seed, "items", len(items), "first_id", floor+1, "draws", rng.Position())
	return s
}

func shuffledCells(rng *RNG, size int) []cell {
	cells := make([]cell, 0, size*size)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			cells = append(cells, cell{x, y})
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	return cells
}

func firstEnemyUnit(items []types.Item, player string) (types.Item, bool) {
	for _, it := range items {
		if state.IsUnit(it.Kind) && it.OwnerID != player {
			return it, true
		}
	}
	return types.Item{}, false
}
