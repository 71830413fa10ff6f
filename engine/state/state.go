// Package state is the item store: lookups over the flat item list of a
// snapshot, plus copy-on-write helpers that produce the next snapshot.
// Nothing in this package mutates a *types.State it was given.
package state

import "github.com/nathoo/brigands/types"

// IsUnit reports whether items of this kind are units.
func IsUnit(k types.Kind) bool {
	return k == types.KindHuman || k == types.KindEnemy
}

// IsDead reports whether a unit has run out of hp.
func IsDead(it types.Item) bool {
	return IsUnit(it.Kind) && it.HP <= 0
}

// DisplayKind is the kind a view should show: dead units display as dead.
func DisplayKind(it types.Item) types.Kind {
	if IsDead(it) {
		return types.KindDead
	}
	return it.Kind
}

// ItemByID returns the item with the given id.
func ItemByID(s *types.State, id int) (types.Item, bool) {
	if i := indexOf(s, id); i >= 0 {
		return s.Items[i], true
	}
	return types.Item{}, false
}

// ItemsByOwner returns all items owned by a player, in store order.
func ItemsByOwner(s *types.State, ownerID string) []types.Item {
	var result []types.Item
	for _, it := range s.Items {
		if it.OwnerID == ownerID {
			result = append(result, it)
		}
	}
	return result
}

// ItemsAtCell returns every item on (x, y): at most one terrain or building
// entry plus any units standing there.
func ItemsAtCell(s *types.State, x, y int) []types.Item {
	var result []types.Item
	for _, it := range s.Items {
		if it.X == x && it.Y == y {
			result = append(result, it)
		}
	}
	return result
}

// ItemAtCellOfKind returns the first item of the given kind on (x, y).
func ItemAtCellOfKind(s *types.State, x, y int, kind types.Kind) (types.Item, bool) {
	for _, it := range s.Items {
		if it.X == x && it.Y == y && it.Kind == kind {
			return it, true
		}
	}
	return types.Item{}, false
}

// SelectedItem returns the item the player has selected.
func SelectedItem(s *types.State) (types.Item, bool) {
	return ItemByID(s, s.SelectedID)
}

// Units returns all unit items, dead or alive.
func Units(s *types.State) []types.Item {
	var result []types.Item
	for _, it := range s.Items {
		if IsUnit(it.Kind) {
			result = append(result, it)
		}
	}
	return result
}

// EnemyItems returns the units that do not belong to the active player.
func EnemyItems(s *types.State) []types.Item {
	var result []types.Item
	for _, it := range s.Items {
		if IsUnit(it.Kind) && it.OwnerID != s.ActivePlayerID {
			result = append(result, it)
		}
	}
	return result
}

// PendingEvents returns the world events retained for the current turn.
func PendingEvents(s *types.State) []types.Event {
	return s.Events
}

// ActivePlayerID returns the player whose turn it is.
func ActivePlayerID(s *types.State) string {
	return s.ActivePlayerID
}

// HasBuilt reports whether builderID has built an item of the given kind.
func HasBuilt(s *types.State, builderID int, kind types.Kind) bool {
	_, ok := BuiltBy(s, builderID, kind)
	return ok
}

// BuiltBy returns the first item of the given kind built by builderID.
func BuiltBy(s *types.State, builderID int, kind types.Kind) (types.Item, bool) {
	for _, it := range s.Items {
		if it.Kind == kind && it.BuilderID == builderID {
			return it, true
		}
	}
	return types.Item{}, false
}

// Clone returns a shallow copy of the snapshot. Slices and maps are shared;
// callers replace them wholesale instead of writing through them.
func Clone(s *types.State) *types.State {
	next := *s
	return &next
}

// ReplaceItem returns a new snapshot with the item of the same id replaced.
// Unknown ids return s unchanged.
func ReplaceItem(s *types.State, it types.Item) *types.State {
	i := indexOf(s, it.ID)
	if i < 0 {
		return s
	}
	items := make([]types.Item, len(s.Items))
	copy(items, s.Items)
	items[i] = it
	next := Clone(s)
	next.Items = items
	return next
}

// RemoveItem returns a new snapshot without the item. Unknown ids return s
// unchanged.
func RemoveItem(s *types.State, id int) *types.State {
	i := indexOf(s, id)
	if i < 0 {
		return s
	}
	items := make([]types.Item, 0, len(s.Items)-1)
	items = append(items, s.Items[:i]...)
	items = append(items, s.Items[i+1:]...)
	next := Clone(s)
	next.Items = items
	return next
}

// AddItem allocates a fresh id for it, appends it, and returns the new
// snapshot together with the id. Ids are never reused.
func AddItem(s *types.State, it types.Item) (*types.State, int) {
	id := NextID(s)
	it.ID = id
	items := make([]types.Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	items = append(items, it)
	next := Clone(s)
	next.Items = items
	next.NextID = id
	return next, id
}

// NextID returns the id the next created entity will receive.
func NextID(s *types.State) int {
	return s.NextID + 1
}

// AllocID returns a new snapshot with one id reserved, and that id.
func AllocID(s *types.State) (*types.State, int) {
	next := Clone(s)
	next.NextID = NextID(s)
	return next, next.NextID
}

// AppendEvents returns a new snapshot with events appended to the world
// event list.
func AppendEvents(s *types.State, evts ...types.Event) *types.State {
	if len(evts) == 0 {
		return s
	}
	events := make([]types.Event, 0, len(s.Events)+len(evts))
	events = append(events, s.Events...)
	events = append(events, evts...)
	next := Clone(s)
	next.Events = events
	return next
}

func indexOf(s *types.State, id int) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
