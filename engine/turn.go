package engine

import (
	"github.com/nathoo/brigands/engine/events"
	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// endTurn closes the active player's turn. The steps run in a fixed order
// and all read the pre-advance player and turn:
//
//  1. refill AP of everything the active player owns
//  2. grow planted items that are old enough into crops
//  3. tell each builder about its grown crops (local CropGrown)
//  4. keep only the events stamped with the current turn
//  5. queue those events on the active player's units that react to them
//  6. pass play to the next player
//  7. after the last player, advance the turn
func (e *Engine) endTurn(s *types.State) *types.State {
	active := s.ActivePlayerID
	next := state.Clone(s)

	items := make([]types.Item, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].OwnerID == active {
			items[i].AP = e.Tuning.MaxAP
		}
	}

	var grown []types.Event
	for i := range items {
		it := &items[i]
		if it.Kind != types.KindPlanted || it.CreatedTurn+e.Tuning.GrowthTurns > s.Turn {
			continue
		}
		it.Kind = types.KindCrop
		next.NextID++
		grown = append(grown, types.Event{
			ID:      next.NextID,
			Type:    types.EventCropGrown,
			Turn:    s.Turn,
			ItemID:  it.ID,
			Local:   true,
			AgentID: it.BuilderID,
		})
	}
	next.Items = items

	pending := make([]types.Event, 0, len(s.Events)+len(grown))
	pending = append(pending, s.Events...)
	pending = append(pending, grown...)
	next.Events = events.Retain(pending, s.Turn)

	next = events.Deliver(next, active, next.Events)

	players := s.Players
	if len(players) == 0 {
		players = e.Tuning.Players
	}
	idx := indexOfPlayer(players, active)
	if len(players) > 0 {
		next.ActivePlayerID = players[(idx+1)%len(players)]
	}
	if idx >= 0 && idx == len(players)-1 {
		next.Turn++
	}

	next.Winner = winner(next, players)
	if next.Winner != "" && s.Winner == "" {
		e.Logger.Info("game won", "winner", next.Winner, "turn", s.Turn)
	}
	e.Logger.Info("turn ended", "player", active, "turn", next.Turn, "next_player", next.ActivePlayerID,
		"crops_grown", len(grown), "events", len(next.Events))
	return next
}

func indexOfPlayer(players []string, id string) int {
	for i, p := range players {
		if p == id {
			return i
		}
	}
	return -1
}

// winner returns the only player that still has a living unit, or "" while
// more than one does. A player without units counts as eliminated.
func winner(s *types.State, players []string) string {
	alive := make(map[string]bool, len(players))
	for _, it := range s.Items {
		if state.IsUnit(it.Kind) && !state.IsDead(it) {
			alive[it.OwnerID] = true
		}
	}
	survivor := ""
	for _, p := range players {
		if !alive[p] {
			continue
		}
		if survivor != "" {
			return ""
		}
		survivor = p
	}
	return survivor
}
