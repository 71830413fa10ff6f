package session

import (
	"fmt"
	"strings"

	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

var glyphs = map[types.Kind]rune{
	types.KindHuman:     '@',
	types.KindEnemy:     '&',
	types.KindDead:      'x',
	types.KindGrass:     '.',
	types.KindPath:      ':',
	types.KindTree:      'T',
	types.KindRock:      '^',
	types.KindWater:     '~',
	types.KindFarm:      '#',
	types.KindWarehouse: 'W',
	types.KindPlanted:   ',',
	types.KindCrop:      '*',
}

// Glyph returns the map character for an item.
func Glyph(it types.Item) rune {
	if g, ok := glyphs[state.DisplayKind(it)]; ok {
		return g
	}
	return '?'
}

// Legend explains the map characters.
func Legend() string {
	return "@ human  & brigand  x dead  . grass  : path  T tree  ^ rock  ~ water  # farm  W warehouse  , planted  * crop"
}

// layer orders what a map cell shows: living units over dead ones over
// buildings over terrain.
func layer(it types.Item) int {
	switch {
	case state.IsUnit(it.Kind) && !state.IsDead(it):
		return 3
	case state.IsUnit(it.Kind):
		return 2
	case it.Kind == types.KindFarm, it.Kind == types.KindWarehouse,
		it.Kind == types.KindPlanted, it.Kind == types.KindCrop:
		return 1
	default:
		return 0
	}
}

// Grid returns the top item of every cell, indexed [y][x]. Cells with no
// item hold a zero Item.
func Grid(s *types.State, size int) [][]types.Item {
	grid := make([][]types.Item, size)
	for y := range grid {
		grid[y] = make([]types.Item, size)
	}
	for _, it := range s.Items {
		if it.X < 0 || it.Y < 0 || it.X >= size || it.Y >= size {
			continue
		}
		cur := grid[it.Y][it.X]
		if cur.ID == 0 || layer(it) > layer(cur) {
			grid[it.Y][it.X] = it
		}
	}
	return grid
}

// MapLines renders the world as text, one row per line, with column and
// row numbers.
func MapLines(s *types.State, size int) []string {
	var header strings.Builder
	header.WriteString("   ")
	for x := 0; x < size; x++ {
		fmt.Fprintf(&header, "%d ", x%10)
	}
	lines := []string{strings.TrimRight(header.String(), " ")}

	for y, row := range Grid(s, size) {
		var b strings.Builder
		fmt.Fprintf(&b, "%2d ", y)
		for _, it := range row {
			g := ' '
			if it.ID != 0 {
				g = Glyph(it)
			}
			b.WriteRune(g)
			b.WriteByte(' ')
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	if sel, ok := state.SelectedItem(s); ok {
		lines = append(lines, fmt.Sprintf("selected: %s at (%d, %d)", Label(sel), sel.X, sel.Y))
	}
	return lines
}

// Label names an item for narration, e.g. "farmer #3".
func Label(it types.Item) string {
	name := it.BehaviorName
	if name == "" {
		name = string(state.DisplayKind(it))
	}
	return fmt.Sprintf("%s #%d", name, it.ID)
}

// UnitCard describes one item in detail.
func UnitCard(s *types.State, id int) ([]string, bool) {
	it, ok := state.ItemByID(s, id)
	if !ok {
		return nil, false
	}
	lines := []string{
		fmt.Sprintf("%s (%s) at (%d, %d)", Label(it), state.DisplayKind(it), it.X, it.Y),
	}
	if !state.IsUnit(it.Kind) {
		if it.BuilderID != 0 {
			lines = append(lines, fmt.Sprintf("  built by #%d on turn %d", it.BuilderID, it.CreatedTurn))
		}
		if len(it.Resources) > 0 {
			lines = append(lines, "  stores: "+strings.Join(it.Resources, ", "))
		}
		return lines, true
	}

	lines = append(lines,
		fmt.Sprintf("  owner %s  hp %d  ap %d", it.OwnerID, it.HP, it.AP),
		fmt.Sprintf("  carrying: %s", orNone(it.Resources)),
		fmt.Sprintf("  active event: %s", orDash(it.ActiveEvent.Type)),
		fmt.Sprintf("  queued events: %d  rules: %d", len(it.Events), len(it.ConditionalActions)),
	)
	if it.LastAction != nil {
		lines = append(lines, fmt.Sprintf("  last action: %s", it.LastAction.Type))
	}
	if it.Training && it.BehaviorTraining != nil {
		tr := it.BehaviorTraining
		lines = append(lines, fmt.Sprintf("  training %s for %s: %d action(s) recorded",
			tr.BehaviorName, tr.EventType, len(tr.Actions)))
	}
	return lines, true
}

// EventLines lists the world events of the current turn and the events
// queued on the selected unit.
func EventLines(s *types.State) []string {
	lines := []string{fmt.Sprintf("Events on turn %d:", s.Turn)}
	if len(s.Events) == 0 {
		lines = append(lines, "  none")
	}
	for _, e := range s.Events {
		lines = append(lines, "  "+eventLine(e))
	}
	if sel, ok := state.SelectedItem(s); ok && state.IsUnit(sel.Kind) {
		lines = append(lines, fmt.Sprintf("Queued on %s:", Label(sel)))
		if len(sel.Events) == 0 {
			lines = append(lines, "  none")
		}
		for _, e := range sel.Events {
			lines = append(lines, "  "+eventLine(e))
		}
	}
	return lines
}

func eventLine(e types.Event) string {
	line := fmt.Sprintf("%s (turn %d", e.Type, e.Turn)
	if e.ItemID != 0 {
		line += fmt.Sprintf(", from #%d", e.ItemID)
	}
	if e.Local {
		line += fmt.Sprintf(", for #%d", e.AgentID)
	}
	if e.Resource != "" {
		line += ", " + e.Resource
	}
	return line + ")"
}

var trainableEvents = []string{
	types.EventDefault,
	types.EventCropGrown,
	types.EventResourcePickup,
	types.EventEnemySpotted,
	types.EventGameStarted,
}

// EventType matches a typed event name case-insensitively. "default" is
// accepted for DefaultEvent.
func EventType(name string) (string, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "")
	if strings.EqualFold(name, "default") {
		return types.EventDefault, true
	}
	for _, e := range trainableEvents {
		if strings.EqualFold(e, name) {
			return e, true
		}
	}
	return "", false
}

func orNone(rs []string) string {
	if len(rs) == 0 {
		return "nothing"
	}
	return strings.Join(rs, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
