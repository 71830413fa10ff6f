package tui

import (
	"fmt"
	"strings"

	"github.com/nathoo/brigands/session"
	"github.com/nathoo/brigands/types"
)

// renderMap draws the world grid with colored glyphs. The selected item's
// cell is shown in reverse video.
func renderMap(s *types.State, size int) string {
	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < size; x++ {
		fmt.Fprintf(&b, "%d ", x%10)
	}
	b.WriteByte('\n')

	for y, row := range session.Grid(s, size) {
		fmt.Fprintf(&b, "%2d ", y)
		for _, it := range row {
			if it.ID == 0 {
				b.WriteString("  ")
				continue
			}
			st := cellStyle(it)
			if onSelectedCell(s, it) {
				st = st.Inherit(styleSelected)
			}
			b.WriteString(st.Render(string(session.Glyph(it))))
			b.WriteByte(' ')
		}
		if y < size-1 {
			b.WriteByte('\n')
		}
	}
	return styleMapPanel.Render(b.String())
}

// onSelectedCell reports whether it is the top item of the cell holding the
// selected item, so a selected grass cell under a unit still shows.
func onSelectedCell(s *types.State, it types.Item) bool {
	for _, sel := range s.Items {
		if sel.ID == s.SelectedID {
			return sel.X == it.X && sel.Y == it.Y
		}
	}
	return false
}

// mapPanelWidth is the rendered width of the map panel for a grid size:
// row label, two columns per cell, padding and border.
func mapPanelWidth(size int) int {
	return 3 + 2*size + 2 + 2
}
