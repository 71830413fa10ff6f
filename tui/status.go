package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/session"
	"github.com/nathoo/brigands/types"
)

// statusText returns the left and right halves of the status bar: turn,
// active player and the selected item on the left, seed or winner on the
// right.
func statusText(s *types.State) (left, right string) {
	parts := []string{
		fmt.Sprintf("Turn %d", s.Turn),
		fmt.Sprintf("%s to move", s.ActivePlayerID),
	}
	if sel, ok := state.SelectedItem(s); ok {
		desc := session.Label(sel)
		if state.IsUnit(sel.Kind) {
			desc += fmt.Sprintf(" hp %d ap %d", sel.HP, sel.AP)
			if n := len(sel.Resources); n > 0 {
				desc += fmt.Sprintf(" carrying %d", n)
			}
			if sel.Training {
				desc += " [training]"
			}
		}
		parts = append(parts, desc)
	}
	left = " " + strings.Join(parts, " | ")

	right = fmt.Sprintf("seed %d ", s.Seed)
	if s.Winner != "" {
		right = fmt.Sprintf("Winner: %s ", s.Winner)
	}
	return left, right
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	left, right := statusText(m.session.State)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
