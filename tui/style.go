package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/brigands/engine/state"
	"github.com/nathoo/brigands/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleTraining = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMapPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	styleSelected = lipgloss.NewStyle().Reverse(true)
)

// Map colors by displayed kind.
var kindColors = map[types.Kind]lipgloss.Color{
	types.KindHuman:     "39",
	types.KindEnemy:     "196",
	types.KindDead:      "240",
	types.KindGrass:     "28",
	types.KindPath:      "137",
	types.KindTree:      "22",
	types.KindRock:      "250",
	types.KindWater:     "27",
	types.KindFarm:      "178",
	types.KindWarehouse: "172",
	types.KindPlanted:   "106",
	types.KindCrop:      "226",
}

// cellStyle returns the map style for an item.
func cellStyle(it types.Item) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := kindColors[state.DisplayKind(it)]; ok {
		st = st.Foreground(c)
	}
	if state.IsUnit(it.Kind) && !state.IsDead(it) {
		st = st.Bold(true)
	}
	return st
}

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTurn
	kindTraining
	kindSystem
	kindError
	kindTrace
	kindInput
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Turn "),
		strings.Contains(line, " wins on turn "),
		strings.HasPrefix(line, "A new world"):
		return kindTurn
	case strings.Contains(line, "(recorded)"),
		strings.Contains(line, " is learning "),
		strings.Contains(line, " learned "):
		return kindTraining
	case strings.Contains(line, " can't "),
		strings.Contains(line, "no action points"),
		strings.HasPrefix(line, "I don't know"),
		strings.HasPrefix(line, "There is nothing"),
		strings.HasPrefix(line, "Which "),
		strings.HasPrefix(line, "Unknown event"),
		strings.Contains(line, " belongs to "),
		strings.HasPrefix(line, "The game is over"):
		return kindError
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurn:
		return styleTurn.Render(line)
	case kindTraining:
		return styleTraining.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	case kindInput:
		return stylePlayerInput.Render(line)
	default:
		return styleNarration.Render(line)
	}
}
