package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

// keyMap holds the shell's own bindings. Everything else goes to the
// text input.
type keyMap struct {
	Quit     key.Binding
	Submit   key.Binding
	Prev     key.Binding
	Next     key.Binding
	Scroll   key.Binding
	NextUnit key.Binding
	EndTurn  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command")),
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous command")),
		Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next command")),
		Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d"), key.WithHelp("pgup/pgdn", "scroll the log")),
		NextUnit: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select your next unit")),
		EndTurn:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "end the turn")),
	}
}

// helpLines describes the bindings for /help.
func (k keyMap) helpLines() []string {
	lines := []string{"Keys:"}
	for _, b := range []key.Binding{k.Submit, k.Prev, k.Next, k.Scroll, k.NextUnit, k.EndTurn, k.Quit} {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %-12s%s", h.Key, h.Desc))
	}
	return lines
}

// viewportKeyMap leaves Up and Down to the input history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
