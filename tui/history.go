// Package tui provides a Bubble Tea terminal UI for the brigands world: a
// map panel, a scrolling log, a status bar and a command line.
package tui

import "strings"

// History keeps the last commands typed, oldest first, and a cursor for
// walking back through them with the arrow keys.
type History struct {
	entries []string
	limit   int
	cursor  int // -1 while not browsing
}

// NewHistory creates a history that remembers up to limit commands.
func NewHistory(limit int) *History {
	return &History{
		entries: make([]string, 0, limit),
		limit:   limit,
		cursor:  -1,
	}
}

// Push records a command. Blank commands and repeats of the newest entry
// are not recorded.
func (h *History) Push(cmd string) {
	if strings.TrimSpace(cmd) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns how many commands are remembered.
func (h *History) Len() int {
	return len(h.entries)
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward to a newer command. Past the newest it stops browsing
// and reports false, so the caller can clear the input.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor stops browsing.
func (h *History) ResetCursor() {
	h.cursor = -1
}
