package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/brigands/session"
	"github.com/nathoo/brigands/types"
)

// MetaResult is the outcome of a slash command.
type MetaResult struct {
	Lines []string
	Trace bool // the trace setting after the command
	Quit  bool
}

// Meta runs a slash command shared by both shells. Notices come back in
// brackets; help, state and behavior listings come back as plain lines.
func Meta(ss *session.Session, input string, trace bool) MetaResult {
	res := MetaResult{Trace: trace}
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return res
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "/quit", "/exit":
		res.Lines = []string{notice("Goodbye.")}
		res.Quit = true

	case "/help":
		res.Lines = HelpLines()

	case "/legend":
		res.Lines = []string{session.Legend()}

	case "/state":
		data, err := json.MarshalIndent(ss.State, "", "  ")
		if err != nil {
			res.Lines = []string{notice(fmt.Sprintf("State dump failed: %v", err))}
			break
		}
		res.Lines = strings.Split(string(data), "\n")

	case "/behaviors":
		res.Lines = BehaviorLines(ss.State.Behaviors)

	case "/trace":
		res.Trace = !trace
		if res.Trace {
			res.Lines = []string{notice("Trace output enabled.")}
		} else {
			res.Lines = []string{notice("Trace output disabled.")}
		}

	default:
		res.Lines = []string{notice(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))}
	}
	return res
}

// BehaviorLines lists the behavior table, one behavior per line with the
// events it reacts to and how many rules each has.
func BehaviorLines(b types.Behaviors) []string {
	if len(b) == 0 {
		return []string{notice("No behaviors learned yet.")}
	}
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		events := make([]string, 0, len(b[name]))
		for ev := range b[name] {
			events = append(events, ev)
		}
		sort.Strings(events)

		parts := make([]string, len(events))
		for i, ev := range events {
			parts[i] = fmt.Sprintf("%s (%d)", ev, len(b[name][ev].Actions))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(parts, ", ")))
	}
	return lines
}

// Recall remembers the last game command so "again" can repeat it.
type Recall struct {
	last string
}

// Resolve returns the command to run for input. It reports false when input
// asks to repeat and nothing has run yet.
func (r *Recall) Resolve(input string) (string, bool) {
	switch strings.ToLower(input) {
	case "again", "g":
		return r.last, r.last != ""
	}
	r.last = input
	return input, true
}

// NothingToRepeat is the reply to "again" before any command ran.
var NothingToRepeat = notice("Nothing to repeat.")

func notice(text string) string {
	return "[" + text + "]"
}
