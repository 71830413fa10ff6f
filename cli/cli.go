// Package cli is the plain line shell for the brigands world. It also holds
// the slash commands and trace output the TUI shares.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/brigands/session"
	"github.com/nathoo/brigands/types"
)

// CLI reads commands from In and writes replies to Out.
type CLI struct {
	Session   *session.Session
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each command after the prompt, for script playback

	recall Recall
}

// New creates a CLI on stdin and stdout.
func New(ss *session.Session) *CLI {
	return &CLI{
		Session: ss,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run prints the intro and the starting map, then reads commands until
// /quit or the end of input.
func (c *CLI) Run() {
	c.println("Brigands. Type /help for commands.", "")
	c.println(c.Session.Step("map").Output...)

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "> ")
		if !scanner.Scan() {
			return
		}
		if c.handle(scanner.Text()) {
			return
		}
	}
}

// handle runs one input line and reports whether the shell should exit.
// Blank lines and # comments are ignored.
func (c *CLI) handle(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" || strings.HasPrefix(input, "#") {
		return false
	}
	if c.EchoInput {
		c.println(input)
	}

	if strings.HasPrefix(input, "/") {
		res := Meta(c.Session, input, c.Trace)
		c.Trace = res.Trace
		c.println(res.Lines...)
		return res.Quit
	}

	cmd, ok := c.recall.Resolve(input)
	if !ok {
		c.println(NothingToRepeat)
		return false
	}
	result := c.Session.Step(cmd)
	c.println(result.Output...)
	if c.Trace {
		c.println(TraceLines(result)...)
	}
	return false
}

// HelpLines lists the slash commands and game commands.
func HelpLines() []string {
	return []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /legend       Explain the map characters",
		"  /behaviors    List learned behaviors and their rule counts",
		"  /state        Debug: dump the current snapshot as JSON",
		"  /trace        Toggle debug trace output",
		"",
		"Game commands:",
		"  select <unit> (sel)        Select by id, name or label; select next cycles your units",
		"  move <target> (go, m)      Step toward a unit, enemy, home or a kind like crop",
		"  attack [target] (a, hit)   Hit an adjacent enemy",
		"  build farm / warehouse     Build on the grass you stand on",
		"  plant / harvest            Plant a crop next to your farm, or reap a grown one",
		"  load / unload              Take or store crops at a farm or warehouse",
		"  train [event] (t)          Record the orders you give for an event",
		"  finish (done)              Store the recorded orders as behavior",
		"  auto                       Let the selected unit act on its behavior",
		"  end (e)                    Auto-play your units and end the turn",
		"  restart [seed]             Start a new world, keeping learned behavior",
		"  map (l) / unit [unit] / events",
		"  again (g)                  Repeat your last command",
	}
}

// TraceLines describes the actions and events behind a result.
func TraceLines(result types.Result) []string {
	var lines []string
	if len(result.Actions) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Actions: %d", len(result.Actions)))
		for _, a := range result.Actions {
			line := fmt.Sprintf("[trace]   %s agent=%s", a.Type, refString(a.Agent))
			if a.Target != nil {
				line += " target=" + refString(*a.Target)
			}
			lines = append(lines, line)
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s turn=%d item=%d", e.Type, e.Turn, e.ItemID))
		}
	}
	return lines
}

func refString(r types.Ref) string {
	switch r.Kind {
	case types.RefItem:
		return fmt.Sprintf("#%d", r.ID)
	case types.RefNearestKind:
		return "nearest " + string(r.ItemKind)
	default:
		return string(r.Kind)
	}
}

func (c *CLI) println(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(c.Out, line)
	}
}
