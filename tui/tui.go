package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/brigands/cli"
	"github.com/nathoo/brigands/session"
)

// logLine is one unstyled log entry. Lines are re-wrapped and re-styled
// whenever the log width changes.
type logLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model: the map panel, the log, a status bar and
// the command input.
type Model struct {
	session *session.Session
	keys    keyMap

	log      viewport.Model
	input    textinput.Model
	history  *History
	recall   cli.Recall
	lines    []logLine
	trace    bool
	ready    bool
	quitting bool

	width, height int
}

// outputMsg carries session output into Update.
type outputMsg struct {
	input string // echoed command, empty for the intro
	lines []string
}

// New creates a model on top of a session.
func New(ss *session.Session) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		session: ss,
		keys:    defaultKeyMap(),
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the program on the alternate screen. trace turns on trace
// output from the start, like /trace.
func Run(ss *session.Session, trace bool) error {
	m := New(ss)
	m.trace = trace
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Init greets the player and announces whose turn it is.
func (m Model) Init() tea.Cmd {
	s := m.session.State
	intro := outputMsg{lines: []string{
		"Brigands. Type /help for commands.",
		fmt.Sprintf("Turn %d: %s to move.", s.Turn, s.ActivePlayerID),
	}}
	return tea.Batch(textinput.Blink, func() tea.Msg { return intro })
}

// Update handles resizes, keys and session output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			line := m.input.Value()
			m.input.SetValue("")
			return m.submit(line)
		case key.Matches(msg, m.keys.Prev):
			if prev, ok := m.history.Prev(); ok {
				m.setInput(prev)
			}
			return m, nil
		case key.Matches(msg, m.keys.Next):
			next, ok := m.history.Next()
			if !ok {
				m.history.ResetCursor()
			}
			m.setInput(next)
			return m, nil
		case key.Matches(msg, m.keys.Scroll):
			var cmd tea.Cmd
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.NextUnit):
			m = m.appendOutput(outputMsg{lines: m.session.SelectNext().Output})
			return m, nil
		case key.Matches(msg, m.keys.EndTurn):
			return m.submit("end")
		}

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// resize fits the log beside the map panel, or alone on a narrow terminal.
func (m *Model) resize() {
	w, h := m.logSize()
	if !m.ready {
		m.log = viewport.New(w, h)
		m.log.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.log.Width, m.log.Height = w, h
	}
	m.refreshLog()
}

// showMap reports whether the terminal is wide enough for the map panel
// beside the log.
func (m Model) showMap() bool {
	return m.width >= mapPanelWidth(m.gridSize())+20
}

func (m Model) gridSize() int {
	return m.session.Engine.Tuning.GridSize
}

// logSize leaves one row for the status bar and one for the input.
func (m Model) logSize() (width, height int) {
	width = m.width
	if m.showMap() {
		width -= mapPanelWidth(m.gridSize())
	}
	return width, max(m.height-2, 1)
}

// submit runs one command line: a slash command, "again", or a game
// command for the session.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(line)
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()

	if strings.HasPrefix(input, "/") {
		res := cli.Meta(m.session, input, m.trace)
		m.trace = res.Trace
		lines := res.Lines
		if strings.EqualFold(strings.Fields(input)[0], "/help") {
			lines = append(append(lines, ""), m.keys.helpLines()...)
		}
		m = m.appendOutput(outputMsg{input: input, lines: lines})
		if res.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	cmd, ok := m.recall.Resolve(input)
	if !ok {
		return m.appendOutput(outputMsg{input: input, lines: []string{cli.NothingToRepeat}}), nil
	}
	result := m.session.Step(cmd)
	lines := result.Output
	if m.trace {
		lines = append(lines, cli.TraceLines(result)...)
	}
	return m.appendOutput(outputMsg{input: input, lines: lines}), nil
}

// appendOutput logs the echoed command and its replies, followed by a
// blank separator.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.lines = append(m.lines, logLine{text: "> " + msg.input, kind: kindInput})
	}
	for _, text := range msg.lines {
		m.lines = append(m.lines, logLine{text: text, kind: classifyLine(text)})
	}
	m.lines = append(m.lines, logLine{})
	m.refreshLog()
	return m
}

// refreshLog re-wraps the log at the current width and scrolls to the end.
func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	width := max(m.log.Width, 10)

	styled := make([]string, len(m.lines))
	for i, l := range m.lines {
		if l.text != "" {
			styled[i] = renderLineKind(wordWrap(l.text, width), l.kind)
		}
	}
	m.log.SetContent(strings.Join(styled, "\n"))
	m.log.GotoBottom()
}

// wordWrap breaks text at spaces to fit width. Lines that already fit,
// such as map rows, are returned unchanged.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	col := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
		case col+1+len(word) > width:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	return b.String()
}

// View lays out the map and the log side by side, then the status bar
// and the input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.log.View()
	if m.showMap() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, renderMap(m.session.State, m.gridSize()), body)
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}
