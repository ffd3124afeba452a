// Package browse is an interactive terminal browser for one extraction:
// entities on the left, the document on the right with the selected
// entity highlighted.
package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/extractlens/internal/highlight"
	"github.com/ppiankov/extractlens/internal/session"
)

const (
	maxListWidth = 40
	chromeLines  = 2 // status and help
)

// entry is one selectable entity in the list
type entry struct {
	category string
	index    int
	text     string
}

// row is a list line: a group heading or an entry
type row struct {
	heading string
	entry   int // -1 for headings
}

// Model is the bubbletea model of the browser
type Model struct {
	ctrl   *session.Controller
	status *StatusLine
	styles *highlight.Styles
	keys   *KeyMap
	help   help.Model

	entries  []entry
	rows     []row
	cursor   int // position in entries
	selected int // position in entries, -1 when nothing is selected
	listTop  int // first visible row

	doc    viewport.Model
	width  int
	height int
	ready  bool
}

// New creates a browser over the controller's current result.
// status should be the notifier the controller was built with.
func New(ctrl *session.Controller, status *StatusLine, styles *highlight.Styles) *Model {
	if styles == nil {
		styles = highlight.NewStyles(nil)
	}
	if status == nil {
		status = &StatusLine{}
	}

	m := &Model{
		ctrl:     ctrl,
		status:   status,
		styles:   styles,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		selected: -1,
	}

	records := ctrl.Records()
	for _, g := range ctrl.Groups() {
		m.rows = append(m.rows, row{heading: fmt.Sprintf("%s (%d)", g.Label, len(g.Indices)), entry: -1})
		for i, idx := range g.Indices {
			m.rows = append(m.rows, row{entry: len(m.entries)})
			m.entries = append(m.entries, entry{category: g.Category, index: i, text: records[idx].Text})
		}
	}
	return m
}

// Init initialises the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Clear):
		m.ctrl.Deselect()
		m.selected = -1
		m.refresh()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.doc, cmd = m.doc.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggle() {
	if len(m.entries) == 0 {
		return
	}
	e := m.entries[m.cursor]

	_, active, err := m.ctrl.Toggle(e.category, e.index)
	if err != nil && !errors.Is(err, session.ErrNoMatch) {
		m.status.Notify(session.LevelError, err.Error())
	}

	m.selected = -1
	if active {
		m.selected = m.cursor
	}
	m.refresh()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	docWidth := width - m.listWidth() - 1
	docHeight := height - chromeLines
	if docWidth < 1 {
		docWidth = 1
	}
	if docHeight < 1 {
		docHeight = 1
	}

	if !m.ready {
		m.doc = viewport.New(docWidth, docHeight)
		m.ready = true
	} else {
		m.doc.Width = docWidth
		m.doc.Height = docHeight
	}
	m.help.Width = width
	m.refresh()
}

func (m *Model) listWidth() int {
	w := m.width / 3
	if w > maxListWidth {
		w = maxListWidth
	}
	return w
}

// refresh re-renders the document pane from the controller's active view
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	view := m.ctrl.Active()
	text := m.ctrl.Document()
	if view != nil {
		text = view.Terminal(m.styles)
	}
	m.doc.SetContent(lipgloss.NewStyle().Width(m.doc.Width).Render(text))

	if view == nil {
		m.doc.GotoTop()
		return
	}
	m.doc.SetYOffset(scrollLine(view.Document, view.Span.Start, m.doc.Width, m.doc.Height))
}

// scrollLine is the first visible line that puts the wrapped line holding
// offset in the middle of a pane of the given size
func scrollLine(document string, offset, width, height int) int {
	runes := []rune(document)
	if offset > len(runes) {
		offset = len(runes)
	}
	if offset < 0 {
		offset = 0
	}

	// Lines before the offset count in full, the line holding it up to the offset
	style := lipgloss.NewStyle().Width(width)
	lines := strings.Split(string(runes[:offset]), "\n")
	line := 0
	for i, l := range lines {
		h := 1
		if width > 0 && l != "" {
			h = lipgloss.Height(style.Render(l))
		}
		if i == len(lines)-1 {
			h--
		}
		line += h
	}

	top := line - height/2
	if top < 0 {
		return 0
	}
	return top
}

// View renders the model
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	list := lipgloss.NewStyle().
		Width(m.listWidth()).
		Height(m.doc.Height).
		Render(m.renderList())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", m.doc.View())

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderList() string {
	if len(m.rows) == 0 {
		return m.styles.Muted.Render("No extractions found.")
	}

	visible := m.doc.Height
	cursorRow := m.cursorRow()
	if cursorRow < m.listTop {
		m.listTop = cursorRow
	}
	if cursorRow >= m.listTop+visible {
		m.listTop = cursorRow - visible + 1
	}

	width := m.listWidth()
	var lines []string
	for i := m.listTop; i < len(m.rows) && i < m.listTop+visible; i++ {
		r := m.rows[i]
		if r.entry < 0 {
			lines = append(lines, m.styles.Heading.Render(truncate(r.heading, width)))
			continue
		}

		prefix := "  "
		if r.entry == m.cursor {
			prefix = "› "
		}
		text := truncate(m.entries[r.entry].text, width-len([]rune(prefix)))
		if r.entry == m.selected {
			text = m.styles.Mark.Render(text)
		}
		lines = append(lines, prefix+text)
	}
	return strings.Join(lines, "\n")
}

// cursorRow maps the cursor to its row so headings scroll with entries
func (m *Model) cursorRow() int {
	for i, r := range m.rows {
		if r.entry == m.cursor {
			return i
		}
	}
	return 0
}

func (m *Model) renderStatus() string {
	level, message := m.status.Current()
	switch level {
	case session.LevelError:
		return m.styles.Warning.Render("✗ " + message)
	case session.LevelSuccess:
		return "✓ " + message
	default:
		if message == "" {
			return ""
		}
		return m.styles.Muted.Render("• " + message)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
