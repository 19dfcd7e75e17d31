package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/1broseidon/quicklaunch/internal/interpret"
	"github.com/1broseidon/quicklaunch/internal/search"
)

const (
	placeholderText = "Search or type a command…"
	infoText        = "Type a command or search query. Matches will appear below as you type."
)

var (
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	openedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// resultRow is a list row backed by a search result.
type resultRow struct {
	result search.Result
}

func (r resultRow) Title() string { return search.FormatResult(r.result) }

func (r resultRow) Description() string {
	e := r.result.Entry
	if e.Path == "" {
		// The no-index stub has nothing to describe.
		return ""
	}
	return humanize.Bytes(uint64(e.Size)) + " | " + humanize.Time(e.ModTime)
}

func (r resultRow) FilterValue() string { return r.result.Entry.Title }

// suggestionRow is the inert LLM suggestion appended after the results.
type suggestionRow struct {
	text string
}

func (s suggestionRow) Title() string       { return "LLM: " + s.text }
func (s suggestionRow) Description() string { return "suggestion" }
func (s suggestionRow) FilterValue() string { return s.text }

// suggestionMsg carries an async interpreter response back to the model.
// The query tags the response so stale answers are dropped.
type suggestionMsg struct {
	query string
	text  string
}

func fetchSuggestion(client *interpret.Client, query string) tea.Cmd {
	return func() tea.Msg {
		return suggestionMsg{
			query: query,
			text:  client.Interpret(context.Background(), query),
		}
	}
}

// model is the root bubbletea model for the launcher screen.
type model struct {
	opts       Options
	input      textinput.Model
	list       list.Model
	suggestion string // current LLM row text ("" when none)
	status     string // transient line under the list
	opened     bool   // status line shows a success, not an error

	width  int
	height int
}

func newModel(opts Options) model {
	ti := textinput.New()
	ti.Placeholder = placeholderText
	ti.CharLimit = 256
	ti.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	return model{
		opts:  opts,
		input: ti,
		list:  l,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			return m.launchSelection(), nil

		case "up", "down", "pgup", "pgdown", "ctrl+p", "ctrl+n":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.requery())

	case suggestionMsg:
		// Only the answer for the current query is interesting, and only
		// when the model actually rewrote it.
		if msg.query == m.query() && msg.text != msg.query {
			m.suggestion = msg.text
			m.refreshRows()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width-4, 10)
		m.list.SetSize(m.width, max(m.height-4, 1))
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) query() string {
	return strings.TrimSpace(m.input.Value())
}

// requery rebuilds the rows for the current input and, when the interpreter
// is configured, kicks off an async suggestion fetch.
func (m *model) requery() tea.Cmd {
	m.suggestion = ""
	m.status = ""
	m.refreshRows()

	query := m.query()
	if query != "" && m.opts.Interpreter.Enabled() {
		return fetchSuggestion(m.opts.Interpreter, query)
	}
	return nil
}

func (m *model) refreshRows() {
	query := m.query()

	var rows []list.Item
	switch {
	case query == "":
		// Nothing typed yet; show an empty list under the prompt.
	case m.opts.Index == nil:
		rows = append(rows, resultRow{result: search.StubResult(query)})
	default:
		for _, r := range m.opts.Index.Search(query, m.opts.Limit) {
			rows = append(rows, resultRow{result: r})
		}
	}

	if m.suggestion != "" {
		rows = append(rows, suggestionRow{text: m.suggestion})
	}

	m.list.SetItems(rows)
	m.list.ResetSelected()
}

func (m model) launchSelection() model {
	row, ok := m.list.SelectedItem().(resultRow)
	if !ok || row.result.Entry.Path == "" {
		return m
	}

	if err := m.opts.Opener(row.result.Entry.Path); err != nil {
		m.status = err.Error()
		m.opened = false
		return m
	}
	m.status = fmt.Sprintf("opened %s", row.result.Entry.Title)
	m.opened = true
	return m
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := " "
	if m.status != "" {
		if m.opened {
			status = openedStyle.Render(m.status)
		} else {
			status = statusStyle.Render(m.status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		infoStyle.Render(infoText),
		m.list.View(),
		status,
	)
}
