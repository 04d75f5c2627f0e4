package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/suggest"
)

// suggestDebounce delays suggestion fetches while the user is still typing.
const suggestDebounce = 150 * time.Millisecond

// SearchFunc runs a committed search.
type SearchFunc func(ctx context.Context, query string) ([]search.Result, []search.Outcome)

// SuggestFunc fetches suggestions for a partial query.
type SuggestFunc func(ctx context.Context, partial string) []suggest.Suggestion

// Browser is an interactive search session: type to see live suggestions,
// tab to accept one, enter to search.
type Browser struct {
	program *tea.Program
}

// NewBrowser creates the interactive browser. Both functions are called
// from the bubbletea event loop.
func NewBrowser(searchFn SearchFunc, suggestFn SuggestFunc, noColor bool) *Browser {
	model := newBrowserModel(searchFn, suggestFn, noColor || DetectNoColor())
	return &Browser{program: tea.NewProgram(model, tea.WithAltScreen())}
}

// Run blocks until the user quits.
func (b *Browser) Run() error {
	_, err := b.program.Run()
	return err
}

// Message types for bubbletea.
type suggestionsMsg struct {
	seq         int
	suggestions []suggest.Suggestion
}

type resultsMsg struct {
	query    string
	results  []search.Result
	degraded []string
}

type debounceMsg struct {
	seq int
}

type browserModel struct {
	searchFn  SearchFunc
	suggestFn SuggestFunc

	input       textinput.Model
	suggestions []suggest.Suggestion
	selected    int
	results     []search.Result
	degraded    []string
	searched    string
	searching   bool
	quitting    bool
	seq         int
	width       int
	height      int
	styles      Styles
}

func newBrowserModel(searchFn SearchFunc, suggestFn SuggestFunc, noColor bool) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "search the portfolio"
	ti.Prompt = "? "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAmber))
	ti.Focus()

	return &browserModel{
		searchFn:  searchFn,
		suggestFn: suggestFn,
		input:     ti,
		selected:  -1,
		width:     80,
		height:    24,
		styles:    GetStyles(noColor),
	}
}

// Init implements tea.Model.
func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) debounceCmd() tea.Cmd {
	seq := m.seq
	return tea.Tick(suggestDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *browserModel) suggestCmd() tea.Cmd {
	seq := m.seq
	partial := m.input.Value()
	return func() tea.Msg {
		return suggestionsMsg{seq: seq, suggestions: m.suggestFn(context.Background(), partial)}
	}
}

func (m *browserModel) searchCmd() tea.Cmd {
	query := m.input.Value()
	return func() tea.Msg {
		results, outcomes := m.searchFn(context.Background(), query)
		var degraded []string
		for _, out := range outcomes {
			if out.Degraded {
				degraded = append(degraded, string(out.Strategy))
			}
		}
		return resultsMsg{query: query, results: results, degraded: degraded}
	}
}

// Update implements tea.Model.
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up":
			if len(m.suggestions) > 0 && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.suggestions)-1 {
				m.selected++
			}
			return m, nil

		case "tab":
			if m.selected >= 0 && m.selected < len(m.suggestions) {
				m.input.SetValue(m.suggestions[m.selected].Query)
				m.input.CursorEnd()
				m.suggestions = nil
				m.selected = -1
			}
			return m, nil

		case "enter":
			if m.selected >= 0 && m.selected < len(m.suggestions) {
				m.input.SetValue(m.suggestions[m.selected].Query)
				m.input.CursorEnd()
			}
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.suggestions = nil
			m.selected = -1
			m.searching = true
			return m, m.searchCmd()
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.seq++
			m.selected = -1
			if strings.TrimSpace(m.input.Value()) == "" {
				m.suggestions = nil
				return m, cmd
			}
			return m, tea.Batch(cmd, m.debounceCmd())
		}
		return m, cmd

	case debounceMsg:
		// Stale ticks from superseded keystrokes are dropped.
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.suggestCmd()

	case suggestionsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.suggestions = msg.suggestions
		if len(m.suggestions) == 0 {
			m.selected = -1
		}
		return m, nil

	case resultsMsg:
		m.searching = false
		m.searched = msg.query
		m.results = msg.results
		m.degraded = msg.degraded
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *browserModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.styles.Prompt.Render("folio search"))
	sections = append(sections, m.input.View())

	if len(m.suggestions) > 0 {
		sections = append(sections, m.renderSuggestions())
	}

	if m.searching {
		sections = append(sections, m.styles.Dim.Render("searching..."))
	} else if m.searched != "" {
		sections = append(sections, m.renderResults())
	}

	sections = append(sections, m.styles.Dim.Render(
		"↑/↓ select · tab accept · enter search · esc quit"))

	return strings.Join(sections, "\n\n") + "\n"
}

func (m *browserModel) renderSuggestions() string {
	var lines []string
	for i, s := range m.suggestions {
		line := fmt.Sprintf("%s %s", s.Query,
			m.styles.Dim.Render(fmt.Sprintf("%.2f", s.Score)))
		if i == m.selected {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *browserModel) renderResults() string {
	var lines []string

	header := fmt.Sprintf("%d results for %q", len(m.results), m.searched)
	lines = append(lines, m.styles.Label.Render(header))
	if len(m.degraded) > 0 {
		lines = append(lines, m.styles.Warning.Render(
			"degraded: "+strings.Join(m.degraded, ", ")))
	}

	max := m.height - 10
	if max < 3 {
		max = 3
	}
	for i, res := range m.results {
		if i >= max {
			lines = append(lines, m.styles.Dim.Render(
				fmt.Sprintf("... %d more", len(m.results)-max)))
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			m.styles.Label.Render(fmt.Sprintf("%2d.", i+1)),
			m.styles.Title.Render(res.Work.Title),
			m.styles.Score.Render(fmt.Sprintf("%.3f", res.Score))))
	}

	content := strings.Join(lines, "\n")
	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return m.styles.Panel.Width(width).Render(content)
}

var _ tea.Model = (*browserModel)(nil)
