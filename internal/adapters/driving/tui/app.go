// Package tui implements the interactive search overlay. It is the
// driving adapter: key presses become session calls, session events
// become view updates.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/components/input"
	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/components/list"
	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/messages"
	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/styles"
	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/normaliser"
	"github.com/orbistack/kbsearch/internal/core/ports/driving"
)

// Model is the Bubbletea model for the search overlay.
type Model struct {
	styles  *styles.Styles
	session driving.SearchSession

	query   *input.QueryInput
	results *list.ResultList
	recents *list.RecentList

	state  domain.SessionEvent
	chosen *domain.Document

	width  int
	height int
}

// New creates the overlay model around an already started session.
func New(session driving.SearchSession) *Model {
	s := styles.DefaultStyles()
	return &Model{
		styles:  s,
		session: session,
		query:   input.New(s),
		results: list.NewResultList(s),
		recents: list.NewRecentList(s),
	}
}

// Chosen returns the document picked by the user, if any.
func (m *Model) Chosen() (domain.Document, bool) {
	if m.chosen == nil {
		return domain.Document{}, false
	}
	return *m.chosen, true
}

// Init starts cursor blinking and the session event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.query.Init(), waitForEvent(m.session.Events()))
}

// waitForEvent blocks on the session event stream and hands the next
// event to the update loop.
func waitForEvent(events <-chan domain.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return messages.SessionClosed{}
		}
		return messages.SessionUpdated{Event: event}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.query.SetWidth(msg.Width)
		m.results.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case messages.SessionUpdated:
		m.applyEvent(msg.Event)
		return m, waitForEvent(m.session.Events())

	case messages.SessionClosed:
		return m, tea.Quit
	}

	cmd, _ := m.query.Update(msg)
	return m, cmd
}

// updateKey handles a key press.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.session.Close()
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.resultsActive() {
			m.results.MoveUp()
		} else {
			m.recents.MoveUp()
		}
		return m, nil

	case "down", "ctrl+n":
		if m.resultsActive() {
			m.results.MoveDown()
		} else {
			m.recents.MoveDown()
		}
		return m, nil

	case "enter":
		return m.choose()
	}

	cmd, changed := m.query.Update(msg)
	if changed {
		text := m.query.Value()
		m.recents.Filter(text)
		m.session.QueryChanged(text)
	}
	return m, cmd
}

// choose acts on the row under the cursor: a result opens the
// document, a recent query re-runs it, otherwise the typed query is
// submitted as-is.
func (m *Model) choose() (tea.Model, tea.Cmd) {
	if m.resultsActive() {
		row, ok := m.results.Selected()
		if ok {
			if doc, found := m.session.Document(row.DocumentID); found {
				m.chosen = &doc
			}
			m.session.Select(row.DocumentID)
			m.session.Close()
			return m, tea.Quit
		}
	}

	if strings.TrimSpace(m.query.Value()) == "" {
		if text, ok := m.recents.Selected(); ok {
			m.query.SetValue(text)
			m.session.Submit(text)
			return m, nil
		}
	}

	m.session.Submit(m.query.Value())
	return m, nil
}

// applyEvent folds a session event into the view state.
func (m *Model) applyEvent(event domain.SessionEvent) {
	m.state = event
	m.recents.SetEntries(event.Recent)
	m.recents.Filter(m.query.Value())

	tokens := normaliser.QueryTokens(event.Query)
	rows := make([]list.ResultRow, 0, len(event.Results))
	for _, match := range event.Results {
		doc, ok := m.session.Document(match.DocumentID)
		if !ok {
			continue
		}
		rows = append(rows, list.ResultRow{
			DocumentID: match.DocumentID,
			Title:      doc.Title,
			Author:     doc.AuthorName,
			Excerpt:    doc.Excerpt,
			Fields:     match.MatchedFields,
			Score:      match.Score,
			TitleMatch: match.TitleMatch,
		})
	}
	m.results.SetRows(rows, tokens)
}

// resultsActive reports whether the result list is the one the
// cursor keys should drive.
func (m *Model) resultsActive() bool {
	return m.state.Status == domain.StatusResultsReady && m.results.Len() > 0
}

// View renders the overlay.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(" Knowledge Base Search"))
	b.WriteString("\n\n")
	b.WriteString(m.query.View())
	b.WriteString("\n")

	if !m.state.IndexReady {
		b.WriteString(m.styles.Muted.Render("  Loading articles..."))
		b.WriteString("\n")
	}

	switch m.state.Status {
	case domain.StatusDebouncing, domain.StatusEvaluating:
		b.WriteString(m.styles.Muted.Render("  Searching..."))
		b.WriteString("\n")
		b.WriteString(m.recents.View())

	case domain.StatusResultsReady:
		b.WriteString(m.results.View())

	case domain.StatusEmpty:
		if strings.TrimSpace(m.state.Query) == "" {
			b.WriteString(m.recents.View())
		} else {
			b.WriteString(m.styles.Muted.Render("  No matching articles."))
			b.WriteString("\n")
		}

	default:
		b.WriteString(m.recents.View())
	}

	b.WriteString("\n")
	help := "↑/↓ move · enter open · esc close"
	b.WriteString(m.styles.StatusLine.Render(help))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run starts the overlay and blocks until the user closes it. It
// returns the chosen document, if any.
func Run(session driving.SearchSession) (domain.Document, bool, error) {
	model := New(session)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return domain.Document{}, false, err
	}
	if m, ok := final.(*Model); ok {
		doc, chosen := m.Chosen()
		return doc, chosen, nil
	}
	return domain.Document{}, false, nil
}
