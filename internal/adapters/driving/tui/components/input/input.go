// Package input wraps the Bubbles text input for the query field.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/styles"
)

// QueryInput is the single-line search query field.
type QueryInput struct {
	styles *styles.Styles
	field  textinput.Model
	width  int
}

// New creates a focused query input.
func New(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	field := textinput.New()
	field.Placeholder = "Search the knowledge base..."
	field.Prompt = "› "
	field.CharLimit = 256
	field.PromptStyle = s.Title
	field.PlaceholderStyle = s.Muted
	field.TextStyle = s.Normal
	field.Focus()

	return &QueryInput{
		styles: s,
		field:  field,
	}
}

// Init returns the cursor blink command.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards a message to the text input and reports whether the
// query text changed as a result.
func (q *QueryInput) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := q.field.Value()
	var cmd tea.Cmd
	q.field, cmd = q.field.Update(msg)
	return cmd, q.field.Value() != before
}

// Value returns the current query text.
func (q *QueryInput) Value() string {
	return q.field.Value()
}

// SetValue replaces the query text and moves the cursor to the end.
func (q *QueryInput) SetValue(text string) {
	q.field.SetValue(text)
	q.field.CursorEnd()
}

// SetWidth resizes the input to the available width.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// Border and padding take four cells, the prompt two.
	inner := width - 6
	if inner < 10 {
		inner = 10
	}
	q.field.Width = inner
}

// View renders the bordered input field.
func (q *QueryInput) View() string {
	box := q.styles.InputField
	if q.width > 0 {
		box = box.Width(q.width - 2)
	}
	return box.Render(q.field.View())
}
