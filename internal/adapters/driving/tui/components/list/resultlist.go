// Package list renders the result and recent-query lists of the
// search overlay.
package list

import (
	"fmt"
	"strings"

	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/styles"
	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/highlight"
)

// ResultRow is one ranked document ready for rendering.
type ResultRow struct {
	DocumentID string
	Title      string
	Author     string
	Excerpt    string
	Fields     []domain.FieldName
	Score      float64
	TitleMatch domain.MatchKind
}

// ResultList shows the ranked matches for the active query.
type ResultList struct {
	styles *styles.Styles
	rows   []ResultRow
	tokens []string
	cursor int
	width  int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s}
}

// SetRows replaces the rows and the query tokens used for match
// highlighting. The cursor resets to the top.
func (l *ResultList) SetRows(rows []ResultRow, queryTokens []string) {
	l.rows = rows
	l.tokens = queryTokens
	l.cursor = 0
}

// SetWidth resizes the list.
func (l *ResultList) SetWidth(width int) {
	l.width = width
}

// Len returns the number of rows.
func (l *ResultList) Len() int {
	return len(l.rows)
}

// MoveUp moves the cursor up one row.
func (l *ResultList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (l *ResultList) MoveDown() {
	if l.cursor < len(l.rows)-1 {
		l.cursor++
	}
}

// Selected returns the row under the cursor.
func (l *ResultList) Selected() (ResultRow, bool) {
	if len(l.rows) == 0 {
		return ResultRow{}, false
	}
	return l.rows[l.cursor], true
}

// View renders the list.
func (l *ResultList) View() string {
	if len(l.rows) == 0 {
		return l.styles.Muted.Render("  No matching articles.")
	}

	var b strings.Builder
	for i, row := range l.rows {
		title := highlight.Annotate(row.Title, l.tokens, func(s string) string { return l.styles.Match.Render(s) })

		marker := "  "
		titleStyle := l.styles.Subtitle
		if i == l.cursor {
			marker = l.styles.Title.Render("❯ ")
			titleStyle = l.styles.Title
		}

		b.WriteString(marker)
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")

		meta := describeRow(row)
		b.WriteString("    ")
		b.WriteString(l.styles.Muted.Render(meta))
		b.WriteString("\n")

		if i == l.cursor && row.Excerpt != "" {
			b.WriteString("    ")
			b.WriteString(l.styles.Normal.Render(clip(row.Excerpt, l.width-6)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// describeRow summarises where the query matched.
func describeRow(row ResultRow) string {
	parts := make([]string, 0, 4)
	if row.Author != "" {
		parts = append(parts, "by "+row.Author)
	}
	if row.TitleMatch == domain.MatchExact || row.TitleMatch == domain.MatchSubstring {
		parts = append(parts, row.TitleMatch.String()+" title")
	}
	if len(row.Fields) > 0 {
		names := make([]string, len(row.Fields))
		for i, f := range row.Fields {
			names[i] = string(f)
		}
		parts = append(parts, "matched "+strings.Join(names, ", "))
	}
	parts = append(parts, fmt.Sprintf("score %.2f", 1-row.Score))
	return strings.Join(parts, " · ")
}

// clip truncates s to fit width cells.
func clip(s string, width int) string {
	if width <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
