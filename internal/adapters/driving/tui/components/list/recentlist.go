package list

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/styles"
	"github.com/orbistack/kbsearch/internal/core/domain"
)

// RecentList shows the persisted recent queries, optionally narrowed
// by whatever is already typed in the query field.
type RecentList struct {
	styles  *styles.Styles
	entries []domain.RecentQuery
	visible []string
	cursor  int
}

// NewRecentList creates an empty recent-query list.
func NewRecentList(s *styles.Styles) *RecentList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &RecentList{styles: s}
}

// SetEntries replaces the recent queries, newest first.
func (l *RecentList) SetEntries(entries []domain.RecentQuery) {
	l.entries = entries
	l.Filter("")
}

// Filter narrows the visible entries to those fuzzy-matching the
// typed prefix. A blank filter shows everything.
func (l *RecentList) Filter(typed string) {
	typed = strings.TrimSpace(typed)

	texts := make([]string, len(l.entries))
	for i, e := range l.entries {
		texts[i] = e.QueryText
	}

	if typed == "" {
		l.visible = texts
	} else {
		ranked := fuzzy.Find(typed, texts)
		l.visible = make([]string, len(ranked))
		for i, m := range ranked {
			l.visible[i] = m.Str
		}
	}

	if l.cursor >= len(l.visible) {
		l.cursor = 0
	}
}

// Len returns the number of visible entries.
func (l *RecentList) Len() int {
	return len(l.visible)
}

// MoveUp moves the cursor up one entry.
func (l *RecentList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down one entry.
func (l *RecentList) MoveDown() {
	if l.cursor < len(l.visible)-1 {
		l.cursor++
	}
}

// Selected returns the query text under the cursor.
func (l *RecentList) Selected() (string, bool) {
	if len(l.visible) == 0 {
		return "", false
	}
	return l.visible[l.cursor], true
}

// View renders the list.
func (l *RecentList) View() string {
	if len(l.visible) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(l.styles.Muted.Render("  Recent searches"))
	b.WriteString("\n")
	for i, text := range l.visible {
		if i == l.cursor {
			b.WriteString(l.styles.Title.Render("  ❯ " + text))
		} else {
			b.WriteString(l.styles.Normal.Render("    " + text))
		}
		b.WriteString("\n")
	}
	return b.String()
}
