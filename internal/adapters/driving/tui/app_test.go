package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbistack/kbsearch/internal/adapters/driving/tui/messages"
	"github.com/orbistack/kbsearch/internal/core/domain"
)

// fakeSession records the calls the model makes.
type fakeSession struct {
	mu      sync.Mutex
	events  chan domain.SessionEvent
	docs    map[string]domain.Document
	changed []string
	submits []string
	selects []string
	closed  bool
}

func newFakeSession(docs ...domain.Document) *fakeSession {
	byID := make(map[string]domain.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	return &fakeSession{
		events: make(chan domain.SessionEvent, 4),
		docs:   byID,
	}
}

func (f *fakeSession) Start(context.Context) error { return nil }

func (f *fakeSession) QueryChanged(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, text)
}

func (f *fakeSession) Submit(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, text)
}

func (f *fakeSession) Select(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects = append(f.selects, id)
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

func (f *fakeSession) Events() <-chan domain.SessionEvent { return f.events }

func (f *fakeSession) Status() domain.SessionStatus { return domain.StatusIdle }

func (f *fakeSession) Document(id string) (domain.Document, bool) {
	doc, ok := f.docs[id]
	return doc, ok
}

func TestModel_TypingForwardsQueryChanges(t *testing.T) {
	session := newFakeSession()
	m := New(session)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, []string{"v", "vp"}, session.changed)
}

func TestModel_SessionUpdateBuildsResultRows(t *testing.T) {
	session := newFakeSession(
		domain.Document{ID: "vpn", Title: "VPN Setup", AuthorName: "Dana"},
	)
	m := New(session)

	event := domain.SessionEvent{
		Status:     domain.StatusResultsReady,
		Query:      "vpn",
		Results:    []domain.MatchResult{{DocumentID: "vpn", Score: 0}},
		IndexReady: true,
	}
	_, cmd := m.Update(messages.SessionUpdated{Event: event})

	require.NotNil(t, cmd, "model must keep pumping session events")
	assert.Equal(t, 1, m.results.Len())

	row, ok := m.results.Selected()
	require.True(t, ok)
	assert.Equal(t, "vpn", row.DocumentID)
	assert.Equal(t, "VPN Setup", row.Title)
}

func TestModel_UnknownDocumentSkipped(t *testing.T) {
	session := newFakeSession()
	m := New(session)

	m.Update(messages.SessionUpdated{Event: domain.SessionEvent{
		Status:  domain.StatusResultsReady,
		Results: []domain.MatchResult{{DocumentID: "gone"}},
	}})

	assert.Equal(t, 0, m.results.Len())
}

func TestModel_EnterOnResultSelectsAndQuits(t *testing.T) {
	session := newFakeSession(domain.Document{ID: "vpn", Title: "VPN Setup"})
	m := New(session)

	m.Update(messages.SessionUpdated{Event: domain.SessionEvent{
		Status:     domain.StatusResultsReady,
		Query:      "vpn",
		Results:    []domain.MatchResult{{DocumentID: "vpn"}},
		IndexReady: true,
	}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	session.mu.Lock()
	assert.Equal(t, []string{"vpn"}, session.selects)
	assert.True(t, session.closed)
	session.mu.Unlock()

	doc, chosen := m.Chosen()
	require.True(t, chosen)
	assert.Equal(t, "VPN Setup", doc.Title)
}

func TestModel_EnterOnRecentResubmits(t *testing.T) {
	session := newFakeSession()
	m := New(session)

	m.Update(messages.SessionUpdated{Event: domain.SessionEvent{
		Status: domain.StatusIdle,
		Recent: []domain.RecentQuery{
			{QueryText: "printer", Timestamp: time.Now()},
		},
		IndexReady: true,
	}})

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.Equal(t, []string{"printer"}, session.submits)
	assert.Equal(t, "printer", m.query.Value())
}

func TestModel_EscClosesSession(t *testing.T) {
	session := newFakeSession()
	m := New(session)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	session.mu.Lock()
	defer session.mu.Unlock()
	assert.True(t, session.closed)
}
