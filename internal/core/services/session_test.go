package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
)

// fakeFeed lets tests push snapshots by hand.
type fakeFeed struct {
	mu          sync.Mutex
	deliver     func([]domain.Document)
	initial     []domain.Document
	unsubCalled bool
}

func (f *fakeFeed) Subscribe(_ context.Context, deliver func([]domain.Document)) (driven.Unsubscribe, error) {
	f.mu.Lock()
	f.deliver = deliver
	initial := f.initial
	f.mu.Unlock()

	deliver(initial)
	return func() {
		f.mu.Lock()
		f.unsubCalled = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeFeed) Push(docs []domain.Document) {
	f.mu.Lock()
	deliver := f.deliver
	f.mu.Unlock()
	if deliver != nil {
		deliver(docs)
	}
}

type fixedIdentity string

func (i fixedIdentity) Identity() string { return string(i) }

func testDocs() []domain.Document {
	return []domain.Document{
		{ID: "vpn", Title: "VPN Setup Guide", Tags: []string{"network"}},
		{ID: "pwd", Title: "Password Reset", Body: "How to reset a forgotten password."},
		{ID: "cal", Title: "Calendar Sharing"},
	}
}

func newTestSession(t *testing.T, docs []domain.Document) (*Session, *fakeFeed, *fakeKV) {
	t.Helper()

	cfg := domain.DefaultSearchConfig()
	cfg.DebounceWindow = 20 * time.Millisecond

	kv := newFakeKV()
	feed := &fakeFeed{initial: docs}
	s := NewSession(feed, NewHistoryStore(kv, cfg), fixedIdentity("tester"), cfg)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s, feed, kv
}

func waitForStatus(t *testing.T, s *Session, want domain.SessionStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Status() == want
	}, time.Second, 5*time.Millisecond, "waiting for status %s", want)
}

func TestSession_StartDeliversInitialIndex(t *testing.T) {
	s, _, _ := newTestSession(t, testDocs())

	doc, ok := s.Document("vpn")
	require.True(t, ok)
	assert.Equal(t, "VPN Setup Guide", doc.Title)

	assert.Equal(t, domain.StatusIdle, s.Status())
}

func TestSession_QueryChangedDebouncesThenEvaluates(t *testing.T) {
	s, _, _ := newTestSession(t, testDocs())

	s.QueryChanged("password")
	assert.Equal(t, domain.StatusDebouncing, s.Status())
	assert.Empty(t, s.Results(), "no results before the window elapses")

	waitForStatus(t, s, domain.StatusResultsReady)
	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "pwd", results[0].DocumentID)
}

func TestSession_RapidTypingEvaluatesOnlyFinalQuery(t *testing.T) {
	s, _, _ := newTestSession(t, testDocs())

	for _, q := range []string{"p", "pa", "pas", "password"} {
		s.QueryChanged(q)
		time.Sleep(2 * time.Millisecond)
	}

	waitForStatus(t, s, domain.StatusResultsReady)
	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "pwd", results[0].DocumentID)
}

func TestSession_BlankQueryClearsImmediately(t *testing.T) {
	s, _, _ := newTestSession(t, testDocs())

	s.QueryChanged("password")
	waitForStatus(t, s, domain.StatusResultsReady)

	s.QueryChanged("")
	assert.Equal(t, domain.StatusEmpty, s.Status())
	assert.Empty(t, s.Results())
}

func TestSession_SubmitSkipsDebounceAndRecordsHistory(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	cfg.DebounceWindow = time.Hour

	kv := newFakeKV()
	feed := &fakeFeed{initial: testDocs()}
	s := NewSession(feed, NewHistoryStore(kv, cfg), fixedIdentity("tester"), cfg)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	s.Submit("password")

	assert.Equal(t, domain.StatusResultsReady, s.Status())
	require.Len(t, s.Results(), 1)

	history := NewHistoryStore(kv, cfg).List(context.Background(), "tester")
	require.Len(t, history, 1)
	assert.Equal(t, "password", history[0].QueryText)
}

func TestSession_SelectRecordsQueryAndResets(t *testing.T) {
	s, _, kv := newTestSession(t, testDocs())

	s.QueryChanged("vpn")
	waitForStatus(t, s, domain.StatusResultsReady)

	s.Select("vpn")

	assert.Equal(t, domain.StatusIdle, s.Status())
	assert.Empty(t, s.Results())

	history := NewHistoryStore(kv, domain.DefaultSearchConfig()).List(context.Background(), "tester")
	require.Len(t, history, 1)
	assert.Equal(t, "vpn", history[0].QueryText)
}

func TestSession_SnapshotReplaceReevaluatesActiveQuery(t *testing.T) {
	s, feed, _ := newTestSession(t, testDocs())

	s.QueryChanged("firewall")
	waitForStatus(t, s, domain.StatusEmpty)

	feed.Push(append(testDocs(), domain.Document{ID: "fw", Title: "Firewall Rules"}))

	waitForStatus(t, s, domain.StatusResultsReady)
	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "fw", results[0].DocumentID)
}

func TestSession_ResultCapApplied(t *testing.T) {
	docs := make([]domain.Document, 12)
	for i := range docs {
		docs[i] = domain.Document{
			ID:    fmt.Sprintf("doc-%02d", i),
			Title: fmt.Sprintf("Printer Manual %d", i),
		}
	}
	s, _, _ := newTestSession(t, docs)

	s.Submit("printer")

	assert.Len(t, s.Results(), 8)
}

func TestSession_RankingOrderEndToEnd(t *testing.T) {
	docs := []domain.Document{
		{ID: "body-only", Title: "Unrelated", Body: "printer printer printer"},
		{ID: "title-sub", Title: "Printer Setup"},
		{ID: "title-exact", Title: "Printer"},
	}
	s, _, _ := newTestSession(t, docs)

	s.Submit("printer")

	results := s.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "title-exact", results[0].DocumentID)
	assert.Equal(t, "title-sub", results[1].DocumentID)
	assert.Equal(t, "body-only", results[2].DocumentID)
}

func TestSession_QueryBeforeIndexReady(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	cfg.DebounceWindow = 10 * time.Millisecond

	kv := newFakeKV()
	feed := &fakeFeed{initial: nil}
	s := NewSession(feed, NewHistoryStore(kv, cfg), fixedIdentity("tester"), cfg)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	s.QueryChanged("vpn")
	waitForStatus(t, s, domain.StatusEmpty)

	feed.Push(testDocs())
	waitForStatus(t, s, domain.StatusResultsReady)
	require.Len(t, s.Results(), 1)
	assert.Equal(t, "vpn", s.Results()[0].DocumentID)
}

func TestSession_CloseIsIdempotentAndStopsWork(t *testing.T) {
	s, feed, _ := newTestSession(t, testDocs())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	feed.mu.Lock()
	unsubbed := feed.unsubCalled
	feed.mu.Unlock()
	assert.True(t, unsubbed)

	s.QueryChanged("password")
	assert.Equal(t, domain.StatusIdle, s.Status())

	_, open := <-s.Events()
	for open {
		_, open = <-s.Events()
	}
}

func TestSession_StaleEvaluationNeverCommits(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	cfg.DebounceWindow = time.Hour

	feed := &fakeFeed{initial: testDocs()}
	s := NewSession(feed, NewHistoryStore(newFakeKV(), cfg), fixedIdentity("tester"), cfg)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	s.Submit("password")
	require.Equal(t, domain.StatusResultsReady, s.Status())
	require.Len(t, s.Results(), 1)

	// A newer query bumps the generation; an evaluation still carrying
	// the older generation must be discarded without touching state.
	s.mu.Lock()
	stale := s.generation
	s.mu.Unlock()

	s.QueryChanged("calendar")
	require.Equal(t, domain.StatusDebouncing, s.Status())

	s.evaluate("vpn", stale)

	assert.Equal(t, domain.StatusDebouncing, s.Status(),
		"superseded evaluation must not change the status")
	results := s.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "pwd", results[0].DocumentID,
		"superseded evaluation must not publish its results")
}

func TestSession_CloseDuringEvaluationDoesNotPanic(t *testing.T) {
	docs := testDocs()

	// Evaluations fire from timer goroutines; closing concurrently
	// must never send on the closed event channel.
	for i := 0; i < 200; i++ {
		cfg := domain.DefaultSearchConfig()
		cfg.DebounceWindow = time.Millisecond

		feed := &fakeFeed{initial: docs}
		s := NewSession(feed, NewHistoryStore(newFakeKV(), cfg), fixedIdentity("tester"), cfg)
		require.NoError(t, s.Start(context.Background()))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.QueryChanged("password")
			s.Submit("password")
		}()

		require.NoError(t, s.Close())
		wg.Wait()
	}
}

func TestSession_EventsCarryStateSnapshots(t *testing.T) {
	s, _, _ := newTestSession(t, testDocs())

	s.Submit("password")

	seen := map[domain.SessionStatus]bool{}
	deadline := time.After(time.Second)
	for !seen[domain.StatusResultsReady] {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				t.Fatal("events channel closed early")
			}
			seen[ev.Status] = true
			if ev.Status == domain.StatusResultsReady {
				assert.Equal(t, "password", ev.Query)
				assert.True(t, ev.IndexReady)
				require.Len(t, ev.Results, 1)
			}
		case <-deadline:
			t.Fatal("never saw a results-ready event")
		}
	}
}
