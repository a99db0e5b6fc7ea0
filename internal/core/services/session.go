package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/normaliser"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
	"github.com/orbistack/kbsearch/internal/core/ports/driving"
	"github.com/orbistack/kbsearch/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SearchSession = (*Session)(nil)

var sessionLog = logger.Scope("session")

// eventBuffer is the capacity of the session event channel. Emission
// never blocks; when the consumer lags, the oldest event is dropped in
// favour of the newest, which is always a complete state snapshot.
const eventBuffer = 16

// Session orchestrates the search subsystem: it holds the current
// index snapshot, debounces query input, runs evaluations, discards
// stale results, and records history on submission and selection.
//
// The index snapshot is replaced atomically on every feed delivery,
// so an in-flight scan always sees a consistent snapshot.
type Session struct {
	cfg      domain.SearchConfig
	matcher  *Matcher
	history  driving.HistoryService
	feed     driven.DocumentFeed
	identity driven.IdentityProvider
	debounce *Debouncer

	index      atomic.Pointer[[]domain.Document]
	indexReady atomic.Bool

	mu          sync.Mutex
	generation  uint64
	status      domain.SessionStatus
	query       string
	results     []domain.MatchResult
	recent      []domain.RecentQuery
	closed      bool
	unsubscribe driven.Unsubscribe
	runCtx      context.Context

	events    chan domain.SessionEvent
	closeOnce sync.Once
}

// NewSession creates a session controller. The feed, history service,
// and identity provider are injected so every caller (and every test)
// gets a fresh, isolated instance.
func NewSession(
	feed driven.DocumentFeed,
	history driving.HistoryService,
	identity driven.IdentityProvider,
	cfg domain.SearchConfig,
) *Session {
	defaults := domain.DefaultSearchConfig()
	if cfg.ResultCap <= 0 {
		cfg.ResultCap = defaults.ResultCap
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = defaults.DebounceWindow
	}
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold >= 1 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}

	return &Session{
		cfg:      cfg,
		matcher:  NewMatcher(cfg),
		history:  history,
		feed:     feed,
		identity: identity,
		debounce: NewDebouncer(cfg.DebounceWindow),
		status:   domain.StatusIdle,
		runCtx:   context.Background(),
		events:   make(chan domain.SessionEvent, eventBuffer),
	}
}

// Start acquires the document feed subscription and emits the initial
// state, including the persisted recent queries.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	s.runCtx = ctx
	s.mu.Unlock()

	if s.feed != nil {
		unsub, err := s.feed.Subscribe(ctx, s.onSnapshot)
		if err != nil {
			return fmt.Errorf("subscribe to document feed: %w", err)
		}
		s.mu.Lock()
		s.unsubscribe = unsub
		s.mu.Unlock()
	}

	s.refreshRecent()
	s.emit()
	return nil
}

// onSnapshot swaps in a new index snapshot. An active query is
// re-evaluated against the new snapshot immediately.
func (s *Session) onSnapshot(docs []domain.Document) {
	snap := make([]domain.Document, len(docs))
	copy(snap, docs)
	s.index.Store(&snap)
	s.indexReady.Store(true)
	sessionLog.Debug("index snapshot replaced, %d documents", len(snap))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	query := s.query
	active := strings.TrimSpace(query) != ""
	var gen uint64
	if active {
		s.generation++
		gen = s.generation
	}
	s.mu.Unlock()

	if active {
		s.evaluate(query, gen)
	} else {
		s.emit()
	}
}

// QueryChanged handles a keystroke-level query change. Evaluation is
// debounced; a blank query clears results with zero delay and never
// touches history.
func (s *Session) QueryChanged(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = text
	s.generation++
	gen := s.generation

	if strings.TrimSpace(text) == "" {
		s.results = nil
		s.status = domain.StatusEmpty
		s.mu.Unlock()
		s.debounce.Cancel()
		s.emit()
		return
	}

	s.status = domain.StatusDebouncing
	s.mu.Unlock()

	s.emit()
	s.debounce.Schedule(text, func() {
		s.evaluate(text, gen)
	})
}

// Submit evaluates text immediately, bypassing the debounce window,
// and records it in history. A blank submission behaves like a blank
// QueryChanged.
func (s *Session) Submit(text string) {
	if strings.TrimSpace(text) == "" {
		s.QueryChanged(text)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = text
	s.generation++
	gen := s.generation
	ctx := s.runCtx
	s.mu.Unlock()

	s.debounce.Cancel()
	s.history.Record(ctx, s.identityKey(), text)
	s.refreshRecent()
	s.evaluate(text, gen)
}

// Select records the current query in history, then resets the
// session to idle. Transient query state is discarded; history
// persists.
func (s *Session) Select(documentID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	query := strings.TrimSpace(s.query)
	s.query = ""
	s.results = nil
	s.status = domain.StatusIdle
	s.generation++
	ctx := s.runCtx
	s.mu.Unlock()

	s.debounce.Cancel()
	sessionLog.Debug("result selected: %s", documentID)

	if query != "" {
		s.history.Record(ctx, s.identityKey(), query)
		s.refreshRecent()
	}
	s.emit()
}

// Close releases the feed subscription and discards transient state.
// History is untouched. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.generation++
	s.query = ""
	s.results = nil
	s.status = domain.StatusIdle
	unsub := s.unsubscribe
	s.unsubscribe = nil
	// Closing under the mutex pairs with the locked send in emit.
	s.closeOnce.Do(func() { close(s.events) })
	s.mu.Unlock()

	s.debounce.Cancel()
	if unsub != nil {
		unsub()
	}
	return nil
}

// Events returns the stream of state snapshots.
func (s *Session) Events() <-chan domain.SessionEvent {
	return s.events
}

// Status returns the current session status.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Results returns the current ranked results.
func (s *Session) Results() []domain.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MatchResult, len(s.results))
	copy(out, s.results)
	return out
}

// Document resolves a document by ID from the current index snapshot.
func (s *Session) Document(id string) (domain.Document, bool) {
	snap := s.index.Load()
	if snap == nil {
		return domain.Document{}, false
	}
	for i := range *snap {
		if (*snap)[i].ID == id {
			return (*snap)[i], true
		}
	}
	return domain.Document{}, false
}

// evaluate scores the snapshot against query and commits the ranked
// results, unless a newer query superseded gen in the meantime. A
// stale evaluation is discarded silently at both ends of the scan.
func (s *Session) evaluate(query string, gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.status = domain.StatusEvaluating
	s.mu.Unlock()
	s.emit()

	var docs []domain.Document
	if snap := s.index.Load(); snap != nil {
		docs = *snap
	}

	tokens := normaliser.QueryTokens(query)
	matches := make([]domain.MatchResult, 0, s.cfg.ResultCap)
	for i := range docs {
		if m, ok := s.matcher.Score(&docs[i], tokens); ok {
			matches = append(matches, m)
		}
	}
	ranked := Rank(matches, s.cfg.ResultCap)
	sessionLog.Debug("query %q matched %d documents, kept %d", query, len(matches), len(ranked))

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.results = ranked
	if len(ranked) == 0 {
		s.status = domain.StatusEmpty
	} else {
		s.status = domain.StatusResultsReady
	}
	s.mu.Unlock()
	s.emit()
}

// identityKey resolves the history partition key.
func (s *Session) identityKey() string {
	if s.identity == nil {
		return domain.AnonymousIdentity
	}
	return s.identity.Identity()
}

// refreshRecent re-reads the persisted history into the cached list.
func (s *Session) refreshRecent() {
	if s.history == nil {
		return
	}
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()

	recent := s.history.List(ctx, s.identityKey())

	s.mu.Lock()
	s.recent = recent
	s.mu.Unlock()
}

// emit pushes a complete state snapshot onto the event channel
// without blocking. When the buffer is full the oldest event is
// dropped; consumers only ever need the newest snapshot.
//
// The send happens under the mutex: Close sets closed and closes the
// channel under the same mutex, so a timer-fired evaluation can never
// send on a channel that Close has already closed. Every channel
// operation here is non-blocking, so holding the lock is safe.
func (s *Session) emit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	ev := domain.SessionEvent{
		Status:     s.status,
		Query:      s.query,
		Results:    append([]domain.MatchResult(nil), s.results...),
		Recent:     append([]domain.RecentQuery(nil), s.recent...),
		IndexReady: s.indexReady.Load(),
	}

	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}
