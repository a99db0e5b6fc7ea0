package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
	"github.com/orbistack/kbsearch/internal/core/ports/driving"
	"github.com/orbistack/kbsearch/internal/logger"
)

// Ensure HistoryStore implements the interface.
var _ driving.HistoryService = (*HistoryStore)(nil)

var historyLog = logger.Scope("history")

// HistoryStore persists recent queries per identity in a key-value
// store. History is best-effort and never load-bearing: a corrupted,
// full, or unavailable medium degrades to an empty history, and write
// failures are retried once after pruning, then dropped silently.
type HistoryStore struct {
	kv     driven.KVStore
	cap    int
	maxAge time.Duration
}

// NewHistoryStore creates a history store over kv using the cap and
// retention window from cfg.
func NewHistoryStore(kv driven.KVStore, cfg domain.SearchConfig) *HistoryStore {
	defaults := domain.DefaultSearchConfig()
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = defaults.HistoryCap
	}
	if cfg.HistoryMaxAge <= 0 {
		cfg.HistoryMaxAge = defaults.HistoryMaxAge
	}
	return &HistoryStore{
		kv:     kv,
		cap:    cfg.HistoryCap,
		maxAge: cfg.HistoryMaxAge,
	}
}

// historyKey builds the per-identity storage key.
func historyKey(identity string) string {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = domain.AnonymousIdentity
	}
	return "recent:" + identity
}

// Record inserts queryText at the front of identity's history.
// Dedup is case-insensitive after trimming; the case of the most
// recent submission wins. Blank queries are a no-op.
func (h *HistoryStore) Record(ctx context.Context, identity, queryText string) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return
	}

	entries := h.load(ctx, identity)

	// Drop any existing entry for the same query text.
	kept := entries[:0]
	for _, e := range entries {
		if !strings.EqualFold(strings.TrimSpace(e.QueryText), queryText) {
			kept = append(kept, e)
		}
	}

	entries = append([]domain.RecentQuery{{
		QueryText: queryText,
		Timestamp: time.Now(),
	}}, kept...)

	h.persist(ctx, identity, h.prune(entries))
}

// List returns identity's history, most recent first. Expired entries
// are pruned on every call and the pruned list re-persisted, so
// expired ghosts never accumulate in the store.
func (h *HistoryStore) List(ctx context.Context, identity string) []domain.RecentQuery {
	entries := h.load(ctx, identity)
	pruned := h.prune(entries)
	if len(pruned) != len(entries) {
		h.persist(ctx, identity, pruned)
	}
	return pruned
}

// Clear removes identity's history.
func (h *HistoryStore) Clear(ctx context.Context, identity string) {
	if err := h.kv.Remove(ctx, historyKey(identity)); err != nil {
		historyLog.Debug("clear failed for %q: %v", identity, err)
	}
}

// load reads and decodes the stored entries. Any failure, including a
// corrupt payload, yields an empty history.
func (h *HistoryStore) load(ctx context.Context, identity string) []domain.RecentQuery {
	raw, err := h.kv.Get(ctx, historyKey(identity))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			historyLog.Debug("read failed for %q: %v", identity, err)
		}
		return nil
	}

	var entries []domain.RecentQuery
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		historyLog.Warn("corrupt payload for %q, treating as empty: %v", identity, err)
		return nil
	}
	return entries
}

// prune drops expired entries and enforces the cap from the tail.
func (h *HistoryStore) prune(entries []domain.RecentQuery) []domain.RecentQuery {
	now := time.Now()
	kept := make([]domain.RecentQuery, 0, len(entries))
	for _, e := range entries {
		if e.Expired(now, h.maxAge) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > h.cap {
		kept = kept[:h.cap]
	}
	return kept
}

// persist writes entries back. On failure it prunes once more and
// retries a single time, then drops the write: history must never
// propagate a persistence error to its callers.
func (h *HistoryStore) persist(ctx context.Context, identity string, entries []domain.RecentQuery) {
	data, err := json.Marshal(entries)
	if err != nil {
		historyLog.Debug("encode failed for %q: %v", identity, err)
		return
	}

	key := historyKey(identity)
	if err := h.kv.Set(ctx, key, string(data)); err == nil {
		return
	}

	retry, err := json.Marshal(h.prune(entries))
	if err != nil {
		return
	}
	if err := h.kv.Set(ctx, key, string(retry)); err != nil {
		historyLog.Warn("write dropped for %q: %v", identity, err)
	}
}
