package driving

import (
	"context"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

// HistoryService manages persisted recent queries per identity.
// All operations are best-effort: persistence failures degrade to an
// empty history and are never surfaced to callers.
type HistoryService interface {
	// Record inserts queryText at the front of identity's history,
	// deduplicating case-insensitively, enforcing the cap and the
	// retention window. Blank queries are ignored.
	Record(ctx context.Context, identity, queryText string)

	// List returns identity's history, most recent first, pruned of
	// expired entries.
	List(ctx context.Context, identity string) []domain.RecentQuery

	// Clear removes identity's history.
	Clear(ctx context.Context, identity string)
}
