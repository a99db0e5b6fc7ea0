package driven

import (
	"context"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

// Unsubscribe releases a feed subscription. Safe to call more than once.
type Unsubscribe func()

// DocumentFeed is a push-based subscription delivering a full snapshot
// of searchable documents on every change. Each delivery is
// authoritative and total; the core rebuilds its index wholesale.
type DocumentFeed interface {
	// Subscribe registers deliver and returns a release function.
	// deliver is called once with the current snapshot (when one is
	// available) and again on every subsequent change. The feed stops
	// delivering when ctx is cancelled or the subscription is released.
	Subscribe(ctx context.Context, deliver func(snapshot []domain.Document)) (Unsubscribe, error)
}

// IdentityProvider supplies the opaque per-user identity string used
// as the history partition key. The core does not interpret it.
type IdentityProvider interface {
	Identity() string
}
