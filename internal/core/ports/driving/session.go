package driving

import (
	"context"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

// SearchSession is the public face of the search subsystem. The
// surrounding UI drives it with input events and drains Events for
// state changes.
type SearchSession interface {
	// Start acquires the document feed subscription. The session keeps
	// delivering events until Close is called or ctx is cancelled.
	Start(ctx context.Context) error

	// QueryChanged reports a keystroke-level change of the query text.
	// Evaluation is debounced; a blank query short-circuits immediately.
	QueryChanged(text string)

	// Submit evaluates text immediately and records it in history.
	Submit(text string)

	// Select reports that the user picked a result. Records the current
	// query in history and resets the session to idle.
	Select(documentID string)

	// Close releases the feed subscription and discards transient state.
	// History is untouched.
	Close() error

	// Events returns the stream of state snapshots.
	Events() <-chan domain.SessionEvent

	// Status returns the current session status.
	Status() domain.SessionStatus

	// Document resolves a document from the current index snapshot.
	Document(id string) (domain.Document, bool)
}
