package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the persistence medium cannot be
	// reached. History degrades to empty; never surfaced to the user.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSessionClosed indicates the search session has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrFeedUnavailable indicates the document feed could not be
	// subscribed to.
	ErrFeedUnavailable = errors.New("document feed unavailable")
)
