// Package messages defines Bubbletea message types for the search
// overlay. Messages carry session state into the Elm update loop.
package messages

import (
	"github.com/orbistack/kbsearch/internal/core/domain"
)

// SessionUpdated carries a fresh session state snapshot.
type SessionUpdated struct {
	Event domain.SessionEvent
}

// SessionClosed signals the session event stream has ended.
type SessionClosed struct{}
