package domain

// SessionStatus is the public state of the search session controller.
type SessionStatus int

// Session states.
const (
	// StatusIdle means no query is active.
	StatusIdle SessionStatus = iota

	// StatusDebouncing means input arrived and the quiet window is running.
	StatusDebouncing

	// StatusEvaluating means the match engine is scanning the index.
	StatusEvaluating

	// StatusResultsReady means the last evaluation produced results.
	StatusResultsReady

	// StatusEmpty means the last evaluation produced zero matches,
	// or the query was blank.
	StatusEmpty
)

// String returns the string representation.
func (s SessionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusDebouncing:
		return "debouncing"
	case StatusEvaluating:
		return "evaluating"
	case StatusResultsReady:
		return "results_ready"
	case StatusEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// SessionEvent is emitted by the session controller whenever its
// observable state changes. It is a complete snapshot, not a delta.
type SessionEvent struct {
	// Status is the session state after the change.
	Status SessionStatus

	// Query is the query the event belongs to.
	Query string

	// Results is the ranked result list, best first.
	Results []MatchResult

	// Recent is the pruned recent-query list, most recent first.
	Recent []RecentQuery

	// IndexReady distinguishes "no matches" from "index not ready":
	// false means the feed has not delivered a snapshot yet.
	IndexReady bool
}
