package domain

import "time"

// AnonymousIdentity is the history partition used when no end-user
// identity is available.
const AnonymousIdentity = "anonymous"

// RecentQuery is one persisted history entry. Identity for dedup is
// the query text compared case-insensitively after trimming; the case
// of the most recent submission is preserved.
type RecentQuery struct {
	// QueryText is the submitted query, trimmed, original case.
	QueryText string `json:"query"`

	// Timestamp is when the query was last submitted.
	Timestamp time.Time `json:"ts"`
}

// Expired reports whether the entry is older than maxAge at now.
func (r RecentQuery) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.Timestamp) > maxAge
}
