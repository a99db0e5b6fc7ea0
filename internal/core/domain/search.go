package domain

import "time"

// MatchKind classifies how a field matched the query, used for
// deterministic tie-breaking between equal scores.
type MatchKind int

// Match kinds, ordered weakest to strongest.
const (
	// MatchNone means the field did not clear the threshold.
	MatchNone MatchKind = iota

	// MatchFuzzy means the field matched only via edit-distance similarity.
	MatchFuzzy

	// MatchSubstring means the query appears verbatim in the field.
	MatchSubstring

	// MatchExact means the field text equals the query.
	MatchExact
)

// String returns the string representation.
func (k MatchKind) String() string {
	switch k {
	case MatchFuzzy:
		return "fuzzy"
	case MatchSubstring:
		return "substring"
	case MatchExact:
		return "exact"
	default:
		return "none"
	}
}

// MatchResult is a single scored hit against one document.
// Score uses distance semantics: lower is better, 0 is a perfect
// match across every weighted field the document carries.
type MatchResult struct {
	// DocumentID identifies the matched document.
	DocumentID string

	// Score is the weighted distance in [0,1]. Lower is better.
	Score float64

	// MatchedFields lists the fields that cleared the similarity
	// threshold, in AllFields order. Used for highlighting.
	MatchedFields []FieldName

	// TitleMatch records how the title field matched, for tie-breaking.
	TitleMatch MatchKind
}

// Matched reports whether the given field cleared the threshold.
func (m MatchResult) Matched(f FieldName) bool {
	for _, mf := range m.MatchedFields {
		if mf == f {
			return true
		}
	}
	return false
}

// SearchConfig holds the tunables of the search subsystem.
// Weights are relative multipliers in (0,1]; they need not sum to 1.
type SearchConfig struct {
	// FieldWeights maps each searchable field to its weight.
	FieldWeights map[FieldName]float64

	// ResultCap is the maximum number of ranked results returned.
	ResultCap int

	// MatchThreshold is the fuzziness gate on a 0-1 scale: a field
	// counts as matched when its similarity reaches 1-MatchThreshold.
	MatchThreshold float64

	// DebounceWindow is the quiet period before a query evaluates.
	DebounceWindow time.Duration

	// HistoryCap is the maximum number of persisted recent queries.
	HistoryCap int

	// HistoryMaxAge is the retention window for recent queries.
	HistoryMaxAge time.Duration
}

// DefaultSearchConfig returns the shipped defaults: title heaviest,
// categories and tags next, author next, excerpt and body lightest.
// Result cap 8, history cap 5, 300ms debounce, 30-day retention.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		FieldWeights: map[FieldName]float64{
			FieldTitle:      1.0,
			FieldCategories: 0.7,
			FieldTags:       0.7,
			FieldAuthor:     0.5,
			FieldExcerpt:    0.3,
			FieldBody:       0.2,
		},
		ResultCap:      8,
		MatchThreshold: 0.3,
		DebounceWindow: 300 * time.Millisecond,
		HistoryCap:     5,
		HistoryMaxAge:  30 * 24 * time.Hour,
	}
}

// MinSimilarity returns the similarity floor implied by MatchThreshold.
func (c SearchConfig) MinSimilarity() float64 {
	return 1 - c.MatchThreshold
}
