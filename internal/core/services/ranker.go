package services

import (
	"sort"

	"github.com/orbistack/kbsearch/internal/core/domain"
)

// Rank orders matches best first and truncates to limit. Ordering is
// fully deterministic: ascending score, then title match kind (exact
// or substring beats fuzzy-only), then the original index order of
// the input, which a stable sort preserves.
func Rank(matches []domain.MatchResult, limit int) []domain.MatchResult {
	ranked := make([]domain.MatchResult, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].TitleMatch > ranked[j].TitleMatch
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
