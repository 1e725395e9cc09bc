package scoring

import "sort"

// DefaultLimit is the shortlist size used when callers pass no limit.
const DefaultLimit = 10

// Rank orders scored projects by score descending and truncates to limit.
// The sort is stable: equally scored projects keep their input order, which
// carries the pipeline's date ordering. The input slice is not modified.
func Rank(scored []ScoredProject, limit int) []ScoredProject {
	ranked := make([]ScoredProject, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
