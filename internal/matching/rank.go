package matching

import (
	"slices"

	"hireinn/jobboard-service/internal/model"
)

// RankAndFilter keeps jobs scoring strictly above threshold, ordered by score
// descending with ties in input order. If nothing clears the threshold but
// there were candidates, every candidate is returned in score order instead.
func RankAndFilter(scored []model.ScoredJob, threshold float64) []model.ScoredJob {
	kept := make([]model.ScoredJob, 0, len(scored))
	for _, j := range scored {
		if j.Exact > threshold {
			kept = append(kept, j)
		}
	}
	if len(kept) == 0 && len(scored) > 0 {
		kept = append(kept, scored...)
	}

	slices.SortStableFunc(kept, func(a, b model.ScoredJob) int {
		switch {
		case a.Exact > b.Exact:
			return -1
		case a.Exact < b.Exact:
			return 1
		}
		return 0
	})
	return kept
}

// Rank scores jobs and applies RankAndFilter with the scorer's threshold.
func (s *Scorer) Rank(jobs []model.Job, profile model.UserProfile) []model.ScoredJob {
	return RankAndFilter(s.ScoreAll(jobs, profile), s.w.Threshold)
}
