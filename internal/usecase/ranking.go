package usecase

import (
	"sort"

	"github.com/chargematch/backend/internal/domain"
)

// RankCandidates orders scored candidates, truncates them to limit and splits
// the result into a top pick, the remaining best matches and alternates.
// Equal scores keep catalog order.
func RankCandidates(candidates []domain.ScoredCandidate, limit int) *domain.MatchResult {
	ranked := make([]domain.ScoredCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := &domain.MatchResult{
		OtherBestMatches: []domain.ScoredCandidate{},
		Alternatives:     []domain.ScoredCandidate{},
		AllRanked:        ranked,
	}

	var best []domain.ScoredCandidate
	for _, c := range ranked {
		if c.MatchType == domain.MatchBest {
			best = append(best, c)
		} else {
			result.Alternatives = append(result.Alternatives, c)
		}
	}

	if len(best) > 0 {
		top := best[0]
		result.TopPick = &top
		for _, c := range best[1:] {
			if c.Product.ID == top.Product.ID {
				continue
			}
			result.OtherBestMatches = append(result.OtherBestMatches, c)
		}
	}

	return result
}
