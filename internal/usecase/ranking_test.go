package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargematch/backend/internal/domain"
)

func candidate(id string, score int, matchType domain.MatchType) domain.ScoredCandidate {
	return domain.ScoredCandidate{
		Product:   domain.ProductRecord{ID: id, Slug: "slug-" + id},
		Score:     score,
		MatchType: matchType,
	}
}

func ids(candidates []domain.ScoredCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Product.ID)
	}
	return out
}

func TestRankCandidates(t *testing.T) {
	t.Run("sorts by score and partitions", func(t *testing.T) {
		in := []domain.ScoredCandidate{
			candidate("a", 20, domain.MatchAlternate),
			candidate("b", 170, domain.MatchBest),
			candidate("c", 100, domain.MatchAlternate),
			candidate("d", 150, domain.MatchBest),
		}

		result := RankCandidates(in, 10)

		assert.Equal(t, []string{"b", "d", "c", "a"}, ids(result.AllRanked))
		require.NotNil(t, result.TopPick)
		assert.Equal(t, "b", result.TopPick.Product.ID)
		assert.Equal(t, []string{"d"}, ids(result.OtherBestMatches))
		assert.Equal(t, []string{"c", "a"}, ids(result.Alternatives))

		// every ranked candidate lands in exactly one partition
		assert.Equal(t, len(result.AllRanked), 1+len(result.OtherBestMatches)+len(result.Alternatives))
	})

	t.Run("ties keep input order", func(t *testing.T) {
		in := []domain.ScoredCandidate{
			candidate("x", 100, domain.MatchAlternate),
			candidate("y", 100, domain.MatchAlternate),
			candidate("z", 100, domain.MatchAlternate),
		}

		result := RankCandidates(in, 10)
		assert.Equal(t, []string{"x", "y", "z"}, ids(result.AllRanked))
		assert.Nil(t, result.TopPick)
	})

	t.Run("truncates before partitioning", func(t *testing.T) {
		in := []domain.ScoredCandidate{
			candidate("a", 170, domain.MatchBest),
			candidate("b", 100, domain.MatchAlternate),
			candidate("c", 90, domain.MatchBest),
		}

		result := RankCandidates(in, 2)

		assert.Equal(t, []string{"a", "b"}, ids(result.AllRanked))
		assert.Empty(t, result.OtherBestMatches)
		assert.Equal(t, []string{"b"}, ids(result.Alternatives))
	})

	t.Run("duplicate top pick id is not repeated", func(t *testing.T) {
		in := []domain.ScoredCandidate{
			candidate("a", 170, domain.MatchBest),
			candidate("a", 170, domain.MatchBest),
			candidate("b", 150, domain.MatchBest),
		}

		result := RankCandidates(in, 10)
		assert.Equal(t, []string{"b"}, ids(result.OtherBestMatches))
	})

	t.Run("does not reorder the input", func(t *testing.T) {
		in := []domain.ScoredCandidate{
			candidate("a", 10, domain.MatchAlternate),
			candidate("b", 20, domain.MatchAlternate),
		}

		RankCandidates(in, 10)
		assert.Equal(t, []string{"a", "b"}, ids(in))
	})

	t.Run("empty input gives empty non-nil partitions", func(t *testing.T) {
		result := RankCandidates(nil, 10)

		assert.Nil(t, result.TopPick)
		assert.NotNil(t, result.OtherBestMatches)
		assert.NotNil(t, result.Alternatives)
		assert.Empty(t, result.AllRanked)
	})
}
