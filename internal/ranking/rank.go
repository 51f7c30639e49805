// Package ranking provides functionality to rank instructional strategies against content and interview profiles.
package ranking

import (
	"sort"

	"github.com/marcus/course-designer/internal/catalog"
	"github.com/marcus/course-designer/internal/types"
)

// DefaultMaxRecommendations is how many strategies a ranking returns when the
// caller does not say otherwise.
const DefaultMaxRecommendations = 5

// RankStrategies ranks the full catalog against the given profiles and
// returns the top DefaultMaxRecommendations strategies.
func RankStrategies(content *types.ContentProfile, interview *types.InterviewProfile) []types.ScoredStrategy {
	return RankCatalog(catalog.All(), content, interview, DefaultMaxRecommendations)
}

// RankStrategiesTop ranks the full catalog and returns the top
// maxRecommendations strategies. Values below 1 are clamped to 1.
func RankStrategiesTop(content *types.ContentProfile, interview *types.InterviewProfile, maxRecommendations int) []types.ScoredStrategy {
	return RankCatalog(catalog.All(), content, interview, maxRecommendations)
}

// RankCatalog scores every definition, sorts descending by score, and
// truncates to maxRecommendations. The sort is stable: equal scores keep
// their catalog order, which is the tie-break contract. An empty definition
// list yields an empty result.
func RankCatalog(definitions []types.StrategyDefinition, content *types.ContentProfile, interview *types.InterviewProfile, maxRecommendations int) []types.ScoredStrategy {
	if maxRecommendations < 1 {
		maxRecommendations = 1
	}

	scored := make([]types.ScoredStrategy, 0, len(definitions))
	for i := range definitions {
		def := &definitions[i]
		score, reasoning := ScoreStrategy(def, content, interview)
		scored = append(scored, types.ScoredStrategy{
			StrategyName:   def.Name,
			Score:          score,
			Reasoning:      reasoning,
			UseCases:       def.UseCases,
			Implementation: def.Implementation,
			IdealFor:       def.IdealFor,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
