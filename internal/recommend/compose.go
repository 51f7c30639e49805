// Package recommend composes content scores and strategy rankings into the final recommendation payload.
package recommend

import (
	"time"

	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/scoring"
	"github.com/marcus/course-designer/internal/types"
)

// Compose runs the content score calculator and the strategy ranker over the
// same profiles and merges their output into one payload, ranking the top
// ranking.DefaultMaxRecommendations strategies.
func Compose(content *types.ContentProfile, interview *types.InterviewProfile) *types.StrategyRecommendations {
	return ComposeTop(content, interview, ranking.DefaultMaxRecommendations)
}

// ComposeTop is Compose with an explicit strategy count. Values below 1 are
// clamped to 1 by the ranker.
func ComposeTop(content *types.ContentProfile, interview *types.InterviewProfile, maxRecommendations int) *types.StrategyRecommendations {
	scores := scoring.CalculateContentScores(content, interview)
	strategies := ranking.RankStrategiesTop(content, interview, maxRecommendations)

	return &types.StrategyRecommendations{
		ContentScores: *scores,
		Strategies:    strategies,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
