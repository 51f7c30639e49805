// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ScoredStrategy is one ranked entry in a strategy recommendation list. It
// carries enough catalog detail for a consumer to present the strategy without
// a second lookup.
type ScoredStrategy struct {
	Rank           int                    `json:"rank"`
	StrategyName   string                 `json:"strategy_name"`
	Score          float64                `json:"score"`
	Reasoning      string                 `json:"reasoning"`
	UseCases       []string               `json:"use_cases"`
	Implementation StrategyImplementation `json:"implementation"`
	IdealFor       StrategyFit            `json:"ideal_for"`
}

// StrategyRecommendations is the combined scoring-engine output: content
// dimension scores plus the ranked strategy list derived from the same inputs.
type StrategyRecommendations struct {
	ContentScores ContentScoreResult `json:"content_scores"`
	Strategies    []ScoredStrategy   `json:"strategies"`
	GeneratedAt   string             `json:"generated_at,omitempty"`
}
