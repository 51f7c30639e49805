// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Recommendation priority levels, keyed off a dimension's score band.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// ContentScoreResult holds the three content dimension scores, their overall
// mean, and any improvement recommendations triggered by low dimensions.
type ContentScoreResult struct {
	ContentSuitability    int                         `json:"content_suitability"`
	EngagementPotential   int                         `json:"engagement_potential"`
	LearningEffectiveness int                         `json:"learning_effectiveness"`
	OverallScore          int                         `json:"overall_score"`
	Recommendations       []ImprovementRecommendation `json:"recommendations"`
}

// ImprovementRecommendation suggests a concrete way to raise one scoring
// dimension that came in below threshold.
type ImprovementRecommendation struct {
	Category            string `json:"category"`
	Priority            string `json:"priority"`
	Recommendation      string `json:"recommendation"`
	ExpectedImprovement string `json:"expected_improvement"`
}
