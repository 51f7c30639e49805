// Package scoring computes content quality dimension scores from content and interview profiles.
package scoring

import "github.com/marcus/course-designer/internal/types"

// Recommendation thresholds. A dimension below highPriorityThreshold gets a
// high priority recommendation, below mediumPriorityThreshold a medium one,
// and at or above mediumPriorityThreshold none.
const (
	highPriorityThreshold   = 70
	mediumPriorityThreshold = 85
)

// recommendationTemplate holds the fixed advice text for one dimension. The
// text is static lookup data, never generated.
type recommendationTemplate struct {
	category          string
	high              string
	highImprovement   string
	medium            string
	mediumImprovement string
}

var recommendationTemplates = []recommendationTemplate{
	{
		category:          "Content Suitability",
		high:              "Restructure the source material into clearly scoped modules and fill gaps in topic coverage before authoring.",
		highImprovement:   "+10-15 points",
		medium:            "Tighten module boundaries and standardize terminology across source documents.",
		mediumImprovement: "+5-10 points",
	},
	{
		category:          "Engagement Potential",
		high:              "Add interactive checkpoints such as scenario questions, simulations, or hands-on exercises to each module.",
		highImprovement:   "+10-20 points",
		medium:            "Introduce multimedia variety and short knowledge checks between sections.",
		mediumImprovement: "+5-10 points",
	},
	{
		category:          "Learning Effectiveness",
		high:              "Define measurable learning objectives for every module and align each one to an assessment.",
		highImprovement:   "+10-15 points",
		medium:            "Add practice activities that mirror on-the-job tasks and close with an applied capstone.",
		mediumImprovement: "+5-8 points",
	},
}

// generateRecommendations emits improvement recommendations for each
// dimension that scored below threshold, in fixed dimension order.
func generateRecommendations(suitability, engagement, effectiveness int) []types.ImprovementRecommendation {
	scores := []int{suitability, engagement, effectiveness}
	recs := make([]types.ImprovementRecommendation, 0, len(scores))

	for i, tmpl := range recommendationTemplates {
		score := scores[i]
		switch {
		case score < highPriorityThreshold:
			recs = append(recs, types.ImprovementRecommendation{
				Category:            tmpl.category,
				Priority:            types.PriorityHigh,
				Recommendation:      tmpl.high,
				ExpectedImprovement: tmpl.highImprovement,
			})
		case score < mediumPriorityThreshold:
			recs = append(recs, types.ImprovementRecommendation{
				Category:            tmpl.category,
				Priority:            types.PriorityMedium,
				Recommendation:      tmpl.medium,
				ExpectedImprovement: tmpl.mediumImprovement,
			})
		}
	}
	return recs
}
