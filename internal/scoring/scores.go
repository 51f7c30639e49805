// Package scoring computes content quality dimension scores from content and interview profiles.
package scoring

import (
	"math"
	"strings"

	"github.com/marcus/course-designer/internal/types"
)

// Weights for the content suitability dimension.
const (
	qualityWeight         = 0.40
	typeSuitabilityWeight = 0.25
	complexityFitWeight   = 0.20
)

// Weights for the engagement potential dimension.
const (
	domainEngagementWeight     = 0.30
	interactivityWeight        = 0.25
	smeAlignmentWeight         = 0.20
	complexityEngagementWeight = 0.15
	formatVarietyWeight        = 0.10
)

// Weights for the learning effectiveness dimension.
const (
	objectivesClarityWeight    = 0.25
	structureWeight            = 0.20
	practicalApplicationWeight = 0.20
	assessmentPotentialWeight  = 0.15
	smeSupportWeight           = 0.10
	retentionWeight            = 0.10
)

// Heuristic base values.
const (
	interactivityBase = 60.0
	smeAlignmentBase  = 70.0
	objectivesBase    = 70.0
	structureBase     = 75.0
	practicalBase     = 65.0
	smeSupportBase    = 75.0
	retentionBase     = 70.0
)

// CalculateContentScores maps a content profile and interview profile to the
// three dimension scores, their overall mean, and any improvement
// recommendations. Missing or sparse input falls back to neutral defaults;
// this function never fails.
func CalculateContentScores(content *types.ContentProfile, interview *types.InterviewProfile) *types.ContentScoreResult {
	if content == nil {
		content = &types.ContentProfile{}
	}
	if interview == nil {
		interview = &types.InterviewProfile{}
	}

	suitability := int(math.Round(computeContentSuitability(content)))
	engagement := int(math.Round(computeEngagementPotential(content, interview)))
	effectiveness := int(math.Round(computeLearningEffectiveness(content, interview)))

	// Overall is the unweighted mean of the three dimensions.
	overall := int(math.Round(float64(suitability+engagement+effectiveness) / 3.0))

	return &types.ContentScoreResult{
		ContentSuitability:    suitability,
		EngagementPotential:   engagement,
		LearningEffectiveness: effectiveness,
		OverallScore:          overall,
		Recommendations:       generateRecommendations(suitability, engagement, effectiveness),
	}
}

// computeContentSuitability scores how well the source material suits course
// conversion: quality readings, content-type fit, complexity band, and a
// topic-coverage bonus.
func computeContentSuitability(content *types.ContentProfile) float64 {
	quality := content.QualityScore()
	suitability := lookupDomainScore(strings.ToLower(content.PrimaryContentType), typeSuitabilityTable, defaultTypeSuitability)
	complexity := complexityFitScores[content.ComplexityBand()]

	score := qualityWeight*quality +
		typeSuitabilityWeight*suitability +
		complexityFitWeight*complexity +
		topicCoverageBonus(content.TopicCount())
	return clampScore(score)
}

// computeEngagementPotential scores how engaging a course built from this
// content is likely to be for its audience.
func computeEngagementPotential(content *types.ContentProfile, interview *types.InterviewProfile) float64 {
	domain := lookupDomainScore(domainHaystack(content), domainEngagementTable, defaultDomainEngagement)
	interactivity := clampScore(applyKeywordBonuses(interactivityBase, content.JoinedTopics(), interactivityBonuses))

	alignment := applyKeywordBonuses(smeAlignmentBase, interview.JoinedAnswers(), smeAlignmentBonuses)
	alignment = clampScore(alignment + interview.Completion()*0.1)

	complexity := complexityEngagementScores[content.ComplexityBand()]
	variety := formatVarietyScore(content.FileCount)

	score := domainEngagementWeight*domain +
		interactivityWeight*interactivity +
		smeAlignmentWeight*alignment +
		complexityEngagementWeight*complexity +
		formatVarietyWeight*variety
	return clampScore(score)
}

// computeLearningEffectiveness scores how well a course built from this
// content is likely to teach and stick.
func computeLearningEffectiveness(content *types.ContentProfile, interview *types.InterviewProfile) float64 {
	objectives := clampScore(objectivesClarityScore(content))
	structure := clampScore(structureScore(content))
	practical := clampScore(applyKeywordBonuses(practicalBase, content.JoinedTopics(), interactivityBonuses))

	assessment := lookupDomainScore(domainHaystack(content), assessmentPotentialTable, defaultAssessmentPotential)
	if assessment < defaultAssessmentPotential {
		assessment = defaultAssessmentPotential
	}

	support := clampScore(applyKeywordBonuses(smeSupportBase, interview.JoinedAnswers(), smeSupportBonuses))
	retention := clampScore(retentionScore(content))

	score := objectivesClarityWeight*objectives +
		structureWeight*structure +
		practicalApplicationWeight*practical +
		assessmentPotentialWeight*assessment +
		smeSupportWeight*support +
		retentionWeight*retention
	return clampScore(score)
}

// topicCoverageBonus rewards topic counts in the range that maps cleanly onto
// course modules. Bands are checked narrowest first.
func topicCoverageBonus(count int) float64 {
	switch {
	case count >= 3 && count <= 8:
		return 15
	case count >= 2 && count <= 10:
		return 12
	case count >= 1:
		return 8
	default:
		return 0
	}
}

// formatVarietyScore estimates delivery variety from the number of source files.
func formatVarietyScore(fileCount int) float64 {
	switch {
	case fileCount > 5:
		return 80
	case fileCount > 2:
		return 75
	case fileCount > 1:
		return 70
	default:
		return 60
	}
}

func objectivesClarityScore(content *types.ContentProfile) float64 {
	score := objectivesBase
	count := content.TopicCount()
	switch {
	case count >= 3 && count <= 8:
		score += 15
	case count >= 2:
		score += 10
	}

	ct := strings.ToLower(content.PrimaryContentType)
	if strings.Contains(ct, "training") || strings.Contains(ct, "procedure") {
		score += 10
	}
	return score
}

func structureScore(content *types.ContentProfile) float64 {
	score := structureBase + structureComplexityBonus[content.ComplexityBand()]
	// Quality above 70 helps structure, below 70 hurts it.
	score += 0.3 * (content.QualityScore() - 70)
	return score
}

func retentionScore(content *types.ContentProfile) float64 {
	score := retentionBase
	if content.ComplexityBand() == types.ComplexityMedium {
		score += 10
	}
	ct := strings.ToLower(content.PrimaryContentType)
	if strings.Contains(ct, "practical") || strings.Contains(ct, "applied") {
		score += 10
	}
	if content.FileCount > 1 {
		score += 5
	}
	return score
}

// domainHaystack joins the content type and topics into the lowercase string
// domain lookups scan.
func domainHaystack(content *types.ContentProfile) string {
	ct := strings.TrimSpace(strings.ToLower(content.PrimaryContentType))
	topics := content.JoinedTopics()
	switch {
	case ct == "":
		return topics
	case topics == "":
		return ct
	default:
		return ct + " " + topics
	}
}

// clampScore clamps a score into [0,100]. Both intermediate heuristic
// contributions and final dimension scores pass through it.
func clampScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
