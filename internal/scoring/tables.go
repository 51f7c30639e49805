// Package scoring computes content quality dimension scores from content and interview profiles.
package scoring

import "strings"

// keywordBonus awards a fixed bonus when any of its terms appears in a
// haystack string. Tables of these are iterated in order so results are
// deterministic.
type keywordBonus struct {
	terms []string
	bonus float64
}

// domainScore maps a domain phrase to a fixed score. Tables are ordered:
// the first matching entry wins.
type domainScore struct {
	key   string
	score float64
}

// Content-type suitability, matched against the primary content type only.
const defaultTypeSuitability = 75.0

var typeSuitabilityTable = []domainScore{
	{"procedure", 90},
	{"process", 88},
	{"technical", 85},
	{"training", 85},
	{"tutorial", 85},
	{"compliance", 80},
	{"policy", 72},
	{"reference", 68},
	{"marketing", 60},
}

// Domain engagement, matched against the content type and topics together.
const defaultDomainEngagement = 75.0

var domainEngagementTable = []domainScore{
	{"healthcare", 90},
	{"medical", 90},
	{"clinical", 88},
	{"safety", 85},
	{"software", 82},
	{"technology", 82},
	{"finance", 78},
	{"compliance", 70},
	{"legal", 68},
}

// Assessment potential, matched against the content type and topics together.
// The computed value is floored at the default, so entries below it are inert.
const defaultAssessmentPotential = 75.0

var assessmentPotentialTable = []domainScore{
	{"compliance", 90},
	{"certification", 90},
	{"safety", 88},
	{"healthcare", 85},
	{"procedure", 85},
	{"technical", 82},
}

// Interactivity signals detected in the joined topics.
var interactivityBonuses = []keywordBonus{
	{[]string{"process", "procedure"}, 10},
	{[]string{"software", "application"}, 15},
	{[]string{"decision", "problem solving"}, 12},
	{[]string{"scenario", "case study"}, 10},
	{[]string{"hands-on", "practical"}, 8},
}

// SME preference signals detected in the joined interview answers.
var smeAlignmentBonuses = []keywordBonus{
	{[]string{"interactive", "engaging"}, 15},
	{[]string{"hands-on", "practical"}, 12},
	{[]string{"scenario", "real-world"}, 10},
	{[]string{"visual", "multimedia"}, 8},
	{[]string{"gamif", "competition"}, 10},
	{[]string{"social", "collaboration"}, 8},
}

// SME support signals detected in the joined interview answers.
var smeSupportBonuses = []keywordBonus{
	{[]string{"objective", "goal"}, 10},
	{[]string{"assess", "measure"}, 10},
	{[]string{"skill", "competency"}, 8},
	{[]string{"performance", "result"}, 8},
	{[]string{"apply", "practice"}, 5},
}

// Complexity band scores per dimension.
var complexityFitScores = map[string]float64{
	"low":    85,
	"medium": 90,
	"high":   80,
}

var complexityEngagementScores = map[string]float64{
	"low":    75,
	"medium": 85,
	"high":   80,
}

var structureComplexityBonus = map[string]float64{
	"low":    10,
	"medium": 15,
	"high":   5,
}

// applyKeywordBonuses sums every bonus whose terms appear in the haystack.
// The haystack is expected to be lowercase already.
func applyKeywordBonuses(base float64, haystack string, bonuses []keywordBonus) float64 {
	score := base
	if haystack == "" {
		return score
	}
	for _, kb := range bonuses {
		for _, term := range kb.terms {
			if strings.Contains(haystack, term) {
				score += kb.bonus
				break
			}
		}
	}
	return score
}

// lookupDomainScore returns the score of the first table entry whose key
// appears in the haystack, or the fallback when none does.
func lookupDomainScore(haystack string, table []domainScore, fallback float64) float64 {
	if haystack == "" {
		return fallback
	}
	for _, entry := range table {
		if strings.Contains(haystack, entry.key) {
			return entry.score
		}
	}
	return fallback
}
