// Package ranking provides functionality to rank instructional strategies against content and interview profiles.
package ranking

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/marcus/course-designer/internal/types"
)

// Weights for the composite strategy match score.
const (
	contentMatchWeight = 0.40
	smeMatchWeight     = 0.35
	feasibilityWeight  = 0.15
	innovationWeight   = 0.10
)

// Content match term values.
const (
	affinityContribution     = 50.0
	complexityExactBonus     = 30.0
	complexityAnyBonus       = 25.0
	complexityAdjacentBonus  = 15.0
	strategyFamilyBonus      = 15.0
	versatilityBonus         = 10.0
	smeSignalBonus           = 20.0
	feasibilityBase          = 50.0
)

// smeSignal is one SME preference: terms that reveal it in interview answers
// and the strategy-name keyword it favors. The table is ordered so detection
// and reasoning are deterministic.
type smeSignal struct {
	name        string
	answerTerms []string
	nameKeyword string
}

var smeSignals = []smeSignal{
	{"interactive", []string{"interactive", "engaging"}, "interactive"},
	{"practical", []string{"hands-on", "practical", "practice"}, "hands-on"},
	{"assessment", []string{"assessment", "quiz", "test", "certif"}, "assessment"},
	{"scenario", []string{"scenario", "real-world", "case stud"}, "scenario"},
	{"mobile", []string{"mobile", "on the go", "phone"}, "micro"},
	{"collaborative", []string{"collaborat", "team", "peer", "discussion"}, "social"},
	{"time-constrained", []string{"busy", "limited time", "short session", "quick"}, "micro"},
	{"motivation", []string{"motivat", "reward", "competition", "gamif", "badge"}, "gamif"},
	{"narrative", []string{"story", "narrative"}, "storytell"},
}

// topicFamily pairs a topic term with the strategy-name keywords it favors.
type topicFamily struct {
	topicTerm    string
	nameKeywords []string
}

var topicFamilies = []topicFamily{
	{"technical", []string{"simulation", "virtual", "hands-on"}},
	{"safety", []string{"simulation", "scenario", "hands-on"}},
	{"clinical", []string{"simulation", "scenario", "assessment"}},
	{"patient", []string{"simulation", "scenario"}},
	{"software", []string{"interactive", "video", "hands-on"}},
	{"compliance", []string{"assessment", "gamified", "scenario"}},
	{"leadership", []string{"social", "storytelling", "case"}},
	{"process", []string{"video", "workshop", "micro"}},
	{"sales", []string{"gamified", "storytelling", "micro"}},
}

// ScoreStrategy computes the composite match score for one strategy against a
// content profile and interview profile, plus the reasoning string explaining
// the match. The score is always in [0,100].
func ScoreStrategy(strategy *types.StrategyDefinition, content *types.ContentProfile, interview *types.InterviewProfile) (float64, string) {
	if content == nil {
		content = &types.ContentProfile{}
	}
	if interview == nil {
		interview = &types.InterviewProfile{}
	}

	contentMatch, bestKey := computeContentMatch(strategy, content)
	smeMatch, matchedSignal := computeSMEMatch(strategy, interview)
	feasibility := computeFeasibility(strategy, content)
	innovation := computeInnovationBonus(strategy)

	score := contentMatchWeight*contentMatch +
		smeMatchWeight*smeMatch +
		feasibilityWeight*feasibility +
		innovationWeight*innovation

	return clampTerm(score), buildReasoning(strategy, content, bestKey, matchedSignal)
}

// computeContentMatch scores how well the strategy fits the content itself:
// affinity-table match, complexity alignment, topic-family fit, versatility.
// Returns the score and the best matching affinity key for reasoning.
func computeContentMatch(strategy *types.StrategyDefinition, content *types.ContentProfile) (float64, string) {
	haystack := contentHaystack(content)

	best := 0.0
	bestKey := ""
	for key, affinity := range strategy.ContentTypeMatch {
		if key == "" || !strings.Contains(haystack, key) {
			continue
		}
		affinity = clampTerm(affinity)
		// Tie-break on the key so the cited match is deterministic.
		if affinity > best || (affinity == best && bestKey != "" && key < bestKey) {
			best = affinity
			bestKey = key
		}
	}

	score := best / 100 * affinityContribution
	score += complexityAlignment(strategy.IdealFor.Complexity, content.ComplexityBand())
	if matchesTopicFamily(haystack, strategy.LowerName()) {
		score += strategyFamilyBonus
	}
	if strategy.SuitsAnyContent() {
		score += versatilityBonus
	}
	return clampTerm(score), bestKey
}

// computeSMEMatch scores how strongly the interview answers point at this
// strategy: fixed preference signals plus interview completion. Returns the
// score and the first aligned signal name for reasoning.
func computeSMEMatch(strategy *types.StrategyDefinition, interview *types.InterviewProfile) (float64, string) {
	answers := interview.JoinedAnswers()
	name := strategy.LowerName()

	score := 0.0
	matchedSignal := ""
	if answers != "" {
		for _, signal := range smeSignals {
			if !containsAnyTerm(answers, signal.answerTerms) {
				continue
			}
			if strings.Contains(name, signal.nameKeyword) {
				score += smeSignalBonus
				if matchedSignal == "" {
					matchedSignal = signal.name
				}
			}
		}
	}

	score += interview.Completion() * 0.3
	return clampTerm(score), matchedSignal
}

// computeFeasibility scores delivery effort against the content's scale and
// complexity.
func computeFeasibility(strategy *types.StrategyDefinition, content *types.ContentProfile) float64 {
	score := feasibilityBase
	duration := strings.ToLower(strategy.Implementation.Duration)
	band := content.ComplexityBand()

	extended := strings.Contains(duration, "week") || strings.Contains(duration, "month")
	short := strings.Contains(duration, "minute")

	// Long build-outs pay off when there is a lot of material to absorb.
	if extended && content.FileCount > 10 {
		score += 20
	}
	// Short formats are a natural fit for simple content.
	if short && band == types.ComplexityLow {
		score += 30
	}
	// Heavy simulation infrastructure is overkill for simple content.
	if band == types.ComplexityLow && hasFormat(strategy, "3d simulation") {
		score -= 20
	}
	return clampTerm(score)
}

// computeInnovationBonus rewards strategies whose approach is novel. The "ai"
// check is a whole-word match so names like "Training" do not trip it.
func computeInnovationBonus(strategy *types.StrategyDefinition) float64 {
	name := strategy.LowerName()
	score := 0.0
	if strings.Contains(name, "adaptive") {
		score += 30
	}
	if strings.Contains(name, "virtual") || strings.Contains(name, "simulation") {
		score += 25
	}
	if containsWord(name, "ai") || strings.Contains(name, "intelligent") {
		score += 20
	}
	return clampTerm(score)
}

// complexityAlignment scores the strategy's declared complexity against the
// content band: accepts-any, exact, and adjacent-band matches all earn credit.
func complexityAlignment(strategyComplexity, contentBand string) float64 {
	sc := strings.TrimSpace(strings.ToLower(strategyComplexity))
	if strings.Contains(sc, "any") {
		return complexityAnyBonus
	}

	strategyBand := types.NormalizeComplexity(sc)
	if strategyBand == contentBand {
		return complexityExactBonus
	}
	if adjacentBands(strategyBand, contentBand) {
		return complexityAdjacentBonus
	}
	return 0
}

func adjacentBands(a, b string) bool {
	ranks := map[string]int{
		types.ComplexityLow:    0,
		types.ComplexityMedium: 1,
		types.ComplexityHigh:   2,
	}
	ra, okA := ranks[a]
	rb, okB := ranks[b]
	if !okA || !okB {
		return false
	}
	diff := ra - rb
	return diff == 1 || diff == -1
}

// matchesTopicFamily reports whether any topic family links the content to
// this strategy's name. The bonus is awarded at most once per strategy.
func matchesTopicFamily(haystack, lowerName string) bool {
	for _, family := range topicFamilies {
		if !strings.Contains(haystack, family.topicTerm) {
			continue
		}
		for _, keyword := range family.nameKeywords {
			if strings.Contains(lowerName, keyword) {
				return true
			}
		}
	}
	return false
}

func hasFormat(strategy *types.StrategyDefinition, format string) bool {
	for _, f := range strategy.Implementation.Formats {
		if strings.Contains(strings.ToLower(f), format) {
			return true
		}
	}
	return false
}

func containsAnyTerm(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// containsWord reports whether the haystack contains the word as a whole
// token, with tokens delimited by any non-alphanumeric rune.
func containsWord(haystack, word string) bool {
	fields := strings.FieldsFunc(haystack, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if f == word {
			return true
		}
	}
	return false
}

// contentHaystack joins the topics and content type into the lowercase string
// affinity and family lookups scan.
func contentHaystack(content *types.ContentProfile) string {
	topics := content.JoinedTopics()
	ct := strings.TrimSpace(strings.ToLower(content.PrimaryContentType))
	switch {
	case topics == "":
		return ct
	case ct == "":
		return topics
	default:
		return topics + " " + ct
	}
}

// buildReasoning creates the explanation attached to a scored strategy. It
// cites the strongest affinity match (or the leading topics), the first
// aligned SME preference, and the strategy's own description lead.
func buildReasoning(strategy *types.StrategyDefinition, content *types.ContentProfile, bestKey, matchedSignal string) string {
	var parts []string

	switch {
	case bestKey != "":
		parts = append(parts, fmt.Sprintf("Strong fit for %s content", bestKey))
	case content.TopicCount() > 0:
		parts = append(parts, fmt.Sprintf("Aligned with the %s focus of the material", strings.Join(leadingTopics(content, 2), " and ")))
	default:
		parts = append(parts, "Broadly applicable across content profiles")
	}

	if matchedSignal != "" {
		parts = append(parts, fmt.Sprintf("SME emphasis on %s learning points the same way", matchedSignal))
	}

	if lead := strategy.DescriptionLead(); lead != "" {
		parts = append(parts, lead)
	}
	return strings.Join(parts, ". ")
}

// leadingTopics returns up to n non-empty topics, lowercased, in profile order.
func leadingTopics(content *types.ContentProfile, n int) []string {
	topics := make([]string, 0, n)
	for _, t := range content.Topics {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		topics = append(topics, t)
		if len(topics) == n {
			break
		}
	}
	return topics
}

// clampTerm clamps a score term into [0,100].
func clampTerm(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
