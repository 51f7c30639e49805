// Package outline groups analyzed topics into a sequenced course module plan,
// assigning each module one of the recommended instructional strategies.
package outline

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcus/course-designer/internal/types"
)

// Packing limits. Modules hold between minTopicsPerModule and
// maxTopicsPerModule topics; overflow past MaxModules folds into the last
// module rather than being dropped.
const (
	DefaultMaxModules  = 6
	minTopicsPerModule = 1
	maxTopicsPerModule = 3
)

// Minutes of delivery time planned per topic, by complexity band.
var minutesPerTopic = map[string]int{
	types.ComplexityLow:    20,
	types.ComplexityMedium: 30,
	types.ComplexityHigh:   45,
}

// BuildOptions controls outline assembly. Zero values fall back to defaults.
type BuildOptions struct {
	CourseTitle string
	MaxModules  int
}

// Build assembles a module outline from a content profile and the strategy
// recommendations computed for it. Topics pack greedily into modules in
// profile order; each module is assigned the highest-ranked strategy whose
// content affinities mention one of the module's topics, falling back to the
// top-ranked strategy. An empty topic list yields a single overview module,
// never an error.
func Build(content *types.ContentProfile, recs *types.StrategyRecommendations, opts BuildOptions) (*types.ModuleOutline, error) {
	if recs == nil || len(recs.Strategies) == 0 {
		return nil, &NoStrategiesError{}
	}

	maxModules := opts.MaxModules
	if maxModules < 1 {
		maxModules = DefaultMaxModules
	}

	topics := cleanTopics(content)
	band := content.ComplexityBand()
	primary := recs.Strategies[0].StrategyName

	title := strings.TrimSpace(opts.CourseTitle)
	if title == "" {
		title = defaultTitle(content)
	}

	outline := &types.ModuleOutline{
		CourseTitle:     title,
		PrimaryStrategy: primary,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	for number, group := range packTopics(topics, maxModules) {
		strategy := strategyForTopics(group, recs.Strategies)
		duration := len(group) * minutesPerTopic[band]
		if duration == 0 {
			// A topicless overview module still occupies a session.
			duration = minutesPerTopic[band]
		}
		outline.Modules = append(outline.Modules, types.CourseModule{
			Number:          number + 1,
			Title:           moduleTitle(group, number),
			Objective:       moduleObjective(group, content),
			Topics:          group,
			Strategy:        strategy,
			DurationMinutes: duration,
			Assessment:      assessmentFor(strategy),
		})
	}

	return outline, nil
}

// packTopics splits topics into consecutive groups of up to
// maxTopicsPerModule, capped at maxModules groups. Topics past the cap join
// the final group so every topic stays covered. No topics yields one empty
// group, which becomes the overview module.
func packTopics(topics []string, maxModules int) [][]string {
	if len(topics) == 0 {
		return [][]string{nil}
	}

	perModule := minTopicsPerModule
	for perModule*maxModules < len(topics) && perModule < maxTopicsPerModule {
		perModule++
	}

	var groups [][]string
	for start := 0; start < len(topics); start += perModule {
		end := start + perModule
		if end > len(topics) {
			end = len(topics)
		}
		if len(groups) == maxModules {
			last := len(groups) - 1
			groups[last] = append(groups[last], topics[start:end]...)
			continue
		}
		groups = append(groups, topics[start:end])
	}
	return groups
}

// strategyForTopics picks the highest-ranked strategy whose content
// affinities name one of the module's topics. Strategies arrive sorted by
// rank, so the first hit wins; no hit falls back to the top strategy.
func strategyForTopics(topics []string, strategies []types.ScoredStrategy) string {
	haystack := strings.ToLower(strings.Join(topics, " "))
	if haystack != "" {
		for _, s := range strategies {
			for _, useCase := range s.UseCases {
				if containsAnyWord(haystack, useCase) {
					return s.StrategyName
				}
			}
		}
	}
	return strategies[0].StrategyName
}

// containsAnyWord reports whether any word of phrase longer than three
// characters appears in haystack. Short words match too aggressively.
func containsAnyWord(haystack, phrase string) bool {
	for _, word := range strings.Fields(strings.ToLower(phrase)) {
		if len(word) > 3 && strings.Contains(haystack, word) {
			return true
		}
	}
	return false
}

func cleanTopics(content *types.ContentProfile) []string {
	if content == nil {
		return nil
	}
	seen := make(map[string]bool)
	var topics []string
	for _, t := range content.Topics {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		topics = append(topics, t)
	}
	return topics
}

func defaultTitle(content *types.ContentProfile) string {
	if content != nil {
		if ct := strings.TrimSpace(content.PrimaryContentType); ct != "" {
			return titleCase(ct) + " Course"
		}
	}
	return "Untitled Course"
}

func moduleTitle(topics []string, index int) string {
	if len(topics) == 0 {
		return "Course Overview"
	}
	return fmt.Sprintf("Module %d: %s", index+1, titleCase(topics[0]))
}

func moduleObjective(topics []string, content *types.ContentProfile) string {
	if len(topics) == 0 {
		subject := "the source material"
		if content != nil && strings.TrimSpace(content.PrimaryContentType) != "" {
			subject = strings.TrimSpace(strings.ToLower(content.PrimaryContentType))
		}
		return fmt.Sprintf("Orient learners to %s and set expectations for the course.", subject)
	}
	if len(topics) == 1 {
		return fmt.Sprintf("Understand and apply %s.", strings.ToLower(topics[0]))
	}
	lowered := make([]string, len(topics))
	for i, t := range topics {
		lowered[i] = strings.ToLower(t)
	}
	last := lowered[len(lowered)-1]
	return fmt.Sprintf("Understand and apply %s and %s.",
		strings.Join(lowered[:len(lowered)-1], ", "), last)
}

// assessmentFor maps a strategy name onto the check-for-understanding style
// that strategy naturally supports.
func assessmentFor(strategyName string) string {
	name := strings.ToLower(strategyName)
	switch {
	case strings.Contains(name, "simulation") || strings.Contains(name, "virtual"):
		return "Performance check inside the simulated environment"
	case strings.Contains(name, "scenario") || strings.Contains(name, "case"):
		return "Scenario debrief with decision rationale"
	case strings.Contains(name, "gamif"):
		return "Challenge completion and leaderboard milestones"
	case strings.Contains(name, "social") || strings.Contains(name, "collaborative"):
		return "Peer-reviewed group deliverable"
	case strings.Contains(name, "microlearning") || strings.Contains(name, "mobile"):
		return "Short knowledge checks after each unit"
	default:
		return "End-of-module quiz"
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
