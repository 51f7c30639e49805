package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/course-designer/internal/types"
)

func sampleRecommendations() *types.StrategyRecommendations {
	return &types.StrategyRecommendations{
		Strategies: []types.ScoredStrategy{
			{
				Rank:         1,
				StrategyName: "Scenario-Based Learning",
				Score:        82.5,
				UseCases:     []string{"Decision-making training", "Compliance scenarios"},
			},
			{
				Rank:         2,
				StrategyName: "Simulation Training",
				Score:        78.0,
				UseCases:     []string{"Equipment operation practice", "Clinical procedures"},
			},
			{
				Rank:         3,
				StrategyName: "Microlearning Modules",
				Score:        71.0,
				UseCases:     []string{"Quick reference refreshers"},
			},
		},
	}
}

func TestBuild_PacksTopicsIntoModules(t *testing.T) {
	content := &types.ContentProfile{
		Topics:             []string{"patient intake", "clinical procedures", "safety protocols", "incident reporting"},
		ComplexityLevel:    "medium",
		PrimaryContentType: "healthcare training",
	}

	result, err := Build(content, sampleRecommendations(), BuildOptions{CourseTitle: "Clinical Onboarding"})
	require.NoError(t, err)

	assert.Equal(t, "Clinical Onboarding", result.CourseTitle)
	assert.Equal(t, "Scenario-Based Learning", result.PrimaryStrategy)
	require.NotEmpty(t, result.Modules)

	// Every topic lands in exactly one module, in the original order.
	assert.Equal(t, []string{"patient intake", "clinical procedures", "safety protocols", "incident reporting"},
		result.TopicCoverage())

	for i, m := range result.Modules {
		assert.Equal(t, i+1, m.Number)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Objective)
		assert.NotEmpty(t, m.Strategy)
		assert.Greater(t, m.DurationMinutes, 0)
	}
}

func TestBuild_CapsModuleCount(t *testing.T) {
	topics := make([]string, 20)
	for i := range topics {
		topics[i] = "topic " + string(rune('a'+i))
	}
	content := &types.ContentProfile{Topics: topics, ComplexityLevel: "low"}

	result, err := Build(content, sampleRecommendations(), BuildOptions{MaxModules: 4})
	require.NoError(t, err)

	assert.Len(t, result.Modules, 4)
	// Overflow folds into the last module instead of being dropped.
	assert.Len(t, result.TopicCoverage(), 20)
}

func TestBuild_EmptyTopicsYieldsOverviewModule(t *testing.T) {
	content := &types.ContentProfile{PrimaryContentType: "compliance documentation"}

	result, err := Build(content, sampleRecommendations(), BuildOptions{})
	require.NoError(t, err)

	require.Len(t, result.Modules, 1)
	assert.Equal(t, "Course Overview", result.Modules[0].Title)
	assert.Contains(t, result.Modules[0].Objective, "compliance documentation")
	assert.Equal(t, "Compliance Documentation Course", result.CourseTitle)
}

func TestBuild_NoRecommendationsIsAnError(t *testing.T) {
	content := &types.ContentProfile{Topics: []string{"safety"}}

	_, err := Build(content, nil, BuildOptions{})
	require.Error(t, err)

	var noStrategies *NoStrategiesError
	assert.ErrorAs(t, err, &noStrategies)
}

func TestBuild_AssignsStrategyByUseCaseMatch(t *testing.T) {
	content := &types.ContentProfile{
		Topics:          []string{"equipment calibration"},
		ComplexityLevel: "high",
	}

	result, err := Build(content, sampleRecommendations(), BuildOptions{})
	require.NoError(t, err)

	// "equipment" appears in the Simulation Training use cases, so that
	// strategy wins the module even though it is ranked second.
	require.Len(t, result.Modules, 1)
	assert.Equal(t, "Simulation Training", result.Modules[0].Strategy)
	assert.Equal(t, "Scenario-Based Learning", result.PrimaryStrategy)
}

func TestBuild_DurationScalesWithComplexity(t *testing.T) {
	topics := []string{"one", "two", "three"}
	low := &types.ContentProfile{Topics: topics, ComplexityLevel: "low"}
	high := &types.ContentProfile{Topics: topics, ComplexityLevel: "high"}

	lowResult, err := Build(low, sampleRecommendations(), BuildOptions{})
	require.NoError(t, err)
	highResult, err := Build(high, sampleRecommendations(), BuildOptions{})
	require.NoError(t, err)

	assert.Greater(t, highResult.TotalDurationMinutes(), lowResult.TotalDurationMinutes())
}

func TestPackTopics_DistributesEvenly(t *testing.T) {
	groups := packTopics([]string{"a", "b", "c", "d", "e"}, 6)

	total := 0
	for _, g := range groups {
		assert.NotEmpty(t, g)
		total += len(g)
	}
	assert.Equal(t, 5, total)
}

func TestBuild_DeduplicatesTopics(t *testing.T) {
	content := &types.ContentProfile{
		Topics: []string{"Safety", "safety", "  safety  ", "reporting"},
	}

	result, err := Build(content, sampleRecommendations(), BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Safety", "reporting"}, result.TopicCoverage())
}
