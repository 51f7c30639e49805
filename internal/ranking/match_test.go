package ranking

import (
	"strings"
	"testing"

	"github.com/marcus/course-designer/internal/catalog"
	"github.com/marcus/course-designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clinicalProfile() *types.ContentProfile {
	return &types.ContentProfile{
		Topics:             []string{"patient", "clinical", "safety"},
		ComplexityLevel:    "high",
		PrimaryContentType: "healthcare training",
		FileCount:          3,
	}
}

func clinicalInterview() *types.InterviewProfile {
	return &types.InterviewProfile{
		Answers: map[string]string{
			"q1": "We want interactive, hands-on simulation practice for new nurses",
		},
		CompletionPercentage: 100,
	}
}

func mustStrategy(t *testing.T, name string) *types.StrategyDefinition {
	t.Helper()
	s, ok := catalog.ByName(name)
	require.True(t, ok, "strategy %q not in catalog", name)
	return s
}

func TestComputeContentMatch_ClinicalSimulation(t *testing.T) {
	score, bestKey := computeContentMatch(mustStrategy(t, "Virtual Simulation Labs"), clinicalProfile())

	// 95 ("clinical") / 100 * 50 + 30 exact high complexity + 15 safety family
	assert.InDelta(t, 92.5, score, 0.01)
	assert.Equal(t, "clinical", bestKey)
}

func TestComputeContentMatch_NoAffinityForEmptyProfile(t *testing.T) {
	score, bestKey := computeContentMatch(mustStrategy(t, "Virtual Simulation Labs"), &types.ContentProfile{})

	// No affinity, high vs default medium is adjacent: 15 only.
	assert.InDelta(t, 15.0, score, 0.01)
	assert.Equal(t, "", bestKey)
}

func TestComputeContentMatch_VersatilityBonus(t *testing.T) {
	score, _ := computeContentMatch(mustStrategy(t, "Structured Reading Modules"), &types.ContentProfile{})

	// "any level" complexity 25 + "any content" versatility 10.
	assert.InDelta(t, 35.0, score, 0.01)
}

func TestComputeSMEMatch_AlignedSignals(t *testing.T) {
	score, signal := computeSMEMatch(mustStrategy(t, "Hands-On Workshops"), clinicalInterview())

	// "hands-on" answer term aligns with the name: 20 + 100*0.3 completion.
	assert.InDelta(t, 50.0, score, 0.01)
	assert.Equal(t, "practical", signal)
}

func TestComputeSMEMatch_CompletionOnlyFloor(t *testing.T) {
	score, signal := computeSMEMatch(mustStrategy(t, "Virtual Simulation Labs"), clinicalInterview())

	// No signal keyword appears in the name; completion alone contributes.
	assert.InDelta(t, 30.0, score, 0.01)
	assert.Equal(t, "", signal)
}

func TestComputeSMEMatch_EmptyInterview(t *testing.T) {
	score, signal := computeSMEMatch(mustStrategy(t, "Hands-On Workshops"), &types.InterviewProfile{})

	assert.InDelta(t, 0.0, score, 0.01)
	assert.Equal(t, "", signal)
}

func TestComputeSMEMatch_MultipleSignalsStack(t *testing.T) {
	interview := &types.InterviewProfile{
		Answers: map[string]string{
			"q1": "Learners are busy and mostly on mobile phones",
		},
		CompletionPercentage: 0,
	}

	// Both the mobile and time-constrained signals map to "micro".
	score, signal := computeSMEMatch(mustStrategy(t, "Microlearning Modules"), interview)
	assert.InDelta(t, 40.0, score, 0.01)
	assert.Equal(t, "mobile", signal)
}

func TestComputeFeasibility_ShortFormatForSimpleContent(t *testing.T) {
	simple := &types.ContentProfile{ComplexityLevel: "low"}

	// "5-10 minutes per module" with low complexity: 50 + 30.
	score := computeFeasibility(mustStrategy(t, "Microlearning Modules"), simple)
	assert.InDelta(t, 80.0, score, 0.01)
}

func TestComputeFeasibility_SimulationPenaltyForSimpleContent(t *testing.T) {
	simple := &types.ContentProfile{ComplexityLevel: "low"}

	// 3D simulations against low complexity: 50 - 20.
	score := computeFeasibility(mustStrategy(t, "Virtual Simulation Labs"), simple)
	assert.InDelta(t, 30.0, score, 0.01)
}

func TestComputeFeasibility_ExtendedEffortNeedsScale(t *testing.T) {
	large := &types.ContentProfile{ComplexityLevel: "high", FileCount: 12}
	small := &types.ContentProfile{ComplexityLevel: "high", FileCount: 3}

	// "4-6 weeks" pays off above ten files: 50 + 20.
	assert.InDelta(t, 70.0, computeFeasibility(mustStrategy(t, "Virtual Simulation Labs"), large), 0.01)
	assert.InDelta(t, 50.0, computeFeasibility(mustStrategy(t, "Virtual Simulation Labs"), small), 0.01)
}

func TestComputeInnovationBonus(t *testing.T) {
	cases := []struct {
		name     string
		expected float64
	}{
		{"Adaptive Learning Paths", 30},
		{"Virtual Simulation Labs", 25},
		{"Virtual Adaptive Simulation", 55},
		{"AI Coaching Companion", 20},
		{"Intelligent Tutoring System", 20},
		{"Interactive Video Training", 0},
		{"Structured Reading Modules", 0},
	}

	for _, tc := range cases {
		strategy := &types.StrategyDefinition{Name: tc.name}
		assert.InDelta(t, tc.expected, computeInnovationBonus(strategy), 0.01, "name %q", tc.name)
	}
}

func TestContainsWord_AvoidsSubstringFalsePositives(t *testing.T) {
	assert.True(t, containsWord("ai coaching companion", "ai"))
	assert.True(t, containsWord("ai-powered tutor", "ai"))
	assert.False(t, containsWord("interactive video training", "ai"))
	assert.False(t, containsWord("maintenance basics", "ai"))
}

func TestComplexityAlignment(t *testing.T) {
	assert.InDelta(t, 30.0, complexityAlignment("high", "high"), 0.01)
	assert.InDelta(t, 25.0, complexityAlignment("any level", "high"), 0.01)
	assert.InDelta(t, 15.0, complexityAlignment("medium", "high"), 0.01)
	assert.InDelta(t, 15.0, complexityAlignment("low", "medium"), 0.01)
	assert.InDelta(t, 0.0, complexityAlignment("low", "high"), 0.01)
	// Unknown strategy complexity normalizes to medium.
	assert.InDelta(t, 30.0, complexityAlignment("whatever", "medium"), 0.01)
}

func TestScoreStrategy_ClinicalSimulationComposite(t *testing.T) {
	score, reasoning := ScoreStrategy(mustStrategy(t, "Virtual Simulation Labs"), clinicalProfile(), clinicalInterview())

	// 0.40*92.5 + 0.35*30 + 0.15*50 + 0.10*25
	assert.InDelta(t, 57.5, score, 0.01)
	assert.Contains(t, reasoning, "clinical")
	assert.Contains(t, reasoning, "Immersive practice environments")
}

func TestScoreStrategy_NilProfilesAreSafe(t *testing.T) {
	for _, s := range catalog.All() {
		score, reasoning := ScoreStrategy(&s, nil, nil)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
		assert.NotEmpty(t, reasoning)
	}
}

func TestScoreStrategy_BoundsAcrossCatalog(t *testing.T) {
	profiles := []*types.ContentProfile{
		{},
		clinicalProfile(),
		{
			Topics:             []string{"technical", "safety", "clinical", "patient", "software", "compliance", "leadership", "process", "sales"},
			ComplexityLevel:    "low",
			PrimaryContentType: "procedural decision case",
			FileCount:          50,
		},
	}
	interviews := []*types.InterviewProfile{
		{},
		clinicalInterview(),
		{
			Answers: map[string]string{
				"q1": "interactive hands-on assessment scenario mobile collaborative busy motivation story",
			},
			CompletionPercentage: 100,
		},
	}

	for _, cp := range profiles {
		for _, ip := range interviews {
			for _, s := range catalog.All() {
				score, _ := ScoreStrategy(&s, cp, ip)
				assert.GreaterOrEqual(t, score, 0.0, "strategy %q", s.Name)
				assert.LessOrEqual(t, score, 100.0, "strategy %q", s.Name)
			}
		}
	}
}

func TestBuildReasoning_CitesTopicsWhenNoAffinityMatch(t *testing.T) {
	profile := &types.ContentProfile{Topics: []string{"Budgeting", "Forecasting", "Reporting"}}
	strategy := mustStrategy(t, "Structured Reading Modules")

	_, reasoning := ScoreStrategy(strategy, profile, nil)
	assert.Contains(t, reasoning, "budgeting and forecasting")
	assert.True(t, strings.HasSuffix(reasoning, "."), "reasoning should end in a sentence: %q", reasoning)
}

func TestBuildReasoning_EmptyProfileFallsBackToGenericLead(t *testing.T) {
	_, reasoning := ScoreStrategy(mustStrategy(t, "Structured Reading Modules"), nil, nil)
	assert.Contains(t, reasoning, "Broadly applicable across content profiles")
}

func TestScoreStrategy_Deterministic(t *testing.T) {
	strategy := mustStrategy(t, "Scenario-Based Learning")

	score1, reasoning1 := ScoreStrategy(strategy, clinicalProfile(), clinicalInterview())
	score2, reasoning2 := ScoreStrategy(strategy, clinicalProfile(), clinicalInterview())

	assert.Equal(t, score1, score2)
	assert.Equal(t, reasoning1, reasoning2)
}
