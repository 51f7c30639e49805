package recommend

import (
	"testing"
	"time"

	"github.com/marcus/course-designer/internal/catalog"
	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_MergesScoresAndStrategies(t *testing.T) {
	content := &types.ContentProfile{
		Topics:             []string{"patient", "clinical", "safety"},
		ComplexityLevel:    "high",
		PrimaryContentType: "healthcare training",
		FileCount:          3,
	}
	interview := &types.InterviewProfile{
		Answers:              map[string]string{"q1": "Interactive hands-on simulation practice"},
		CompletionPercentage: 100,
	}

	payload := Compose(content, interview)

	require.NotNil(t, payload)
	assert.Len(t, payload.Strategies, ranking.DefaultMaxRecommendations)
	assert.NotZero(t, payload.ContentScores.OverallScore)

	parsed, err := time.Parse(time.RFC3339, payload.GeneratedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestComposeTop_ForwardsMaxRecommendations(t *testing.T) {
	payload := ComposeTop(nil, nil, 2)
	assert.Len(t, payload.Strategies, 2)

	payload = ComposeTop(nil, nil, 0)
	assert.Len(t, payload.Strategies, 1)

	payload = ComposeTop(nil, nil, 100)
	assert.Len(t, payload.Strategies, catalog.Size())
}

func TestCompose_SparseInputNeverFails(t *testing.T) {
	payload := Compose(nil, nil)

	require.NotNil(t, payload)
	assert.Len(t, payload.Strategies, ranking.DefaultMaxRecommendations)
	for _, dim := range []int{
		payload.ContentScores.ContentSuitability,
		payload.ContentScores.EngagementPotential,
		payload.ContentScores.LearningEffectiveness,
		payload.ContentScores.OverallScore,
	} {
		assert.GreaterOrEqual(t, dim, 0)
		assert.LessOrEqual(t, dim, 100)
	}
}

func TestCompose_StableApartFromTimestamp(t *testing.T) {
	first := Compose(nil, nil)
	second := Compose(nil, nil)

	first.GeneratedAt = ""
	second.GeneratedAt = ""
	assert.Equal(t, first, second)
}
