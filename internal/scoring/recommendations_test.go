package scoring

import (
	"testing"

	"github.com/marcus/course-designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendations_HighPriorityBelow70(t *testing.T) {
	recs := generateRecommendations(69, 90, 90)

	require.Len(t, recs, 1)
	assert.Equal(t, "Content Suitability", recs[0].Category)
	assert.Equal(t, types.PriorityHigh, recs[0].Priority)
	assert.NotEmpty(t, recs[0].Recommendation)
	assert.NotEmpty(t, recs[0].ExpectedImprovement)
}

func TestGenerateRecommendations_MediumPriorityBand(t *testing.T) {
	recs := generateRecommendations(90, 70, 90)
	require.Len(t, recs, 1)
	assert.Equal(t, "Engagement Potential", recs[0].Category)
	assert.Equal(t, types.PriorityMedium, recs[0].Priority)

	recs = generateRecommendations(90, 84, 90)
	require.Len(t, recs, 1)
	assert.Equal(t, types.PriorityMedium, recs[0].Priority)
}

func TestGenerateRecommendations_NoneAt85OrAbove(t *testing.T) {
	recs := generateRecommendations(85, 92, 100)
	assert.Empty(t, recs)
}

func TestGenerateRecommendations_FixedDimensionOrder(t *testing.T) {
	recs := generateRecommendations(50, 60, 65)

	require.Len(t, recs, 3)
	assert.Equal(t, "Content Suitability", recs[0].Category)
	assert.Equal(t, "Engagement Potential", recs[1].Category)
	assert.Equal(t, "Learning Effectiveness", recs[2].Category)
	for _, rec := range recs {
		assert.Equal(t, types.PriorityHigh, rec.Priority)
	}
}

func TestGenerateRecommendations_TemplateTextIsStable(t *testing.T) {
	first := generateRecommendations(60, 75, 80)
	second := generateRecommendations(60, 75, 80)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, types.PriorityHigh, first[0].Priority)
	assert.Equal(t, types.PriorityMedium, first[1].Priority)
	assert.Equal(t, types.PriorityMedium, first[2].Priority)
}
