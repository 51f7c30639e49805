//go:build integration
// +build integration

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStrategyScores_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "Sterile Processing Basics", "clinical staff", "docs/sterile.txt")
	require.NoError(t, err)

	scores := []RunStrategyScoreInput{
		{StrategyName: "Scenario-Based Learning", ContentMatch: 85, SMEMatch: 60, Feasibility: 50, InnovationBonus: 0, Composite: 64, Reasoning: "Strong topic alignment.", Rank: 1},
		{StrategyName: "Hands-On Workshops", ContentMatch: 70, SMEMatch: 40, Feasibility: 50, InnovationBonus: 0, Composite: 49.5, Rank: 2},
	}

	saved, err := db.SaveRunStrategyScores(ctx, runID, scores)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Scenario-Based Learning", saved[0].StrategyName)
	assert.NotNil(t, saved[0].Reasoning)
	assert.Nil(t, saved[1].Reasoning)

	loaded, err := db.GetRunStrategyScores(ctx, runID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Rank)
	assert.InDelta(t, 64.0, loaded[0].Composite, 0.001)

	// Re-saving replaces the previous scores
	saved, err = db.SaveRunStrategyScores(ctx, runID, scores[:1])
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	loaded, err = db.GetRunStrategyScores(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestGetTopStrategiesAcrossRuns_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "Sterile Processing Basics", "clinical staff", "docs/sterile.txt")
	require.NoError(t, err)

	_, err = db.SaveRunStrategyScores(ctx, runID, []RunStrategyScoreInput{
		{StrategyName: "Microlearning Modules", Composite: 55, Rank: 1},
	})
	require.NoError(t, err)

	usage, err := db.GetTopStrategiesAcrossRuns(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, usage)

	found := false
	for _, u := range usage {
		if u.StrategyName == "Microlearning Modules" {
			found = true
			assert.GreaterOrEqual(t, u.Runs, 1)
		}
	}
	assert.True(t, found, "expected Microlearning Modules in usage aggregate")
}
