// Package rendering produces the learning map workbook and the design brief document from run artifacts.
package rendering

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/marcus/course-designer/internal/types"
)

func sampleMapData() *LearningMapData {
	return &LearningMapData{
		CourseTitle: "Sterile Processing Basics",
		Profile: &types.ContentProfile{
			Topics:             []string{"hand hygiene", "sterile processing"},
			ComplexityLevel:    "medium",
			PrimaryContentType: "procedural documentation",
			FileCount:          2,
		},
		Interview: &types.InterviewProfile{
			Answers:              map[string]string{"audience": "new clinical hires"},
			CompletionPercentage: 83,
		},
		Recommendations: &types.StrategyRecommendations{
			ContentScores: types.ContentScoreResult{
				ContentSuitability:    82,
				EngagementPotential:   79,
				LearningEffectiveness: 84,
				OverallScore:          82,
				Recommendations: []types.ImprovementRecommendation{
					{
						Category:            "Engagement",
						Priority:            "Medium",
						Recommendation:      "Add scenario-based practice activities",
						ExpectedImprovement: "+5-10 points engagement potential",
					},
				},
			},
			Strategies: []types.ScoredStrategy{
				{
					Rank:         1,
					StrategyName: "Scenario-Based Learning",
					Score:        78.5,
					Reasoning:    "Strong match for procedural healthcare content",
					Implementation: types.StrategyImplementation{
						Formats:  []string{"branching scenarios", "case studies"},
						Duration: "2-4 weeks",
						Delivery: "blended",
					},
				},
				{
					Rank:         2,
					StrategyName: "Microlearning Modules",
					Score:        71,
					Reasoning:    "Works well for busy clinical staff",
					Implementation: types.StrategyImplementation{
						Formats:  []string{"short videos"},
						Duration: "1-2 weeks",
						Delivery: "self-paced",
					},
				},
			},
		},
		Outline: &types.ModuleOutline{
			CourseTitle:     "Sterile Processing Basics",
			PrimaryStrategy: "Scenario-Based Learning",
			Modules: []types.CourseModule{
				{
					Number:          1,
					Title:           "Hand Hygiene Fundamentals",
					Objective:       "Apply correct hand hygiene technique",
					Topics:          []string{"hand hygiene"},
					Strategy:        "Scenario-Based Learning",
					DurationMinutes: 20,
				},
				{
					Number:          2,
					Title:           "Sterile Processing Workflow",
					Objective:       "Follow the sterile processing workflow end to end",
					Topics:          []string{"sterile processing"},
					Strategy:        "Scenario-Based Learning",
					DurationMinutes: 35,
				},
			},
			GeneratedAt: "2026-08-24",
		},
		GeneratedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildLearningMap_RequiresData(t *testing.T) {
	_, err := BuildLearningMap(nil)
	require.Error(t, err)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestBuildLearningMap_RequiresProfile(t *testing.T) {
	data := sampleMapData()
	data.Profile = nil

	_, err := BuildLearningMap(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content profile")
}

func TestBuildLearningMap_RequiresRecommendations(t *testing.T) {
	data := sampleMapData()
	data.Recommendations = nil

	_, err := BuildLearningMap(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy recommendations")
}

func TestBuildLearningMap_Sheets(t *testing.T) {
	f, err := BuildLearningMap(sampleMapData())
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{SheetOverview, SheetScores, SheetStrategies, SheetOutline}, sheets)
}

func TestBuildLearningMap_OverviewValues(t *testing.T) {
	f, err := BuildLearningMap(sampleMapData())
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetOverview, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sterile Processing Basics", title)

	topics, err := f.GetCellValue(SheetOverview, "B5")
	require.NoError(t, err)
	assert.Equal(t, "hand hygiene, sterile processing", topics)

	files, err := f.GetCellValue(SheetOverview, "B8")
	require.NoError(t, err)
	assert.Equal(t, "2", files)

	overall, err := f.GetCellValue(SheetOverview, "B15")
	require.NoError(t, err)
	assert.Equal(t, "82", overall)

	top, err := f.GetCellValue(SheetOverview, "B16")
	require.NoError(t, err)
	assert.Equal(t, "Scenario-Based Learning (78.5)", top)

	duration, err := f.GetCellValue(SheetOverview, "B18")
	require.NoError(t, err)
	assert.Equal(t, "55 min", duration)
}

func TestBuildLearningMap_ScoreRows(t *testing.T) {
	f, err := BuildLearningMap(sampleMapData())
	require.NoError(t, err)
	defer f.Close()

	dimension, err := f.GetCellValue(SheetScores, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Content Suitability", dimension)

	suitability, err := f.GetCellValue(SheetScores, "B2")
	require.NoError(t, err)
	assert.Equal(t, "82", suitability)

	overall, err := f.GetCellValue(SheetScores, "B5")
	require.NoError(t, err)
	assert.Equal(t, "82", overall)

	// Improvement recommendations table follows the scores block
	header, err := f.GetCellValue(SheetScores, "A8")
	require.NoError(t, err)
	assert.Equal(t, "Category", header)

	category, err := f.GetCellValue(SheetScores, "A9")
	require.NoError(t, err)
	assert.Equal(t, "Engagement", category)
}

func TestBuildLearningMap_StrategyRows(t *testing.T) {
	f, err := BuildLearningMap(sampleMapData())
	require.NoError(t, err)
	defer f.Close()

	rank, err := f.GetCellValue(SheetStrategies, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", rank)

	name, err := f.GetCellValue(SheetStrategies, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Scenario-Based Learning", name)

	score, err := f.GetCellValue(SheetStrategies, "C2")
	require.NoError(t, err)
	assert.Equal(t, "78.5", score)

	formats, err := f.GetCellValue(SheetStrategies, "E2")
	require.NoError(t, err)
	assert.Equal(t, "branching scenarios, case studies", formats)

	secondName, err := f.GetCellValue(SheetStrategies, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Microlearning Modules", secondName)
}

func TestBuildLearningMap_OutlineRows(t *testing.T) {
	f, err := BuildLearningMap(sampleMapData())
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetOutline, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Hand Hygiene Fundamentals", title)

	duration, err := f.GetCellValue(SheetOutline, "F2")
	require.NoError(t, err)
	assert.Equal(t, "20", duration)

	// Total row sits one blank row below the modules
	label, err := f.GetCellValue(SheetOutline, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := f.GetCellValue(SheetOutline, "F5")
	require.NoError(t, err)
	assert.Equal(t, "55", total)
}

func TestBuildLearningMap_WithoutOutline(t *testing.T) {
	data := sampleMapData()
	data.Outline = nil

	f, err := BuildLearningMap(data)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{SheetOverview, SheetScores, SheetStrategies}, sheets)
}

func TestWriteLearningMap_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "out", "learning_map.xlsx")

	err := WriteLearningMap(sampleMapData(), outputPath)
	require.NoError(t, err)

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetOverview, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sterile Processing Basics", title)
}
