// Package rendering produces the learning map workbook and the design brief document from run artifacts.
package rendering

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marcus/course-designer/internal/types"
)

// Sheet names in the learning map workbook
const (
	SheetOverview   = "Overview"
	SheetScores     = "Content Scores"
	SheetStrategies = "Strategy Recommendations"
	SheetOutline    = "Module Outline"
)

// LearningMapData carries the run artifacts that feed the workbook.
// Profile and Recommendations are required. Interview and Outline are
// optional and their sections are omitted when nil.
type LearningMapData struct {
	CourseTitle     string
	Profile         *types.ContentProfile
	Interview       *types.InterviewProfile
	Recommendations *types.StrategyRecommendations
	Outline         *types.ModuleOutline
	GeneratedAt     time.Time
}

// mapStyles holds the style IDs registered once per workbook
type mapStyles struct {
	title  int
	header int
	label  int
	wrap   int
}

// sheetWriter accumulates the first error from cell writes so the row
// building code stays linear
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *sheetWriter) setRow(row int, values ...interface{}) {
	for i, v := range values {
		w.set(i+1, row, v)
	}
}

func (w *sheetWriter) style(startCol, startRow, endCol, endRow, styleID int) {
	if w.err != nil {
		return
	}
	start, err := excelize.CoordinatesToCellName(startCol, startRow)
	if err != nil {
		w.err = err
		return
	}
	end, err := excelize.CoordinatesToCellName(endCol, endRow)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, start, end, styleID)
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, startCol, endCol, width)
}

// BuildLearningMap assembles the learning map workbook in memory.
// The caller owns the returned file and must Close it.
func BuildLearningMap(data *LearningMapData) (*excelize.File, error) {
	if data == nil {
		return nil, &RenderError{Message: "no learning map data provided"}
	}
	if data.Profile == nil {
		return nil, &RenderError{Message: "content profile is required"}
	}
	if data.Recommendations == nil {
		return nil, &RenderError{Message: "strategy recommendations are required"}
	}

	f := excelize.NewFile()

	styles, err := registerStyles(f)
	if err != nil {
		f.Close()
		return nil, &RenderError{Message: "failed to register styles", Cause: err}
	}

	// The default sheet becomes the overview
	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		f.Close()
		return nil, &RenderError{Message: "failed to name overview sheet", Cause: err}
	}

	if err := writeOverviewSheet(f, styles, data); err != nil {
		f.Close()
		return nil, &RenderError{Message: "failed to build overview sheet", Cause: err}
	}
	if err := writeScoresSheet(f, styles, data.Recommendations); err != nil {
		f.Close()
		return nil, &RenderError{Message: "failed to build content scores sheet", Cause: err}
	}
	if err := writeStrategiesSheet(f, styles, data.Recommendations.Strategies); err != nil {
		f.Close()
		return nil, &RenderError{Message: "failed to build strategy sheet", Cause: err}
	}
	if data.Outline != nil {
		if err := writeOutlineSheet(f, styles, data.Outline); err != nil {
			f.Close()
			return nil, &RenderError{Message: "failed to build module outline sheet", Cause: err}
		}
	}

	idx, err := f.GetSheetIndex(SheetOverview)
	if err == nil {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

// WriteLearningMap builds the workbook and saves it to outputPath,
// creating parent directories as needed.
func WriteLearningMap(data *LearningMapData, outputPath string) error {
	f, err := BuildLearningMap(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to create output directory: %s", dir), Cause: err}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to save workbook: %s", outputPath), Cause: err}
	}
	return nil
}

func registerStyles(f *excelize.File) (*mapStyles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	label, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, err
	}

	return &mapStyles{title: title, header: header, label: label, wrap: wrap}, nil
}

func writeOverviewSheet(f *excelize.File, styles *mapStyles, data *LearningMapData) error {
	w := &sheetWriter{f: f, sheet: SheetOverview}
	w.width("A", "A", 28)
	w.width("B", "B", 64)

	title := data.CourseTitle
	if title == "" {
		title = "Course Learning Map"
	}
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	w.set(1, 1, title)
	w.style(1, 1, 1, 1, styles.title)
	w.setRow(2, "Generated", generated.Format("2006-01-02 15:04"))

	row := 4
	w.set(1, row, "Source Content")
	w.style(1, row, 1, row, styles.header)
	row++
	w.setRow(row, "Topics", strings.Join(data.Profile.Topics, ", "))
	row++
	w.setRow(row, "Complexity", data.Profile.ComplexityLevel)
	row++
	w.setRow(row, "Primary content type", data.Profile.PrimaryContentType)
	row++
	w.setRow(row, "Source files", data.Profile.FileCount)
	row += 2

	if data.Interview != nil {
		w.set(1, row, "SME Interview")
		w.style(1, row, 1, row, styles.header)
		row++
		w.setRow(row, "Completion", fmt.Sprintf("%.0f%%", data.Interview.CompletionPercentage))
		row++
		w.setRow(row, "Answered questions", len(data.Interview.Answers))
		row += 2
	}

	w.set(1, row, "Results")
	w.style(1, row, 1, row, styles.header)
	row++
	w.setRow(row, "Overall readiness score", data.Recommendations.ContentScores.OverallScore)
	row++
	if len(data.Recommendations.Strategies) > 0 {
		top := data.Recommendations.Strategies[0]
		w.setRow(row, "Recommended strategy", fmt.Sprintf("%s (%.1f)", top.StrategyName, top.Score))
		row++
	}
	if data.Outline != nil {
		w.setRow(row, "Modules planned", data.Outline.ModuleCount())
		row++
		w.setRow(row, "Estimated duration", fmt.Sprintf("%d min", data.Outline.TotalDurationMinutes()))
	}

	return w.err
}

func writeScoresSheet(f *excelize.File, styles *mapStyles, recs *types.StrategyRecommendations) error {
	if _, err := f.NewSheet(SheetScores); err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SheetScores}
	w.width("A", "A", 26)
	w.width("B", "B", 10)
	w.width("C", "D", 56)

	w.setRow(1, "Dimension", "Score")
	w.style(1, 1, 2, 1, styles.header)

	scores := recs.ContentScores
	w.setRow(2, "Content Suitability", scores.ContentSuitability)
	w.setRow(3, "Engagement Potential", scores.EngagementPotential)
	w.setRow(4, "Learning Effectiveness", scores.LearningEffectiveness)
	w.setRow(5, "Overall", scores.OverallScore)
	w.style(1, 5, 2, 5, styles.label)

	if len(scores.Recommendations) == 0 {
		return w.err
	}

	row := 7
	w.set(1, row, "Improvement Recommendations")
	w.style(1, row, 1, row, styles.title)
	row++
	w.setRow(row, "Category", "Priority", "Recommendation", "Expected Improvement")
	w.style(1, row, 4, row, styles.header)
	row++
	for _, rec := range scores.Recommendations {
		w.setRow(row, rec.Category, rec.Priority, rec.Recommendation, rec.ExpectedImprovement)
		w.style(3, row, 4, row, styles.wrap)
		row++
	}

	return w.err
}

func writeStrategiesSheet(f *excelize.File, styles *mapStyles, strategies []types.ScoredStrategy) error {
	if _, err := f.NewSheet(SheetStrategies); err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SheetStrategies}
	w.width("A", "A", 6)
	w.width("B", "B", 28)
	w.width("C", "C", 8)
	w.width("D", "D", 64)
	w.width("E", "E", 36)
	w.width("F", "G", 22)

	w.setRow(1, "Rank", "Strategy", "Score", "Reasoning", "Formats", "Duration", "Delivery")
	w.style(1, 1, 7, 1, styles.header)

	for i, s := range strategies {
		row := i + 2
		w.setRow(row,
			s.Rank,
			s.StrategyName,
			s.Score,
			s.Reasoning,
			strings.Join(s.Implementation.Formats, ", "),
			s.Implementation.Duration,
			s.Implementation.Delivery,
		)
		w.style(4, row, 5, row, styles.wrap)
	}

	return w.err
}

func writeOutlineSheet(f *excelize.File, styles *mapStyles, outline *types.ModuleOutline) error {
	if _, err := f.NewSheet(SheetOutline); err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SheetOutline}
	w.width("A", "A", 8)
	w.width("B", "B", 34)
	w.width("C", "C", 56)
	w.width("D", "D", 44)
	w.width("E", "E", 26)
	w.width("F", "F", 14)
	w.width("G", "G", 30)

	w.setRow(1, "Module", "Title", "Objective", "Topics", "Strategy", "Duration (min)", "Assessment")
	w.style(1, 1, 7, 1, styles.header)

	row := 2
	for _, m := range outline.Modules {
		w.setRow(row,
			m.Number,
			m.Title,
			m.Objective,
			strings.Join(m.Topics, ", "),
			m.Strategy,
			m.DurationMinutes,
			m.Assessment,
		)
		w.style(3, row, 4, row, styles.wrap)
		row++
	}

	row++
	w.setRow(row, "Total", "", "", "", "", outline.TotalDurationMinutes())
	w.style(1, row, 6, row, styles.label)

	return w.err
}
