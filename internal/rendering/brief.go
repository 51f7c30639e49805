// Package rendering produces the learning map workbook and the design brief document from run artifacts.
package rendering

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

// BriefData represents the data structure passed to the design brief template
type BriefData struct {
	CourseTitle string
	GeneratedAt string
	Profile     BriefProfile
	Interview   *BriefInterview
	Scores      BriefScores
	Strategies  []BriefStrategy
	Outline     *BriefOutline
}

// BriefProfile summarizes the analyzed source content
type BriefProfile struct {
	Topics      string
	Complexity  string
	ContentType string
	FileCount   int
}

// BriefInterview summarizes SME interview coverage
type BriefInterview struct {
	Completion string
	Answered   int
}

// BriefScores carries the content scores and any improvement recommendations
type BriefScores struct {
	Suitability     int
	Engagement      int
	Effectiveness   int
	Overall         int
	Recommendations []BriefRecommendation
}

// BriefRecommendation is a single improvement recommendation line
type BriefRecommendation struct {
	Category string
	Priority string
	Text     string
	Expected string
}

// BriefStrategy is one ranked strategy entry
type BriefStrategy struct {
	Rank      int
	Name      string
	Score     string
	Reasoning string
	Formats   string
	Duration  string
	Delivery  string
}

// BriefOutline carries the module breakdown
type BriefOutline struct {
	Modules       []BriefModule
	TotalDuration int
}

// BriefModule is one course module row
type BriefModule struct {
	Number     int
	Title      string
	Objective  string
	Topics     string
	Strategy   string
	Duration   int
	Assessment string
}

// RenderBrief renders a Markdown design brief from a template using the run artifacts
func RenderBrief(data *LearningMapData, templatePath string) (string, error) {
	tmpl, err := parseBriefTemplate(templatePath)
	if err != nil {
		return "", err
	}

	briefData, err := buildBriefData(data)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	err = tmpl.Execute(&result, briefData)
	if err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// parseBriefTemplate reads and parses a Markdown brief template file
func parseBriefTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	// Parse template with custom functions for Markdown escaping
	tmpl, err := template.New("brief").Funcs(template.FuncMap{
		"escape": EscapeMarkdown,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

// buildBriefData constructs the template data structure from the run artifacts
func buildBriefData(data *LearningMapData) (*BriefData, error) {
	if data == nil {
		return nil, &RenderError{Message: "no brief data provided"}
	}
	if data.Profile == nil {
		return nil, &RenderError{Message: "content profile is required"}
	}
	if data.Recommendations == nil {
		return nil, &RenderError{Message: "strategy recommendations are required"}
	}

	title := data.CourseTitle
	if title == "" {
		title = "Course Design Brief"
	}
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	escapedTopics := make([]string, len(data.Profile.Topics))
	for i, topic := range data.Profile.Topics {
		escapedTopics[i] = EscapeMarkdown(topic)
	}

	brief := &BriefData{
		CourseTitle: EscapeMarkdown(title),
		GeneratedAt: generated.Format("2006-01-02"),
		Profile: BriefProfile{
			Topics:      strings.Join(escapedTopics, ", "),
			Complexity:  EscapeMarkdown(data.Profile.ComplexityLevel),
			ContentType: EscapeMarkdown(data.Profile.PrimaryContentType),
			FileCount:   data.Profile.FileCount,
		},
	}

	if data.Interview != nil {
		brief.Interview = &BriefInterview{
			Completion: fmt.Sprintf("%.0f%%", data.Interview.CompletionPercentage),
			Answered:   len(data.Interview.Answers),
		}
	}

	scores := data.Recommendations.ContentScores
	brief.Scores = BriefScores{
		Suitability:   scores.ContentSuitability,
		Engagement:    scores.EngagementPotential,
		Effectiveness: scores.LearningEffectiveness,
		Overall:       scores.OverallScore,
	}
	for _, rec := range scores.Recommendations {
		brief.Scores.Recommendations = append(brief.Scores.Recommendations, BriefRecommendation{
			Category: EscapeMarkdown(rec.Category),
			Priority: EscapeMarkdown(rec.Priority),
			Text:     EscapeMarkdown(rec.Recommendation),
			Expected: EscapeMarkdown(rec.ExpectedImprovement),
		})
	}

	for _, s := range data.Recommendations.Strategies {
		brief.Strategies = append(brief.Strategies, BriefStrategy{
			Rank:      s.Rank,
			Name:      EscapeMarkdown(s.StrategyName),
			Score:     fmt.Sprintf("%.1f", s.Score),
			Reasoning: EscapeMarkdown(s.Reasoning),
			Formats:   EscapeMarkdown(strings.Join(s.Implementation.Formats, ", ")),
			Duration:  EscapeMarkdown(s.Implementation.Duration),
			Delivery:  EscapeMarkdown(s.Implementation.Delivery),
		})
	}

	if data.Outline != nil {
		outline := &BriefOutline{TotalDuration: data.Outline.TotalDurationMinutes()}
		for _, m := range data.Outline.Modules {
			escapedModuleTopics := make([]string, len(m.Topics))
			for i, topic := range m.Topics {
				escapedModuleTopics[i] = EscapeMarkdown(topic)
			}
			outline.Modules = append(outline.Modules, BriefModule{
				Number:     m.Number,
				Title:      EscapeMarkdown(m.Title),
				Objective:  EscapeMarkdown(m.Objective),
				Topics:     strings.Join(escapedModuleTopics, ", "),
				Strategy:   EscapeMarkdown(m.Strategy),
				Duration:   m.DurationMinutes,
				Assessment: EscapeMarkdown(m.Assessment),
			})
		}
		brief.Outline = outline
	}

	return brief, nil
}
