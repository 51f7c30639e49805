// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marcus/course-designer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintContentProfile outputs a human-readable summary of the analyzed content.
func (p *Printer) PrintContentProfile(profile *types.ContentProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Type:       %s\n", profile.PrimaryContentType))
	sb.WriteString(fmt.Sprintf("Complexity: %s\n", profile.ComplexityBand()))
	sb.WriteString(fmt.Sprintf("Files:      %d\n", profile.FileCount))

	if len(profile.Topics) > 0 {
		sb.WriteString("\nTopics:\n")
		count := min(len(profile.Topics), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Topics[i]))
		}
		if len(profile.Topics) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Topics)-maxItemsToShow))
		}
	}

	if profile.Quality != nil {
		sb.WriteString(fmt.Sprintf("\nQuality readings (mean %.1f):\n", profile.QualityScore()))
		for _, r := range []struct {
			name  string
			value *float64
		}{
			{"Clarity", profile.Quality.Clarity},
			{"Completeness", profile.Quality.Completeness},
			{"Structure", profile.Quality.Structure},
			{"Currency", profile.Quality.Currency},
		} {
			if r.value != nil {
				sb.WriteString(fmt.Sprintf("  %-13s %.0f\n", r.name+":", *r.value))
			}
		}
	}

	p.printBox("CONTENT PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterviewProfile outputs the interview answers feeding the scoring engine.
func (p *Printer) PrintInterviewProfile(profile *types.InterviewProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Completion: %.0f%%\n", profile.Completion()))
	sb.WriteString(fmt.Sprintf("Answers:    %d\n", profile.AnswerCount()))

	p.printBox("SME INTERVIEW PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContentScores outputs the three dimension scores with simple bars and
// any improvement recommendations they triggered.
func (p *Printer) PrintContentScores(scores *types.ContentScoreResult) {
	if scores == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(scoreLine("Suitability", scores.ContentSuitability))
	sb.WriteString(scoreLine("Engagement", scores.EngagementPotential))
	sb.WriteString(scoreLine("Effectiveness", scores.LearningEffectiveness))
	sb.WriteString(fmt.Sprintf("%-14s %d\n", "Overall:", scores.OverallScore))

	if len(scores.Recommendations) > 0 {
		sb.WriteString("\nImprovements:\n")
		for _, rec := range scores.Recommendations {
			text := rec.Recommendation
			if len(text) > 45 {
				text = text[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", rec.Priority, text))
		}
	}

	p.printBox("CONTENT SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStrategies outputs the ranked strategy recommendations.
func (p *Printer) PrintStrategies(strategies []types.ScoredStrategy) {
	if len(strategies) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(strategies), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := strategies[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", s.Rank, s.StrategyName))
		sb.WriteString(fmt.Sprintf("    Score: %.1f\n", s.Score))
		reasoning := s.Reasoning
		if len(reasoning) > 48 {
			reasoning = reasoning[:45] + "..."
		}
		if reasoning != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", reasoning))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(strategies) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more strategies", len(strategies)-maxItemsToShow))
	}

	p.printBox("STRATEGY RECOMMENDATIONS", sb.String())
}

// PrintOutline outputs the planned course module structure.
func (p *Printer) PrintOutline(outline *types.ModuleOutline) {
	if outline == nil || len(outline.Modules) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Modules:  %d\n", outline.ModuleCount()))
	sb.WriteString(fmt.Sprintf("Duration: %d min\n", outline.TotalDurationMinutes()))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n\n", outline.PrimaryStrategy))

	count := min(len(outline.Modules), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := outline.Modules[i]
		title := m.Title
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("%d. %s (%d min)\n", m.Number, title, m.DurationMinutes))
	}
	if len(outline.Modules) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more modules\n", len(outline.Modules)-maxItemsToShow))
	}

	p.printBox("MODULE OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreLine renders one dimension as a labeled ten-segment bar.
func scoreLine(label string, score int) string {
	filled := score / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	return fmt.Sprintf("%-14s %s %d\n", label+":", bar, score)
}
