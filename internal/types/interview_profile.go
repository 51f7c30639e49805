// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"sort"
	"strings"
)

// InterviewProfile captures the subject-matter-expert interview outcome in the
// shape the scoring engine consumes: free-text answers keyed by question ID and
// an overall completion percentage.
type InterviewProfile struct {
	Answers              map[string]string `json:"answers"`
	CompletionPercentage float64           `json:"completion_percentage"`
}

// JoinedAnswers returns every answer lowercased and joined with single spaces,
// in sorted key order so the result is deterministic regardless of map
// iteration. Empty answers are skipped.
func (p *InterviewProfile) JoinedAnswers() string {
	if p == nil || len(p.Answers) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p.Answers))
	for k := range p.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		a := strings.TrimSpace(strings.ToLower(p.Answers[k]))
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

// Completion returns the completion percentage clamped into [0,100].
// A nil receiver reads as zero completion.
func (p *InterviewProfile) Completion() float64 {
	if p == nil {
		return 0
	}
	c := p.CompletionPercentage
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// AnswerCount returns the number of non-empty answers.
func (p *InterviewProfile) AnswerCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, a := range p.Answers {
		if strings.TrimSpace(a) != "" {
			count++
		}
	}
	return count
}
