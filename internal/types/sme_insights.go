// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// SMEInsights is the structured distillation of free-form SME interview
// answers: who the learners are, what constrains delivery, and what the
// expert asked for. The learning map's overview sheet reports these
// verbatim; the interview package also folds them back into an
// InterviewProfile for scoring.
type SMEInsights struct {
	Audience              string   `json:"audience"`
	DeliveryConstraints   []string `json:"delivery_constraints,omitempty"`
	SuccessMeasures       []string `json:"success_measures,omitempty"`
	EmphasizedPreferences []string `json:"emphasized_preferences,omitempty"`
}

// ToAnswers flattens the insights into interview-profile answer entries.
// List fields join with "; " so each answer stays a single searchable string.
func (s *SMEInsights) ToAnswers() map[string]string {
	if s == nil {
		return nil
	}
	answers := make(map[string]string)
	if strings.TrimSpace(s.Audience) != "" {
		answers["audience"] = s.Audience
	}
	if len(s.DeliveryConstraints) > 0 {
		answers["delivery_constraints"] = strings.Join(s.DeliveryConstraints, "; ")
	}
	if len(s.SuccessMeasures) > 0 {
		answers["success_measures"] = strings.Join(s.SuccessMeasures, "; ")
	}
	if len(s.EmphasizedPreferences) > 0 {
		answers["emphasized_preferences"] = strings.Join(s.EmphasizedPreferences, "; ")
	}
	return answers
}
