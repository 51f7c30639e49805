// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// StrategyDefinition describes one instructional strategy in the catalog.
// Definitions are static data: the ranking engine reads them but never
// mutates them.
type StrategyDefinition struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	UseCases         []string               `json:"use_cases"`
	IdealFor         StrategyFit            `json:"ideal_for"`
	Implementation   StrategyImplementation `json:"implementation"`
	ContentTypeMatch map[string]float64     `json:"content_type_match,omitempty"`
	Icon             string                 `json:"icon,omitempty"`
	Color            string                 `json:"color,omitempty"`
}

// StrategyFit describes the audiences and conditions a strategy suits best.
type StrategyFit struct {
	LearnerTypes    []string `json:"learner_types"`
	ContentTypes    []string `json:"content_types"`
	TimeConstraints string   `json:"time_constraints"`
	Complexity      string   `json:"complexity"`
}

// StrategyImplementation describes how a strategy is delivered in practice.
type StrategyImplementation struct {
	Formats  []string `json:"formats"`
	Duration string   `json:"duration"`
	Delivery string   `json:"delivery"`
}

// LowerName returns the strategy name lowercased, the form keyword checks use.
func (s *StrategyDefinition) LowerName() string {
	return strings.ToLower(s.Name)
}

// DescriptionLead returns the first sentence of the description, used when
// composing recommendation reasoning.
func (s *StrategyDefinition) DescriptionLead() string {
	desc := strings.TrimSpace(s.Description)
	if desc == "" {
		return ""
	}
	if idx := strings.Index(desc, ". "); idx >= 0 {
		return desc[:idx+1]
	}
	return desc
}

// SuitsAnyContent reports whether the strategy declares itself content-agnostic,
// either by an explicit "any content" fit entry or by covering many types.
func (s *StrategyDefinition) SuitsAnyContent() bool {
	for _, ct := range s.IdealFor.ContentTypes {
		if strings.Contains(strings.ToLower(ct), "any content") {
			return true
		}
	}
	return len(s.IdealFor.ContentTypes) > 4
}
