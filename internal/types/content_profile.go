// Package types provides type definitions for structured data used throughout the course-designer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Complexity bands recognized by the scoring engine. Free-text values are
// normalized onto these three; anything unrecognized is treated as medium.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// DefaultQualityRating is substituted for any absent quality sub-reading.
const DefaultQualityRating = 75.0

// ContentProfile represents the structured summary of analyzed source content.
// It is produced by the analysis step (or supplied directly by a caller) and
// consumed read-only by the scoring engine.
type ContentProfile struct {
	Topics             []string        `json:"topics"`
	ComplexityLevel    string          `json:"complexity_level"`
	PrimaryContentType string          `json:"primary_content_type"`
	FileCount          int             `json:"file_count"`
	Quality            *QualityRatings `json:"quality,omitempty"`
}

// QualityRatings holds the four optional quality sub-readings for content.
// A nil field means the reading was not taken and defaults to DefaultQualityRating.
type QualityRatings struct {
	Clarity      *float64 `json:"clarity,omitempty"`
	Completeness *float64 `json:"completeness,omitempty"`
	Structure    *float64 `json:"structure,omitempty"`
	Currency     *float64 `json:"currency,omitempty"`
}

// ComplexityBand returns the normalized complexity band for the profile.
// Unknown or empty values normalize to medium; a nil profile is medium.
func (p *ContentProfile) ComplexityBand() string {
	if p == nil {
		return ComplexityMedium
	}
	return NormalizeComplexity(p.ComplexityLevel)
}

// JoinedTopics returns all topics lowercased and joined with single spaces,
// the canonical haystack for keyword detection. Empty topics are skipped.
func (p *ContentProfile) JoinedTopics() string {
	if p == nil || len(p.Topics) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Topics))
	for _, t := range p.Topics {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// TopicCount returns the number of non-empty topics.
func (p *ContentProfile) TopicCount() int {
	if p == nil {
		return 0
	}
	count := 0
	for _, t := range p.Topics {
		if strings.TrimSpace(t) != "" {
			count++
		}
	}
	return count
}

// QualityScore returns the mean of the four quality sub-readings, substituting
// DefaultQualityRating for any that is absent. A nil receiver or nil Quality
// yields the neutral default.
func (p *ContentProfile) QualityScore() float64 {
	if p == nil || p.Quality == nil {
		return DefaultQualityRating
	}
	q := p.Quality
	sum := ratingOrDefault(q.Clarity) +
		ratingOrDefault(q.Completeness) +
		ratingOrDefault(q.Structure) +
		ratingOrDefault(q.Currency)
	return sum / 4.0
}

// NormalizeComplexity maps a free-text complexity label onto one of the three
// recognized bands. Unknown values are treated as medium so that sparse or
// model-generated input never fails.
func NormalizeComplexity(level string) string {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case ComplexityLow, "basic", "beginner", "introductory":
		return ComplexityLow
	case ComplexityHigh, "advanced", "complex", "expert":
		return ComplexityHigh
	case ComplexityMedium, "moderate", "intermediate":
		return ComplexityMedium
	default:
		return ComplexityMedium
	}
}

// ratingOrDefault resolves an optional quality reading, clamping it into [0,100].
func ratingOrDefault(r *float64) float64 {
	if r == nil {
		return DefaultQualityRating
	}
	v := *r
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
