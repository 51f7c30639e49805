package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a course design run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	CourseTitle string     `json:"course_title"`
	Audience    string     `json:"audience"`
	SourceRef   string     `json:"source_ref"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ArtifactStep constants for known artifact types
const (
	StepSourceContent    = "source_content"
	StepSourceMetadata   = "source_metadata"
	StepContentProfile   = "content_profile"
	StepInterviewNotes   = "interview_notes"
	StepInterviewProfile = "interview_profile"
	StepContentScores    = "content_scores"
	StepRecommendations  = "strategy_recommendations"
	StepModuleOutline    = "module_outline"
	StepDesignBrief      = "design_brief"
)
