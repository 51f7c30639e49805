// Package steps provides step definitions, dependency validation, and step execution
// for the course design pipeline.
package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	dbpkg "github.com/marcus/course-designer/internal/db"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepExecutor defines the interface for executing pipeline steps
type StepExecutor interface {
	Name() string
	Category() string
	Dependencies() []string
	Execute(ctx context.Context, runID uuid.UUID, params map[string]interface{}) (*StepResult, error)
	ValidateDependencies(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) error
}

// StepResult represents the result of executing a step
type StepResult struct {
	Step       string
	Status     string
	ArtifactID *uuid.UUID
	Duration   int64 // milliseconds
	Error      error
	Metadata   map[string]interface{}
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	"ingest_sources": {
		Name:         "ingest_sources",
		Category:     dbpkg.StepCategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
	},
	"analyze_content": {
		Name:         "analyze_content",
		Category:     dbpkg.StepCategoryAnalysis,
		Dependencies: []string{"ingest_sources"},
		Optional:     []string{},
	},
	"summarize_content": {
		Name:         "summarize_content",
		Category:     dbpkg.StepCategoryAnalysis,
		Dependencies: []string{"ingest_sources"},
		Optional:     []string{},
	},
	"generate_questions": {
		Name:         "generate_questions",
		Category:     dbpkg.StepCategoryInterview,
		Dependencies: []string{},
		Optional:     []string{"summarize_content"},
	},
	"collect_answers": {
		Name:         "collect_answers",
		Category:     dbpkg.StepCategoryInterview,
		Dependencies: []string{"generate_questions"},
		Optional:     []string{},
	},
	"build_interview_profile": {
		Name:         "build_interview_profile",
		Category:     dbpkg.StepCategoryInterview,
		Dependencies: []string{"collect_answers"},
		Optional:     []string{},
	},
	"score_content": {
		Name:         "score_content",
		Category:     dbpkg.StepCategoryScoring,
		Dependencies: []string{"analyze_content"},
		Optional:     []string{"build_interview_profile"},
	},
	"recommend_strategies": {
		Name:         "recommend_strategies",
		Category:     dbpkg.StepCategoryScoring,
		Dependencies: []string{"analyze_content"},
		Optional:     []string{"build_interview_profile"},
	},
	"build_outline": {
		Name:         "build_outline",
		Category:     dbpkg.StepCategoryPlanning,
		Dependencies: []string{"recommend_strategies"},
		Optional:     []string{},
	},
	"render_learning_map": {
		Name:         "render_learning_map",
		Category:     dbpkg.StepCategoryRendering,
		Dependencies: []string{"score_content", "recommend_strategies"},
		Optional:     []string{"build_outline"},
	},
	"render_brief": {
		Name:         "render_brief",
		Category:     dbpkg.StepCategoryRendering,
		Dependencies: []string{"recommend_strategies"},
		Optional:     []string{"build_outline"},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(ctx context.Context, db *dbpkg.DB, runID uuid.UUID, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string

	// Check each required dependency
	for _, dep := range def.Dependencies {
		step, err := db.GetRunStep(ctx, runID, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if step == nil {
			missing = append(missing, dep)
			continue
		}
		if step.Status != dbpkg.StepStatusCompleted {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// GetAvailableSteps returns steps that can be executed (dependencies met)
func GetAvailableSteps(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) ([]string, error) {
	var available []string

	for stepName := range StepRegistry {
		// Check if step already exists
		existing, err := db.GetRunStep(ctx, runID, stepName)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %s: %w", stepName, err)
		}
		if existing != nil && existing.Status == dbpkg.StepStatusCompleted {
			continue // Already completed
		}
		if existing != nil && existing.Status == dbpkg.StepStatusInProgress {
			continue // Currently in progress
		}

		// Check dependencies
		if err := ValidateDependencies(ctx, db, runID, stepName); err != nil {
			continue // Dependencies not met
		}

		available = append(available, stepName)
	}

	return available, nil
}

// GetBlockedSteps returns steps that are blocked (dependencies not met)
func GetBlockedSteps(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) ([]string, error) {
	var blocked []string

	for stepName := range StepRegistry {
		// Check if step already exists and is not completed
		existing, err := db.GetRunStep(ctx, runID, stepName)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %s: %w", stepName, err)
		}
		if existing != nil && (existing.Status == dbpkg.StepStatusCompleted || existing.Status == dbpkg.StepStatusInProgress) {
			continue // Already completed or in progress
		}

		// Check dependencies
		if err := ValidateDependencies(ctx, db, runID, stepName); err != nil {
			blocked = append(blocked, stepName)
		}
	}

	return blocked, nil
}
