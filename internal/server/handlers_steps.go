package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/analysis"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/ingestion"
	"github.com/marcus/course-designer/internal/outline"
	"github.com/marcus/course-designer/internal/pipeline"
	"github.com/marcus/course-designer/internal/pipeline/steps"
	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/recommend"
	"github.com/marcus/course-designer/internal/rendering"
	"github.com/marcus/course-designer/internal/scoring"
	"github.com/marcus/course-designer/internal/types"
	"github.com/marcus/course-designer/internal/validation"
)

// RunCreateRequest represents the request to create a new pipeline run
type RunCreateRequest struct {
	CourseTitle string `json:"course_title"` // REQUIRED
	Audience    string `json:"audience"`     // optional
	SourceURL   string `json:"source_url"`   // Optional, enables the ingest_sources step
}

// RunCreateResponse represents the response for creating a run
type RunCreateResponse struct {
	RunID     string         `json:"run_id"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	Steps     RunStepsStatus `json:"steps"`
}

// RunStepsStatus represents the status of steps for a run
type RunStepsStatus struct {
	Completed []string `json:"completed"`
	Available []string `json:"available"`
	Blocked   []string `json:"blocked"`
}

// StepExecuteRequest represents the request to execute a step
type StepExecuteRequest struct {
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// StepExecuteResponse represents the response for executing a step
type StepExecuteResponse struct {
	Step        string              `json:"step"`
	Status      string              `json:"status"`
	RunID       string              `json:"run_id"`
	StartedAt   string              `json:"started_at,omitempty"`
	CompletedAt string              `json:"completed_at,omitempty"`
	DurationMs  *int                `json:"duration_ms,omitempty"`
	NextSteps   []string            `json:"next_steps,omitempty"`
	Checkpoint  *CheckpointResponse `json:"checkpoint,omitempty"`
}

// CheckpointResponse represents a checkpoint
type CheckpointResponse struct {
	Step        string                 `json:"step"`
	RunID       string                 `json:"run_id"`
	CompletedAt string                 `json:"completed_at"`
	Artifacts   map[string]interface{} `json:"artifacts"`
}

// StepStatusResponse represents the status of a single step
type StepStatusResponse struct {
	Step        string  `json:"step"`
	Status      string  `json:"status"`
	RunID       string  `json:"run_id"`
	StartedAt   *string `json:"started_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	DurationMs  *int    `json:"duration_ms,omitempty"`
	ArtifactID  *string `json:"artifact_id,omitempty"`
	Error       *string `json:"error,omitempty"`
}

// RunStepsListResponse represents the list of all steps for a run
type RunStepsListResponse struct {
	RunID   string               `json:"run_id"`
	Status  string               `json:"status"`
	Steps   []StepStatusResponse `json:"steps"`
	Summary RunStepsSummary      `json:"summary"`
}

// RunStepsSummary represents a summary of step statuses
type RunStepsSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// ResumeRequest represents the request to resume from a checkpoint
type ResumeRequest struct {
	MaxSteps int `json:"max_steps,omitempty"`
}

// ResumeResponse represents the response for resuming
type ResumeResponse struct {
	RunID              string   `json:"run_id"`
	ResumedFrom        string   `json:"resumed_from"`
	ExecutedSteps      []string `json:"executed_steps"`
	CurrentStatus      string   `json:"current_status"`
	NextAvailableSteps []string `json:"next_available_steps"`
}

// CheckpointGetResponse represents the response for getting a checkpoint
type CheckpointGetResponse struct {
	RunID              string                 `json:"run_id"`
	CheckpointStep     string                 `json:"checkpoint_step"`
	CheckpointAt       string                 `json:"checkpoint_at"`
	CompletedSteps     []string               `json:"completed_steps"`
	NextAvailableSteps []string               `json:"next_available_steps"`
	Artifacts          map[string]interface{} `json:"artifacts"`
}

// stepInputError marks a step failure caused by missing or invalid input
// rather than an internal fault.
type stepInputError struct {
	msg string
}

func (e *stepInputError) Error() string { return e.msg }

// handleCreateRun creates a new design run for step-by-step execution
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.CourseTitle == "" {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{
			"error":   "course_title is required",
			"details": "The course_title field is required and cannot be empty.",
		})
		return
	}

	runID, err := s.db.CreateRun(r.Context(), req.CourseTitle, req.Audience, req.SourceURL)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create run: "+err.Error())
		return
	}

	available, err := steps.GetAvailableSteps(r.Context(), s.db, runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get available steps: "+err.Error())
		return
	}

	blocked, err := steps.GetBlockedSteps(r.Context(), s.db, runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get blocked steps: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, RunCreateResponse{
		RunID:     runID.String(),
		Status:    "created",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Steps: RunStepsStatus{
			Completed: []string{},
			Available: available,
			Blocked:   blocked,
		},
	})
}

// handleExecuteStep executes a specific pipeline step
func (s *Server) handleExecuteStep(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")
	stepName := r.PathValue("step_name")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	existingStep, err := s.db.GetRunStep(r.Context(), runID, stepName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existingStep != nil {
		if existingStep.Status == db.StepStatusCompleted {
			s.errorResponse(w, http.StatusConflict, "Step already completed")
			return
		}
		if existingStep.Status == db.StepStatusInProgress {
			s.errorResponse(w, http.StatusConflict, "Step already in progress")
			return
		}
	}

	if err := steps.ValidateDependencies(r.Context(), s.db, runID, stepName); err != nil {
		var missingDeps []string
		if depErr, ok := err.(*steps.DependencyError); ok {
			missingDeps = depErr.MissingDependencies
		} else {
			missingDeps = []string{err.Error()}
		}

		available, _ := steps.GetAvailableSteps(r.Context(), s.db, runID)
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": "Dependencies not met",
			"details": map[string]interface{}{
				"step":                 stepName,
				"missing_dependencies": missingDeps,
				"available_steps":      available,
			},
		})
		return
	}

	var stepReq StepExecuteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&stepReq)
	}

	def, ok := steps.StepRegistry[stepName]
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unknown step: %s", stepName))
		return
	}

	if existingStep == nil {
		stepInput := &db.RunStepInput{
			Step:       stepName,
			Category:   def.Category,
			Status:     db.StepStatusInProgress,
			Parameters: stepReq.Parameters,
		}
		_, err = s.db.CreateRunStep(r.Context(), runID, stepInput)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to create step record: "+err.Error())
			return
		}
	} else {
		err = s.db.UpdateRunStepStatus(r.Context(), runID, stepName, db.StepStatusInProgress, nil, nil)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to update step status: "+err.Error())
			return
		}
	}

	startTime := time.Now()
	artifacts, execErr := s.runStep(r.Context(), runID, run, stepName, stepReq.Parameters)
	duration := int(time.Since(startTime).Milliseconds())

	if execErr != nil {
		errMsg := execErr.Error()
		_ = s.db.UpdateRunStepStatus(r.Context(), runID, stepName, db.StepStatusFailed, &errMsg, nil)

		var inputErr *stepInputError
		if errors.As(execErr, &inputErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, errMsg)
		} else {
			s.errorResponse(w, http.StatusInternalServerError, "Step execution failed: "+errMsg)
		}
		return
	}

	err = s.db.UpdateRunStepStatus(r.Context(), runID, stepName, db.StepStatusCompleted, nil, nil)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update step status: "+err.Error())
		return
	}

	available, _ := steps.GetAvailableSteps(r.Context(), s.db, runID)

	if artifacts == nil {
		artifacts = make(map[string]interface{})
	}
	checkpointInput := &db.RunCheckpointInput{
		Step:      stepName,
		Artifacts: artifacts,
		Metadata:  map[string]interface{}{"duration_ms": duration},
	}
	checkpoint, _ := s.db.CreateRunCheckpoint(r.Context(), runID, checkpointInput)

	var checkpointResp *CheckpointResponse
	if checkpoint != nil {
		checkpointResp = &CheckpointResponse{
			Step:        checkpoint.Step,
			RunID:       checkpoint.RunID.String(),
			CompletedAt: checkpoint.CompletedAt.Format(time.RFC3339),
			Artifacts:   checkpoint.Artifacts,
		}
	}

	s.jsonResponse(w, http.StatusOK, StepExecuteResponse{
		Step:        stepName,
		Status:      db.StepStatusCompleted,
		RunID:       runID.String(),
		StartedAt:   startTime.Format(time.RFC3339),
		CompletedAt: time.Now().Format(time.RFC3339),
		DurationMs:  &duration,
		NextSteps:   available,
		Checkpoint:  checkpointResp,
	})
}

// runStep dispatches a step name to its executor. The returned map describes
// the artifacts the step produced and is stored on the checkpoint.
func (s *Server) runStep(ctx context.Context, runID uuid.UUID, run *db.Run, stepName string, params map[string]interface{}) (map[string]interface{}, error) {
	switch stepName {
	case "ingest_sources":
		return s.stepIngestSources(ctx, runID, run)
	case "analyze_content":
		return s.stepAnalyzeContent(ctx, runID)
	case "summarize_content":
		return s.stepSummarizeContent(ctx, runID)
	case "generate_questions":
		return s.stepGenerateQuestions(ctx, runID)
	case "collect_answers":
		return s.stepCollectAnswers(ctx, runID, params)
	case "build_interview_profile":
		return s.stepBuildInterviewProfile(ctx, runID)
	case "score_content":
		return s.stepScoreContent(ctx, runID)
	case "recommend_strategies":
		return s.stepRecommendStrategies(ctx, runID, params)
	case "build_outline":
		return s.stepBuildOutline(ctx, runID, run, params)
	case "render_learning_map":
		return s.stepRenderLearningMap(ctx, runID, run)
	case "render_brief":
		return s.stepRenderBrief(ctx, runID, run, params)
	default:
		return nil, &stepInputError{msg: "unknown step: " + stepName}
	}
}

func (s *Server) stepIngestSources(ctx context.Context, runID uuid.UUID, run *db.Run) (map[string]interface{}, error) {
	if run.SourceRef == "" {
		return nil, &stepInputError{msg: "run has no source URL; upload documents via POST /runs/{id}/documents instead"}
	}

	cleaned, metadata, err := ingestion.IngestFromURL(ctx, run.SourceRef, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s: %w", run.SourceRef, err)
	}

	if err := s.db.SaveTextArtifact(ctx, runID, db.StepSourceContent, db.StepCategoryIngestion, cleaned); err != nil {
		return nil, fmt.Errorf("failed to save source content: %w", err)
	}
	if err := s.db.SaveArtifact(ctx, runID, db.StepSourceMetadata, db.StepCategoryIngestion, metadata); err != nil {
		return nil, fmt.Errorf("failed to save source metadata: %w", err)
	}

	return map[string]interface{}{
		"source":     metadata.Source,
		"word_count": len(strings.Fields(cleaned)),
	}, nil
}

func (s *Server) stepAnalyzeContent(ctx context.Context, runID uuid.UUID) (map[string]interface{}, error) {
	text, err := s.db.GetTextArtifact(ctx, runID, db.StepSourceContent)
	if err != nil {
		return nil, fmt.Errorf("failed to load source content: %w", err)
	}
	if text == "" {
		return nil, &stepInputError{msg: "no source content for this run"}
	}

	profile, err := analysis.AnalyzeContent(ctx, text, s.apiKey)
	if err != nil {
		return nil, fmt.Errorf("content analysis failed: %w", err)
	}

	if err := s.db.SaveArtifact(ctx, runID, db.StepContentProfile, db.StepCategoryAnalysis, profile); err != nil {
		return nil, fmt.Errorf("failed to save content profile: %w", err)
	}

	return map[string]interface{}{
		"primary_content_type": profile.PrimaryContentType,
		"complexity_level":     profile.ComplexityLevel,
		"topic_count":          len(profile.Topics),
	}, nil
}

func (s *Server) stepSummarizeContent(ctx context.Context, runID uuid.UUID) (map[string]interface{}, error) {
	text, err := s.db.GetTextArtifact(ctx, runID, db.StepSourceContent)
	if err != nil {
		return nil, fmt.Errorf("failed to load source content: %w", err)
	}
	if text == "" {
		return nil, &stepInputError{msg: "no source content for this run"}
	}

	summary, err := analysis.SummarizeContent(ctx, text, s.apiKey)
	if err != nil {
		return nil, fmt.Errorf("content summarization failed: %w", err)
	}

	// The summary feeds follow-up question generation, so it lives on the
	// interview session when one exists.
	session, err := s.db.GetInterviewSessionByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}
	if session != nil {
		if err := s.db.UpdateInterviewSessionSummary(ctx, session.ID, summary); err != nil {
			return nil, fmt.Errorf("failed to save summary: %w", err)
		}
	}

	return map[string]interface{}{"summary": summary}, nil
}

func (s *Server) stepGenerateQuestions(ctx context.Context, runID uuid.UUID) (map[string]interface{}, error) {
	session, err := s.db.GetInterviewSessionByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}
	if session != nil {
		return nil, &stepInputError{msg: "interview session already open for this run"}
	}

	session, questions, err := s.interviews.Start(ctx, &runID)
	if err != nil {
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}

	return map[string]interface{}{
		"session_id":     session.ID.String(),
		"question_count": len(questions),
	}, nil
}

func (s *Server) stepCollectAnswers(ctx context.Context, runID uuid.UUID, params map[string]interface{}) (map[string]interface{}, error) {
	answers, ok := params["answers"].(map[string]interface{})
	if !ok || len(answers) == 0 {
		return nil, &stepInputError{msg: "parameters.answers must be a non-empty object of question_key to answer text"}
	}

	session, err := s.db.GetInterviewSessionByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}
	if session == nil {
		return nil, &stepInputError{msg: "no interview session for this run; run generate_questions first"}
	}

	recorded := 0
	for key, value := range answers {
		text, ok := value.(string)
		if !ok || text == "" {
			continue
		}
		if _, err := s.interviews.Answer(ctx, session.ID, key, text); err != nil {
			return nil, fmt.Errorf("failed to record answer for %s: %w", key, err)
		}
		recorded++
	}
	if recorded == 0 {
		return nil, &stepInputError{msg: "no usable answers in parameters.answers"}
	}

	return map[string]interface{}{"answers_recorded": recorded}, nil
}

func (s *Server) stepBuildInterviewProfile(ctx context.Context, runID uuid.UUID) (map[string]interface{}, error) {
	session, err := s.db.GetInterviewSessionByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview session: %w", err)
	}
	if session == nil {
		return nil, &stepInputError{msg: "no interview session for this run; run generate_questions first"}
	}

	profile, err := s.interviews.Complete(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete interview: %w", err)
	}

	if err := s.db.SaveArtifact(ctx, runID, db.StepInterviewProfile, db.StepCategoryInterview, profile); err != nil {
		return nil, fmt.Errorf("failed to save interview profile: %w", err)
	}

	return map[string]interface{}{
		"answer_count": len(profile.Answers),
		"completion":   profile.CompletionPercentage,
	}, nil
}

// profilesForRun loads the content profile (required) and interview profile
// (optional) and validates them for scoring.
func (s *Server) profilesForRun(ctx context.Context, runID uuid.UUID) (*types.ContentProfile, *types.InterviewProfile, error) {
	content, err := s.db.GetContentProfileByRunID(ctx, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load content profile: %w", err)
	}
	if content == nil {
		return nil, nil, &stepInputError{msg: "no content profile for this run; run analyze_content first"}
	}

	interviewProfile, err := s.db.GetInterviewProfileByRunID(ctx, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load interview profile: %w", err)
	}

	if err := validation.ValidateProfiles(content, interviewProfile); err != nil {
		return nil, nil, &stepInputError{msg: "invalid profiles: " + err.Error()}
	}

	return content, interviewProfile, nil
}

func (s *Server) stepScoreContent(ctx context.Context, runID uuid.UUID) (map[string]interface{}, error) {
	content, interviewProfile, err := s.profilesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	scores := scoring.CalculateContentScores(content, interviewProfile)
	if err := s.db.SaveArtifact(ctx, runID, db.StepContentScores, db.StepCategoryScoring, scores); err != nil {
		return nil, fmt.Errorf("failed to save content scores: %w", err)
	}

	return map[string]interface{}{"overall_score": scores.OverallScore}, nil
}

func (s *Server) stepRecommendStrategies(ctx context.Context, runID uuid.UUID, params map[string]interface{}) (map[string]interface{}, error) {
	content, interviewProfile, err := s.profilesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	maxRecommendations := ranking.DefaultMaxRecommendations
	if raw, ok := params["max"].(float64); ok && int(raw) > 0 {
		maxRecommendations = int(raw)
	}

	recommendations := recommend.ComposeTop(content, interviewProfile, maxRecommendations)
	if err := s.db.SaveArtifact(ctx, runID, db.StepContentScores, db.StepCategoryScoring, recommendations.ContentScores); err != nil {
		return nil, fmt.Errorf("failed to save content scores: %w", err)
	}
	if err := s.db.SaveArtifact(ctx, runID, db.StepRecommendations, db.StepCategoryScoring, recommendations); err != nil {
		return nil, fmt.Errorf("failed to save recommendations: %w", err)
	}
	if err := pipeline.PersistStrategyScores(ctx, s.db, runID, recommendations.Strategies); err != nil {
		return nil, fmt.Errorf("failed to persist strategy scores: %w", err)
	}

	topStrategy := ""
	if len(recommendations.Strategies) > 0 {
		topStrategy = recommendations.Strategies[0].StrategyName
	}
	return map[string]interface{}{
		"strategy_count": len(recommendations.Strategies),
		"top_strategy":   topStrategy,
	}, nil
}

func (s *Server) stepBuildOutline(ctx context.Context, runID uuid.UUID, run *db.Run, params map[string]interface{}) (map[string]interface{}, error) {
	content, _, err := s.profilesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	recommendations, err := s.db.GetRecommendationsByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if recommendations == nil {
		return nil, &stepInputError{msg: "no strategy recommendations for this run; run recommend_strategies first"}
	}

	maxModules := 0
	if raw, ok := params["max_modules"].(float64); ok && int(raw) > 0 {
		maxModules = int(raw)
	}

	moduleOutline, err := outline.Build(content, recommendations, outline.BuildOptions{
		CourseTitle: run.CourseTitle,
		MaxModules:  maxModules,
	})
	if err != nil {
		var noStrategies *outline.NoStrategiesError
		if errors.As(err, &noStrategies) {
			return nil, &stepInputError{msg: err.Error()}
		}
		return nil, fmt.Errorf("failed to build module outline: %w", err)
	}

	if err := s.db.SaveArtifact(ctx, runID, db.StepModuleOutline, db.StepCategoryPlanning, moduleOutline); err != nil {
		return nil, fmt.Errorf("failed to save module outline: %w", err)
	}

	return map[string]interface{}{"module_count": len(moduleOutline.Modules)}, nil
}

// learningMapDataForRun assembles the rendering input from stored artifacts.
func (s *Server) learningMapDataForRun(ctx context.Context, runID uuid.UUID, run *db.Run) (*rendering.LearningMapData, error) {
	content, interviewProfile, err := s.profilesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	recommendations, err := s.db.GetRecommendationsByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if recommendations == nil {
		return nil, &stepInputError{msg: "no strategy recommendations for this run; run recommend_strategies first"}
	}

	moduleOutline, err := s.db.GetModuleOutlineByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load module outline: %w", err)
	}
	if moduleOutline == nil {
		moduleOutline, err = outline.Build(content, recommendations, outline.BuildOptions{CourseTitle: run.CourseTitle})
		if err != nil {
			return nil, &stepInputError{msg: "failed to build module outline: " + err.Error()}
		}
		if err := s.db.SaveArtifact(ctx, runID, db.StepModuleOutline, db.StepCategoryPlanning, moduleOutline); err != nil {
			return nil, fmt.Errorf("failed to save module outline: %w", err)
		}
	}

	return &rendering.LearningMapData{
		CourseTitle:     moduleOutline.CourseTitle,
		Profile:         content,
		Interview:       interviewProfile,
		Recommendations: recommendations,
		Outline:         moduleOutline,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *Server) stepRenderLearningMap(ctx context.Context, runID uuid.UUID, run *db.Run) (map[string]interface{}, error) {
	data, err := s.learningMapDataForRun(ctx, runID, run)
	if err != nil {
		return nil, err
	}

	// The workbook itself is streamed on demand from GET /runs/{id}/learning-map;
	// building it here verifies the stored artifacts render cleanly.
	workbook, err := rendering.BuildLearningMap(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build learning map: %w", err)
	}

	return map[string]interface{}{
		"sheet_count": len(workbook.GetSheetList()),
		"download":    "/runs/" + runID.String() + "/learning-map",
	}, nil
}

func (s *Server) stepRenderBrief(ctx context.Context, runID uuid.UUID, run *db.Run, params map[string]interface{}) (map[string]interface{}, error) {
	data, err := s.learningMapDataForRun(ctx, runID, run)
	if err != nil {
		return nil, err
	}

	templatePath := "templates/design_brief.md.tmpl"
	if raw, ok := params["template"].(string); ok && raw != "" {
		templatePath = raw
	}

	brief, err := rendering.RenderBrief(data, templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to render design brief: %w", err)
	}

	if err := s.db.SaveTextArtifact(ctx, runID, db.StepDesignBrief, db.StepCategoryRendering, brief); err != nil {
		return nil, fmt.Errorf("failed to save design brief: %w", err)
	}

	return map[string]interface{}{
		"length":   len(brief),
		"download": "/runs/" + runID.String() + "/brief",
	}, nil
}

// handleGetStepStatus returns the status of a specific step
func (s *Server) handleGetStepStatus(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")
	stepName := r.PathValue("step_name")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	step, err := s.db.GetRunStep(r.Context(), runID, stepName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if step == nil {
		s.errorResponse(w, http.StatusNotFound, "Step not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, stepStatusFromRecord(step))
}

// stepStatusFromRecord converts a stored run step into its response shape
func stepStatusFromRecord(step *db.RunStep) StepStatusResponse {
	var startedAt, completedAt *string
	if step.StartedAt != nil {
		v := step.StartedAt.Format(time.RFC3339)
		startedAt = &v
	}
	if step.CompletedAt != nil {
		v := step.CompletedAt.Format(time.RFC3339)
		completedAt = &v
	}

	var artifactID *string
	if step.ArtifactID != nil {
		v := step.ArtifactID.String()
		artifactID = &v
	}

	return StepStatusResponse{
		Step:        step.Step,
		Status:      step.Status,
		RunID:       step.RunID.String(),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		DurationMs:  step.DurationMs,
		ArtifactID:  artifactID,
		Error:       step.ErrorMessage,
	}
}

// handleListRunSteps returns all steps for a run
func (s *Server) handleListRunSteps(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	var status, category *string
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status = &statusStr
	}
	if categoryStr := r.URL.Query().Get("category"); categoryStr != "" {
		category = &categoryStr
	}

	stepList, err := s.db.ListRunSteps(r.Context(), runID, status, category)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	recorded := make(map[string]db.RunStep)
	for _, step := range stepList {
		recorded[step.Step] = step
	}

	var stepsResp []StepStatusResponse
	summary := RunStepsSummary{}

	// Include all defined steps, even if not yet created
	for stepName := range steps.StepRegistry {
		var stepResp StepStatusResponse
		if existing, ok := recorded[stepName]; ok {
			stepResp = stepStatusFromRecord(&existing)
		} else {
			stepResp = StepStatusResponse{
				Step:   stepName,
				Status: db.StepStatusPending,
				RunID:  runID.String(),
			}
			if err := steps.ValidateDependencies(r.Context(), s.db, runID, stepName); err != nil {
				stepResp.Status = db.StepStatusBlocked
			}
		}

		stepsResp = append(stepsResp, stepResp)

		summary.Total++
		switch stepResp.Status {
		case db.StepStatusCompleted:
			summary.Completed++
		case db.StepStatusInProgress:
			summary.InProgress++
		case db.StepStatusPending, db.StepStatusBlocked:
			summary.Pending++
		case db.StepStatusFailed:
			summary.Failed++
		case db.StepStatusSkipped:
			summary.Skipped++
		}
	}

	s.jsonResponse(w, http.StatusOK, RunStepsListResponse{
		RunID:   runID.String(),
		Status:  run.Status,
		Steps:   stepsResp,
		Summary: summary,
	})
}

// handleGetCheckpoint returns the current checkpoint for a run
func (s *Server) handleGetCheckpoint(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	checkpoint, err := s.db.GetRunCheckpoint(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if checkpoint == nil {
		s.errorResponse(w, http.StatusNotFound, "No checkpoint found")
		return
	}

	allSteps, err := s.db.ListRunSteps(r.Context(), runID, nil, nil)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	var completedSteps []string
	for _, step := range allSteps {
		if step.Status == db.StepStatusCompleted {
			completedSteps = append(completedSteps, step.Step)
		}
	}

	available, _ := steps.GetAvailableSteps(r.Context(), s.db, runID)

	s.jsonResponse(w, http.StatusOK, CheckpointGetResponse{
		RunID:              runID.String(),
		CheckpointStep:     checkpoint.Step,
		CheckpointAt:       checkpoint.CompletedAt.Format(time.RFC3339),
		CompletedSteps:     completedSteps,
		NextAvailableSteps: available,
		Artifacts:          checkpoint.Artifacts,
	})
}

// handleResumeFromCheckpoint executes available steps after the last checkpoint
func (s *Server) handleResumeFromCheckpoint(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	checkpoint, err := s.db.GetRunCheckpoint(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if checkpoint == nil {
		s.errorResponse(w, http.StatusBadRequest, "No checkpoint available")
		return
	}

	var resumeReq ResumeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&resumeReq)
	}
	if resumeReq.MaxSteps == 0 {
		resumeReq.MaxSteps = 5
	}

	// Execute available steps in dependency order until one fails, one needs
	// input the request cannot supply, or the step budget runs out.
	var executedSteps []string
	for len(executedSteps) < resumeReq.MaxSteps {
		available, err := steps.GetAvailableSteps(r.Context(), s.db, runID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to get available steps: "+err.Error())
			return
		}

		executed := false
		for _, stepName := range available {
			def := steps.StepRegistry[stepName]
			if err := s.executeStepRecord(r.Context(), runID, run, stepName, def.Category); err != nil {
				continue
			}
			executedSteps = append(executedSteps, stepName)
			executed = true
			break
		}
		if !executed {
			break
		}
	}

	available, _ := steps.GetAvailableSteps(r.Context(), s.db, runID)

	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		RunID:              runID.String(),
		ResumedFrom:        checkpoint.Step,
		ExecutedSteps:      executedSteps,
		CurrentStatus:      run.Status,
		NextAvailableSteps: available,
	})
}

// executeStepRecord runs one step with full record keeping, outside the HTTP
// response path. Used by checkpoint resume and step retry.
func (s *Server) executeStepRecord(ctx context.Context, runID uuid.UUID, run *db.Run, stepName, category string) error {
	existing, err := s.db.GetRunStep(ctx, runID, stepName)
	if err != nil {
		return err
	}
	if existing == nil {
		if _, err := s.db.CreateRunStep(ctx, runID, &db.RunStepInput{
			Step:     stepName,
			Category: category,
			Status:   db.StepStatusInProgress,
		}); err != nil {
			return err
		}
	} else {
		if existing.Status == db.StepStatusCompleted || existing.Status == db.StepStatusInProgress {
			return fmt.Errorf("step %s is %s", stepName, existing.Status)
		}
		if err := s.db.UpdateRunStepStatus(ctx, runID, stepName, db.StepStatusInProgress, nil, nil); err != nil {
			return err
		}
	}

	start := time.Now()
	artifacts, execErr := s.runStep(ctx, runID, run, stepName, nil)
	if execErr != nil {
		errMsg := execErr.Error()
		_ = s.db.UpdateRunStepStatus(ctx, runID, stepName, db.StepStatusFailed, &errMsg, nil)
		return execErr
	}

	if err := s.db.UpdateRunStepStatus(ctx, runID, stepName, db.StepStatusCompleted, nil, nil); err != nil {
		return err
	}

	if artifacts == nil {
		artifacts = make(map[string]interface{})
	}
	_, _ = s.db.CreateRunCheckpoint(ctx, runID, &db.RunCheckpointInput{
		Step:      stepName,
		Artifacts: artifacts,
		Metadata:  map[string]interface{}{"duration_ms": time.Since(start).Milliseconds()},
	})
	return nil
}

// handleSkipStep marks a step as skipped
func (s *Server) handleSkipStep(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")
	stepName := r.PathValue("step_name")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	step, err := s.db.GetRunStep(r.Context(), runID, stepName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if step == nil {
		def, ok := steps.StepRegistry[stepName]
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Unknown step: %s", stepName))
			return
		}
		stepInput := &db.RunStepInput{
			Step:     stepName,
			Category: def.Category,
			Status:   db.StepStatusSkipped,
		}
		step, err = s.db.CreateRunStep(r.Context(), runID, stepInput)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to create step: "+err.Error())
			return
		}
	} else {
		err = s.db.UpdateRunStepStatus(r.Context(), runID, stepName, db.StepStatusSkipped, nil, nil)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to update step: "+err.Error())
			return
		}
		step.Status = db.StepStatusSkipped
	}

	s.jsonResponse(w, http.StatusOK, StepStatusResponse{
		Step:   step.Step,
		Status: step.Status,
		RunID:  step.RunID.String(),
	})
}

// handleRetryStep retries a failed step
func (s *Server) handleRetryStep(w http.ResponseWriter, r *http.Request) {
	runIDStr := r.PathValue("run_id")
	stepName := r.PathValue("step_name")

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
		return
	}

	run, err := s.db.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	step, err := s.db.GetRunStep(r.Context(), runID, stepName)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if step == nil {
		s.errorResponse(w, http.StatusNotFound, "Step not found")
		return
	}

	if step.Status != db.StepStatusFailed {
		s.errorResponse(w, http.StatusBadRequest, "Step is not in failed state")
		return
	}

	if err := s.executeStepRecord(r.Context(), runID, run, stepName, step.Category); err != nil {
		var inputErr *stepInputError
		if errors.As(err, &inputErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		} else {
			s.errorResponse(w, http.StatusInternalServerError, "Retry failed: "+err.Error())
		}
		return
	}

	retried, err := s.db.GetRunStep(r.Context(), runID, stepName)
	if err != nil || retried == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload step")
		return
	}

	s.jsonResponse(w, http.StatusOK, stepStatusFromRecord(retried))
}
