package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/interview"
	"github.com/marcus/course-designer/internal/pipeline"
	"github.com/marcus/course-designer/internal/ranking"
)

// RunRequest represents the request body for /run
type RunRequest struct {
	SourceURL          string            `json:"source_url,omitempty"`
	SourcePaths        []string          `json:"sources,omitempty"` // Server-local source file paths
	SourceDir          string            `json:"source_dir,omitempty"`
	CourseTitle        string            `json:"course_title,omitempty"`
	Answers            map[string]string `json:"answers,omitempty"` // Pre-collected SME answers by question key
	Template           string            `json:"template,omitempty"`
	MaxRecommendations int               `json:"max_recommendations,omitempty"`
	MaxModules         int               `json:"max_modules,omitempty"`
	OutputDir          string            `json:"output_dir,omitempty"`
}

// RunResponse represents the response for /run
type RunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunStatusResponse represents a run's status
type RunStatusResponse struct {
	RunID       string `json:"run_id"`
	CourseTitle string `json:"course_title"`
	Audience    string `json:"audience,omitempty"`
	SourceRef   string `json:"source_ref,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// validateRunRequest checks sources and applies defaults in place
func (s *Server) validateRunRequest(req *RunRequest) string {
	if req.SourceURL == "" && len(req.SourcePaths) == 0 && req.SourceDir == "" {
		return "One of source_url, sources or source_dir is required"
	}

	if req.Template == "" {
		req.Template = "templates/design_brief.md.tmpl"
	}
	if req.MaxRecommendations == 0 {
		req.MaxRecommendations = ranking.DefaultMaxRecommendations
	}
	if req.MaxModules == 0 {
		req.MaxModules = 6
	}
	if req.OutputDir == "" {
		req.OutputDir = "output"
	}
	return ""
}

// runOptionsFromRequest builds pipeline options from a validated request
func (s *Server) runOptionsFromRequest(req *RunRequest) pipeline.RunOptions {
	opts := pipeline.RunOptions{
		SourcePaths:        req.SourcePaths,
		SourceDir:          req.SourceDir,
		SourceURL:          req.SourceURL,
		CourseTitle:        req.CourseTitle,
		MaxRecommendations: req.MaxRecommendations,
		MaxModules:         req.MaxModules,
		OutputDir:          req.OutputDir,
		TemplatePath:       req.Template,
		APIKey:             s.apiKey,
		DatabaseURL:        s.databaseURL,
		Verbose:            true,
	}

	if len(req.Answers) > 0 {
		base := interview.BaseQuestions()
		answers := make([]db.InterviewAnswer, 0, len(req.Answers))
		answeredBase := 0
		for i, q := range base {
			text, ok := req.Answers[q.Key]
			if !ok {
				continue
			}
			a := text
			answers = append(answers, db.InterviewAnswer{
				QuestionKey: q.Key,
				Question:    q.Text,
				Answer:      &a,
				Source:      q.Source,
				Position:    i,
			})
			answeredBase++
		}
		completion := float64(answeredBase) / float64(len(base)) * 100
		opts.Interview = interview.BuildProfile(answers, completion)
	}

	return opts
}

// handleRun starts a new pipeline run
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if msg := s.validateRunRequest(&req); msg != "" {
		s.errorResponse(w, http.StatusBadRequest, msg)
		return
	}

	opts := s.runOptionsFromRequest(&req)

	// Generate a preliminary run ID for the response
	// The actual run will be created in the pipeline
	preliminaryID := uuid.New().String()

	log.Printf("Starting pipeline run (preliminary ID: %s)", preliminaryID)

	// Run pipeline in background
	go func() {
		ctx := context.Background()
		if _, err := pipeline.RunPipeline(ctx, opts); err != nil {
			log.Printf("Pipeline run failed: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, RunResponse{
		RunID:  preliminaryID,
		Status: "started",
	})
}

// handleRunStream starts a pipeline and streams progress via SSE
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if msg := s.validateRunRequest(&req); msg != "" {
		s.errorResponse(w, http.StatusBadRequest, msg)
		return
	}

	// Setup SSE writer
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("Starting streaming pipeline run...")

	opts := s.runOptionsFromRequest(&req)
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	// Run pipeline synchronously (blocking until complete)
	ctx := r.Context()
	result, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		log.Printf("Pipeline run failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(result.RunID.String(), "completed")
	log.Printf("Streaming pipeline run completed")
}

// handleGetRun returns the status of a design run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
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

	s.jsonResponse(w, http.StatusOK, RunStatusResponse{
		RunID:       run.ID.String(),
		CourseTitle: run.CourseTitle,
		Audience:    run.Audience,
		SourceRef:   run.SourceRef,
		Status:      run.Status,
		CreatedAt:   run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleListRuns returns a list of design runs with optional filters
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filters := db.RunFilters{
		CourseTitle: r.URL.Query().Get("course_title"),
		Status:      r.URL.Query().Get("status"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filters.Limit = limit
		}
	}

	runs, err := s.db.ListRunsFiltered(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	response := make([]RunStatusResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, RunStatusResponse{
			RunID:       run.ID.String(),
			CourseTitle: run.CourseTitle,
			Audience:    run.Audience,
			SourceRef:   run.SourceRef,
			Status:      run.Status,
			CreatedAt:   run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  response,
		"count": len(response),
	})
}

// handleDeleteRun deletes a design run and its artifacts
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	if err := s.db.DeleteRun(r.Context(), runID); err != nil {
		if err.Error() == "run not found: "+runID.String() {
			s.errorResponse(w, http.StatusNotFound, "Run not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleArtifact returns an artifact by ID
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Artifact ID is required")
		return
	}

	artifactID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid artifact ID format")
		return
	}

	artifact, err := s.db.GetArtifactByID(r.Context(), artifactID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if artifact == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, artifact)
}

// handleListArtifacts returns a list of artifacts with optional filters
func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	filters := db.ArtifactFilters{
		Step:     r.URL.Query().Get("step"),
		Category: r.URL.Query().Get("category"),
	}

	if runIDStr := r.URL.Query().Get("run_id"); runIDStr != "" {
		runID, err := uuid.Parse(runIDStr)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid run_id format")
			return
		}
		filters.RunID = runID
	}

	artifacts, err := s.db.ListArtifacts(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// handleRunArtifacts returns artifacts for a specific run
func (s *Server) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	artifacts, err := s.db.ListArtifacts(r.Context(), db.ArtifactFilters{RunID: runID})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":    runID.String(),
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// handleRunBrief returns the design brief for a specific run as Markdown
func (s *Server) handleRunBrief(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	brief, err := s.db.GetTextArtifact(r.Context(), runID, db.StepDesignBrief)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if brief == "" {
		s.errorResponse(w, http.StatusNotFound, "Design brief not found for this run")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=design_brief.md")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(brief))
}

// parseRunID extracts and parses a run UUID from the request path
func (s *Server) parseRunID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	idStr := r.PathValue(key)
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, "Run ID is required")
		return uuid.Nil, false
	}

	runID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return uuid.Nil, false
	}
	return runID, true
}
