package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/outline"
	"github.com/marcus/course-designer/internal/pipeline"
	"github.com/marcus/course-designer/internal/ranking"
	"github.com/marcus/course-designer/internal/recommend"
	"github.com/marcus/course-designer/internal/rendering"
	"github.com/marcus/course-designer/internal/scoring"
	"github.com/marcus/course-designer/internal/types"
	"github.com/marcus/course-designer/internal/validation"
)

// loadProfiles fetches the content profile (required) and interview profile
// (optional) for a run, writing the error response itself on failure.
func (s *Server) loadProfiles(w http.ResponseWriter, r *http.Request, runID uuid.UUID) (*types.ContentProfile, *types.InterviewProfile, bool) {
	content, err := s.db.GetContentProfileByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, nil, false
	}
	if content == nil {
		s.errorResponse(w, http.StatusConflict, "No content profile for this run; analyze first")
		return nil, nil, false
	}

	interviewProfile, err := s.db.GetInterviewProfileByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, nil, false
	}

	if err := validation.ValidateProfiles(content, interviewProfile); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid profiles: "+err.Error())
		return nil, nil, false
	}

	return content, interviewProfile, true
}

// handleRunScores calculates and stores the content scores for a run
func (s *Server) handleRunScores(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	content, interviewProfile, ok := s.loadProfiles(w, r, runID)
	if !ok {
		return
	}

	scores := scoring.CalculateContentScores(content, interviewProfile)

	if err := s.db.SaveArtifact(r.Context(), runID, db.StepContentScores, db.StepCategoryScoring, scores); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save content scores: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id": runID.String(),
		"scores": scores,
	})
}

// handleRunRecommendations ranks strategies for a run and stores the result.
// ?max=N limits the number of recommended strategies.
func (s *Server) handleRunRecommendations(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	maxRecommendations := ranking.DefaultMaxRecommendations
	if maxStr := r.URL.Query().Get("max"); maxStr != "" {
		parsed, err := strconv.Atoi(maxStr)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "max must be a non-negative integer")
			return
		}
		maxRecommendations = parsed
	}

	content, interviewProfile, ok := s.loadProfiles(w, r, runID)
	if !ok {
		return
	}

	recommendations := recommend.ComposeTop(content, interviewProfile, maxRecommendations)

	if err := s.db.SaveArtifact(r.Context(), runID, db.StepContentScores, db.StepCategoryScoring, recommendations.ContentScores); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save content scores: "+err.Error())
		return
	}
	if err := s.db.SaveArtifact(r.Context(), runID, db.StepRecommendations, db.StepCategoryScoring, recommendations); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save recommendations: "+err.Error())
		return
	}
	if err := pipeline.PersistStrategyScores(r.Context(), s.db, runID, recommendations.Strategies); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save strategy scores: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":          runID.String(),
		"recommendations": recommendations,
	})
}

// handleRunLearningMap builds the module outline and streams the learning map
// workbook. The outline artifact is stored as a side effect.
func (s *Server) handleRunLearningMap(w http.ResponseWriter, r *http.Request) {
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

	content, err := s.db.GetContentProfileByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusConflict, "No content profile for this run; analyze first")
		return
	}

	interviewProfile, err := s.db.GetInterviewProfileByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	recommendations, err := s.db.GetRecommendationsByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if recommendations == nil {
		s.errorResponse(w, http.StatusConflict, "No strategy recommendations for this run; recommend first")
		return
	}

	moduleOutline, err := s.db.GetModuleOutlineByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if moduleOutline == nil {
		maxModules := 0
		if maxStr := r.URL.Query().Get("max_modules"); maxStr != "" {
			if parsed, err := strconv.Atoi(maxStr); err == nil {
				maxModules = parsed
			}
		}

		moduleOutline, err = outline.Build(content, recommendations, outline.BuildOptions{
			CourseTitle: run.CourseTitle,
			MaxModules:  maxModules,
		})
		if err != nil {
			s.errorResponse(w, http.StatusUnprocessableEntity, "Failed to build module outline: "+err.Error())
			return
		}
		if err := s.db.SaveArtifact(r.Context(), runID, db.StepModuleOutline, db.StepCategoryPlanning, moduleOutline); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to save module outline: "+err.Error())
			return
		}
	}

	workbook, err := rendering.BuildLearningMap(&rendering.LearningMapData{
		CourseTitle:     moduleOutline.CourseTitle,
		Profile:         content,
		Interview:       interviewProfile,
		Recommendations: recommendations,
		Outline:         moduleOutline,
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to build learning map: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=learning_map.xlsx")
	w.WriteHeader(http.StatusOK)
	if err := workbook.Write(w); err != nil {
		// Headers already sent, cannot change the status now
		log.Printf("Error streaming learning map: %v", err)
	}
}
