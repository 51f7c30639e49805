package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/marcus/course-designer/internal/db"
)

// AnswersRequest represents the body for POST /runs/{id}/answers
type AnswersRequest struct {
	Answers  map[string]string `json:"answers"`
	Complete bool              `json:"complete,omitempty"` // Close the session and build the profile
}

// handleRunQuestions returns the interview questions for a run, opening a
// session on first call. Pass ?followups=N to generate follow-up questions
// from the answers recorded so far.
func (s *Server) handleRunQuestions(w http.ResponseWriter, r *http.Request) {
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

	session, err := s.db.GetInterviewSessionByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	var questions []db.InterviewAnswer
	if session == nil {
		session, questions, err = s.interviews.Start(r.Context(), &runID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to start interview: "+err.Error())
			return
		}
	} else {
		questions, err = s.interviews.Questions(r.Context(), session.ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	// Optional follow-up generation against the content profile summary
	if followupsStr := r.URL.Query().Get("followups"); followupsStr != "" {
		count, err := strconv.Atoi(followupsStr)
		if err != nil || count < 1 {
			s.errorResponse(w, http.StatusBadRequest, "followups must be a positive integer")
			return
		}

		summary, err := s.db.GetTextArtifact(r.Context(), runID, db.StepSourceContent)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if summary == "" {
			s.errorResponse(w, http.StatusConflict, "No source content uploaded; follow-ups need content context")
			return
		}

		followUps, err := s.interviews.AskFollowUps(r.Context(), session.ID, summary, count)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Follow-up generation failed: "+err.Error())
			return
		}
		questions = append(questions, followUps...)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":     runID.String(),
		"session_id": session.ID.String(),
		"status":     session.Status,
		"questions":  questions,
	})
}

// handleRunAnswers records SME answers for a run's interview session. With
// "complete": true the session is closed and the interview profile artifact
// is saved.
func (s *Server) handleRunAnswers(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	var req AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Answers) == 0 && !req.Complete {
		s.errorResponse(w, http.StatusBadRequest, "At least one answer is required")
		return
	}

	session, err := s.db.GetInterviewSessionByRunID(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if session == nil {
		s.errorResponse(w, http.StatusConflict, "No interview session for this run; fetch questions first")
		return
	}

	for key, answer := range req.Answers {
		if _, err := s.interviews.Answer(r.Context(), session.ID, key, answer); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Failed to record answer for "+key+": "+err.Error())
			return
		}
	}

	if !req.Complete {
		session, err = s.db.GetInterviewSessionByID(r.Context(), session.ID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"run_id":     runID.String(),
			"session_id": session.ID.String(),
			"status":     session.Status,
			"answered":   session.QuestionsAnswered,
			"questions":  session.QuestionsAsked,
		})
		return
	}

	profile, err := s.interviews.Complete(r.Context(), session.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to complete interview: "+err.Error())
		return
	}

	if err := s.db.SaveArtifact(r.Context(), runID, db.StepInterviewProfile, db.StepCategoryInterview, profile); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save interview profile: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":  runID.String(),
		"status":  db.InterviewStatusCompleted,
		"profile": profile,
	})
}
