package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/marcus/course-designer/internal/analysis"
	"github.com/marcus/course-designer/internal/db"
	"github.com/marcus/course-designer/internal/ingestion"
)

// DocumentUpload is one source document in an upload request
type DocumentUpload struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// UploadDocumentsRequest represents the body for POST /runs/{id}/documents
type UploadDocumentsRequest struct {
	Documents []DocumentUpload `json:"documents"`
}

// handleUploadDocuments stores cleaned source text for a run
func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
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

	var req UploadDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one document is required")
		return
	}

	// Clean each document and combine with title separators
	var parts []string
	totalWords := 0
	for i, doc := range req.Documents {
		if strings.TrimSpace(doc.Text) == "" {
			s.errorResponse(w, http.StatusBadRequest, "Document text must not be empty")
			return
		}
		cleaned := ingestion.CleanText(doc.Text)
		title := doc.Title
		if title == "" {
			title = "Document " + strconv.Itoa(i+1)
		}
		parts = append(parts, "## "+title+"\n\n"+cleaned)
		totalWords += len(strings.Fields(cleaned))
	}
	combined := strings.Join(parts, "\n\n")

	if err := s.db.SaveTextArtifact(r.Context(), runID, db.StepSourceContent, db.StepCategoryIngestion, combined); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save source content: "+err.Error())
		return
	}

	metadata := ingestion.NewMetadata(combined, "")
	metadata.FileCount = len(req.Documents)
	if err := s.db.SaveArtifact(r.Context(), runID, db.StepSourceMetadata, db.StepCategoryIngestion, metadata); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save source metadata: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"run_id":     runID.String(),
		"documents":  len(req.Documents),
		"word_count": totalWords,
	})
}

// handleAnalyzeRun analyzes the run's stored source content into a content profile
func (s *Server) handleAnalyzeRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.parseRunID(w, r, "id")
	if !ok {
		return
	}

	cleanedText, err := s.db.GetTextArtifact(r.Context(), runID, db.StepSourceContent)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if cleanedText == "" {
		s.errorResponse(w, http.StatusConflict, "No source content uploaded for this run")
		return
	}

	profile, err := analysis.AnalyzeContent(r.Context(), cleanedText, s.apiKey)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Content analysis failed: "+err.Error())
		return
	}

	if err := s.db.SaveArtifact(r.Context(), runID, db.StepContentProfile, db.StepCategoryAnalysis, profile); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save content profile: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":  runID.String(),
		"profile": profile,
	})
}
