package server

import (
	"net/http"

	"github.com/marcus/course-designer/internal/catalog"
)

// handleListStrategies returns the full delivery strategy catalog
func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"strategies": catalog.All(),
		"count":      catalog.Size(),
	})
}

// handleGetStrategy returns a single strategy definition by name
func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Strategy name is required")
		return
	}

	strategy, ok := catalog.ByName(name)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Strategy not found: "+name)
		return
	}

	s.jsonResponse(w, http.StatusOK, strategy)
}
