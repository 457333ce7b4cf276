package server

import (
	"encoding/json"
	"net/http"
)

// handleRoot confirms the API is up
// GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Stocks API running"})
}

// handleHealth is the liveness probe
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.QuickCheck(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
