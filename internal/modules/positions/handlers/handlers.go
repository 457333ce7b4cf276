// Package handlers provides HTTP handlers for derived positions.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/modules/positions"
)

// PositionHandlers contains HTTP handlers for the positions API
type PositionHandlers struct {
	service *positions.Service
	log     zerolog.Logger
}

// NewPositionHandlers creates a new position handlers instance
func NewPositionHandlers(service *positions.Service, log zerolog.Logger) *PositionHandlers {
	return &PositionHandlers{
		service: service,
		log:     log.With().Str("handler", "positions").Logger(),
	}
}

// HandleGetPositions returns a user's net positions with unrealized P&L
// GET /api/positions?user_id=...
func (h *PositionHandlers) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	list, err := h.service.Positions(r.Context(), userID)
	if err != nil {
		if errors.Is(err, yahoo.ErrUpstream) {
			h.log.Error().Err(err).Str("user_id", userID).Msg("Quote lookup failed")
			h.writeError(w, http.StatusBadGateway, "Failed to fetch quotes")
			return
		}
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute positions")
		h.writeError(w, http.StatusInternalServerError, "Failed to compute positions")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"positions": list})
}

// writeJSON writes a JSON response
func (h *PositionHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *PositionHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
