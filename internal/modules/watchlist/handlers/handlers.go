// Package handlers provides HTTP handlers for the watchlist API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/domain"
	"github.com/marketdesk/marketdesk/internal/modules/watchlist"
)

// WatchlistHandlers contains HTTP handlers for the watchlist API
type WatchlistHandlers struct {
	repo *watchlist.Repository
	log  zerolog.Logger
}

// NewWatchlistHandlers creates a new watchlist handlers instance
func NewWatchlistHandlers(repo *watchlist.Repository, log zerolog.Logger) *WatchlistHandlers {
	return &WatchlistHandlers{
		repo: repo,
		log:  log.With().Str("handler", "watchlist").Logger(),
	}
}

// HandleAddItem adds a symbol to a user's watchlist
// POST /api/watchlist
func (h *WatchlistHandlers) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.repo.Add(domain.WatchItem{
		UserID: req.UserID,
		Symbol: req.Symbol,
		Name:   req.Name,
	})
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", req.UserID).Msg("Failed to add watch item")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      item.ID,
		"message": "Added to watchlist",
	})
}

// HandleListItems returns a user's watchlist
// GET /api/watchlist?user_id=...
func (h *WatchlistHandlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	items, err := h.repo.ListByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list watch items")
		h.writeError(w, http.StatusInternalServerError, "Failed to list watch items")
		return
	}

	if items == nil {
		items = []domain.WatchItem{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleDeleteItem removes a watch item
// DELETE /api/watchlist/{id}
func (h *WatchlistHandlers) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete watch item")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete watch item")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "Watch item not found")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from watchlist"})
}

// writeJSON writes a JSON response
func (h *WatchlistHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *WatchlistHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
