package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all position routes
func (h *PositionHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/positions", h.HandleGetPositions)
}
