package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all watchlist routes
func (h *WatchlistHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/watchlist", func(r chi.Router) {
		r.Post("/", h.HandleAddItem)
		r.Get("/", h.HandleListItems)
		r.Delete("/{id}", h.HandleDeleteItem)
	})
}
