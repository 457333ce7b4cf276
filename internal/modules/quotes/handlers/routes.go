package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the quote and search routes
func (h *QuoteHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/quotes", h.HandleGetQuotes)
	r.Get("/search", h.HandleSearch)
}
