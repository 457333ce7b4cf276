package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the chart routes
func (h *ChartHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/chart/{symbol}", func(r chi.Router) {
		r.Get("/", h.HandleGetSeries)
		r.Get("/stats", h.HandleGetStats)
	})
}
