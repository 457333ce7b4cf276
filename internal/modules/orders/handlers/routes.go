package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all order routes
func (h *OrderHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.HandleCreateOrder)
		r.Get("/", h.HandleListOrders)
	})
}
