// Package handlers provides HTTP handlers for paper-trading orders.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/domain"
	"github.com/marketdesk/marketdesk/internal/modules/orders"
)

// OrderHandlers contains HTTP handlers for the orders API
type OrderHandlers struct {
	repo *orders.Repository
	log  zerolog.Logger
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(repo *orders.Repository, log zerolog.Logger) *OrderHandlers {
	return &OrderHandlers{
		repo: repo,
		log:  log.With().Str("handler", "orders").Logger(),
	}
}

// HandleCreateOrder records a paper-trading order
// POST /api/orders
func (h *OrderHandlers) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string  `json:"user_id"`
		Symbol   string  `json:"symbol"`
		Side     string  `json:"side"`
		Quantity float64 `json:"quantity"`
		Price    float64 `json:"price"`
		Status   string  `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.repo.Create(domain.Order{
		UserID:   req.UserID,
		Symbol:   req.Symbol,
		Side:     domain.OrderSide(req.Side),
		Quantity: req.Quantity,
		Price:    req.Price,
		Status:   domain.OrderStatus(req.Status),
	})
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", req.UserID).Msg("Order rejected")
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

// HandleListOrders returns a user's orders, optionally filtered by status
// GET /api/orders?user_id=...&status=filled
func (h *OrderHandlers) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var (
		list []domain.Order
		err  error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		list, err = h.repo.ListByUserAndStatus(userID, domain.OrderStatus(status))
	} else {
		list, err = h.repo.ListByUser(userID)
	}
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to list orders")
		h.writeError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	if list == nil {
		list = []domain.Order{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"orders": list})
}

// writeJSON writes a JSON response
func (h *OrderHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *OrderHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
