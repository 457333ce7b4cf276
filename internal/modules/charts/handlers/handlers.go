// Package handlers provides HTTP handlers for chart data.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/modules/charts"
)

// ChartHandlers contains HTTP handlers for the chart API
type ChartHandlers struct {
	service *charts.Service
	log     zerolog.Logger
}

// NewChartHandlers creates a new chart handlers instance
func NewChartHandlers(service *charts.Service, log zerolog.Logger) *ChartHandlers {
	return &ChartHandlers{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleGetSeries returns the OHLC series for a symbol
// GET /api/chart/{symbol}?interval=1d&range=1mo
func (h *ChartHandlers) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	interval, rng := chartParams(r)

	series, err := h.service.GetSeries(r.Context(), symbol, interval, rng)
	if err != nil {
		h.handleServiceError(w, err, symbol)
		return
	}

	h.writeJSON(w, http.StatusOK, series)
}

// HandleGetStats returns range statistics for a symbol
// GET /api/chart/{symbol}/stats?interval=1d&range=1mo
func (h *ChartHandlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	interval, rng := chartParams(r)

	stats, err := h.service.GetStats(r.Context(), symbol, interval, rng)
	if err != nil {
		h.handleServiceError(w, err, symbol)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func chartParams(r *http.Request) (interval, rng string) {
	interval = r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1d"
	}
	rng = r.URL.Query().Get("range")
	if rng == "" {
		rng = "1mo"
	}
	return interval, rng
}

func (h *ChartHandlers) handleServiceError(w http.ResponseWriter, err error, symbol string) {
	if errors.Is(err, yahoo.ErrUpstream) {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Chart fetch failed upstream")
		h.writeError(w, http.StatusBadGateway, "Failed to fetch chart data")
		return
	}
	h.log.Error().Err(err).Str("symbol", symbol).Msg("Chart fetch failed")
	h.writeError(w, http.StatusInternalServerError, "Failed to fetch chart data")
}

// writeJSON writes a JSON response
func (h *ChartHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *ChartHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
