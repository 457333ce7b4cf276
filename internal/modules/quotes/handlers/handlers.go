// Package handlers provides the quote and symbol-search pass-through endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/domain"
)

// MarketDataClient is the subset of the gateway the quote endpoints use
type MarketDataClient interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]yahoo.Quote, error)
	Search(ctx context.Context, query string) ([]yahoo.SearchResult, error)
}

// QuoteHandlers contains HTTP handlers for quotes and search
type QuoteHandlers struct {
	client MarketDataClient
	log    zerolog.Logger
}

// NewQuoteHandlers creates a new quote handlers instance
func NewQuoteHandlers(client MarketDataClient, log zerolog.Logger) *QuoteHandlers {
	return &QuoteHandlers{
		client: client,
		log:    log.With().Str("handler", "quotes").Logger(),
	}
}

// HandleGetQuotes returns latest quotes for a comma-separated symbol list
// GET /api/quotes?symbols=AAPL,MSFT,GOOG
func (h *QuoteHandlers) HandleGetQuotes(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	for _, part := range strings.Split(r.URL.Query().Get("symbols"), ",") {
		if sym := domain.NormalizeSymbol(part); sym != "" {
			symbols = append(symbols, sym)
		}
	}

	if len(symbols) == 0 {
		h.writeError(w, http.StatusBadRequest, "No symbols provided")
		return
	}

	quotes, err := h.client.GetQuotes(r.Context(), symbols)
	if err != nil {
		h.log.Error().Err(err).Strs("symbols", symbols).Msg("Failed to fetch quotes")
		h.writeError(w, http.StatusBadGateway, "Failed to fetch quotes")
		return
	}

	// Preserve request order; symbols the upstream did not price are omitted
	response := make([]yahoo.Quote, 0, len(symbols))
	for _, sym := range symbols {
		if quote, ok := quotes[sym]; ok {
			response = append(response, quote)
		}
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleSearch searches for symbols matching a free-text query
// GET /api/search?q=apple
func (h *QuoteHandlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	results, err := h.client.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, yahoo.ErrUpstream) {
			h.log.Error().Err(err).Str("q", query).Msg("Search failed upstream")
			h.writeError(w, http.StatusBadGateway, "Search failed")
			return
		}
		h.log.Error().Err(err).Str("q", query).Msg("Search failed")
		h.writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// writeJSON writes a JSON response
func (h *QuoteHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *QuoteHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
