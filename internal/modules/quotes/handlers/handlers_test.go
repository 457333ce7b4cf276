package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
)

type stubClient struct {
	quotes  map[string]yahoo.Quote
	results []yahoo.SearchResult
	err     error
	symbols []string
}

func (s *stubClient) GetQuotes(ctx context.Context, symbols []string) (map[string]yahoo.Quote, error) {
	s.symbols = symbols
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func (s *stubClient) Search(ctx context.Context, query string) ([]yahoo.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newTestHandlers(client *stubClient) *QuoteHandlers {
	return NewQuoteHandlers(client, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestHandleGetQuotes(t *testing.T) {
	client := &stubClient{quotes: map[string]yahoo.Quote{
		"AAPL": {Symbol: "AAPL", Price: 185.92},
		"MSFT": {Symbol: "MSFT", Price: 402.15},
	}}
	h := newTestHandlers(client)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols=msft,%20aapl,", nil)
	rec := httptest.NewRecorder()
	h.HandleGetQuotes(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"MSFT", "AAPL"}, client.symbols, "normalized, blanks dropped")

	var body []yahoo.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	// Request order preserved
	assert.Equal(t, "MSFT", body[0].Symbol)
	assert.Equal(t, "AAPL", body[1].Symbol)
}

func TestHandleGetQuotes_UnpricedOmitted(t *testing.T) {
	client := &stubClient{quotes: map[string]yahoo.Quote{
		"AAPL": {Symbol: "AAPL", Price: 185.92},
	}}
	h := newTestHandlers(client)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols=AAPL,BOGUS", nil)
	rec := httptest.NewRecorder()
	h.HandleGetQuotes(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body []yahoo.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "AAPL", body[0].Symbol)
}

func TestHandleGetQuotes_NoSymbols(t *testing.T) {
	h := newTestHandlers(&stubClient{})

	for _, target := range []string{"/api/quotes", "/api/quotes?symbols=", "/api/quotes?symbols=,,"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.HandleGetQuotes(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestHandleGetQuotes_UpstreamFailure(t *testing.T) {
	h := newTestHandlers(&stubClient{err: yahoo.ErrUpstream})

	req := httptest.NewRequest(http.MethodGet, "/api/quotes?symbols=AAPL", nil)
	rec := httptest.NewRecorder()
	h.HandleGetQuotes(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleSearch(t *testing.T) {
	h := newTestHandlers(&stubClient{results: []yahoo.SearchResult{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=apple", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []yahoo.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "AAPL", body.Results[0].Symbol)
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	h := newTestHandlers(&stubClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=%20", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
