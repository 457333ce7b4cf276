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
	"github.com/marketdesk/marketdesk/internal/domain"
	"github.com/marketdesk/marketdesk/internal/modules/positions"
)

type stubOrders struct {
	orders []domain.Order
}

func (s *stubOrders) ListByUserAndStatus(userID string, status domain.OrderStatus) ([]domain.Order, error) {
	return s.orders, nil
}

type stubQuotes struct {
	quotes map[string]yahoo.Quote
	err    error
}

func (s *stubQuotes) GetQuotes(ctx context.Context, symbols []string) (map[string]yahoo.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

func newTestHandlers(orders []domain.Order, quotes *stubQuotes) *PositionHandlers {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	svc := positions.NewService(&stubOrders{orders: orders}, quotes, log)
	return NewPositionHandlers(svc, log)
}

func TestHandleGetPositions(t *testing.T) {
	h := newTestHandlers(
		[]domain.Order{{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 10, Price: 100, Status: domain.OrderStatusFilled}},
		&stubQuotes{quotes: map[string]yahoo.Quote{"AAPL": {Symbol: "AAPL", Price: 110}}},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/positions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Positions []domain.Position `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Positions, 1)
	assert.Equal(t, "AAPL", body.Positions[0].Symbol)
	assert.Equal(t, 100.0, body.Positions[0].UnrealizedPnL)
}

func TestHandleGetPositions_MissingUserID(t *testing.T) {
	h := newTestHandlers(nil, &stubQuotes{})

	req := httptest.NewRequest(http.MethodGet, "/api/positions", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositions(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetPositions_UpstreamFailure(t *testing.T) {
	h := newTestHandlers(
		[]domain.Order{{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 100, Status: domain.OrderStatusFilled}},
		&stubQuotes{err: yahoo.ErrUpstream},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/positions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositions(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

func TestHandleGetPositions_EmptyHistory(t *testing.T) {
	h := newTestHandlers(nil, &stubQuotes{})

	req := httptest.NewRequest(http.MethodGet, "/api/positions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.HandleGetPositions(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"positions": []}`, rec.Body.String())
}
