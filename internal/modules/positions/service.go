// Package positions derives net positions and unrealized P&L from a
// user's filled paper-trading orders.
package positions

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/clients/yahoo"
	"github.com/marketdesk/marketdesk/internal/domain"
)

// OrderSource provides the filled-order history feeding aggregation
type OrderSource interface {
	ListByUserAndStatus(userID string, status domain.OrderStatus) ([]domain.Order, error)
}

// QuoteProvider provides latest market prices in one batched lookup
type QuoteProvider interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]yahoo.Quote, error)
}

// Service computes net positions per request. It holds no state beyond
// one invocation and performs exactly one outbound quote lookup per call.
type Service struct {
	orderSource OrderSource
	quotes      QuoteProvider
	log         zerolog.Logger
}

// NewService creates a new positions service
func NewService(orderSource OrderSource, quotes QuoteProvider, log zerolog.Logger) *Service {
	return &Service{
		orderSource: orderSource,
		quotes:      quotes,
		log:         log.With().Str("service", "positions").Logger(),
	}
}

// symbolTotals holds the running accumulators for one symbol.
// Buys contribute positive quantity and cost, sells negative.
type symbolTotals struct {
	qty  float64
	cost float64
}

// Positions aggregates a user's filled orders into one position per
// distinct symbol, priced against the latest quotes.
//
// The average price is |cost| / |qty|, a magnitude-weighted cost basis.
// It is exact for one-sided histories (pure accumulation on either side);
// mixed buy/sell histories yield an approximation, not a realized/
// unrealized split. Known limitation, kept deliberately.
//
// A total quote-lookup failure fails the whole request. A quote missing
// for a subset of symbols prices those symbols at 0 and continues.
func (s *Service) Positions(ctx context.Context, userID string) ([]domain.Position, error) {
	orders, err := s.orderSource.ListByUserAndStatus(userID, domain.OrderStatusFilled)
	if err != nil {
		return nil, fmt.Errorf("failed to load filled orders: %w", err)
	}

	totals := make(map[string]*symbolTotals)
	for _, order := range orders {
		// A stored record with non-positive numeric fields must not sink
		// the aggregation of other symbols; it contributes nothing.
		if order.Quantity <= 0 || order.Price <= 0 {
			s.log.Warn().
				Str("order_id", order.ID).
				Str("symbol", order.Symbol).
				Float64("quantity", order.Quantity).
				Float64("price", order.Price).
				Msg("Skipping malformed order record")
			symbol := domain.NormalizeSymbol(order.Symbol)
			if symbol != "" && totals[symbol] == nil {
				totals[symbol] = &symbolTotals{}
			}
			continue
		}

		symbol := domain.NormalizeSymbol(order.Symbol)
		if symbol == "" {
			continue
		}

		t := totals[symbol]
		if t == nil {
			t = &symbolTotals{}
			totals[symbol] = t
		}

		sign := 1.0
		if order.Side == domain.OrderSideSell {
			sign = -1.0
		}
		t.qty += sign * order.Quantity
		t.cost += sign * order.Quantity * order.Price
	}

	if len(totals) == 0 {
		return []domain.Position{}, nil
	}

	symbols := make([]string, 0, len(totals))
	for symbol := range totals {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	// One batched lookup for the full distinct symbol set, never one
	// call per symbol.
	quotes, err := s.quotes.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	positions := make([]domain.Position, 0, len(symbols))
	for _, symbol := range symbols {
		t := totals[symbol]

		avgPrice := 0.0
		if t.qty != 0 {
			avgPrice = round(math.Abs(t.cost)/math.Abs(t.qty), 4)
		}

		last := 0.0
		if quote, ok := quotes[symbol]; ok {
			last = quote.Price
		}

		positions = append(positions, domain.Position{
			Symbol:        symbol,
			Quantity:      t.qty,
			AvgPrice:      avgPrice,
			Last:          last,
			UnrealizedPnL: round((last-avgPrice)*t.qty, 2),
		})
	}

	return positions, nil
}

// round rounds to the given number of decimal places
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
