// Package domain contains the core business types shared across modules.
// The domain layer has no infrastructure dependencies.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderSide represents the direction of an order
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a paper-trading order. Orders are immutable once recorded;
// only filled orders feed position aggregation.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Symbol    string      `json:"symbol"`
	Side      OrderSide   `json:"side"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks the order invariants enforced at the store boundary:
// positive quantity and price, known side and status, non-empty owner
// and symbol.
func (o Order) Validate() error {
	if strings.TrimSpace(o.UserID) == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	if strings.TrimSpace(o.Symbol) == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if o.Side != OrderSideBuy && o.Side != OrderSideSell {
		return fmt.Errorf("side must be buy or sell, got %q", o.Side)
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %v", o.Quantity)
	}
	if o.Price <= 0 {
		return fmt.Errorf("price must be positive, got %v", o.Price)
	}
	switch o.Status {
	case OrderStatusOpen, OrderStatusFilled, OrderStatusCancelled:
	default:
		return fmt.Errorf("status must be open, filled or cancelled, got %q", o.Status)
	}
	return nil
}

// Position is the net holding derived from a user's filled orders for one
// symbol, priced against the latest market quote. Positions have no
// persistent identity; they are recomputed on every request.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`       // Signed net units (positive = long, negative = short)
	AvgPrice      float64 `json:"avg_price"`      // Magnitude-weighted average entry price
	Last          float64 `json:"last"`           // Latest market price, 0 if unavailable
	UnrealizedPnL float64 `json:"unrealized_pnl"` // (last - avg_price) * quantity
}

// WatchItem is a symbol a user tracks on their watchlist
type WatchItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks watch item invariants at the store boundary
func (w WatchItem) Validate() error {
	if strings.TrimSpace(w.UserID) == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	if strings.TrimSpace(w.Symbol) == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	return nil
}

// NormalizeSymbol uppercases and trims a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
