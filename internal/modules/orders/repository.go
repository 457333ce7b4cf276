// Package orders persists paper-trading orders.
package orders

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/domain"
)

// ordersColumns is the list of columns for the orders table.
// Used to avoid SELECT * which can break when schema changes.
// Column order must match scanOrder().
const ordersColumns = `id, user_id, symbol, side, quantity, price, status, created_at`

// Repository handles order database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new order repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "orders").Logger(),
	}
}

// InitSchema creates the orders table if it does not exist.
// The CHECK constraints mirror Order.Validate so invalid records cannot
// enter the store even through raw SQL.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL CHECK(side IN ('buy', 'sell')),
			quantity REAL NOT NULL CHECK(quantity > 0),
			price REAL NOT NULL CHECK(price > 0),
			status TEXT NOT NULL CHECK(status IN ('open', 'filled', 'cancelled')),
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize orders schema: %w", err)
	}
	return nil
}

// Create validates and inserts a new order record, returning it with the
// generated ID and normalized symbol. Orders are immutable once recorded.
func (r *Repository) Create(order domain.Order) (domain.Order, error) {
	order.Symbol = domain.NormalizeSymbol(order.Symbol)
	if order.Status == "" {
		order.Status = domain.OrderStatusFilled
	}

	if err := order.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	order.ID = uuid.NewString()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO orders (id, user_id, symbol, side, quantity, price, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		order.ID,
		order.UserID,
		order.Symbol,
		string(order.Side),
		order.Quantity,
		order.Price,
		string(order.Status),
		order.CreatedAt.Unix(),
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	r.log.Info().
		Str("user_id", order.UserID).
		Str("symbol", order.Symbol).
		Str("side", string(order.Side)).
		Float64("quantity", order.Quantity).
		Msg("Order created")

	return order, nil
}

// ListByUser retrieves all orders for one user, oldest first
func (r *Repository) ListByUser(userID string) ([]domain.Order, error) {
	query := "SELECT " + ordersColumns + " FROM orders WHERE user_id = ? ORDER BY created_at ASC, id ASC"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListByUserAndStatus retrieves one user's orders filtered by status,
// oldest first. Position aggregation queries status=filled through this.
func (r *Repository) ListByUserAndStatus(userID string, status domain.OrderStatus) ([]domain.Order, error) {
	query := "SELECT " + ordersColumns + " FROM orders WHERE user_id = ? AND status = ? ORDER BY created_at ASC, id ASC"

	rows, err := r.db.Query(query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by status: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *Repository) collect(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(rows *sql.Rows) (domain.Order, error) {
	var order domain.Order
	var side, status string
	var createdAt int64

	err := rows.Scan(
		&order.ID,
		&order.UserID,
		&order.Symbol,
		&side,
		&order.Quantity,
		&order.Price,
		&status,
		&createdAt,
	)
	if err != nil {
		return order, err
	}

	order.Side = domain.OrderSide(side)
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = time.Unix(createdAt, 0).UTC()
	order.Symbol = domain.NormalizeSymbol(order.Symbol)

	return order, nil
}
