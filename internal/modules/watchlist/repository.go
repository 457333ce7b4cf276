// Package watchlist persists per-user watched symbols.
package watchlist

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketdesk/marketdesk/internal/domain"
)

const watchItemsColumns = `id, user_id, symbol, name, created_at`

// Repository handles watchlist database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "watchlist").Logger(),
	}
}

// InitSchema creates the watch_items table if it does not exist
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS watch_items (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			name TEXT,
			created_at INTEGER NOT NULL,
			UNIQUE(user_id, symbol)
		);
		CREATE INDEX IF NOT EXISTS idx_watch_items_user ON watch_items(user_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize watchlist schema: %w", err)
	}
	return nil
}

// Add validates and inserts a watch item, returning it with the
// generated ID and normalized symbol
func (r *Repository) Add(item domain.WatchItem) (domain.WatchItem, error) {
	item.Symbol = domain.NormalizeSymbol(item.Symbol)

	if err := item.Validate(); err != nil {
		return domain.WatchItem{}, fmt.Errorf("failed to add watch item: %w", err)
	}

	item.ID = uuid.NewString()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO watch_items (id, user_id, symbol, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		item.ID,
		item.UserID,
		item.Symbol,
		nullString(item.Name),
		item.CreatedAt.Unix(),
	)
	if err != nil {
		return domain.WatchItem{}, fmt.Errorf("failed to add watch item: %w", err)
	}

	r.log.Info().
		Str("user_id", item.UserID).
		Str("symbol", item.Symbol).
		Msg("Watch item added")

	return item, nil
}

// ListByUser retrieves one user's watch items, oldest first
func (r *Repository) ListByUser(userID string) ([]domain.WatchItem, error) {
	query := "SELECT " + watchItemsColumns + " FROM watch_items WHERE user_id = ? ORDER BY created_at ASC, symbol ASC"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch items: %w", err)
	}
	defer rows.Close()

	var items []domain.WatchItem
	for rows.Next() {
		var item domain.WatchItem
		var name sql.NullString
		var createdAt int64

		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol, &name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch item: %w", err)
		}

		if name.Valid {
			item.Name = name.String
		}
		item.CreatedAt = time.Unix(createdAt, 0).UTC()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watch items: %w", err)
	}

	return items, nil
}

// Delete removes a watch item by ID. Returns false if no row matched.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM watch_items WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete watch item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
