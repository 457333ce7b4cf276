package orders

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketdesk/marketdesk/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(db))

	return NewRepository(db, zerolog.New(nil).Level(zerolog.Disabled))
}

func TestCreate(t *testing.T) {
	repo := setupTestRepo(t)

	created, err := repo.Create(domain.Order{
		UserID:   "u1",
		Symbol:   "aapl",
		Side:     domain.OrderSideBuy,
		Quantity: 10,
		Price:    185.5,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "AAPL", created.Symbol, "symbol normalized on write")
	assert.Equal(t, domain.OrderStatusFilled, created.Status, "status defaults to filled")
	assert.False(t, created.CreatedAt.IsZero())

	listed, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, 185.5, listed[0].Price)
}

func TestCreate_Invalid(t *testing.T) {
	repo := setupTestRepo(t)

	tests := []struct {
		name  string
		order domain.Order
	}{
		{"missing user", domain.Order{Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 100}},
		{"empty symbol", domain.Order{UserID: "u1", Symbol: "  ", Side: domain.OrderSideBuy, Quantity: 1, Price: 100}},
		{"unknown side", domain.Order{UserID: "u1", Symbol: "AAPL", Side: "hold", Quantity: 1, Price: 100}},
		{"zero quantity", domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 0, Price: 100}},
		{"negative quantity", domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: -5, Price: 100}},
		{"zero price", domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 0}},
		{"unknown status", domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 100, Status: "pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(tt.order)
			assert.Error(t, err)
		})
	}

	// Nothing leaked into the store
	listed, err := repo.ListByUser("u1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListByUser_Isolation(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 100})
	require.NoError(t, err)
	_, err = repo.Create(domain.Order{UserID: "u2", Symbol: "MSFT", Side: domain.OrderSideSell, Quantity: 2, Price: 300})
	require.NoError(t, err)

	u1, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, u1, 1)
	assert.Equal(t, "AAPL", u1[0].Symbol)

	u2, err := repo.ListByUser("u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, "MSFT", u2[0].Symbol)

	none, err := repo.ListByUser("u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByUserAndStatus(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(domain.Order{UserID: "u1", Symbol: "AAPL", Side: domain.OrderSideBuy, Quantity: 1, Price: 100})
	require.NoError(t, err)
	_, err = repo.Create(domain.Order{UserID: "u1", Symbol: "MSFT", Side: domain.OrderSideBuy, Quantity: 1, Price: 300, Status: domain.OrderStatusOpen})
	require.NoError(t, err)
	_, err = repo.Create(domain.Order{UserID: "u1", Symbol: "GOOG", Side: domain.OrderSideSell, Quantity: 1, Price: 2800, Status: domain.OrderStatusCancelled})
	require.NoError(t, err)

	filled, err := repo.ListByUserAndStatus("u1", domain.OrderStatusFilled)
	require.NoError(t, err)
	require.Len(t, filled, 1)
	assert.Equal(t, "AAPL", filled[0].Symbol)

	open, err := repo.ListByUserAndStatus("u1", domain.OrderStatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "MSFT", open[0].Symbol)
}

func TestListByUser_OldestFirst(t *testing.T) {
	repo := setupTestRepo(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, symbol := range []string{"AAPL", "MSFT", "GOOG"} {
		_, err := repo.Create(domain.Order{
			UserID:    "u1",
			Symbol:    symbol,
			Side:      domain.OrderSideBuy,
			Quantity:  1,
			Price:     100,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	listed, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, listed, 3)

	assert.Equal(t, "AAPL", listed[0].Symbol)
	assert.Equal(t, "MSFT", listed[1].Symbol)
	assert.Equal(t, "GOOG", listed[2].Symbol)
	assert.Equal(t, base, listed[0].CreatedAt)
}
