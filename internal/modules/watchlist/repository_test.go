package watchlist

import (
	"database/sql"
	"testing"

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

func TestAdd(t *testing.T) {
	repo := setupTestRepo(t)

	added, err := repo.Add(domain.WatchItem{UserID: "u1", Symbol: "tsla", Name: "Tesla, Inc."})
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "TSLA", added.Symbol)
	assert.False(t, added.CreatedAt.IsZero())

	items, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tesla, Inc.", items[0].Name)
}

func TestAdd_Invalid(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(domain.WatchItem{Symbol: "AAPL"})
	assert.Error(t, err, "user_id required")

	_, err = repo.Add(domain.WatchItem{UserID: "u1", Symbol: "   "})
	assert.Error(t, err, "symbol required")
}

func TestAdd_DuplicateSymbol(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(domain.WatchItem{UserID: "u1", Symbol: "AAPL"})
	require.NoError(t, err)

	// Same user, same symbol after normalization
	_, err = repo.Add(domain.WatchItem{UserID: "u1", Symbol: "aapl"})
	assert.Error(t, err)

	// Another user may watch the same symbol
	_, err = repo.Add(domain.WatchItem{UserID: "u2", Symbol: "AAPL"})
	assert.NoError(t, err)
}

func TestAdd_EmptyNameStoredAsNull(t *testing.T) {
	repo := setupTestRepo(t)

	added, err := repo.Add(domain.WatchItem{UserID: "u1", Symbol: "NVDA"})
	require.NoError(t, err)

	items, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, added.ID, items[0].ID)
	assert.Empty(t, items[0].Name)
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)

	added, err := repo.Add(domain.WatchItem{UserID: "u1", Symbol: "AAPL"})
	require.NoError(t, err)

	deleted, err := repo.Delete(added.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := repo.ListByUser("u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Deleting again reports no match
	deleted, err = repo.Delete(added.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListByUser_Isolation(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Add(domain.WatchItem{UserID: "u1", Symbol: "AAPL"})
	require.NoError(t, err)
	_, err = repo.Add(domain.WatchItem{UserID: "u2", Symbol: "MSFT"})
	require.NoError(t, err)

	items, err := repo.ListByUser("u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AAPL", items[0].Symbol)
}
