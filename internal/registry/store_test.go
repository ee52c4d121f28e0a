package registry_test

import (
	"testing"

	"github.com/rifthouse/rifthouse/internal/database"
	"github.com/rifthouse/rifthouse/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) registry.PlayerRegistry {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() {
		dbTeardown()
		db.Close()
	})

	return registry.New(db)
}

func TestUpsertAndGetPlayer(t *testing.T) {
	store := setupTestDB(t)

	players := []registry.Player{
		{ID: "p1", DisplayName: "Player One", MMR: 1400, PrimaryLane: registry.LaneTop, SecondaryLane: registry.LaneMid},
		{ID: "b1", DisplayName: "Bot One", MMR: 1200, PrimaryLane: registry.LaneJungle, SecondaryLane: registry.LaneSupport, IsBot: true},
	}
	require.NoError(t, store.UpsertPlayers(players))

	got, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, "Player One", got.DisplayName)
	assert.Equal(t, 1400, got.MMR)
	assert.Equal(t, registry.LaneTop, got.PrimaryLane)
	assert.False(t, got.IsBot)

	bot, err := store.GetPlayer("b1")
	require.NoError(t, err)
	assert.True(t, bot.IsBot)

	// Upsert updates in place.
	players[0].MMR = 1450
	require.NoError(t, store.UpsertPlayers(players[:1]))
	got, err = store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 1450, got.MMR)

	all, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetPlayerNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetPlayer("ghost")
	assert.ErrorIs(t, err, registry.ErrPlayerNotFound)
}
