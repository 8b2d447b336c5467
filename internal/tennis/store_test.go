package tennis

import (
	"testing"

	"github.com/mauv0809/courtline/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func setupTestStore(t *testing.T) (Store, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return New(db), func() {
		teardown()
	}
}

func strPtr(s string) *string {
	return &s
}

func TestCreateMatchAutoCreatesOpponent(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{
		Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	players, err := store.ListPlayers(testUser)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Alex", players[0].Name)
	assert.Equal(t, 1, players[0].MatchCount)

	// A second match against the same opponent must not duplicate the player.
	_, err = store.CreateMatch(testUser, &Match{
		Player1: "Me", Player2: "Alex", Date: "2026-03-08", Surface: "Hard", Season: "2026",
	})
	require.NoError(t, err)

	players, err = store.ListPlayers(testUser)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, 2, players[0].MatchCount)
}

func TestCreateMatchStartsScheduled(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{
		Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026",
		// A submitted status is ignored; every new match starts scheduled.
		Status: StatusCompleted,
	})
	require.NoError(t, err)

	match, err := store.GetMatch(testUser, id)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, match.Status)
	assert.Nil(t, match.Score1)
	assert.Nil(t, match.Score2)
}

func TestListMatchesOrdering(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-01-10", StartTime: strPtr("09:00"), Surface: "Hard", Season: "2026"})
	require.NoError(t, err)
	_, err = store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "John", Date: "2026-02-20", StartTime: strPtr("10:00"), Surface: "Clay", Season: "2026"})
	require.NoError(t, err)
	_, err = store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Sarah", Date: "2026-01-10", StartTime: strPtr("15:00"), Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	matches, err := store.ListMatches(testUser)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "John", matches[0].Player2)
	assert.Equal(t, "Sarah", matches[1].Player2)
	assert.Equal(t, "Alex", matches[2].Player2)
}

func TestUpdateScoreForcesCompleted(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateScore(testUser, id, "6,6", "4,3"))

	match, err := store.GetMatch(testUser, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, match.Status)
	require.NotNil(t, match.Score1)
	assert.Equal(t, "6,6", *match.Score1)

	completed, err := store.CompletedMatches(testUser)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestUpdateScoreUnknownMatch(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	err := store.UpdateScore(testUser, 42, "6,6", "4,3")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestUpdateMatchScopedToUser(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	// Another user cannot touch the match.
	err = store.UpdateMatch("other-user", id, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-02", Surface: "Hard", Season: "2026", Status: StatusScheduled})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = store.GetMatch("other-user", id)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestUserIsolation(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	_, err := store.CreateMatch("user-a", &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	matches, err := store.ListMatches("user-b")
	require.NoError(t, err)
	assert.Empty(t, matches)

	players, err := store.ListPlayers("user-b")
	require.NoError(t, err)
	assert.Empty(t, players)

	// The same opponent name is allowed for a different user.
	require.NoError(t, store.AddPlayer("user-b", "Alex"))
}

func TestDeleteMatchIdempotent(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteMatch(testUser, id))
	require.NoError(t, store.DeleteMatch(testUser, id))

	matches, err := store.ListMatches(testUser)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestAddPlayerDuplicate(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.AddPlayer(testUser, "Alex"))
	err := store.AddPlayer(testUser, "Alex")
	assert.ErrorIs(t, err, ErrPlayerExists)
}

func TestDeletePlayerKeepsMatches(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	id, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: "2026"})
	require.NoError(t, err)

	require.NoError(t, store.DeletePlayer(testUser, "Alex"))
	// Deleting an absent player is not an error either.
	require.NoError(t, store.DeletePlayer(testUser, "Alex"))

	match, err := store.GetMatch(testUser, id)
	require.NoError(t, err)
	assert.Equal(t, "Alex", match.Player2)
}

func TestListSeasons(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	for _, season := range []string{"Fall 2025", "Winter 2026", "Fall 2025"} {
		_, err := store.CreateMatch(testUser, &Match{Player1: "Me", Player2: "Alex", Date: "2026-03-01", Surface: "Hard", Season: season})
		require.NoError(t, err)
	}

	seasons, err := store.ListSeasons(testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"Winter 2026", "Fall 2025"}, seasons)
}

func TestGetSettingsDefaults(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	settings, err := store.GetSettings(testUser)
	require.NoError(t, err)
	assert.Equal(t, "", settings.UserName)
	assert.Equal(t, DefaultStartTime, settings.DefaultStartTime)
	assert.Equal(t, DefaultDuration, settings.DefaultDuration)
	assert.Equal(t, DefaultSurfaces, settings.Surfaces)
}

func TestSaveSettingsPartialUpdate(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	name := "Mark"
	require.NoError(t, store.SaveSettings(testUser, SettingsUpdate{UserName: &name}))

	duration := "120"
	require.NoError(t, store.SaveSettings(testUser, SettingsUpdate{
		DefaultDuration: &duration,
		Surfaces:        []string{"Clay", "Hard"},
	}))

	settings, err := store.GetSettings(testUser)
	require.NoError(t, err)
	assert.Equal(t, "Mark", settings.UserName)
	assert.Equal(t, DefaultStartTime, settings.DefaultStartTime)
	assert.Equal(t, "120", settings.DefaultDuration)
	assert.Equal(t, []string{"Clay", "Hard"}, settings.Surfaces)
}

func TestSeedDefaultSettings(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	has, err := store.HasSettings(testUser)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.SeedDefaultSettings(testUser, "Mark"))

	has, err = store.HasSettings(testUser)
	require.NoError(t, err)
	assert.True(t, has)

	settings, err := store.GetSettings(testUser)
	require.NoError(t, err)
	assert.Equal(t, "Mark", settings.UserName)

	// Seeding again must not overwrite user edits.
	newName := "Marcus"
	require.NoError(t, store.SaveSettings(testUser, SettingsUpdate{UserName: &newName}))
	require.NoError(t, store.SeedDefaultSettings(testUser, "Mark"))

	settings, err = store.GetSettings(testUser)
	require.NoError(t, err)
	assert.Equal(t, "Marcus", settings.UserName)
}
