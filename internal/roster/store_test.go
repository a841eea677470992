package roster_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/database"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (roster.RosterStore, *sql.DB, *clock.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clk := clock.NewMock()
	clk.Set(time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC))
	return roster.New(db, clk), db, clk
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetPlayer(t *testing.T) {
	store, _, clk := setupTestDB(t)
	ctx := context.Background()

	created, err := store.CreatePlayer(ctx, roster.NewPlayer{
		Name:               "  Ada  ",
		PositionPreference: roster.PositionMidfielder,
		PhotoURL:           strPtr("https://img/ada.png"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, roster.PositionMidfielder, created.PositionPreference)
	require.NotNil(t, created.PhotoURL)
	assert.False(t, created.HasPassword)
	assert.Equal(t, clk.Now().UTC(), created.CreatedAt)

	got, err := store.GetPlayer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreatePlayer_Validation(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: "", PositionPreference: roster.PositionAny})
	assert.True(t, apperr.IsValidation(err))

	_, err = store.CreatePlayer(ctx, roster.NewPlayer{Name: "Bo"})
	assert.True(t, apperr.IsValidation(err))

	_, err = store.CreatePlayer(ctx, roster.NewPlayer{Name: "Bo", PositionPreference: "libero"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreatePlayer_EnforcesLimit(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := store.UpdateMaxPlayers(ctx, 2)
	require.NoError(t, err)

	for _, name := range []string{"A", "B"} {
		_, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: name, PositionPreference: roster.PositionAny})
		require.NoError(t, err)
	}

	_, err = store.CreatePlayer(ctx, roster.NewPlayer{Name: "C", PositionPreference: roster.PositionAny})
	var limitErr *roster.LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 2, limitErr.Max)
	assert.Contains(t, err.Error(), "2")

	count, err := store.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpdateMaxPlayers(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, settings.MaxPlayers)
	assert.Equal(t, 0, settings.PlayerCount)

	for _, name := range []string{"A", "B", "C"} {
		_, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: name, PositionPreference: roster.PositionAny})
		require.NoError(t, err)
	}

	t.Run("rejects non-positive", func(t *testing.T) {
		_, err := store.UpdateMaxPlayers(ctx, 0)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects below current count", func(t *testing.T) {
		_, err := store.UpdateMaxPlayers(ctx, 2)
		require.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), "3")
	})

	t.Run("accepts current count", func(t *testing.T) {
		settings, err := store.UpdateMaxPlayers(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, settings.MaxPlayers)
		assert.Equal(t, 3, settings.PlayerCount)
	})
}

func TestUpdatePlayer(t *testing.T) {
	store, _, clk := setupTestDB(t)
	ctx := context.Background()

	p, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: "Ada", PositionPreference: roster.PositionAny, PhotoURL: strPtr("x.png")})
	require.NoError(t, err)

	clk.Add(time.Minute)
	pos := roster.PositionGoalkeeper
	admin := true
	updated, err := store.UpdatePlayer(ctx, p.ID, roster.PlayerUpdate{
		Name:               strPtr("Ada L"),
		PositionPreference: &pos,
		PhotoURL:           strPtr(""),
		IsAdmin:            &admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", updated.Name)
	assert.Equal(t, roster.PositionGoalkeeper, updated.PositionPreference)
	assert.Nil(t, updated.PhotoURL, "an empty photo url clears the photo")
	assert.True(t, updated.IsAdmin)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = store.UpdatePlayer(ctx, "missing", roster.PlayerUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestDeletePlayer_CascadesSessions(t *testing.T) {
	store, db, _ := setupTestDB(t)
	ctx := context.Background()

	p, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: "Ada", PositionPreference: roster.PositionAny})
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sessions (id, player_id, expires_at, created_at) VALUES ('s1', ?, 0, 0)`, p.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeletePlayer(ctx, p.ID))

	var sessions int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessions))
	assert.Zero(t, sessions)

	_, err = store.GetPlayer(ctx, p.ID)
	assert.ErrorIs(t, err, roster.ErrNotFound)
	assert.ErrorIs(t, store.DeletePlayer(ctx, p.ID), roster.ErrNotFound)
}

func TestCredentialsAndPassword(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	p, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: "Ada", PositionPreference: roster.PositionAny, Password: strPtr("hash-1")})
	require.NoError(t, err)
	assert.True(t, p.HasPassword)

	creds, err := store.GetCredentials(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", creds.Password)

	require.NoError(t, store.SetPassword(ctx, p.ID, ""))
	creds, err = store.GetCredentials(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, creds.Password)

	_, err = store.GetCredentials(ctx, "missing")
	assert.ErrorIs(t, err, roster.ErrNotFound)
}

func TestListAndGetPlayers(t *testing.T) {
	store, _, _ := setupTestDB(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Cleo", "ada", "Bo"} {
		p, err := store.CreatePlayer(ctx, roster.NewPlayer{Name: name, PositionPreference: roster.PositionAny})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	all, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ada", "Bo", "Cleo"}, []string{all[0].Name, all[1].Name, all[2].Name})

	some, err := store.GetPlayers(ctx, []string{ids[0], "missing"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "Cleo", some[0].Name)
}
