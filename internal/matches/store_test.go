package matches_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/database"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   matches.MatchStore
	roster  roster.RosterStore
	db      *sql.DB
	clock   *clock.Mock
	players map[string]string
}

// setupTestDB creates an in-memory SQLite database with two players.
func setupTestDB(t *testing.T) *fixture {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clk := clock.NewMock()
	clk.Set(time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC))

	f := &fixture{
		store:   matches.New(db, clk),
		roster:  roster.New(db, clk),
		db:      db,
		clock:   clk,
		players: map[string]string{},
	}
	for _, name := range []string{"Ada", "Bo"} {
		p, err := f.roster.CreatePlayer(context.Background(), roster.NewPlayer{Name: name, PositionPreference: roster.PositionAny})
		require.NoError(t, err)
		f.players[name] = p.ID
	}
	return f
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func (f *fixture) createMatch(t *testing.T, date string, a, b int) *matches.Match {
	t.Helper()
	m, err := f.store.CreateMatch(context.Background(), matches.NewMatch{
		Date:         date,
		MatchType:    pitch.MatchType5v5,
		TeamAScore:   a,
		TeamBScore:   b,
		TeamAPlayers: []string{f.players["Ada"]},
		TeamBPlayers: []string{f.players["Bo"]},
	})
	require.NoError(t, err)
	return m
}

func TestCreateMatch(t *testing.T) {
	f := setupTestDB(t)

	m := f.createMatch(t, "2025-04-30", 3, 2)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "2025-04-30", m.Date)
	assert.Equal(t, []string{f.players["Ada"]}, m.TeamAPlayers)
	assert.Equal(t, matches.StatusNew, m.AnnouncementStatus)
	assert.Nil(t, m.Notes)
	assert.Equal(t, f.clock.Now().UTC(), m.CreatedAt)

	got, err := f.store.GetMatch(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, *m, got.Match)
	assert.Empty(t, got.Goals)
}

func TestCreateMatch_Validation(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   matches.NewMatch
	}{
		{"missing date", matches.NewMatch{MatchType: pitch.MatchType5v5}},
		{"bad date", matches.NewMatch{Date: "yesterday", MatchType: pitch.MatchType5v5}},
		{"unknown match type", matches.NewMatch{Date: "2025-04-30", MatchType: "3v3"}},
		{"negative score", matches.NewMatch{Date: "2025-04-30", MatchType: pitch.MatchType5v5, TeamAScore: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.store.CreateMatch(ctx, tt.in)
			assert.True(t, apperr.IsValidation(err), "got %v", err)
		})
	}
}

func TestListMatches_OrderAndGoals(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	older := f.createMatch(t, "2025-04-01", 1, 0)
	newer := f.createMatch(t, "2025-04-20", 2, 2)

	_, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: newer.ID, PlayerID: f.players["Bo"], Team: pitch.TeamB, Minute: intPtr(30)})
	require.NoError(t, err)
	_, err = f.store.CreateGoal(ctx, matches.NewGoal{MatchID: newer.ID, PlayerID: f.players["Ada"], Team: pitch.TeamA, Minute: intPtr(10), IsConfirmed: true})
	require.NoError(t, err)

	list, err := f.store.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	require.Len(t, list[0].Goals, 2)
	assert.Equal(t, "Ada", list[0].Goals[0].PlayerName, "goals are ordered by minute")
	assert.Equal(t, "Bo", list[0].Goals[1].PlayerName)
	assert.NotNil(t, list[1].Goals)
	assert.Empty(t, list[1].Goals)
}

func TestUpdateMatch(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	m := f.createMatch(t, "2025-04-30", 3, 2)

	f.clock.Add(time.Hour)
	updated, err := f.store.UpdateMatch(ctx, m.ID, matches.MatchUpdate{
		TeamBScore:   intPtr(4),
		Notes:        strPtr("rainy"),
		TeamAPlayers: []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TeamAScore)
	assert.Equal(t, 4, updated.TeamBScore)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rainy", *updated.Notes)
	assert.Empty(t, updated.TeamAPlayers)
	assert.Equal(t, []string{f.players["Bo"]}, updated.TeamBPlayers)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	updated, err = f.store.UpdateMatch(ctx, m.ID, matches.MatchUpdate{Notes: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Notes)

	_, err = f.store.UpdateMatch(ctx, m.ID, matches.MatchUpdate{TeamAScore: intPtr(-2)})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.store.UpdateMatch(ctx, "missing", matches.MatchUpdate{TeamAScore: intPtr(1)})
	assert.ErrorIs(t, err, matches.ErrNotFound)
}

func TestDeleteMatch_CascadesGoals(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	m := f.createMatch(t, "2025-04-30", 1, 0)

	g, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: f.players["Ada"], Team: pitch.TeamA})
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteMatch(ctx, m.ID))

	_, err = f.store.GetGoal(ctx, g.ID)
	assert.ErrorIs(t, err, matches.ErrNotFound)
	_, err = f.store.GetMatch(ctx, m.ID)
	assert.ErrorIs(t, err, matches.ErrNotFound)
	assert.ErrorIs(t, f.store.DeleteMatch(ctx, m.ID), matches.ErrNotFound)
}

func TestCreateGoal(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	m := f.createMatch(t, "2025-04-30", 1, 0)

	t.Run("defaults to pending", func(t *testing.T) {
		g, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: f.players["Ada"], Team: pitch.TeamA, VideoURL: strPtr("https://v/1")})
		require.NoError(t, err)
		assert.False(t, g.IsConfirmed)
		assert.Nil(t, g.Minute)
		require.NotNil(t, g.VideoURL)
		assert.Equal(t, "https://v/1", *g.VideoURL)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: "missing", PlayerID: f.players["Ada"], Team: pitch.TeamA})
		assert.ErrorIs(t, err, matches.ErrNotFound)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: "ghost", Team: pitch.TeamA})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("bad team", func(t *testing.T) {
		_, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: f.players["Ada"], Team: "C"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestUpdateGoal_ConfirmAndDelete(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	m := f.createMatch(t, "2025-04-30", 1, 0)

	g, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: f.players["Ada"], Team: pitch.TeamA})
	require.NoError(t, err)

	updated, err := f.store.UpdateGoal(ctx, g.ID, matches.GoalUpdate{IsConfirmed: boolPtr(true), Minute: intPtr(12)})
	require.NoError(t, err)
	assert.True(t, updated.IsConfirmed)
	require.NotNil(t, updated.Minute)
	assert.Equal(t, 12, *updated.Minute)

	updated, err = f.store.UpdateGoal(ctx, g.ID, matches.GoalUpdate{IsConfirmed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsConfirmed)

	goals, err := f.store.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	require.NoError(t, f.store.DeleteGoal(ctx, g.ID))
	assert.ErrorIs(t, f.store.DeleteGoal(ctx, g.ID), matches.ErrNotFound)
	_, err = f.store.UpdateGoal(ctx, g.ID, matches.GoalUpdate{IsConfirmed: boolPtr(true)})
	assert.ErrorIs(t, err, matches.ErrNotFound)
}

func TestAnnouncementStatus(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	a := f.createMatch(t, "2025-04-29", 1, 0)
	b := f.createMatch(t, "2025-04-30", 0, 0)

	pending, err := f.store.GetMatchesForAnnouncement(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, f.store.UpdateAnnouncementStatus(ctx, a.ID, matches.StatusCompleted))
	require.NoError(t, f.store.UpdateAnnouncementStatus(ctx, b.ID, matches.StatusResultNotified))

	pending, err = f.store.GetMatchesForAnnouncement(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
	assert.Equal(t, matches.StatusResultNotified, pending[0].AnnouncementStatus)

	assert.ErrorIs(t, f.store.UpdateAnnouncementStatus(ctx, "missing", matches.StatusCompleted), matches.ErrNotFound)
}

func TestDeletePlayer_CascadesGoals(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	m := f.createMatch(t, "2025-04-30", 1, 0)

	_, err := f.store.CreateGoal(ctx, matches.NewGoal{MatchID: m.ID, PlayerID: f.players["Ada"], Team: pitch.TeamA})
	require.NoError(t, err)
	require.NoError(t, f.roster.DeletePlayer(ctx, f.players["Ada"]))

	goals, err := f.store.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
