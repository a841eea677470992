package pitch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFor(t *testing.T) {
	cases := []struct {
		mt      MatchType
		perTeam int
		bench   int
	}{
		{MatchType5v5, 5, 3},
		{MatchType6v6, 6, 4},
		{MatchType7v7, 7, 5},
		{MatchType11v11, 11, 9},
	}
	for _, tc := range cases {
		t.Run(string(tc.mt), func(t *testing.T) {
			l, err := LayoutFor(tc.mt)
			require.NoError(t, err)
			assert.Equal(t, tc.perTeam, l.PlayersPerTeam)
			assert.Equal(t, tc.perTeam*2, l.TotalSlots)
			assert.Equal(t, tc.bench, l.BenchSlots)
		})
	}

	_, err := LayoutFor("3v3")
	assert.Error(t, err)
}

func TestParseSlot(t *testing.T) {
	l, _ := LayoutFor(MatchType5v5)

	s, err := ParseSlot("slot-4")
	require.NoError(t, err)
	assert.Equal(t, TeamA, s.TeamIn(l))
	assert.Equal(t, "slot-4", s.ID())

	s, err = ParseSlot("slot-5")
	require.NoError(t, err)
	assert.Equal(t, TeamB, s.TeamIn(l))
	assert.True(t, s.Fits(l))

	s, err = ParseSlot("slot-10")
	require.NoError(t, err)
	assert.False(t, s.Fits(l))

	s, err = ParseSlot("bench-B-3")
	require.NoError(t, err)
	assert.True(t, s.Bench)
	assert.Equal(t, TeamB, s.TeamIn(l))
	assert.True(t, s.Fits(l))
	assert.Equal(t, "bench-B-3", s.ID())

	s, err = ParseSlot("bench-A-4")
	require.NoError(t, err)
	assert.False(t, s.Fits(l))

	for _, bad := range []string{"", "slot-", "slot--1", "slot-x", "bench-C-1", "bench-A-0", "bench-A", "seat-1"} {
		_, err := ParseSlot(bad)
		assert.Error(t, err, bad)
	}
}

func TestLayoutSlotLists(t *testing.T) {
	l, _ := LayoutFor(MatchType6v6)
	assert.Equal(t, []string{"slot-0", "slot-1", "slot-2", "slot-3", "slot-4", "slot-5"}, l.StartingSlots(TeamA))
	assert.Equal(t, []string{"slot-6", "slot-7", "slot-8", "slot-9", "slot-10", "slot-11"}, l.StartingSlots(TeamB))
	assert.Equal(t, []string{"bench-A-1", "bench-A-2", "bench-A-3", "bench-A-4"}, l.BenchSlotIDs(TeamA))
}

func TestCanJoin(t *testing.T) {
	now := time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	t.Run("admin always", func(t *testing.T) {
		assert.NoError(t, CanJoin(State{ScheduledAt: &later}, now, true))
		assert.NoError(t, CanJoin(State{}, now, true))
	})
	t.Run("schedule in the future", func(t *testing.T) {
		assert.ErrorIs(t, CanJoin(State{ScheduledAt: &later, IsActive: true}, now, false), ErrNotScheduledYet)
	})
	t.Run("schedule reached ignores active flag", func(t *testing.T) {
		assert.NoError(t, CanJoin(State{ScheduledAt: &earlier}, now, false))
		assert.NoError(t, CanJoin(State{ScheduledAt: &now}, now, false))
	})
	t.Run("no schedule uses active flag", func(t *testing.T) {
		assert.ErrorIs(t, CanJoin(State{}, now, false), ErrPitchInactive)
		assert.NoError(t, CanJoin(State{IsActive: true}, now, false))
	})
}

func TestCursorBefore(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, Cursor{Version: 1, UpdatedAt: t0.Add(time.Hour)}.Before(Cursor{Version: 2, UpdatedAt: t0}))
	assert.False(t, Cursor{Version: 2}.Before(Cursor{Version: 1}))
	assert.True(t, Cursor{Version: 2, UpdatedAt: t0}.Before(Cursor{Version: 2, UpdatedAt: t0.Add(time.Millisecond)}))
	assert.False(t, Cursor{Version: 2, UpdatedAt: t0}.Before(Cursor{Version: 2, UpdatedAt: t0}))
}
