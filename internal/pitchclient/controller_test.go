package pitchclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves the pitch from an in-memory store and records every write.
type fakeAPI struct {
	store *pitch.Mock

	mu        sync.Mutex
	players   []roster.Player
	updates   []pitch.Update
	updateErr error
	// inFlight runs once, after the next write is sent and before the
	// server applies it.
	inFlight func()
}

func (f *fakeAPI) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]roster.Player(nil), f.players...), nil
}

func (f *fakeAPI) GetPitchState(ctx context.Context) (*pitch.State, error) {
	return f.store.Get(ctx)
}

func (f *fakeAPI) UpdatePitchState(ctx context.Context, upd pitch.Update) (*pitch.State, error) {
	f.mu.Lock()
	f.updates = append(f.updates, upd)
	err := f.updateErr
	hook := f.inFlight
	f.inFlight = nil
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook()
	}
	return f.store.Update(ctx, upd)
}

func (f *fakeAPI) ClearPitchState(ctx context.Context) (*pitch.State, error) {
	return f.store.Clear(ctx)
}

func (f *fakeAPI) Updates() []pitch.Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pitch.Update(nil), f.updates...)
}

var (
	ada = roster.Player{ID: "ada", Name: "Ada"}
	bo  = roster.Player{ID: "bo", Name: "Bo"}
	cy  = roster.Player{ID: "cy", Name: "Cy"}
)

func setup(t *testing.T) (*Controller, *fakeAPI, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC))
	api := &fakeAPI{store: pitch.NewMock(clk), players: []roster.Player{ada, bo, cy}}
	c := New(api, clk)
	require.NoError(t, c.LoadInitial(context.Background()))
	return c, api, clk
}

func TestController_LoadInitial(t *testing.T) {
	clk := clock.NewMock()
	api := &fakeAPI{store: pitch.NewMock(clk), players: []roster.Player{ada}}
	_, err := api.store.Update(context.Background(), pitch.Update{
		ActivePlayers: []pitch.SlotAssignment{
			{SlotID: "slot-0", PlayerID: "ada"},
			{SlotID: "slot-1", PlayerID: "deleted"},
		},
	})
	require.NoError(t, err)

	c := New(api, clk)
	require.NoError(t, c.LoadInitial(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, map[string]roster.Player{"slot-0": ada}, snap.Slots)
	assert.Equal(t, int64(1), snap.Cursor.Version)
	assert.Len(t, snap.Pool, 1)
}

func TestController_DebouncedSync(t *testing.T) {
	c, api, clk := setup(t)

	require.NoError(t, c.AddPlayerToSlot("slot-1", bo))
	clk.Add(100 * time.Millisecond)
	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))
	clk.Add(200 * time.Millisecond)
	assert.Empty(t, api.Updates(), "timer restarts on every edit")

	clk.Add(DebounceDelay)
	assert.Eventually(t, func() bool { return len(api.Updates()) == 1 }, time.Second, 10*time.Millisecond)

	upd := api.Updates()[0]
	assert.Equal(t, []pitch.SlotAssignment{
		{SlotID: "slot-0", PlayerID: "ada"},
		{SlotID: "slot-1", PlayerID: "bo"},
	}, upd.ActivePlayers)
	assert.False(t, upd.TeamAFormation.Set, "formations are only sent when changed")

	assert.Eventually(t, func() bool { return c.Snapshot().Cursor.Version == 1 }, time.Second, 10*time.Millisecond)
}

func TestController_PollTick(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)

	applied, err := c.PollTick(ctx)
	require.NoError(t, err)
	assert.False(t, applied, "same cursor is not reapplied")

	_, err = api.store.Update(ctx, pitch.Update{ActivePlayers: []pitch.SlotAssignment{{SlotID: "bench-A-1", PlayerID: "cy"}}})
	require.NoError(t, err)

	applied, err = c.PollTick(ctx)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []roster.Player{cy}, c.BenchPlayers())
}

func TestController_Join(t *testing.T) {
	player := auth.Viewer{ID: "bo", Name: "Bo"}
	admin := auth.Viewer{ID: "ada", Name: "Ada", IsAdmin: true}

	t.Run("closed pitch only admits admins", func(t *testing.T) {
		c, _, _ := setup(t)
		assert.ErrorIs(t, c.Join("slot-0", player), pitch.ErrPitchInactive)
		assert.NoError(t, c.Join("slot-0", admin))
	})

	t.Run("scheduled pitch opens at the scheduled time", func(t *testing.T) {
		c, api, clk := setup(t)
		ctx := context.Background()
		_, err := api.store.Update(ctx, pitch.Update{ScheduledAt: pitch.Value(clk.Now().Add(time.Hour))})
		require.NoError(t, err)
		_, err = c.PollTick(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, c.Join("slot-0", player), pitch.ErrNotScheduledYet)
		clk.Add(time.Hour)
		assert.NoError(t, c.Join("slot-0", player))
	})

	t.Run("one slot per player and no overwrites", func(t *testing.T) {
		c, api, _ := setup(t)
		ctx := context.Background()
		active := true
		_, err := api.store.Update(ctx, pitch.Update{IsActive: &active})
		require.NoError(t, err)
		_, err = c.PollTick(ctx)
		require.NoError(t, err)

		require.NoError(t, c.Join("slot-0", player))
		assert.ErrorIs(t, c.Join("slot-1", player), ErrAlreadyOnPitch)
		assert.ErrorIs(t, c.Join("slot-0", admin), ErrSlotTaken)
		assert.ErrorIs(t, c.Join("slot-10", admin), ErrUnknownSlot)
		assert.NoError(t, c.Join("slot-1", admin))
		assert.NoError(t, c.Join("slot-2", admin), "admins may fill several slots")
	})
}

func TestController_MovePlayer(t *testing.T) {
	c, _, _ := setup(t)
	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))
	require.NoError(t, c.AddPlayerToSlot("slot-5", bo))

	require.NoError(t, c.MovePlayer("slot-0", "slot-5"))
	assert.Equal(t, map[string]roster.Player{"slot-0": bo, "slot-5": ada}, c.Snapshot().Slots)

	require.NoError(t, c.MovePlayer("slot-5", "bench-B-2"))
	assert.Equal(t, map[string]roster.Player{"slot-0": bo, "bench-B-2": ada}, c.Snapshot().Slots)

	assert.ErrorIs(t, c.MovePlayer("slot-3", "slot-4"), ErrEmptySlot)
	assert.ErrorIs(t, c.MovePlayer("slot-0", "bench-B-4"), ErrUnknownSlot)
}

func TestController_ApplyFormations(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)
	require.NoError(t, c.AddPlayerToSlot("slot-3", ada))
	require.NoError(t, c.AddPlayerToSlot("slot-9", bo))
	require.NoError(t, c.AddPlayerToSlot("bench-A-1", cy))

	require.NoError(t, c.ApplyFormations("2-2", ""))
	snap := c.Snapshot()
	assert.Equal(t, map[string]roster.Player{"slot-0": ada, "slot-5": bo, "bench-A-1": cy}, snap.Slots)
	require.NotNil(t, snap.TeamAFormation)
	assert.Equal(t, "2-2", *snap.TeamAFormation)
	assert.Nil(t, snap.TeamBFormation)

	require.NoError(t, c.Flush(ctx))
	updates := api.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, pitch.Value("2-2"), updates[0].TeamAFormation)
	assert.Equal(t, pitch.Null[string](), updates[0].TeamBFormation)
}

func TestController_SetMatchType(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)
	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))

	require.NoError(t, c.SetMatchType(ctx, pitch.MatchType7v7))
	assert.Empty(t, c.Snapshot().Slots)
	require.NoError(t, c.Flush(ctx))

	state, err := api.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, pitch.MatchType7v7, state.MatchType)
	assert.Empty(t, state.ActivePlayers, "pending edits are discarded by the clear")
	assert.Equal(t, state.Cursor(), c.Snapshot().Cursor)

	assert.Error(t, c.SetMatchType(ctx, "4v4"))
}

func TestController_FailedSyncIsDropped(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)
	api.updateErr = errors.New("offline")

	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))
	assert.Error(t, c.Flush(ctx))
	assert.NoError(t, c.Flush(ctx), "nothing left to push")
	assert.Len(t, api.Updates(), 1)
}

func TestController_FailedClearKeepsEdits(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)
	api.store.ClearFunc = func(ctx context.Context) (*pitch.State, error) {
		return nil, errors.New("offline")
	}

	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))
	assert.Error(t, c.ClearPitch(ctx))
	assert.Equal(t, map[string]roster.Player{"slot-0": ada}, c.Snapshot().Slots)

	require.NoError(t, c.Flush(ctx))
	updates := api.Updates()
	require.Len(t, updates, 1, "the edit is still pushed")
	assert.Equal(t, []pitch.SlotAssignment{{SlotID: "slot-0", PlayerID: "ada"}}, updates[0].ActivePlayers)

	state, err := api.store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []pitch.SlotAssignment{{SlotID: "slot-0", PlayerID: "ada"}}, state.ActivePlayers)
}

func TestController_PushAfterConcurrentPoll(t *testing.T) {
	ctx := context.Background()
	c, api, _ := setup(t)

	require.NoError(t, c.AddPlayerToSlot("slot-0", ada))
	api.inFlight = func() {
		_, err := api.store.Update(ctx, pitch.Update{ActivePlayers: []pitch.SlotAssignment{{SlotID: "slot-2", PlayerID: "bo"}}})
		require.NoError(t, err)
		applied, err := c.PollTick(ctx)
		require.NoError(t, err)
		require.True(t, applied)
	}

	require.NoError(t, c.Flush(ctx))

	state, err := api.store.Get(ctx)
	require.NoError(t, err)
	snap := c.Snapshot()
	assert.Equal(t, map[string]roster.Player{"slot-0": ada}, snap.Slots, "local view matches what the server kept")
	assert.Equal(t, state.Cursor(), snap.Cursor)
	assert.Equal(t, int64(2), snap.Cursor.Version)
}

func TestController_RunPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, api, clk := setup(t)

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	_, err := api.store.Update(ctx, pitch.Update{ActivePlayers: []pitch.SlotAssignment{{SlotID: "slot-2", PlayerID: "bo"}}})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		clk.Add(PollInterval)
		_, ok := c.Snapshot().Slots["slot-2"]
		return ok
	}, time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
