package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/notifier"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/pubsub"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/mauv0809/pitchboard/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	p       *Processor
	matches *matches.MockStore
	roster  *roster.MockStore
	pitch   *pitch.Mock
	notif   *notifier.Mock
	metrics *metrics.Mock
	pubsub  *pubsub.MockPubSubClient
	clock   *clock.Mock
}

func newHarness(t *testing.T, withPubSub bool) *harness {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC))

	h := &harness{
		matches: matches.NewMock(),
		roster:  roster.NewMock(),
		pitch:   pitch.NewMock(clk),
		notif:   notifier.NewMock(),
		metrics: metrics.NewMock(),
		clock:   clk,
	}
	h.roster.AddPlayer(roster.Player{ID: "ada", Name: "Ada"}, "")
	h.roster.AddPlayer(roster.Player{ID: "bo", Name: "Bo"}, "")

	stores := Stores{
		Matches: h.matches,
		Players: h.roster,
		Pitch:   h.pitch,
		Stats:   stats.New(h.roster, h.matches),
	}
	var ps pubsub.PubSubClient
	if withPubSub {
		h.pubsub = pubsub.NewMock()
		ps = h.pubsub
	}
	h.p = New(stores, h.notif, h.metrics, ps, clk)
	return h
}

func confirmedGoal(id, playerID, name string, team pitch.Team) matches.GoalWithPlayer {
	return matches.GoalWithPlayer{
		Goal:       matches.Goal{ID: id, PlayerID: playerID, Team: team, IsConfirmed: true},
		PlayerName: name,
	}
}

func TestProcessor_ProcessMatches(t *testing.T) {
	t.Run("recent match is announced inline and completed", func(t *testing.T) {
		h := newHarness(t, false)
		h.matches.AddMatch(matches.Match{
			ID: "m1", Date: "2025-05-01", MatchType: pitch.MatchType5v5, TeamAScore: 2, TeamBScore: 1,
			TeamAPlayers: []string{"ada", "gone"}, TeamBPlayers: []string{"bo"},
		},
			confirmedGoal("g1", "ada", "Ada", pitch.TeamA),
			confirmedGoal("g2", "ada", "Ada", pitch.TeamA),
			confirmedGoal("g3", "bo", "Bo", pitch.TeamB),
			matches.GoalWithPlayer{Goal: matches.Goal{ID: "g4", PlayerID: "bo", Team: pitch.TeamB}, PlayerName: "Bo"},
		)

		h.p.ProcessMatches(context.Background(), false)

		require.Len(t, h.notif.SendMatchResultCalls, 1)
		result := h.notif.SendMatchResultCalls[0].Result
		assert.Equal(t, []string{"Ada"}, result.TeamA, "deleted players are dropped")
		assert.Equal(t, []string{"Bo"}, result.TeamB)
		assert.Equal(t, []notifier.Scorer{{Name: "Ada", Team: "A", Goals: 2}, {Name: "Bo", Team: "B", Goals: 1}}, result.Scorers)

		require.Len(t, h.matches.UpdateAnnouncementStatusCalls, 2)
		assert.Equal(t, matches.StatusResultNotified, h.matches.UpdateAnnouncementStatusCalls[0].Status)
		assert.Equal(t, matches.StatusCompleted, h.matches.UpdateAnnouncementStatusCalls[1].Status)
		assert.Equal(t, 1, h.metrics.MatchesProcessed())
		assert.Len(t, h.metrics.ProcessingDurations(), 1)
	})

	t.Run("old match is completed without notification", func(t *testing.T) {
		h := newHarness(t, false)
		h.matches.AddMatch(matches.Match{ID: "m1", Date: "2025-04-20", MatchType: pitch.MatchType5v5})

		h.p.ProcessMatches(context.Background(), false)

		assert.Empty(t, h.notif.SendMatchResultCalls)
		require.Len(t, h.matches.UpdateAnnouncementStatusCalls, 1)
		assert.Equal(t, matches.StatusCompleted, h.matches.UpdateAnnouncementStatusCalls[0].Status)
	})

	t.Run("with pubsub the event is published instead", func(t *testing.T) {
		h := newHarness(t, true)
		h.matches.AddMatch(matches.Match{ID: "m1", Date: "2025-05-01", MatchType: pitch.MatchType5v5})

		h.p.ProcessMatches(context.Background(), false)

		assert.Empty(t, h.notif.SendMatchResultCalls)
		require.Len(t, h.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventMatchRecorded, h.pubsub.SendMessageCalls[0].Topic)
		assert.Equal(t, pubsub.MatchRecorded{MatchID: "m1"}, h.pubsub.SendMessageCalls[0].Data)
	})

	t.Run("failed announcement leaves the match new", func(t *testing.T) {
		h := newHarness(t, false)
		h.matches.AddMatch(matches.Match{ID: "m1", Date: "2025-05-01", MatchType: pitch.MatchType5v5})
		h.notif.SendMatchResultFunc = func(result *notifier.MatchResult, dryRun bool) error {
			return errors.New("slack down")
		}

		h.p.ProcessMatches(context.Background(), false)

		assert.Empty(t, h.matches.UpdateAnnouncementStatusCalls)
	})

	t.Run("dry run does not persist status", func(t *testing.T) {
		h := newHarness(t, true)
		h.matches.AddMatch(matches.Match{ID: "m1", Date: "2025-05-01", MatchType: pitch.MatchType5v5})

		h.p.ProcessMatches(context.Background(), true)

		assert.Empty(t, h.pubsub.SendMessageCalls, "dry runs never publish")
		require.Len(t, h.notif.SendMatchResultCalls, 1)
		assert.True(t, h.notif.SendMatchResultCalls[0].DryRun)
		assert.Empty(t, h.matches.UpdateAnnouncementStatusCalls)
	})
}

func TestProcessor_PitchScheduled(t *testing.T) {
	ctx := context.Background()
	opensAt := time.Date(2025, 5, 2, 19, 0, 0, 0, time.UTC)

	t.Run("inline announcement lists players on the pitch", func(t *testing.T) {
		h := newHarness(t, false)
		state, err := h.pitch.Update(ctx, pitch.Update{
			ScheduledAt:   pitch.Value(opensAt),
			ActivePlayers: []pitch.SlotAssignment{{SlotID: "slot-0", PlayerID: "ada"}},
		})
		require.NoError(t, err)

		require.NoError(t, h.p.PitchScheduled(ctx, state, false))

		require.Len(t, h.notif.SendPitchScheduleCalls, 1)
		sched := h.notif.SendPitchScheduleCalls[0].Schedule
		assert.Equal(t, opensAt, sched.ScheduledAt)
		assert.Equal(t, "5v5", sched.MatchType)
		assert.Equal(t, []string{"Ada"}, sched.Players)
	})

	t.Run("published when pubsub is configured", func(t *testing.T) {
		h := newHarness(t, true)
		state, err := h.pitch.Update(ctx, pitch.Update{ScheduledAt: pitch.Value(opensAt)})
		require.NoError(t, err)

		require.NoError(t, h.p.PitchScheduled(ctx, state, false))

		assert.Empty(t, h.notif.SendPitchScheduleCalls)
		require.Len(t, h.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventPitchScheduled, h.pubsub.SendMessageCalls[0].Topic)
	})

	t.Run("no schedule is a no-op", func(t *testing.T) {
		h := newHarness(t, false)
		state := pitch.DefaultState()
		require.NoError(t, h.p.PitchScheduled(ctx, &state, false))
		assert.Empty(t, h.notif.SendPitchScheduleCalls)
	})

	t.Run("stale events are dropped", func(t *testing.T) {
		h := newHarness(t, false)
		_, err := h.pitch.Update(ctx, pitch.Update{ScheduledAt: pitch.Value(opensAt.Add(time.Hour))})
		require.NoError(t, err)

		err = h.p.NotifyPitchSchedule(ctx, pubsub.PitchScheduled{ScheduledAt: opensAt, MatchType: "5v5"}, false)
		require.NoError(t, err)
		assert.Empty(t, h.notif.SendPitchScheduleCalls)
	})
}

func TestProcessor_PostLeaderboard(t *testing.T) {
	h := newHarness(t, false)
	h.matches.AddMatch(matches.Match{ID: "m1", Date: "2025-05-01", TeamAPlayers: []string{"ada"}},
		confirmedGoal("g1", "ada", "Ada", pitch.TeamA))

	require.NoError(t, h.p.PostLeaderboard(context.Background(), false))

	require.Len(t, h.notif.SendLeaderboardCalls, 1)
	top := h.notif.SendLeaderboardCalls[0]
	require.NotEmpty(t, top)
	assert.Equal(t, "Ada", top[0].PlayerName)
	assert.Equal(t, 1, top[0].TotalGoals)
}
