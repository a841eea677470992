package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/notifier"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/pubsub"
)

// New creates a new Processor. A nil pubsub client makes every announcement
// go out inline instead of through a topic.
func New(stores Stores, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, clk clock.Clock) *Processor {
	return &Processor{
		stores:   stores,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		clock:    clk,
	}
}

// ProcessMatches fetches matches that still need announcing and advances them through the state machine.
func (p *Processor) ProcessMatches(ctx context.Context, dryRun bool) {
	log.Info("Starting match processing...")
	list, err := p.stores.Matches.GetMatchesForAnnouncement(ctx)
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(list) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(list))
	for _, match := range list {
		startTime := p.clock.Now()
		p.processMatch(ctx, match, dryRun)
		p.metrics.IncMatchesProcessed()
		p.metrics.ObserveProcessingDuration(p.clock.Now().Sub(startTime).Seconds())
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(ctx context.Context, match *matches.Match, dryRun bool) {
	log.Info("Processing match", "matchID", match.ID, "initial_status", match.AnnouncementStatus)
	for {
		currentState := match.AnnouncementStatus
		log.Debug("Evaluating match state", "matchID", match.ID, "status", currentState)

		switch currentState {
		case matches.StatusNew:
			// Results entered long after the game are stored silently.
			playedAt, err := match.PlayedAt()
			if err != nil {
				playedAt = match.CreatedAt
			}
			if p.clock.Now().Sub(playedAt) > announceWindow {
				log.Info("Match is older than the announcement window. Setting match to completed.", "matchID", match.ID, "date", match.Date)
				p.updateStatus(ctx, match, matches.StatusCompleted, dryRun)
				break
			}
			if err := p.announceMatch(ctx, match, dryRun); err != nil {
				log.Error("Failed to announce match result", "error", err, "matchID", match.ID)
				return
			}
			p.updateStatus(ctx, match, matches.StatusResultNotified, dryRun)

		case matches.StatusResultNotified:
			log.Info("Match result has been notified. Marking match as complete.", "matchID", match.ID)
			p.updateStatus(ctx, match, matches.StatusCompleted, dryRun)

		case matches.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", match.ID)
			return

		default:
			log.Warn("Unknown announcement status", "status", currentState, "matchID", match.ID)
			return
		}

		// If the status hasn't changed, we're done with this match for now.
		if match.AnnouncementStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", match.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", match.ID, "final_status", match.AnnouncementStatus)
}

// announceMatch publishes the result when a topic is configured and sends it
// directly otherwise.
func (p *Processor) announceMatch(ctx context.Context, match *matches.Match, dryRun bool) error {
	if p.pubsub != nil && !dryRun {
		return p.pubsub.SendMessage(ctx, pubsub.EventMatchRecorded, pubsub.MatchRecorded{MatchID: match.ID})
	}
	return p.NotifyMatchResult(ctx, match.ID, dryRun)
}

// NotifyMatchResult sends the result of a stored match through the notifier.
func (p *Processor) NotifyMatchResult(ctx context.Context, matchID string, dryRun bool) error {
	m, err := p.stores.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	result, err := p.buildResult(ctx, m)
	if err != nil {
		return err
	}
	return p.notifier.SendMatchResult(result, dryRun)
}

func (p *Processor) buildResult(ctx context.Context, m *matches.MatchWithGoals) (*notifier.MatchResult, error) {
	ids := append(append([]string{}, m.TeamAPlayers...), m.TeamBPlayers...)
	names, err := p.playerNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	playedAt, err := m.PlayedAt()
	if err != nil {
		playedAt = m.CreatedAt
	}
	result := &notifier.MatchResult{
		MatchID:    m.ID,
		Date:       playedAt,
		MatchType:  string(m.MatchType),
		TeamAScore: m.TeamAScore,
		TeamBScore: m.TeamBScore,
		TeamA:      resolve(m.TeamAPlayers, names),
		TeamB:      resolve(m.TeamBPlayers, names),
	}
	if m.Notes != nil {
		result.Notes = *m.Notes
	}

	index := make(map[string]int)
	for _, g := range m.Goals {
		if !g.IsConfirmed {
			continue
		}
		if i, ok := index[g.PlayerID]; ok {
			result.Scorers[i].Goals++
			continue
		}
		index[g.PlayerID] = len(result.Scorers)
		result.Scorers = append(result.Scorers, notifier.Scorer{Name: g.PlayerName, Team: string(g.Team), Goals: 1})
	}
	return result, nil
}

// PitchScheduled announces a new opening time for the pitch.
func (p *Processor) PitchScheduled(ctx context.Context, state *pitch.State, dryRun bool) error {
	if state.ScheduledAt == nil {
		return nil
	}
	if p.pubsub != nil && !dryRun {
		return p.pubsub.SendMessage(ctx, pubsub.EventPitchScheduled, pubsub.PitchScheduled{
			ScheduledAt: *state.ScheduledAt,
			MatchType:   string(state.MatchType),
			Version:     state.Version,
		})
	}
	return p.NotifyPitchSchedule(ctx, pubsub.PitchScheduled{
		ScheduledAt: *state.ScheduledAt,
		MatchType:   string(state.MatchType),
		Version:     state.Version,
	}, dryRun)
}

// NotifyPitchSchedule sends the schedule message. Events superseded by a
// newer schedule are dropped.
func (p *Processor) NotifyPitchSchedule(ctx context.Context, evt pubsub.PitchScheduled, dryRun bool) error {
	state, err := p.stores.Pitch.Get(ctx)
	if err != nil {
		return fmt.Errorf("load pitch: %w", err)
	}
	if state.ScheduledAt == nil || !state.ScheduledAt.Equal(evt.ScheduledAt) {
		log.Info("Skipping stale pitch schedule event", "eventVersion", evt.Version, "currentVersion", state.Version)
		return nil
	}

	ids := make([]string, 0, len(state.ActivePlayers))
	for _, a := range state.ActivePlayers {
		ids = append(ids, a.PlayerID)
	}
	names, err := p.playerNames(ctx, ids)
	if err != nil {
		return err
	}
	return p.notifier.SendPitchSchedule(&notifier.PitchSchedule{
		MatchType:   evt.MatchType,
		ScheduledAt: evt.ScheduledAt,
		Players:     resolve(ids, names),
	}, dryRun)
}

// PostLeaderboard sends the current top scorers.
func (p *Processor) PostLeaderboard(ctx context.Context, dryRun bool) error {
	report, err := p.stores.Stats.Report(ctx)
	if err != nil {
		return fmt.Errorf("build stats: %w", err)
	}
	return p.notifier.SendLeaderboard(report.Leaderboards.TopScorers, dryRun)
}

func (p *Processor) playerNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	players, err := p.stores.Players.GetPlayers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	for _, pl := range players {
		names[pl.ID] = pl.Name
	}
	return names, nil
}

// resolve maps ids to names in order, dropping players that no longer exist.
func resolve(ids []string, names map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

func (p *Processor) updateStatus(ctx context.Context, match *matches.Match, newStatus matches.AnnouncementStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", match.ID, "from", match.AnnouncementStatus, "to", newStatus)
		match.AnnouncementStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.stores.Matches.UpdateAnnouncementStatus(ctx, match.ID, newStatus)
	if err != nil {
		log.Error("Failed to update announcement status", "error", err, "matchID", match.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", match.ID, "from", match.AnnouncementStatus, "to", newStatus)
		match.AnnouncementStatus = newStatus // Keep the in-memory object in sync
	}
}
