package stats

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/roster"
)

// New creates an Aggregator reading from the roster and match stores.
func New(rosterStore roster.RosterStore, matchStore matches.MatchStore) Aggregator {
	return &service{
		roster:  rosterStore,
		matches: matchStore,
	}
}

// Report computes player statistics, match totals and the leaderboards.
func (s *service) Report(ctx context.Context) (*Report, error) {
	players, list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	playerStats := aggregatePlayers(players, list)
	return &Report{
		Players:      playerStats,
		Matches:      aggregateMatches(list),
		Leaderboards: buildLeaderboards(playerStats),
	}, nil
}

// ForPlayer returns the statistics of one player.
func (s *service) ForPlayer(ctx context.Context, playerID string) (*PlayerStats, error) {
	players, list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range aggregatePlayers(players, list) {
		if st.PlayerID == playerID {
			return &st, nil
		}
	}
	return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
}

func (s *service) load(ctx context.Context) ([]roster.Player, []matches.MatchWithGoals, error) {
	players, err := s.roster.ListPlayers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load players: %w", err)
	}
	list, err := s.matches.ListMatches(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load matches: %w", err)
	}
	return players, list, nil
}

// aggregatePlayers counts appearances and confirmed goals. A goal only counts
// for a player who is listed on one of the match's teams.
func aggregatePlayers(players []roster.Player, list []matches.MatchWithGoals) []PlayerStats {
	byID := make(map[string]*PlayerStats, len(players))
	out := make([]PlayerStats, len(players))
	for i, p := range players {
		out[i] = PlayerStats{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Position:   p.PositionPreference,
			PhotoURL:   p.PhotoURL,
		}
		byID[p.ID] = &out[i]
	}

	for _, m := range list {
		playedAt, err := m.PlayedAt()
		if err != nil {
			log.Warn("Skipping unparseable match date", "matchID", m.ID, "date", m.Date)
		}

		confirmed := make(map[string]int)
		for _, g := range m.Goals {
			if g.IsConfirmed {
				confirmed[g.PlayerID]++
			}
		}

		seen := make(map[string]bool)
		for _, id := range slices.Concat(m.TeamAPlayers, m.TeamBPlayers) {
			st, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			st.TotalMatches++
			st.TotalGoals += confirmed[id]
			if err == nil && (st.LastMatchDate == nil || playedAt.After(*st.LastMatchDate)) {
				t := playedAt
				st.LastMatchDate = &t
			}
		}
	}

	for i := range out {
		if out[i].TotalMatches > 0 {
			out[i].GoalsPerMatch = float64(out[i].TotalGoals) / float64(out[i].TotalMatches)
		}
	}
	slices.SortStableFunc(out, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.TotalGoals, a.TotalGoals); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalMatches, a.TotalMatches); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.PlayerName), strings.ToLower(b.PlayerName))
	})
	return out
}

func aggregateMatches(list []matches.MatchWithGoals) MatchStats {
	var ms MatchStats
	for _, m := range list {
		ms.TotalMatches++
		ms.TotalGoals += m.TeamAScore + m.TeamBScore
		switch {
		case m.TeamAScore > m.TeamBScore:
			ms.TeamAWins++
		case m.TeamBScore > m.TeamAScore:
			ms.TeamBWins++
		default:
			ms.Draws++
		}
	}
	if ms.TotalMatches > 0 {
		ms.AvgGoalsPerMatch = float64(ms.TotalGoals) / float64(ms.TotalMatches)
	}
	return ms
}

// buildLeaderboards expects players already in report order, which breaks ties.
func buildLeaderboards(players []PlayerStats) Leaderboards {
	top := func(list []PlayerStats, less func(a, b PlayerStats) int) []PlayerStats {
		sorted := slices.Clone(list)
		slices.SortStableFunc(sorted, less)
		if len(sorted) > leaderboardSize {
			sorted = sorted[:leaderboardSize]
		}
		if sorted == nil {
			sorted = []PlayerStats{}
		}
		return sorted
	}

	var eligible []PlayerStats
	for _, p := range players {
		if p.TotalMatches >= minMatchesForRatio {
			eligible = append(eligible, p)
		}
	}

	return Leaderboards{
		TopScorers: top(players, func(a, b PlayerStats) int {
			return cmp.Compare(b.TotalGoals, a.TotalGoals)
		}),
		MostMatches: top(players, func(a, b PlayerStats) int {
			return cmp.Compare(b.TotalMatches, a.TotalMatches)
		}),
		MostEfficient: top(eligible, func(a, b PlayerStats) int {
			return cmp.Compare(b.GoalsPerMatch, a.GoalsPerMatch)
		}),
	}
}
