package stats

import (
	"time"

	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/roster"
)

var ErrNotFound = apperr.ErrNotFound

const (
	leaderboardSize    = 10
	minMatchesForRatio = 3
)

type service struct {
	roster  roster.RosterStore
	matches matches.MatchStore
}

// PlayerStats represents a player's statistics for the leaderboard.
type PlayerStats struct {
	PlayerID      string          `json:"playerId"`
	PlayerName    string          `json:"playerName"`
	Position      roster.Position `json:"position"`
	PhotoURL      *string         `json:"photoUrl"`
	TotalGoals    int             `json:"totalGoals"`
	TotalMatches  int             `json:"totalMatches"`
	GoalsPerMatch float64         `json:"goalsPerMatch"`
	LastMatchDate *time.Time      `json:"lastMatchDate"`
}

// MatchStats summarises every recorded result.
type MatchStats struct {
	TotalMatches     int     `json:"totalMatches"`
	TotalGoals       int     `json:"totalGoals"`
	AvgGoalsPerMatch float64 `json:"avgGoalsPerMatch"`
	TeamAWins        int     `json:"teamAWins"`
	TeamBWins        int     `json:"teamBWins"`
	Draws            int     `json:"draws"`
}

type Leaderboards struct {
	TopScorers    []PlayerStats `json:"topScorers"`
	MostMatches   []PlayerStats `json:"mostMatches"`
	MostEfficient []PlayerStats `json:"mostEfficient"`
}

// Report is the full statistics payload.
type Report struct {
	Players      []PlayerStats `json:"players"`
	Matches      MatchStats    `json:"matches"`
	Leaderboards Leaderboards  `json:"leaderboards"`
}
