package notifier

import (
	"time"

	"github.com/mauv0809/pitchboard/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchResult(result *MatchResult, dryRun bool) error
	// For a newly scheduled pitch
	SendPitchSchedule(schedule *PitchSchedule, dryRun bool) error
	// For the periodic leaderboard post
	SendLeaderboard(players []stats.PlayerStats, dryRun bool) error
}

// MatchResult is a recorded match resolved to player names.
type MatchResult struct {
	MatchID    string
	Date       time.Time
	MatchType  string
	TeamAScore int
	TeamBScore int
	TeamA      []string
	TeamB      []string
	Scorers    []Scorer
	Notes      string
}

// Scorer is a player with their confirmed goals in one match.
type Scorer struct {
	Name  string
	Team  string
	Goals int
}

// PitchSchedule announces when the pitch opens for joining.
type PitchSchedule struct {
	MatchType   string
	ScheduledAt time.Time
	Players     []string
}
