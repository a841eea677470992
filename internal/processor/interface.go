package processor

import (
	"context"

	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/notifier"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/mauv0809/pitchboard/internal/stats"
)

// MatchStore defines the match operations required by the processor.
type MatchStore interface {
	GetMatch(ctx context.Context, id string) (*matches.MatchWithGoals, error)
	GetMatchesForAnnouncement(ctx context.Context) ([]*matches.Match, error)
	UpdateAnnouncementStatus(ctx context.Context, id string, status matches.AnnouncementStatus) error
}

// PlayerStore resolves player ids to names.
type PlayerStore interface {
	GetPlayers(ctx context.Context, ids []string) ([]roster.Player, error)
}

// PitchStore reads the shared pitch.
type PitchStore interface {
	Get(ctx context.Context) (*pitch.State, error)
}

// StatsSource builds the leaderboard.
type StatsSource interface {
	Report(ctx context.Context) (*stats.Report, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
