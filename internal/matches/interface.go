package matches

import "context"

// MatchStore defines the interface for recorded matches and their goals.
type MatchStore interface {
	ListMatches(ctx context.Context) ([]MatchWithGoals, error)
	GetMatch(ctx context.Context, id string) (*MatchWithGoals, error)
	CreateMatch(ctx context.Context, in NewMatch) (*Match, error)
	UpdateMatch(ctx context.Context, id string, upd MatchUpdate) (*Match, error)
	DeleteMatch(ctx context.Context, id string) error

	ListGoals(ctx context.Context) ([]Goal, error)
	GetGoal(ctx context.Context, id string) (*Goal, error)
	CreateGoal(ctx context.Context, in NewGoal) (*Goal, error)
	UpdateGoal(ctx context.Context, id string, upd GoalUpdate) (*Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	GetMatchesForAnnouncement(ctx context.Context) ([]*Match, error)
	UpdateAnnouncementStatus(ctx context.Context, id string, status AnnouncementStatus) error
}
