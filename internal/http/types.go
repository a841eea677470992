package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/config"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/pubsub"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/mauv0809/pitchboard/internal/stats"
	"github.com/unrolled/render"
)

// Announcer is the part of the match processor the API triggers.
type Announcer interface {
	ProcessMatches(ctx context.Context, dryRun bool)
	PitchScheduled(ctx context.Context, state *pitch.State, dryRun bool) error
	NotifyMatchResult(ctx context.Context, matchID string, dryRun bool) error
	NotifyPitchSchedule(ctx context.Context, evt pubsub.PitchScheduled, dryRun bool) error
}

// Deps holds everything the server needs. Announcer and PubSub may be nil.
type Deps struct {
	Roster         roster.RosterStore
	Pitch          pitch.PitchStore
	Matches        matches.MatchStore
	Stats          stats.Aggregator
	Auth           auth.Authenticator
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Announcer      Announcer
	PubSub         pubsub.PubSubClient
	Cfg            config.Config
}

type Server struct {
	Roster         roster.RosterStore
	Pitch          pitch.PitchStore
	Matches        matches.MatchStore
	Stats          stats.Aggregator
	Auth           auth.Authenticator
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Announcer      Announcer
	Cfg            config.Config
	Router         *chi.Mux
	pubsub         pubsub.PubSubClient
	render         *render.Render
}

// errorResponse is the body of every 4xx and 5xx reply.
type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type loginRequest struct {
	PlayerID string `json:"playerId"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Player  *auth.Viewer `json:"player"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Player        *auth.Viewer `json:"player,omitempty"`
}

type createPlayerRequest struct {
	Name               string          `json:"name"`
	PositionPreference roster.Position `json:"positionPreference"`
	PhotoURL           *string         `json:"photoUrl"`
	Password           *string         `json:"password"`
	IsAdmin            bool            `json:"isAdmin"`
}

type updatePlayerRequest struct {
	Name               *string          `json:"name"`
	PositionPreference *roster.Position `json:"positionPreference"`
	PhotoURL           *string          `json:"photoUrl"`
	Password           *string          `json:"password"`
	IsAdmin            *bool            `json:"isAdmin"`
}

type matchRequest struct {
	Date           *string          `json:"date"`
	MatchType      *pitch.MatchType `json:"matchType"`
	TeamAScore     *int             `json:"teamAScore"`
	TeamBScore     *int             `json:"teamBScore"`
	TeamAFormation *string          `json:"teamAFormation"`
	TeamBFormation *string          `json:"teamBFormation"`
	TeamAPlayers   []string         `json:"teamAPlayers"`
	TeamBPlayers   []string         `json:"teamBPlayers"`
	Notes          *string          `json:"notes"`
}

type matchResponse struct {
	Match matches.Match            `json:"match"`
	Goals []matches.GoalWithPlayer `json:"goals"`
}

type createGoalRequest struct {
	PlayerID    string     `json:"playerId"`
	Minute      *int       `json:"minute"`
	Team        pitch.Team `json:"team"`
	IsConfirmed bool       `json:"isConfirmed"`
	VideoURL    *string    `json:"videoUrl"`
}

type updateGoalRequest struct {
	Minute      *int    `json:"minute"`
	IsConfirmed *bool   `json:"isConfirmed"`
	VideoURL    *string `json:"videoUrl"`
}

type pitchActionRequest struct {
	Action string `json:"action"`
}

type settingsRequest struct {
	MaxPlayers *int `json:"maxPlayers"`
}

// pushEnvelope is the body Pub/Sub push subscriptions POST.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}
