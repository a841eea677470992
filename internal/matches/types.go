package matches

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/pitch"
)

var ErrNotFound = apperr.ErrNotFound

// store handles all database operations for matches and goals.
type store struct {
	db    *sql.DB
	clock clock.Clock
	mu    sync.RWMutex
}

// AnnouncementStatus tracks whether a recorded match has been announced.
type AnnouncementStatus string

const (
	StatusNew            AnnouncementStatus = "NEW"
	StatusResultNotified AnnouncementStatus = "RESULT_NOTIFIED"
	StatusCompleted      AnnouncementStatus = "COMPLETED"
)

// Match is a recorded game with its final score.
type Match struct {
	ID                 string             `json:"id" msgpack:"id"`
	Date               string             `json:"date" msgpack:"date"`
	MatchType          pitch.MatchType    `json:"matchType" msgpack:"matchType"`
	TeamAScore         int                `json:"teamAScore" msgpack:"teamAScore"`
	TeamBScore         int                `json:"teamBScore" msgpack:"teamBScore"`
	TeamAFormation     *string            `json:"teamAFormation" msgpack:"teamAFormation"`
	TeamBFormation     *string            `json:"teamBFormation" msgpack:"teamBFormation"`
	TeamAPlayers       []string           `json:"teamAPlayers" msgpack:"teamAPlayers"`
	TeamBPlayers       []string           `json:"teamBPlayers" msgpack:"teamBPlayers"`
	Notes              *string            `json:"notes" msgpack:"notes"`
	AnnouncementStatus AnnouncementStatus `json:"announcementStatus" msgpack:"announcementStatus"`
	CreatedAt          time.Time          `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" msgpack:"updatedAt"`
}

// PlayedAt parses the match date. Plain dates and RFC 3339 timestamps are accepted.
func (m Match) PlayedAt() (time.Time, error) {
	return parseDate(m.Date)
}

// HasPlayer reports whether the player appeared on either team.
func (m Match) HasPlayer(playerID string) bool {
	for _, id := range m.TeamAPlayers {
		if id == playerID {
			return true
		}
	}
	for _, id := range m.TeamBPlayers {
		if id == playerID {
			return true
		}
	}
	return false
}

// MatchWithGoals is a match plus its goals, each carrying the scorer's name.
type MatchWithGoals struct {
	Match
	Goals []GoalWithPlayer `json:"goals"`
}

// Goal is a single scoring event. Only confirmed goals count toward statistics.
type Goal struct {
	ID          string     `json:"id"`
	MatchID     string     `json:"matchId"`
	PlayerID    string     `json:"playerId"`
	Minute      *int       `json:"minute"`
	Team        pitch.Team `json:"team"`
	IsConfirmed bool       `json:"isConfirmed"`
	VideoURL    *string    `json:"videoUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type GoalWithPlayer struct {
	Goal
	PlayerName string `json:"playerName"`
}

// NewMatch is the input for CreateMatch.
type NewMatch struct {
	Date           string
	MatchType      pitch.MatchType
	TeamAScore     int
	TeamBScore     int
	TeamAFormation *string
	TeamBFormation *string
	TeamAPlayers   []string
	TeamBPlayers   []string
	Notes          *string
}

// MatchUpdate holds the fields to change; nil means unchanged. Empty strings
// clear the optional text fields.
type MatchUpdate struct {
	Date           *string
	MatchType      *pitch.MatchType
	TeamAScore     *int
	TeamBScore     *int
	TeamAFormation *string
	TeamBFormation *string
	TeamAPlayers   []string
	TeamBPlayers   []string
	Notes          *string
}

// NewGoal is the input for CreateGoal.
type NewGoal struct {
	MatchID     string
	PlayerID    string
	Minute      *int
	Team        pitch.Team
	IsConfirmed bool
	VideoURL    *string
}

// GoalUpdate holds the fields to change; nil means unchanged.
type GoalUpdate struct {
	Minute      *int
	IsConfirmed *bool
	VideoURL    *string
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
