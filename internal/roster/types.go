package roster

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
)

// DefaultMaxPlayers applies when the settings row is missing.
const DefaultMaxPlayers = 50

const maxPlayersKey = "max_players"

var ErrNotFound = apperr.ErrNotFound

// store handles all database operations for the roster.
type store struct {
	db    *sql.DB
	clock clock.Clock
	mu    sync.RWMutex
}

// Position is a player's preferred position on the pitch.
type Position string

const (
	PositionForward    Position = "forward"
	PositionMidfielder Position = "midfielder"
	PositionDefender   Position = "defender"
	PositionGoalkeeper Position = "goalkeeper"
	PositionAny        Position = "any"
)

func (p Position) Valid() bool {
	switch p {
	case PositionForward, PositionMidfielder, PositionDefender, PositionGoalkeeper, PositionAny:
		return true
	}
	return false
}

// Player is a registered participant. The stored password never leaves the store
// through this type; HasPassword tells whether one is set.
type Player struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	PositionPreference Position  `json:"positionPreference"`
	PhotoURL           *string   `json:"photoUrl"`
	IsAdmin            bool      `json:"isAdmin"`
	HasPassword        bool      `json:"hasPassword"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewPlayer is the input for CreatePlayer. Password must already be hashed.
type NewPlayer struct {
	Name               string
	PositionPreference Position
	PhotoURL           *string
	Password           *string
	IsAdmin            bool
}

// PlayerUpdate holds the fields to change; nil means unchanged. An empty
// PhotoURL clears the photo.
type PlayerUpdate struct {
	Name               *string
	PositionPreference *Position
	PhotoURL           *string
	IsAdmin            *bool
}

// Credentials is what the auth service needs to verify a login.
type Credentials struct {
	PlayerID string
	Password string
	IsAdmin  bool
}

// Settings is the roster configuration plus the current head count.
type Settings struct {
	MaxPlayers  int `json:"maxPlayers"`
	PlayerCount int `json:"playerCount"`
}

// LimitError is returned when the roster is full.
type LimitError struct {
	Max int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("Maximum number of players (%d) reached", e.Max)
}
