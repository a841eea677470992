package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/roster"
)

const (
	CookieName = "session_id"
	DefaultTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid player or password")
	ErrNoSession          = errors.New("no valid session")
)

type service struct {
	db     *sql.DB
	roster roster.RosterStore
	clock  clock.Clock
	ttl    time.Duration
}

// Session is an issued login token.
type Session struct {
	Token     string
	PlayerID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Viewer    Viewer
}

// Viewer is the player behind a session.
type Viewer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}
