package pitchclient

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
)

const (
	PollInterval  = 3 * time.Second
	DebounceDelay = 300 * time.Millisecond
	syncTimeout   = 10 * time.Second
)

var (
	ErrUnknownSlot    = errors.New("slot does not exist for this match type")
	ErrSlotTaken      = errors.New("slot is already taken")
	ErrAlreadyOnPitch = errors.New("player already holds a slot")
	ErrEmptySlot      = errors.New("slot is empty")
)

// Controller keeps a local copy of the shared pitch, pushes local edits after
// a quiet period and pulls newer server state on a fixed interval.
type Controller struct {
	api   API
	clock clock.Clock

	mu              sync.Mutex
	matchType       pitch.MatchType
	slots           map[string]roster.Player
	pool            []roster.Player
	scheduledAt     *time.Time
	isActive        bool
	formationA      *string
	formationB      *string
	formationsDirty bool
	positions       map[string]pitch.Position
	cursor          pitch.Cursor
	applied         uint64 // bumped by every applyState
	pending         *clock.Timer
	dirty           bool
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	MatchType      pitch.MatchType
	Slots          map[string]roster.Player
	Pool           []roster.Player
	ScheduledAt    *time.Time
	IsActive       bool
	TeamAFormation *string
	TeamBFormation *string
	Positions      map[string]pitch.Position
	Cursor         pitch.Cursor
}

// Client is the HTTP implementation of API plus the calls the CLI needs.
type Client struct {
	baseURL string
	http    *http.Client
}

type apiError struct {
	Error string `json:"error"`
}
