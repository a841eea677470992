package pitch

import (
	"database/sql"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
)

const currentID = "current"

// store handles all database operations for the pitch state.
type store struct {
	db    *sql.DB
	clock clock.Clock
	mu    sync.RWMutex
}

// SlotAssignment places a player in a slot.
type SlotAssignment struct {
	SlotID   string `json:"slotId"`
	PlayerID string `json:"playerId"`
}

// Position is a legacy free-form coordinate on the pitch.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the shared pitch everyone polls.
type State struct {
	MatchType       MatchType           `json:"matchType"`
	ActivePlayers   []SlotAssignment    `json:"activePlayers"`
	TeamAFormation  *string             `json:"teamAFormation"`
	TeamBFormation  *string             `json:"teamBFormation"`
	ScheduledAt     *time.Time          `json:"scheduledAt"`
	IsActive        bool                `json:"isActive"`
	PlayerPositions map[string]Position `json:"playerPositions"`
	Version         int64               `json:"version"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// DefaultState is returned when no row exists yet.
func DefaultState() State {
	return State{
		MatchType:       DefaultMatchType,
		ActivePlayers:   []SlotAssignment{},
		PlayerPositions: map[string]Position{},
	}
}

// Cursor identifies how fresh a state is.
func (s State) Cursor() Cursor {
	return Cursor{Version: s.Version, UpdatedAt: s.UpdatedAt}
}

// Cursor orders pitch states. The version decides; the timestamp only breaks
// ties between states with the same version.
type Cursor struct {
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Before reports whether c is older than o.
func (c Cursor) Before(o Cursor) bool {
	if c.Version != o.Version {
		return c.Version < o.Version
	}
	return c.UpdatedAt.Before(o.UpdatedAt)
}

// Update is a partial write. Nil slices, nil maps and nil pointers leave the
// field unchanged; Nullable fields may also clear it.
type Update struct {
	MatchType       *MatchType          `json:"matchType,omitempty"`
	ActivePlayers   []SlotAssignment    `json:"activePlayers,omitzero"`
	TeamAFormation  Nullable[string]    `json:"teamAFormation,omitzero"`
	TeamBFormation  Nullable[string]    `json:"teamBFormation,omitzero"`
	ScheduledAt     Nullable[time.Time] `json:"scheduledAt,omitzero"`
	IsActive        *bool               `json:"isActive,omitempty"`
	PlayerPositions map[string]Position `json:"playerPositions,omitzero"`
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.MatchType == nil && u.ActivePlayers == nil && !u.TeamAFormation.Set &&
		!u.TeamBFormation.Set && !u.ScheduledAt.Set && u.IsActive == nil && u.PlayerPositions == nil
}

// normalize validates the update and collapses duplicate slot ids, keeping the
// last assignment for each slot.
func (u *Update) normalize() error {
	if u.MatchType != nil && !u.MatchType.Valid() {
		return apperr.Invalid("Unknown match type %q", *u.MatchType)
	}
	if u.ActivePlayers == nil {
		return nil
	}
	index := make(map[string]int, len(u.ActivePlayers))
	out := make([]SlotAssignment, 0, len(u.ActivePlayers))
	for _, a := range u.ActivePlayers {
		if _, err := ParseSlot(a.SlotID); err != nil {
			return apperr.Invalid("Invalid slot id %q", a.SlotID)
		}
		if a.PlayerID == "" {
			return apperr.Invalid("Slot %s has no player", a.SlotID)
		}
		if i, ok := index[a.SlotID]; ok {
			out[i] = a
			continue
		}
		index[a.SlotID] = len(out)
		out = append(out, a)
	}
	u.ActivePlayers = out
	return nil
}

// apply writes the update onto s in memory.
func (u Update) apply(s *State) {
	if u.MatchType != nil {
		s.MatchType = *u.MatchType
	}
	if u.ActivePlayers != nil {
		s.ActivePlayers = append([]SlotAssignment{}, u.ActivePlayers...)
	}
	if u.TeamAFormation.Set {
		s.TeamAFormation = u.TeamAFormation.Ptr()
	}
	if u.TeamBFormation.Set {
		s.TeamBFormation = u.TeamBFormation.Ptr()
	}
	if u.ScheduledAt.Set {
		s.ScheduledAt = u.ScheduledAt.Ptr()
	}
	if u.IsActive != nil {
		s.IsActive = *u.IsActive
	}
	if u.PlayerPositions != nil {
		s.PlayerPositions = make(map[string]Position, len(u.PlayerPositions))
		for k, v := range u.PlayerPositions {
			s.PlayerPositions[k] = v
		}
	}
}
