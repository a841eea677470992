package pitch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MatchType is the pitch format, e.g. "5v5".
type MatchType string

const (
	MatchType5v5   MatchType = "5v5"
	MatchType6v6   MatchType = "6v6"
	MatchType7v7   MatchType = "7v7"
	MatchType8v8   MatchType = "8v8"
	MatchType9v9   MatchType = "9v9"
	MatchType10v10 MatchType = "10v10"
	MatchType11v11 MatchType = "11v11"
)

// DefaultMatchType is used when no pitch state has been stored yet.
const DefaultMatchType = MatchType5v5

// Layout describes the slots available for a match type.
type Layout struct {
	MatchType      MatchType
	PlayersPerTeam int
	TotalSlots     int
	BenchSlots     int // per team
}

var layouts = map[MatchType]Layout{}

func init() {
	for n, mt := range []MatchType{MatchType5v5, MatchType6v6, MatchType7v7, MatchType8v8, MatchType9v9, MatchType10v10, MatchType11v11} {
		perTeam := n + 5
		layouts[mt] = Layout{
			MatchType:      mt,
			PlayersPerTeam: perTeam,
			TotalSlots:     perTeam * 2,
			BenchSlots:     perTeam - 2,
		}
	}
}

func (mt MatchType) Valid() bool {
	_, ok := layouts[mt]
	return ok
}

// LayoutFor returns the slot layout of a match type.
func LayoutFor(mt MatchType) (Layout, error) {
	l, ok := layouts[mt]
	if !ok {
		return Layout{}, fmt.Errorf("unknown match type %q", mt)
	}
	return l, nil
}

// Team is one side of the pitch.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

const (
	startingPrefix = "slot-"
	benchPrefix    = "bench-"
)

// Slot is a parsed slot id. Starting slots are zero based, bench slots one based.
type Slot struct {
	Bench bool
	Index int
	Team  Team // set for bench slots only
}

// ParseSlot parses "slot-<i>" and "bench-<A|B>-<n>".
func ParseSlot(id string) (Slot, error) {
	switch {
	case strings.HasPrefix(id, startingPrefix):
		i, err := strconv.Atoi(strings.TrimPrefix(id, startingPrefix))
		if err != nil || i < 0 {
			return Slot{}, fmt.Errorf("invalid slot id %q", id)
		}
		return Slot{Index: i}, nil
	case strings.HasPrefix(id, benchPrefix):
		team, num, ok := strings.Cut(strings.TrimPrefix(id, benchPrefix), "-")
		n, err := strconv.Atoi(num)
		if !ok || !Team(team).Valid() || err != nil || n < 1 {
			return Slot{}, fmt.Errorf("invalid slot id %q", id)
		}
		return Slot{Bench: true, Index: n, Team: Team(team)}, nil
	}
	return Slot{}, fmt.Errorf("invalid slot id %q", id)
}

func (s Slot) ID() string {
	if s.Bench {
		return BenchSlotID(s.Team, s.Index)
	}
	return StartingSlotID(s.Index)
}

// TeamIn returns the side the slot belongs to under layout l.
func (s Slot) TeamIn(l Layout) Team {
	if s.Bench {
		return s.Team
	}
	if s.Index < l.PlayersPerTeam {
		return TeamA
	}
	return TeamB
}

// Fits reports whether the slot exists in layout l.
func (s Slot) Fits(l Layout) bool {
	if s.Bench {
		return s.Index <= l.BenchSlots
	}
	return s.Index < l.TotalSlots
}

func StartingSlotID(i int) string {
	return startingPrefix + strconv.Itoa(i)
}

func BenchSlotID(team Team, n int) string {
	return fmt.Sprintf("%s%s-%d", benchPrefix, team, n)
}

// StartingSlots lists the starting slot ids of a team in order.
func (l Layout) StartingSlots(team Team) []string {
	start := 0
	if team == TeamB {
		start = l.PlayersPerTeam
	}
	ids := make([]string, 0, l.PlayersPerTeam)
	for i := start; i < start+l.PlayersPerTeam; i++ {
		ids = append(ids, StartingSlotID(i))
	}
	return ids
}

// BenchSlotIDs lists the bench slot ids of a team in order.
func (l Layout) BenchSlotIDs(team Team) []string {
	ids := make([]string, 0, l.BenchSlots)
	for n := 1; n <= l.BenchSlots; n++ {
		ids = append(ids, BenchSlotID(team, n))
	}
	return ids
}

var (
	ErrNotScheduledYet = errors.New("the pitch opens at the scheduled time")
	ErrPitchInactive   = errors.New("the pitch is not open for joining")
)

// CanJoin applies the join gate: admins always may join; with a schedule,
// joining opens at the scheduled time; without one, the active flag decides.
func CanJoin(s State, now time.Time, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if s.ScheduledAt != nil {
		if now.Before(*s.ScheduledAt) {
			return ErrNotScheduledYet
		}
		return nil
	}
	if !s.IsActive {
		return ErrPitchInactive
	}
	return nil
}
