package matches

import (
	"context"
	"fmt"
	"sync"
)

var _ MatchStore = (*MockStore)(nil)

// MockStore is a mock implementation of the MatchStore interface for testing.
// Matches and goals live in memory unless a spy is set.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchesForAnnouncementFunc func(ctx context.Context) ([]*Match, error)
	UpdateAnnouncementStatusFunc  func(ctx context.Context, id string, status AnnouncementStatus) error
	CreateGoalFunc                func(ctx context.Context, in NewGoal) (*Goal, error)

	// Call records
	UpdateAnnouncementStatusCalls []struct {
		MatchID string
		Status  AnnouncementStatus
	}
	CreateGoalCalls []NewGoal
	UpdateGoalCalls []struct {
		GoalID string
		Update GoalUpdate
	}

	matches []Match
	goals   []GoalWithPlayer
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// AddMatch seeds a match and its goals.
func (m *MockStore) AddMatch(match Match, goals ...GoalWithPlayer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match.AnnouncementStatus == "" {
		match.AnnouncementStatus = StatusNew
	}
	m.matches = append(m.matches, match)
	for _, g := range goals {
		g.MatchID = match.ID
		m.goals = append(m.goals, g)
	}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateAnnouncementStatusCalls = nil
	m.CreateGoalCalls = nil
	m.UpdateGoalCalls = nil
}

func (m *MockStore) withGoals(match Match) MatchWithGoals {
	out := MatchWithGoals{Match: match, Goals: []GoalWithPlayer{}}
	for _, g := range m.goals {
		if g.MatchID == match.ID {
			out.Goals = append(out.Goals, g)
		}
	}
	return out
}

func (m *MockStore) find(id string) int {
	for i, match := range m.matches {
		if match.ID == id {
			return i
		}
	}
	return -1
}

func (m *MockStore) findGoal(id string) int {
	for i, g := range m.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (m *MockStore) ListMatches(ctx context.Context) ([]MatchWithGoals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MatchWithGoals, 0, len(m.matches))
	for _, match := range m.matches {
		out = append(out, m.withGoals(match))
	}
	return out, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (*MatchWithGoals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	out := m.withGoals(m.matches[i])
	return &out, nil
}

func (m *MockStore) CreateMatch(ctx context.Context, in NewMatch) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match := Match{
		ID:                 fmt.Sprintf("match-%d", len(m.matches)+1),
		Date:               in.Date,
		MatchType:          in.MatchType,
		TeamAScore:         in.TeamAScore,
		TeamBScore:         in.TeamBScore,
		TeamAFormation:     in.TeamAFormation,
		TeamBFormation:     in.TeamBFormation,
		TeamAPlayers:       in.TeamAPlayers,
		TeamBPlayers:       in.TeamBPlayers,
		Notes:              in.Notes,
		AnnouncementStatus: StatusNew,
	}
	m.matches = append(m.matches, match)
	return &match, nil
}

func (m *MockStore) UpdateMatch(ctx context.Context, id string, upd MatchUpdate) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	match := &m.matches[i]
	if upd.Date != nil {
		match.Date = *upd.Date
	}
	if upd.TeamAScore != nil {
		match.TeamAScore = *upd.TeamAScore
	}
	if upd.TeamBScore != nil {
		match.TeamBScore = *upd.TeamBScore
	}
	if upd.Notes != nil {
		match.Notes = upd.Notes
	}
	out := *match
	return &out, nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	m.matches = append(m.matches[:i], m.matches[i+1:]...)
	kept := m.goals[:0]
	for _, g := range m.goals {
		if g.MatchID != id {
			kept = append(kept, g)
		}
	}
	m.goals = kept
	return nil
}

func (m *MockStore) ListGoals(ctx context.Context) ([]Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Goal, 0, len(m.goals))
	for _, g := range m.goals {
		out = append(out, g.Goal)
	}
	return out, nil
}

func (m *MockStore) GetGoal(ctx context.Context, id string) (*Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findGoal(id)
	if i < 0 {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	g := m.goals[i].Goal
	return &g, nil
}

func (m *MockStore) CreateGoal(ctx context.Context, in NewGoal) (*Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGoalCalls = append(m.CreateGoalCalls, in)
	if m.CreateGoalFunc != nil {
		return m.CreateGoalFunc(ctx, in)
	}
	if m.find(in.MatchID) < 0 {
		return nil, fmt.Errorf("match %s: %w", in.MatchID, ErrNotFound)
	}
	g := Goal{
		ID:          fmt.Sprintf("goal-%d", len(m.goals)+1),
		MatchID:     in.MatchID,
		PlayerID:    in.PlayerID,
		Minute:      in.Minute,
		Team:        in.Team,
		IsConfirmed: in.IsConfirmed,
		VideoURL:    in.VideoURL,
	}
	m.goals = append(m.goals, GoalWithPlayer{Goal: g})
	return &g, nil
}

func (m *MockStore) UpdateGoal(ctx context.Context, id string, upd GoalUpdate) (*Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateGoalCalls = append(m.UpdateGoalCalls, struct {
		GoalID string
		Update GoalUpdate
	}{id, upd})
	i := m.findGoal(id)
	if i < 0 {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	g := &m.goals[i].Goal
	if upd.Minute != nil {
		g.Minute = upd.Minute
	}
	if upd.IsConfirmed != nil {
		g.IsConfirmed = *upd.IsConfirmed
	}
	if upd.VideoURL != nil {
		g.VideoURL = upd.VideoURL
	}
	out := *g
	return &out, nil
}

func (m *MockStore) DeleteGoal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findGoal(id)
	if i < 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	m.goals = append(m.goals[:i], m.goals[i+1:]...)
	return nil
}

func (m *MockStore) GetMatchesForAnnouncement(ctx context.Context) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForAnnouncementFunc != nil {
		return m.GetMatchesForAnnouncementFunc(ctx)
	}
	var out []*Match
	for i := range m.matches {
		if m.matches[i].AnnouncementStatus != StatusCompleted {
			match := m.matches[i]
			out = append(out, &match)
		}
	}
	return out, nil
}

func (m *MockStore) UpdateAnnouncementStatus(ctx context.Context, id string, status AnnouncementStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateAnnouncementStatusCalls = append(m.UpdateAnnouncementStatusCalls, struct {
		MatchID string
		Status  AnnouncementStatus
	}{id, status})
	if m.UpdateAnnouncementStatusFunc != nil {
		return m.UpdateAnnouncementStatusFunc(ctx, id, status)
	}
	if i := m.find(id); i >= 0 {
		m.matches[i].AnnouncementStatus = status
	}
	return nil
}
