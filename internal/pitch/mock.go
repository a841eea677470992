package pitch

import (
	"context"
	"sync"

	"github.com/itbasis/go-clock"
)

var _ PitchStore = (*Mock)(nil)

// Mock is an in-memory PitchStore with the same versioning rules as the
// database store. It is safe for concurrent use.
type Mock struct {
	mu    sync.Mutex
	clock clock.Clock
	state State

	// Spies for method calls
	GetFunc    func(ctx context.Context) (*State, error)
	UpdateFunc func(ctx context.Context, upd Update) (*State, error)
	ClearFunc  func(ctx context.Context) (*State, error)

	// Call records
	UpdateCalls []Update
	ClearCalls  int
}

// NewMock creates a new mock holding the default state.
func NewMock(clk clock.Clock) *Mock {
	return &Mock{clock: clk, state: DefaultState()}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = nil
	m.ClearCalls = 0
}

func (m *Mock) Get(ctx context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	s := m.snapshot()
	return &s, nil
}

func (m *Mock) Update(ctx context.Context, upd Update) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, upd)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, upd)
	}
	if err := upd.normalize(); err != nil {
		return nil, err
	}
	upd.apply(&m.state)
	m.bump()
	s := m.snapshot()
	return &s, nil
}

func (m *Mock) Clear(ctx context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.state.ActivePlayers = []SlotAssignment{}
	m.state.PlayerPositions = map[string]Position{}
	m.state.TeamAFormation = nil
	m.state.TeamBFormation = nil
	m.bump()
	s := m.snapshot()
	return &s, nil
}

func (m *Mock) bump() {
	m.state.Version++
	m.state.UpdatedAt = m.clock.Now().UTC()
}

func (m *Mock) snapshot() State {
	s := m.state
	s.ActivePlayers = append([]SlotAssignment{}, m.state.ActivePlayers...)
	s.PlayerPositions = make(map[string]Position, len(m.state.PlayerPositions))
	for k, v := range m.state.PlayerPositions {
		s.PlayerPositions[k] = v
	}
	return s
}
