package roster

import (
	"context"
	"fmt"
	"sync"
)

var _ RosterStore = (*MockStore)(nil)

// MockStore is a mock implementation of the RosterStore interface for testing.
// Unset spies fall back to an in-memory player map. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ListPlayersFunc      func(ctx context.Context) ([]Player, error)
	GetPlayerFunc        func(ctx context.Context, id string) (*Player, error)
	CreatePlayerFunc     func(ctx context.Context, in NewPlayer) (*Player, error)
	GetCredentialsFunc   func(ctx context.Context, id string) (*Credentials, error)
	SetPasswordFunc      func(ctx context.Context, id string, hash string) error
	GetSettingsFunc      func(ctx context.Context) (*Settings, error)
	UpdateMaxPlayersFunc func(ctx context.Context, max int) (*Settings, error)

	// Call records
	GetPlayersCalls  [][]string
	SetPasswordCalls []struct {
		PlayerID string
		Hash     string
	}

	players   map[string]Player
	passwords map[string]string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		players:   make(map[string]Player),
		passwords: make(map[string]string),
	}
}

// AddPlayer seeds the in-memory fallback.
func (m *MockStore) AddPlayer(p Player, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.HasPassword = password != ""
	m.players[p.ID] = p
	m.passwords[p.ID] = password
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = nil
	m.SetPasswordCalls = nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	out := make([]Player, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (m *MockStore) GetPlayers(ctx context.Context, ids []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, ids)
	out := []Player{}
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockStore) CreatePlayer(ctx context.Context, in NewPlayer) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(ctx, in)
	}
	p := Player{ID: fmt.Sprintf("player-%d", len(m.players)+1), Name: in.Name, PositionPreference: in.PositionPreference, IsAdmin: in.IsAdmin}
	m.players[p.ID] = p
	return &p, nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, id string, upd PlayerUpdate) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.PositionPreference != nil {
		p.PositionPreference = *upd.PositionPreference
	}
	if upd.IsAdmin != nil {
		p.IsAdmin = *upd.IsAdmin
	}
	m.players[id] = p
	return &p, nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	delete(m.players, id)
	return nil
}

func (m *MockStore) CountPlayers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players), nil
}

func (m *MockStore) GetCredentials(ctx context.Context, id string) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetCredentialsFunc != nil {
		return m.GetCredentialsFunc(ctx, id)
	}
	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return &Credentials{PlayerID: id, Password: m.passwords[id], IsAdmin: p.IsAdmin}, nil
}

func (m *MockStore) SetPassword(ctx context.Context, id string, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPasswordCalls = append(m.SetPasswordCalls, struct {
		PlayerID string
		Hash     string
	}{id, hash})
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(ctx, id, hash)
	}
	m.passwords[id] = hash
	return nil
}

func (m *MockStore) GetSettings(ctx context.Context) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(ctx)
	}
	return &Settings{MaxPlayers: DefaultMaxPlayers, PlayerCount: len(m.players)}, nil
}

func (m *MockStore) UpdateMaxPlayers(ctx context.Context, max int) (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateMaxPlayersFunc != nil {
		return m.UpdateMaxPlayersFunc(ctx, max)
	}
	return &Settings{MaxPlayers: max, PlayerCount: len(m.players)}, nil
}
