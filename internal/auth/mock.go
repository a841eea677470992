package auth

import (
	"context"
	"sync"
	"time"
)

var _ Authenticator = (*Mock)(nil)

// Mock is a mock implementation of the Authenticator interface for testing.
// Tokens registered with AddSession resolve to their viewer.
type Mock struct {
	mu sync.Mutex

	LoginFunc        func(ctx context.Context, playerID, password string) (*Session, error)
	PurgeExpiredFunc func(ctx context.Context) (int64, error)

	LoginCalls []struct {
		PlayerID string
		Password string
	}
	LogoutCalls       []string
	PurgeExpiredCalls int

	sessions map[string]Viewer
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{sessions: make(map[string]Viewer)}
}

// AddSession registers a token for a viewer.
func (m *Mock) AddSession(token string, v Viewer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = v
}

func (m *Mock) Login(ctx context.Context, playerID, password string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls = append(m.LoginCalls, struct {
		PlayerID string
		Password string
	}{playerID, password})
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, playerID, password)
	}
	return nil, ErrInvalidCredentials
}

func (m *Mock) Lookup(ctx context.Context, token string) (*Viewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	return &v, nil
}

func (m *Mock) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogoutCalls = append(m.LogoutCalls, token)
	delete(m.sessions, token)
	return nil
}

func (m *Mock) PurgeExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PurgeExpiredCalls++
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx)
	}
	return 0, nil
}

// NewTestSession builds a session for LoginFunc stubs.
func NewTestSession(token string, v Viewer, issuedAt time.Time) *Session {
	return &Session{Token: token, PlayerID: v.ID, IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(DefaultTTL), Viewer: v}
}
