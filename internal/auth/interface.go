package auth

import "context"

// Authenticator issues and resolves login sessions.
type Authenticator interface {
	Login(ctx context.Context, playerID, password string) (*Session, error)
	Lookup(ctx context.Context, token string) (*Viewer, error)
	Logout(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
