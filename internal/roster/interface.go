package roster

import "context"

// RosterStore defines the interface for interacting with registered players and
// the roster settings.
type RosterStore interface {
	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id string) (*Player, error)
	GetPlayers(ctx context.Context, ids []string) ([]Player, error)
	CreatePlayer(ctx context.Context, in NewPlayer) (*Player, error)
	UpdatePlayer(ctx context.Context, id string, upd PlayerUpdate) (*Player, error)
	DeletePlayer(ctx context.Context, id string) error
	CountPlayers(ctx context.Context) (int, error)
	GetCredentials(ctx context.Context, id string) (*Credentials, error)
	SetPassword(ctx context.Context, id string, hash string) error
	GetSettings(ctx context.Context) (*Settings, error)
	UpdateMaxPlayers(ctx context.Context, max int) (*Settings, error)
}
