package pitchclient

import (
	"context"

	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
)

// API is the part of the server the controller talks to.
type API interface {
	ListPlayers(ctx context.Context) ([]roster.Player, error)
	GetPitchState(ctx context.Context) (*pitch.State, error)
	UpdatePitchState(ctx context.Context, upd pitch.Update) (*pitch.State, error)
	ClearPitchState(ctx context.Context) (*pitch.State, error)
}
