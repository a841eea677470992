package pitch

import "context"

// PitchStore reads and writes the singleton "current" pitch state.
type PitchStore interface {
	Get(ctx context.Context) (*State, error)
	Update(ctx context.Context, upd Update) (*State, error)
	Clear(ctx context.Context) (*State, error)
}
