package stats

import "context"

// Aggregator derives player and match statistics from the stored roster and results.
type Aggregator interface {
	Report(ctx context.Context) (*Report, error)
	ForPlayer(ctx context.Context, playerID string) (*PlayerStats, error)
}
