package processor

import (
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/pubsub"
)

// Results of matches played longer ago than this are not announced.
const announceWindow = 24 * time.Hour

// Stores groups the data sources the processor reads.
type Stores struct {
	Matches MatchStore
	Players PlayerStore
	Pitch   PitchStore
	Stats   StatsSource
}

// Processor handles the announcement side effects of recorded matches and
// pitch schedules.
type Processor struct {
	stores   Stores
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	clock    clock.Clock
}
