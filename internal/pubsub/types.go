package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
// Topics are named after the event.
type EventType string

const (
	EventMatchRecorded  EventType = "match-recorded"
	EventPitchScheduled EventType = "pitch-scheduled"
)

// MatchRecorded is published once a match result is stored.
type MatchRecorded struct {
	MatchID string `msgpack:"matchId"`
}

// PitchScheduled is published when the pitch gets a new opening time.
type PitchScheduled struct {
	ScheduledAt time.Time `msgpack:"scheduledAt"`
	MatchType   string    `msgpack:"matchType"`
	Version     int64     `msgpack:"version"`
}
