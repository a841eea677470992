package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	PitchUpdates          prometheus.Counter
	PitchClears           prometheus.Counter
	PlayersCreated        prometheus.Counter
	PlayerLimitRejections prometheus.Counter
	GoalsRecorded         prometheus.Counter
	GoalConfirmations     prometheus.Counter
	Logins                *prometheus.CounterVec
	SessionsPurged        prometheus.Counter
	MatchesProcessed      prometheus.Counter
	ProcessingDuration    prometheus.Histogram
	SlackNotifSent        prometheus.Counter
	SlackNotifFailed      prometheus.Counter
	StartupTimeSeconds    prometheus.Gauge
}
