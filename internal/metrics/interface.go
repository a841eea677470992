package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncPitchUpdates()
	IncPitchClears()
	IncPlayersCreated()
	IncPlayerLimitRejections()
	IncGoalsRecorded()
	IncGoalConfirmations()
	IncLoginsSucceeded()
	IncLoginsFailed()
	AddSessionsPurged(n int)
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
