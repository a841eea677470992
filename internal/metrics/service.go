package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PitchUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_pitch_updates_total",
			Help: "The total number of pitch state updates written.",
		}),
		PitchClears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_pitch_clears_total",
			Help: "The total number of times the pitch was cleared.",
		}),
		PlayersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_players_created_total",
			Help: "The total number of players signed up.",
		}),
		PlayerLimitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_player_limit_rejections_total",
			Help: "The total number of sign-ups rejected by the player limit.",
		}),
		GoalsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_goals_recorded_total",
			Help: "The total number of goals submitted.",
		}),
		GoalConfirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_goal_confirmations_total",
			Help: "The total number of goals confirmed by an admin.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pitchboard_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		SessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_sessions_purged_total",
			Help: "The total number of expired sessions removed by the purge job.",
		}),
		MatchesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_matches_processed_total",
			Help: "The total number of matches processed by the announcement state machine.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pitchboard_match_processing_duration_seconds",
			Help:    "The duration of individual match processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pitchboard_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pitchboard_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PitchUpdates,
		s.PitchClears,
		s.PlayersCreated,
		s.PlayerLimitRejections,
		s.GoalsRecorded,
		s.GoalConfirmations,
		s.Logins,
		s.SessionsPurged,
		s.MatchesProcessed,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncPitchUpdates() {
	s.PitchUpdates.Inc()
}

func (s *Service) IncPitchClears() {
	s.PitchClears.Inc()
}

func (s *Service) IncPlayersCreated() {
	s.PlayersCreated.Inc()
}

func (s *Service) IncPlayerLimitRejections() {
	s.PlayerLimitRejections.Inc()
}

func (s *Service) IncGoalsRecorded() {
	s.GoalsRecorded.Inc()
}

func (s *Service) IncGoalConfirmations() {
	s.GoalConfirmations.Inc()
}

func (s *Service) IncLoginsSucceeded() {
	s.Logins.WithLabelValues("success").Inc()
}

func (s *Service) IncLoginsFailed() {
	s.Logins.WithLabelValues("failure").Inc()
}

func (s *Service) AddSessionsPurged(n int) {
	s.SessionsPurged.Add(float64(n))
}

func (s *Service) IncMatchesProcessed() {
	s.MatchesProcessed.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
