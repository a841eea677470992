package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                    sync.Mutex
	pitchUpdates          int
	pitchClears           int
	playersCreated        int
	playerLimitRejections int
	goalsRecorded         int
	goalConfirmations     int
	loginsSucceeded       int
	loginsFailed          int
	matchesProcessed      int
	slackNotifSent        int
	slackNotifFailed      int
	sessionsPurged        int
	processingDurations   []float64
	startupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPitchUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pitchUpdates++
}

func (m *Mock) IncPitchClears() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pitchClears++
}

func (m *Mock) IncPlayersCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersCreated++
}

func (m *Mock) IncPlayerLimitRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerLimitRejections++
}

func (m *Mock) IncGoalsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goalsRecorded++
}

func (m *Mock) IncGoalConfirmations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goalConfirmations++
}

func (m *Mock) IncLoginsSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginsSucceeded++
}

func (m *Mock) IncLoginsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginsFailed++
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) AddSessionsPurged(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsPurged += n
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PitchUpdates returns the number of times IncPitchUpdates was called.
func (m *Mock) PitchUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitchUpdates
}

// PitchClears returns the number of times IncPitchClears was called.
func (m *Mock) PitchClears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitchClears
}

// PlayersCreated returns the number of times IncPlayersCreated was called.
func (m *Mock) PlayersCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersCreated
}

// PlayerLimitRejections returns the number of times IncPlayerLimitRejections was called.
func (m *Mock) PlayerLimitRejections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playerLimitRejections
}

// GoalsRecorded returns the number of times IncGoalsRecorded was called.
func (m *Mock) GoalsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goalsRecorded
}

// GoalConfirmations returns the number of times IncGoalConfirmations was called.
func (m *Mock) GoalConfirmations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goalConfirmations
}

// LoginsSucceeded returns the number of times IncLoginsSucceeded was called.
func (m *Mock) LoginsSucceeded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginsSucceeded
}

// LoginsFailed returns the number of times IncLoginsFailed was called.
func (m *Mock) LoginsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginsFailed
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) SessionsPurged() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsPurged
}

// ProcessingDurations returns every observed duration.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.processingDurations...)
}
