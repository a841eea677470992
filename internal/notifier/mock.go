package notifier

import (
	"sync"

	"github.com/mauv0809/pitchboard/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendMatchResultFunc   func(result *MatchResult, dryRun bool) error
	SendPitchScheduleFunc func(schedule *PitchSchedule, dryRun bool) error
	SendLeaderboardFunc   func(players []stats.PlayerStats, dryRun bool) error

	// Call records
	SendMatchResultCalls []struct {
		Result *MatchResult
		DryRun bool
	}
	SendPitchScheduleCalls []struct {
		Schedule *PitchSchedule
		DryRun   bool
	}
	SendLeaderboardCalls [][]stats.PlayerStats
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendPitchScheduleCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendMatchResult(result *MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Result *MatchResult
		DryRun bool
	}{result, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendPitchSchedule(schedule *PitchSchedule, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPitchScheduleCalls = append(m.SendPitchScheduleCalls, struct {
		Schedule *PitchSchedule
		DryRun   bool
	}{schedule, dryRun})
	if m.SendPitchScheduleFunc != nil {
		return m.SendPitchScheduleFunc(schedule, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(players []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, players)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(players, dryRun)
	}
	return nil
}
