package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/config"
	"github.com/mauv0809/pitchboard/internal/metrics"
)

const jobTimeout = 2 * time.Minute

// Announcer is the part of the match processor the jobs drive.
type Announcer interface {
	ProcessMatches(ctx context.Context, dryRun bool)
	PostLeaderboard(ctx context.Context, dryRun bool) error
}

// Jobs holds the dependencies of the background jobs.
type Jobs struct {
	Auth      auth.Authenticator
	Announcer Announcer
	Metrics   metrics.Metrics
}

// Register adds the session purge, match announcement and optional
// leaderboard jobs. A nil Announcer skips the announcement jobs.
func (j Jobs) Register(s *Service, cfg config.Config) error {
	if _, err := s.AddJob("purge-sessions", cfg.Sessions.PurgeCron, j.PurgeSessions); err != nil {
		return err
	}
	if j.Announcer == nil {
		log.Info("No announcer configured, skipping announcement jobs")
		return nil
	}
	dryRun := cfg.Announcements.DryRun
	if _, err := s.AddJob("process-matches", cfg.Announcements.Cron, func() { j.ProcessMatches(dryRun) }); err != nil {
		return err
	}
	if cfg.Announcements.LeaderboardCron == "" {
		return nil
	}
	_, err := s.AddJob("post-leaderboard", cfg.Announcements.LeaderboardCron, func() { j.PostLeaderboard(dryRun) })
	return err
}

// PurgeSessions deletes expired sessions.
func (j Jobs) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := j.Auth.PurgeExpired(ctx)
	if err != nil {
		log.Error("Failed to purge sessions", "error", err)
		return
	}
	j.Metrics.AddSessionsPurged(int(n))
}

func (j Jobs) ProcessMatches(dryRun bool) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	j.Announcer.ProcessMatches(ctx, dryRun)
}

func (j Jobs) PostLeaderboard(dryRun bool) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := j.Announcer.PostLeaderboard(ctx, dryRun); err != nil {
		log.Error("Failed to post leaderboard", "error", err)
	}
}
