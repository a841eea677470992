package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	Port          string
	Environment   string
	Turso         TursoConfig
	Slack         SlackConfig
	ProjectID     string
	Sessions      SessionConfig
	Announcements AnnouncementConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type SessionConfig struct {
	TTL           time.Duration
	PurgeCron     string
	SecureCookies bool
}

// AnnouncementConfig controls the Slack announcement jobs. An empty
// LeaderboardCron disables the leaderboard post.
type AnnouncementConfig struct {
	Cron            string
	LeaderboardCron string
	DryRun          bool
}

// fileConfig is the optional YAML overlay for non-secret tunables.
type fileConfig struct {
	Server struct {
		Port        string `yaml:"port"`
		Environment string `yaml:"environment"`
	} `yaml:"server"`
	Database struct {
		Name string `yaml:"name"`
		URL  string `yaml:"url"`
	} `yaml:"database"`
	Sessions struct {
		TTLHours      int    `yaml:"ttl_hours"`
		PurgeCron     string `yaml:"purge_cron"`
		SecureCookies *bool  `yaml:"secure_cookies"`
	} `yaml:"sessions"`
	Announcements struct {
		Cron            string `yaml:"cron"`
		LeaderboardCron string `yaml:"leaderboard_cron"`
		DryRun          *bool  `yaml:"dry_run"`
	} `yaml:"announcements"`
}
