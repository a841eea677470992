package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = "8080"
	DefaultSessionTTL   = 30 * 24 * time.Hour
	DefaultPurgeCron    = "0 * * * *"
	DefaultAnnounceCron = "*/10 * * * *"
)

// Load reads configuration from the optional YAML file, the .env file and
// environment variables, in that order of precedence (last wins).
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := Parse(os.Getenv("CONFIG_FILE"), os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// Parse builds a Config from an optional YAML file and an environment lookup.
func Parse(configPath string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Port:        DefaultPort,
		Environment: "development",
		Sessions: SessionConfig{
			TTL:       DefaultSessionTTL,
			PurgeCron: DefaultPurgeCron,
		},
		Announcements: AnnouncementConfig{
			Cron: DefaultAnnounceCron,
		},
	}

	if configPath != "" {
		if err := applyFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	getEnv := func(key string) (string, bool) {
		value, ok := lookup(key)
		if !ok || value == "" {
			return "", false
		}
		return value, true
	}

	if v, ok := getEnv("DB_NAME"); ok {
		cfg.DBName = v
	}
	if v, ok := getEnv("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := getEnv("ENVIRONMENT"); ok {
		cfg.Environment = v
	}
	if v, ok := getEnv("TURSO_PRIMARY_URL"); ok {
		cfg.Turso.PrimaryURL = v
	}
	if v, ok := getEnv("TURSO_AUTH_TOKEN"); ok {
		cfg.Turso.AuthToken = v
	}
	if v, ok := getEnv("SLACK_BOT_TOKEN"); ok {
		cfg.Slack.Token = v
	}
	if v, ok := getEnv("SLACK_CHANNEL_ID"); ok {
		cfg.Slack.ChannelID = v
	}
	if v, ok := getEnv("GCP_PROJECT"); ok {
		cfg.ProjectID = v
	}
	if v, ok := getEnv("SESSION_TTL_HOURS"); ok {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer, got %q", v)
		}
		cfg.Sessions.TTL = time.Duration(hours) * time.Hour
	}
	if v, ok := getEnv("SESSION_PURGE_CRON"); ok {
		cfg.Sessions.PurgeCron = v
	}
	if v, ok := getEnv("SECURE_COOKIES"); ok {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SECURE_COOKIES must be a boolean, got %q", v)
		}
		cfg.Sessions.SecureCookies = secure
	}
	if v, ok := getEnv("ANNOUNCE_CRON"); ok {
		cfg.Announcements.Cron = v
	}
	if v, ok := getEnv("LEADERBOARD_CRON"); ok {
		cfg.Announcements.LeaderboardCron = v
	}
	if v, ok := getEnv("ANNOUNCE_DRY_RUN"); ok {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("ANNOUNCE_DRY_RUN must be a boolean, got %q", v)
		}
		cfg.Announcements.DryRun = dryRun
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the required settings are present.
func (c Config) Validate() error {
	if c.DBName == "" && c.Turso.PrimaryURL == "" {
		return fmt.Errorf("required environment variable DB_NAME is not set")
	}
	if c.Turso.PrimaryURL != "" && c.Turso.AuthToken == "" {
		return fmt.Errorf("TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set")
	}
	if c.Port == "" {
		return fmt.Errorf("required environment variable PORT is not set")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	if fc.Server.Port != "" {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.Environment != "" {
		cfg.Environment = fc.Server.Environment
	}
	if fc.Database.Name != "" {
		cfg.DBName = fc.Database.Name
	}
	if fc.Database.URL != "" {
		cfg.Turso.PrimaryURL = fc.Database.URL
	}
	if fc.Sessions.TTLHours > 0 {
		cfg.Sessions.TTL = time.Duration(fc.Sessions.TTLHours) * time.Hour
	}
	if fc.Sessions.PurgeCron != "" {
		cfg.Sessions.PurgeCron = fc.Sessions.PurgeCron
	}
	if fc.Sessions.SecureCookies != nil {
		cfg.Sessions.SecureCookies = *fc.Sessions.SecureCookies
	}
	if fc.Announcements.Cron != "" {
		cfg.Announcements.Cron = fc.Announcements.Cron
	}
	if fc.Announcements.LeaderboardCron != "" {
		cfg.Announcements.LeaderboardCron = fc.Announcements.LeaderboardCron
	}
	if fc.Announcements.DryRun != nil {
		cfg.Announcements.DryRun = *fc.Announcements.DryRun
	}
	log.Info("Loaded config file", "path", path)
	return nil
}
