package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse("", envFrom(map[string]string{"DB_NAME": "pitch.db"}))
	require.NoError(t, err)

	assert.Equal(t, "pitch.db", cfg.DBName)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSessionTTL, cfg.Sessions.TTL)
	assert.Equal(t, DefaultPurgeCron, cfg.Sessions.PurgeCron)
	assert.Equal(t, DefaultAnnounceCron, cfg.Announcements.Cron)
	assert.Empty(t, cfg.Announcements.LeaderboardCron)
	assert.False(t, cfg.IsProduction())
}

func TestParse_EnvOverrides(t *testing.T) {
	cfg, err := Parse("", envFrom(map[string]string{
		"DB_NAME":           "pitch.db",
		"PORT":              "9000",
		"ENVIRONMENT":       "production",
		"SESSION_TTL_HOURS": "48",
		"SECURE_COOKIES":    "true",
		"SLACK_BOT_TOKEN":   "xoxb-test",
		"SLACK_CHANNEL_ID":  "C123",
		"GCP_PROJECT":       "pitch-project",
		"ANNOUNCE_DRY_RUN":  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 48*time.Hour, cfg.Sessions.TTL)
	assert.True(t, cfg.Sessions.SecureCookies)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.Equal(t, "C123", cfg.Slack.ChannelID)
	assert.Equal(t, "pitch-project", cfg.ProjectID)
	assert.True(t, cfg.Announcements.DryRun)
}

func TestParse_Validation(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		_, err := Parse("", envFrom(map[string]string{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("turso without token", func(t *testing.T) {
		_, err := Parse("", envFrom(map[string]string{"TURSO_PRIMARY_URL": "libsql://pitch.turso.io"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TURSO_AUTH_TOKEN")
	})

	t.Run("bad session ttl", func(t *testing.T) {
		_, err := Parse("", envFrom(map[string]string{"DB_NAME": "pitch.db", "SESSION_TTL_HOURS": "soon"}))
		require.Error(t, err)
	})
}

func TestParse_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "7070"
database:
  name: from-file.db
sessions:
  ttl_hours: 24
  purge_cron: "*/5 * * * *"
announcements:
  dry_run: true
  leaderboard_cron: "0 9 * * 1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Parse(path, envFrom(map[string]string{"PORT": "7171"}))
	require.NoError(t, err)

	assert.Equal(t, "7171", cfg.Port, "environment wins over the file")
	assert.Equal(t, "from-file.db", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "*/5 * * * *", cfg.Sessions.PurgeCron)
	assert.Equal(t, "0 9 * * 1", cfg.Announcements.LeaderboardCron)
	assert.True(t, cfg.Announcements.DryRun)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"), envFrom(map[string]string{"DB_NAME": "x.db"}))
	require.Error(t, err)
}
