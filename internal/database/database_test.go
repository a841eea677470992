package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "settings", "pitch_state", "sessions", "matches", "goals"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_SeedsDefaults(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	var maxPlayers string
	require.NoError(t, db.QueryRow("SELECT value FROM settings WHERE key = 'max_players'").Scan(&maxPlayers))
	assert.Equal(t, "50", maxPlayers)

	var matchType, activePlayers string
	require.NoError(t, db.QueryRow("SELECT match_type, active_players FROM pitch_state WHERE id = 'current'").Scan(&matchType, &activePlayers))
	assert.Equal(t, "5v5", matchType)
	assert.Equal(t, "[]", activePlayers)
}

func TestInitDB_ForeignKeysEnforced(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec(`INSERT INTO sessions (id, player_id, expires_at, created_at) VALUES ('s1', 'missing', 0, 0)`)
	assert.Error(t, err, "sessions must reference an existing player")
}

func TestInitDB_FileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitch.db")

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE settings SET value = '12' WHERE key = 'max_players'`)
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer teardown()

	var maxPlayers string
	require.NoError(t, db.QueryRow("SELECT value FROM settings WHERE key = 'max_players'").Scan(&maxPlayers))
	assert.Equal(t, "12", maxPlayers, "re-running migrations must not reseed")
}
