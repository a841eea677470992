package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/database"
	"github.com/mauv0809/pitchboard/internal/roster"
)

// New creates an Authenticator. A zero ttl falls back to DefaultTTL.
func New(db *sql.DB, rosterStore roster.RosterStore, clk clock.Clock, ttl time.Duration) Authenticator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &service{
		db:     db,
		roster: rosterStore,
		clock:  clk,
		ttl:    ttl,
	}
}

// Login checks the player's password and opens a session. Accounts without a
// password are let through. Plaintext passwords left over from older data are
// compared directly and replaced by a bcrypt hash on success.
func (s *service) Login(ctx context.Context, playerID, password string) (*Session, error) {
	player, err := s.roster.GetPlayer(ctx, playerID)
	if errors.Is(err, roster.ErrNotFound) {
		log.Info("Login for unknown player", "playerID", playerID)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	creds, err := s.roster.GetCredentials(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	switch {
	case creds.Password == "":
	case IsHashed(creds.Password):
		if !VerifyPassword(creds.Password, password) {
			log.Info("Login with wrong password", "playerID", playerID)
			return nil, ErrInvalidCredentials
		}
	default:
		if creds.Password != password {
			log.Info("Login with wrong password", "playerID", playerID)
			return nil, ErrInvalidCredentials
		}
		s.upgradePassword(ctx, playerID, password)
	}

	now := s.clock.Now()
	session := &Session{
		Token:     uuid.NewString(),
		PlayerID:  playerID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
		Viewer:    Viewer{ID: player.ID, Name: player.Name, IsAdmin: creds.IsAdmin},
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO sessions (id, player_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		session.Token, playerID, database.ToMillis(session.ExpiresAt), database.ToMillis(now))
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	log.Info("Player logged in", "playerID", playerID, "admin", creds.IsAdmin)
	return session, nil
}

// upgradePassword re-hashes a legacy plaintext password. Failure leaves the
// old value in place and does not fail the login.
func (s *service) upgradePassword(ctx context.Context, playerID, password string) {
	hash, err := HashPassword(password)
	if err != nil {
		log.Error("Failed to hash legacy password", "playerID", playerID, "error", err)
		return
	}
	if err := s.roster.SetPassword(ctx, playerID, hash); err != nil {
		log.Error("Failed to store upgraded password", "playerID", playerID, "error", err)
		return
	}
	log.Info("Upgraded legacy password to bcrypt", "playerID", playerID)
}

// Lookup resolves a session token to its player. Expired sessions are deleted.
func (s *service) Lookup(ctx context.Context, token string) (*Viewer, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var (
		v         Viewer
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.is_admin, s.expires_at
		FROM sessions s
		JOIN players p ON p.id = s.player_id
		WHERE s.id = ?`, token).Scan(&v.ID, &v.Name, &v.IsAdmin, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !s.clock.Now().Before(database.FromMillis(expiresAt)) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token); err != nil {
			log.Warn("Failed to delete expired session", "error", err)
		}
		return nil, ErrNoSession
	}
	return &v, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session past its expiry and returns how many went.
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, database.ToMillis(s.clock.Now()))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Info("Purged expired sessions", "count", n)
	}
	return n, nil
}
