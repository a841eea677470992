package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/database"
)

const playerColumns = `id, name, position_preference, photo_url, password, is_admin, created_at, updated_at`

// New creates a new RosterStore.
func New(db *sql.DB, clk clock.Clock) RosterStore {
	return &store{
		db:    db,
		clock: clk,
	}
}

func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, _, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayer(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) getPlayer(ctx context.Context, q queryer, id string) (*Player, error) {
	row := q.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	p, _, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

// GetPlayers returns the players that exist among ids. Unknown ids are skipped.
func (s *store) GetPlayers(ctx context.Context, ids []string) ([]Player, error) {
	if len(ids) == 0 {
		return []Player{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id IN (`+placeholders+`) ORDER BY name COLLATE NOCASE, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, _, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// CreatePlayer inserts a player unless the roster is already at its limit.
// The count check and the insert share a transaction.
func (s *store) CreatePlayer(ctx context.Context, in NewPlayer) (*Player, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Invalid("Name and position preference are required")
	}
	if in.PositionPreference == "" {
		return nil, apperr.Invalid("Name and position preference are required")
	}
	if !in.PositionPreference.Valid() {
		return nil, apperr.Invalid("Unknown position preference %q", in.PositionPreference)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	max, err := maxPlayers(ctx, tx)
	if err != nil {
		return nil, err
	}
	if count >= max {
		return nil, &LimitError{Max: max}
	}

	now := database.ToMillis(s.clock.Now())
	id := uuid.NewString()
	var password sql.NullString
	if in.Password != nil && *in.Password != "" {
		password = sql.NullString{String: *in.Password, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, name, position_preference, photo_url, password, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, string(in.PositionPreference), database.NullString(blankToNil(in.PhotoURL)), password, in.IsAdmin, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}

	p, err := s.getPlayer(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Player created", "playerID", id, "name", in.Name)
	return p, nil
}

func (s *store) UpdatePlayer(ctx context.Context, id string, upd PlayerUpdate) (*Player, error) {
	var (
		sets []string
		args []any
	)
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.Invalid("Name cannot be empty")
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if upd.PositionPreference != nil {
		if !upd.PositionPreference.Valid() {
			return nil, apperr.Invalid("Unknown position preference %q", *upd.PositionPreference)
		}
		sets = append(sets, "position_preference = ?")
		args = append(args, string(*upd.PositionPreference))
	}
	if upd.PhotoURL != nil {
		sets = append(sets, "photo_url = ?")
		args = append(args, database.NullString(blankToNil(upd.PhotoURL)))
	}
	if upd.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *upd.IsAdmin)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets = append(sets, "updated_at = ?")
	args = append(args, database.ToMillis(s.clock.Now()), id)

	res, err := s.db.ExecContext(ctx, `UPDATE players SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return s.getPlayer(ctx, s.db, id)
}

// DeletePlayer removes a player; sessions and goals cascade.
func (s *store) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	log.Info("Player deleted", "playerID", id)
	return nil
}

func (s *store) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

func (s *store) GetCredentials(ctx context.Context, id string) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	p, password, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return &Credentials{PlayerID: p.ID, Password: password, IsAdmin: p.IsAdmin}, nil
}

// SetPassword stores an already hashed password. An empty hash clears it.
func (s *store) SetPassword(ctx context.Context, id string, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var password sql.NullString
	if hash != "" {
		password = sql.NullString{String: hash, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE players SET password = ?, updated_at = ? WHERE id = ?`,
		password, database.ToMillis(s.clock.Now()), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *store) GetSettings(ctx context.Context) (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max, err := maxPlayers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	return &Settings{MaxPlayers: max, PlayerCount: count}, nil
}

// UpdateMaxPlayers changes the roster limit. It refuses values below 1 and
// values below the number of players already registered.
func (s *store) UpdateMaxPlayers(ctx context.Context, max int) (*Settings, error) {
	if max < 1 {
		return nil, apperr.Invalid("Max players must be a positive number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count players: %w", err)
	}
	if max < count {
		return nil, apperr.Invalid("Cannot set max players below current player count (%d)", count)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		maxPlayersKey, strconv.Itoa(max), database.ToMillis(s.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("update max players: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Max players updated", "maxPlayers", max)
	return &Settings{MaxPlayers: max, PlayerCount: count}, nil
}

func maxPlayers(ctx context.Context, q queryer) (int, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, maxPlayersKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultMaxPlayers, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read max players: %w", err)
	}
	max, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Invalid max_players setting, using default", "value", raw)
		return DefaultMaxPlayers, nil
	}
	return max, nil
}

// scanPlayer scans a single player row and returns the stored password separately.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, string, error) {
	var (
		p                    Player
		position             string
		photoURL, password   sql.NullString
		createdAt, updatedAt int64
	)
	err := scanner.Scan(&p.ID, &p.Name, &position, &photoURL, &password, &p.IsAdmin, &createdAt, &updatedAt)
	if err != nil {
		return nil, "", err
	}
	p.PositionPreference = Position(position)
	p.PhotoURL = database.StringFromNull(photoURL)
	p.HasPassword = password.Valid && password.String != ""
	p.CreatedAt = database.FromMillis(createdAt)
	p.UpdatedAt = database.FromMillis(updatedAt)
	return &p, password.String, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
