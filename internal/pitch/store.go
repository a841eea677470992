package pitch

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/database"
)

const stateColumns = `match_type, active_players, team_a_formation, team_b_formation, scheduled_at, is_active, player_positions, version, updated_at`

// New creates a new PitchStore.
func New(db *sql.DB, clk clock.Clock) PitchStore {
	return &store{
		db:    db,
		clock: clk,
	}
}

// Get returns the current pitch. A missing row yields the default state without
// creating one.
func (s *store) Get(ctx context.Context) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, err := s.get(ctx, s.db)
	if errors.Is(err, sql.ErrNoRows) {
		def := DefaultState()
		return &def, nil
	}
	return state, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) get(ctx context.Context, q queryer) (*State, error) {
	row := q.QueryRowContext(ctx, `SELECT `+stateColumns+` FROM pitch_state WHERE id = ?`, currentID)
	return scanState(row)
}

// Update overwrites the provided fields, bumps the version and stamps updated_at.
// The row is created first if it is missing. Last writer wins.
func (s *store) Update(ctx context.Context, upd Update) (*State, error) {
	if err := upd.normalize(); err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	if upd.MatchType != nil {
		sets = append(sets, "match_type = ?")
		args = append(args, string(*upd.MatchType))
	}
	if upd.ActivePlayers != nil {
		raw, err := json.Marshal(upd.ActivePlayers)
		if err != nil {
			return nil, fmt.Errorf("marshal active players: %w", err)
		}
		sets = append(sets, "active_players = ?")
		args = append(args, string(raw))
	}
	if upd.TeamAFormation.Set {
		sets = append(sets, "team_a_formation = ?")
		args = append(args, database.NullString(upd.TeamAFormation.Ptr()))
	}
	if upd.TeamBFormation.Set {
		sets = append(sets, "team_b_formation = ?")
		args = append(args, database.NullString(upd.TeamBFormation.Ptr()))
	}
	if upd.ScheduledAt.Set {
		sets = append(sets, "scheduled_at = ?")
		args = append(args, database.NullMillis(upd.ScheduledAt.Ptr()))
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if upd.PlayerPositions != nil {
		raw, err := json.Marshal(upd.PlayerPositions)
		if err != nil {
			return nil, fmt.Errorf("marshal player positions: %w", err)
		}
		sets = append(sets, "player_positions = ?")
		args = append(args, string(raw))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets = append(sets, "version = version + 1", "updated_at = ?")
	args = append(args, database.ToMillis(s.clock.Now()), currentID)

	state, err := s.write(ctx, `UPDATE pitch_state SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update pitch state: %w", err)
	}
	log.Debug("Pitch state updated", "version", state.Version, "assignments", len(state.ActivePlayers))
	return state, nil
}

// Clear empties assignments, positions and formations. The match type, the
// schedule and the active flag are kept.
func (s *store) Clear(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.write(ctx, `
		UPDATE pitch_state SET
			active_players = '[]',
			team_a_formation = NULL,
			team_b_formation = NULL,
			player_positions = '{}',
			version = version + 1,
			updated_at = ?
		WHERE id = ?`, database.ToMillis(s.clock.Now()), currentID)
	if err != nil {
		return nil, fmt.Errorf("clear pitch state: %w", err)
	}
	log.Info("Pitch cleared", "version", state.Version)
	return state, nil
}

// write ensures the row, runs stmt and reads the result back in one transaction.
func (s *store) write(ctx context.Context, stmt string, args ...any) (*State, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO pitch_state (id) VALUES (?)`, currentID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	state, err := s.get(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return state, nil
}

// scanState is a helper function to scan the pitch state row.
func scanState(scanner interface{ Scan(...any) error }) (*State, error) {
	var (
		state                     State
		matchType                 string
		activeJSON, positionsJSON sql.NullString
		formationA, formationB    sql.NullString
		scheduledAt               sql.NullInt64
		updatedAt                 int64
	)
	err := scanner.Scan(&matchType, &activeJSON, &formationA, &formationB, &scheduledAt, &state.IsActive, &positionsJSON, &state.Version, &updatedAt)
	if err != nil {
		return nil, err
	}

	state.MatchType = MatchType(matchType)
	state.TeamAFormation = database.StringFromNull(formationA)
	state.TeamBFormation = database.StringFromNull(formationB)
	state.ScheduledAt = database.TimeFromNull(scheduledAt)
	state.UpdatedAt = database.FromMillis(updatedAt)

	state.ActivePlayers = []SlotAssignment{}
	if activeJSON.Valid && activeJSON.String != "" {
		if err := json.Unmarshal([]byte(activeJSON.String), &state.ActivePlayers); err != nil {
			log.Error("Failed to unmarshal active_players", "error", err)
			state.ActivePlayers = []SlotAssignment{}
		}
	}
	state.PlayerPositions = map[string]Position{}
	if positionsJSON.Valid && positionsJSON.String != "" {
		if err := json.Unmarshal([]byte(positionsJSON.String), &state.PlayerPositions); err != nil {
			log.Error("Failed to unmarshal player_positions", "error", err)
			state.PlayerPositions = map[string]Position{}
		}
	}
	return &state, nil
}
