package matches

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/database"
	"github.com/mauv0809/pitchboard/internal/pitch"
)

const (
	matchColumns = `id, date, match_type, team_a_score, team_b_score, team_a_formation, team_b_formation, team_a_players, team_b_players, notes, announcement_status, created_at, updated_at`
	goalColumns  = `g.id, g.match_id, g.player_id, g.minute, g.team, g.is_confirmed, g.video_url, g.created_at, g.updated_at`
)

// New creates a new MatchStore.
func New(db *sql.DB, clk clock.Clock) MatchStore {
	return &store{
		db:    db,
		clock: clk,
	}
}

// ListMatches returns every match, newest first, with its goals.
func (s *store) ListMatches(ctx context.Context) ([]MatchWithGoals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var list []MatchWithGoals
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		list = append(list, MatchWithGoals{Match: *m, Goals: []GoalWithPlayer{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	goals, err := s.goalsWithPlayers(ctx, "")
	if err != nil {
		return nil, err
	}
	byMatch := make(map[string][]GoalWithPlayer)
	for _, g := range goals {
		byMatch[g.MatchID] = append(byMatch[g.MatchID], g)
	}
	out := make([]MatchWithGoals, 0, len(list))
	for _, m := range list {
		if gs, ok := byMatch[m.ID]; ok {
			m.Goals = gs
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *store) GetMatch(ctx context.Context, id string) (*MatchWithGoals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.getMatch(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	goals, err := s.goalsWithPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MatchWithGoals{Match: *m, Goals: goals}, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) getMatch(ctx context.Context, q queryer, id string) (*Match, error) {
	m, err := scanMatch(q.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

// goalsWithPlayers loads goals joined with the scorer's name, optionally for one match.
func (s *store) goalsWithPlayers(ctx context.Context, matchID string) ([]GoalWithPlayer, error) {
	query := `SELECT ` + goalColumns + `, COALESCE(p.name, '') FROM goals g LEFT JOIN players p ON p.id = g.player_id`
	var args []any
	if matchID != "" {
		query += ` WHERE g.match_id = ?`
		args = append(args, matchID)
	}
	query += ` ORDER BY g.minute IS NULL, g.minute, g.created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []GoalWithPlayer{}
	for rows.Next() {
		var gp GoalWithPlayer
		g, err := scanGoal(rows, &gp.PlayerName)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		gp.Goal = *g
		goals = append(goals, gp)
	}
	return goals, rows.Err()
}

func (s *store) CreateMatch(ctx context.Context, in NewMatch) (*Match, error) {
	if strings.TrimSpace(in.Date) == "" || in.MatchType == "" {
		return nil, apperr.Invalid("Date and match type are required")
	}
	if _, err := parseDate(in.Date); err != nil {
		return nil, apperr.Invalid("Invalid date %q", in.Date)
	}
	if !in.MatchType.Valid() {
		return nil, apperr.Invalid("Unknown match type %q", in.MatchType)
	}
	if in.TeamAScore < 0 || in.TeamBScore < 0 {
		return nil, apperr.Invalid("Scores cannot be negative")
	}

	teamA, err := marshalPlayers(in.TeamAPlayers)
	if err != nil {
		return nil, err
	}
	teamB, err := marshalPlayers(in.TeamBPlayers)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := database.ToMillis(s.clock.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, date, match_type, team_a_score, team_b_score, team_a_formation, team_b_formation, team_a_players, team_b_players, notes, announcement_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Date, string(in.MatchType), in.TeamAScore, in.TeamBScore,
		database.NullString(blankToNil(in.TeamAFormation)), database.NullString(blankToNil(in.TeamBFormation)),
		teamA, teamB, database.NullString(blankToNil(in.Notes)), string(StatusNew), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	log.Info("Match recorded", "matchID", id, "date", in.Date, "score", fmt.Sprintf("%d-%d", in.TeamAScore, in.TeamBScore))
	return s.getMatch(ctx, s.db, id)
}

func (s *store) UpdateMatch(ctx context.Context, id string, upd MatchUpdate) (*Match, error) {
	var (
		sets []string
		args []any
	)
	if upd.Date != nil {
		if _, err := parseDate(*upd.Date); err != nil {
			return nil, apperr.Invalid("Invalid date %q", *upd.Date)
		}
		sets = append(sets, "date = ?")
		args = append(args, *upd.Date)
	}
	if upd.MatchType != nil {
		if !upd.MatchType.Valid() {
			return nil, apperr.Invalid("Unknown match type %q", *upd.MatchType)
		}
		sets = append(sets, "match_type = ?")
		args = append(args, string(*upd.MatchType))
	}
	for _, score := range []struct {
		column string
		value  *int
	}{{"team_a_score", upd.TeamAScore}, {"team_b_score", upd.TeamBScore}} {
		if score.value == nil {
			continue
		}
		if *score.value < 0 {
			return nil, apperr.Invalid("Scores cannot be negative")
		}
		sets = append(sets, score.column+" = ?")
		args = append(args, *score.value)
	}
	for _, text := range []struct {
		column string
		value  *string
	}{{"team_a_formation", upd.TeamAFormation}, {"team_b_formation", upd.TeamBFormation}, {"notes", upd.Notes}} {
		if text.value == nil {
			continue
		}
		sets = append(sets, text.column+" = ?")
		args = append(args, database.NullString(blankToNil(text.value)))
	}
	for _, team := range []struct {
		column  string
		players []string
	}{{"team_a_players", upd.TeamAPlayers}, {"team_b_players", upd.TeamBPlayers}} {
		if team.players == nil {
			continue
		}
		raw, err := marshalPlayers(team.players)
		if err != nil {
			return nil, err
		}
		sets = append(sets, team.column+" = ?")
		args = append(args, raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets = append(sets, "updated_at = ?")
	args = append(args, database.ToMillis(s.clock.Now()), id)
	res, err := s.db.ExecContext(ctx, `UPDATE matches SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return s.getMatch(ctx, s.db, id)
}

// DeleteMatch removes a match and, through the foreign key, its goals.
func (s *store) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	log.Info("Match deleted", "matchID", id)
	return nil
}

func (s *store) ListGoals(ctx context.Context) ([]Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals g ORDER BY g.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		g, err := scanGoal(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *store) GetGoal(ctx context.Context, id string) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getGoal(ctx, id)
}

func (s *store) getGoal(ctx context.Context, id string) (*Goal, error) {
	g, err := scanGoal(s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals g WHERE g.id = ?`, id), nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// CreateGoal records a goal against an existing match and player.
func (s *store) CreateGoal(ctx context.Context, in NewGoal) (*Goal, error) {
	if in.PlayerID == "" || in.Team == "" {
		return nil, apperr.Invalid("Player ID and team are required")
	}
	if !in.Team.Valid() {
		return nil, apperr.Invalid("Team must be A or B")
	}
	if in.Minute != nil && *in.Minute < 0 {
		return nil, apperr.Invalid("Minute cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := s.getMatch(ctx, tx, in.MatchID); err != nil {
		return nil, err
	}
	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM players WHERE id = ?`, in.PlayerID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Invalid("Unknown player %q", in.PlayerID)
	}
	if err != nil {
		return nil, fmt.Errorf("check player: %w", err)
	}

	id := uuid.NewString()
	now := database.ToMillis(s.clock.Now())
	var minute sql.NullInt64
	if in.Minute != nil {
		minute = sql.NullInt64{Int64: int64(*in.Minute), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO goals (id, match_id, player_id, minute, team, is_confirmed, video_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.MatchID, in.PlayerID, minute, string(in.Team), in.IsConfirmed, database.NullString(blankToNil(in.VideoURL)), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Goal recorded", "goalID", id, "matchID", in.MatchID, "playerID", in.PlayerID, "confirmed", in.IsConfirmed)
	return s.getGoal(ctx, id)
}

// UpdateGoal edits a goal; setting IsConfirmed moves it between pending and confirmed.
func (s *store) UpdateGoal(ctx context.Context, id string, upd GoalUpdate) (*Goal, error) {
	var (
		sets []string
		args []any
	)
	if upd.Minute != nil {
		if *upd.Minute < 0 {
			return nil, apperr.Invalid("Minute cannot be negative")
		}
		sets = append(sets, "minute = ?")
		args = append(args, *upd.Minute)
	}
	if upd.IsConfirmed != nil {
		sets = append(sets, "is_confirmed = ?")
		args = append(args, *upd.IsConfirmed)
	}
	if upd.VideoURL != nil {
		sets = append(sets, "video_url = ?")
		args = append(args, database.NullString(blankToNil(upd.VideoURL)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets = append(sets, "updated_at = ?")
	args = append(args, database.ToMillis(s.clock.Now()), id)
	res, err := s.db.ExecContext(ctx, `UPDATE goals SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return s.getGoal(ctx, id)
}

func (s *store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetMatchesForAnnouncement retrieves all matches that are not yet completed.
func (s *store) GetMatchesForAnnouncement(ctx context.Context) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE announcement_status != ? ORDER BY created_at`, string(StatusCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateAnnouncementStatus transitions a match to a new announcement state.
func (s *store) UpdateAnnouncementStatus(ctx context.Context, id string, status AnnouncementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE matches SET announcement_status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanMatch is a helper function to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var (
		m                      Match
		matchType, status      string
		formationA, formationB sql.NullString
		teamA, teamB           sql.NullString
		notes                  sql.NullString
		createdAt, updatedAt   int64
	)
	err := scanner.Scan(&m.ID, &m.Date, &matchType, &m.TeamAScore, &m.TeamBScore, &formationA, &formationB,
		&teamA, &teamB, &notes, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.MatchType = pitch.MatchType(matchType)
	m.AnnouncementStatus = AnnouncementStatus(status)
	m.TeamAFormation = database.StringFromNull(formationA)
	m.TeamBFormation = database.StringFromNull(formationB)
	m.Notes = database.StringFromNull(notes)
	m.CreatedAt = database.FromMillis(createdAt)
	m.UpdatedAt = database.FromMillis(updatedAt)
	m.TeamAPlayers = unmarshalPlayers(teamA, m.ID)
	m.TeamBPlayers = unmarshalPlayers(teamB, m.ID)
	return &m, nil
}

// scanGoal scans a goal row. When playerName is non-nil the row carries the
// scorer's name as a trailing column.
func scanGoal(scanner interface{ Scan(...any) error }, playerName *string) (*Goal, error) {
	var (
		g                    Goal
		team                 string
		minute               sql.NullInt64
		videoURL             sql.NullString
		createdAt, updatedAt int64
	)
	dest := []any{&g.ID, &g.MatchID, &g.PlayerID, &minute, &team, &g.IsConfirmed, &videoURL, &createdAt, &updatedAt}
	if playerName != nil {
		dest = append(dest, playerName)
	}
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	if minute.Valid {
		v := int(minute.Int64)
		g.Minute = &v
	}
	g.Team = pitch.Team(team)
	g.VideoURL = database.StringFromNull(videoURL)
	g.CreatedAt = database.FromMillis(createdAt)
	g.UpdatedAt = database.FromMillis(updatedAt)
	return &g, nil
}

func marshalPlayers(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("marshal players: %w", err)
	}
	return string(raw), nil
}

func unmarshalPlayers(raw sql.NullString, matchID string) []string {
	ids := []string{}
	if !raw.Valid || raw.String == "" {
		return ids
	}
	if err := json.Unmarshal([]byte(raw.String), &ids); err != nil {
		log.Error("Failed to unmarshal team players", "error", err, "matchID", matchID)
		return []string{}
	}
	return ids
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
