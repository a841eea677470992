package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/config"
	"github.com/mauv0809/pitchboard/internal/database"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
)

const (
	numMatches    = 40
	adminPassword = "admin"
)

var demoPlayers = []struct {
	name     string
	position roster.Position
}{
	{"Seeder Keeper", roster.PositionGoalkeeper},
	{"Seeder Back", roster.PositionDefender},
	{"Seeder Stopper", roster.PositionDefender},
	{"Seeder Winger", roster.PositionMidfielder},
	{"Seeder Playmaker", roster.PositionMidfielder},
	{"Seeder Striker", roster.PositionForward},
	{"Seeder Poacher", roster.PositionForward},
	{"Seeder Utility", roster.PositionAny},
	{"Seeder Sweeper", roster.PositionDefender},
	{"Seeder Anchor", roster.PositionMidfielder},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	clk := clock.New()
	players := roster.New(db, clk)
	store := matches.New(db, clk)

	ids, err := seedPlayers(ctx, players)
	if err != nil {
		log.Fatalf("Failed to seed players: %s", err)
	}
	log.Info("Ensured demo players exist.", "count", len(ids))

	startTime := time.Now()
	if err := seedMatches(ctx, store, ids); err != nil {
		log.Fatalf("Failed to seed matches: %s", err)
	}
	log.Info("Successfully inserted all demo matches.", "total", numMatches, "duration", time.Since(startTime))
}

// seedPlayers creates the demo roster, reusing players that already exist by
// name. The first player is an admin.
func seedPlayers(ctx context.Context, store roster.RosterStore) ([]string, error) {
	existing, err := store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(existing))
	for _, p := range existing {
		byName[p.Name] = p.ID
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(demoPlayers))
	for i, demo := range demoPlayers {
		if id, ok := byName[demo.name]; ok {
			ids = append(ids, id)
			continue
		}
		in := roster.NewPlayer{Name: demo.name, PositionPreference: demo.position}
		if i == 0 {
			in.IsAdmin = true
			in.Password = &hash
		}
		p, err := store.CreatePlayer(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", demo.name, err)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// seedMatches records random 5v5 games over the last months with confirmed
// goals that add up to the score.
func seedMatches(ctx context.Context, store matches.MatchStore, ids []string) error {
	today := time.Now().UTC()
	for i := range numMatches {
		shuffled := append([]string(nil), ids...)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		teamA, teamB := shuffled[:5], shuffled[5:10]

		scoreA, scoreB := rand.IntN(6), rand.IntN(6)
		m, err := store.CreateMatch(ctx, matches.NewMatch{
			Date:         today.AddDate(0, 0, -7*(i+1)).Format(time.DateOnly),
			MatchType:    pitch.MatchType5v5,
			TeamAScore:   scoreA,
			TeamBScore:   scoreB,
			TeamAPlayers: teamA,
			TeamBPlayers: teamB,
		})
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}

		for _, side := range []struct {
			team    pitch.Team
			players []string
			goals   int
		}{{pitch.TeamA, teamA, scoreA}, {pitch.TeamB, teamB, scoreB}} {
			for range side.goals {
				minute := rand.IntN(60) + 1
				_, err := store.CreateGoal(ctx, matches.NewGoal{
					MatchID:     m.ID,
					PlayerID:    side.players[rand.IntN(len(side.players))],
					Team:        side.team,
					Minute:      &minute,
					IsConfirmed: true,
				})
				if err != nil {
					return fmt.Errorf("create goal: %w", err)
				}
			}
		}

		// Seeded history must never be announced.
		if err := store.UpdateAnnouncementStatus(ctx, m.ID, matches.StatusCompleted); err != nil {
			return err
		}
		if (i+1)%10 == 0 {
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}
	return nil
}
