package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/itbasis/go-clock"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/config"
	"github.com/mauv0809/pitchboard/internal/database"
	server "github.com/mauv0809/pitchboard/internal/http"
	"github.com/mauv0809/pitchboard/internal/matches"
	"github.com/mauv0809/pitchboard/internal/metrics"
	"github.com/mauv0809/pitchboard/internal/notifier/slack"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/processor"
	"github.com/mauv0809/pitchboard/internal/pubsub"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/mauv0809/pitchboard/internal/scheduler"
	"github.com/mauv0809/pitchboard/internal/stats"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}
	if !cfg.IsProduction() {
		log.SetLevel(log.DebugLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.New()
	rosterStore := roster.New(db, clk)
	pitchStore := pitch.New(db, clk)
	matchStore := matches.New(db, clk)
	statsAgg := stats.New(rosterStore, matchStore)
	authSvc := auth.New(db, rosterStore, clk, cfg.Sessions.TTL)

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	if cfg.Slack.Token == "" && !cfg.Announcements.DryRun {
		log.Warn("SLACK_BOT_TOKEN is not set, announcements run in dry-run mode")
		cfg.Announcements.DryRun = true
	}
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	var ps pubsub.PubSubClient
	if cfg.ProjectID != "" {
		client, err := pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer client.Close()
		ps = client
	} else {
		log.Info("GCP_PROJECT is not set, announcements are sent inline")
	}

	proc := processor.New(processor.Stores{
		Matches: matchStore,
		Players: rosterStore,
		Pitch:   pitchStore,
		Stats:   statsAgg,
	}, notifier, metricsSvc, ps, clk)

	sched, err := scheduler.New()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	jobs := scheduler.Jobs{Auth: authSvc, Announcer: proc, Metrics: metricsSvc}
	if err := jobs.Register(sched, cfg); err != nil {
		log.Fatalf("Failed to register jobs: %s", err)
	}

	s := server.NewServer(server.Deps{
		Roster:         rosterStore,
		Pitch:          pitchStore,
		Matches:        matchStore,
		Stats:          statsAgg,
		Auth:           authSvc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Announcer:      proc,
		PubSub:         ps,
		Cfg:            cfg,
	})

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		log.Info("Shutdown signal received")

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sched.Stop(); err != nil {
			log.Error("Scheduler shutdown failed", "error", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("Server gracefully stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error", "error", err)
	}
	log.Info("Server process shutting down")
}
