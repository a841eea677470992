package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

const requestTimeout = 10 * time.Second

func NewServer(deps Deps) *Server {
	server := &Server{
		Roster:         deps.Roster,
		Pitch:          deps.Pitch,
		Matches:        deps.Matches,
		Stats:          deps.Stats,
		Auth:           deps.Auth,
		Metrics:        deps.Metrics,
		MetricsHandler: deps.MetricsHandler,
		Announcer:      deps.Announcer,
		Cfg:            deps.Cfg,
		Router:         chi.NewRouter(),
		pubsub:         deps.PubSub,
		render:         render.New(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(paramsMiddleware)

	if s.MetricsHandler != nil {
		r.Handle("/metrics", s.MetricsHandler)
	}
	r.Get("/health", s.HealthCheckHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(s.sessionMiddleware)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.LoginHandler())
			r.Get("/login", s.SessionHandler())
			r.Post("/logout", s.LogoutHandler())
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.ListPlayersHandler())
			r.Post("/", s.CreatePlayerHandler())
			r.Get("/{id}", s.GetPlayerHandler())
			r.Put("/{id}", s.UpdatePlayerHandler())
			r.With(s.requireAdmin).Delete("/{id}", s.DeletePlayerHandler())
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", s.ListMatchesHandler())
			r.Post("/", s.CreateMatchHandler())
			r.Get("/{id}", s.GetMatchHandler())
			r.Put("/{id}", s.UpdateMatchHandler())
			r.Delete("/{id}", s.DeleteMatchHandler())
			r.Post("/{id}", s.CreateGoalHandler())
		})

		r.Route("/goals", func(r chi.Router) {
			r.Put("/{id}", s.UpdateGoalHandler())
			r.Delete("/{id}", s.DeleteGoalHandler())
		})

		r.Route("/pitch-state", func(r chi.Router) {
			r.Get("/", s.GetPitchStateHandler())
			r.Put("/", s.UpdatePitchStateHandler())
			r.Post("/", s.PitchActionHandler())
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.GetSettingsHandler())
			r.With(s.requireAdmin).Put("/", s.UpdateSettingsHandler())
		})

		r.Get("/stats", s.StatsHandler())
	})

	if s.Announcer != nil {
		r.Post("/process", s.ProcessMatchesHandler())
		r.Route("/pubsub", func(r chi.Router) {
			r.Post("/match-recorded", s.MatchRecordedHandler())
			r.Post("/pitch-scheduled", s.PitchScheduledHandler())
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
