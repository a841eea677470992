package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/roster"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ProcessMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Announcer.ProcessMatches(r.Context(), s.dryRun(r))
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match processing completed.")
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decode(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.PlayerID) == "" {
			s.errorJSON(w, http.StatusBadRequest, "Player ID is required")
			return
		}

		session, err := s.Auth.Login(r.Context(), req.PlayerID, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.Metrics.IncLoginsFailed()
			s.errorJSON(w, http.StatusUnauthorized, "Invalid player or password")
			return
		}
		if err != nil {
			s.fail(w, err, "Player not found", "Failed to log in")
			return
		}
		s.Metrics.IncLoginsSucceeded()
		auth.SetCookie(w, session, s.Cfg.Sessions.SecureCookies)
		s.writeJSON(w, http.StatusOK, loginResponse{Success: true, Player: &session.Viewer})
	}
}

// SessionHandler reports whether the request carries a valid session.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := auth.ViewerFrom(r.Context())
		if viewer == nil {
			s.writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
			return
		}
		s.writeJSON(w, http.StatusOK, sessionResponse{Authenticated: true, Player: viewer})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Auth.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
			s.fail(w, err, "Session not found", "Failed to log out")
			return
		}
		auth.ClearCookie(w, s.Cfg.Sessions.SecureCookies)
		s.writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Roster.ListPlayers(r.Context())
		if err != nil {
			s.fail(w, err, "Players not found", "Failed to get players")
			return
		}
		s.writeJSON(w, http.StatusOK, players)
	}
}

// CreatePlayerHandler registers a player. Granting admin rights needs an admin session.
func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlayerRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.IsAdmin && !auth.IsAdmin(r.Context()) {
			s.errorJSON(w, http.StatusForbidden, "Admin access required")
			return
		}

		in := roster.NewPlayer{
			Name:               req.Name,
			PositionPreference: req.PositionPreference,
			PhotoURL:           req.PhotoURL,
			IsAdmin:            req.IsAdmin,
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				s.fail(w, err, "", "Failed to create player")
				return
			}
			in.Password = &hash
		}

		player, err := s.Roster.CreatePlayer(r.Context(), in)
		var limit *roster.LimitError
		if errors.As(err, &limit) {
			s.Metrics.IncPlayerLimitRejections()
		}
		if err != nil {
			s.fail(w, err, "Player not found", "Failed to create player")
			return
		}
		s.Metrics.IncPlayersCreated()
		s.writeJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Roster.GetPlayer(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, err, "Player not found", "Failed to get player")
			return
		}
		s.writeJSON(w, http.StatusOK, player)
	}
}

// UpdatePlayerHandler applies a partial update. An empty password clears it.
// Players may edit themselves; admins may edit anyone.
func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		viewer := auth.ViewerFrom(r.Context())
		if viewer == nil {
			s.errorJSON(w, http.StatusUnauthorized, "Login required")
			return
		}
		if viewer.ID != id && !viewer.IsAdmin {
			s.errorJSON(w, http.StatusForbidden, "You can only edit your own profile")
			return
		}

		var req updatePlayerRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.IsAdmin != nil && !auth.IsAdmin(r.Context()) {
			s.errorJSON(w, http.StatusForbidden, "Admin access required")
			return
		}

		player, err := s.Roster.UpdatePlayer(r.Context(), id, roster.PlayerUpdate{
			Name:               req.Name,
			PositionPreference: req.PositionPreference,
			PhotoURL:           req.PhotoURL,
			IsAdmin:            req.IsAdmin,
		})
		if err != nil {
			s.fail(w, err, "Player not found", "Failed to update player")
			return
		}

		if req.Password != nil {
			var hash string
			if *req.Password != "" {
				if hash, err = auth.HashPassword(*req.Password); err != nil {
					s.fail(w, err, "", "Failed to update player")
					return
				}
			}
			if err := s.Roster.SetPassword(r.Context(), id, hash); err != nil {
				s.fail(w, err, "Player not found", "Failed to update player")
				return
			}
			player.HasPassword = hash != ""
		}
		s.writeJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Roster.DeletePlayer(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.fail(w, err, "Player not found", "Failed to delete player")
			return
		}
		s.writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.Roster.GetSettings(r.Context())
		if err != nil {
			s.fail(w, err, "Settings not found", "Failed to get settings")
			return
		}
		s.writeJSON(w, http.StatusOK, settings)
	}
}

func (s *Server) UpdateSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req settingsRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.MaxPlayers == nil {
			s.errorJSON(w, http.StatusBadRequest, "maxPlayers must be a positive number")
			return
		}
		settings, err := s.Roster.UpdateMaxPlayers(r.Context(), *req.MaxPlayers)
		if err != nil {
			s.fail(w, err, "Settings not found", "Failed to update settings")
			return
		}
		s.writeJSON(w, http.StatusOK, settings)
	}
}

// StatsHandler returns the full report, or one player's line with ?playerId=.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if playerID := r.URL.Query().Get("playerId"); playerID != "" {
			ps, err := s.Stats.ForPlayer(r.Context(), playerID)
			if err != nil {
				s.fail(w, err, "Player not found", "Failed to get stats")
				return
			}
			s.writeJSON(w, http.StatusOK, ps)
			return
		}
		report, err := s.Stats.Report(r.Context())
		if err != nil {
			s.fail(w, err, "Stats not found", "Failed to get stats")
			return
		}
		s.writeJSON(w, http.StatusOK, report)
	}
}
