package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/matches"
)

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Matches.ListMatches(r.Context())
		if err != nil {
			s.fail(w, err, "Matches not found", "Failed to get matches")
			return
		}
		s.writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.Date == nil || req.MatchType == nil || req.TeamAScore == nil || req.TeamBScore == nil {
			s.errorJSON(w, http.StatusBadRequest, "Date, match type and scores are required")
			return
		}

		match, err := s.Matches.CreateMatch(r.Context(), matches.NewMatch{
			Date:           *req.Date,
			MatchType:      *req.MatchType,
			TeamAScore:     *req.TeamAScore,
			TeamBScore:     *req.TeamBScore,
			TeamAFormation: req.TeamAFormation,
			TeamBFormation: req.TeamBFormation,
			TeamAPlayers:   req.TeamAPlayers,
			TeamBPlayers:   req.TeamBPlayers,
			Notes:          req.Notes,
		})
		if err != nil {
			s.fail(w, err, "Match not found", "Failed to create match")
			return
		}
		s.writeJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, err, "Match not found", "Failed to get match")
			return
		}
		s.writeJSON(w, http.StatusOK, matchResponse{Match: m.Match, Goals: m.Goals})
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if !s.decode(w, r, &req) {
			return
		}
		match, err := s.Matches.UpdateMatch(r.Context(), chi.URLParam(r, "id"), matches.MatchUpdate{
			Date:           req.Date,
			MatchType:      req.MatchType,
			TeamAScore:     req.TeamAScore,
			TeamBScore:     req.TeamBScore,
			TeamAFormation: req.TeamAFormation,
			TeamBFormation: req.TeamBFormation,
			TeamAPlayers:   req.TeamAPlayers,
			TeamBPlayers:   req.TeamBPlayers,
			Notes:          req.Notes,
		})
		if err != nil {
			s.fail(w, err, "Match not found", "Failed to update match")
			return
		}
		s.writeJSON(w, http.StatusOK, match)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Matches.DeleteMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.fail(w, err, "Match not found", "Failed to delete match")
			return
		}
		s.writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

// CreateGoalHandler adds a goal to the match. Goals from anyone but an admin
// are stored pending.
func (s *Server) CreateGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGoalRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.PlayerID == "" || req.Team == "" {
			s.errorJSON(w, http.StatusBadRequest, "Player and team are required")
			return
		}

		goal, err := s.Matches.CreateGoal(r.Context(), matches.NewGoal{
			MatchID:     chi.URLParam(r, "id"),
			PlayerID:    req.PlayerID,
			Minute:      req.Minute,
			Team:        req.Team,
			IsConfirmed: req.IsConfirmed && auth.IsAdmin(r.Context()),
			VideoURL:    req.VideoURL,
		})
		if err != nil {
			s.fail(w, err, "Match not found", "Failed to create goal")
			return
		}
		s.Metrics.IncGoalsRecorded()
		s.writeJSON(w, http.StatusCreated, goal)
	}
}

// UpdateGoalHandler edits a goal. Changing the confirmation needs an admin session.
func (s *Server) UpdateGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateGoalRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.IsConfirmed != nil && !auth.IsAdmin(r.Context()) {
			s.errorJSON(w, http.StatusForbidden, "Admin access required")
			return
		}

		goal, err := s.Matches.UpdateGoal(r.Context(), chi.URLParam(r, "id"), matches.GoalUpdate{
			Minute:      req.Minute,
			IsConfirmed: req.IsConfirmed,
			VideoURL:    req.VideoURL,
		})
		if err != nil {
			s.fail(w, err, "Goal not found", "Failed to update goal")
			return
		}
		if req.IsConfirmed != nil {
			s.Metrics.IncGoalConfirmations()
		}
		s.writeJSON(w, http.StatusOK, goal)
	}
}

func (s *Server) DeleteGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Matches.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.fail(w, err, "Goal not found", "Failed to delete goal")
			return
		}
		s.writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
