package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/pitch"
)

func (s *Server) GetPitchStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := s.Pitch.Get(r.Context())
		if err != nil {
			s.fail(w, err, "Pitch state not found", "Failed to get pitch state")
			return
		}
		s.writeJSON(w, http.StatusOK, state)
	}
}

// UpdatePitchStateHandler applies a partial update. Setting a schedule
// announces the next game.
func (s *Server) UpdatePitchStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd pitch.Update
		if !s.decode(w, r, &upd) {
			return
		}
		state, err := s.Pitch.Update(r.Context(), upd)
		if err != nil {
			s.fail(w, err, "Pitch state not found", "Failed to update pitch state")
			return
		}
		s.Metrics.IncPitchUpdates()

		if upd.ScheduledAt.Set && state.ScheduledAt != nil && s.Announcer != nil {
			if err := s.Announcer.PitchScheduled(r.Context(), state, s.dryRun(r)); err != nil {
				log.Error("Failed to announce pitch schedule", "error", err, "scheduledAt", state.ScheduledAt)
			}
		}
		s.writeJSON(w, http.StatusOK, state)
	}
}

// PitchActionHandler handles {"action":"clear"}.
func (s *Server) PitchActionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pitchActionRequest
		if !s.decode(w, r, &req) {
			return
		}
		if req.Action != "clear" {
			s.errorJSON(w, http.StatusBadRequest, "Invalid action")
			return
		}
		state, err := s.Pitch.Clear(r.Context())
		if err != nil {
			s.fail(w, err, "Pitch state not found", "Failed to clear pitch state")
			return
		}
		s.Metrics.IncPitchClears()
		s.writeJSON(w, http.StatusOK, state)
	}
}
