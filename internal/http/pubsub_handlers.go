package http

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/pubsub"
)

// MatchRecordedHandler is the push endpoint for match-recorded events.
func (s *Server) MatchRecordedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var evt pubsub.MatchRecorded
		if !s.decodePush(w, r, &evt) {
			return
		}
		if err := s.Announcer.NotifyMatchResult(r.Context(), evt.MatchID, s.dryRun(r)); err != nil {
			log.Error("Failed to notify result", "error", err, "matchID", evt.MatchID)
			http.Error(w, "Failed to notify result", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "OK")
	}
}

// PitchScheduledHandler is the push endpoint for pitch-scheduled events.
func (s *Server) PitchScheduledHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var evt pubsub.PitchScheduled
		if !s.decodePush(w, r, &evt) {
			return
		}
		if err := s.Announcer.NotifyPitchSchedule(r.Context(), evt, s.dryRun(r)); err != nil {
			log.Error("Failed to notify pitch schedule", "error", err, "scheduledAt", evt.ScheduledAt)
			http.Error(w, "Failed to notify pitch schedule", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "OK")
	}
}

// decodePush unwraps a Pub/Sub push envelope into out.
func (s *Server) decodePush(w http.ResponseWriter, r *http.Request, out any) bool {
	var envelope pushEnvelope
	if !s.decode(w, r, &envelope) {
		return false
	}
	log.Debug("Received push message", "subscription", envelope.Subscription)

	rawData, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return false
	}

	decode := pubsub.Decode
	if s.pubsub != nil {
		decode = s.pubsub.ProcessMessage
	}
	if err := decode(rawData, out); err != nil {
		http.Error(w, "Invalid message payload", http.StatusBadRequest)
		return false
	}
	return true
}
