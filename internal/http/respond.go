package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/apperr"
	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/roster"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := s.render.JSON(w, status, v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func (s *Server) errorJSON(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// fail maps a store or service error to a status code. Validation and limit
// errors carry their own message; anything unrecognised is logged and
// reported with the generic failure text.
func (s *Server) fail(w http.ResponseWriter, err error, notFound, failure string) {
	var (
		invalid *apperr.ValidationError
		limit   *roster.LimitError
	)
	switch {
	case errors.As(err, &invalid):
		s.errorJSON(w, http.StatusBadRequest, invalid.Message)
	case errors.As(err, &limit):
		s.errorJSON(w, http.StatusBadRequest, limit.Error())
	case errors.Is(err, apperr.ErrNotFound):
		s.errorJSON(w, http.StatusNotFound, notFound)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoSession):
		s.errorJSON(w, http.StatusUnauthorized, "Invalid player or password")
	default:
		log.Error(failure, "error", err)
		s.errorJSON(w, http.StatusInternalServerError, failure)
	}
}

// decode reads a JSON body into v and answers 400 when it is malformed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug("Invalid request body", "error", err, "url", r.URL.String())
		s.errorJSON(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
