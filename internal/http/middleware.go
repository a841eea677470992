package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pitchboard/internal/auth"
)

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// sessionMiddleware attaches the logged-in player, if any, to the request.
// Requests without a valid session continue anonymously.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		viewer, err := s.Auth.Lookup(r.Context(), token)
		switch {
		case err == nil:
			r = r.WithContext(auth.WithViewer(r.Context(), viewer))
		case errors.Is(err, auth.ErrNoSession):
		default:
			log.Warn("Session lookup failed", "error", err)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects anonymous callers with 401 and other players with 403.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer := auth.ViewerFrom(r.Context())
		if viewer == nil {
			s.errorJSON(w, http.StatusUnauthorized, "Login required")
			return
		}
		if !viewer.IsAdmin {
			s.errorJSON(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// dryRun combines the request flag with the configured announcement mode.
func (s *Server) dryRun(r *http.Request) bool {
	return s.Cfg.Announcements.DryRun || isDryRunFromContext(r)
}
