package http

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/tennis-ledger/internal/notifier"
	"github.com/mauv0809/tennis-ledger/internal/session"
)

// UserHeader carries the signed-in user's id.
const UserHeader = "X-User-ID"

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

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

		// Handle 'dry_run' so notifiers only log what they would send.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := notifier.WithDryRun(r.Context(), isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userMiddleware puts the user from the X-User-ID header into the request
// context. Requests without one reach the handler signed out.
func userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithUser(r.Context(), userID)))
	})
}

// recoveryMiddleware turns a handler panic into a 500 response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Recovered from panic in handler", "panic", rec, "url", r.URL.String(), "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
