package middleware

import (
	"context"
	"net/http"

	"github.com/Fokku/flightbooker/internal/domain"
	"github.com/Fokku/flightbooker/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithSession loads the cookie session once per request and stashes it in the
// context. Handlers that mutate it are responsible for saving it back.
func WithSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := m.Load(r)
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the request session. Panics if WithSession is
// not in the chain; that is a wiring bug, not a runtime condition.
func SessionFromContext(ctx context.Context) *domain.Session {
	return ctx.Value(sessionKey).(*domain.Session)
}
