// AngelaMos | 2026
// middleware.go

package session

import (
	"context"
	"net/http"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	// SignupPath is where unauthenticated visitors land, matching the
	// product's onboarding funnel (signup, not login).
	SignupPath = "/signup"

	// HomePath is the main authenticated route.
	HomePath = "/schedule"
)

// RequireSession guards protected pages: visitors without a session
// are sent to signup, everyone else proceeds with the session in
// context.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Get(r)
		if err != nil {
			http.Redirect(w, r, SignupPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RedirectIfAuthenticated keeps signed-in users off the public auth
// pages.
func (m *Manager) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := m.Get(r); err == nil {
			http.Redirect(w, r, HomePath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoadSession attaches the session when present without guarding the
// route; public pages use it to vary navigation.
func (m *Manager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, err := m.Get(r); err == nil {
			r = r.WithContext(WithSession(r.Context(), sess))
		}

		next.ServeHTTP(w, r)
	})
}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func FromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey).(*Session); ok {
		return sess
	}
	return nil
}

func Token(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.Token
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return FromContext(ctx) != nil
}

// Expire is the shared 401 reaction: destroy the session and bounce
// the browser to signup.
func (m *Manager) Expire(w http.ResponseWriter, r *http.Request) {
	m.Destroy(r.Context(), w, r)
	http.Redirect(w, r, SignupPath, http.StatusFound)
}
