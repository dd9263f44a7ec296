// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/escalapronta/web/internal/config"
	"github.com/escalapronta/web/internal/core"
)

// Session is the single piece of cross-page state this service owns:
// the upstream bearer token plus the profile decoded from it.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashError   = "error"
	FlashSuccess = "success"
)

// Manager owns the session lifecycle: created on login/signup,
// destroyed on logout or when the API answers 401. The browser holds
// only a sealed cookie with the session ID.
type Manager struct {
	store     Store
	key       []byte
	cfg       config.SessionConfig
	flashName string
}

func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	key, err := cfg.SecretKey()
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}

	return &Manager{
		store:     store,
		key:       key,
		cfg:       cfg,
		flashName: cfg.CookieName + "_flash",
	}, nil
}

// Create starts a session for a freshly issued bearer token. The
// profile is decoded here, once, and never re-derived per page.
func (m *Manager) Create(
	ctx context.Context,
	w http.ResponseWriter,
	token string,
) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		Profile:   DecodeProfile(token),
		CreatedAt: time.Now().UTC(),
	}

	if err := m.store.Save(ctx, sess.ID, sess, m.cfg.TTL); err != nil {
		return nil, err
	}

	sealed, err := core.Seal(m.key, []byte(sess.ID))
	if err != nil {
		return nil, fmt.Errorf("seal session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Get loads the session referenced by the request cookie. Any
// failure along the way (missing cookie, tampered seal, expired
// record, stale profile version) reads as "no session".
func (m *Manager) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return nil, core.ErrNoSession
	}

	id, err := core.Open(m.key, cookie.Value)
	if err != nil {
		return nil, core.ErrNoSession
	}

	sess, err := m.store.Load(r.Context(), string(id))
	if err != nil {
		return nil, core.ErrNoSession
	}

	if sess.Profile.Version != ProfileVersion {
		//nolint:errcheck // stale record cleanup is best-effort
		_ = m.store.Delete(r.Context(), sess.ID)
		return nil, core.ErrNoSession
	}

	return sess, nil
}

// Destroy removes the server record and expires the cookie. Used by
// logout and by every handler that sees api.ErrUnauthorized.
func (m *Manager) Destroy(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
) {
	if sess, err := m.Get(r); err == nil {
		if delErr := m.store.Delete(ctx, sess.ID); delErr != nil {
			slog.Warn("delete session record", "error", delErr)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetFlash stores a one-shot message in a sealed cookie, read and
// cleared by the next page render.
func (m *Manager) SetFlash(w http.ResponseWriter, kind, message string) {
	payload, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}

	sealed, err := core.Seal(m.key, payload)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.flashName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(m.flashName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.flashName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := core.Open(m.key, cookie.Value)
	if err != nil {
		return nil
	}

	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}

	return &flash
}
