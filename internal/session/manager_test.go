// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/escalapronta/web/internal/config"
	"github.com/escalapronta/web/internal/core"
)

// memStore keeps sessions in a map so manager tests run without
// Redis.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*Session)}
}

func (s *memStore) Save(ctx context.Context, id string, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.sessions[id] = &copied
	return nil
}

func (s *memStore) Load(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrNoSession
	}
	copied := *sess
	return &copied, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func testSessionConfig() config.SessionConfig {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	return config.SessionConfig{
		CookieName:   "test_session",
		CookieSecret: base64.StdEncoding.EncodeToString(key),
		TTL:          time.Hour,
	}
}

func newTestManager(t *testing.T) (*Manager, *memStore) {
	t.Helper()

	store := newMemStore()
	m, err := NewManager(store, testSessionConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, store
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			req.AddCookie(c)
		}
	}
	return req
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)

	token := makeToken(t, map[string]any{
		"sub":       "user-1",
		"companyId": "company-1",
		"email":     "a@b.com",
	})

	rec := httptest.NewRecorder()
	created, err := m.Create(context.Background(), rec, token)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Profile.CompanyID != "company-1" {
		t.Errorf("profile decoded at creation, got %+v", created.Profile)
	}

	loaded, err := m.Get(requestWithCookies(rec))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if loaded.ID != created.ID || loaded.Token != token {
		t.Errorf("loaded = %+v, want id %s", loaded, created.ID)
	}
}

func TestGetRejectsTamperedCookie(t *testing.T) {
	m, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	if _, err := m.Create(context.Background(), rec, "tok"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	cookie := rec.Result().Cookies()[0]
	cookie.Value = "AAAA" + cookie.Value[4:]
	req.AddCookie(cookie)

	if _, err := m.Get(req); err == nil {
		t.Error("expected tampered cookie to be rejected")
	}
}

func TestGetRejectsMissingCookie(t *testing.T) {
	m, _ := newTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	if _, err := m.Get(req); err == nil {
		t.Error("expected missing cookie to be rejected")
	}
}

func TestGetRejectsStaleProfileVersion(t *testing.T) {
	m, store := newTestManager(t)

	rec := httptest.NewRecorder()
	created, err := m.Create(context.Background(), rec, "tok")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.mu.Lock()
	store.sessions[created.ID].Profile.Version = ProfileVersion - 1
	store.mu.Unlock()

	if _, err := m.Get(requestWithCookies(rec)); err == nil {
		t.Error("expected stale profile version to be rejected")
	}

	store.mu.Lock()
	_, stillThere := store.sessions[created.ID]
	store.mu.Unlock()
	if stillThere {
		t.Error("stale record should have been deleted")
	}
}

func TestDestroy(t *testing.T) {
	m, store := newTestManager(t)

	rec := httptest.NewRecorder()
	created, err := m.Create(context.Background(), rec, "tok")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := requestWithCookies(rec)
	destroyRec := httptest.NewRecorder()
	m.Destroy(context.Background(), destroyRec, req)

	store.mu.Lock()
	_, stillThere := store.sessions[created.ID]
	store.mu.Unlock()
	if stillThere {
		t.Error("record should be gone after Destroy")
	}

	cookies := destroyRec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge != -1 {
		t.Errorf("expected expiring cookie, got %+v", cookies)
	}
}

func TestFlashRoundtrip(t *testing.T) {
	m, _ := newTestManager(t)

	setRec := httptest.NewRecorder()
	m.SetFlash(setRec, FlashError, "Semanas passadas não podem ser alteradas")

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	for _, c := range setRec.Result().Cookies() {
		req.AddCookie(c)
	}

	popRec := httptest.NewRecorder()
	flash := m.PopFlash(popRec, req)
	if flash == nil {
		t.Fatal("expected a flash")
	}
	if flash.Kind != FlashError || flash.Message != "Semanas passadas não podem ser alteradas" {
		t.Errorf("flash = %+v", flash)
	}

	cookies := popRec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge != -1 {
		t.Error("PopFlash must clear the cookie")
	}
}

func TestRequireSessionRedirectsToSignup(t *testing.T) {
	m, _ := newTestManager(t)

	handler := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedule", nil))

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != SignupPath {
		t.Errorf("Location = %q, want %q", loc, SignupPath)
	}
}

func TestRequireSessionPassesSessionThrough(t *testing.T) {
	m, _ := newTestManager(t)

	createRec := httptest.NewRecorder()
	created, err := m.Create(context.Background(), createRec, "tok")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var seen *Session
	handler := m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithCookies(createRec))

	if seen == nil || seen.ID != created.ID {
		t.Errorf("context session = %+v, want id %s", seen, created.ID)
	}
}
