// AngelaMos | 2026
// handler_test.go

package employees

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/config"
	"github.com/escalapronta/web/internal/core"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

// fakeUpstream simulates the scheduling API's employee endpoints.
type fakeUpstream struct {
	mu               sync.Mutex
	deactivateStatus int
	deactivateBody   string
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/employees":
			io.WriteString(w, `{"employees":[
				{"id":"emp-1","name":"Maria","role":"Atendente","phone":"11999990000","active":true,"workStartTime":"08:00","workEndTime":"17:00","workDays":[1,2,3]}
			]}`)

		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/deactivate"):
			f.mu.Lock()
			status, body := f.deactivateStatus, f.deactivateBody
			f.mu.Unlock()
			if status != 0 {
				w.WriteHeader(status)
				io.WriteString(w, body)
				return
			}
			io.WriteString(w, `{}`)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

type memStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func (s *memStore) Save(ctx context.Context, id string, sess *session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return nil
}

func (s *memStore) Load(ctx context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, core.ErrNoSession
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func testToken(t *testing.T) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]string{
		"sub":       "user-1",
		"companyId": "company-1",
		"email":     "a@b.com",
	})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	sig := base64.RawURLEncoding.EncodeToString([]byte("unverified"))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + sig
}

type testEnv struct {
	router  *chi.Mux
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T, upstream *fakeUpstream) *testEnv {
	t.Helper()

	srv := httptest.NewServer(upstream.handler())
	t.Cleanup(srv.Close)

	apiClient := api.New(config.APIConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})

	key := make([]byte, 32)
	store := &memStore{sessions: make(map[string]*session.Session)}
	sessions, err := session.NewManager(store, config.SessionConfig{
		CookieName:   "test_session",
		CookieSecret: base64.StdEncoding.EncodeToString(key),
		TTL:          time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	renderer, err := web.NewRenderer(config.SiteConfig{
		Name:    "EscalaPronta",
		BaseURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(apiClient, sessions, analytics.New(config.AnalyticsConfig{}, logger), renderer)

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	if _, err := sessions.Create(context.Background(), rec, testToken(t)); err != nil {
		t.Fatalf("create session: %v", err)
	}

	return &testEnv{
		router:  router,
		cookies: rec.Result().Cookies(),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, extra ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	for _, c := range extra {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestDeactivateSuccessRedirectsToList(t *testing.T) {
	env := newTestEnv(t, &fakeUpstream{})

	rec := env.do(t, http.MethodPost, "/employees/emp-1/deactivate")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/employees" {
		t.Errorf("Location = %q", loc)
	}
}

func TestDeactivateFlashesUpstreamMessage(t *testing.T) {
	env := newTestEnv(t, &fakeUpstream{
		deactivateStatus: http.StatusUnprocessableEntity,
		deactivateBody:   `{"error":"Funcionário possui turnos publicados"}`,
	})

	rec := env.do(t, http.MethodPost, "/employees/emp-1/deactivate")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test_session_flash" && c.Value != "" {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected a flash cookie on the redirect")
	}

	list := env.do(t, http.MethodGet, "/employees", flash)

	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	if !strings.Contains(list.Body.String(), "Funcionário possui turnos publicados") {
		t.Error("list page should surface the upstream message from the flash")
	}
}
