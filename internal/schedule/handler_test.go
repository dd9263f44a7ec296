// AngelaMos | 2026
// handler_test.go

package schedule

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

// The clock is pinned so "the current week" is 2024-01-08.
var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

const (
	currentWeek = "2024-01-08"
	pastWeek    = "2023-12-25"
)

// fakeUpstream simulates the scheduling API and records every call it
// receives.
type fakeUpstream struct {
	mu          sync.Mutex
	calls       []string
	hasSchedule bool
	shiftStatus int
	shiftBody   string
}

func (f *fakeUpstream) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeUpstream) received(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/employees":
			io.WriteString(w, `{"employees":[
				{"id":"emp-1","name":"Maria","role":"Atendente","phone":"11999990000","active":true,"workStartTime":"08:00","workEndTime":"17:00","workDays":[1,2,3]},
				{"id":"emp-2","name":"Zed Inativo","role":"Caixa","phone":"11988880000","active":false,"workStartTime":"08:00","workEndTime":"17:00","workDays":[4,5]}
			]}`)

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/schedules/"):
			f.mu.Lock()
			has := f.hasSchedule
			f.mu.Unlock()
			if !has {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			io.WriteString(w, `{
				"schedule":{"id":"sch-1","weekStart":"2024-01-08","weekEnd":"2024-01-14"},
				"shifts":[{"id":"sh-1","dayOfWeek":1,"startTime":"08:00","endTime":"12:00","scheduleId":"sch-1","employeeId":"emp-1"}]
			}`)

		case r.Method == http.MethodPost && r.URL.Path == "/schedules":
			f.mu.Lock()
			f.hasSchedule = true
			f.mu.Unlock()
			io.WriteString(w, `{"schedule":{"id":"sch-1","weekStart":"2024-01-08","weekEnd":"2024-01-14"}}`)

		case r.Method == http.MethodPost && r.URL.Path == "/shifts":
			f.mu.Lock()
			status, body := f.shiftStatus, f.shiftBody
			f.mu.Unlock()
			if status != 0 {
				w.WriteHeader(status)
				io.WriteString(w, body)
				return
			}
			io.WriteString(w, `{"shift":{"id":"sh-2","dayOfWeek":1,"startTime":"13:00","endTime":"17:00","scheduleId":"sch-1","employeeId":"emp-1"}}`)

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/auto-generate"):
			io.WriteString(w, `{}`)

		case r.Method == http.MethodDelete:
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
	store   *memStore
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
	h.now = func() time.Time { return testNow }

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	if _, err := sessions.Create(context.Background(), rec, testToken(t)); err != nil {
		t.Fatalf("create session: %v", err)
	}

	return &testEnv{
		router:  router,
		cookies: rec.Result().Cookies(),
		store:   store,
	}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(t *testing.T, path string, form string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestWeekViewEmptyWhenNoScheduleExists(t *testing.T) {
	upstream := &fakeUpstream{}
	env := newTestEnv(t, upstream)

	rec := env.get(t, "/schedule?week="+currentWeek)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Segunda") || !strings.Contains(body, "Domingo") {
		t.Error("calendar columns missing from the page")
	}
	if upstream.received("POST /schedules") {
		t.Error("a plain view must not create a schedule")
	}
}

func TestWeekViewExcludesInactiveEmployees(t *testing.T) {
	upstream := &fakeUpstream{hasSchedule: true}
	env := newTestEnv(t, upstream)

	rec := env.get(t, "/schedule?week="+currentWeek)

	body := rec.Body.String()
	if !strings.Contains(body, "Maria") {
		t.Error("active employee missing from the shift selector")
	}
	if strings.Contains(body, "Zed Inativo") {
		t.Error("inactive employee must not appear in the shift selector")
	}
}

func TestAddShiftCreatesScheduleFirst(t *testing.T) {
	upstream := &fakeUpstream{}
	env := newTestEnv(t, upstream)

	rec := env.post(t, "/schedule/shifts",
		"week="+currentWeek+"&employeeId=emp-1&dayOfWeek=1&startTime=13:00&endTime=17:00")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if !upstream.received("POST /schedules") {
		t.Error("schedule must be created before the first shift")
	}
	if !upstream.received("POST /shifts") {
		t.Error("shift was never created")
	}
	if loc := rec.Header().Get("Location"); loc != "/schedule?week="+currentWeek {
		t.Errorf("Location = %q", loc)
	}
}

func TestAddShiftRejectsEndBeforeStart(t *testing.T) {
	upstream := &fakeUpstream{}
	env := newTestEnv(t, upstream)

	rec := env.post(t, "/schedule/shifts",
		"week="+currentWeek+"&employeeId=emp-1&dayOfWeek=1&startTime=17:00&endTime=08:00")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if upstream.received("POST /shifts") || upstream.received("POST /schedules") {
		t.Error("invalid times must never reach the upstream API")
	}
}

func TestAddShiftRequiresEmployee(t *testing.T) {
	upstream := &fakeUpstream{}
	env := newTestEnv(t, upstream)

	env.post(t, "/schedule/shifts",
		"week="+currentWeek+"&employeeId=&dayOfWeek=1&startTime=08:00&endTime=12:00")

	if upstream.received("POST /shifts") {
		t.Error("a shift without an employee must never reach the upstream API")
	}
}

func TestPastWeekMutationsRejected(t *testing.T) {
	upstream := &fakeUpstream{hasSchedule: true}
	env := newTestEnv(t, upstream)

	paths := map[string]string{
		"/schedule/generate": "week=" + pastWeek,
		"/schedule/shifts":   "week=" + pastWeek + "&employeeId=emp-1&dayOfWeek=1&startTime=08:00&endTime=12:00",
		"/schedule/clear":    "week=" + pastWeek,
	}

	for path, form := range paths {
		rec := env.post(t, path, form)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("POST %s status = %d, want 303", path, rec.Code)
		}
	}

	for _, call := range []string{"POST /shifts", "POST /schedules/sch-1/auto-generate", "DELETE /shifts/schedule/sch-1/all"} {
		if upstream.received(call) {
			t.Errorf("past week reached the upstream API: %s", call)
		}
	}
}

func TestPaywallRedirect(t *testing.T) {
	upstream := &fakeUpstream{
		hasSchedule: true,
		shiftStatus: http.StatusForbidden,
		shiftBody:   `{"error":"limite do plano","code":"PLAN_LIMIT_EXCEEDED"}`,
	}
	env := newTestEnv(t, upstream)

	rec := env.post(t, "/schedule/shifts",
		"week="+currentWeek+"&employeeId=emp-1&dayOfWeek=1&startTime=13:00&endTime=17:00")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "paywall=PLAN_LIMIT_REACHED") {
		t.Errorf("Location = %q, want paywall=PLAN_LIMIT_REACHED", loc)
	}
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	upstream := &fakeUpstream{}
	env := newTestEnv(t, upstream)

	// Rewire the env's upstream to one that always answers 401 by
	// pointing a fresh router at it.
	apiClient := api.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})

	key := make([]byte, 32)
	sessions, err := session.NewManager(env.store, config.SessionConfig{
		CookieName:   "test_session",
		CookieSecret: base64.StdEncoding.EncodeToString(key),
		TTL:          time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	renderer, err := web.NewRenderer(config.SiteConfig{Name: "EscalaPronta", BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(apiClient, sessions, analytics.New(config.AnalyticsConfig{}, logger), renderer)
	h.now = func() time.Time { return testNow }

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/schedule?week="+currentWeek, nil)
	for _, c := range env.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != session.SignupPath {
		t.Errorf("Location = %q, want %q", loc, session.SignupPath)
	}

	env.store.mu.Lock()
	remaining := len(env.store.sessions)
	env.store.mu.Unlock()
	if remaining != 0 {
		t.Error("session record should be destroyed after a 401")
	}
}

func TestPastWeekHidesControls(t *testing.T) {
	upstream := &fakeUpstream{hasSchedule: true}
	env := newTestEnv(t, upstream)

	rec := env.get(t, "/schedule?week="+pastWeek)

	body := rec.Body.String()
	if strings.Contains(body, "/schedule/generate") {
		t.Error("past weeks must not offer the generate button")
	}
	if strings.Contains(body, "Adicionar turno") {
		t.Error("past weeks must not offer the add-shift form")
	}
}
