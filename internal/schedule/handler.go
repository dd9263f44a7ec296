// AngelaMos | 2026
// handler.go

package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

// Handler serves the weekly calendar. The view is keyed entirely by
// the ?week query parameter, so every render reflects exactly one
// week's server state and stale responses cannot bleed into another
// week's page.
type Handler struct {
	api       *api.Client
	sessions  *session.Manager
	analytics *analytics.Client
	renderer  *web.Renderer
	now       func() time.Time
}

func NewHandler(
	apiClient *api.Client,
	sessions *session.Manager,
	analyticsClient *analytics.Client,
	renderer *web.Renderer,
) *Handler {
	return &Handler{
		api:       apiClient,
		sessions:  sessions,
		analytics: analyticsClient,
		renderer:  renderer,
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.Use(h.sessions.RequireSession)
		r.Get("/", h.Week)
		r.Post("/generate", h.Generate)
		r.Post("/shifts", h.AddShift)
		r.Get("/shifts/{id}/delete", h.DeleteShiftPage)
		r.Post("/shifts/{id}/delete", h.DeleteShift)
		r.Get("/clear", h.ClearPage)
		r.Post("/clear", h.Clear)
	})
}

type weekView struct {
	WeekStart   string
	WeekLabel   string
	PrevWeek    string
	NextWeek    string
	HasSchedule bool
	ScheduleID  string
	Days        []dayView
	Employees   []api.Employee
	ShiftCount  int
	ReadOnly    bool
	Error       string
	Paywall     string
}

type dayView struct {
	Label  string
	Date   string
	Shifts []shiftView
}

type shiftView struct {
	api.Shift
	EmployeeName string
}

type deleteShiftView struct {
	WeekStart string
	Shift     shiftView
	DayLabel  string
}

type clearView struct {
	WeekStart  string
	ShiftCount int
}

func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	weekStart := h.resolveWeek(r.URL.Query().Get("week"))
	weekStr := FormatDate(weekStart)

	week, err := h.api.GetWeek(r.Context(), sess.Token, weekStr)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.renderWeek(w, http.StatusBadGateway, weekView{
			WeekStart: weekStr,
			WeekLabel: weekLabel(weekStart),
			PrevWeek:  FormatDate(AddDays(weekStart, -7)),
			NextWeek:  FormatDate(AddDays(weekStart, 7)),
			ReadOnly:  IsPastWeek(weekStart, h.now()),
			Error:     "Erro ao carregar a escala",
		})
		return
	}

	staff, err := h.api.ListEmployees(r.Context(), sess.Token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		staff = nil
	}

	view := h.buildWeekView(weekStart, week, staff)
	view.Paywall = paywallParam(r)

	if flash := h.sessions.PopFlash(w, r); flash != nil && flash.Kind == session.FlashError {
		view.Error = flash.Message
	}

	h.renderWeek(w, http.StatusOK, view)
}

// Generate runs the automatic assignment: ensure the week's schedule
// exists, then hand the active employees to the server-side
// algorithm. The result is never interpreted here; the redirect
// refetches the week.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	weekStart, ok := h.mutableWeek(w, r)
	if !ok {
		return
	}
	weekStr := FormatDate(weekStart)

	staff, err := h.api.ListEmployees(r.Context(), sess.Token)
	if err != nil {
		h.handleMutationError(w, r, err, weekStr, "auto_generate", "Erro ao gerar escala automaticamente")
		return
	}

	var employeeIDs []string
	for _, e := range staff {
		if e.Active {
			employeeIDs = append(employeeIDs, e.ID)
		}
	}
	if len(employeeIDs) == 0 {
		h.sessions.SetFlash(w, session.FlashError, "Cadastre funcionários ativos antes de gerar a escala")
		http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
		return
	}

	sched, err := h.ensureSchedule(r, sess, weekStr)
	if err != nil {
		h.handleMutationError(w, r, err, weekStr, "auto_generate", "Erro ao gerar escala automaticamente")
		return
	}

	if err := h.api.AutoGenerate(r.Context(), sess.Token, sched.ID, employeeIDs); err != nil {
		h.handleMutationError(w, r, err, weekStr, "auto_generate", "Erro ao gerar escala automaticamente")
		return
	}

	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

func (h *Handler) AddShift(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	weekStart, ok := h.mutableWeek(w, r)
	if !ok {
		return
	}
	weekStr := FormatDate(weekStart)

	employeeID := r.PostFormValue("employeeId")
	startTime := r.PostFormValue("startTime")
	endTime := r.PostFormValue("endTime")
	dayOfWeek, dayErr := strconv.Atoi(r.PostFormValue("dayOfWeek"))

	// Local validation happens before any upstream call: an invalid
	// shift never reaches the API.
	switch {
	case employeeID == "":
		h.rejectWeek(w, r, weekStr, "Selecione um funcionário")
		return
	case dayErr != nil || dayOfWeek < 0 || dayOfWeek > 6:
		h.rejectWeek(w, r, weekStr, "Dia da semana inválido")
		return
	}
	if msg := ValidateShiftTimes(startTime, endTime); msg != "" {
		h.rejectWeek(w, r, weekStr, msg)
		return
	}

	sched, err := h.ensureSchedule(r, sess, weekStr)
	if err != nil {
		h.handleMutationError(w, r, err, weekStr, "shifts", "Erro ao adicionar turno")
		return
	}

	input := api.ShiftInput{
		ScheduleID: sched.ID,
		EmployeeID: employeeID,
		DayOfWeek:  dayOfWeek,
		StartTime:  startTime,
		EndTime:    endTime,
	}
	if _, err := h.api.CreateShift(r.Context(), sess.Token, input); err != nil {
		h.handleMutationError(w, r, err, weekStr, "shifts", "Erro ao adicionar turno")
		return
	}

	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

// DeleteShiftPage is the confirmation step before removing one shift.
func (h *Handler) DeleteShiftPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	shiftID := chi.URLParam(r, "id")
	weekStart := h.resolveWeek(r.URL.Query().Get("week"))
	weekStr := FormatDate(weekStart)

	week, err := h.api.GetWeek(r.Context(), sess.Token, weekStr)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
		return
	}

	for _, shift := range week.Shifts {
		if shift.ID != shiftID {
			continue
		}

		sv := shiftView{Shift: shift}
		if shift.Employee != nil {
			sv.EmployeeName = shift.Employee.Name
		}

		h.renderer.Render(w, http.StatusOK, "shift_delete.html", &web.Page{
			Title:         "Remover turno — EscalaPronta",
			Path:          "/schedule/shifts/" + shiftID + "/delete",
			NoIndex:       true,
			Authenticated: true,
			Data: deleteShiftView{
				WeekStart: weekStr,
				Shift:     sv,
				DayLabel:  dayLabel(shift.DayOfWeek),
			},
		})
		return
	}

	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	shiftID := chi.URLParam(r, "id")

	weekStart, ok := h.mutableWeek(w, r)
	if !ok {
		return
	}
	weekStr := FormatDate(weekStart)

	if err := h.api.DeleteShift(r.Context(), sess.Token, shiftID); err != nil {
		h.handleMutationError(w, r, err, weekStr, "shifts", "Erro ao remover turno")
		return
	}

	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

// ClearPage confirms the bulk removal of every shift in the week.
func (h *Handler) ClearPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	weekStart := h.resolveWeek(r.URL.Query().Get("week"))
	weekStr := FormatDate(weekStart)

	week, err := h.api.GetWeek(r.Context(), sess.Token, weekStr)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "schedule_clear.html", &web.Page{
		Title:         "Limpar escala — EscalaPronta",
		Path:          "/schedule/clear",
		NoIndex:       true,
		Authenticated: true,
		Data: clearView{
			WeekStart:  weekStr,
			ShiftCount: len(week.Shifts),
		},
	})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	weekStart, ok := h.mutableWeek(w, r)
	if !ok {
		return
	}
	weekStr := FormatDate(weekStart)

	week, err := h.api.GetWeek(r.Context(), sess.Token, weekStr)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
			return
		}
		h.handleMutationError(w, r, err, weekStr, "shifts", "Erro ao limpar a escala")
		return
	}

	if err := h.api.ClearShifts(r.Context(), sess.Token, week.Schedule.ID); err != nil {
		h.handleMutationError(w, r, err, weekStr, "shifts", "Erro ao limpar a escala")
		return
	}

	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

// ensureSchedule is the create-then-act step shared by every
// mutation: the week's schedule record is created on first use.
func (h *Handler) ensureSchedule(
	r *http.Request,
	sess *session.Session,
	weekStr string,
) (*api.Schedule, error) {
	week, err := h.api.GetWeek(r.Context(), sess.Token, weekStr)
	if err == nil {
		return &week.Schedule, nil
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}

	return h.api.CreateSchedule(r.Context(), sess.Token, weekStr, sess.Profile.CompanyID)
}

// resolveWeek maps any ?week value onto a Monday; garbage or absence
// falls back to the current week.
func (h *Handler) resolveWeek(raw string) time.Time {
	if raw != "" {
		if t, err := ParseDate(raw); err == nil {
			return Monday(t)
		}
	}
	return Monday(h.now())
}

// mutableWeek parses the posted week and rejects writes to past
// weeks. Hiding the controls in the template is not enough; the
// server is the authority.
func (h *Handler) mutableWeek(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	if err := r.ParseForm(); err != nil {
		h.sessions.SetFlash(w, session.FlashError, "Requisição inválida")
		http.Redirect(w, r, "/schedule", http.StatusSeeOther)
		return time.Time{}, false
	}

	weekStart := h.resolveWeek(r.PostFormValue("week"))
	if IsPastWeek(weekStart, h.now()) {
		h.sessions.SetFlash(w, session.FlashError, "Semanas passadas não podem ser alteradas")
		http.Redirect(w, r, "/schedule?week="+FormatDate(weekStart), http.StatusSeeOther)
		return time.Time{}, false
	}

	return weekStart, true
}

func (h *Handler) rejectWeek(w http.ResponseWriter, r *http.Request, weekStr, msg string) {
	h.sessions.SetFlash(w, session.FlashError, msg)
	http.Redirect(w, r, "/schedule?week="+weekStr, http.StatusSeeOther)
}

func (h *Handler) handleMutationError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	weekStr, feature, fallback string,
) {
	if errors.Is(err, api.ErrUnauthorized) {
		h.sessions.Expire(w, r)
		return
	}

	if pw, ok := api.AsPaywall(err); ok {
		sess := session.FromContext(r.Context())
		clientID := ""
		if sess != nil {
			clientID = sess.ID
		}
		h.analytics.Track(clientID, analytics.EventPaywallShown, map[string]any{
			"feature": feature,
			"reason":  pw.Code,
		})
		http.Redirect(w, r, "/schedule?week="+weekStr+"&paywall="+pw.Kind(), http.StatusSeeOther)
		return
	}

	msg := fallback
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}

	h.rejectWeek(w, r, weekStr, msg)
}

func (h *Handler) buildWeekView(
	weekStart time.Time,
	week *api.WeekSchedule,
	staff []api.Employee,
) weekView {
	view := weekView{
		WeekStart: FormatDate(weekStart),
		WeekLabel: weekLabel(weekStart),
		PrevWeek:  FormatDate(AddDays(weekStart, -7)),
		NextWeek:  FormatDate(AddDays(weekStart, 7)),
		ReadOnly:  IsPastWeek(weekStart, h.now()),
	}

	names := make(map[string]string, len(staff))
	for _, e := range staff {
		names[e.ID] = e.Name
		if e.Active {
			view.Employees = append(view.Employees, e)
		}
	}

	byDay := make(map[int][]shiftView)
	if week != nil {
		view.HasSchedule = true
		view.ScheduleID = week.Schedule.ID
		view.ShiftCount = len(week.Shifts)

		for _, shift := range week.Shifts {
			sv := shiftView{Shift: shift, EmployeeName: names[shift.EmployeeID]}
			if sv.EmployeeName == "" && shift.Employee != nil {
				sv.EmployeeName = shift.Employee.Name
			}
			byDay[shift.DayOfWeek] = append(byDay[shift.DayOfWeek], sv)
		}
	}

	for i, col := range WeekColumns {
		view.Days = append(view.Days, dayView{
			Label:  col.Label,
			Date:   FormatDisplayDate(AddDays(weekStart, i)),
			Shifts: byDay[col.Key],
		})
	}

	return view
}

func (h *Handler) renderWeek(w http.ResponseWriter, status int, view weekView) {
	h.renderer.Render(w, status, "schedule.html", &web.Page{
		Title:         "Escala da semana — EscalaPronta",
		Path:          "/schedule",
		NoIndex:       true,
		Authenticated: true,
		Data:          view,
	})
}

func weekLabel(weekStart time.Time) string {
	return FormatDisplayDate(weekStart) + " – " + FormatDisplayDate(AddDays(weekStart, 6))
}

func dayLabel(day int) string {
	for _, col := range WeekColumns {
		if col.Key == day {
			return col.Label
		}
	}
	return ""
}

func paywallParam(r *http.Request) string {
	switch r.URL.Query().Get("paywall") {
	case api.CodePlanLimitReached:
		return api.CodePlanLimitReached
	case api.CodeFeatureNotAvailable:
		return api.CodeFeatureNotAvailable
	}
	return ""
}
