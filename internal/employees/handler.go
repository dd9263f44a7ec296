// AngelaMos | 2026
// handler.go

package employees

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/schedule"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

// Handler serves the roster: list, create, edit, deactivate. After
// every successful mutation the browser is redirected back to the
// list, so the view is always a fresh fetch of server state.
type Handler struct {
	api       *api.Client
	sessions  *session.Manager
	analytics *analytics.Client
	renderer  *web.Renderer
	validator *validator.Validate
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
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(h.sessions.RequireSession)
		r.Get("/", h.List)
		r.Get("/new", h.NewPage)
		r.Post("/", h.Create)
		r.Get("/{id}/edit", h.EditPage)
		r.Post("/{id}", h.Update)
		r.Get("/{id}/deactivate", h.DeactivatePage)
		r.Post("/{id}/deactivate", h.Deactivate)
	})
}

type listView struct {
	Employees []employeeRow
	Error     string
	Paywall   string
}

type employeeRow struct {
	api.Employee
	WorkDaysLabel string
}

type formView struct {
	Form    Form
	ID      string
	Editing bool
	Error   string
}

type confirmView struct {
	Employee api.Employee
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	list, err := h.api.ListEmployees(r.Context(), sess.Token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.renderList(w, r, http.StatusBadGateway, listView{
			Error: "Erro ao carregar funcionários",
		})
		return
	}

	view := listView{Paywall: paywallParam(r)}
	for _, e := range list {
		view.Employees = append(view.Employees, employeeRow{
			Employee:      e,
			WorkDaysLabel: schedule.FormatWorkDays(e.WorkDays),
		})
	}

	if flash := h.sessions.PopFlash(w, r); flash != nil && flash.Kind == session.FlashError {
		view.Error = flash.Message
	}

	h.renderList(w, r, http.StatusOK, view)
}

func (h *Handler) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, formView{Form: NewForm()})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, formView{
			Form:  NewForm(),
			Error: "Requisição inválida",
		})
		return
	}

	form := ParseForm(r)
	if msg := form.Validate(h.validator); msg != "" {
		h.renderForm(w, http.StatusUnprocessableEntity, formView{
			Form:  form,
			Error: msg,
		})
		return
	}

	if err := h.api.CreateEmployee(r.Context(), sess.Token, form.Input()); err != nil {
		h.handleMutationError(w, r, err, "employees", func(msg string) {
			h.renderForm(w, http.StatusUnprocessableEntity, formView{
				Form:  form,
				Error: msg,
			})
		})
		return
	}

	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	employee, err := h.findEmployee(r, sess.Token, id)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.sessions.SetFlash(w, session.FlashError, "Funcionário não encontrado")
		http.Redirect(w, r, "/employees", http.StatusSeeOther)
		return
	}

	h.renderForm(w, http.StatusOK, formView{
		Form:    FormFromEmployee(*employee),
		ID:      employee.ID,
		Editing: true,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		h.sessions.SetFlash(w, session.FlashError, "Requisição inválida")
		http.Redirect(w, r, "/employees", http.StatusSeeOther)
		return
	}

	form := ParseForm(r)
	if msg := form.Validate(h.validator); msg != "" {
		h.renderForm(w, http.StatusUnprocessableEntity, formView{
			Form:    form,
			ID:      id,
			Editing: true,
			Error:   msg,
		})
		return
	}

	if err := h.api.UpdateEmployee(r.Context(), sess.Token, id, form.Input()); err != nil {
		h.handleMutationError(w, r, err, "employees", func(msg string) {
			h.renderForm(w, http.StatusUnprocessableEntity, formView{
				Form:    form,
				ID:      id,
				Editing: true,
				Error:   msg,
			})
		})
		return
	}

	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

// DeactivatePage is the first half of the two-step confirmation:
// deactivation is irreversible from this UI.
func (h *Handler) DeactivatePage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	employee, err := h.findEmployee(r, sess.Token, id)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.sessions.SetFlash(w, session.FlashError, "Funcionário não encontrado")
		http.Redirect(w, r, "/employees", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "employee_deactivate.html", &web.Page{
		Title:         "Desativar funcionário — EscalaPronta",
		Path:          "/employees/" + id + "/deactivate",
		NoIndex:       true,
		Authenticated: true,
		Data:          confirmView{Employee: *employee},
	})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.api.DeactivateEmployee(r.Context(), sess.Token, id); err != nil {
		h.handleMutationError(w, r, err, "employees", func(msg string) {
			h.sessions.SetFlash(w, session.FlashError, msg)
			http.Redirect(w, r, "/employees", http.StatusSeeOther)
		})
		return
	}

	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

// findEmployee resolves one record from the list endpoint; the API
// exposes no GET by id.
func (h *Handler) findEmployee(
	r *http.Request,
	token, id string,
) (*api.Employee, error) {
	list, err := h.api.ListEmployees(r.Context(), token)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}

	return nil, api.ErrNotFound
}

// handleMutationError maps the shared error taxonomy: 401 expires
// the session, a paywall code reopens the list with the prompt, and
// anything else re-renders inline through onFailure.
func (h *Handler) handleMutationError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	feature string,
	onFailure func(msg string),
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
		http.Redirect(w, r, "/employees?paywall="+pw.Kind(), http.StatusSeeOther)
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		onFailure(apiErr.Message)
		return
	}

	onFailure("Erro ao salvar")
}

func (h *Handler) renderList(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	view listView,
) {
	h.renderer.Render(w, status, "employees.html", &web.Page{
		Title:         "Funcionários — EscalaPronta",
		Path:          "/employees",
		NoIndex:       true,
		Authenticated: true,
		Data:          view,
	})
}

func (h *Handler) renderForm(w http.ResponseWriter, status int, view formView) {
	title := "Novo funcionário — EscalaPronta"
	if view.Editing {
		title = "Editar funcionário — EscalaPronta"
	}

	h.renderer.Render(w, status, "employee_form.html", &web.Page{
		Title:         title,
		Path:          "/employees",
		NoIndex:       true,
		Authenticated: true,
		Data:          view,
	})
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
