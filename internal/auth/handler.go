// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

// defaultSegment backs the signup form: the registration endpoint
// wants a business segment but the form does not ask for one.
const defaultSegment = "General"

// Handler serves the public auth pages. Credentials are never
// checked here; both forms forward to the scheduling API and a
// returned token becomes a server-side session.
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
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RedirectIfAuthenticated)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
		r.Get("/signup", h.SignupPage)
		r.Post("/signup", h.Signup)
	})

	r.Post("/logout", h.Logout)
}

type loginForm struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,max=128"`
}

type signupForm struct {
	CompanyName string `validate:"required,min=1,max=120"`
	Email       string `validate:"required,email,max=255"`
	Password    string `validate:"required,min=8,max=128"`
}

type loginView struct {
	Error string
	Email string
}

type signupView struct {
	Error       string
	CompanyName string
	Email       string
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, loginView{})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, loginView{Error: "Requisição inválida"})
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validator.Struct(form); err != nil {
		h.renderLogin(w, http.StatusUnprocessableEntity, loginView{
			Error: "Informe e-mail e senha válidos",
			Email: form.Email,
		})
		return
	}

	token, err := h.api.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		h.renderLogin(w, http.StatusUnprocessableEntity, loginView{
			Error: loginErrorMessage(err),
			Email: form.Email,
		})
		return
	}

	sess, err := h.sessions.Create(r.Context(), w, token)
	if err != nil {
		h.renderLogin(w, http.StatusInternalServerError, loginView{
			Error: "Erro ao fazer login",
			Email: form.Email,
		})
		return
	}

	h.analytics.Track(sess.ID, analytics.EventLogin, map[string]any{
		"method": "email",
	})

	http.Redirect(w, r, session.HomePath, http.StatusSeeOther)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, http.StatusOK, signupView{})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, http.StatusBadRequest, signupView{Error: "Requisição inválida"})
		return
	}

	form := signupForm{
		CompanyName: r.PostFormValue("companyName"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
	}

	if err := h.validator.Struct(form); err != nil {
		h.renderSignup(w, http.StatusUnprocessableEntity, signupView{
			Error:       "Preencha todos os campos. A senha precisa de ao menos 8 caracteres.",
			CompanyName: form.CompanyName,
			Email:       form.Email,
		})
		return
	}

	token, err := h.api.RegisterCompany(r.Context(), api.RegisterCompanyInput{
		CompanyName:   form.CompanyName,
		Segment:       defaultSegment,
		AdminEmail:    form.Email,
		AdminPassword: form.Password,
	})
	if err != nil {
		h.renderSignup(w, http.StatusUnprocessableEntity, signupView{
			Error:       signupErrorMessage(err),
			CompanyName: form.CompanyName,
			Email:       form.Email,
		})
		return
	}

	sess, err := h.sessions.Create(r.Context(), w, token)
	if err != nil {
		h.renderSignup(w, http.StatusInternalServerError, signupView{
			Error:       "Erro ao criar conta. Tente novamente.",
			CompanyName: form.CompanyName,
			Email:       form.Email,
		})
		return
	}

	h.analytics.Track(sess.ID, analytics.EventSignUp, map[string]any{
		"method": "email",
	})

	// New accounts land on the roster: the first thing a fresh
	// company needs is employees.
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int, view loginView) {
	h.renderer.Render(w, status, "login.html", &web.Page{
		Title:       "Entrar — EscalaPronta",
		Description: "Acesse sua conta para gerenciar suas escalas",
		Path:        "/login",
		Data:        view,
	})
}

func (h *Handler) renderSignup(w http.ResponseWriter, status int, view signupView) {
	h.renderer.Render(w, status, "signup.html", &web.Page{
		Title:       "Criar conta — EscalaPronta",
		Description: "Crie sua conta e comece a gerenciar escalas",
		Path:        "/signup",
		Data:        view,
	})
}

func loginErrorMessage(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "Credenciais inválidas"
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return "Erro ao fazer login"
}

func signupErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return "Erro ao criar conta. Tente novamente."
}
