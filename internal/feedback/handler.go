// AngelaMos | 2026
// handler.go

package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/core"
	"github.com/escalapronta/web/internal/session"
)

// Handler receives the floating feedback widget's XHR post, enriches
// it with the session profile and relays it to EmailJS. Failures are
// answered as JSON for the widget's toast; nothing is rethrown.
type Handler struct {
	emailjs   *EmailJS
	sessions  *session.Manager
	analytics *analytics.Client
	validator *validator.Validate
}

func NewHandler(
	emailjs *EmailJS,
	sessions *session.Manager,
	analyticsClient *analytics.Client,
) *Handler {
	return &Handler{
		emailjs:   emailjs,
		sessions:  sessions,
		analytics: analyticsClient,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/feedback", h.Submit)
}

type submitRequest struct {
	Type    string `json:"type"    validate:"required,oneof=bug suggestion other"`
	Message string `json:"message" validate:"required,min=3,max=2000"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Page    string `json:"page"    validate:"required,max=200"`
}

type submitResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "invalid feedback")
		return
	}

	msg := Message{
		Type:    req.Type,
		Message: req.Message,
		Email:   req.Email,
		Page:    req.Page,
	}

	// Identifiers are best-effort: anonymous visitors can send
	// feedback too.
	clientID := ""
	if sess, err := h.sessions.Get(r); err == nil {
		msg.UserID = sess.Profile.UserID
		msg.CompanyID = sess.Profile.CompanyID
		clientID = sess.ID
	}

	if err := h.emailjs.Send(r.Context(), msg); err != nil {
		core.JSONError(w, core.NewAppError(
			err,
			"não foi possível enviar o feedback",
			http.StatusBadGateway,
			"FEEDBACK_FAILED",
		))
		return
	}

	h.analytics.Track(clientID, analytics.EventFeedbackSubmitted, map[string]any{
		"feedback_type": req.Type,
		"page":          req.Page,
	})

	core.JSONOK(w, submitResponse{Success: true})
}
