// AngelaMos | 2026
// handler.go

package billing

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

// ProPriceBRL is display-only; the real price lives in the payment
// provider's catalog.
const ProPriceBRL = 29

// Handler serves the subscription pages. Payment itself happens on
// the provider's hosted checkout; this layer only requests the
// checkout URL and shows the state the billing API reports.
type Handler struct {
	api       *api.Client
	sessions  *session.Manager
	analytics *analytics.Client
	renderer  *web.Renderer
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
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/subscription", func(r chi.Router) {
		r.Use(h.sessions.RequireSession)
		r.Get("/", h.Status)
		r.Post("/checkout", h.Checkout)
		r.Get("/cancel-plan", h.CancelPage)
		r.Post("/cancel-plan", h.Cancel)

		// Hosted checkout sends the browser back to one of these.
		r.Get("/success", h.CheckoutSuccess)
		r.Get("/cancel", h.CheckoutCancelled)
	})
}

type statusView struct {
	Subscription *api.Subscription
	IsPro        bool
	ProPrice     int
	Error        string
	Success      string
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	view := statusView{ProPrice: ProPriceBRL}

	sub, err := h.api.BillingStatus(r.Context(), sess.Token)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		h.sessions.Expire(w, r)
		return
	case errors.Is(err, api.ErrNotFound):
		// No subscription record yet means the free plan.
	case err != nil:
		view.Error = "Erro ao carregar sua assinatura"
	default:
		view.Subscription = sub
		view.IsPro = sub.IsPro()
	}

	if flash := h.sessions.PopFlash(w, r); flash != nil {
		switch flash.Kind {
		case session.FlashError:
			view.Error = flash.Message
		case session.FlashSuccess:
			view.Success = flash.Message
		}
	}

	h.renderer.Render(w, http.StatusOK, "subscription.html", &web.Page{
		Title:         "Assinatura — EscalaPronta",
		Path:          "/subscription",
		NoIndex:       true,
		Authenticated: true,
		Data:          view,
	})
}

// Checkout asks the billing API for a hosted checkout URL and sends
// the browser there.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	checkoutURL, err := h.api.Checkout(r.Context(), sess.Token, api.PlanPro)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.sessions.SetFlash(w, session.FlashError, checkoutErrorMessage(err))
		http.Redirect(w, r, "/subscription", http.StatusSeeOther)
		return
	}

	h.analytics.Track(sess.ID, analytics.EventBeginCheckout, map[string]any{
		"plan":     api.PlanPro,
		"currency": "BRL",
		"value":    ProPriceBRL,
	})

	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

type cancelView struct {
	Subscription *api.Subscription
}

func (h *Handler) CancelPage(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	sub, err := h.api.BillingStatus(r.Context(), sess.Token)
	if err != nil || !sub.IsPro() {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		http.Redirect(w, r, "/subscription", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "subscription_cancel.html", &web.Page{
		Title:         "Cancelar assinatura — EscalaPronta",
		Path:          "/subscription/cancel-plan",
		NoIndex:       true,
		Authenticated: true,
		Data:          cancelView{Subscription: sub},
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if err := h.api.CancelSubscription(r.Context(), sess.Token); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sessions.Expire(w, r)
			return
		}
		h.sessions.SetFlash(w, session.FlashError, "Erro ao cancelar a assinatura. Tente novamente.")
		http.Redirect(w, r, "/subscription", http.StatusSeeOther)
		return
	}

	h.sessions.SetFlash(w, session.FlashSuccess, "Assinatura cancelada. Seu plano volta ao gratuito no fim do período pago.")
	http.Redirect(w, r, "/subscription", http.StatusSeeOther)
}

func (h *Handler) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "subscription_success.html", &web.Page{
		Title:         "Pagamento confirmado — EscalaPronta",
		Path:          "/subscription/success",
		NoIndex:       true,
		Authenticated: true,
	})
}

func (h *Handler) CheckoutCancelled(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "subscription_cancelled.html", &web.Page{
		Title:         "Pagamento não concluído — EscalaPronta",
		Path:          "/subscription/cancel",
		NoIndex:       true,
		Authenticated: true,
	})
}

func checkoutErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Erro ao iniciar o checkout. Tente novamente."
}
