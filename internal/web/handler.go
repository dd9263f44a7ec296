// AngelaMos | 2026
// handler.go

package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/escalapronta/web/internal/config"
	"github.com/escalapronta/web/internal/session"
)

// Handler serves the public marketing surfaces: landing, pricing,
// robots.txt and the sitemap.
type Handler struct {
	renderer *Renderer
	sessions *session.Manager
	site     config.SiteConfig
}

func NewHandler(
	renderer *Renderer,
	sessions *session.Manager,
	site config.SiteConfig,
) *Handler {
	return &Handler{
		renderer: renderer,
		sessions: sessions,
		site:     site,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.LoadSession)
		r.Get("/", h.Landing)
		r.Get("/pricing", h.Pricing)
	})

	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "landing.html", &Page{
		Title:         h.site.Name + " — Escalas de trabalho em segundos",
		Description:   h.site.Description,
		Path:          "/",
		Authenticated: session.IsAuthenticated(r.Context()),
		JSONLD:        LandingJSONLD(h.site),
	})
}

func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "pricing.html", &Page{
		Title:         "Planos e preços — " + h.site.Name,
		Description:   "Comece grátis com até 5 funcionários. Faça upgrade para o Pro quando precisar de escalas automáticas ilimitadas.",
		Path:          "/pricing",
		Authenticated: session.IsAuthenticated(r.Context()),
	})
}

func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", h.site.BaseURL)
}

func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	payload, err := BuildSitemap(h.site, time.Now())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(payload)
}
