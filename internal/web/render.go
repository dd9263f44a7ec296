// AngelaMos | 2026
// render.go

package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/escalapronta/web/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template render receives. Handlers fill
// Data with their view model; flash messages surface through the view
// model too, so the rest only drives the layout and meta tags.
type Page struct {
	Title         string
	Description   string
	Path          string
	Site          config.SiteConfig
	Authenticated bool
	NoIndex       bool
	JSONLD        []template.JS
	Data          any
}

func (p *Page) Canonical() string {
	return strings.TrimRight(p.Site.BaseURL, "/") + p.Path
}

// Renderer holds one parsed template set per page, all sharing the
// base layout.
type Renderer struct {
	pages map[string]*template.Template
	site  config.SiteConfig
}

func NewRenderer(site config.SiteConfig) (*Renderer, error) {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	pages := make(map[string]*template.Template)

	for _, entry := range entries {
		name := entry.Name()
		if name == "layout.html" {
			continue
		}

		tmpl, err := template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		pages[name] = tmpl
	}

	return &Renderer{pages: pages, site: site}, nil
}

var templateFuncs = template.FuncMap{
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i
		}
		return s
	},
	// pw bundles a paywall code with the URL that dismisses the
	// prompt, for the shared modal block.
	"pw": func(kind, close string) map[string]string {
		return map[string]string{"Kind": kind, "Close": close}
	},
}

// Render buffers the execution so a template failure yields a clean
// 500 instead of a half-written page.
func (r *Renderer) Render(
	w http.ResponseWriter,
	status int,
	name string,
	page *Page,
) {
	tmpl, ok := r.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page.Site = r.site

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		slog.Error("render template", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_, _ = buf.WriteTo(w)
}

// JSONLD serializes a schema.org document for embedding in a page
// head.
func JSONLD(doc any) template.JS {
	payload, err := json.Marshal(doc)
	if err != nil {
		return template.JS("{}")
	}
	//nolint:gosec // G203: payload is marshaled from internal structs, not user input
	return template.JS(payload)
}
