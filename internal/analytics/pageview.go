// AngelaMos | 2026
// pageview.go

package analytics

import (
	"net/http"
	"strings"
)

// PageViews emits a page_view event for every HTML page a browser
// loads, the server-side equivalent of the route-change hook the
// pages used to carry. clientID resolves the visitor identity from
// the request; an empty result falls into the anonymous bucket.
func PageViews(c *Client, clientID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c.Enabled() && trackablePage(r) {
				params := map[string]any{
					"page_path": r.URL.Path,
				}
				if ref := r.Header.Get("Referer"); ref != "" {
					params["page_referrer"] = ref
				}
				c.Track(clientID(r), EventPageView, params)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// trackablePage keeps probes, crawl surfaces and API-style requests
// out of the page_view stream.
func trackablePage(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz", "/sitemap.xml", "/robots.txt", "/favicon.ico":
		return false
	}

	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
