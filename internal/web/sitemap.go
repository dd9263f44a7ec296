// AngelaMos | 2026
// sitemap.go

package web

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/escalapronta/web/internal/config"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type sitemapEntry struct {
	path       string
	changeFreq string
	priority   string
}

// Authenticated routes stay listed with low priority and no expected
// change, matching what the product has always published.
var sitemapEntries = []sitemapEntry{
	{"/", "weekly", "1.0"},
	{"/pricing", "monthly", "0.9"},
	{"/signup", "monthly", "0.9"},
	{"/login", "monthly", "0.8"},
	{"/schedule", "never", "0.5"},
	{"/employees", "never", "0.5"},
}

func BuildSitemap(site config.SiteConfig, now time.Time) ([]byte, error) {
	base := strings.TrimRight(site.BaseURL, "/")
	lastMod := now.Format("2006-01-02")

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, entry := range sitemapEntries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + entry.path,
			LastMod:    lastMod,
			ChangeFreq: entry.changeFreq,
			Priority:   entry.priority,
		})
	}

	payload, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), payload...), nil
}
