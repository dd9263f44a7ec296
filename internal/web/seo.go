// AngelaMos | 2026
// seo.go

package web

import (
	"html/template"
	"strings"

	"github.com/escalapronta/web/internal/config"
)

type organizationSchema struct {
	Context      string       `json:"@context"`
	Type         string       `json:"@type"`
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	Logo         string       `json:"logo"`
	Description  string       `json:"description"`
	SameAs       []string     `json:"sameAs"`
	ContactPoint contactPoint `json:"contactPoint"`
}

type contactPoint struct {
	Type              string   `json:"@type"`
	ContactType       string   `json:"contactType"`
	AvailableLanguage []string `json:"availableLanguage"`
}

type softwareAppSchema struct {
	Context             string  `json:"@context"`
	Type                string  `json:"@type"`
	Name                string  `json:"name"`
	URL                 string  `json:"url"`
	ApplicationCategory string  `json:"applicationCategory"`
	OperatingSystem     string  `json:"operatingSystem"`
	Description         string  `json:"description"`
	Offers              []offer `json:"offers"`
}

type offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

// LandingJSONLD builds the structured data for the landing page:
// Organization plus SoftwareApplication with both plan offers.
func LandingJSONLD(site config.SiteConfig) []template.JS {
	base := strings.TrimRight(site.BaseURL, "/")

	org := organizationSchema{
		Context:     "https://schema.org",
		Type:        "Organization",
		Name:        site.Name,
		URL:         base,
		Logo:        base + "/logo.png",
		Description: site.Description,
		SameAs:      []string{site.Twitter, site.Instagram},
		ContactPoint: contactPoint{
			Type:              "ContactPoint",
			ContactType:       "Customer Service",
			AvailableLanguage: []string{"pt-BR", "en"},
		},
	}

	app := softwareAppSchema{
		Context:             "https://schema.org",
		Type:                "SoftwareApplication",
		Name:                site.Name,
		URL:                 base,
		ApplicationCategory: "BusinessApplication",
		OperatingSystem:     "Web",
		Description:         site.Description,
		Offers: []offer{
			{Type: "Offer", Price: "0", PriceCurrency: "BRL"},
			{Type: "Offer", Price: "29", PriceCurrency: "BRL"},
		},
	}

	return []template.JS{JSONLD(org), JSONLD(app)}
}
