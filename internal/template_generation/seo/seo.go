// Package seo adds local-business search metadata to emitted pages: meta,
// Open Graph and Twitter tags in the head and a schema.org LocalBusiness
// JSON-LD block before the closing body tag.
package seo

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const marker = "<!-- seo-meta -->"

// Info is the business data the tags are built from.
type Info struct {
	BusinessName string
	Service      string
	City         string
	State        string
	Phone        string
	Email        string
	Address      string
	Services     []string
}

// InfoFromSpec splits the location into city and state ("Austin, TX") and
// falls back to placeholders for anything missing.
func InfoFromSpec(spec domain.ProjectSpec) Info {
	info := Info{
		BusinessName: spec.DisplayName(),
		Service:      spec.BusinessType,
		Phone:        spec.Contact.Phone,
		Email:        spec.Contact.Email,
		Address:      spec.Contact.Address,
		Services:     spec.Services.Names(),
	}
	if info.Service == "" {
		info.Service = domain.DefaultBusinessType
	}
	city, state, _ := strings.Cut(spec.Location, ",")
	info.City = strings.TrimSpace(city)
	info.State = strings.TrimSpace(state)
	return info
}

func (i Info) place() string {
	switch {
	case i.City != "" && i.State != "":
		return i.City + ", " + i.State
	case i.City != "":
		return i.City
	}
	return i.State
}

// Title is "<service> in <city>, <state> | <name>", without the location
// part when none is known.
func (i Info) Title() string {
	if p := i.place(); p != "" {
		return fmt.Sprintf("%s in %s | %s", i.Service, p, i.BusinessName)
	}
	return fmt.Sprintf("%s | %s", i.Service, i.BusinessName)
}

func (i Info) Description() string {
	var b strings.Builder
	b.WriteString("Professional " + strings.ToLower(i.Service))
	if p := i.place(); p != "" {
		b.WriteString(" in " + p)
	}
	b.WriteString(". " + i.BusinessName)
	if len(i.Services) > 0 {
		b.WriteString(" provides " + strings.Join(i.Services, ", "))
	} else {
		b.WriteString(" is ready to help")
	}
	b.WriteString(".")
	if i.Phone != "" {
		b.WriteString(" Call " + i.Phone + " for a free quote!")
	}
	return b.String()
}

func (i Info) Keywords() []string {
	svc := strings.ToLower(i.Service)
	kw := []string{svc}
	if i.City != "" {
		kw = append(kw, strings.ToLower(i.City)+" "+svc)
	}
	if i.State != "" {
		kw = append(kw, strings.ToLower(i.State)+" "+svc)
	}
	kw = append(kw, "local "+svc, svc+" near me")
	for _, s := range i.Services {
		kw = append(kw, strings.ToLower(s))
	}
	return kw
}

// MetaTags renders the head block. Every value is HTML-escaped.
func MetaTags(i Info) string {
	esc := html.EscapeString
	title, desc := esc(i.Title()), esc(i.Description())

	var b strings.Builder
	b.WriteString("    " + marker + "\n")
	tag := func(attr, key, value string) {
		fmt.Fprintf(&b, "    <meta %s=\"%s\" content=\"%s\">\n", attr, key, value)
	}
	tag("name", "keywords", esc(strings.Join(i.Keywords(), ", ")))
	tag("name", "author", esc(i.BusinessName))
	tag("name", "robots", "index, follow")
	tag("property", "og:title", title)
	tag("property", "og:description", desc)
	tag("property", "og:type", "website")
	tag("property", "og:site_name", esc(i.BusinessName))
	tag("property", "og:locale", "en_US")
	tag("name", "twitter:card", "summary_large_image")
	tag("name", "twitter:title", title)
	tag("name", "twitter:description", desc)
	if region := geoRegion(i.State); region != "" {
		tag("name", "geo.region", region)
	}
	if i.City != "" {
		tag("name", "geo.placename", esc(i.City))
	}
	return b.String()
}

// geoRegion accepts two-letter US state codes only.
func geoRegion(state string) string {
	if len(state) != 2 {
		return ""
	}
	for _, r := range state {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z') {
			return ""
		}
	}
	return "US-" + strings.ToUpper(state)
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

type offer struct {
	Type        string      `json:"@type"`
	ItemOffered serviceItem `json:"itemOffered"`
}

type serviceItem struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type offerCatalog struct {
	Type            string  `json:"@type"`
	Name            string  `json:"name"`
	ItemListElement []offer `json:"itemListElement"`
}

type localBusiness struct {
	Context         string        `json:"@context"`
	Type            string        `json:"@type"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Telephone       string        `json:"telephone,omitempty"`
	Email           string        `json:"email,omitempty"`
	Address         postalAddress `json:"address"`
	AreaServed      string        `json:"areaServed,omitempty"`
	PriceRange      string        `json:"priceRange"`
	OpeningHours    string        `json:"openingHours"`
	HasOfferCatalog *offerCatalog `json:"hasOfferCatalog,omitempty"`
}

// LocalBusinessSchema returns the schema.org LocalBusiness document.
func LocalBusinessSchema(i Info) ([]byte, error) {
	doc := localBusiness{
		Context:     "https://schema.org",
		Type:        "LocalBusiness",
		Name:        i.BusinessName,
		Description: i.Description(),
		Telephone:   i.Phone,
		Email:       i.Email,
		Address: postalAddress{
			Type:            "PostalAddress",
			StreetAddress:   i.Address,
			AddressLocality: i.City,
			AddressRegion:   i.State,
			AddressCountry:  "US",
		},
		AreaServed:   i.place(),
		PriceRange:   "$$",
		OpeningHours: "Mo-Fr 08:00-18:00",
	}
	if len(i.Services) > 0 {
		cat := &offerCatalog{Type: "OfferCatalog", Name: i.Service + " Services"}
		for _, s := range i.Services {
			cat.ItemListElement = append(cat.ItemListElement, offer{Type: "Offer", ItemOffered: serviceItem{Type: "Service", Name: s}})
		}
		doc.HasOfferCatalog = cat
	}
	return json.MarshalIndent(doc, "    ", "  ")
}

// Enhance inserts the meta block before </head> and the JSON-LD block
// before </body>. Markup that already carries the block is returned
// unchanged; a missing tag skips that insertion.
func Enhance(markup string, i Info) (string, error) {
	if strings.Contains(markup, marker) {
		return markup, nil
	}
	schema, err := LocalBusinessSchema(i)
	if err != nil {
		return "", fmt.Errorf("seo: schema: %w", err)
	}
	if idx := strings.Index(markup, "</head>"); idx >= 0 {
		markup = markup[:idx] + MetaTags(i) + markup[idx:]
	}
	if idx := strings.LastIndex(markup, "</body>"); idx >= 0 {
		block := "    <script type=\"application/ld+json\">\n    " + string(schema) + "\n    </script>\n"
		markup = markup[:idx] + block + markup[idx:]
	}
	return markup, nil
}
