package emitter

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"strings"
	"text/template"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/export"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

//go:embed skeleton.php.tmpl
var skeletonSource string

// CTAResolver supplies call-to-action labels for a service and context.
type CTAResolver interface {
	ResolveCTA(service, context string) string
}

type Document struct {
	Name   string `json:"name"`
	Markup string `json:"-"`
}

// Write stores the markup at path, creating parent directories.
func (d *Document) Write(path string) error {
	return export.WriteText(path, d.Markup)
}

type Emitter struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"esc":   html.EscapeString,
	"lower": strings.ToLower,
	"tel":   telHref,
	"hex":   cssColor,
}

func New() (*Emitter, error) {
	return NewFromSource(skeletonSource)
}

// NewFromSource builds an emitter around a custom skeleton.
func NewFromSource(src string) (*Emitter, error) {
	tmpl, err := template.New("skeleton").Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("emitter: parse skeleton: %w", err)
	}
	return &Emitter{tmpl: tmpl}, nil
}

type serviceCard struct {
	Name        string
	Description string
	CTA         string
}

type navItem struct {
	Label  string
	Anchor string
}

type testimonial struct {
	Quote  string
	Author string
}

type pageData struct {
	Spec         domain.ProjectSpec
	Name         string
	Tagline      string
	About        string
	PhoneCTA     string
	FormCTA      string
	Services     []serviceCard
	Navigation   []navItem
	Testimonials []testimonial
}

// Render fills the page skeleton for spec. Every text value is HTML-escaped
// by the skeleton itself.
func (e *Emitter) Render(spec domain.ProjectSpec, cta CTAResolver) (*Document, error) {
	data := buildPageData(spec, cta)

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("emitter: render: %w", err)
	}
	return &Document{Name: "template.php", Markup: buf.String()}, nil
}

func buildPageData(spec domain.ProjectSpec, cta CTAResolver) pageData {
	name := spec.DisplayName()
	first := ""
	if spec.Services.Len() > 0 {
		first = spec.Services[0].Name
	}

	d := pageData{
		Spec:     spec,
		Name:     name,
		Tagline:  tagline(spec),
		About:    about(spec),
		PhoneCTA: cta.ResolveCTA(first, tables.CTAPhone),
		FormCTA:  cta.ResolveCTA(first, tables.CTAButton),
		Navigation: []navItem{
			{Label: "Home", Anchor: "home"},
			{Label: "Services", Anchor: "services"},
			{Label: "About", Anchor: "about"},
			{Label: "Testimonials", Anchor: "testimonials"},
			{Label: "Contact", Anchor: "contact"},
		},
		Testimonials: testimonials(spec),
	}
	for _, s := range spec.Services {
		d.Services = append(d.Services, serviceCard{
			Name:        s.Name,
			Description: s.Description,
			CTA:         cta.ResolveCTA(s.Name, tables.CTAButton),
		})
	}
	return d
}

func tagline(spec domain.ProjectSpec) string {
	bt := spec.BusinessType
	if bt == "" {
		bt = domain.DefaultBusinessType
	}
	if spec.Location != "" {
		return fmt.Sprintf("Trusted %s in %s", strings.ToLower(bt), spec.Location)
	}
	return fmt.Sprintf("Trusted %s you can count on", strings.ToLower(bt))
}

func about(spec domain.ProjectSpec) string {
	where := "our community"
	if spec.Location != "" {
		where = spec.Location
	}
	return fmt.Sprintf("%s has served %s with dependable %s, combining experienced people with honest advice on every project.",
		spec.DisplayName(), where, strings.ToLower(strings.Join(spec.Services.Names(), ", ")))
}

func testimonials(spec domain.ProjectSpec) []testimonial {
	where := "Local customer"
	if spec.Location != "" {
		where = spec.Location
	}
	names := spec.Services.Names()
	pick := func(i int) string {
		if len(names) == 0 {
			return "service"
		}
		return strings.ToLower(names[i%len(names)])
	}
	return []testimonial{
		{
			Quote:  fmt.Sprintf("%s did an outstanding job with our %s. Professional from start to finish.", spec.DisplayName(), pick(0)),
			Author: "Sarah M., " + where,
		},
		{
			Quote:  fmt.Sprintf("Fast, friendly and fairly priced %s. We would not call anyone else.", pick(1)),
			Author: "James R., " + where,
		},
		{
			Quote:  "They explained every step and the results speak for themselves. Highly recommended!",
			Author: "Linda K., " + where,
		},
	}
}

// cssColor only lets canonical hex colors into the stylesheet.
func cssColor(c string) string {
	if hex, ok := domain.NormalizeHex(c); ok {
		return hex
	}
	return "inherit"
}

// telHref keeps only the characters valid in a tel: URI.
func telHref(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
