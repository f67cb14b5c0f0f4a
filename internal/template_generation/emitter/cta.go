package emitter

import (
	"fmt"
	"html"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

const ctaMarker = "<!-- cta-optimized -->"

// CTAAnchors are the comments after whose section a CTA banner is inserted.
var CTAAnchors = []string{"<!-- hero -->", "<!-- features -->", "<!-- testimonials -->", "<!-- contact -->"}

// OptimizeCTAs inserts a call-to-action banner after the section following
// each anchor comment. Without any anchor the banner is appended once.
// Markup that was already optimized is returned unchanged.
func OptimizeCTAs(markup string, spec domain.ProjectSpec, cta CTAResolver) string {
	if strings.Contains(markup, ctaMarker) {
		return markup
	}
	block := ctaBlock(spec, cta)

	var b strings.Builder
	rest := markup
	inserted := 0
	for {
		idx, anchor := nextAnchor(rest)
		if idx < 0 {
			break
		}
		after := idx + len(anchor)
		// The closing tag must belong to this anchor's section, not a later one.
		limit := len(rest)
		if ni, _ := nextAnchor(rest[after:]); ni >= 0 {
			limit = after + ni
		}
		end := after
		if ci := strings.Index(rest[after:limit], "</section>"); ci >= 0 {
			end = after + ci + len("</section>")
		}
		b.WriteString(rest[:end])
		b.WriteString("\n")
		b.WriteString(block)
		rest = rest[end:]
		inserted++
	}
	b.WriteString(rest)

	out := b.String()
	if inserted == 0 {
		out = appendBlock(out, block)
	}
	return out
}

func nextAnchor(s string) (int, string) {
	best, which := -1, ""
	for _, a := range CTAAnchors {
		if i := strings.Index(s, a); i >= 0 && (best < 0 || i < best) {
			best, which = i, a
		}
	}
	return best, which
}

func appendBlock(markup, block string) string {
	if i := strings.LastIndex(markup, "</body>"); i >= 0 {
		return markup[:i] + block + markup[i:]
	}
	return markup + "\n" + block
}

func ctaBlock(spec domain.ProjectSpec, cta CTAResolver) string {
	first := ""
	if spec.Services.Len() > 0 {
		first = spec.Services[0].Name
	}
	name := html.EscapeString(spec.DisplayName())
	phoneLabel := html.EscapeString(cta.ResolveCTA(first, tables.CTAPhone))
	buttonLabel := html.EscapeString(cta.ResolveCTA(first, tables.CTAButton))

	phoneLink := fmt.Sprintf(`<a href="#contact" class="btn btn-primary" aria-label="%s">%s</a>`, phoneLabel, phoneLabel)
	if spec.Contact.Phone != "" {
		phoneLink = fmt.Sprintf(`<a href="tel:%s" class="btn btn-primary" aria-label="%s %s">%s</a>`,
			telHref(spec.Contact.Phone), phoneLabel, html.EscapeString(spec.Contact.Phone), phoneLabel)
	}

	return fmt.Sprintf(`%s
        <div class="cta-banner" role="region" aria-label="Call to action">
            <p>Ready to work with %s? Get in touch today.</p>
            %s
            <a href="#contact" class="btn btn-secondary" aria-label="%s">%s</a>
        </div>
`, ctaMarker, name, phoneLink, buttonLabel, buttonLabel)
}
