package checks

import (
	"regexp"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review"
)

var (
	heroRe        = regexp.MustCompile(`(?i)(class="[^"]*\bhero\b|id="(home|hero)")`)
	layoutRe      = regexp.MustCompile(`(?i)display:\s*(grid|flex)`)
	h1Re          = regexp.MustCompile(`(?i)<h1\b`)
	h2Re          = regexp.MustCompile(`(?i)<h2\b`)
	brandVarRe    = regexp.MustCompile(`var\(--(primary|secondary|accent)\)`)
	navRe         = regexp.MustCompile(`(?i)<nav\b`)
	footerRe      = regexp.MustCompile(`(?i)<footer\b`)
	hashLinkRe    = regexp.MustCompile(`(?i)href="#[a-z]`)
	ctaRe         = regexp.MustCompile(`(?i)(class="[^"]*\b(btn|cta)\b|<button\b)`)
	telRe         = regexp.MustCompile(`(?i)href="tel:`)
	formRe        = regexp.MustCompile(`(?i)<form\b`)
	testimonialRe = regexp.MustCompile(`(?i)(testimonial|<blockquote\b)`)
	maxWidthImgRe = regexp.MustCompile(`(?is)img\s*\{[^}]*max-width:\s*100%`)
	fluidGridRe   = regexp.MustCompile(`(?i)(minmax\(|auto-fit|auto-fill|\d*\.?\d+fr\b|flex-wrap:\s*wrap)`)

	trustSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\blicensed\b`),
		regexp.MustCompile(`(?i)\binsured\b`),
		regexp.MustCompile(`(?i)\bguarantee`),
		regexp.MustCompile(`(?i)\bcertified\b`),
		regexp.MustCompile(`(?i)\byears of experience\b`),
		regexp.MustCompile(`(?i)<blockquote\b`),
	}
)

func init() {
	for _, r := range designRules {
		review.Register(r)
	}
}

// inOrder passes when every marker appears, each after the previous one.
func inOrder(markers ...string) func(string) review.Outcome {
	return func(m string) review.Outcome {
		lower := strings.ToLower(m)
		at := 0
		for _, mk := range markers {
			i := strings.Index(lower[at:], mk)
			if i < 0 {
				return review.Outcome{Detail: mk + " out of place"}
			}
			at += i + len(mk)
		}
		return review.Outcome{Passed: true}
	}
}

var designRules = []rule{
	// visual_design
	{
		name: "hero_section", kind: domain.ReviewDesign, category: "visual_design", points: 3,
		eval: matches(heroRe),
		pass: "Strong hero section introduces the business",
		fail: "No hero section", priority: domain.PriorityHigh, advice: "Open with a hero section that states what the business does and where",
	},
	{
		name: "layout_system", kind: domain.ReviewDesign, category: "visual_design", points: 2,
		eval: matches(layoutRe),
		pass: "Layout uses grid or flexbox",
		fail: "No modern layout system", priority: domain.PriorityMedium, advice: "Lay out sections with CSS grid or flexbox",
	},
	{
		name: "heading_hierarchy", kind: domain.ReviewDesign, category: "visual_design", points: 2,
		eval: all(atLeast(h1Re, 1, "h1"), atMost(h1Re, 1, "h1"), atLeast(h2Re, 2, "h2")),
		pass: "Clear heading hierarchy",
		fail: "Heading hierarchy is unclear", priority: domain.PriorityMedium, advice: "Use exactly one h1 and an h2 per section",
	},
	{
		name: "brand_colors", kind: domain.ReviewDesign, category: "visual_design", points: 3,
		eval: atLeast(brandVarRe, 3, "brand color uses"),
		pass: "Brand colors applied consistently",
		fail: "Brand colors barely used", priority: domain.PriorityMedium, advice: "Apply the primary, secondary and accent colors across buttons and section accents",
	},

	// ux
	{
		name: "navigation", kind: domain.ReviewDesign, category: "ux", points: 3,
		eval: matches(navRe),
		pass: "Navigation present",
		fail: "No navigation", priority: domain.PriorityHigh, advice: "Add a header navigation linking to each section",
	},
	{
		name: "anchor_navigation", kind: domain.ReviewDesign, category: "ux", points: 2,
		eval: atLeast(hashLinkRe, 3, "in-page links"),
		pass: "In-page links connect the sections",
		fail: "Sections are not linked", priority: domain.PriorityLow, advice: "Link navigation items to section ids",
	},
	{
		name: "page_flow", kind: domain.ReviewDesign, category: "ux", points: 3,
		eval: inOrder(`id="home"`, `id="services"`, `id="contact"`),
		pass: "Page flows from hero to services to contact",
		fail: "Page sections are out of the expected order", priority: domain.PriorityMedium, advice: "Order the page as hero, services, social proof, then contact",
	},
	{
		name: "footer", kind: domain.ReviewDesign, category: "ux", points: 2,
		eval: matches(footerRe),
		pass: "Footer closes the page",
		fail: "No footer", priority: domain.PriorityLow, advice: "Close the page with a footer carrying the business name and area",
	},

	// conversion
	{
		name: "cta_count", kind: domain.ReviewDesign, category: "conversion", points: 3,
		eval: atLeast(ctaRe, 3, "calls to action"),
		pass: "Multiple calls to action",
		fail: "Too few calls to action", priority: domain.PriorityHigh, advice: "Add at least three calls to action spread across the page",
	},
	{
		name: "click_to_call", kind: domain.ReviewDesign, category: "conversion", points: 2,
		eval: matches(telRe),
		pass: "Click-to-call link present",
		fail: "No click-to-call link", priority: domain.PriorityHigh, advice: "Make the phone number a tel: link in the hero and contact section",
	},
	{
		name: "contact_form", kind: domain.ReviewDesign, category: "conversion", points: 2,
		eval: matches(formRe),
		pass: "Contact form captures leads",
		fail: "No contact form", priority: domain.PriorityHigh, advice: "Add a short contact form to capture leads",
	},
	{
		name: "trust_signals", kind: domain.ReviewDesign, category: "conversion", points: 2,
		eval: distinctMatches(trustSignals, 2, "trust signals"),
		pass: "Trust signals reassure visitors",
		fail: "Few trust signals", priority: domain.PriorityMedium, advice: "Mention licensing, insurance or guarantees near the calls to action",
	},
	{
		name: "testimonials", kind: domain.ReviewDesign, category: "conversion", points: 1,
		eval: matches(testimonialRe),
		pass: "Testimonials provide social proof",
		fail: "No testimonials", priority: domain.PriorityMedium, advice: "Add customer testimonials as social proof",
	},

	// mobile
	{
		name: "viewport", kind: domain.ReviewDesign, category: "mobile", points: 3,
		eval: matches(viewportRe),
		pass: "Viewport configured for mobile",
		fail: "Viewport not configured", priority: domain.PriorityHigh, advice: "Add a viewport meta tag",
	},
	{
		name: "media_queries", kind: domain.ReviewDesign, category: "mobile", points: 3,
		eval: matches(mediaRe),
		pass: "Layout adapts at small widths",
		fail: "No responsive breakpoints", priority: domain.PriorityHigh, advice: "Add a breakpoint that stacks columns below 768px",
	},
	{
		name: "fluid_images", kind: domain.ReviewDesign, category: "mobile", points: 2,
		eval: matches(maxWidthImgRe),
		pass: "Images scale with the viewport",
		fail: "Images may overflow on small screens", priority: domain.PriorityMedium, advice: "Constrain images with max-width: 100%",
	},
	{
		name: "flexible_grid", kind: domain.ReviewDesign, category: "mobile", points: 2,
		eval: matches(fluidGridRe),
		pass: "Grids reflow on narrow screens",
		fail: "Grids use fixed columns", priority: domain.PriorityMedium, advice: "Use auto-fit with minmax() so cards reflow on narrow screens",
	},
}
