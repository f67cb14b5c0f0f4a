package parser

import (
	"regexp"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

const maxServices = 6

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*[-*]?\s*\**business name\**\s*:\s*\**([^*\n]+?)\**\s*$`),
		regexp.MustCompile(`(?i)\bfor\s+\*\*([^*\n]+)\*\*`),
		regexp.MustCompile(`(?:[Ww]ebsite|[Ll]anding page|[Ss]ite)\s+for\s+(?:an?\s+|the\s+)?([A-Z][\w&'.-]*(?:\s+[A-Z][\w&'.-]*)*)`),
		regexp.MustCompile(`\*\*([A-Z][^*\n]{1,60})\*\*`),
	}
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^\s*[-*]?\s*\**location\**\s*:\s*\**([^*\n]+?)\**\s*$`),
		regexp.MustCompile(`(?:[Ll]ocated in|[Ss]erving|[Bb]ased in)\s+(?:the\s+)?([A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*,\s*[A-Z]{2})\b`),
		regexp.MustCompile(`\bin\s+([A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*)*,\s*[A-Z]{2})\b`),
	}
	phonePattern  = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`)
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	bulletPattern = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+[.)])\s+(.+?)\s*$`)
	colorPattern  = regexp.MustCompile(`^\**([^*(#]*?)\s*\(?(#[0-9A-Fa-f]{6}|#[0-9A-Fa-f]{3})\b\)?\**\s*(?:[-–—:]\s*)?(.*)$`)
	navPattern    = regexp.MustCompile(`(?im)^\s*[-*]?\s*\**navigation\**\s*:\s*(.+)$`)

	multiPageIndicators = []string{"multi-page", "multi page", "multiple pages", "separate pages", "page hierarchy", "sitemap"}
	defaultNavigation   = []string{"Home", "Services", "About", "Contact"}
)

// ParseMarkdown extracts a RawSpec from a free-form markdown request.
// Unrecognized content is ignored; it never fails.
func ParseMarkdown(src []byte, t *tables.Tables) *domain.RawSpec {
	if t == nil {
		t = tables.Default()
	}
	text := string(src)
	sections := splitSections(src)

	raw := &domain.RawSpec{Sections: sections}
	raw.Requirements = domain.TextBlock(sections[domain.SectionRequirements])

	info := &raw.BusinessInfo
	info.BusinessName = firstCapture(namePatterns, text, isPlausibleName)
	info.Location = strings.TrimRight(firstCapture(locationPatterns, text, nil), ".,;")
	info.BusinessType = classifyBusiness(t, info.BusinessName+"\n"+sections[domain.SectionProjectDescription], text)
	info.Phone = strings.TrimSpace(phonePattern.FindString(text))
	info.Email = emailPattern.FindString(text)
	info.Description = firstParagraph(sections[domain.SectionProjectDescription])
	info.Tagline = tagline(info.BusinessType, info.Location)
	info.Services = extractServices(sections[domain.SectionServices])

	palette := sections[domain.SectionColorPalette]
	if palette == "" {
		palette = sections[domain.SectionDesignPreferences]
	}
	raw.ColorPalette.SpecifiedColors = extractColors(palette)

	raw.SiteType = detectSiteType(text)
	raw.Navigation = extractNavigation(text)
	return raw
}

func firstCapture(patterns []*regexp.Regexp, text string, accept func(string) bool) string {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := strings.TrimSpace(m[1])
			if v == "" {
				continue
			}
			if accept != nil && !accept(v) {
				continue
			}
			return v
		}
	}
	return ""
}

// isPlausibleName rejects bold fragments that are labels or color swatches.
func isPlausibleName(s string) bool {
	if strings.ContainsAny(s, "#():") {
		return false
	}
	if _, ok := sectionAliases[normalizeTitle(s)]; ok {
		return false
	}
	return len(strings.Fields(s)) <= 8
}

func classifyBusiness(t *tables.Tables, focused, full string) string {
	if bt, ok := tables.FirstMatch(t.BusinessTypes, focused); ok {
		return bt
	}
	if bt, ok := tables.FirstMatch(t.BusinessTypes, full); ok {
		return bt
	}
	return domain.DefaultBusinessType
}

func tagline(businessType, location string) string {
	if location == "" {
		return businessType
	}
	return businessType + " in " + location
}

func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n\n"); i >= 0 {
		s = s[:i]
	}
	return strings.Join(strings.Fields(s), " ")
}

func bullets(section string) []string {
	var out []string
	for _, m := range bulletPattern.FindAllStringSubmatch(section, -1) {
		out = append(out, m[1])
	}
	return out
}

func extractServices(section string) domain.NameList {
	var out domain.NameList
	seen := map[string]bool{}
	for _, b := range bullets(section) {
		name := stripEmphasis(b)
		for _, sep := range []string{" - ", " – ", " — ", ":"} {
			if i := strings.Index(name, sep); i > 0 {
				name = name[:i]
			}
		}
		name = strings.TrimSpace(stripEmphasis(name))
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if len(out) == maxServices {
			break
		}
	}
	return out
}

func extractColors(section string) []domain.SpecifiedColor {
	var out []domain.SpecifiedColor
	for _, b := range bullets(section) {
		m := colorPattern.FindStringSubmatch(strings.TrimSpace(b))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(stripEmphasis(m[1]))
		usage := strings.TrimSpace(stripEmphasis(m[3]))
		if usage == "" {
			usage = name
		}
		out = append(out, domain.SpecifiedColor{Name: name, Usage: usage, HexCode: strings.ToUpper(m[2])})
	}
	return out
}

func detectSiteType(text string) string {
	lower := strings.ToLower(text)
	for _, ind := range multiPageIndicators {
		if strings.Contains(lower, ind) {
			return "multi_page"
		}
	}
	return "single_page"
}

func extractNavigation(text string) []string {
	m := navPattern.FindStringSubmatch(text)
	if m == nil {
		return append([]string(nil), defaultNavigation...)
	}
	var out []string
	for _, item := range strings.FieldsFunc(m[1], func(r rune) bool { return r == '|' || r == ',' || r == '>' }) {
		if item = strings.TrimSpace(stripEmphasis(item)); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultNavigation...)
	}
	return out
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_`"))
}
