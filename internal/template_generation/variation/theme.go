package variation

import (
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

type Theme string

const (
	ThemeDark    Theme = "dark"
	ThemeLight   Theme = "light"
	ThemeNeutral Theme = "neutral"
)

var (
	darkIndicators = []string{
		"dark-themed", "dark theme", "dark design", "dark color",
		"modern dark", "sleek dark", "professional dark",
		"black", "charcoal", "midnight", "slate",
	}
	lightIndicators = []string{
		"light-themed", "light theme", "light design", "light color",
		"bright", "clean light", "fresh", "airy",
		"white", "cream", "beige", "soft",
	}
)

// DetectTheme counts dark and light indicator phrases in text. Ties,
// including no indicators at all, are neutral.
func DetectTheme(text string) Theme {
	text = strings.ToLower(text)
	dark, light := 0, 0
	for _, kw := range darkIndicators {
		if strings.Contains(text, kw) {
			dark++
		}
	}
	for _, kw := range lightIndicators {
		if strings.Contains(text, kw) {
			light++
		}
	}
	switch {
	case dark > light:
		return ThemeDark
	case light > dark:
		return ThemeLight
	}
	return ThemeNeutral
}

type brandColors struct {
	keyword                    string
	primary, secondary, accent string
}

// brandTable is scanned in order; the first keyword found in the business
// type or name wins.
var brandTable = []brandColors{
	{"pc repair", "#2563eb", "#60a5fa", "#1e40af"},
	{"computer", "#2563eb", "#60a5fa", "#1e40af"},
	{"tech", "#2563eb", "#60a5fa", "#1e40af"},
	{"landscaping", "#3b6a4d", "#9caf88", "#a68c6d"},
	{"lawn", "#22c55e", "#86efac", "#15803d"},
	{"garden", "#22c55e", "#86efac", "#15803d"},
	{"medical", "#0ea5e9", "#7dd3fc", "#0284c7"},
	{"dental", "#0ea5e9", "#7dd3fc", "#0284c7"},
	{"health", "#0ea5e9", "#7dd3fc", "#0284c7"},
	{"legal", "#1f2937", "#6b7280", "#374151"},
	{"law", "#1f2937", "#6b7280", "#374151"},
	{"consulting", "#1f2937", "#6b7280", "#374151"},
	{"restaurant", "#dc2626", "#fca5a5", "#b91c1c"},
	{"cafe", "#92400e", "#fcd34d", "#78350f"},
	{"food", "#dc2626", "#fca5a5", "#b91c1c"},
}

// ThemeColors picks brand colors from the business type or name and sets
// background and text for the theme. Matching is case-insensitive.
func ThemeColors(businessType, businessName string, theme Theme) domain.ColorMap {
	bt, bn := strings.ToLower(businessType), strings.ToLower(businessName)

	var brand *brandColors
	for i := range brandTable {
		kw := brandTable[i].keyword
		if strings.Contains(bt, kw) || strings.Contains(bn, kw) {
			brand = &brandTable[i]
			break
		}
	}
	if brand == nil {
		if theme == ThemeDark {
			brand = &brandColors{primary: "#3b82f6", secondary: "#60a5fa", accent: "#1e40af"}
		} else {
			brand = &brandColors{primary: "#059669", secondary: "#34d399", accent: "#047857"}
		}
	}

	out := domain.ColorMap{Primary: brand.primary, Secondary: brand.secondary, Accent: brand.accent}
	switch theme {
	case ThemeDark:
		out.Background, out.Text = "#0f172a", "#f8fafc"
	case ThemeLight:
		out.Background, out.Text = "#f8fafc", "#1f2937"
	default:
		out.Background, out.Text = "#ffffff", "#374151"
	}
	return out
}
