// Package variation derives a design variation (palette harmony, typography,
// layout and component styles) from a resolved spec. Choices are a pure
// function of the spec, so the same request always gets the same look.
package variation

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

type Typography struct {
	Fonts          FontPairing `json:"fonts"`
	Scale          SizeScale   `json:"scale"`
	GoogleFontsURL string      `json:"google_fonts_url"`
}

type Layout struct {
	Hero               HeroStyle `json:"hero_style"`
	SectionArrangement string    `json:"section_arrangement"`
	GridSystem         string    `json:"grid_system"`
}

type Components struct {
	Buttons ButtonStyle `json:"buttons"`
	Cards   CardStyle   `json:"cards"`
}

type UniqueElements struct {
	BackgroundPattern string `json:"background_pattern"`
	DecorativeElement string `json:"decorative_element"`
	InteractionStyle  string `json:"interaction_style"`
}

type Variation struct {
	ID             string            `json:"variation_id"`
	Industry       string            `json:"industry_context"`
	Harmony        Harmony           `json:"harmony"`
	Palette        Palette           `json:"color_palette"`
	Typography     Typography        `json:"typography_scheme"`
	Layout         Layout            `json:"layout_structure"`
	Components     Components        `json:"component_styles"`
	UniqueElements UniqueElements    `json:"unique_elements"`
	CSSVariables   map[string]string `json:"css_variables"`
	Personality    string            `json:"design_personality"`
	Theme          Theme             `json:"theme"`
	ThemeColors    domain.ColorMap   `json:"theme_colors"`
}

const fallbackBase = "#2563eb"

type Generator struct {
	catalog *Catalog
}

func New(c *Catalog) *Generator {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Generator{catalog: c}
}

// Generate builds the variation for spec. notes is free text from the
// request (requirements, design preferences) used for industry and theme
// detection.
func (g *Generator) Generate(spec domain.ProjectSpec, notes string) Variation {
	c := g.catalog
	key := seedKey(spec)
	industry := c.DetectIndustry(spec.BusinessType + "\n" + notes)

	harmony := c.Harmonies[pick(key, "harmony", len(c.Harmonies))]
	bases := c.influences(industry)
	base := bases[pick(key, "base", len(bases))]
	palette, err := Harmonize(base, harmony)
	if err != nil {
		// only reachable with a catalog that skipped Validate
		harmony = Complementary
		palette, _ = Harmonize(fallbackBase, harmony)
	}

	fonts := c.FontPairings[pick(key, "fonts", len(c.FontPairings))]
	typo := Typography{
		Fonts:          fonts,
		Scale:          c.SizeScales[pick(key, "scale", len(c.SizeScales))],
		GoogleFontsURL: GoogleFontsURL(fonts),
	}
	theme := DetectTheme(notes)

	v := Variation{
		ID:         fmt.Sprintf("var_%012x", hash(key)&0xffffffffffff),
		Industry:   industry,
		Harmony:    harmony,
		Palette:    palette,
		Typography: typo,
		Layout: Layout{
			Hero:               c.HeroStyles[pick(key, "hero", len(c.HeroStyles))],
			SectionArrangement: c.SectionArrangements[pick(key, "sections", len(c.SectionArrangements))],
			GridSystem:         c.GridSystems[pick(key, "grid", len(c.GridSystems))],
		},
		Components: Components{
			Buttons: c.ButtonStyles[pick(key, "buttons", len(c.ButtonStyles))],
			Cards:   c.CardStyles[pick(key, "cards", len(c.CardStyles))],
		},
		UniqueElements: UniqueElements{
			BackgroundPattern: c.BackgroundPatterns[pick(key, "pattern", len(c.BackgroundPatterns))],
			DecorativeElement: c.DecorativeElements[pick(key, "decoration", len(c.DecorativeElements))],
			InteractionStyle:  c.InteractionStyles[pick(key, "interaction", len(c.InteractionStyles))],
		},
		Theme:       theme,
		ThemeColors: ThemeColors(spec.BusinessType, spec.BusinessName, theme),
	}
	v.CSSVariables = cssVariables(v.Palette, v.Typography)
	v.Personality = personality(v.Palette, v.Typography)
	return v
}

// GoogleFontsURL requests each distinct family of the pairing once.
func GoogleFontsURL(p FontPairing) string {
	seen := map[string]bool{}
	var families []string
	for _, f := range []string{p.Heading, p.Body, p.Accent} {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		families = append(families, "family="+strings.ReplaceAll(url.PathEscape(f), "%20", "+")+":wght@300;400;500;600;700")
	}
	if len(families) == 0 {
		families = []string{"family=Inter:wght@300;400;500;600;700"}
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(families, "&") + "&display=swap"
}

func cssVariables(p Palette, t Typography) map[string]string {
	accentFont := t.Fonts.Accent
	if accentFont == "" {
		accentFont = t.Fonts.Body
	}
	return map[string]string{
		"--primary-color":   p.Primary,
		"--secondary-color": p.Secondary,
		"--accent-color":    p.Accent,
		"--neutral-light":   p.NeutralLight,
		"--neutral-dark":    p.NeutralDark,
		"--font-heading":    t.Fonts.Heading,
		"--font-body":       t.Fonts.Body,
		"--font-accent":     accentFont,
		"--text-xl":         t.Scale.H1,
		"--text-lg":         t.Scale.H2,
		"--text-md":         t.Scale.H3,
		"--text-base":       t.Scale.Body,
	}
}

func personality(p Palette, t Typography) string {
	var traits []string
	switch HueFamily(p.Primary) {
	case "blue":
		traits = append(traits, "professional")
	case "purple":
		traits = append(traits, "creative")
	case "red":
		traits = append(traits, "energetic")
	}
	font := strings.TrimSpace(strings.SplitN(t.Fonts.Personality, ",", 2)[0])
	if font == "" {
		font = "modern"
	}
	return strings.Join(append(traits, font), ", ")
}

func seedKey(spec domain.ProjectSpec) string {
	parts := []string{
		strings.ToLower(spec.BusinessName),
		strings.ToLower(spec.BusinessType),
		strings.ToLower(spec.Location),
	}
	return strings.Join(append(parts, spec.Services.Names()...), "|")
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func pick(key, salt string, n int) int {
	return int(hash(key+"#"+salt) % uint64(n))
}
