package variation

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type FontPairing struct {
	Name        string `json:"name" yaml:"name"`
	Heading     string `json:"heading" yaml:"heading"`
	Body        string `json:"body" yaml:"body"`
	Accent      string `json:"accent" yaml:"accent"`
	Personality string `json:"personality" yaml:"personality"`
}

type SizeScale struct {
	Name string `json:"name" yaml:"name"`
	H1   string `json:"h1" yaml:"h1"`
	H2   string `json:"h2" yaml:"h2"`
	H3   string `json:"h3" yaml:"h3"`
	Body string `json:"body" yaml:"body"`
}

type HeroStyle struct {
	Name         string `json:"name" yaml:"name"`
	Structure    string `json:"structure" yaml:"structure"`
	CTAPlacement string `json:"cta_placement" yaml:"cta_placement"`
	VisualWeight string `json:"visual_weight" yaml:"visual_weight"`
	Description  string `json:"description" yaml:"description"`
}

type ButtonStyle struct {
	Name         string `json:"name" yaml:"name"`
	BorderRadius string `json:"border_radius" yaml:"border_radius"`
	Padding      string `json:"padding" yaml:"padding"`
	Shadow       string `json:"shadow" yaml:"shadow"`
}

type CardStyle struct {
	Name         string `json:"name" yaml:"name"`
	BorderRadius string `json:"border_radius" yaml:"border_radius"`
	Shadow       string `json:"shadow" yaml:"shadow"`
	Border       string `json:"border" yaml:"border"`
}

// Catalog is the option library variations are drawn from.
type Catalog struct {
	Industries          []tables.Rule       `yaml:"industries"`
	DefaultIndustry     string              `yaml:"default_industry"`
	Influences          map[string][]string `yaml:"influences"`
	Harmonies           []Harmony           `yaml:"harmonies"`
	FontPairings        []FontPairing       `yaml:"font_pairings"`
	SizeScales          []SizeScale         `yaml:"size_scales"`
	HeroStyles          []HeroStyle         `yaml:"hero_styles"`
	SectionArrangements []string            `yaml:"section_arrangements"`
	GridSystems         []string            `yaml:"grid_systems"`
	ButtonStyles        []ButtonStyle       `yaml:"button_styles"`
	CardStyles          []CardStyle         `yaml:"card_styles"`
	BackgroundPatterns  []string            `yaml:"background_patterns"`
	DecorativeElements  []string            `yaml:"decorative_elements"`
	InteractionStyles   []string            `yaml:"interaction_styles"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog. It is shared; do not modify.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("variation: embedded catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("variation: read %s: %w", path, err)
	}
	return ParseCatalog(b)
}

func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("variation: decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate requires at least one option per choice and well-formed base
// colors, so Generate never has to fall back.
func (c *Catalog) Validate() error {
	sizes := map[string]int{
		"harmonies":            len(c.Harmonies),
		"font_pairings":        len(c.FontPairings),
		"size_scales":          len(c.SizeScales),
		"hero_styles":          len(c.HeroStyles),
		"section_arrangements": len(c.SectionArrangements),
		"grid_systems":         len(c.GridSystems),
		"button_styles":        len(c.ButtonStyles),
		"card_styles":          len(c.CardStyles),
		"background_patterns":  len(c.BackgroundPatterns),
		"decorative_elements":  len(c.DecorativeElements),
		"interaction_styles":   len(c.InteractionStyles),
	}
	for name, n := range sizes {
		if n == 0 {
			return fmt.Errorf("variation: catalog %s is empty", name)
		}
	}
	if len(c.Influences["default"]) == 0 {
		return fmt.Errorf("variation: catalog has no default influences")
	}
	for industry, colors := range c.Influences {
		for _, hex := range colors {
			if _, ok := domain.NormalizeHex(hex); !ok {
				return fmt.Errorf("variation: industry %q has invalid color %q", industry, hex)
			}
		}
	}
	for _, h := range c.Harmonies {
		if !h.valid() {
			return fmt.Errorf("variation: unknown harmony %q", h)
		}
	}
	return nil
}

// DetectIndustry classifies free text (business type, requirements) into
// one of the catalog's industries.
func (c *Catalog) DetectIndustry(text string) string {
	if industry, ok := tables.FirstMatch(c.Industries, text); ok {
		return industry
	}
	if c.DefaultIndustry != "" {
		return c.DefaultIndustry
	}
	return "default"
}

func (c *Catalog) influences(industry string) []string {
	if colors := c.Influences[industry]; len(colors) > 0 {
		return colors
	}
	return c.Influences["default"]
}
