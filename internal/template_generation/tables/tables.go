package tables

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

const (
	CTAPhone  = "phone"
	CTAButton = "button"
)

// Rule maps keywords to a result. A rule matches when at least one of Any
// occurs in the text (or Any is empty) and every keyword of All occurs.
type Rule struct {
	Any    []string `yaml:"any,omitempty"`
	All    []string `yaml:"all,omitempty"`
	Result string   `yaml:"result"`
}

func (r Rule) Matches(text string) bool {
	if len(r.Any) == 0 && len(r.All) == 0 {
		return false
	}
	text = strings.ToLower(text)
	for _, kw := range r.All {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, kw := range r.Any {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// FirstMatch returns the result of the first matching rule.
func FirstMatch(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if r.Matches(text) {
			return r.Result, true
		}
	}
	return "", false
}

type UsageRule struct {
	Any  []string         `yaml:"any"`
	Role domain.ColorRole `yaml:"role"`
}

type Palette struct {
	Name   string          `yaml:"name"`
	Match  []string        `yaml:"match"`
	Colors domain.ColorMap `yaml:"colors"`
}

type ServiceCatalog struct {
	Name     string           `yaml:"name"`
	Match    []string         `yaml:"match"`
	Services []domain.Service `yaml:"services"`
}

type CTARules struct {
	Default string `yaml:"default"`
	Rules   []Rule `yaml:"rules"`
}

// Tables holds the immutable lookup data used by the resolver and the
// request parser. Load it once and pass it explicitly.
type Tables struct {
	ColorUsage         []UsageRule         `yaml:"color_usage"`
	IndustryPalettes   []Palette           `yaml:"industry_palettes"`
	DefaultPalette     domain.ColorMap     `yaml:"default_palette"`
	DescriptionRules   []Rule              `yaml:"description_rules"`
	TypeDescriptions   []Rule              `yaml:"type_descriptions"`
	GenericDescription string              `yaml:"generic_description"`
	FallbackServices   []ServiceCatalog    `yaml:"fallback_services"`
	GenericServices    []domain.Service    `yaml:"generic_services"`
	CTA                map[string]CTARules `yaml:"cta"`
	BusinessTypes      []Rule              `yaml:"business_types"`
	PresetServices     []domain.Service    `yaml:"preset_services,omitempty"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the built-in tables. The returned value is shared and must
// not be modified.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTablesYAML)
		if err != nil {
			panic(fmt.Sprintf("tables: embedded defaults are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Parse decodes and validates a complete tables document.
func Parse(b []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("tables: decode: %w", err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads an override file. Sections the file leaves out are taken from
// the built-in defaults.
func Load(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tables: read %s: %w", path, err)
	}
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("tables: decode %s: %w", path, err)
	}
	t.mergeDefaults(Default())
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) Validate() error {
	for _, p := range append([]Palette{{Name: "default", Colors: t.DefaultPalette}}, t.IndustryPalettes...) {
		for _, role := range domain.ColorRoles {
			if _, ok := domain.NormalizeHex(p.Colors.Get(role)); !ok {
				return fmt.Errorf("tables: palette %q has invalid %s color %q", p.Name, role, p.Colors.Get(role))
			}
		}
	}
	for _, u := range t.ColorUsage {
		if _, ok := domain.ParseColorRole(string(u.Role)); !ok {
			return fmt.Errorf("tables: unknown color role %q", u.Role)
		}
	}
	for _, c := range t.FallbackServices {
		if len(c.Services) == 0 {
			return fmt.Errorf("tables: fallback catalog %q is empty", c.Name)
		}
	}
	if len(t.GenericServices) == 0 {
		return fmt.Errorf("tables: generic_services is empty")
	}
	if t.GenericDescription == "" {
		return fmt.Errorf("tables: generic_description is empty")
	}
	for _, ctx := range []string{CTAPhone, CTAButton} {
		if t.CTA[ctx].Default == "" {
			return fmt.Errorf("tables: cta %q has no default", ctx)
		}
	}
	return nil
}

func (t *Tables) mergeDefaults(d *Tables) {
	if len(t.ColorUsage) == 0 {
		t.ColorUsage = d.ColorUsage
	}
	if len(t.IndustryPalettes) == 0 {
		t.IndustryPalettes = d.IndustryPalettes
	}
	if len(t.DefaultPalette.Missing()) == len(domain.ColorRoles) {
		t.DefaultPalette = d.DefaultPalette
	}
	if len(t.DescriptionRules) == 0 {
		t.DescriptionRules = d.DescriptionRules
	}
	if len(t.TypeDescriptions) == 0 {
		t.TypeDescriptions = d.TypeDescriptions
	}
	if t.GenericDescription == "" {
		t.GenericDescription = d.GenericDescription
	}
	if len(t.FallbackServices) == 0 {
		t.FallbackServices = d.FallbackServices
	}
	if len(t.GenericServices) == 0 {
		t.GenericServices = d.GenericServices
	}
	if t.CTA == nil {
		t.CTA = map[string]CTARules{}
	}
	for k, v := range d.CTA {
		if _, ok := t.CTA[k]; !ok {
			t.CTA[k] = v
		}
	}
	if len(t.BusinessTypes) == 0 {
		t.BusinessTypes = d.BusinessTypes
	}
}

// normalize lowercases keywords and canonicalizes palette colors.
func (t *Tables) normalize() {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	lowerRules := func(rules []Rule) []Rule {
		out := make([]Rule, len(rules))
		for i, r := range rules {
			out[i] = Rule{Any: lower(r.Any), All: lower(r.All), Result: r.Result}
		}
		return out
	}
	canon := func(c domain.ColorMap) domain.ColorMap {
		for _, role := range domain.ColorRoles {
			if hex, ok := domain.NormalizeHex(c.Get(role)); ok {
				c.Set(role, hex)
			}
		}
		return c
	}

	usage := make([]UsageRule, len(t.ColorUsage))
	for i, u := range t.ColorUsage {
		usage[i] = UsageRule{Any: lower(u.Any), Role: domain.ColorRole(strings.ToLower(string(u.Role)))}
	}
	t.ColorUsage = usage

	palettes := make([]Palette, len(t.IndustryPalettes))
	for i, p := range t.IndustryPalettes {
		palettes[i] = Palette{Name: p.Name, Match: lower(p.Match), Colors: canon(p.Colors)}
	}
	t.IndustryPalettes = palettes
	t.DefaultPalette = canon(t.DefaultPalette)

	t.DescriptionRules = lowerRules(t.DescriptionRules)
	t.TypeDescriptions = lowerRules(t.TypeDescriptions)
	t.BusinessTypes = lowerRules(t.BusinessTypes)

	catalogs := make([]ServiceCatalog, len(t.FallbackServices))
	for i, c := range t.FallbackServices {
		catalogs[i] = ServiceCatalog{Name: c.Name, Match: lower(c.Match), Services: c.Services}
	}
	t.FallbackServices = catalogs

	cta := make(map[string]CTARules, len(t.CTA))
	for k, v := range t.CTA {
		cta[strings.ToLower(k)] = CTARules{Default: v.Default, Rules: lowerRules(v.Rules)}
	}
	t.CTA = cta
}

// PaletteFor returns the first industry palette whose match keywords occur in
// businessType.
func (t *Tables) PaletteFor(businessType string) (Palette, bool) {
	bt := strings.ToLower(businessType)
	for _, p := range t.IndustryPalettes {
		if containsAny(bt, p.Match) {
			return p, true
		}
	}
	return Palette{}, false
}

// CatalogFor returns the fallback services for businessType, or the generic
// catalog when no industry catalog matches.
func (t *Tables) CatalogFor(businessType string) []domain.Service {
	bt := strings.ToLower(businessType)
	for _, c := range t.FallbackServices {
		if containsAny(bt, c.Match) {
			return c.Services
		}
	}
	return t.GenericServices
}

// RoleForUsage classifies a free-text usage label into a color role.
func (t *Tables) RoleForUsage(usage string) (domain.ColorRole, bool) {
	u := strings.ToLower(usage)
	for _, r := range t.ColorUsage {
		if containsAny(u, r.Any) {
			return r.Role, true
		}
	}
	return "", false
}

// CTARulesFor returns the phone rules for the phone context and the button
// rules for every other context.
func (t *Tables) CTARulesFor(context string) CTARules {
	if strings.EqualFold(strings.TrimSpace(context), CTAPhone) {
		return t.CTA[CTAPhone]
	}
	return t.CTA[CTAButton]
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// LoadPresetServices reads a name -> description mapping (YAML or JSON)
// used as the highest-priority service tier.
func LoadPresetServices(path string) (domain.ServiceMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset services: read %s: %w", path, err)
	}
	var m domain.ServiceMap
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("preset services: decode %s: %w", path, err)
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("preset services: %s lists no services", path)
	}
	return m, nil
}
