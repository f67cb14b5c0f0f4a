package resolver

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

var defaultColors = domain.ColorMap{
	Primary:    "#2563eb",
	Secondary:  "#1d4ed8",
	Accent:     "#f59e0b",
	Background: "#ffffff",
	Text:       "#1f2937",
}

func newResolver() *Resolver { return New(tables.Default()) }

func TestResolve_PCRepairFallbacks(t *testing.T) {
	r := newResolver()
	spec := r.Resolve(&domain.RawSpec{BusinessType: "PC Repair"})

	assert.Equal(t, "#3b82f6", spec.Colors.Primary)
	assert.True(t, spec.Colors.Complete())
	assert.Equal(t, []string{"Computer Diagnostics", "Hardware Repair", "Software Solutions"}, spec.Services.Names())
	assert.Equal(t, "PC Repair", spec.Contact.BusinessType)
}

func TestResolve_EmptyInput(t *testing.T) {
	r := newResolver()

	for name, raw := range map[string]*domain.RawSpec{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			spec := r.Resolve(raw)
			assert.Equal(t, defaultColors, spec.Colors)
			assert.Equal(t, domain.DefaultBusinessType, spec.BusinessType)
			assert.Equal(t, 3, spec.Services.Len())
			assert.Equal(t, "Professional Consultation", spec.Services[0].Name)
		})
	}
}

func TestResolveServices_SkipsPlaceholderEntry(t *testing.T) {
	r := newResolver()
	svcs := r.ResolveServices(&domain.RawSpec{Services: domain.NameList{"Lawn Maintenance", "Services"}})

	require.Equal(t, 1, svcs.Len())
	desc, ok := svcs.Get("Lawn Maintenance")
	require.True(t, ok)
	assert.Equal(t, "Comprehensive lawn care and maintenance services to keep your yard healthy and beautiful year-round.", desc)
}

func TestResolveServices_ExplicitNamesAreNotMixedWithFallback(t *testing.T) {
	r := newResolver()
	svcs := r.ResolveServices(&domain.RawSpec{
		BusinessType: "PC Repair",
		Services:     domain.NameList{"Custom Builds", "custom builds", " ", "Custom Builds"},
	})

	assert.Equal(t, []string{"Custom Builds", "custom builds"}, svcs.Names())
}

func TestResolveServices_PresetWins(t *testing.T) {
	preset := domain.NewServiceMap(domain.Service{Name: "Tree Removal", Description: "We remove trees."})
	r := New(tables.Default(), WithPresetServices(preset))

	svcs := r.ResolveServices(&domain.RawSpec{Services: domain.NameList{"Lawn Maintenance"}})
	assert.Equal(t, preset, svcs)
}

func TestGenerateDescription(t *testing.T) {
	r := newResolver()

	cases := []struct {
		service      string
		businessType string
		want         string
	}{
		{"Landscape Design", "", "Professional landscape design services to transform your outdoor space into a beautiful and functional environment."},
		{"Patio Installation", "", "Expert hardscaping and patio installation to create stunning outdoor living areas for your home."},
		{"Virus Removal", "PC Repair", "Complete virus and malware removal to keep your computer safe and running smoothly."},
		{"Data Recovery", "PC Repair", "Recover lost data and set up reliable backup solutions to protect your important files."},
		{"Tree Trimming", "Landscaping", "Professional tree trimming services to enhance and maintain your outdoor spaces."},
		{"Network Setup", "PC Repair", "Expert network setup services to keep your technology running smoothly."},
		{"Hardware Repair", "PC Repair", "Professional hardware diagnosis, repair, and upgrade services for optimal performance."},
		{"Hardware Upgrades", "PC Repair", "Expert hardware upgrades services to keep your technology running smoothly."},
		{"Catering", "Bakery", "Professional catering services delivered with expertise, attention to detail, and a commitment to customer satisfaction."},
	}
	for _, tc := range cases {
		t.Run(tc.service, func(t *testing.T) {
			assert.Equal(t, tc.want, r.GenerateDescription(tc.service, tc.businessType))
		})
	}
}

func TestGenerateDescription_CaseInsensitive(t *testing.T) {
	r := newResolver()

	assert.Equal(t, r.GenerateDescription("Virus Removal", "PC Repair"), r.GenerateDescription("virus removal", "pc repair"))
	assert.Equal(t, r.GenerateDescription("DATA RECOVERY", ""), r.GenerateDescription("data recovery", ""))
	assert.Equal(t, r.GenerateDescription("Network Setup", "PC REPAIR"), r.GenerateDescription("Network Setup", "pc repair"))
}

func TestGenerateDescription_Deterministic(t *testing.T) {
	r := newResolver()
	for _, svc := range []string{"Lawn Care", "Hardware Upgrades", "Catering", ""} {
		assert.Equal(t, r.GenerateDescription(svc, "Landscaping"), r.GenerateDescription(svc, "Landscaping"), svc)
		assert.Equal(t, r.ResolveCTA(svc, "button"), r.ResolveCTA(svc, "button"), svc)
	}
}

func TestResolveCTA_CaseInsensitive(t *testing.T) {
	r := newResolver()

	assert.Equal(t, r.ResolveCTA("Emergency Repair", "phone"), r.ResolveCTA("emergency repair", "phone"))
	assert.Equal(t, r.ResolveCTA("Landscape Design", "button"), r.ResolveCTA("LANDSCAPE DESIGN", "Button"))
}

func TestResolveCTA(t *testing.T) {
	r := newResolver()

	assert.Equal(t, "Call Now", r.ResolveCTA("Emergency Repair", "phone"))
	assert.Equal(t, "Get Help Now", r.ResolveCTA("Emergency Repair", "button"))
	assert.Equal(t, "Schedule Call", r.ResolveCTA("Free Consultation", "PHONE"))
	assert.Equal(t, "Call Today", r.ResolveCTA("Lawn Care", "phone"))
	assert.Equal(t, "Get Design Quote", r.ResolveCTA("Landscape Design", "button"))
	assert.Equal(t, "Schedule Service", r.ResolveCTA("Lawn Maintenance", "link"))
	assert.Equal(t, "Get Installed", r.ResolveCTA("Solar Installation", "button"))
	assert.Equal(t, "Get Started", r.ResolveCTA("Tutoring", "button"))
}

func TestResolveColors_Tiers(t *testing.T) {
	r := newResolver()

	t.Run("industry palette", func(t *testing.T) {
		c := r.ResolveColors(&domain.RawSpec{BusinessType: "Landscaping Services"})
		assert.Equal(t, domain.ColorMap{
			Primary:    "#22c55e",
			Secondary:  "#16a34a",
			Accent:     "#84cc16",
			Background: "#ffffff",
			Text:       "#1f2937",
		}, c)
	})

	t.Run("unknown type uses default", func(t *testing.T) {
		assert.Equal(t, defaultColors, r.ResolveColors(&domain.RawSpec{BusinessType: "Underwater Basket Weaving"}))
	})

	t.Run("mapped colors win and are normalized", func(t *testing.T) {
		c := r.ResolveColors(&domain.RawSpec{
			BusinessType: "Landscaping",
			ColorPalette: domain.ColorPalette{MappedColors: map[string]string{
				"primary": "#ABC",
				"text":    "not-a-color",
				"border":  "#000000",
			}},
		})
		assert.Equal(t, "#aabbcc", c.Primary)
		assert.Equal(t, "#1f2937", c.Text)
		assert.Equal(t, "#16a34a", c.Secondary)
	})

	t.Run("specified colors fill by usage, first match wins", func(t *testing.T) {
		c := r.ResolveColors(&domain.RawSpec{
			ColorPalette: domain.ColorPalette{
				MappedColors: map[string]string{"primary": "#111111"},
				SpecifiedColors: []domain.SpecifiedColor{
					{Usage: "Buttons and accents", HexCode: "#222222"},
					{Usage: "Icon highlights", HexCode: "#333333"},
					{Usage: "Secondary highlight", HexCode: "#444444"},
					{Usage: "Footer background", HexCode: "#555555"},
				},
			},
		})
		assert.Equal(t, "#111111", c.Primary)
		assert.Equal(t, "#333333", c.Secondary)
		assert.Equal(t, "#555555", c.Background)
		assert.Equal(t, defaultColors.Accent, c.Accent)
		assert.Equal(t, defaultColors.Text, c.Text)
	})
}

func TestResolveColors_AlwaysComplete(t *testing.T) {
	r := newResolver()
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)

	tests := []struct {
		name string
		raw  *domain.RawSpec
	}{
		{"empty", &domain.RawSpec{}},
		{"known type", &domain.RawSpec{BusinessType: "PC Repair"}},
		{"empty palette", &domain.RawSpec{ColorPalette: domain.ColorPalette{MappedColors: map[string]string{}}}},
		{"garbage mapped", &domain.RawSpec{ColorPalette: domain.ColorPalette{MappedColors: map[string]string{
			"primary": "blue", "secondary": "#12", "accent": "#GGGGGG", "background": "", "text": "#1234567",
		}}}},
		{"uppercase shorthand", &domain.RawSpec{ColorPalette: domain.ColorPalette{MappedColors: map[string]string{
			"primary": "#ABC", "text": "#FFFFFF",
		}}}},
		{"garbage specified", &domain.RawSpec{ColorPalette: domain.ColorPalette{SpecifiedColors: []domain.SpecifiedColor{
			{Usage: "primary", HexCode: "red"},
			{Usage: "", HexCode: "#000000"},
			{Usage: "accent", HexCode: ""},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := r.ResolveColors(tt.raw)
			for role, v := range map[string]string{
				"primary": c.Primary, "secondary": c.Secondary, "accent": c.Accent,
				"background": c.Background, "text": c.Text,
			} {
				assert.Regexp(t, hex, v, role)
			}
			assert.Equal(t, c, r.ResolveColors(tt.raw))
		})
	}
}

func TestResolve_IsIdempotent(t *testing.T) {
	r := newResolver()
	raw := &domain.RawSpec{
		BusinessInfo: domain.BusinessInfo{BusinessName: "Green Acres", BusinessType: "Landscaping", Location: "Austin, TX"},
		Services:     domain.NameList{"Lawn Maintenance", "Patio Design"},
	}

	first := r.Resolve(raw)
	second := r.Resolve(raw)
	assert.Equal(t, first, second)
}

func TestResolve_JSONRoundTrip(t *testing.T) {
	r := newResolver()
	spec := r.Resolve(&domain.RawSpec{
		BusinessName: "Byte Fixers",
		BusinessType: "PC Repair",
		Location:     "Denver, CO",
		Phone:        "(555) 123-4567",
		Email:        "hello@bytefixers.example",
		Services:     domain.NameList{"Virus Removal", "Data Recovery", "Hardware Upgrades"},
	})

	b, err := json.Marshal(spec)
	require.NoError(t, err)

	var back domain.ProjectSpec
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, spec, back)
	assert.Equal(t, []string{"Virus Removal", "Data Recovery", "Hardware Upgrades"}, back.Services.Names())
}
