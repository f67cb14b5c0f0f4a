package domain

import "strings"

// RawSpec is the unresolved input of a generation request, as read from a
// structured JSON/YAML spec or extracted from a markdown request.
type RawSpec struct {
	BusinessInfo BusinessInfo `json:"business_info" yaml:"business_info"`
	ColorPalette ColorPalette `json:"color_palette" yaml:"color_palette"`
	Services     NameList     `json:"services,omitempty" yaml:"services,omitempty"`
	Requirements TextBlock    `json:"requirements,omitempty" yaml:"requirements,omitempty"`

	// flattened forms accepted alongside business_info
	BusinessName string `json:"business_name,omitempty" yaml:"business_name,omitempty"`
	BusinessType string `json:"business_type,omitempty" yaml:"business_type,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Address      string `json:"address,omitempty" yaml:"address,omitempty"`

	// populated by the markdown parser
	Sections   map[string]string `json:"sections,omitempty" yaml:"sections,omitempty"`
	SiteType   string            `json:"site_type,omitempty" yaml:"site_type,omitempty"`
	Navigation []string          `json:"navigation,omitempty" yaml:"navigation,omitempty"`
}

type BusinessInfo struct {
	BusinessName string   `json:"business_name,omitempty" yaml:"business_name,omitempty"`
	BusinessType string   `json:"business_type,omitempty" yaml:"business_type,omitempty"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	Phone        string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email        string   `json:"email,omitempty" yaml:"email,omitempty"`
	Address      string   `json:"address,omitempty" yaml:"address,omitempty"`
	Tagline      string   `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Services     NameList `json:"services,omitempty" yaml:"services,omitempty"`
}

type ColorPalette struct {
	MappedColors    map[string]string `json:"mapped_colors,omitempty" yaml:"mapped_colors,omitempty"`
	SpecifiedColors []SpecifiedColor  `json:"specified_colors,omitempty" yaml:"specified_colors,omitempty"`
}

type SpecifiedColor struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Usage   string `json:"usage" yaml:"usage"`
	HexCode string `json:"hex_code" yaml:"hex_code"`
}

// Section names recognized in markdown requests.
const (
	SectionProjectDescription    = "project_description"
	SectionRequirements          = "requirements"
	SectionTargetAudience        = "target_audience"
	SectionDesignPreferences     = "design_preferences"
	SectionTechnicalRequirements = "technical_requirements"
	SectionServices              = "services"
	SectionColorPalette          = "color_palette"
)

func (r *RawSpec) Name() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.BusinessName, r.BusinessInfo.BusinessName)
}

func (r *RawSpec) Type() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.BusinessType, r.BusinessInfo.BusinessType)
}

func (r *RawSpec) Where() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.Location, r.BusinessInfo.Location)
}

func (r *RawSpec) ContactPhone() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.Phone, r.BusinessInfo.Phone)
}

func (r *RawSpec) ContactEmail() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.Email, r.BusinessInfo.Email)
}

func (r *RawSpec) ContactAddress() string {
	if r == nil {
		return ""
	}
	return firstNonBlank(r.Address, r.BusinessInfo.Address)
}

// ServiceNames returns the explicit service names: top-level first, then
// business_info.services.
func (r *RawSpec) ServiceNames() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Services)+len(r.BusinessInfo.Services))
	out = append(out, r.Services...)
	out = append(out, r.BusinessInfo.Services...)
	return out
}

// Section returns the body of a recognized markdown section, or the
// requirements text for structured specs.
func (r *RawSpec) Section(name string) string {
	if r == nil {
		return ""
	}
	if s, ok := r.Sections[name]; ok {
		return s
	}
	if name == SectionRequirements {
		return string(r.Requirements)
	}
	return ""
}

// DesignNotes joins the free-text sections that describe the desired look.
func (r *RawSpec) DesignNotes() string {
	var parts []string
	for _, name := range []string{SectionProjectDescription, SectionRequirements, SectionDesignPreferences} {
		if s := strings.TrimSpace(r.Section(name)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
