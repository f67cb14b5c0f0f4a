package resolver

import (
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

// Resolver turns a RawSpec into a complete ProjectSpec using tiered
// fallbacks. It never fails: missing input always resolves to defaults.
type Resolver struct {
	tables *tables.Tables
	preset domain.ServiceMap
}

type Option func(*Resolver)

// WithPresetServices configures an externally supplied service list that
// takes precedence over anything found in the input.
func WithPresetServices(m domain.ServiceMap) Option {
	return func(r *Resolver) { r.preset = m }
}

func New(t *tables.Tables, opts ...Option) *Resolver {
	if t == nil {
		t = tables.Default()
	}
	r := &Resolver{tables: t}
	for _, s := range t.PresetServices {
		r.preset.Add(s.Name, s.Description)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Tables() *tables.Tables { return r.tables }

func (r *Resolver) Resolve(raw *domain.RawSpec) domain.ProjectSpec {
	return domain.ProjectSpec{
		BusinessName: raw.Name(),
		BusinessType: businessType(raw),
		Location:     raw.Where(),
		Services:     r.ResolveServices(raw),
		Colors:       r.ResolveColors(raw),
		Contact:      r.ResolveContact(raw),
	}
}

func (r *Resolver) ResolveContact(raw *domain.RawSpec) domain.Contact {
	return domain.Contact{
		Phone:        raw.ContactPhone(),
		Email:        raw.ContactEmail(),
		Address:      raw.ContactAddress(),
		BusinessName: raw.Name(),
		BusinessType: businessType(raw),
	}
}

func businessType(raw *domain.RawSpec) string {
	if bt := strings.TrimSpace(raw.Type()); bt != "" {
		return bt
	}
	return domain.DefaultBusinessType
}
