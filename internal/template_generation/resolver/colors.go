package resolver

import (
	"sort"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

// ResolveColors fills the five color roles from, in order of precedence:
// explicit role mappings, usage-labelled colors, the industry palette for the
// business type, and the global default palette. A lower tier only fills the
// roles left empty by the tiers above it.
func (r *Resolver) ResolveColors(raw *domain.RawSpec) domain.ColorMap {
	var out domain.ColorMap
	if raw != nil {
		r.applyMapped(&out, raw.ColorPalette.MappedColors)
		r.applySpecified(&out, raw.ColorPalette.SpecifiedColors)
	}
	if out.Complete() {
		return out
	}
	if p, ok := r.tables.PaletteFor(businessType(raw)); ok {
		out.FillMissing(p.Colors)
	}
	out.FillMissing(r.tables.DefaultPalette)
	return out
}

func (r *Resolver) applyMapped(out *domain.ColorMap, mapped map[string]string) {
	keys := make([]string, 0, len(mapped))
	for k := range mapped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		role, ok := domain.ParseColorRole(key)
		if !ok || out.Get(role) != "" {
			continue
		}
		if hex, ok := domain.NormalizeHex(mapped[key]); ok {
			out.Set(role, hex)
		}
	}
}

func (r *Resolver) applySpecified(out *domain.ColorMap, specified []domain.SpecifiedColor) {
	for _, c := range specified {
		role, ok := r.tables.RoleForUsage(c.Usage)
		if !ok || out.Get(role) != "" {
			continue
		}
		if hex, ok := domain.NormalizeHex(c.HexCode); ok {
			out.Set(role, hex)
		}
	}
}
