package resolver

import (
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

// ResolveServices picks exactly one source: the preset list, the explicit
// names in the input, or the fallback catalog for the business type. Sources
// are never mixed.
func (r *Resolver) ResolveServices(raw *domain.RawSpec) domain.ServiceMap {
	if r.preset.Len() > 0 {
		return append(domain.ServiceMap(nil), r.preset...)
	}

	bt := businessType(raw)
	var out domain.ServiceMap
	for _, name := range raw.ServiceNames() {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "services") {
			continue
		}
		out.Add(name, r.GenerateDescription(name, bt))
	}
	if out.Len() > 0 {
		return out
	}

	return domain.NewServiceMap(r.tables.CatalogFor(bt)...)
}

// GenerateDescription returns a marketing description for a service. Service
// keywords are checked first, then the business type, then a generic
// template.
func (r *Resolver) GenerateDescription(service, businessType string) string {
	if d, ok := tables.FirstMatch(r.tables.DescriptionRules, service); ok {
		return d
	}
	tmpl, ok := tables.FirstMatch(r.tables.TypeDescriptions, businessType)
	if !ok {
		tmpl = r.tables.GenericDescription
	}
	return strings.ReplaceAll(tmpl, "{service}", strings.ToLower(service))
}

// ResolveCTA returns the call-to-action label for a service in the given
// context ("phone", "button", ...).
func (r *Resolver) ResolveCTA(service, context string) string {
	rules := r.tables.CTARulesFor(context)
	if label, ok := tables.FirstMatch(rules.Rules, service); ok {
		return label
	}
	return rules.Default
}
