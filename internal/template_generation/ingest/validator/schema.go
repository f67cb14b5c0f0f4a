package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

// Validate reports problems in a raw spec as warnings. The resolver copes
// with every one of them, so none of them stop the pipeline.
func Validate(s *domain.RawSpec) []string {
	if s == nil {
		return []string{"spec is empty; all values will use defaults"}
	}

	var warnings []string
	if s.Name() == "" {
		warnings = append(warnings, "business name is missing")
	}
	if s.Type() == "" {
		warnings = append(warnings, fmt.Sprintf("business type is missing; using %q", domain.DefaultBusinessType))
	}

	seen := map[string]bool{}
	for _, name := range s.ServiceNames() {
		n := strings.TrimSpace(name)
		switch {
		case n == "":
			warnings = append(warnings, "service name is empty")
		case strings.EqualFold(n, "services"):
			warnings = append(warnings, fmt.Sprintf("placeholder service entry %q ignored", n))
		case seen[n]:
			warnings = append(warnings, fmt.Sprintf("duplicate service: %q", n))
		}
		seen[n] = true
	}

	keys := make([]string, 0, len(s.ColorPalette.MappedColors))
	for k := range s.ColorPalette.MappedColors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := s.ColorPalette.MappedColors[key]
		if _, ok := domain.ParseColorRole(key); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown color role %q", key))
			continue
		}
		if _, ok := domain.NormalizeHex(value); !ok {
			warnings = append(warnings, fmt.Sprintf("invalid hex code %q for %s", value, key))
		}
	}
	for _, c := range s.ColorPalette.SpecifiedColors {
		if _, ok := domain.NormalizeHex(c.HexCode); !ok {
			warnings = append(warnings, fmt.Sprintf("invalid hex code %q for usage %q", c.HexCode, c.Usage))
		}
	}
	return warnings
}
