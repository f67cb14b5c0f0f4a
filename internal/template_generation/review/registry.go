package review

import (
	"sort"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

var registered = map[domain.ReviewKind]map[string]Check{}

func Register(c Check) {
	if c == nil {
		return
	}
	byName, ok := registered[c.Kind()]
	if !ok {
		byName = map[string]Check{}
		registered[c.Kind()] = byName
	}
	byName[c.Name()] = c
}

// All returns the checks of a kind sorted by name.
func All(kind domain.ReviewKind) []Check {
	out := make([]Check, 0, len(registered[kind]))
	for _, c := range registered[kind] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
