package packager

import (
	"fmt"

	"github.com/gobwas/glob"
)

// DefaultIncludes selects every artifact a run produces.
var DefaultIncludes = []string{"templates/*.php", "reviews/*", "specs/*.json", "prompts/*.json", "design/*.json"}

type filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

func newFilter(include, exclude []string) (*filter, error) {
	if len(include) == 0 {
		include = DefaultIncludes
	}
	inc, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}
	return &filter{include: inc, exclude: exc}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *filter) allows(rel string) bool {
	for _, g := range f.exclude {
		if g.Match(rel) {
			return false
		}
	}
	for _, g := range f.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
