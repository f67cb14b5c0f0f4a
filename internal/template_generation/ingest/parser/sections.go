package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

// sectionAliases maps normalized heading text to a section name.
var sectionAliases = map[string]string{
	"project description":     domain.SectionProjectDescription,
	"project overview":        domain.SectionProjectDescription,
	"description":             domain.SectionProjectDescription,
	"overview":                domain.SectionProjectDescription,
	"requirements":            domain.SectionRequirements,
	"functional requirements": domain.SectionRequirements,
	"target audience":         domain.SectionTargetAudience,
	"audience":                domain.SectionTargetAudience,
	"design preferences":      domain.SectionDesignPreferences,
	"design":                  domain.SectionDesignPreferences,
	"technical requirements":  domain.SectionTechnicalRequirements,
	"services":                domain.SectionServices,
	"our services":            domain.SectionServices,
	"services offered":        domain.SectionServices,
	"color palette":           domain.SectionColorPalette,
	"colour palette":          domain.SectionColorPalette,
	"colors":                  domain.SectionColorPalette,
	"brand colors":            domain.SectionColorPalette,
}

type heading struct {
	level     int
	title     string
	lineStart int
	bodyStart int
}

// splitSections uses markdown headings as anchors and returns the body of
// every recognized section. A section runs until the next heading of the
// same or a higher level.
func splitSections(src []byte) map[string]string {
	heads := collectHeadings(src)
	out := map[string]string{}
	for i, h := range heads {
		name, ok := sectionAliases[normalizeTitle(h.title)]
		if !ok {
			continue
		}
		end := len(src)
		for _, next := range heads[i+1:] {
			if next.level <= h.level {
				end = next.lineStart
				break
			}
		}
		if h.bodyStart > end {
			continue
		}
		body := strings.TrimSpace(string(src[h.bodyStart:end]))
		if _, exists := out[name]; !exists {
			out[name] = body
		}
	}
	return out
}

func collectHeadings(src []byte) []heading {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var heads []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		var title bytes.Buffer
		lines := h.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			title.Write(seg.Value(src))
		}
		first := lines.At(0)
		last := lines.At(lines.Len() - 1)
		heads = append(heads, heading{
			level:     h.Level,
			title:     title.String(),
			lineStart: lineStart(src, first.Start),
			bodyStart: bodyStart(src, lineStart(src, last.Start)),
		})
	}
	return heads
}

func lineStart(src []byte, pos int) int {
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// bodyStart skips the heading line starting at pos and a setext underline.
func bodyStart(src []byte, pos int) int {
	next := func(p int) int {
		if i := bytes.IndexByte(src[p:], '\n'); i >= 0 {
			return p + i + 1
		}
		return len(src)
	}
	p := next(pos)
	underline := strings.TrimSpace(string(src[p:next(p)]))
	if underline != "" && strings.Trim(underline, "=-") == "" {
		p = next(p)
	}
	return p
}

func normalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, "#*_: ")
	return strings.Join(strings.Fields(s), " ")
}
