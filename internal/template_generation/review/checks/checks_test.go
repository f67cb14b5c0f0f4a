package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/emitter"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/resolver"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/scoring"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/seo"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

func renderedPage(t *testing.T) string {
	t.Helper()
	r := resolver.New(tables.Default())
	spec := r.Resolve(&domain.RawSpec{
		BusinessName: "Evergreen Yards",
		BusinessType: "Landscaping",
		Location:     "Austin, TX",
		Phone:        "512-555-0100",
		Services:     domain.NameList{"Lawn Care", "Hardscaping"},
	})
	e, err := emitter.New()
	require.NoError(t, err)
	doc, err := e.Render(spec, r)
	require.NoError(t, err)
	return doc.Markup
}

func TestRegisteredCatalog(t *testing.T) {
	code := review.All(domain.ReviewCode)
	design := review.All(domain.ReviewDesign)
	assert.Len(t, code, len(codeRules))
	assert.Len(t, design, len(designRules))

	for _, c := range append(code, design...) {
		assert.Greater(t, c.Points(), 0.0, c.Name())
		assert.Greater(t, scoring.Weight(c.Kind(), c.Category()), 0.0, c.Name())
		assert.NotEmpty(t, c.Advice().Description, c.Name())
	}
}

func TestEmittedPageScoresHigh(t *testing.T) {
	m := renderedPage(t)

	code := review.Score(domain.ReviewCode, m)
	assert.Equal(t, 10.0, code.OverallScore, "%v", code.Recommendations)

	design := review.Score(domain.ReviewDesign, m)
	assert.Equal(t, 10.0, design.OverallScore, "%v", design.Recommendations)
	assert.Empty(t, design.Recommendations)
}

func TestEmptyMarkupScoresLow(t *testing.T) {
	code := review.Score(domain.ReviewCode, "")
	assert.Less(t, code.OverallScore, 4.0)
	assert.NotEmpty(t, code.Recommendations)
	assert.Equal(t, domain.PriorityHigh, code.Recommendations[0].Priority)

	design := review.Score(domain.ReviewDesign, "")
	assert.Equal(t, 0.0, design.OverallScore)
	assert.Len(t, design.Recommendations, len(designRules))
}

func TestScriptAndMissingCSRF(t *testing.T) {
	m := renderedPage(t)
	m = strings.Replace(m, "</body>", "<script>alert(1)</script></body>", 1)
	m = strings.ReplaceAll(m, "hash_equals", "strcmp")

	rep := review.Score(domain.ReviewCode, m)
	checks := map[string]bool{}
	for _, r := range rep.Recommendations {
		checks[r.Check] = true
	}
	assert.True(t, checks["no_inline_script"])
	assert.True(t, checks["csrf_token"])
	assert.Less(t, rep.Categories["security"].Score, 10.0)
	assert.Contains(t, rep.Categories["security"].Comments, "Inline scripts present (1 found)")
}

func TestStructuredDataIsNotInlineScript(t *testing.T) {
	m := renderedPage(t)
	m = strings.Replace(m, "</body>", `<script type="application/ld+json">{"name": "a { b"}</script></body>`, 1)

	rep := review.Score(domain.ReviewCode, m)
	assert.Equal(t, 10.0, rep.OverallScore, "%v", rep.Recommendations)
	assert.Contains(t, rep.Categories["security"].Comments, "No inline scripts")
	assert.Contains(t, rep.Categories["code_quality"].Comments, "Braces are balanced")
}

func TestSEOEnhancedPageScoresHigh(t *testing.T) {
	m, err := seo.Enhance(renderedPage(t), seo.Info{
		BusinessName: "Evergreen Yards",
		Service:      "Landscaping",
		City:         "Austin",
		State:        "TX",
		Services:     []string{"Lawn Care", "Hardscaping"},
	})
	require.NoError(t, err)
	require.Contains(t, m, "application/ld+json")

	assert.Equal(t, 10.0, review.Score(domain.ReviewCode, m).OverallScore)
	assert.Equal(t, 10.0, review.Score(domain.ReviewDesign, m).OverallScore)
}

func TestCheckHelpers(t *testing.T) {
	assert.True(t, balancedBraces("a { b { } }").Passed)
	assert.False(t, balancedBraces("} {").Passed)
	assert.Equal(t, "2 unclosed brace(s)", balancedBraces("{{").Detail)

	o := everyImage(altRe, "with alt text")(`<img src="a.jpg" alt="a"><img src="b.jpg">`)
	assert.False(t, o.Passed)
	assert.Equal(t, "1 of 2 images with alt text", o.Detail)
	assert.True(t, everyImage(altRe, "with alt text")("no images").Passed)

	assert.True(t, inOrder(`id="a"`, `id="b"`)(`<x id="a"><y id="b">`).Passed)
	assert.False(t, inOrder(`id="a"`, `id="b"`)(`<y id="b"><x id="a">`).Passed)

	o = formLabels(`<input type="hidden" name="t"><label for="n">N</label><input id="n"><textarea></textarea>`)
	assert.False(t, o.Passed)
	assert.Equal(t, "1 labels for 2 fields", o.Detail)
}
