package emitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/resolver"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

func pcRepairSpec() domain.ProjectSpec {
	r := resolver.New(tables.Default())
	return r.Resolve(&domain.RawSpec{
		BusinessName: "Byte <Fixers> & Co",
		BusinessType: "PC Repair",
		Location:     "Denver, CO",
		Phone:        "(303) 555-0199",
		Email:        "help@bytefixers.example",
		Services:     domain.NameList{"Emergency Repair", "Data Recovery"},
	})
}

func TestRender(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	cta := resolver.New(tables.Default())

	doc, err := e.Render(pcRepairSpec(), cta)
	require.NoError(t, err)
	m := doc.Markup

	assert.True(t, strings.HasPrefix(m, "<?php"))
	assert.Contains(t, m, "<h1>Byte &lt;Fixers&gt; &amp; Co</h1>")
	assert.NotContains(t, m, "<Fixers>")
	assert.Contains(t, m, "--primary: #3b82f6;")
	assert.Contains(t, m, `href="tel:3035550199"`)
	assert.Contains(t, m, ">Get Help Now</a>")
	assert.Contains(t, m, "<h3>Data Recovery</h3>")
	assert.Contains(t, m, "Recover lost data and set up reliable backup solutions")
	assert.Contains(t, m, "Trusted pc repair in Denver, CO")
	assert.Contains(t, m, `name="csrf_token"`)
	assert.Contains(t, m, "@media (max-width: 768px)")
	assert.Contains(t, m, "mailto:help@bytefixers.example")
	assert.Equal(t, strings.Count(m, "{"), strings.Count(m, "}"))
	assert.NotContains(t, m, "{{")
}

func TestRender_MinimalSpec(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	r := resolver.New(tables.Default())

	doc, err := e.Render(r.Resolve(nil), r)
	require.NoError(t, err)

	assert.Contains(t, doc.Markup, "<h1>Service Business</h1>")
	assert.Contains(t, doc.Markup, `<a href="#contact" class="btn btn-primary" aria-label="Schedule Call">Schedule Call</a>`)
	assert.NotContains(t, doc.Markup, "Proudly serving")
}

func TestRender_InvalidColorIsNotInjected(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	r := resolver.New(tables.Default())

	spec := r.Resolve(nil)
	spec.Colors.Primary = "red; } body { display:none"
	doc, err := e.Render(spec, r)
	require.NoError(t, err)
	assert.Contains(t, doc.Markup, "--primary: inherit;")
}

func TestDocumentWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "r1", "templates", "template.php")
	doc := &Document{Name: "template.php", Markup: "<?php echo 1; ?>"}
	require.NoError(t, doc.Write(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Markup, string(b))
}

func TestOptimizeCTAs(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	r := resolver.New(tables.Default())
	spec := pcRepairSpec()

	doc, err := e.Render(spec, r)
	require.NoError(t, err)

	out := OptimizeCTAs(doc.Markup, spec, r)
	assert.Equal(t, len(CTAAnchors), strings.Count(out, `class="cta-banner"`))
	assert.Contains(t, out, "Ready to work with Byte &lt;Fixers&gt; &amp; Co?")
	assert.Contains(t, out, `aria-label="Call Now (303) 555-0199"`)

	heroEnd := strings.Index(out, `id="home"`)
	firstBanner := strings.Index(out, `class="cta-banner"`)
	assert.Greater(t, firstBanner, heroEnd)

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, out, OptimizeCTAs(out, spec, r))
	})
}

func TestOptimizeCTAs_NoAnchors(t *testing.T) {
	r := resolver.New(tables.Default())
	spec := r.Resolve(nil)

	out := OptimizeCTAs("<html><body><p>hi</p></body></html>", spec, r)
	assert.Equal(t, 1, strings.Count(out, `class="cta-banner"`))
	assert.True(t, strings.HasSuffix(out, "</body></html>"))

	out = OptimizeCTAs("plain", spec, r)
	assert.True(t, strings.HasPrefix(out, "plain\n"))
}

func TestOptimizeCTAs_UnclosedSectionStaysWithItsAnchor(t *testing.T) {
	r := resolver.New(tables.Default())
	spec := r.Resolve(nil)

	markup := "<body><!-- hero --><section id=\"home\"><h1>Hi</h1>" +
		"<!-- features --><section id=\"features\"><p>f</p></section></body>"
	out := OptimizeCTAs(markup, spec, r)

	assert.Equal(t, 2, strings.Count(out, `class="cta-banner"`))
	hero := strings.Index(out, "<!-- hero -->")
	features := strings.Index(out, "<!-- features -->")
	first := strings.Index(out, `class="cta-banner"`)
	assert.Greater(t, first, hero)
	assert.Less(t, first, features, "banner for the hero anchor must not jump past the next anchor")
	assert.Equal(t, 1, strings.Count(out[features:], `class="cta-banner"`))
}

func TestTelHref(t *testing.T) {
	assert.Equal(t, "+15125550142", telHref("+1 (512) 555-0142"))
	assert.Equal(t, "5125550142", telHref("512.555.0142 ext"))
}
