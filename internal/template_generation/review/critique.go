package review

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/scoring"
)

var titleRe = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

var critiqueSections = []struct {
	Category string
	Heading  string
}{
	{"visual_design", "Visual Design Assessment"},
	{"ux", "UX Evaluation"},
	{"conversion", "Conversion Analysis"},
	{"mobile", "Mobile Readiness"},
}

// RenderCritique formats a design report as a markdown critique with a fixed
// set of headings.
func RenderCritique(report domain.Report, markup string) string {
	title := "Landing Page"
	if m := titleRe.FindStringSubmatch(markup); m != nil {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			title = t
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Design Critique: %s\n\n", title)

	b.WriteString("### Executive Summary\n\n")
	high := scoring.CountByPriority(report.Recommendations, domain.PriorityHigh)
	fmt.Fprintf(&b, "Overall design score: **%s** (%s).\n", formatScore(report.OverallScore), Rating(report.OverallScore))
	switch {
	case len(report.Recommendations) == 0:
		b.WriteString("The page meets every design heuristic that was checked.\n")
	case high > 0:
		fmt.Fprintf(&b, "%d improvement(s) suggested, %d of them high priority.\n", len(report.Recommendations), high)
	default:
		fmt.Fprintf(&b, "%d minor improvement(s) suggested.\n", len(report.Recommendations))
	}

	for _, s := range critiqueSections {
		fmt.Fprintf(&b, "\n### %s\n\n", s.Heading)
		cs, ok := report.Categories[s.Category]
		if !ok {
			b.WriteString("Not assessed.\n")
			continue
		}
		fmt.Fprintf(&b, "**Score:** %s\n\n", formatScore(cs.Score))
		for _, c := range cs.Comments {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	b.WriteString("\n### Recommendations\n\n")
	if len(report.Recommendations) == 0 {
		b.WriteString("No further recommendations.\n")
	}
	for i, r := range report.Recommendations {
		fmt.Fprintf(&b, "%d. **[%s]** %s (%s)\n", i+1, strings.ToUpper(string(r.Priority)), r.Description, r.Category)
	}
	return b.String()
}
