package packager

import (
	"fmt"
	"sort"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/versioning"
)

func renderReadme(in Input) string {
	spec := in.Spec
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", spec.DisplayName())
	fmt.Fprintf(&b, "A PHP landing page for a %s", strings.ToLower(spec.BusinessType))
	if spec.Location != "" {
		fmt.Fprintf(&b, " in %s", spec.Location)
	}
	b.WriteString(".\n\n")

	b.WriteString("## Installation\n\n")
	b.WriteString("Copy `index.php` (or `index-cta.php` for the conversion-optimized variant) to a PHP 7.4+ host with sessions enabled.\n\n")

	b.WriteString("## Customization\n\n")
	b.WriteString("Brand colors live in the `:root` block of the embedded stylesheet:\n\n")
	for _, role := range domain.ColorRoles {
		fmt.Fprintf(&b, "- `--%s`: %s\n", role, spec.Colors.Get(role))
	}

	b.WriteString("\n## Services\n\n")
	for _, s := range spec.Services {
		fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Description)
	}

	b.WriteString("\n## Quality Scores\n\n")
	scores := qualityScores(in.CodeReview, in.DesignReview)
	if len(scores) == 0 {
		b.WriteString("No reviews were recorded for this package.\n")
	}
	names := make([]string, 0, len(scores))
	for n := range scores {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "- %s: %.1f/10\n", n, scores[n])
	}

	b.WriteString("\n## Files\n\n")
	for _, dn := range deliveryNames {
		fmt.Fprintf(&b, "- `%s`\n", dn.Target)
	}
	return b.String()
}

func renderChangelog(current *versioning.Version, prior []*versioning.Version) string {
	var b strings.Builder
	b.WriteString("# Changelog\n\n")
	fmt.Fprintf(&b, "## 1.%d.0 (%s)\n\n", len(prior), current.CreatedAt.Format("2006-01-02"))
	if len(prior) == 0 {
		b.WriteString("- Initial package generated.\n")
	} else {
		fmt.Fprintf(&b, "- Regenerated from the latest request; supersedes %s.\n", prior[len(prior)-1].VersionID)
	}
	for i := len(prior) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n## 1.%d.0 (%s)\n\n- Version %s.\n", i, prior[i].CreatedAt.Format("2006-01-02"), prior[i].VersionID)
	}
	return b.String()
}
