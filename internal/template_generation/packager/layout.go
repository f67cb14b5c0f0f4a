package packager

import "path/filepath"

// Run-relative artifact paths written by the pipeline stages.
const (
	SpecFile         = "specs/template_spec.json"
	PromptFile       = "prompts/prompt.json"
	TemplateFile     = "templates/template.php"
	CTATemplateFile  = "templates/template.cta.php"
	CodeReviewFile   = "reviews/template.review.json"
	DesignReviewFile = "reviews/template.design.json"
	CritiqueFile     = "reviews/template.design.md"
	VariationFile    = "design/variation.json"
)

// deliveryNames maps run artifacts onto their names in a delivered package.
var deliveryNames = []struct {
	Source string
	Target string
}{
	{TemplateFile, "index.php"},
	{CTATemplateFile, "index-cta.php"},
	{CodeReviewFile, "review.json"},
	{DesignReviewFile, "design_review.json"},
	{CritiqueFile, "template.design.md"},
	{SpecFile, "spec.json"},
	{PromptFile, "prompt.json"},
	{VariationFile, "design_variation.json"},
}

// RunLayout resolves artifact paths inside <outDir>/runs/<runID>.
type RunLayout struct {
	Dir string
}

func NewRunLayout(outDir, runID string) RunLayout {
	if outDir == "" {
		outDir = "out"
	}
	return RunLayout{Dir: filepath.Join(outDir, "runs", runID)}
}

func (l RunLayout) Path(rel string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(rel))
}
