package review

import "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"

// Outcome is the result of evaluating one check. Detail carries evidence
// such as a count and is appended to the report comment.
type Outcome struct {
	Passed bool
	Detail string
}

// Check is one fixed heuristic that contributes Points to its category when
// it passes.
type Check interface {
	Name() string
	Kind() domain.ReviewKind
	Category() string
	Points() float64
	Evaluate(markup string) Outcome
	Comment(o Outcome) string
	Advice() domain.Recommendation
}
