package review

import (
	"fmt"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/scoring"
)

// Score runs every registered check of kind against markup. It never fails:
// malformed or empty markup simply fails checks.
func Score(kind domain.ReviewKind, markup string) domain.Report {
	return ScoreWith(kind, All(kind), markup)
}

// ScoreWith scores markup with an explicit set of checks.
func ScoreWith(kind domain.ReviewKind, checks []Check, markup string) domain.Report {
	type tally struct{ earned, possible float64 }
	tallies := map[string]*tally{}
	categories := map[string]domain.CategoryScore{}
	var recs []domain.Recommendation

	for _, c := range checks {
		t, ok := tallies[c.Category()]
		if !ok {
			t = &tally{}
			tallies[c.Category()] = t
		}
		o := c.Evaluate(markup)
		t.possible += c.Points()
		if o.Passed {
			t.earned += c.Points()
		} else {
			adv := c.Advice()
			adv.Category = c.Category()
			adv.Check = c.Name()
			recs = append(recs, adv)
		}

		cs := categories[c.Category()]
		cs.Comments = append(cs.Comments, c.Comment(o))
		categories[c.Category()] = cs
	}

	scores := make(map[string]float64, len(tallies))
	for name, t := range tallies {
		s := scoring.CategoryScore(t.earned, t.possible)
		scores[name] = s
		cs := categories[name]
		cs.Score = s
		categories[name] = cs
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return domain.Report{
		Kind:            kind,
		OverallScore:    scoring.Overall(kind, scores),
		Categories:      categories,
		Recommendations: scoring.Prioritize(recs),
	}
}

// Rating turns an overall score into a short label.
func Rating(score float64) string {
	switch {
	case score >= 8:
		return "Excellent"
	case score >= 6:
		return "Good"
	case score >= 4:
		return "Fair"
	default:
		return "Needs work"
	}
}

func formatScore(s float64) string { return fmt.Sprintf("%.1f/10", s) }
