package scoring

import (
	"sort"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

func priorityWeight(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 1
	default:
		return 0
	}
}

// Prioritize orders recommendations from high to low priority, keeping the
// input order among equals, and drops duplicates.
func Prioritize(recs []domain.Recommendation) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(recs))
	seen := map[string]bool{}
	for _, r := range recs {
		key := r.Category + "|" + r.Description
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityWeight(out[i].Priority) > priorityWeight(out[j].Priority)
	})
	return out
}

func CountByPriority(recs []domain.Recommendation, p domain.Priority) int {
	n := 0
	for _, r := range recs {
		if r.Priority == p {
			n++
		}
	}
	return n
}
