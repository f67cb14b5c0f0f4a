package scoring

import (
	"math"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

type CategoryWeight struct {
	Category string
	Weight   float64
}

var codeWeights = []CategoryWeight{
	{"code_quality", 0.30},
	{"security", 0.25},
	{"performance", 0.20},
	{"accessibility", 0.15},
	{"maintainability", 0.10},
}

var designWeights = []CategoryWeight{
	{"visual_design", 0.25},
	{"ux", 0.25},
	{"conversion", 0.30},
	{"mobile", 0.20},
}

// Weights returns the category weights of a review kind in report order.
// The weights of a kind sum to 1.
func Weights(kind domain.ReviewKind) []CategoryWeight {
	switch kind {
	case domain.ReviewCode:
		return codeWeights
	case domain.ReviewDesign:
		return designWeights
	default:
		return nil
	}
}

func Weight(kind domain.ReviewKind, category string) float64 {
	for _, w := range Weights(kind) {
		if w.Category == category {
			return w.Weight
		}
	}
	return 0
}

// CategoryScore maps earned points onto 0..10.
func CategoryScore(earned, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return Round2(clamp(earned / possible * 10))
}

// Overall is the weighted mean of the category scores present in scores,
// rounded to two decimals and clamped to 0..10.
func Overall(kind domain.ReviewKind, scores map[string]float64) float64 {
	var sum, weights float64
	for _, w := range Weights(kind) {
		s, ok := scores[w.Category]
		if !ok {
			continue
		}
		sum += w.Weight * s
		weights += w.Weight
	}
	if weights == 0 {
		return 0
	}
	return Round2(clamp(sum / weights))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
