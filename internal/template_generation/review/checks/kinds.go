package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review"
)

// rule is a data-driven review.Check.
type rule struct {
	name     string
	kind     domain.ReviewKind
	category string
	points   float64
	eval     func(markup string) review.Outcome
	pass     string
	fail     string
	priority domain.Priority
	advice   string
}

func (r rule) Name() string { return r.name }

func (r rule) Kind() domain.ReviewKind { return r.kind }

func (r rule) Category() string { return r.category }

func (r rule) Points() float64 { return r.points }

func (r rule) Evaluate(m string) review.Outcome { return r.eval(m) }

func (r rule) Comment(o review.Outcome) string {
	msg := r.fail
	if o.Passed {
		msg = r.pass
	}
	if o.Detail != "" {
		msg += " (" + o.Detail + ")"
	}
	return msg
}

func (r rule) Advice() domain.Recommendation {
	return domain.Recommendation{Priority: r.priority, Description: r.advice}
}

func contains(sub string) func(string) review.Outcome {
	lower := strings.ToLower(sub)
	return func(m string) review.Outcome {
		return review.Outcome{Passed: strings.Contains(strings.ToLower(m), lower)}
	}
}

func matches(re *regexp.Regexp) func(string) review.Outcome {
	return func(m string) review.Outcome {
		return review.Outcome{Passed: re.MatchString(m)}
	}
}

func absent(re *regexp.Regexp) func(string) review.Outcome {
	return func(m string) review.Outcome {
		n := len(re.FindAllStringIndex(m, -1))
		if n == 0 {
			return review.Outcome{Passed: true}
		}
		return review.Outcome{Detail: fmt.Sprintf("%d found", n)}
	}
}

func atLeast(re *regexp.Regexp, n int, noun string) func(string) review.Outcome {
	return func(m string) review.Outcome {
		got := len(re.FindAllStringIndex(m, -1))
		return review.Outcome{Passed: got >= n, Detail: fmt.Sprintf("%d %s", got, noun)}
	}
}

func atMost(re *regexp.Regexp, n int, noun string) func(string) review.Outcome {
	return func(m string) review.Outcome {
		got := len(re.FindAllStringIndex(m, -1))
		return review.Outcome{Passed: got <= n, Detail: fmt.Sprintf("%d %s", got, noun)}
	}
}

func all(evals ...func(string) review.Outcome) func(string) review.Outcome {
	return func(m string) review.Outcome {
		for _, e := range evals {
			if o := e(m); !o.Passed {
				return o
			}
		}
		return review.Outcome{Passed: true}
	}
}

// ldJSONRe matches structured-data blocks, which are not executable script.
var ldJSONRe = regexp.MustCompile(`(?is)<script\b[^>]*type="application/ld\+json"[^>]*>.*?</script>`)

// without evaluates markup with every match of re removed.
func without(re *regexp.Regexp, eval func(string) review.Outcome) func(string) review.Outcome {
	return func(m string) review.Outcome {
		return eval(re.ReplaceAllString(m, ""))
	}
}

var (
	imgTagRe = regexp.MustCompile(`(?is)<img\b[^>]*>`)
	altRe    = regexp.MustCompile(`(?i)\balt\s*=`)
	lazyRe   = regexp.MustCompile(`(?i)\bloading\s*=\s*"lazy"`)
)

// everyImage passes when each <img> tag satisfies attr; pages without
// images pass.
func everyImage(attr *regexp.Regexp, noun string) func(string) review.Outcome {
	return func(m string) review.Outcome {
		tags := imgTagRe.FindAllString(m, -1)
		ok := 0
		for _, tag := range tags {
			if attr.MatchString(tag) {
				ok++
			}
		}
		return review.Outcome{
			Passed: ok == len(tags),
			Detail: fmt.Sprintf("%d of %d images %s", ok, len(tags), noun),
		}
	}
}

func balancedBraces(m string) review.Outcome {
	depth := 0
	for _, ch := range m {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return review.Outcome{Detail: "closing brace without opener"}
			}
		}
	}
	if depth != 0 {
		return review.Outcome{Detail: fmt.Sprintf("%d unclosed brace(s)", depth)}
	}
	return review.Outcome{Passed: true}
}

// distinctMatches counts how many of the given patterns occur at least once.
func distinctMatches(patterns []*regexp.Regexp, n int, noun string) func(string) review.Outcome {
	return func(m string) review.Outcome {
		got := 0
		for _, re := range patterns {
			if re.MatchString(m) {
				got++
			}
		}
		return review.Outcome{Passed: got >= n, Detail: fmt.Sprintf("%d of %d %s", got, len(patterns), noun)}
	}
}
