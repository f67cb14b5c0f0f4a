package checks

import (
	"fmt"
	"regexp"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/review"
)

var (
	viewportRe      = regexp.MustCompile(`(?i)<meta[^>]+name="viewport"`)
	charsetRe       = regexp.MustCompile(`(?i)<meta[^>]+charset="?utf-8`)
	csrfRe          = regexp.MustCompile(`(?i)csrf_token`)
	hashEqualsRe    = regexp.MustCompile(`hash_equals\s*\(`)
	escapeRe        = regexp.MustCompile(`htmlspecialchars\s*\(`)
	scriptRe        = regexp.MustCompile(`(?i)<script\b`)
	filterInputRe   = regexp.MustCompile(`filter_input\s*\(`)
	rawEchoRe       = regexp.MustCompile(`echo\s+\$_(POST|GET|REQUEST)\b`)
	postFormRe      = regexp.MustCompile(`(?i)<form\b[^>]*method="post"`)
	cssRuleRe       = regexp.MustCompile(`\{[^{}]*\}`)
	frameworkRe     = regexp.MustCompile(`(?i)(bootstrap(\.min)?\.css|tailwind|jquery|cdn\.jsdelivr|unpkg\.com|cdnjs)`)
	styleBlockRe    = regexp.MustCompile(`(?i)<style\b`)
	semanticRe      = regexp.MustCompile(`(?i)<(header|nav|main|section|footer)\b`)
	ariaRe          = regexp.MustCompile(`(?i)\baria-label="`)
	htmlLangRe      = regexp.MustCompile(`(?i)<html[^>]+lang="[a-z]`)
	inputRe         = regexp.MustCompile(`(?i)<(input|textarea)\b[^>]*>`)
	hiddenInputRe   = regexp.MustCompile(`(?i)type="hidden"`)
	labelForRe      = regexp.MustCompile(`(?i)<label\b[^>]*for="`)
	customPropRe    = regexp.MustCompile(`--[a-z][a-z0-9-]*\s*:`)
	varUseRe        = regexp.MustCompile(`var\(--`)
	mediaRe         = regexp.MustCompile(`(?i)@media\b`)
	anchorCommentRe = regexp.MustCompile(`<!-- (hero|features|testimonials|contact) -->`)
)

const maxCSSRules = 120

func init() {
	for _, r := range codeRules {
		review.Register(r)
	}
}

// formLabels passes when every visible form control has a matching label.
func formLabels(m string) review.Outcome {
	visible := 0
	for _, tag := range inputRe.FindAllString(m, -1) {
		if !hiddenInputRe.MatchString(tag) {
			visible++
		}
	}
	labels := len(labelForRe.FindAllStringIndex(m, -1))
	return review.Outcome{Passed: labels >= visible, Detail: fmt.Sprintf("%d labels for %d fields", labels, visible)}
}

var codeRules = []rule{
	// code_quality
	{
		name: "php_open_tag", kind: domain.ReviewCode, category: "code_quality", points: 2,
		eval: contains("<?php"),
		pass: "PHP processing block present",
		fail: "No PHP processing block found", priority: domain.PriorityHigh, advice: "Open the template with a <?php block that handles form submission",
	},
	{
		name: "doctype", kind: domain.ReviewCode, category: "code_quality", points: 2,
		eval: contains("<!DOCTYPE html>"),
		pass: "HTML5 doctype declared",
		fail: "HTML5 doctype missing", priority: domain.PriorityMedium, advice: "Declare <!DOCTYPE html> before the <html> element",
	},
	{
		name: "utf8_charset", kind: domain.ReviewCode, category: "code_quality", points: 2,
		eval: matches(charsetRe),
		pass: "UTF-8 charset declared",
		fail: "Character set not declared", priority: domain.PriorityMedium, advice: "Add <meta charset=\"UTF-8\"> to the document head",
	},
	{
		name: "viewport_meta", kind: domain.ReviewCode, category: "code_quality", points: 2,
		eval: matches(viewportRe),
		pass: "Viewport meta tag present",
		fail: "Viewport meta tag missing", priority: domain.PriorityHigh, advice: "Add a viewport meta tag so the page scales on mobile devices",
	},
	{
		name: "balanced_braces", kind: domain.ReviewCode, category: "code_quality", points: 2,
		eval: without(ldJSONRe, balancedBraces),
		pass: "Braces are balanced",
		fail: "Unbalanced braces in PHP or CSS", priority: domain.PriorityHigh, advice: "Fix unbalanced braces; the template will not parse as written",
	},

	// security
	{
		name: "csrf_token", kind: domain.ReviewCode, category: "security", points: 3,
		eval: all(matches(csrfRe), matches(hashEqualsRe)),
		pass: "Form is protected by a CSRF token",
		fail: "Form has no CSRF protection", priority: domain.PriorityHigh, advice: "Issue a per-session CSRF token and verify it with hash_equals",
	},
	{
		name: "output_sanitization", kind: domain.ReviewCode, category: "security", points: 3,
		eval: all(matches(escapeRe), absent(rawEchoRe)),
		pass: "Dynamic output is escaped",
		fail: "Dynamic output is not escaped", priority: domain.PriorityHigh, advice: "Escape every echoed value with htmlspecialchars",
	},
	{
		name: "input_filtering", kind: domain.ReviewCode, category: "security", points: 2,
		eval: matches(filterInputRe),
		pass: "Request input is filtered",
		fail: "Request input is read without filtering", priority: domain.PriorityHigh, advice: "Read form fields through filter_input with an explicit filter",
	},
	{
		name: "no_inline_script", kind: domain.ReviewCode, category: "security", points: 1,
		eval: without(ldJSONRe, absent(scriptRe)),
		pass: "No inline scripts",
		fail: "Inline scripts present", priority: domain.PriorityMedium, advice: "Remove inline <script> blocks or move them to a reviewed asset",
	},
	{
		name: "post_form", kind: domain.ReviewCode, category: "security", points: 1,
		eval: matches(postFormRe),
		pass: "Form submits with POST",
		fail: "No POST form found", priority: domain.PriorityMedium, advice: "Submit the contact form with method=\"post\"",
	},

	// performance
	{
		name: "embedded_css", kind: domain.ReviewCode, category: "performance", points: 2,
		eval: matches(styleBlockRe),
		pass: "Critical CSS is embedded",
		fail: "No embedded stylesheet", priority: domain.PriorityLow, advice: "Embed the page CSS in a <style> block to avoid a render-blocking request",
	},
	{
		name: "css_rule_budget", kind: domain.ReviewCode, category: "performance", points: 2,
		eval: without(ldJSONRe, atMost(cssRuleRe, maxCSSRules, "rule blocks")),
		pass: "Stylesheet is within the rule budget",
		fail: "Stylesheet exceeds the rule budget", priority: domain.PriorityLow, advice: "Consolidate CSS rules; the stylesheet is larger than needed",
	},
	{
		name: "no_external_frameworks", kind: domain.ReviewCode, category: "performance", points: 3,
		eval: absent(frameworkRe),
		pass: "No external CSS or JS frameworks",
		fail: "External frameworks referenced", priority: domain.PriorityMedium, advice: "Drop external framework includes and rely on the embedded CSS",
	},
	{
		name: "lazy_images", kind: domain.ReviewCode, category: "performance", points: 2,
		eval: everyImage(lazyRe, "lazy loaded"),
		pass: "Images are lazy loaded",
		fail: "Some images load eagerly", priority: domain.PriorityLow, advice: "Add loading=\"lazy\" to images below the fold",
	},

	// accessibility
	{
		name: "html_lang", kind: domain.ReviewCode, category: "accessibility", points: 2,
		eval: matches(htmlLangRe),
		pass: "Document language declared",
		fail: "Document language missing", priority: domain.PriorityMedium, advice: "Set the lang attribute on the <html> element",
	},
	{
		name: "semantic_html", kind: domain.ReviewCode, category: "accessibility", points: 2,
		eval: atLeast(semanticRe, 4, "landmark elements"),
		pass: "Semantic landmarks used",
		fail: "Few semantic landmarks", priority: domain.PriorityMedium, advice: "Structure the page with header, nav, main, section and footer elements",
	},
	{
		name: "img_alt", kind: domain.ReviewCode, category: "accessibility", points: 2,
		eval: everyImage(altRe, "with alt text"),
		pass: "All images have alt text",
		fail: "Images missing alt text", priority: domain.PriorityHigh, advice: "Give every image a descriptive alt attribute",
	},
	{
		name: "aria_labels", kind: domain.ReviewCode, category: "accessibility", points: 1,
		eval: atLeast(ariaRe, 2, "aria labels"),
		pass: "Interactive elements carry aria labels",
		fail: "Few aria labels on interactive elements", priority: domain.PriorityLow, advice: "Label navigation and call-to-action links with aria-label",
	},
	{
		name: "form_labels", kind: domain.ReviewCode, category: "accessibility", points: 2,
		eval: formLabels,
		pass: "Form fields are labelled",
		fail: "Form fields without labels", priority: domain.PriorityMedium, advice: "Pair every form field with a <label for=...>",
	},

	// maintainability
	{
		name: "css_custom_properties", kind: domain.ReviewCode, category: "maintainability", points: 2,
		eval: all(atLeast(customPropRe, 3, "custom properties"), matches(varUseRe)),
		pass: "Brand colors are centralized in CSS custom properties",
		fail: "Colors are hard coded", priority: domain.PriorityLow, advice: "Move brand colors into :root custom properties and reference them with var()",
	},
	{
		name: "responsive_media", kind: domain.ReviewCode, category: "maintainability", points: 1,
		eval: matches(mediaRe),
		pass: "Responsive rules grouped in media queries",
		fail: "No media queries", priority: domain.PriorityMedium, advice: "Group responsive overrides in @media blocks",
	},
	{
		name: "section_anchors", kind: domain.ReviewCode, category: "maintainability", points: 2,
		eval: distinctAnchors(4),
		pass: "Section anchor comments present",
		fail: "Section anchor comments missing", priority: domain.PriorityLow, advice: "Mark the hero, features, testimonials and contact sections with anchor comments",
	},
}

func distinctAnchors(n int) func(string) review.Outcome {
	return func(m string) review.Outcome {
		seen := map[string]bool{}
		for _, sm := range anchorCommentRe.FindAllStringSubmatch(m, -1) {
			seen[sm[1]] = true
		}
		return review.Outcome{Passed: len(seen) >= n, Detail: fmt.Sprintf("%d anchors", len(seen))}
	}
}
