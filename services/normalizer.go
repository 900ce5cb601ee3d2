package services

import (
	"regexp"
	"strings"
)

// stopwordRegexp strips condition/marketing words that carry no matching signal.
var stopwordRegexp = regexp.MustCompile(`\b(new|used|refurbished|like|condition|grade|certified)\b`)

// whitespaceRegexp collapses runs of whitespace into a single space.
var whitespaceRegexp = regexp.MustCompile(`\s+`)

// punctRegexp turns any remaining punctuation into spaces.
var punctRegexp = regexp.MustCompile(`[^\w\s]`)

// rewriteRule canonicalizes one known product-family spelling.
type rewriteRule struct {
	pattern *regexp.Regexp
	repl    string
}

// rewriteRules run in order, before punctuation stripping, so captured groups
// in family patterns survive intact. Replacements may leave doubled spaces;
// the final whitespace collapse cleans those up.
var rewriteRules = []rewriteRule{
	// iPhones
	{regexp.MustCompile(`iphone\s*(\d+)\s*(pro)?\s*(max)?`), "iphone ${1} ${2} ${3}"},
	{regexp.MustCompile(`iphone\s*(\d+)\s*(plus)`), "iphone ${1} plus"},
	{regexp.MustCompile(`iphone\s*(\d+)\s*(mini)`), "iphone ${1} mini"},

	// Samsung Galaxy
	{regexp.MustCompile(`galaxy\s*s(\d+)`), "galaxy s${1}"},
	{regexp.MustCompile(`galaxy\s*note\s*(\d+)`), "galaxy note ${1}"},
	{regexp.MustCompile(`galaxy\s*a(\d+)`), "galaxy a${1}"},

	// Apple products
	{regexp.MustCompile(`airpods\s*(pro)?\s*(gen|generation)?\s*(\d+)?`), "airpods ${1} ${3}"},
	{regexp.MustCompile(`macbook\s*(pro|air)?\s*(\d+)?"?`), `macbook ${1} ${2}"`},
	{regexp.MustCompile(`apple\s*watch\s*(series)?\s*(\d+)`), "apple watch series ${2}"},
	{regexp.MustCompile(`ipad\s*(pro|air|mini)?\s*(\d+)?`), "ipad ${1} ${2}"},

	// Storage capacity
	{regexp.MustCompile(`(\d+)\s*gb`), "${1}gb"},
	{regexp.MustCompile(`(\d+)\s*tb`), "${1}tb"},

	// Colors pass through unchanged
	{regexp.MustCompile(`(black|white|gold|silver|gray|grey|blue|red|green|yellow|purple)`), "${1}"},
}

// NormalizeProductName canonicalizes a raw product name into the matching key
// used for cross-retailer grouping. It is pure and total: malformed input
// simply passes through unaffected rules, and empty input yields "".
// The function is idempotent.
func NormalizeProductName(name string) string {
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)
	name = stopwordRegexp.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespaceRegexp.ReplaceAllString(name, " "))

	for _, rule := range rewriteRules {
		name = rule.pattern.ReplaceAllString(name, rule.repl)
	}

	name = punctRegexp.ReplaceAllString(name, " ")
	name = strings.TrimSpace(whitespaceRegexp.ReplaceAllString(name, " "))

	return name
}
