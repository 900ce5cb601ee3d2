package services

import (
	"regexp"
	"strings"
)

// specRule pairs an attribute name with the pattern that detects it.
// Rules are evaluated independently, one match per attribute, first
// occurrence wins.
type specRule struct {
	attribute string
	pattern   *regexp.Regexp
}

var specRules = []specRule{
	{"storage", regexp.MustCompile(`(?i)(\d+)\s*(GB|TB|MB)`)},
	{"ram", regexp.MustCompile(`(?i)(\d+)\s*(GB|MB)\s*RAM`)},
	{"processor", regexp.MustCompile(`(?i)(i\d|ryzen|snapdragon|a\d+|m\d+)[\s\-](\d+)`)},
	{"screen", regexp.MustCompile(`(?i)(\d+\.?\d*)"`)},
	{"battery", regexp.MustCompile(`(?i)(\d+)\s*mAh`)},
	{"camera", regexp.MustCompile(`(?i)(\d+)\s*MP`)},
	{"condition", regexp.MustCompile(`(?i)(new|used|refurbished|like new|excellent|good|fair)`)},
	{"model_year", regexp.MustCompile(`(20\d\d)`)},
}

// ExtractSpecs pulls structured attributes out of a free-text specification
// blob. It is a best-effort heuristic, not a parser: attributes with no match
// are simply absent from the result. Empty input yields an empty map.
func ExtractSpecs(specsText string) map[string]string {
	specs := make(map[string]string)
	if specsText == "" {
		return specs
	}

	for _, rule := range specRules {
		if match := rule.pattern.FindString(specsText); match != "" {
			specs[rule.attribute] = strings.TrimSpace(match)
		}
	}

	return specs
}
