// Package templates derives connection ports from {{variable}} references
// embedded in free text.
package templates

import (
	"regexp"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ExtractVariables returns the distinct variable names referenced in text, in
// order of first occurrence. Names are taken verbatim from between the braces
// and are not validated as identifiers.
func ExtractVariables(text string) []string {
	matches := variablePattern.FindAllStringSubmatch(text, -1)
	vars := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		vars = append(vars, name)
	}
	return vars
}

// HasVariables reports whether text references at least one variable
func HasVariables(text string) bool {
	return variablePattern.MatchString(text)
}
