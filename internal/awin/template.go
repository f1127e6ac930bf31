package awin

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{[a-zA-Z0-9_]+\}`)

// FormatURL expands every {placeholder} in the template with the matching
// value from vars. Placeholders with no matching variable are deliberately
// left verbatim so a misconfigured credential shows up in the final URL
// instead of silently producing a different request.
func FormatURL(template string, vars map[string]string) string {
	url := template
	for k, v := range vars {
		url = strings.ReplaceAll(url, "{"+k+"}", v)
	}
	return url
}

// IsFullyResolved reports whether the URL still contains unexpanded
// {placeholder} markers.
func IsFullyResolved(url string) bool {
	return !placeholderRe.MatchString(url)
}
