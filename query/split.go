// Package query turns a raw line of user input into product queries.
package query

import (
	"regexp"
	"strings"
)

// separators matches a comma, or "and"/"or" standing alone between whitespace.
// \s is ASCII-only in RE2, so Unicode space separators are listed too.
var separators = regexp.MustCompile(`(?i)[\s\p{Zs}]+and[\s\p{Zs}]+|[\s\p{Zs}]+or[\s\p{Zs}]+|,`)

// Split breaks input on commas and the words "and" / "or" (any case),
// trims every fragment and drops empty ones. Order and duplicates are kept.
// Blank input yields a nil slice.
func Split(input string) []string {
	var out []string
	for _, part := range separators.Split(input, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
