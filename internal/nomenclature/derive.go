package nomenclature

import "regexp"

var groupMarker = regexp.MustCompile(`\(\?P?<\w+>`)

// DeriveFilterPattern builds a plain regular expression from a base
// named-capture-group pattern by substituting each fixed group's subpattern
// with its literal value and stripping the capture-group syntax from every
// remaining group. The result is anchored and usable by the store's
// pattern-match operator.
func DeriveFilterPattern(base string, fixed map[string]string) string {
	pattern, _ := trimDelimiters(base)

	for group, value := range fixed {
		subpattern := regexp.MustCompile(`\(\?P?<` + regexp.QuoteMeta(group) + `>.*?\)`)
		pattern = subpattern.ReplaceAllLiteralString(pattern, regexp.QuoteMeta(value))
	}

	pattern = groupMarker.ReplaceAllString(pattern, "(")

	return "^" + pattern + "$"
}
