// Package nomenclature parses structured box and specimen names against
// configurable named-capture-group patterns, and derives filter patterns for
// set-based store lookups.
package nomenclature

import (
	"fmt"
	"regexp"
	"strings"
)

// Parsed maps named capture groups to the substring each matched. A group
// that exists in the pattern but matched nothing is present with a nil value.
// The nil-vs-absent distinction feeds downstream equality checks.
type Parsed map[string]*string

// Get returns the matched value for a group, or the empty string when the
// group is absent or unmatched.
func (p Parsed) Get(group string) string {
	if v, ok := p[group]; ok && v != nil {
		return *v
	}

	return ""
}

// Has reports whether a group matched a value.
func (p Parsed) Has(group string) bool {
	v, ok := p[group]
	return ok && v != nil
}

var groupSyntax = regexp.MustCompile(`\(\?<(\w+)>`)

// Parse applies a named-capture-group pattern to a name and returns the
// per-group matches. Positional groups are discarded. An empty name or a
// non-matching name yields an empty mapping rather than an error; only an
// invalid pattern fails.
func Parse(name, pattern string) (Parsed, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	parsed := make(Parsed)
	if name == "" {
		return parsed, nil
	}

	match := re.FindStringSubmatchIndex(name)
	if match == nil {
		return parsed, nil
	}

	for i, group := range re.SubexpNames() {
		if group == "" {
			continue
		}

		start, end := match[2*i], match[2*i+1]
		if start == -1 {
			parsed[group] = nil
			continue
		}

		value := name[start:end]
		parsed[group] = &value
	}

	return parsed, nil
}

// Groups returns the named capture groups declared by a pattern, in
// declaration order.
func Groups(pattern string) ([]string, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	var groups []string
	for _, group := range re.SubexpNames() {
		if group != "" {
			groups = append(groups, group)
		}
	}

	return groups, nil
}

// compile normalizes a configured pattern and compiles it. Patterns carrying
// explicit /.../ delimiters are used as-is; bare patterns are anchored to
// match the full name.
func compile(pattern string) (*regexp.Regexp, error) {
	body, delimited := trimDelimiters(pattern)
	body = groupSyntax.ReplaceAllString(body, "(?P<$1>")

	if !delimited {
		body = "^" + body + "$"
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, fmt.Errorf("compile name pattern: %w", err)
	}

	return re, nil
}

func trimDelimiters(pattern string) (string, bool) {
	if len(pattern) > 1 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		return pattern[1 : len(pattern)-1], true
	}

	return pattern, false
}
