package crumbs

import "strings"

// FormatSlug turns a hyphenated path segment into a title-cased label:
// "forest-canopy-suite" becomes "Forest Canopy Suite". Only the first letter of
// each token changes; an empty slug yields an empty label.
func FormatSlug(slug string) string {
	tokens := strings.Split(slug, "-")
	for i, t := range tokens {
		tokens[i] = upperFirst(t)
	}
	return strings.Join(tokens, " ")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	// ASCII only is sufficient for slugs here
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
