// Package crumbs derives breadcrumb trails from request paths and renders them
// as schema.org structured data.
package crumbs

import (
	"net/url"
	"strings"
)

// Crumb is one entry of a breadcrumb trail.
type Crumb struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// Home is the first crumb of every trail.
var Home = Crumb{Name: "Home", Href: "/"}

// Labeler resolves display names for detail-page slugs. A false second
// return means the slug is unknown and the builder falls back to FormatSlug.
type Labeler interface {
	RoomName(slug string) (string, bool)
	PostTitle(slug string) (string, bool)
	ActivityTitle(slug string) (string, bool)
	CityName(code string) (string, bool)
}

// Rule labels the last crumb of a two-segment path whose first segment is
// Section.
type Rule struct {
	Section string
	Label   func(slug string) string
}

// Overrides maps path segments to labels FormatSlug cannot produce.
var Overrides = map[string]string{
	"things-to-do": "Things to Do",
	"faq":          "FAQ",
}

// Builder builds breadcrumb trails. It is safe for concurrent use once
// constructed.
type Builder struct {
	rules []Rule
}

// NewBuilder returns a Builder with the detail-page rules for rooms, blog
// posts, activities and itineraries, followed by any extra rules. Rules are
// evaluated in order and the first match wins.
func NewBuilder(l Labeler, extra ...Rule) *Builder {
	rules := []Rule{
		{Section: "accommodations", Label: lookupOrFormat(l.RoomName)},
		{Section: "blog", Label: lookupOrFormat(l.PostTitle)},
		{Section: "things-to-do", Label: lookupOrFormat(l.ActivityTitle)},
		{Section: "itineraries", Label: itineraryLabel(l.CityName)},
	}
	return &Builder{rules: append(rules, extra...)}
}

// Build returns the trail for p. The result always starts with Home and holds
// one crumb per non-empty path segment.
func (b *Builder) Build(p string) []Crumb {
	segs := segments(p)
	trail := make([]Crumb, 0, len(segs)+1)
	trail = append(trail, Home)

	if len(segs) == 2 {
		for _, r := range b.rules {
			if r.Section != segs[0] {
				continue
			}
			section := "/" + segs[0]
			return append(trail,
				Crumb{Name: Label(segs[0]), Href: section},
				Crumb{Name: r.Label(decode(segs[1])), Href: section + "/" + segs[1]},
			)
		}
	}

	href := ""
	for _, s := range segs {
		href += "/" + s
		trail = append(trail, Crumb{Name: Label(s), Href: href})
	}
	return trail
}

// Label returns the generic label for a path segment: an override when one
// exists, otherwise the formatted slug.
func Label(seg string) string {
	seg = decode(seg)
	if l, ok := Overrides[seg]; ok {
		return l
	}
	return FormatSlug(seg)
}

func segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func decode(seg string) string {
	if d, err := url.PathUnescape(seg); err == nil {
		return d
	}
	return seg
}

func lookupOrFormat(lookup func(string) (string, bool)) func(string) string {
	return func(slug string) string {
		if name, ok := lookup(slug); ok && name != "" {
			return name
		}
		return FormatSlug(slug)
	}
}

func itineraryLabel(city func(string) (string, bool)) func(string) string {
	return func(code string) string {
		if name, ok := city(strings.ToLower(code)); ok && name != "" {
			return "From " + name
		}
		return "From " + strings.ToUpper(code)
	}
}
