package sitemap

import (
	"strings"
)

// RobotsPolicy lists the path prefixes crawlers may and may not visit.
type RobotsPolicy struct {
	Allow    []string
	Disallow []string
}

// DefaultRobots keeps crawlers out of the admin area, APIs and metrics.
var DefaultRobots = RobotsPolicy{
	Allow:    []string{"/"},
	Disallow: []string{"/admin/", "/api/", "/metrics"},
}

// Robots renders robots.txt for all user agents, pointing at the sitemap
// under baseURL.
func Robots(baseURL string, p RobotsPolicy) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, a := range p.Allow {
		b.WriteString("Allow: " + a + "\n")
	}
	for _, d := range p.Disallow {
		b.WriteString("Disallow: " + d + "\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimRight(baseURL, "/") + "/sitemap.xml\n")
	return b.String()
}
