package lodge

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/wildwoodlodge/lodge/catalog"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments. Site paths carry no trailing
// slash; the bare base URL resolves to the root "/".
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current catalog.Post, posts []catalog.Post) []catalog.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []catalog.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// LodgingJsonLD returns a schema.org LodgingBusiness JSON-LD string for the site.
func LodgingJsonLD(site SiteInfo) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "LodgingBusiness",
		"name":     site.Name,
		"url":      BuildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Phone != "" {
		data["telephone"] = site.Phone
	}
	if site.Email != "" {
		data["email"] = site.Email
	}
	if site.Address != "" {
		data["address"] = map[string]string{
			"@type":         "PostalAddress",
			"streetAddress": site.Address,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post catalog.Post, site SiteInfo) string {
	postURL := BuildURL(site.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"dateModified":  post.Updated,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	if post.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  post.Author,
		}
	}
	if post.Image != "" {
		data["image"] = BuildURL(site.URL, post.Image)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJSONLD(data)
}

// ArticleJsonLD returns a JSON-LD string for a sustainability article.
func ArticleJsonLD(article catalog.Article, site SiteInfo) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    article.Title,
		"description": article.Summary,
		"url":         BuildURL(site.URL, "sustainability", article.Slug),
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
	}
	if article.Category != "" {
		data["articleSection"] = article.Category
	}
	if article.Updated != "" {
		data["dateModified"] = article.Updated
	}
	return marshalJSONLD(data)
}
