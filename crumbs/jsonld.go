package crumbs

import (
	"encoding/json"
	"strings"
)

// ListItem is one schema.org ListItem of a BreadcrumbList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// BreadcrumbList is the schema.org BreadcrumbList for a trail.
type BreadcrumbList struct {
	Context string     `json:"@context"`
	Type    string     `json:"@type"`
	Items   []ListItem `json:"itemListElement"`
}

// StructuredData converts a trail into a BreadcrumbList with absolute item
// URLs and 1-based positions in trail order.
func StructuredData(baseURL string, trail []Crumb) BreadcrumbList {
	base := strings.TrimRight(baseURL, "/")
	items := make([]ListItem, 0, len(trail))
	for i, c := range trail {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     base + c.Href,
		})
	}
	return BreadcrumbList{
		Context: "https://schema.org",
		Type:    "BreadcrumbList",
		Items:   items,
	}
}

// JSON marshals the list for a ld+json script tag. It returns "{}" on error.
func (l BreadcrumbList) JSON() string {
	b, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(b)
}
