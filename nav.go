package lodge

import "strings"

// navItem is a top-level navigation definition.
type navItem struct {
	Path  string
	Label string
}

// mainNav is the primary navigation, in display order.
var mainNav = []navItem{
	{Path: "/accommodations", Label: "Stay"},
	{Path: "/things-to-do", Label: "Things to Do"},
	{Path: "/workshops", Label: "Workshops"},
	{Path: "/sustainability", Label: "Sustainability"},
	{Path: "/blog", Label: "Journal"},
	{Path: "/itineraries", Label: "Getting Here"},
	{Path: "/contact", Label: "Contact"},
}

// BuildNav renders the main navigation with the active state for currentPath.
func BuildNav(currentPath string) []NavItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]NavItem, 0, len(mainNav))
	for _, it := range mainNav {
		items = append(items, NavItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/blog" or "/blog/..."
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}
