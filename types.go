package lodge

import (
	"time"

	"github.com/wildwoodlodge/lodge/crumbs"
)

// SiteInfo is the public site identity passed to templates.
type SiteInfo struct {
	Name        string
	URL         string
	Description string
	Phone       string
	Email       string
	Address     string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// NavItem is a rendered main-navigation entry.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

// Page is the layout view model shared by every public page.
type Page struct {
	Site   SiteInfo
	Meta   PageMeta
	Path   string
	Nav    []NavItem
	Crumbs []crumbs.Crumb
	// JSONLD holds serialized schema.org objects, one per script tag.
	JSONLD []string
}

// ContactForm is the contact form input and its validation errors.
type ContactForm struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Message  string
	Honeypot string
	Errors   map[string]string
}

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	IPHash    string // salted hash, never the raw address
	CreatedAt time.Time
}

// Image is an uploaded gallery image.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Content index kinds, one per dynamic sitemap source.
const (
	KindRoom      = "room"
	KindActivity  = "activity"
	KindPost      = "post"
	KindWorkshop  = "workshop"
	KindArticle   = "article"
	KindItinerary = "itinerary"
)

// IndexEntry is one row of the content index the sitemap reads from.
type IndexEntry struct {
	Kind      string
	Slug      string
	Title     string
	UpdatedAt time.Time
}
