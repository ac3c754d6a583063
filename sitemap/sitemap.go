// Package sitemap generates sitemap.xml and robots.txt documents from a
// static route list and dynamically fetched content slugs.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChangeFreq is the sitemap <changefreq> hint.
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Namespace is the sitemap protocol XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Entry is one URL of the sitemap. A zero LastModified omits <lastmod>;
// Priority is always written, so 0.0 is a real priority.
type Entry struct {
	Path         string
	LastModified time.Time
	Priority     float64
	ChangeFreq   ChangeFreq
}

// StaticRoutes is the site's fixed route list. Both the served sitemap and
// the exported file are built from it.
var StaticRoutes = []Entry{
	{Path: "/", Priority: 1.0, ChangeFreq: Weekly},
	{Path: "/about", Priority: 0.8, ChangeFreq: Monthly},
	{Path: "/accommodations", Priority: 0.9, ChangeFreq: Weekly},
	{Path: "/things-to-do", Priority: 0.8, ChangeFreq: Weekly},
	{Path: "/blog", Priority: 0.7, ChangeFreq: Daily},
	{Path: "/itineraries", Priority: 0.6, ChangeFreq: Monthly},
	{Path: "/workshops", Priority: 0.7, ChangeFreq: Weekly},
	{Path: "/sustainability", Priority: 0.6, ChangeFreq: Monthly},
	{Path: "/contact", Priority: 0.5, ChangeFreq: Yearly},
}

// Stamp is a content slug with its last modification time.
type Stamp struct {
	Slug      string
	UpdatedAt time.Time
}

// Source is a dynamic contributor of sitemap entries. Each fetched slug
// becomes Prefix + "/" + slug.
type Source struct {
	Name       string
	Prefix     string
	Priority   float64
	ChangeFreq ChangeFreq
	Fetch      func(ctx context.Context) ([]Stamp, error)
}

// Generator assembles sitemap entries.
type Generator struct {
	BaseURL string
	Static  []Entry
	Sources []Source
	Logger  *zap.Logger
	// OnFailure is called with the source name whenever a fetch fails.
	OnFailure func(source string)
}

// Entries returns the static entries followed by each source's entries, in
// source order. Sources are fetched concurrently; a failing source is logged
// and contributes nothing. complete reports whether every source succeeded.
func (g *Generator) Entries(ctx context.Context) (entries []Entry, complete bool) {
	log := g.Logger
	if log == nil {
		log = zap.NewNop()
	}

	results := make([][]Entry, len(g.Sources))
	failed := make([]bool, len(g.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range g.Sources {
		eg.Go(func() error {
			stamps, err := src.Fetch(egCtx)
			if err != nil {
				log.Warn("sitemap source unavailable, serving without it",
					zap.String("source", src.Name), zap.Error(err))
				failed[i] = true
				return nil
			}
			out := make([]Entry, 0, len(stamps))
			for _, s := range stamps {
				if s.Slug == "" {
					continue
				}
				out = append(out, Entry{
					Path:         strings.TrimRight(src.Prefix, "/") + "/" + s.Slug,
					LastModified: s.UpdatedAt,
					Priority:     src.Priority,
					ChangeFreq:   src.ChangeFreq,
				})
			}
			results[i] = out
			return nil
		})
	}
	_ = eg.Wait()

	complete = true
	for i, f := range failed {
		if f {
			complete = false
			if g.OnFailure != nil {
				g.OnFailure(g.Sources[i].Name)
			}
		}
	}

	seen := make(map[string]struct{}, len(g.Static))
	entries = make([]Entry, 0, len(g.Static))
	add := func(e Entry) {
		if _, dup := seen[e.Path]; dup {
			return
		}
		seen[e.Path] = struct{}{}
		entries = append(entries, e)
	}
	for _, e := range g.Static {
		add(e)
	}
	for _, r := range results {
		for _, e := range r {
			add(e)
		}
	}
	return entries, complete
}

// Render writes the sitemap document to w.
func (g *Generator) Render(ctx context.Context, w io.Writer) (complete bool, err error) {
	entries, complete := g.Entries(ctx)
	return complete, Encode(w, g.BaseURL, entries)
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority"`
}

// Encode writes entries as a sitemap urlset with absolute locations.
func Encode(w io.Writer, baseURL string, entries []Entry) error {
	base := strings.TrimRight(baseURL, "/")
	set := urlSet{XMLNS: Namespace, URLs: make([]url, 0, len(entries))}
	for _, e := range entries {
		u := url{
			Loc:        base + e.Path,
			ChangeFreq: string(e.ChangeFreq),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("sitemap: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
