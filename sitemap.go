package lodge

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge/catalog"
	"github.com/wildwoodlodge/lodge/sitemap"
)

// IndexKinds are the content index kinds owned by the catalog.
var IndexKinds = []string{KindRoom, KindActivity, KindPost, KindWorkshop, KindArticle, KindItinerary}

// CatalogIndex flattens the catalog's sitemap-visible tables into index rows.
func CatalogIndex(cat *catalog.Catalog) []IndexEntry {
	var entries []IndexEntry
	for _, r := range cat.Rooms() {
		entries = append(entries, IndexEntry{Kind: KindRoom, Slug: r.Slug, Title: r.Name, UpdatedAt: r.UpdatedAt})
	}
	for _, act := range cat.Activities() {
		entries = append(entries, IndexEntry{Kind: KindActivity, Slug: act.Slug, Title: act.Title, UpdatedAt: act.UpdatedAt})
	}
	for _, p := range cat.Posts() {
		entries = append(entries, IndexEntry{Kind: KindPost, Slug: p.Slug, Title: p.Title, UpdatedAt: p.UpdatedAt})
	}
	for _, w := range cat.Workshops() {
		entries = append(entries, IndexEntry{Kind: KindWorkshop, Slug: w.Slug, Title: w.Title})
	}
	for _, art := range cat.Articles() {
		entries = append(entries, IndexEntry{Kind: KindArticle, Slug: art.Slug, Title: art.Title, UpdatedAt: art.UpdatedAt})
	}
	for _, it := range cat.Itineraries() {
		entries = append(entries, IndexEntry{Kind: KindItinerary, Slug: strings.ToLower(it.Code), Title: it.City})
	}
	return entries
}

// NewSitemapGenerator returns the generator behind both /sitemap.xml and the
// `lodge sitemap` export: the static routes plus every catalog detail page
// read from the store's content index.
func NewSitemapGenerator(baseURL string, store *Store, log *zap.Logger, onFailure func(source string)) *sitemap.Generator {
	return &sitemap.Generator{
		BaseURL: baseURL,
		Static:  sitemap.StaticRoutes,
		Sources: []sitemap.Source{
			storeSource(store, KindRoom, "/accommodations", 0.8, sitemap.Monthly),
			storeSource(store, KindActivity, "/things-to-do", 0.7, sitemap.Monthly),
			storeSource(store, KindPost, "/blog", 0.6, sitemap.Yearly),
			storeSource(store, KindWorkshop, "/workshops", 0.6, sitemap.Monthly),
			storeSource(store, KindArticle, "/sustainability", 0.5, sitemap.Yearly),
			storeSource(store, KindItinerary, "/itineraries", 0.5, sitemap.Yearly),
		},
		Logger:    log,
		OnFailure: onFailure,
	}
}

func storeSource(store *Store, kind, prefix string, priority float64, freq sitemap.ChangeFreq) sitemap.Source {
	return sitemap.Source{
		Name:       kind,
		Prefix:     prefix,
		Priority:   priority,
		ChangeFreq: freq,
		Fetch:      func(ctx context.Context) ([]sitemap.Stamp, error) { return store.ListStamps(ctx, kind) },
	}
}

func (a *App) newSitemapGenerator() *sitemap.Generator {
	return NewSitemapGenerator(a.Config.URL, a.Store, a.Logger, func(source string) {
		a.sitemapFailures.WithLabelValues(source).Inc()
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	if doc, ok := a.sitemapCache.Get(ctx); ok {
		return c.Blob(http.StatusOK, "application/xml; charset=utf-8", doc)
	}
	var buf bytes.Buffer
	complete, err := a.Sitemap.Render(ctx, &buf)
	if err != nil {
		return err
	}
	// A degraded document is served but never cached.
	if complete {
		a.sitemapCache.Set(ctx, buf.Bytes())
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func (a *App) handleRobots(c echo.Context) error {
	body := sitemap.Robots(a.Config.URL, sitemap.DefaultRobots)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
