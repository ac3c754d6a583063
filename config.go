package lodge

import (
	"time"

	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge/catalog"
	"github.com/wildwoodlodge/lodge/sitemap"
)

// SiteConfig holds all configuration for the lodge site.
type SiteConfig struct {
	Name        string // Site name (default "Wildwood Eco Lodge")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags and JSON-LD
	Phone       string // Reservation phone for JSON-LD and the contact page
	Email       string // Reservation email
	Address     string // Postal address, one line

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/lodge.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	SitemapCacheTTL time.Duration // Sitemap cache TTL (default 1h)
	MetricsEnabled  bool          // Expose /metrics
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Wildwood Eco Lodge"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/lodge.db"
	}
	if c.SitemapCacheTTL == 0 {
		c.SitemapCacheTTL = time.Hour
	}
}

// Info returns the public subset of the config that templates may see.
func (c SiteConfig) Info() SiteInfo {
	return SiteInfo{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger (default zap.NewNop()).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSitemapCache replaces the in-memory sitemap cache, e.g. with a
// sitemap.RedisCache shared between instances.
func WithSitemapCache(c sitemap.Cache) Option {
	return func(a *App) {
		a.sitemapCache = c
	}
}

// WithCatalog replaces the embedded content tables.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}
