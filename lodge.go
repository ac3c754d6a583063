// Package lodge is the Wildwood Eco Lodge website built with Go, Echo, and
// templ. It serves the content pages, the contact form, sitemap and robots
// documents, and a small admin area.
//
// Templates are supplied through the ViewFuncs struct (see package views for
// the default set); lodge handles routing, middleware, breadcrumbs, structured
// data and storage.
package lodge

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge/catalog"
	"github.com/wildwoodlodge/lodge/crumbs"
	"github.com/wildwoodlodge/lodge/sitemap"
)

// ViewFuncs holds the templ components the handlers render. Every public
// page receives the shared Page layout model first.
type ViewFuncs struct {
	Home           func(p Page, rooms []catalog.Room, posts []catalog.Post) templ.Component
	About          func(p Page) templ.Component
	Rooms          func(p Page, rooms []catalog.Room) templ.Component
	Room           func(p Page, room catalog.Room) templ.Component
	Blog           func(p Page, posts []catalog.Post) templ.Component
	Post           func(p Page, post catalog.Post, related []catalog.Post) templ.Component
	Activities     func(p Page, activities []catalog.Activity) templ.Component
	Activity       func(p Page, activity catalog.Activity) templ.Component
	Itineraries    func(p Page, itineraries []catalog.Itinerary) templ.Component
	Itinerary      func(p Page, itinerary catalog.Itinerary) templ.Component
	Workshops      func(p Page, workshops []catalog.Workshop) templ.Component
	Workshop       func(p Page, workshop catalog.Workshop) templ.Component
	Sustainability func(p Page, articles []catalog.Article) templ.Component
	Article        func(p Page, article catalog.Article) templ.Component
	Contact        func(p Page, form ContactForm, flash string, csrfToken string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(messages []ContactMessage, images []Image, notice string, csrfToken string) templ.Component
	NotFound       func(p Page) templ.Component
	ServerError    func() templ.Component
}

// App is the central application. It wires together the catalog, store,
// breadcrumb builder, sitemap generator, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Catalog *catalog.Catalog
	Crumbs  *crumbs.Builder
	Sitemap *sitemap.Generator
	Views   ViewFuncs
	Logger  *zap.Logger

	loginLimiter    *Limiter
	contactLimiter  *Limiter
	sitemapCache    sitemap.Cache
	registry        *prometheus.Registry
	sitemapFailures *prometheus.CounterVec
	ipSalt          string
	customRoutes    []func(*App)
	staticDir       string
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Logger:    zap.NewNop(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, indexes the catalog, and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("lodge: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("lodge: SessionSecret is required")
	}

	if a.Catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("lodge: load catalog: %w", err)
		}
		a.Catalog = cat
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("lodge: init store: %w", err)
	}
	a.Store = store

	if a.ipSalt, err = loadSalt(ctx, a.Store); err != nil {
		return fmt.Errorf("lodge: %w", err)
	}
	if err := a.Store.SyncIndex(ctx, IndexKinds, CatalogIndex(a.Catalog)); err != nil {
		return fmt.Errorf("lodge: index catalog: %w", err)
	}

	a.Crumbs = crumbs.NewBuilder(a.Catalog)
	a.loginLimiter = NewLimiter(5, time.Minute)
	a.contactLimiter = NewLimiter(5, 10*time.Minute)

	if a.sitemapCache == nil {
		a.sitemapCache = sitemap.NewMemoryCache(a.Config.SitemapCacheTTL)
	}
	// The index was just rebuilt; a shared cache may hold an older document.
	a.sitemapCache.Invalidate(ctx)
	a.setupMetrics()
	a.Sitemap = a.newSitemapGenerator()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	a.Logger.Info("lodge listening", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/healthz", handleHealth)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", a.metricsHandler())
	}

	e.GET("/", a.handleHome)
	e.GET("/about", a.handleAbout)
	e.GET("/accommodations", a.handleRooms)
	e.GET("/accommodations/:slug", a.handleRoom)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/feed.xml", a.handleFeed)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/things-to-do", a.handleActivities)
	e.GET("/things-to-do/:slug", a.handleActivity)
	e.GET("/itineraries", a.handleItineraries)
	e.GET("/itineraries/:code", a.handleItinerary)
	e.GET("/workshops", a.handleWorkshops)
	e.GET("/workshops/:slug", a.handleWorkshop)
	e.GET("/sustainability", a.handleSustainability)
	e.GET("/sustainability/:slug", a.handleArticle)
	e.GET("/contact", a.handleContact)
	e.POST("/contact", a.handleContactSubmit)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/messages/:id/delete", a.handleMessageDelete)
	e.POST("/admin/images/upload", a.handleImageUpload)
	e.POST("/admin/images/:filename/delete", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
