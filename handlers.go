package lodge

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge/crumbs"
)

// page builds the shared layout model for the current request.
func (a *App) page(c echo.Context, title, description string, jsonld ...string) Page {
	p := c.Request().URL.Path
	site := a.Config.Info()
	if description == "" {
		description = site.Description
	}
	if title == "" {
		title = site.Name
	} else {
		title = title + " | " + site.Name
	}
	// Crumbs decode segments themselves and keep the escaped form in hrefs.
	trail := a.Crumbs.Build(c.Request().URL.EscapedPath())
	if len(trail) > 1 {
		jsonld = append(jsonld, crumbs.StructuredData(site.URL, trail).JSON())
	}
	return Page{
		Site: site,
		Meta: PageMeta{
			Title:       title,
			Description: description,
			URL:         BuildURL(site.URL, p),
			OGType:      "website",
		},
		Path:   p,
		Nav:    BuildNav(p),
		Crumbs: trail,
		JSONLD: jsonld,
	}
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Page not found", "")))
}

func (a *App) handleHome(c echo.Context) error {
	p := a.page(c, "", "", LodgingJsonLD(a.Config.Info()))
	return Render(c, a.Views.Home(p, a.Catalog.FeaturedRooms(), a.Catalog.LatestPosts(3)))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.page(c, "About", "")))
}

func (a *App) handleRooms(c echo.Context) error {
	p := a.page(c, "Accommodations", "Treehouse suites, earthen cottages and stream-side tents.")
	return Render(c, a.Views.Rooms(p, a.Catalog.Rooms()))
}

func (a *App) handleRoom(c echo.Context) error {
	room, ok := a.Catalog.Room(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	p := a.page(c, room.Name, room.Summary)
	p.Meta.Image = room.Image
	return Render(c, a.Views.Room(p, room))
}

func (a *App) handleBlog(c echo.Context) error {
	p := a.page(c, "Journal", "Notes from the forest: wildlife, building and life at the lodge.")
	return Render(c, a.Views.Blog(p, a.Catalog.Posts()))
}

func (a *App) handlePost(c echo.Context) error {
	post, ok := a.Catalog.Post(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	p := a.page(c, post.Title, post.Summary, BlogPostingJsonLD(post, a.Config.Info()))
	p.Meta.OGType = "article"
	p.Meta.Image = post.Image
	return Render(c, a.Views.Post(p, post, FilterRelatedPosts(post, a.Catalog.Posts())))
}

func (a *App) handleActivities(c echo.Context) error {
	p := a.page(c, "Things to Do", "Walks, trails and mornings on the stream.")
	return Render(c, a.Views.Activities(p, a.Catalog.Activities()))
}

func (a *App) handleActivity(c echo.Context) error {
	act, ok := a.Catalog.Activity(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	return Render(c, a.Views.Activity(a.page(c, act.Title, act.Summary), act))
}

func (a *App) handleItineraries(c echo.Context) error {
	p := a.page(c, "Getting Here", "Directions to the lodge from nearby cities.")
	return Render(c, a.Views.Itineraries(p, a.Catalog.Itineraries()))
}

func (a *App) handleItinerary(c echo.Context) error {
	it, ok := a.Catalog.Itinerary(c.Param("code"))
	if !ok {
		return a.notFound(c)
	}
	return Render(c, a.Views.Itinerary(a.page(c, "From "+it.City, it.Summary), it))
}

func (a *App) handleWorkshops(c echo.Context) error {
	p := a.page(c, "Workshops", "Hands-on weekends: natural dyeing, cob building and more.")
	return Render(c, a.Views.Workshops(p, a.Catalog.Workshops()))
}

func (a *App) handleWorkshop(c echo.Context) error {
	w, ok := a.Catalog.Workshop(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	return Render(c, a.Views.Workshop(a.page(c, w.Title, w.Summary), w))
}

func (a *App) handleSustainability(c echo.Context) error {
	p := a.page(c, "Sustainability", "How the lodge runs on sun, rain and soil.")
	return Render(c, a.Views.Sustainability(p, a.Catalog.Articles()))
}

func (a *App) handleArticle(c echo.Context) error {
	art, ok := a.Catalog.Article(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	p := a.page(c, art.Title, art.Summary, ArticleJsonLD(art, a.Config.Info()))
	p.Meta.OGType = "article"
	return Render(c, a.Views.Article(p, art))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Catalog.Posts())
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		if rerr := a.notFound(c); rerr != nil {
			a.Logger.Error("render not found page", zap.Error(rerr))
		}
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.Int("status", code),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		if rerr := RenderStatus(c, code, a.Views.ServerError()); rerr != nil {
			_ = c.String(code, http.StatusText(code))
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
