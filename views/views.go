// Package views is the default template set for the lodge site. Pages are
// html/template files embedded in the binary and exposed to the handlers as
// templ components.
package views

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"

	"github.com/wildwoodlodge/lodge"
	"github.com/wildwoodlodge/lodge/catalog"
)

//go:embed templates/*.html
var files embed.FS

// view is the data handed to every template. Pages read the fields they need.
type view struct {
	lodge.Page

	Rooms       []catalog.Room
	Room        catalog.Room
	Posts       []catalog.Post
	Post        catalog.Post
	Related     []catalog.Post
	Activities  []catalog.Activity
	Activity    catalog.Activity
	Itineraries []catalog.Itinerary
	Itinerary   catalog.Itinerary
	Workshops   []catalog.Workshop
	Workshop    catalog.Workshop
	Articles    []catalog.Article
	Article     catalog.Article

	Form  lodge.ContactForm
	Flash string
	CSRF  string

	ShowError bool
	Messages  []lodge.ContactMessage
	Images    []lodge.Image
	Notice    string
}

var sitePages = []string{
	"home", "about", "rooms", "room", "blog", "post",
	"activities", "activity", "itineraries", "itinerary",
	"workshops", "workshop", "sustainability", "article",
	"contact", "notfound",
}

var adminPages = []string{"login", "dashboard"}

var pages = parse()

func parse() map[string]*template.Template {
	site := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html"))
	admin := template.Must(template.New("admin.html").Funcs(funcs).ParseFS(files, "templates/admin.html"))

	out := make(map[string]*template.Template, len(sitePages)+len(adminPages)+1)
	for _, name := range sitePages {
		out[name] = withPage(site, name)
	}
	for _, name := range adminPages {
		out[name] = withPage(admin, "admin_"+name)
	}
	out["error"] = template.Must(template.New("error.html").Funcs(funcs).ParseFS(files, "templates/error.html"))
	return out
}

func withPage(layout *template.Template, name string) *template.Template {
	t := template.Must(layout.Clone())
	return template.Must(t.ParseFS(files, "templates/"+name+".html"))
}

func component(name string, v view) templ.Component {
	t, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return templ.FromGoHTML(t.Lookup("base"), v)
}

// Funcs returns the default view set.
func Funcs() lodge.ViewFuncs {
	return lodge.ViewFuncs{
		Home: func(p lodge.Page, rooms []catalog.Room, posts []catalog.Post) templ.Component {
			return component("home", view{Page: p, Rooms: rooms, Posts: posts})
		},
		About: func(p lodge.Page) templ.Component {
			return component("about", view{Page: p})
		},
		Rooms: func(p lodge.Page, rooms []catalog.Room) templ.Component {
			return component("rooms", view{Page: p, Rooms: rooms})
		},
		Room: func(p lodge.Page, room catalog.Room) templ.Component {
			return component("room", view{Page: p, Room: room})
		},
		Blog: func(p lodge.Page, posts []catalog.Post) templ.Component {
			return component("blog", view{Page: p, Posts: posts})
		},
		Post: func(p lodge.Page, post catalog.Post, related []catalog.Post) templ.Component {
			return component("post", view{Page: p, Post: post, Related: related})
		},
		Activities: func(p lodge.Page, activities []catalog.Activity) templ.Component {
			return component("activities", view{Page: p, Activities: activities})
		},
		Activity: func(p lodge.Page, activity catalog.Activity) templ.Component {
			return component("activity", view{Page: p, Activity: activity})
		},
		Itineraries: func(p lodge.Page, itineraries []catalog.Itinerary) templ.Component {
			return component("itineraries", view{Page: p, Itineraries: itineraries})
		},
		Itinerary: func(p lodge.Page, itinerary catalog.Itinerary) templ.Component {
			return component("itinerary", view{Page: p, Itinerary: itinerary})
		},
		Workshops: func(p lodge.Page, workshops []catalog.Workshop) templ.Component {
			return component("workshops", view{Page: p, Workshops: workshops})
		},
		Workshop: func(p lodge.Page, workshop catalog.Workshop) templ.Component {
			return component("workshop", view{Page: p, Workshop: workshop})
		},
		Sustainability: func(p lodge.Page, articles []catalog.Article) templ.Component {
			return component("sustainability", view{Page: p, Articles: articles})
		},
		Article: func(p lodge.Page, article catalog.Article) templ.Component {
			return component("article", view{Page: p, Article: article})
		},
		Contact: func(p lodge.Page, form lodge.ContactForm, flash, csrfToken string) templ.Component {
			return component("contact", view{Page: p, Form: form, Flash: flash, CSRF: csrfToken})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return component("login", view{ShowError: showError, CSRF: csrfToken})
		},
		AdminDashboard: func(messages []lodge.ContactMessage, images []lodge.Image, notice, csrfToken string) templ.Component {
			return component("dashboard", view{Messages: messages, Images: images, Notice: notice, CSRF: csrfToken})
		},
		NotFound: func(p lodge.Page) templ.Component {
			return component("notfound", view{Page: p})
		},
		ServerError: func() templ.Component {
			return component("error", view{})
		},
	}
}
