// Package catalog holds the lodge's static content tables: rooms, blog posts,
// activities, itineraries, workshops and sustainability articles. Tables are
// decoded once from YAML and never mutated afterwards.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrNotFound is returned by Load helpers when a table file is missing.
var ErrNotFound = errors.New("catalog: not found")

const dateLayout = "2006-01-02"

// Room is an accommodation offered by the lodge.
type Room struct {
	Slug          string   `yaml:"slug"`
	Name          string   `yaml:"name"`
	Summary       string   `yaml:"summary"`
	Description   string   `yaml:"description"`
	Capacity      int      `yaml:"capacity"`
	SizeSqM       int      `yaml:"size_sqm"`
	PricePerNight int      `yaml:"price_per_night"`
	Currency      string   `yaml:"currency"`
	Amenities     []string `yaml:"amenities"`
	Image         string   `yaml:"image"`
	Featured      bool     `yaml:"featured"`
	Updated       string   `yaml:"updated"`

	UpdatedAt time.Time `yaml:"-"`
}

// Post is a blog post.
type Post struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Author  string   `yaml:"author"`
	Date    string   `yaml:"date"`
	Summary string   `yaml:"summary"`
	Body    string   `yaml:"body"`
	Tags    []string `yaml:"tags"`
	Image   string   `yaml:"image"`
	Updated string   `yaml:"updated"`

	UpdatedAt time.Time `yaml:"-"`
}

// Activity is one of the "things to do" around the lodge.
type Activity struct {
	Slug       string `yaml:"slug"`
	Title      string `yaml:"title"`
	Summary    string `yaml:"summary"`
	Body       string `yaml:"body"`
	Duration   string `yaml:"duration"`
	Difficulty string `yaml:"difficulty"`
	Season     string `yaml:"season"`
	Updated    string `yaml:"updated"`

	UpdatedAt time.Time `yaml:"-"`
}

// Step is one leg of an itinerary.
type Step struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

// Itinerary describes how to reach the lodge from a city, keyed by the
// city's three-letter code.
type Itinerary struct {
	Code       string  `yaml:"code"`
	Summary    string  `yaml:"summary"`
	DistanceKm int     `yaml:"distance_km"`
	DriveHours float64 `yaml:"drive_hours"`
	Steps      []Step  `yaml:"steps"`

	City string `yaml:"-"`
}

// City maps a three-letter code to a display name.
type City struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Workshop is a scheduled hands-on session.
type Workshop struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary"`
	Body     string `yaml:"body"`
	Host     string `yaml:"host"`
	Schedule string `yaml:"schedule"`
	Price    int    `yaml:"price"`
	Seats    int    `yaml:"seats"`
}

// Article is a sustainability knowledge-base entry.
type Article struct {
	Slug     string `yaml:"slug"`
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary"`
	Body     string `yaml:"body"`
	Category string `yaml:"category"`
	Updated  string `yaml:"updated"`

	UpdatedAt time.Time `yaml:"-"`
}

// Catalog is the read-only set of content tables. All accessors return copies
// so callers cannot mutate the tables.
type Catalog struct {
	rooms       []Room
	posts       []Post
	activities  []Activity
	itineraries []Itinerary
	workshops   []Workshop
	articles    []Article

	roomIdx      map[string]int
	postIdx      map[string]int
	activityIdx  map[string]int
	itineraryIdx map[string]int
	workshopIdx  map[string]int
	articleIdx   map[string]int
	cities       map[string]string
}

// Default loads the tables embedded in the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load decodes every table from fsys. Each collection must have unique,
// non-empty slugs and well-formed dates.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	var err error

	if c.rooms, err = decode[Room](fsys, "rooms.yaml"); err != nil {
		return nil, err
	}
	if c.posts, err = decode[Post](fsys, "posts.yaml"); err != nil {
		return nil, err
	}
	if c.activities, err = decode[Activity](fsys, "activities.yaml"); err != nil {
		return nil, err
	}
	if c.itineraries, err = decode[Itinerary](fsys, "itineraries.yaml"); err != nil {
		return nil, err
	}
	if c.workshops, err = decode[Workshop](fsys, "workshops.yaml"); err != nil {
		return nil, err
	}
	if c.articles, err = decode[Article](fsys, "articles.yaml"); err != nil {
		return nil, err
	}
	cities, err := decode[City](fsys, "cities.yaml")
	if err != nil {
		return nil, err
	}

	c.cities = make(map[string]string, len(cities))
	for _, city := range cities {
		code := strings.ToLower(strings.TrimSpace(city.Code))
		if code == "" {
			return nil, fmt.Errorf("catalog: cities.yaml: empty code")
		}
		c.cities[code] = city.Name
	}

	for i := range c.rooms {
		if c.rooms[i].UpdatedAt, err = parseDate("rooms", c.rooms[i].Slug, c.rooms[i].Updated); err != nil {
			return nil, err
		}
	}
	for i := range c.posts {
		p := &c.posts[i]
		if _, err := parseDate("posts", p.Slug, p.Date); err != nil {
			return nil, err
		}
		if p.Updated == "" {
			p.Updated = p.Date
		}
		if p.UpdatedAt, err = parseDate("posts", p.Slug, p.Updated); err != nil {
			return nil, err
		}
	}
	// newest first; dates are ISO so string order is date order
	sort.SliceStable(c.posts, func(i, j int) bool { return c.posts[i].Date > c.posts[j].Date })
	for i := range c.activities {
		if c.activities[i].UpdatedAt, err = parseDate("activities", c.activities[i].Slug, c.activities[i].Updated); err != nil {
			return nil, err
		}
	}
	for i := range c.articles {
		if c.articles[i].UpdatedAt, err = parseDate("articles", c.articles[i].Slug, c.articles[i].Updated); err != nil {
			return nil, err
		}
	}
	for i := range c.itineraries {
		it := &c.itineraries[i]
		it.Code = strings.ToLower(it.Code)
		name, ok := c.cities[it.Code]
		if !ok {
			return nil, fmt.Errorf("catalog: itinerary %q: unknown city code", it.Code)
		}
		it.City = name
	}

	if c.roomIdx, err = index("rooms", c.rooms, func(r Room) string { return r.Slug }); err != nil {
		return nil, err
	}
	if c.postIdx, err = index("posts", c.posts, func(p Post) string { return p.Slug }); err != nil {
		return nil, err
	}
	if c.activityIdx, err = index("activities", c.activities, func(a Activity) string { return a.Slug }); err != nil {
		return nil, err
	}
	if c.itineraryIdx, err = index("itineraries", c.itineraries, func(i Itinerary) string { return i.Code }); err != nil {
		return nil, err
	}
	if c.workshopIdx, err = index("workshops", c.workshops, func(w Workshop) string { return w.Slug }); err != nil {
		return nil, err
	}
	if c.articleIdx, err = index("articles", c.articles, func(a Article) string { return a.Slug }); err != nil {
		return nil, err
	}
	return c, nil
}

func decode[T any](fsys fs.FS, name string) ([]T, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	var items []T
	if err := yaml.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return items, nil
}

func index[T any](table string, items []T, key func(T) string) (map[string]int, error) {
	idx := make(map[string]int, len(items))
	for i, it := range items {
		k := key(it)
		if k == "" {
			return nil, fmt.Errorf("catalog: %s[%d]: empty slug", table, i)
		}
		if _, dup := idx[k]; dup {
			return nil, fmt.Errorf("catalog: %s: duplicate slug %q", table, k)
		}
		idx[k] = i
	}
	return idx, nil
}

func parseDate(table, slug, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("catalog: %s %q: bad date %q: %w", table, slug, v, err)
	}
	return t, nil
}

func lookup[T any](items []T, idx map[string]int, key string) (T, bool) {
	i, ok := idx[key]
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = clone(v)
	}
	return out
}

func (r Room) clone() Room {
	r.Amenities = slices.Clone(r.Amenities)
	return r
}

func (p Post) clone() Post {
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (it Itinerary) clone() Itinerary {
	it.Steps = slices.Clone(it.Steps)
	return it
}

// Rooms returns all rooms in table order.
func (c *Catalog) Rooms() []Room { return cloneAll(c.rooms, Room.clone) }

// FeaturedRooms returns rooms flagged for the home page.
func (c *Catalog) FeaturedRooms() []Room {
	var out []Room
	for _, r := range c.rooms {
		if r.Featured {
			out = append(out, r.clone())
		}
	}
	return out
}

// Room looks up a room by slug.
func (c *Catalog) Room(slug string) (Room, bool) {
	r, ok := lookup(c.rooms, c.roomIdx, slug)
	return r.clone(), ok
}

// Posts returns blog posts, newest first.
func (c *Catalog) Posts() []Post { return cloneAll(c.posts, Post.clone) }

// LatestPosts returns at most n posts, newest first.
func (c *Catalog) LatestPosts(n int) []Post {
	if n > len(c.posts) {
		n = len(c.posts)
	}
	return cloneAll(c.posts[:n], Post.clone)
}

// Post looks up a blog post by slug.
func (c *Catalog) Post(slug string) (Post, bool) {
	p, ok := lookup(c.posts, c.postIdx, slug)
	return p.clone(), ok
}

// Activities returns all activities.
func (c *Catalog) Activities() []Activity { return slices.Clone(c.activities) }

// Activity looks up an activity by slug.
func (c *Catalog) Activity(slug string) (Activity, bool) {
	return lookup(c.activities, c.activityIdx, slug)
}

// Itineraries returns all itineraries.
func (c *Catalog) Itineraries() []Itinerary { return cloneAll(c.itineraries, Itinerary.clone) }

// Itinerary looks up an itinerary by city code, case-insensitively.
func (c *Catalog) Itinerary(code string) (Itinerary, bool) {
	it, ok := lookup(c.itineraries, c.itineraryIdx, strings.ToLower(code))
	return it.clone(), ok
}

// Workshops returns all workshops.
func (c *Catalog) Workshops() []Workshop { return slices.Clone(c.workshops) }

// Workshop looks up a workshop by slug.
func (c *Catalog) Workshop(slug string) (Workshop, bool) {
	return lookup(c.workshops, c.workshopIdx, slug)
}

// Articles returns all sustainability articles.
func (c *Catalog) Articles() []Article { return slices.Clone(c.articles) }

// Article looks up a sustainability article by slug.
func (c *Catalog) Article(slug string) (Article, bool) {
	return lookup(c.articles, c.articleIdx, slug)
}

// RoomName returns the display name of a room.
func (c *Catalog) RoomName(slug string) (string, bool) {
	r, ok := c.Room(slug)
	return r.Name, ok
}

// PostTitle returns the title of a blog post.
func (c *Catalog) PostTitle(slug string) (string, bool) {
	p, ok := c.Post(slug)
	return p.Title, ok
}

// ActivityTitle returns the title of an activity.
func (c *Catalog) ActivityTitle(slug string) (string, bool) {
	a, ok := c.Activity(slug)
	return a.Title, ok
}

// CityName resolves a three-letter city code.
func (c *Catalog) CityName(code string) (string, bool) {
	name, ok := c.cities[strings.ToLower(code)]
	return name, ok
}
