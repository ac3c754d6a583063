package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func staticSource(name, prefix string, stamps ...Stamp) Source {
	return Source{
		Name:       name,
		Prefix:     prefix,
		Priority:   0.7,
		ChangeFreq: Weekly,
		Fetch: func(context.Context) ([]Stamp, error) {
			return stamps, nil
		},
	}
}

func failingSource(name, prefix string) Source {
	return Source{
		Name:   name,
		Prefix: prefix,
		Fetch: func(context.Context) ([]Stamp, error) {
			return nil, errors.New("connection refused")
		},
	}
}

func testGenerator(sources ...Source) *Generator {
	return &Generator{
		BaseURL: "https://wildwood.example",
		Static:  StaticRoutes,
		Sources: sources,
	}
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestEntriesAllSources(t *testing.T) {
	g := testGenerator(
		staticSource("rooms", "/accommodations", Stamp{Slug: "forest-canopy-suite", UpdatedAt: day("2025-03-14")}),
		staticSource("activities", "/things-to-do", Stamp{Slug: "night-walk", UpdatedAt: day("2025-04-01")}),
		staticSource("posts", "/blog/", Stamp{Slug: "monsoon-diary", UpdatedAt: day("2025-06-12")}),
	)

	entries, complete := g.Entries(context.Background())
	assert.True(t, complete)
	require.Len(t, entries, len(StaticRoutes)+3)

	got := paths(entries)
	assert.Equal(t, "/", got[0])
	assert.Equal(t, []string{
		"/accommodations/forest-canopy-suite",
		"/things-to-do/night-walk",
		"/blog/monsoon-diary",
	}, got[len(StaticRoutes):])
	assert.Equal(t, Weekly, entries[len(StaticRoutes)].ChangeFreq)
}

func TestEntriesToleratesFailingSource(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var mu sync.Mutex
	var failures []string

	g := testGenerator(
		staticSource("rooms", "/accommodations", Stamp{Slug: "bamboo-tent"}),
		failingSource("activities", "/things-to-do"),
		staticSource("posts", "/blog", Stamp{Slug: "birding-checklist"}),
	)
	g.Logger = zap.New(core)
	g.OnFailure = func(source string) {
		mu.Lock()
		failures = append(failures, source)
		mu.Unlock()
	}

	entries, complete := g.Entries(context.Background())
	assert.False(t, complete)
	assert.Equal(t, []string{"activities"}, failures)

	got := paths(entries)
	assert.Contains(t, got, "/accommodations/bamboo-tent")
	assert.Contains(t, got, "/blog/birding-checklist")
	assert.Contains(t, got, "/contact")
	for _, p := range got {
		assert.False(t, strings.HasPrefix(p, "/things-to-do/"), "unexpected %s", p)
	}

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "activities", entry.ContextMap()["source"])
}

func TestEntriesAllSourcesFail(t *testing.T) {
	g := testGenerator(
		failingSource("rooms", "/accommodations"),
		failingSource("activities", "/things-to-do"),
		failingSource("posts", "/blog"),
	)
	entries, complete := g.Entries(context.Background())
	assert.False(t, complete)
	assert.Equal(t, paths(StaticRoutes), paths(entries))
}

func TestEntriesDeduplicatesAndSkipsEmptySlugs(t *testing.T) {
	g := &Generator{
		Static: []Entry{{Path: "/blog/monsoon-diary", Priority: 0.9}},
		Sources: []Source{
			staticSource("posts", "/blog", Stamp{Slug: "monsoon-diary"}, Stamp{Slug: ""}, Stamp{Slug: "monsoon-diary"}),
		},
	}
	entries, _ := g.Entries(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, 0.9, entries[0].Priority)
}

func TestEntriesRunsSourcesConcurrently(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(3)
	blocking := func(name string) Source {
		return Source{Name: name, Prefix: "/" + name, Fetch: func(ctx context.Context) ([]Stamp, error) {
			started.Done()
			<-release
			return []Stamp{{Slug: "x"}}, nil
		}}
	}
	g := testGenerator(blocking("a"), blocking("b"), blocking("c"))

	done := make(chan []Entry)
	go func() {
		entries, _ := g.Entries(context.Background())
		done <- entries
	}()

	// all three fetches must be in flight at once before any returns
	started.Wait()
	close(release)

	select {
	case entries := <-done:
		assert.Len(t, entries, len(StaticRoutes)+3)
	case <-time.After(2 * time.Second):
		t.Fatal("Entries did not return")
	}
}

type urlSetDoc struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

func TestRenderWellFormedWithFailure(t *testing.T) {
	g := testGenerator(
		staticSource("rooms", "/accommodations", Stamp{Slug: "forest-canopy-suite", UpdatedAt: time.Date(2025, 3, 14, 22, 10, 0, 0, time.UTC)}),
		staticSource("activities", "/things-to-do", Stamp{Slug: "night-walk"}),
		failingSource("posts", "/blog"),
	)

	var buf bytes.Buffer
	complete, err := g.Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var doc urlSetDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, Namespace, doc.XMLNS)
	require.Len(t, doc.URLs, len(StaticRoutes)+2)

	home := doc.URLs[0]
	assert.Equal(t, "https://wildwood.example/", home.Loc)
	assert.Equal(t, "1.0", home.Priority)
	assert.Equal(t, "weekly", home.ChangeFreq)
	assert.Empty(t, home.LastMod)

	room := doc.URLs[len(StaticRoutes)]
	assert.Equal(t, "https://wildwood.example/accommodations/forest-canopy-suite", room.Loc)
	assert.Equal(t, "2025-03-14", room.LastMod)
	assert.Equal(t, "0.7", room.Priority)
}

func TestEncodeEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "https://wildwood.example/", []Entry{{Path: "/blog?a=1&b=2"}}))
	assert.Contains(t, buf.String(), "<loc>https://wildwood.example/blog?a=1&amp;b=2</loc>")
}

func TestEncodeKeepsZeroPriority(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "https://wildwood.example", []Entry{
		{Path: "/archive", Priority: 0, ChangeFreq: Never},
		{Path: "/", Priority: 1},
	}))

	var doc urlSetDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.URLs, 2)
	assert.Equal(t, "0.0", doc.URLs[0].Priority)
	assert.Equal(t, "1.0", doc.URLs[1].Priority)
	assert.Equal(t, 2, strings.Count(buf.String(), "<priority>"))
}

func TestRobots(t *testing.T) {
	got := Robots("https://wildwood.example/", DefaultRobots)
	want := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /admin/\n" +
		"Disallow: /api/\n" +
		"Disallow: /metrics\n" +
		"\n" +
		"Sitemap: https://wildwood.example/sitemap.xml\n"
	assert.Equal(t, want, got)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, []byte("<urlset/>"))
	doc, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "<urlset/>", string(doc))

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx)
	assert.False(t, ok, "entry should expire after ttl")

	c.Set(ctx, []byte("<urlset/>"))
	c.Invalidate(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a redis url", time.Minute, nil)
	assert.Error(t, err)
}
