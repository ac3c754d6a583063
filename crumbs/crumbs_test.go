package crumbs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLabeler struct {
	rooms, posts, activities, cities map[string]string
}

func (s stubLabeler) RoomName(slug string) (string, bool)      { v, ok := s.rooms[slug]; return v, ok }
func (s stubLabeler) PostTitle(slug string) (string, bool)     { v, ok := s.posts[slug]; return v, ok }
func (s stubLabeler) ActivityTitle(slug string) (string, bool) { v, ok := s.activities[slug]; return v, ok }
func (s stubLabeler) CityName(code string) (string, bool)      { v, ok := s.cities[code]; return v, ok }

func newTestBuilder() *Builder {
	return NewBuilder(stubLabeler{
		rooms:      map[string]string{"forest-canopy-suite": "Forest Canopy Suite", "mud-hut": "The Mud Hut (Cob)"},
		posts:      map[string]string{"monsoon-diary": "A Monsoon Diary: Week One"},
		activities: map[string]string{"night-walk": "Guided Night Walk"},
		cities:     map[string]string{"blr": "Bengaluru", "maa": "Chennai"},
	})
}

func TestFormatSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"forest-canopy-suite", "Forest Canopy Suite"},
		{"about", "About"},
		{"room-2", "Room 2"},
		{"2024-highlights", "2024 Highlights"},
		{"already-Upper", "Already Upper"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSlug(tt.input), "FormatSlug(%q)", tt.input)
	}
}

func TestFormatSlugOneWordPerToken(t *testing.T) {
	for _, slug := range []string{"a", "a-b", "eco-lodge-2025-guide", "x1-y2-z3-w4"} {
		got := FormatSlug(slug)
		assert.NotContains(t, got, "-")
		words := strings.Split(got, " ")
		require.Len(t, words, strings.Count(slug, "-")+1, "slug %q", slug)
		for _, w := range words {
			first := w[0]
			assert.False(t, first >= 'a' && first <= 'z', "word %q of %q not capitalized", w, got)
		}
	}
}

func TestBuildAccommodationDetail(t *testing.T) {
	got := newTestBuilder().Build("/accommodations/forest-canopy-suite")
	assert.Equal(t, []Crumb{
		{Name: "Home", Href: "/"},
		{Name: "Accommodations", Href: "/accommodations"},
		{Name: "Forest Canopy Suite", Href: "/accommodations/forest-canopy-suite"},
	}, got)
}

func TestBuildUsesCatalogNames(t *testing.T) {
	b := newTestBuilder()

	got := b.Build("/accommodations/mud-hut")
	assert.Equal(t, "The Mud Hut (Cob)", got[2].Name)

	got = b.Build("/blog/monsoon-diary")
	assert.Equal(t, Crumb{Name: "Blog", Href: "/blog"}, got[1])
	assert.Equal(t, "A Monsoon Diary: Week One", got[2].Name)

	got = b.Build("/things-to-do/night-walk")
	assert.Equal(t, Crumb{Name: "Things to Do", Href: "/things-to-do"}, got[1])
	assert.Equal(t, "Guided Night Walk", got[2].Name)
}

func TestBuildUnknownSlugFallsBackToFormat(t *testing.T) {
	got := newTestBuilder().Build("/blog/not-a-real-post")
	require.Len(t, got, 3)
	assert.Equal(t, "Not A Real Post", got[2].Name)
}

func TestBuildItineraries(t *testing.T) {
	b := newTestBuilder()

	got := b.Build("/itineraries/blr")
	require.Len(t, got, 3)
	assert.Equal(t, Crumb{Name: "From Bengaluru", Href: "/itineraries/blr"}, got[2])

	got = b.Build("/itineraries/xyz")
	require.Len(t, got, 3)
	assert.Equal(t, Crumb{Name: "From XYZ", Href: "/itineraries/xyz"}, got[2])

	got = b.Build("/itineraries/MAA")
	assert.Equal(t, "From Chennai", got[2].Name)
}

func TestBuildGenericWalk(t *testing.T) {
	got := newTestBuilder().Build("/things-to-do/night-walk/photos")
	assert.Equal(t, []Crumb{
		{Name: "Home", Href: "/"},
		{Name: "Things to Do", Href: "/things-to-do"},
		{Name: "Night Walk", Href: "/things-to-do/night-walk"},
		{Name: "Photos", Href: "/things-to-do/night-walk/photos"},
	}, got)
}

func TestBuildRoot(t *testing.T) {
	b := newTestBuilder()
	for _, p := range []string{"", "/", "//"} {
		assert.Equal(t, []Crumb{Home}, b.Build(p), "path %q", p)
	}
}

func TestBuildLengthAndPrefixes(t *testing.T) {
	b := newTestBuilder()
	paths := []string{
		"/about",
		"/faq",
		"/workshops/natural-dyeing",
		"/sustainability/water/greywater-reedbeds",
		"/accommodations/forest-canopy-suite/",
		"//blog//monsoon-diary",
		"/a/b/c/d/e",
	}
	for _, p := range paths {
		got := b.Build(p)
		require.Len(t, got, len(segments(p))+1, "path %q", p)
		assert.Equal(t, Home, got[0])
		for i := 1; i < len(got); i++ {
			prev := strings.TrimRight(got[i-1].Href, "/")
			assert.True(t, strings.HasPrefix(got[i].Href, prev+"/"), "%q does not extend %q", got[i].Href, got[i-1].Href)
			assert.Greater(t, len(got[i].Href), len(got[i-1].Href))
		}
	}
}

func TestBuildDecodesLabels(t *testing.T) {
	got := newTestBuilder().Build("/sustainability/solar%20power")
	assert.Equal(t, Crumb{Name: "Solar power", Href: "/sustainability/solar%20power"}, got[2])
}

func TestBuildExtraRule(t *testing.T) {
	b := NewBuilder(stubLabeler{}, Rule{Section: "workshops", Label: func(slug string) string {
		return "Workshop: " + FormatSlug(slug)
	}})
	got := b.Build("/workshops/natural-dyeing")
	assert.Equal(t, "Workshop: Natural Dyeing", got[2].Name)

	// the built-in rules still win for their own sections
	got = b.Build("/itineraries/del")
	assert.Equal(t, "From DEL", got[2].Name)
}

func TestStructuredData(t *testing.T) {
	trail := newTestBuilder().Build("/accommodations/forest-canopy-suite")
	list := StructuredData("https://wildwood.example/", trail)

	assert.Equal(t, "https://schema.org", list.Context)
	assert.Equal(t, "BreadcrumbList", list.Type)
	require.Len(t, list.Items, 3)
	for i, it := range list.Items {
		assert.Equal(t, i+1, it.Position)
		assert.Equal(t, "ListItem", it.Type)
		assert.Equal(t, trail[i].Name, it.Name)
	}
	assert.Equal(t, "https://wildwood.example/", list.Items[0].Item)
	assert.Equal(t, "https://wildwood.example/accommodations/forest-canopy-suite", list.Items[2].Item)
}

func TestStructuredDataJSON(t *testing.T) {
	list := StructuredData("https://wildwood.example", []Crumb{Home, {Name: "About", Href: "/about"}})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(list.JSON()), &decoded))
	assert.Equal(t, "BreadcrumbList", decoded["@type"])
	items, ok := decoded["itemListElement"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	second := items[1].(map[string]any)
	assert.EqualValues(t, 2, second["position"])
	assert.Equal(t, "https://wildwood.example/about", second["item"])
}
