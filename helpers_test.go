package lodge

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/wildwoodlodge/lodge/catalog"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Forest Canopy Suite", "forest-canopy-suite"},
		{"  Monsoon: Week One!  ", "monsoon-week-one"},
		{"IMG_0042", "img-0042"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://wildwood.example", nil, "https://wildwood.example/"},
		{"https://wildwood.example/", []string{"blog", "monsoon-diary"}, "https://wildwood.example/blog/monsoon-diary"},
		{"https://wildwood.example", []string{"/accommodations/"}, "https://wildwood.example/accommodations"},
		{"https://example.org/lodge", []string{"contact"}, "https://example.org/lodge/contact"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"birds", " ", "", " earth "})
	if len(got) != 2 || got[0] != "birds" || got[1] != "earth" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := catalog.Post{Slug: "a", Tags: []string{"Birds", "monsoon"}}
	posts := []catalog.Post{
		current,
		{Slug: "b", Tags: []string{"birds"}},
		{Slug: "c", Tags: []string{"building"}},
		{Slug: "d", Tags: []string{" MONSOON "}},
	}
	related := FilterRelatedPosts(current, posts)
	if len(related) != 2 || related[0].Slug != "b" || related[1].Slug != "d" {
		t.Errorf("unexpected related posts: %+v", related)
	}
}

func TestBuildNav(t *testing.T) {
	nav := BuildNav("/blog/monsoon-diary")
	var active []string
	for _, n := range nav {
		if n.Active {
			active = append(active, n.Label)
		}
	}
	if len(active) != 1 || active[0] != "Journal" {
		t.Errorf("expected only Journal active, got %v", active)
	}

	for _, n := range BuildNav("/blogroll") {
		if n.Active {
			t.Errorf("%q should not be active for /blogroll", n.Label)
		}
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	site := SiteInfo{Name: "Wildwood Eco Lodge", URL: "https://wildwood.example"}
	post := catalog.Post{
		Slug:    "monsoon-diary",
		Title:   "A Monsoon Diary",
		Author:  "Anjali Rao",
		Date:    "2025-06-12",
		Updated: "2025-06-12",
		Image:   "/public/img/monsoon.jpg",
		Tags:    []string{"monsoon", "birds"},
	}
	ld := BlogPostingJsonLD(post, site)
	for _, want := range []string{
		`"@type":"BlogPosting"`,
		`"url":"https://wildwood.example/blog/monsoon-diary"`,
		`"image":"https://wildwood.example/public/img/monsoon.jpg"`,
		`"keywords":"monsoon, birds"`,
		`"name":"Anjali Rao"`,
	} {
		if !strings.Contains(ld, want) {
			t.Errorf("expected %s in %s", want, ld)
		}
	}
}

func TestLodgingJsonLD(t *testing.T) {
	ld := LodgingJsonLD(SiteInfo{Name: "Wildwood", URL: "https://wildwood.example", Phone: "+91 80 1234 5678"})
	if !strings.Contains(ld, `"@type":"LodgingBusiness"`) || !strings.Contains(ld, `"telephone":"+91 80 1234 5678"`) {
		t.Errorf("unexpected JSON-LD: %s", ld)
	}
	if strings.Contains(ld, "address") {
		t.Error("empty address should be omitted")
	}
}

func pngOf(w, h int) *bytes.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return &buf
}

func TestProcessImageDownscales(t *testing.T) {
	img, data, err := processImage(pngOf(2400, 1600), "Canopy Deck.PNG")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 1200 || img.Height != 800 {
		t.Errorf("expected 1200x800, got %dx%d", img.Width, img.Height)
	}
	if img.Filename != "canopy-deck.jpg" {
		t.Errorf("unexpected filename %q", img.Filename)
	}
	if img.Size != len(data) {
		t.Errorf("size %d does not match data %d", img.Size, len(data))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != "jpeg" || cfg.Width != 1200 {
		t.Errorf("expected 1200px jpeg, got %s %d (%v)", format, cfg.Width, err)
	}
}

func TestProcessImageKeepsSmall(t *testing.T) {
	img, _, err := processImage(pngOf(640, 480), "!!!.png")
	if err != nil {
		t.Fatalf("processImage failed: %v", err)
	}
	if img.Width != 640 || img.Height != 480 {
		t.Errorf("expected original size, got %dx%d", img.Width, img.Height)
	}
	if img.Filename != "image.jpg" {
		t.Errorf("expected fallback filename, got %q", img.Filename)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(strings.NewReader("not an image"), "x.png"); err == nil {
		t.Error("expected decode error")
	}
}
