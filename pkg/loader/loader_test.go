package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/museum/pkg/loader"
	"github.com/Dicklesworthstone/museum/pkg/model"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := loader.Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if len(c.Rooms) != 4 {
		t.Fatalf("Expected 4 rooms, got %d", len(c.Rooms))
	}
	if len(c.Doors) != 4 {
		t.Fatalf("Expected 4 doors, got %d", len(c.Doors))
	}

	for _, room := range c.Rooms {
		if len(room.Hotspots) != 4 {
			t.Errorf("Room %s: expected 4 hotspots, got %d", room.ID, len(room.Hotspots))
		}
		mains := 0
		for _, h := range room.Hotspots {
			if h.Kind == model.HotspotMain {
				mains++
			}
			if len(h.Posts) == 0 {
				t.Errorf("Hotspot %s has no posts", h.ID)
			}
		}
		if mains != 1 {
			t.Errorf("Room %s: expected 1 main hotspot, got %d", room.ID, mains)
		}
		if !filepath.IsAbs(room.Image) {
			t.Errorf("Room %s: image %q not resolved", room.ID, room.Image)
		}
	}

	room := c.Room("epistemology")
	if room == nil {
		t.Fatal("epistemology room missing")
	}
	h := room.Hotspot("e-main")
	if h == nil || len(h.Posts) != 6 {
		t.Fatalf("e-main hotspot: %+v", h)
	}
	if h.Top != 65 || h.Left != 50 {
		t.Errorf("e-main position = (%g, %g), want (50, 65)", h.Left, h.Top)
	}

	// Communicative room files its posts under a shorter category.
	ca := c.Room("communicative").Hotspot("ca-main")
	if got := ca.Category(); got != "Communicative Action" {
		t.Errorf("ca-main category = %q", got)
	}

	if c.PostCount() != 62 {
		t.Errorf("Expected 62 posts, got %d", c.PostCount())
	}
}

func TestGeneratePosts(t *testing.T) {
	posts := loader.GeneratePosts("Languages of Power", "Integrative Power", 3)
	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}
	p := posts[1]
	if p.ID != "integrative-power-1" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Title != "Integrative Power: Concept 2" {
		t.Errorf("Title = %q", p.Title)
	}
	if !strings.Contains(p.Content, "**Integrative Power**") || !strings.Contains(p.Content, "*Languages of Power*") {
		t.Errorf("Content missing emphasis: %s", p.Content)
	}
	if !strings.HasSuffix(p.Image, "/seed/integrative-power-1/600/400") {
		t.Errorf("Image = %q", p.Image)
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"60%", 60, false},
		{"17.2%", 17.2, false},
		{" 5 % ", 5, false},
		{"42", 42, false},
		{"wide", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := loader.ParsePercent(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePercent(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no rooms", "home_image: x.png\n"},
		{"bad percent", `
rooms:
  - id: a
    hotspots:
      - { id: h, kind: sub, top: high, left: 10% }
`},
		{"duplicate room", `
rooms:
  - id: a
  - id: a
`},
		{"hotspot off backdrop", `
rooms:
  - id: a
    hotspots:
      - { id: h, kind: sub, top: 140%, left: 10% }
`},
		{"door to nowhere", `
rooms:
  - id: a
doors:
  - { room: b, left: 10%, width: 10% }
`},
		{"unknown kind", `
rooms:
  - id: a
    hotspots:
      - { id: h, kind: sideshow, top: 10%, left: 10% }
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.yaml), t.TempDir())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, loader.ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "museum.yaml")
	data := `
home_image: hall.png
rooms:
  - id: library
    title: The Library
    image: backdrops/library.jpg
    hotspots:
      - id: shelf
        name: Shelf
        top: 40%
        left: 60%
        posts:
          - id: first
            title: First Entry
            content: "Hello"
            image: plates/first.png
          - id: second
            title: Second Entry
            image: https://example.com/second.jpg
doors:
  - { room: library, left: 40%, width: 20% }
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := loader.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	room := c.Room("library")
	if room == nil {
		t.Fatal("library missing")
	}
	if want := filepath.Join(dir, "backdrops", "library.jpg"); room.Image != want {
		t.Errorf("Image = %q, want %q", room.Image, want)
	}
	if c.HomeImage != filepath.Join(dir, "hall.png") {
		t.Errorf("HomeImage = %q", c.HomeImage)
	}
	h := room.Hotspot("shelf")
	if h.Kind != model.HotspotSub {
		t.Errorf("default kind = %q, want sub", h.Kind)
	}
	if h.Posts[0].Category != "The Library" {
		t.Errorf("post category = %q, want room title", h.Posts[0].Category)
	}
	if want := filepath.Join(dir, "plates", "first.png"); h.Posts[0].Image != want {
		t.Errorf("post image = %q, want %q", h.Posts[0].Image, want)
	}
	if h.Posts[1].Image != "https://example.com/second.jpg" {
		t.Errorf("remote post image rewritten to %q", h.Posts[1].Image)
	}
	if c.Doors[0].ScaleX != 1 {
		t.Errorf("default door scale = %g", c.Doors[0].ScaleX)
	}
}

func TestLoadCatalogMissing(t *testing.T) {
	_, err := loader.LoadCatalogFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, loader.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
