package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

func testCatalog() *model.Catalog {
	return &model.Catalog{
		Rooms: []model.Room{
			{
				ID: "epistemology", Title: "Epistemology", Description: "Ways of knowing",
				Hotspots: []model.Hotspot{
					{ID: "telescope", Name: "Brass Telescope", Kind: model.HotspotMain, Top: 40, Left: 30,
						Posts: []model.Post{{ID: "p1", Title: "Seeing Far", Category: "Epistemology", Subcategory: "Forms of Truth", Content: "Body <b>text</b>"}}},
					{ID: "scroll", Name: "Scroll & Quill", Kind: model.HotspotSub, Top: 70, Left: 60},
				},
			},
			{ID: "power", Title: "Power", Hotspots: []model.Hotspot{{ID: "scales", Name: "Scales", Kind: model.HotspotMain, Top: 50, Left: 50}}},
		},
		Doors: []model.Door{
			{RoomID: "epistemology", Left: 20, Width: 14, ScaleX: 1},
			{RoomID: "power", Left: 60, Width: 14, ScaleX: 1},
		},
	}
}

func TestFloorPlanSVG(t *testing.T) {
	var buf bytes.Buffer
	FloorPlanSVG(&buf, testCatalog(), "")
	out := buf.String()

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Error("Expected an XML document")
	}
	for _, want := range []string{
		`id="room-epistemology"`, `id="room-power"`,
		`id="hotspot-telescope"`, "Brass Telescope", "Scroll &amp; Quill",
		"MAIN HALL", "Museum Floor Plan",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(out, `id="room-`); got != 2 {
		t.Errorf("Expected one group per room, got %d", got)
	}
}

func TestSaveFloorPlan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.svg", "plan.png"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			if err := SaveFloorPlan(FloorPlanOptions{Path: out, Catalog: testCatalog()}); err != nil {
				t.Fatalf("SaveFloorPlan: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatal("output file is empty")
			}
		})
	}

	err := SaveFloorPlan(FloorPlanOptions{Path: filepath.Join(dir, "plan.txt"), Catalog: testCatalog()})
	if err == nil {
		t.Error("Expected an error for an unsupported format")
	}
	if err := SaveFloorPlan(FloorPlanOptions{Path: filepath.Join(dir, "x.svg")}); err == nil {
		t.Error("Expected an error without a catalog")
	}
}

func TestWriteSite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	err := WriteSite(SiteOptions{
		Dir:     dir,
		Catalog: testCatalog(),
		IsRead:  func(id string) bool { return id == "p1" },
	})
	if err != nil {
		t.Fatalf("WriteSite: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	html := string(index)
	for _, want := range []string{"Epistemology", "Brass Telescope", "Seeing Far", `src="map.svg"`, `class="entry read"`, "End of Archives"} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
	if strings.Contains(html, "<b>text</b>") {
		t.Error("Entry content must be escaped")
	}
	if _, err := os.Stat(filepath.Join(dir, "map.svg")); err != nil {
		t.Errorf("map.svg not written: %v", err)
	}
	if err := NewPreviewServer(dir, 0).Validate(); err != nil {
		t.Errorf("Exported site should be previewable: %v", err)
	}
}

func TestWriteSiteRendersEntries(t *testing.T) {
	src := t.TempDir()
	local := filepath.Join(src, "plate.PNG")
	if err := os.WriteFile(local, []byte("png bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	c := &model.Catalog{Rooms: []model.Room{{
		ID: "r", Title: "Room",
		Hotspots: []model.Hotspot{{ID: "h", Name: "Desk", Posts: []model.Post{
			{ID: "md", Title: "Marked", Content: "A **bold** claim\n\n- one\n- two", Image: "https://example.com/md.jpg"},
			{ID: "local", Title: "Local", Content: "plain", Image: local},
			{ID: "gone", Title: "Gone", Content: "plain", Image: filepath.Join(src, "missing.png")},
			{ID: "bare", Title: "Bare", Content: "plain"},
		}}},
	}}}

	dir := filepath.Join(t.TempDir(), "site")
	if err := WriteSite(SiteOptions{Dir: dir, Catalog: c}); err != nil {
		t.Fatalf("WriteSite: %v", err)
	}
	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	html := string(index)

	for _, want := range []string{
		"<strong>bold</strong>", "<li>one</li>",
		`src="https://example.com/md.jpg"`,
		`src="images/local.png"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
	if strings.Contains(html, "**bold**") {
		t.Error("Markdown left unrendered")
	}
	if strings.Contains(html, "missing.png") {
		t.Error("A local image that cannot be copied should be left out")
	}
	if got := strings.Count(html, `class="plate"`); got != 2 {
		t.Errorf("Expected 2 illustrations, got %d", got)
	}

	copied, err := os.ReadFile(filepath.Join(dir, "images", "local.png"))
	if err != nil || string(copied) != "png bytes" {
		t.Errorf("local illustration not copied: %v", err)
	}
}
