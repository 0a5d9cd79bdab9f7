package model

import (
	"fmt"
	"strings"
)

// Post is a single archive entry shown in a hotspot's archive
type Post struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Excerpt     string `yaml:"excerpt" json:"excerpt"`
	Content     string `yaml:"content" json:"content"` // Markdown body
	Category    string `yaml:"category" json:"category"`
	Subcategory string `yaml:"subcategory" json:"subcategory"`
	Image       string `yaml:"image,omitempty" json:"image,omitempty"`
}

// HotspotKind separates the central repository of a room from its satellites
type HotspotKind string

const (
	HotspotMain HotspotKind = "main"
	HotspotSub  HotspotKind = "sub"
)

// IsValid returns true if the kind is a recognized value
func (k HotspotKind) IsValid() bool {
	switch k {
	case HotspotMain, HotspotSub:
		return true
	}
	return false
}

// Hotspot is a fixed-position marker over a room backdrop.
// Top and Left are percentages (0..100) of the backdrop layer.
type Hotspot struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        HotspotKind `json:"kind"`
	Description string      `json:"description"` // Tooltip text
	Top         float64     `json:"top"`
	Left        float64     `json:"left"`
	Posts       []Post      `json:"posts"`
}

// Category returns the main category of the hotspot's archive, taken from
// its first post.
func (h Hotspot) Category() string {
	if len(h.Posts) == 0 || h.Posts[0].Category == "" {
		return "Archives"
	}
	return h.Posts[0].Category
}

// Room is one themed chamber behind a door of the hall
type Room struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Hotspots    []Hotspot `json:"hotspots"`
}

// Hotspot returns the hotspot with the given ID, or nil
func (r *Room) Hotspot(id string) *Hotspot {
	for i := range r.Hotspots {
		if r.Hotspots[i].ID == id {
			return &r.Hotspots[i]
		}
	}
	return nil
}

// PostCount returns the total number of archive entries in the room
func (r Room) PostCount() int {
	n := 0
	for _, h := range r.Hotspots {
		n += len(h.Posts)
	}
	return n
}

// Door is an entrance painted over the hall backdrop.
// Left and Width are percentages of the hall width.
type Door struct {
	RoomID string  `json:"room_id"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	ScaleX float64 `json:"scale_x"`
}

// Catalog is the complete, read-only museum content
type Catalog struct {
	HomeImage string `json:"home_image"`
	Rooms     []Room `json:"rooms"`
	Doors     []Door `json:"doors"`
}

// Room returns the room with the given ID, or nil
func (c *Catalog) Room(id string) *Room {
	if c == nil {
		return nil
	}
	for i := range c.Rooms {
		if c.Rooms[i].ID == id {
			return &c.Rooms[i]
		}
	}
	return nil
}

// PostCount returns the number of entries across all rooms
func (c *Catalog) PostCount() int {
	n := 0
	for _, r := range c.Rooms {
		n += r.PostCount()
	}
	return n
}

// Validate checks structural invariants: unique IDs, percentages in range,
// doors pointing at existing rooms.
func (c *Catalog) Validate() error {
	if len(c.Rooms) == 0 {
		return fmt.Errorf("catalog has no rooms")
	}
	roomIDs := make(map[string]bool)
	hotspotIDs := make(map[string]bool)
	postIDs := make(map[string]bool)
	for _, r := range c.Rooms {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("room %q has empty id", r.Title)
		}
		if roomIDs[r.ID] {
			return fmt.Errorf("duplicate room id: %s", r.ID)
		}
		roomIDs[r.ID] = true
		for _, h := range r.Hotspots {
			if h.ID == "" {
				return fmt.Errorf("room %s: hotspot %q has empty id", r.ID, h.Name)
			}
			if hotspotIDs[h.ID] {
				return fmt.Errorf("duplicate hotspot id: %s", h.ID)
			}
			hotspotIDs[h.ID] = true
			if !h.Kind.IsValid() {
				return fmt.Errorf("hotspot %s: invalid kind: %s", h.ID, h.Kind)
			}
			if h.Top < 0 || h.Top > 100 || h.Left < 0 || h.Left > 100 {
				return fmt.Errorf("hotspot %s: position (%g%%, %g%%) outside backdrop", h.ID, h.Left, h.Top)
			}
			for _, p := range h.Posts {
				if p.ID == "" {
					return fmt.Errorf("hotspot %s: post %q has empty id", h.ID, p.Title)
				}
				if postIDs[p.ID] {
					return fmt.Errorf("duplicate post id: %s", p.ID)
				}
				postIDs[p.ID] = true
			}
		}
	}
	for _, d := range c.Doors {
		if !roomIDs[d.RoomID] {
			return fmt.Errorf("door points at unknown room: %s", d.RoomID)
		}
		if d.Width <= 0 || d.Left < 0 || d.Left+d.Width > 100 {
			return fmt.Errorf("door %s: span %g%%+%g%% outside hall", d.RoomID, d.Left, d.Width)
		}
	}
	return nil
}

// ViewState is the top-level screen being shown
type ViewState string

const (
	ViewHome ViewState = "HOME"
	ViewRoom ViewState = "ROOM"
)
