// Package export writes the museum out of the terminal: a floor plan of the
// rooms and hotspots, a static site bundle, and a local preview server.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// Floor plan geometry, in SVG user units
const (
	planMargin  = 24
	roomWidth   = 260
	roomHeight  = 170
	roomGap     = 24
	hallHeight  = 90
	titleHeight = 40
	spotRadius  = 6
)

// FloorPlanOptions configures SaveFloorPlan
type FloorPlanOptions struct {
	Path    string
	Catalog *model.Catalog
	Format  string // "svg" or "png"; empty infers from the extension
	Title   string
}

type roomBox struct {
	room  *model.Room
	x, y  float64
	spots []spotMark
}

type spotMark struct {
	hotspot model.Hotspot
	x, y    float64
}

type doorMark struct {
	index  int
	x, y   float64 // top centre on the hall wall
	roomID string
}

// plan is the shared layout of both renderers
type plan struct {
	title  string
	width  int
	height int
	rooms  []roomBox
	doors  []doorMark
	hallY  float64
}

func layoutPlan(c *model.Catalog, title string) plan {
	if title == "" {
		title = "Museum Floor Plan"
	}
	n := max(1, len(c.Rooms))
	p := plan{
		title:  title,
		width:  planMargin*2 + n*roomWidth + (n-1)*roomGap,
		height: planMargin*2 + titleHeight + roomHeight + roomGap*2 + hallHeight,
	}
	top := float64(planMargin + titleHeight)
	for i := range c.Rooms {
		r := &c.Rooms[i]
		box := roomBox{
			room: r,
			x:    float64(planMargin + i*(roomWidth+roomGap)),
			y:    top,
		}
		for _, h := range r.Hotspots {
			box.spots = append(box.spots, spotMark{
				hotspot: h,
				x:       box.x + h.Left/100*roomWidth,
				y:       box.y + h.Top/100*roomHeight,
			})
		}
		p.rooms = append(p.rooms, box)
	}

	p.hallY = top + roomHeight + roomGap*2
	hallW := float64(p.width - planMargin*2)
	for i, d := range c.Doors {
		p.doors = append(p.doors, doorMark{
			index:  i,
			x:      planMargin + (d.Left+d.Width/2)/100*hallW,
			y:      p.hallY,
			roomID: d.RoomID,
		})
	}
	return p
}

func (p plan) roomBox(id string) (roomBox, bool) {
	for _, b := range p.rooms {
		if b.room.ID == id {
			return b, true
		}
	}
	return roomBox{}, false
}

// SaveFloorPlan renders the catalog as a floor plan
func SaveFloorPlan(opts FloorPlanOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("floor plan path is required")
	}
	if opts.Catalog == nil {
		return fmt.Errorf("floor plan needs a catalog")
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	}

	p := layoutPlan(opts.Catalog, opts.Title)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return fmt.Errorf("create floor plan: %w", err)
		}
		writeSVG(f, p)
		return f.Close()
	case "png":
		return savePNG(opts.Path, p)
	default:
		return fmt.Errorf("unsupported floor plan format %q (want svg or png)", format)
	}
}

// FloorPlanSVG writes the catalog's floor plan as SVG to w
func FloorPlanSVG(w io.Writer, c *model.Catalog, title string) {
	writeSVG(w, layoutPlan(c, title))
}

// writeSVG draws one group per room with its hotspots, and the hall
// with numbered doors leading up to each room
func writeSVG(w io.Writer, p plan) {
	canvas := svg.New(w)
	canvas.Start(p.width, p.height)
	canvas.Title(p.title)
	canvas.Rect(0, 0, p.width, p.height, "fill:#0F172A")
	canvas.Text(planMargin, planMargin+20, p.title,
		"fill:#C9A96A;font-family:Georgia,serif;font-size:20px;letter-spacing:2px")

	for _, b := range p.rooms {
		canvas.Gid("room-" + b.room.ID)
		canvas.Rect(int(b.x), int(b.y), roomWidth, roomHeight,
			"fill:#1E293B;stroke:#C9A96A;stroke-width:2")
		canvas.Text(int(b.x)+10, int(b.y)+22, b.room.Title,
			"fill:#F4EFE6;font-family:Georgia,serif;font-size:14px;font-weight:bold")
		for _, s := range b.spots {
			fill := "#C9A96A"
			if s.hotspot.Kind == model.HotspotMain {
				fill = "#F4EFE6"
			}
			canvas.Gid("hotspot-" + s.hotspot.ID)
			canvas.Circle(int(s.x), int(s.y), spotRadius, "fill:"+fill+";stroke:#0F172A")
			canvas.Text(int(s.x), int(s.y)+spotRadius+12, s.hotspot.Name,
				"fill:#CBD5E1;font-family:sans-serif;font-size:10px;text-anchor:middle")
			canvas.Gend()
		}
		canvas.Gend()
	}

	canvas.Gid("hall")
	canvas.Rect(planMargin, int(p.hallY), p.width-planMargin*2, hallHeight,
		"fill:#3A3542;stroke:#C9A96A;stroke-width:2")
	canvas.Text(p.width/2, int(p.hallY)+hallHeight-16, "MAIN HALL",
		"fill:#C9A96A;font-family:Georgia,serif;font-size:14px;text-anchor:middle;letter-spacing:3px")
	for _, d := range p.doors {
		canvas.Rect(int(d.x)-12, int(d.y), 24, 36, "fill:#5C3A1E;stroke:#C9A96A")
		canvas.Text(int(d.x), int(d.y)+24, fmt.Sprintf("%d", d.index+1),
			"fill:#F4EFE6;font-family:sans-serif;font-size:12px;text-anchor:middle")
		if b, ok := p.roomBox(d.roomID); ok {
			canvas.Line(int(d.x), int(d.y), int(b.x)+roomWidth/2, int(b.y)+roomHeight,
				"stroke:#C9A96A;stroke-dasharray:4,4;stroke-opacity:0.6")
		}
	}
	canvas.Gend()
	canvas.End()
}

func savePNG(path string, p plan) error {
	dc := gg.NewContext(p.width, p.height)
	dc.SetColor(color.RGBA{0x0F, 0x17, 0x2A, 0xFF})
	dc.Clear()

	gold := color.RGBA{0xC9, 0xA9, 0x6A, 0xFF}
	paper := color.RGBA{0xF4, 0xEF, 0xE6, 0xFF}

	dc.SetColor(gold)
	dc.DrawString(p.title, planMargin, planMargin+20)

	for _, b := range p.rooms {
		dc.SetColor(color.RGBA{0x1E, 0x29, 0x3B, 0xFF})
		dc.DrawRectangle(b.x, b.y, roomWidth, roomHeight)
		dc.FillPreserve()
		dc.SetColor(gold)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.SetColor(paper)
		dc.DrawString(b.room.Title, b.x+10, b.y+22)
		for _, s := range b.spots {
			dc.SetColor(gold)
			if s.hotspot.Kind == model.HotspotMain {
				dc.SetColor(paper)
			}
			dc.DrawCircle(s.x, s.y, spotRadius)
			dc.Fill()
			dc.SetColor(color.RGBA{0xCB, 0xD5, 0xE1, 0xFF})
			dc.DrawStringAnchored(s.hotspot.Name, s.x, s.y+spotRadius+10, 0.5, 0.5)
		}
	}

	dc.SetColor(color.RGBA{0x3A, 0x35, 0x42, 0xFF})
	dc.DrawRectangle(planMargin, p.hallY, float64(p.width-planMargin*2), hallHeight)
	dc.Fill()
	for _, d := range p.doors {
		dc.SetColor(color.RGBA{0x5C, 0x3A, 0x1E, 0xFF})
		dc.DrawRectangle(d.x-12, d.y, 24, 36)
		dc.Fill()
		dc.SetColor(paper)
		dc.DrawStringAnchored(fmt.Sprintf("%d", d.index+1), d.x, d.y+18, 0.5, 0.5)
		if b, ok := p.roomBox(d.roomID); ok {
			dc.SetColor(gold)
			dc.SetLineWidth(1)
			dc.DrawLine(d.x, d.y, b.x+roomWidth/2, b.y+roomHeight)
			dc.Stroke()
		}
	}
	dc.SetColor(gold)
	dc.DrawStringAnchored("MAIN HALL", float64(p.width)/2, p.hallY+hallHeight-16, 0.5, 0.5)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save floor plan: %w", err)
	}
	return nil
}
