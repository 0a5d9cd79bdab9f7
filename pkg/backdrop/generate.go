package backdrop

import (
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"math/rand"

	"git.sr.ht/~sbinet/gg"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// Palette shared by generated scenes
var (
	Midnight = color.RGBA{0x0F, 0x17, 0x2A, 0xFF}
	Gold     = color.RGBA{0xC9, 0xA9, 0x6A, 0xFF}
	Paper    = color.RGBA{0xF4, 0xEF, 0xE6, 0xFF}
	Wood     = color.RGBA{0x2A, 0x1B, 0x0E, 0xFF}
	Stone    = color.RGBA{0x3B, 0x38, 0x44, 0xFF}
)

func seedOf(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// hueColor returns a muted colour whose hue is derived from seed
func hueColor(seed int64, lightness float64) color.RGBA {
	hue := float64(uint64(seed)%360) / 360
	r, g, b := hslToRGB(hue, 0.35, lightness)
	return color.RGBA{r, g, b, 0xFF}
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	conv := func(t float64) uint8 {
		t = t - math.Floor(t)
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return conv(h + 1.0/3), conv(h), conv(h - 1.0/3)
}

func setRGBA(dc *gg.Context, c color.RGBA, alpha float64) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(alpha*255))
}

// Room paints a stand-in panorama for a room whose image is missing.
// The wall tint is derived from the room ID, and an artifact is drawn under
// every hotspot so the markers sit on something.
func Room(room *model.Room, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	seed := seedOf(room.ID)
	rng := rand.New(rand.NewSource(seed))
	fw, fh := float64(w), float64(h)
	dc := gg.NewContext(w, h)

	wallTop := hueColor(seed, 0.18)
	wallBottom := hueColor(seed, 0.10)
	wall := gg.NewLinearGradient(0, 0, 0, fh*0.7)
	wall.AddColorStop(0, wallTop)
	wall.AddColorStop(1, wallBottom)
	dc.SetFillStyle(wall)
	dc.DrawRectangle(0, 0, fw, fh*0.7)
	dc.Fill()

	// Wainscot and floor
	setRGBA(dc, Wood, 1)
	dc.DrawRectangle(0, fh*0.58, fw, fh*0.12)
	dc.Fill()
	floor := gg.NewLinearGradient(0, fh*0.7, 0, fh)
	floor.AddColorStop(0, color.RGBA{0x3A, 0x26, 0x14, 0xFF})
	floor.AddColorStop(1, color.RGBA{0x14, 0x0C, 0x06, 0xFF})
	dc.SetFillStyle(floor)
	dc.DrawRectangle(0, fh*0.7, fw, fh*0.3)
	dc.Fill()

	// Floorboards converge on the vanishing point
	setRGBA(dc, Midnight, 0.5)
	dc.SetLineWidth(math.Max(1, fw/400))
	for i := -8; i <= 8; i++ {
		dc.DrawLine(fw/2+float64(i)*fw*0.02, fh*0.7, fw/2+float64(i)*fw*0.18, fh)
		dc.Stroke()
	}

	// Tall windows and shelves along the wall
	bays := 5 + rng.Intn(3)
	bayW := fw / float64(bays)
	for i := 0; i < bays; i++ {
		x := float64(i)*bayW + bayW*0.2
		bw := bayW * 0.6
		if rng.Intn(2) == 0 {
			glass := gg.NewLinearGradient(0, fh*0.12, 0, fh*0.5)
			glass.AddColorStop(0, color.RGBA{0x6B, 0x7F, 0xA8, 0xFF})
			glass.AddColorStop(1, color.RGBA{0x1F, 0x2A, 0x44, 0xFF})
			dc.SetFillStyle(glass)
			dc.DrawRoundedRectangle(x, fh*0.12, bw, fh*0.38, bw*0.5)
			dc.Fill()
			setRGBA(dc, Gold, 0.6)
			dc.SetLineWidth(math.Max(1, fw/600))
			dc.DrawRoundedRectangle(x, fh*0.12, bw, fh*0.38, bw*0.5)
			dc.Stroke()
		} else {
			setRGBA(dc, Wood, 1)
			dc.DrawRectangle(x, fh*0.15, bw, fh*0.43)
			dc.Fill()
			shelves := 5
			for s := 0; s < shelves; s++ {
				y := fh*0.17 + float64(s)*fh*0.08
				for bx := x + bw*0.05; bx < x+bw*0.95; bx += bw * 0.07 {
					spine := hueColor(rng.Int63(), 0.25+rng.Float64()*0.2)
					setRGBA(dc, spine, 1)
					dc.DrawRectangle(bx, y, bw*0.05, fh*0.06)
					dc.Fill()
				}
			}
		}
	}

	// Chandelier
	setRGBA(dc, Gold, 0.25)
	dc.DrawCircle(fw/2, fh*0.08, fh*0.06)
	dc.Fill()
	setRGBA(dc, Paper, 0.8)
	dc.DrawCircle(fw/2, fh*0.08, fh*0.015)
	dc.Fill()

	// Artifacts under hotspots
	for _, hs := range room.Hotspots {
		x := hs.Left / 100 * fw
		y := hs.Top / 100 * fh
		size := fh * 0.05
		if hs.Kind == model.HotspotMain {
			size = fh * 0.09
		}
		setRGBA(dc, Wood, 1)
		dc.DrawRoundedRectangle(x-size, y, size*2, size*0.6, size*0.1)
		dc.Fill()
		setRGBA(dc, Gold, 0.35)
		dc.DrawCircle(x, y, size*0.5)
		dc.Fill()
	}

	return dc.Image()
}

// Hall paints the entrance hall with an arch around every door
func Hall(doors []model.Door, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	fw, fh := float64(w), float64(h)
	dc := gg.NewContext(w, h)

	wall := gg.NewLinearGradient(0, 0, 0, fh)
	wall.AddColorStop(0, color.RGBA{0x26, 0x24, 0x30, 0xFF})
	wall.AddColorStop(0.74, Stone)
	wall.AddColorStop(0.74, color.RGBA{0x1C, 0x16, 0x12, 0xFF})
	wall.AddColorStop(1, color.RGBA{0x0A, 0x08, 0x06, 0xFF})
	dc.SetFillStyle(wall)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()

	// Stone courses
	setRGBA(dc, Midnight, 0.35)
	dc.SetLineWidth(1)
	for y := fh * 0.06; y < fh*0.74; y += fh * 0.06 {
		dc.DrawLine(0, y, fw, y)
		dc.Stroke()
	}

	top := DoorTop / 100 * fh
	bottom := (1 - DoorBottom/100) * fh
	for _, d := range doors {
		x := d.Left / 100 * fw
		dw := d.Width / 100 * fw
		cx := x + dw/2
		r := dw/2 + fw*0.01

		// Arch surround
		setRGBA(dc, color.RGBA{0x55, 0x50, 0x5E, 0xFF}, 1)
		dc.DrawRectangle(cx-r, top, 2*r, bottom-top)
		dc.Fill()
		dc.DrawArc(cx, top, r, math.Pi, 2*math.Pi)
		dc.Fill()

		// Door leaves
		panel := gg.NewLinearGradient(x, top, x+dw, bottom)
		panel.AddColorStop(0, Wood)
		panel.AddColorStop(1, color.RGBA{0x1A, 0x11, 0x09, 0xFF})
		dc.SetFillStyle(panel)
		dc.DrawRectangle(x, top, dw, bottom-top)
		dc.Fill()
		setRGBA(dc, Midnight, 0.8)
		dc.SetLineWidth(math.Max(1, fw/500))
		dc.DrawLine(cx, top, cx, bottom)
		dc.Stroke()

		// Handles
		setRGBA(dc, Gold, 1)
		hy := (top + bottom) / 2
		dc.DrawCircle(cx-dw*0.08, hy, math.Max(1, dw*0.03))
		dc.DrawCircle(cx+dw*0.08, hy, math.Max(1, dw*0.03))
		dc.Fill()
	}

	return dc.Image()
}

// Plate paints a framed stand-in for an entry illustration that cannot be
// shown, e.g. a remote reference. The tint follows seed so every entry keeps
// its own plate.
func Plate(seed string, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	sd := seedOf(seed)
	rng := rand.New(rand.NewSource(sd))
	fw, fh := float64(w), float64(h)
	dc := gg.NewContext(w, h)

	bg := gg.NewLinearGradient(0, 0, fw, fh)
	bg.AddColorStop(0, hueColor(sd, 0.30))
	bg.AddColorStop(1, hueColor(sd, 0.12))
	dc.SetFillStyle(bg)
	dc.DrawRectangle(0, 0, fw, fh)
	dc.Fill()

	// Concentric rings off centre, like an engraved seal
	cx := fw * (0.3 + rng.Float64()*0.4)
	cy := fh * (0.3 + rng.Float64()*0.4)
	dc.SetLineWidth(math.Max(1, fw/200))
	for i := 1; i <= 4; i++ {
		setRGBA(dc, Gold, 0.5/float64(i))
		dc.DrawCircle(cx, cy, float64(i)*math.Min(fw, fh)*0.1)
		dc.Stroke()
	}

	inset := math.Max(1, math.Min(fw, fh)*0.04)
	setRGBA(dc, Gold, 0.8)
	dc.SetLineWidth(math.Max(1, inset/2))
	dc.DrawRectangle(inset, inset, fw-2*inset, fh-2*inset)
	dc.Stroke()

	return dc.Image()
}

// Door frame position in the hall, in percent of the hall height
const (
	DoorTop    = 20.8
	DoorBottom = 26.0 // distance from the bottom edge
)
