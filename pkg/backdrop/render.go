package backdrop

import (
	"image"
	"image/color"
	"math"

	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// CueStrength scales edge cue opacity into a tint amount
const CueStrength = 0.4

type layerKey struct {
	src  image.Image
	w, h int
}

// Painter projects a backdrop through the panning viewport into a cell grid.
// The scaled layer is cached so panning only re-samples, never re-scales.
type Painter struct {
	key   layerKey
	layer *image.RGBA
}

// Layer returns src cover-scaled to w x h, reusing the last result when
// neither changed
func (p *Painter) Layer(src image.Image, w, h int) *image.RGBA {
	k := layerKey{src: src, w: w, h: h}
	if p.layer != nil && p.key == k {
		return p.layer
	}
	p.key = k
	p.layer = Cover(src, w, h)
	return p.layer
}

// Frame renders src for a cols x rows cell viewport at the given pan offset.
// The viewport is cols x rows*2 pixels; the layer is overscale times that and
// shifted by the offset, so at any offset within the limit it covers every
// pixel.
func (p *Painter) Frame(src image.Image, cols, rows int, off panner.Offset, overscale float64) *Grid {
	if cols <= 0 || rows <= 0 || src == nil {
		return NewGrid(cols, rows, Midnight)
	}
	vw, vh := float64(cols), float64(rows*2)
	r := panner.Layer(off, vw, vh, overscale)
	lw := int(math.Ceil(r.W))
	lh := int(math.Ceil(r.H))
	layer := p.Layer(src, lw, lh)

	ox := int(math.Floor(r.X))
	oy := int(math.Floor(r.Y))
	view := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	for y := 0; y < rows*2; y++ {
		ly := clampInt(y-oy, 0, lh-1)
		for x := 0; x < cols; x++ {
			lx := clampInt(x-ox, 0, lw-1)
			view.SetRGBA(x, y, layer.RGBAAt(lx, ly))
		}
	}
	return FromImage(view, cols, rows)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Vignette darkens the grid toward its bottom edge
func Vignette(g *Grid, strength float64) {
	if g.H == 0 {
		return
	}
	for y := 0; y < g.H; y++ {
		t := float64(y) / float64(g.H)
		g.Tint(0, y, g.W, y+1, color.RGBA{A: 0xFF}, strength*t*t)
	}
}

// EdgeGlow tints a band along each edge whose cue is visible. The tint fades
// toward the interior.
func EdgeGlow(g *Grid, cues panner.EdgeCues, tint color.RGBA) {
	if !cues.Any() || g.W == 0 || g.H == 0 {
		return
	}
	bandX := max(1, g.W/12)
	bandY := max(1, g.H/8)
	for i := 0; i < bandY; i++ {
		fade := 1 - float64(i)/float64(bandY)
		if cues.Top > 0 {
			g.Tint(0, i, g.W, i+1, tint, cues.Top*CueStrength*fade)
		}
		if cues.Bottom > 0 {
			row := g.H - 1 - i
			g.Tint(0, row, g.W, row+1, tint, cues.Bottom*CueStrength*fade)
		}
	}
	for i := 0; i < bandX; i++ {
		fade := 1 - float64(i)/float64(bandX)
		if cues.Left > 0 {
			g.Tint(i, 0, i+1, g.H, tint, cues.Left*CueStrength*fade)
		}
		if cues.Right > 0 {
			col := g.W - 1 - i
			g.Tint(col, 0, col+1, g.H, tint, cues.Right*CueStrength*fade)
		}
	}
}
