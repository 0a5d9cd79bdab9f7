package backdrop

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// HalfBlock is drawn with the top pixel as foreground and the bottom pixel as
// background, giving two vertical pixels per cell.
const HalfBlock = '▀'

// Cell is one terminal cell. When Rune is zero the cell shows two pixels;
// otherwise it shows Rune in FG over a Bottom-coloured background.
type Cell struct {
	Top    color.RGBA
	Bottom color.RGBA
	Rune   rune
	FG     color.RGBA
	Bold   bool
	// cont marks the trailing column of a double-width rune
	cont bool
}

// Grid is a rectangular block of cells, row-major
type Grid struct {
	W, H  int
	Cells []Cell
}

// NewGrid allocates a w x h grid filled with bg
func NewGrid(w, h int, bg color.RGBA) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{W: w, H: h, Cells: make([]Cell, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Cell{Top: bg, Bottom: bg}
	}
	return g
}

// FromImage samples img into a grid with one cell per two rows of pixels.
// img must be cols x rows*2 pixels; smaller images leave the rest black.
func FromImage(img *image.RGBA, cols, rows int) *Grid {
	g := NewGrid(cols, rows, color.RGBA{A: 0xFF})
	b := img.Bounds()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := g.At(x, y)
			px := b.Min.X + x
			if px >= b.Max.X {
				continue
			}
			if py := b.Min.Y + 2*y; py < b.Max.Y {
				c.Top = img.RGBAAt(px, py)
			}
			if py := b.Min.Y + 2*y + 1; py < b.Max.Y {
				c.Bottom = img.RGBAAt(px, py)
			}
		}
	}
	return g
}

// At returns the cell at x, y or nil when out of range
func (g *Grid) At(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return nil
	}
	return &g.Cells[y*g.W+x]
}

// Text writes s starting at x, y in fg. Characters keep the cell's bottom
// colour as background. Wide runes take two cells. Returns the columns used.
func (g *Grid) Text(x, y int, s string, fg color.RGBA, bold bool) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > g.W {
			break
		}
		if c := g.At(col, y); c != nil {
			c.Rune, c.FG, c.Bold, c.cont = r, fg, bold, false
			c.Top = c.Bottom
		}
		if c := g.At(col+w, y); c != nil && c.cont {
			c.Rune, c.cont = ' ', false
		}
		if w == 2 {
			if c := g.At(col+1, y); c != nil {
				c.Rune, c.cont = 0, true
				c.Top = c.Bottom
			}
		}
		col += w
	}
	return col - x
}

// Label writes s like Text but on a solid bg chip
func (g *Grid) Label(x, y int, s string, fg, bg color.RGBA, bold bool) int {
	w := runewidth.StringWidth(s)
	for xx := x; xx < x+w; xx++ {
		if c := g.At(xx, y); c != nil {
			c.Bottom = bg
		}
	}
	return g.Text(x, y, s, fg, bold)
}

// Crop returns the left w columns of the grid
func (g *Grid) Crop(w int) *Grid {
	w = max(0, min(w, g.W))
	out := &Grid{W: w, H: g.H, Cells: make([]Cell, w*g.H)}
	for y := 0; y < g.H; y++ {
		copy(out.Cells[y*w:(y+1)*w], g.Cells[y*g.W:y*g.W+w])
	}
	// A wide rune cut in half leaves a dangling continuation
	for y := 0; y < g.H && w > 0; y++ {
		last := &out.Cells[y*w+w-1]
		if r := last.Rune; r != 0 && runewidth.RuneWidth(r) == 2 {
			last.Rune = ' '
		}
	}
	return out
}

// Blit copies img into the grid with its top-left corner at cell x, y.
// img rows map two per cell like FromImage.
func (g *Grid) Blit(img *image.RGBA, x, y int) {
	b := img.Bounds()
	for py := 0; py < b.Dy(); py++ {
		for px := 0; px < b.Dx(); px++ {
			c := g.At(x+px, y+py/2)
			if c == nil || c.Rune != 0 {
				continue
			}
			if py%2 == 0 {
				c.Top = img.RGBAAt(b.Min.X+px, b.Min.Y+py)
			} else {
				c.Bottom = img.RGBAAt(b.Min.X+px, b.Min.Y+py)
			}
		}
	}
}

// Fill paints a solid rectangle of cells
func (g *Grid) Fill(x, y, w, h int, bg color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if c := g.At(xx, yy); c != nil {
				*c = Cell{Top: bg, Bottom: bg}
			}
		}
	}
}

// Tint blends every pixel in rows [y0, y1) and columns [x0, x1) toward c by
// alpha in [0, 1]
func (g *Grid) Tint(x0, y0, x1, y1 int, c color.RGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	for y := max(0, y0); y < min(g.H, y1); y++ {
		for x := max(0, x0); x < min(g.W, x1); x++ {
			cell := g.At(x, y)
			cell.Top = Blend(cell.Top, c, alpha)
			cell.Bottom = Blend(cell.Bottom, c, alpha)
		}
	}
}

// Blend mixes a toward b by t
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xFF}
}

// Hex formats c as #rrggbb for lipgloss
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type runKey struct {
	fg, bg color.RGBA
	bold   bool
}

func (c Cell) key() runKey {
	if c.Rune == 0 {
		return runKey{fg: c.Top, bg: c.Bottom}
	}
	return runKey{fg: c.FG, bg: c.Bottom, bold: c.Bold}
}

// Render turns the grid into styled lines. Runs of cells sharing colours are
// emitted under a single style to keep escape sequences down.
func (g *Grid) Render(r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < g.H; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var cur runKey
		open := false
		flush := func() {
			if !open || run.Len() == 0 {
				return
			}
			st := r.NewStyle().
				Foreground(lipgloss.Color(Hex(cur.fg))).
				Background(lipgloss.Color(Hex(cur.bg))).
				Bold(cur.bold)
			out.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < g.W; x++ {
			c := g.Cells[y*g.W+x]
			if c.cont {
				continue
			}
			k := c.key()
			if !open || k != cur {
				flush()
				cur, open = k, true
			}
			if c.Rune == 0 {
				run.WriteRune(HalfBlock)
			} else {
				run.WriteRune(c.Rune)
			}
		}
		flush()
	}
	return out.String()
}
