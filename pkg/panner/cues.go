package panner

import "math"

// CueThreshold is the fraction of the limit at which edge cues start to show
const CueThreshold = 0.6

// EdgeCues holds the opacity of each boundary cue, in [0,1]
type EdgeCues struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Any reports whether at least one cue is visible
func (c EdgeCues) Any() bool {
	return c.Top > 0 || c.Bottom > 0 || c.Left > 0 || c.Right > 0
}

// BoundaryOpacity ramps linearly from 0 at CueThreshold*limit to 1 at limit
func BoundaryOpacity(current, limit float64) float64 {
	threshold := limit * CueThreshold
	abs := math.Abs(current)
	if abs < threshold {
		return 0
	}
	return math.Min((abs-threshold)/(limit-threshold), 1)
}

// Cues lights only the edge the backdrop is displaced toward: a positive X
// brings the left edge of the panorama near, a positive Y the top.
func Cues(o Offset, limit float64) EdgeCues {
	var c EdgeCues
	if o.Y >= 0 {
		c.Top = BoundaryOpacity(o.Y, limit)
	}
	if o.Y <= 0 {
		c.Bottom = BoundaryOpacity(o.Y, limit)
	}
	if o.X >= 0 {
		c.Left = BoundaryOpacity(o.X, limit)
	}
	if o.X <= 0 {
		c.Right = BoundaryOpacity(o.X, limit)
	}
	return c
}

// Rect is a rectangle in viewport units
type Rect struct {
	X, Y float64
	W, H float64
}

// Layer places the oversized backdrop relative to a viewW x viewH viewport.
// At rest the layer is centered, overhanging each side by (overscale-1)/2 of
// the viewport; the offset then shifts it by a percentage of its own size.
func Layer(o Offset, viewW, viewH, overscale float64) Rect {
	w := viewW * overscale
	h := viewH * overscale
	return Rect{
		X: -(w-viewW)/2 + o.X/100*w,
		Y: -(h-viewH)/2 + o.Y/100*h,
		W: w,
		H: h,
	}
}

// ToViewport maps a point given in percent of the layer to viewport units
func (r Rect) ToViewport(leftPct, topPct float64) (x, y float64) {
	return r.X + leftPct/100*r.W, r.Y + topPct/100*r.H
}
