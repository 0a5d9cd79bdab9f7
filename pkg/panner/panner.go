// Package panner turns pointer, touch, wheel and directional input into a
// clamped 2D offset for an oversized room backdrop.
//
// The offset is a pair of percentages describing how far the backdrop layer
// is displaced from center. Every input path stores its result through Clamp,
// so both components always stay within [-Limit, Limit] and the layer's edges
// never scroll into view.
package panner

import (
	"fmt"
	"math"
)

// Defaults, tuned by feel. Touch drags use a higher sensitivity than pointer
// drags.
const (
	DefaultLimit              = 15.0
	DefaultStep               = 0.5
	DefaultWheelSensitivity   = 0.05
	DefaultPointerSensitivity = 0.05
	DefaultTouchSensitivity   = 0.08
	DefaultOverscale          = 1.6
)

// Direction is a directional control on the room navigation pad
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// parseDirection maps "left", "right", "up" and "down" to a Direction
func parseDirection(s string) (Direction, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return 0, false
}

// Input identifies which kind of device is driving a drag gesture
type Input int

const (
	InputPointer Input = iota
	InputTouch
)

func (i Input) String() string {
	if i == InputTouch {
		return "touch"
	}
	return "pointer"
}

// Offset is the backdrop displacement in percent of the layer size
type Offset struct {
	X float64
	Y float64
}

// IsZero reports whether the backdrop is centered
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

func (o Offset) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", o.X, o.Y)
}

// Settings configures a Panner
type Settings struct {
	Limit              float64 // Clamp range, percent
	Step               float64 // Per-tick directional step
	WheelSensitivity   float64
	PointerSensitivity float64
	TouchSensitivity   float64
	Overscale          float64 // Backdrop size relative to the viewport
}

// DefaultSettings returns the stock panning behaviour
func DefaultSettings() Settings {
	return Settings{
		Limit:              DefaultLimit,
		Step:               DefaultStep,
		WheelSensitivity:   DefaultWheelSensitivity,
		PointerSensitivity: DefaultPointerSensitivity,
		TouchSensitivity:   DefaultTouchSensitivity,
		Overscale:          DefaultOverscale,
	}
}

// Validate rejects settings that would let the backdrop edge show.
// The layer has (Overscale-1)/2 slack per side, and a displacement of Limit
// percent of the layer must fit inside it.
func (s Settings) Validate() error {
	if s.Limit <= 0 {
		return fmt.Errorf("pan limit must be positive, got %g", s.Limit)
	}
	if s.Step <= 0 {
		return fmt.Errorf("pan step must be positive, got %g", s.Step)
	}
	if s.WheelSensitivity < 0 || s.PointerSensitivity < 0 || s.TouchSensitivity < 0 {
		return fmt.Errorf("sensitivities must not be negative")
	}
	if s.Overscale <= 1 {
		return fmt.Errorf("overscale must be greater than 1, got %g", s.Overscale)
	}
	slack := (s.Overscale - 1) / 2
	if s.Limit/100*s.Overscale > slack {
		return fmt.Errorf("pan limit %g%% exceeds the %.0f%% slack of a %gx backdrop", s.Limit, slack*100, s.Overscale)
	}
	return nil
}

// sensitivity returns the drag multiplier for an input kind
func (s Settings) sensitivity(kind Input) float64 {
	if kind == InputTouch {
		return s.TouchSensitivity
	}
	return s.PointerSensitivity
}

// dragOrigin is captured once per gesture and discarded when it ends
type dragOrigin struct {
	kind     Input
	pointerX float64
	pointerY float64
	start    Offset
}

// Panner owns the pan offset and the drag snapshot of the room being shown.
// It is not safe for concurrent use; the UI event loop is its only writer.
type Panner struct {
	settings Settings
	offset   Offset
	drag     *dragOrigin
}

// New creates a centered Panner
func New(settings Settings) *Panner {
	return &Panner{settings: settings}
}

// Settings returns the configuration the panner was created with
func (p *Panner) Settings() Settings {
	return p.settings
}

// Offset returns the current displacement
func (p *Panner) Offset() Offset {
	return p.offset
}

// Dragging reports whether a drag gesture is in progress
func (p *Panner) Dragging() bool {
	return p.drag != nil
}

// DragInput returns the device driving the current gesture
func (p *Panner) DragInput() (Input, bool) {
	if p.drag == nil {
		return 0, false
	}
	return p.drag.kind, true
}

func (p *Panner) store(o Offset) Offset {
	p.offset = Clamp(o, p.settings.Limit)
	return p.offset
}

// Pan applies one tick of a directional control.
// Left and up reveal more of the left and top of the backdrop.
func (p *Panner) Pan(dir Direction) Offset {
	next := p.offset
	switch dir {
	case Left:
		next.X += p.settings.Step
	case Right:
		next.X -= p.settings.Step
	case Up:
		next.Y += p.settings.Step
	case Down:
		next.Y -= p.settings.Step
	}
	return p.store(next)
}

// Wheel applies one wheel event
func (p *Panner) Wheel(deltaX, deltaY float64) Offset {
	return p.store(Offset{
		X: p.offset.X - deltaX*p.settings.WheelSensitivity,
		Y: p.offset.Y - deltaY*p.settings.WheelSensitivity,
	})
}

// BeginDrag snapshots the pointer position and the current offset.
// A gesture already in progress is replaced; its snapshot is never reused.
func (p *Panner) BeginDrag(kind Input, x, y float64) {
	p.drag = &dragOrigin{
		kind:     kind,
		pointerX: x,
		pointerY: y,
		start:    p.offset,
	}
}

// DragTo moves the backdrop to follow the pointer. The result is computed
// from the gesture's starting offset, not from the previous move, so the
// number of intermediate events never affects where a gesture ends.
// It returns false when no gesture is active.
func (p *Panner) DragTo(x, y float64) (Offset, bool) {
	if p.drag == nil {
		return p.offset, false
	}
	s := p.settings.sensitivity(p.drag.kind)
	return p.store(Offset{
		X: p.drag.start.X + (x-p.drag.pointerX)*s,
		Y: p.drag.start.Y + (y-p.drag.pointerY)*s,
	}), true
}

// EndDrag discards the snapshot. The offset keeps its last value.
func (p *Panner) EndDrag() {
	p.drag = nil
}

// Reset centers the backdrop and drops any gesture. Called whenever the
// displayed room changes.
func (p *Panner) Reset() {
	p.offset = Offset{}
	p.drag = nil
}

// Clamp constrains each axis independently to [-limit, limit].
// NaN components are treated as centered.
func Clamp(o Offset, limit float64) Offset {
	return Offset{X: clampAxis(o.X, limit), Y: clampAxis(o.Y, limit)}
}

func clampAxis(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}
