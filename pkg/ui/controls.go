package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// control is an on-screen button drawn over the backdrop
type control int

const (
	ctrlNone control = iota
	ctrlUp
	ctrlDown
	ctrlLeft
	ctrlRight
	ctrlBack
	ctrlHelp
)

func (c control) direction() (panner.Direction, bool) {
	switch c {
	case ctrlUp:
		return panner.Up, true
	case ctrlDown:
		return panner.Down, true
	case ctrlLeft:
		return panner.Left, true
	case ctrlRight:
		return panner.Right, true
	}
	return 0, false
}

type hitbox struct {
	ctrl  control
	x, y  int
	label string
}

func (h hitbox) contains(x, y int) bool {
	return y == h.y && x >= h.x && x < h.x+runewidth.StringWidth(h.label)
}

// controlLayout places the navigation pad in the bottom-right corner of a
// cols x rows viewport. Too small a viewport gets no controls.
func controlLayout(cols, rows int, inRoom bool) []hitbox {
	if cols < 16 || rows < 6 {
		return nil
	}
	help := hitbox{ctrlHelp, cols - 4, rows - 1, " ? "}
	if !inRoom {
		return []hitbox{help}
	}
	x0 := cols - 11
	return []hitbox{
		{ctrlUp, x0 + 3, rows - 5, " ▲ "},
		{ctrlLeft, x0, rows - 4, " ◀ "},
		{ctrlNone, x0 + 3, rows - 4, " ⟲ "},
		{ctrlRight, x0 + 6, rows - 4, " ▶ "},
		{ctrlDown, x0 + 3, rows - 3, " ▼ "},
		{ctrlBack, x0 - 2, rows - 1, " ← Hall "},
		help,
	}
}

// hitControl returns the control under x, y
func hitControl(boxes []hitbox, x, y int) control {
	for _, b := range boxes {
		if b.ctrl != ctrlNone && b.contains(x, y) {
			return b.ctrl
		}
	}
	return ctrlNone
}

// controlAt returns the hitbox of a control, for tests and drawing
func controlAt(boxes []hitbox, c control) (hitbox, bool) {
	for _, b := range boxes {
		if b.ctrl == c {
			return b, true
		}
	}
	return hitbox{}, false
}
