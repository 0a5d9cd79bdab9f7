package panner

import "time"

// HoldInterval is the repeat period of a held directional control (one frame)
const HoldInterval = time.Second / 60

// Token identifies one hold. Ticks scheduled for an older token are stale.
type Token uint64

// Hold tracks a directional control held down. Each Start issues a fresh
// token and each Stop invalidates it, so repeat ticks that were already in
// flight when the control was released are rejected by Accept.
type Hold struct {
	seq    Token
	dir    Direction
	active bool
}

// Start begins holding dir and returns the token its ticks must carry
func (h *Hold) Start(dir Direction) Token {
	h.seq++
	h.dir = dir
	h.active = true
	return h.seq
}

// Stop releases the control. Safe to call when nothing is held.
func (h *Hold) Stop() {
	if !h.active {
		return
	}
	h.seq++
	h.active = false
}

// Active reports whether a control is held
func (h *Hold) Active() bool {
	return h.active
}

// Direction returns the held direction
func (h *Hold) Direction() (Direction, bool) {
	return h.dir, h.active
}

// Accept reports whether a tick carrying tok belongs to the live hold
func (h *Hold) Accept(tok Token) (Direction, bool) {
	if !h.active || tok != h.seq {
		return 0, false
	}
	return h.dir, true
}
