package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/museum/pkg/backdrop"
	"github.com/Dicklesworthstone/museum/pkg/nav"
	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// enterRoom shows a room: the offset resets and the backdrop starts loading
// in the same step, and hotspots stay hidden until the load settles.
func (m *Model) enterRoom(id string) tea.Cmd {
	room := m.catalog.Room(id)
	if room == nil {
		m.status = "No room named " + id
		return nil
	}
	m.stopHold()
	m.nav.Select(id)
	m.pan.Reset()
	m.loaded = false
	m.roomImg = nil
	m.spotFocus, m.hoverSpot = -1, -1
	m.hoverCtrl = ctrlNone
	m.archive = nil
	if rec := m.opts.Journal; rec != nil {
		rec.EnterRoom(id)
	}
	return tea.Batch(loadRoomCmd(m.cache, *room), m.spinner.Tick)
}

// leaveRoom returns to the hall. The room stays attached until the clear
// scheduled here fires.
func (m *Model) leaveRoom() tea.Cmd {
	m.stopHold()
	m.pan.EndDrag()
	m.archive = nil
	tok := m.nav.Back()
	if rec := m.opts.Journal; rec != nil {
		rec.LeaveRoom()
	}
	return tea.Tick(nav.ExitDelay, func(time.Time) tea.Msg {
		return clearRoomMsg{tok: tok}
	})
}

// startHold pans one step now and schedules the repeat
func (m *Model) startHold(dir panner.Direction, from control) tea.Cmd {
	tok := m.hold.Start(dir)
	m.holdCtrl = from
	m.pan.Pan(dir)
	return holdTick(tok)
}

func (m *Model) stopHold() {
	m.hold.Stop()
	m.holdCtrl = ctrlNone
}

func (m *Model) openHotspot(i int) tea.Cmd {
	room := m.nav.Current(m.catalog)
	if room == nil || i < 0 || i >= len(room.Hotspots) {
		return nil
	}
	m.stopHold()
	m.pan.EndDrag()
	m.spotFocus = i
	var isRead func(string) bool
	if rec := m.opts.Journal; rec != nil {
		isRead = rec.IsRead
	}
	a := NewArchiveModel(room.ID, room.Hotspots[i], m.theme, isRead)
	a.SetSize(m.panelWidth(), m.viewRows())
	m.archive = &a
	return nil
}

func (m *Model) cycleSpot(delta int) {
	room := m.nav.Current(m.catalog)
	if room == nil || !m.loaded || len(room.Hotspots) == 0 {
		return
	}
	n := len(room.Hotspots)
	if m.spotFocus < 0 {
		if delta > 0 {
			m.spotFocus = 0
		} else {
			m.spotFocus = n - 1
		}
		return
	}
	m.spotFocus = ((m.spotFocus+delta)%n + n) % n
}

func (m *Model) roomKey(msg tea.KeyMsg) tea.Cmd {
	// A sustained keyboard hold ends on the next key press
	if m.hold.Active() && m.holdCtrl == ctrlNone {
		held, _ := m.hold.Direction()
		m.stopHold()
		if dir, ok := m.keys.holdDirection(msg); ok && dir == held {
			return nil
		}
	}
	if dir, ok := m.keys.holdDirection(msg); ok {
		return m.startHold(dir, ctrlNone)
	}
	if dir, ok := m.keys.panDirection(msg); ok {
		m.pan.Pan(dir)
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Recenter):
		m.pan.Reset()
	case key.Matches(msg, m.keys.NextSpot):
		m.cycleSpot(1)
	case key.Matches(msg, m.keys.PrevSpot):
		m.cycleSpot(-1)
	case key.Matches(msg, m.keys.Enter):
		if m.loaded && m.spotFocus >= 0 {
			return m.openHotspot(m.spotFocus)
		}
	case key.Matches(msg, m.keys.Back):
		return m.leaveRoom()
	}
	return nil
}

// pixels converts a cell position to pointer pixels
func (m Model) pixels(x, y int) (float64, float64) {
	return float64(x) * m.opts.Terminal.CellWidthPx, float64(y) * m.opts.Terminal.CellHeightPx
}

// wheelDelta turns one wheel notch into a scroll delta in pixels. Shift
// turns a vertical wheel into a horizontal one.
func wheelDelta(msg tea.MouseMsg, notch float64) (dx, dy float64, ok bool) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		dy = -notch
	case tea.MouseButtonWheelDown:
		dy = notch
	case tea.MouseButtonWheelLeft:
		dx = -notch
	case tea.MouseButtonWheelRight:
		dx = notch
	default:
		return 0, 0, false
	}
	if msg.Shift && dx == 0 {
		dx, dy = dy, 0
	}
	return dx, dy, true
}

func (m *Model) roomMouse(msg tea.MouseMsg) tea.Cmd {
	cols, rows := m.viewCols(), m.viewRows()
	ctrl := hitControl(controlLayout(cols, rows, true), msg.X, msg.Y)
	px, py := m.pixels(msg.X, msg.Y)
	inside := msg.X >= 0 && msg.X < cols && msg.Y >= 0 && msg.Y < rows

	if dx, dy, ok := wheelDelta(msg, m.opts.Terminal.WheelNotchPx); ok {
		if inside {
			m.pan.Wheel(dx, dy)
		}
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if dir, ok := ctrl.direction(); ok {
			return m.startHold(dir, ctrl)
		}
		switch ctrl {
		case ctrlBack:
			return m.leaveRoom()
		case ctrlHelp:
			m.stopHold()
			m.help.Show()
			return nil
		}
		if i := m.spotAt(msg.X, msg.Y); i >= 0 {
			return m.openHotspot(i)
		}
		if inside {
			m.pan.BeginDrag(panner.InputPointer, px, py)
		}

	case tea.MouseActionMotion:
		m.hoverCtrl = ctrl
		// Sliding off a held control releases it
		if m.holdCtrl != ctrlNone && ctrl != m.holdCtrl {
			m.stopHold()
		}
		if m.pan.Dragging() {
			if inside {
				m.pan.DragTo(px, py)
			} else {
				m.pan.EndDrag()
			}
		}
		m.hoverSpot = m.spotAt(msg.X, msg.Y)

	case tea.MouseActionRelease:
		if m.holdCtrl != ctrlNone {
			m.stopHold()
		}
		m.pan.EndDrag()
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HOTSPOTS
// ══════════════════════════════════════════════════════════════════════════════

type spotPos struct {
	col, row int
}

// spotPositions places each hotspot through the same transform as the
// backdrop, so markers stay pinned to the artifacts while panning
func (m Model) spotPositions() []spotPos {
	room := m.nav.Current(m.catalog)
	if room == nil {
		return nil
	}
	cols, rows := m.viewCols(), m.viewRows()
	r := panner.Layer(m.pan.Offset(), float64(cols), float64(rows*2), m.opts.Settings.Overscale)
	out := make([]spotPos, len(room.Hotspots))
	for i, h := range room.Hotspots {
		x, y := r.ToViewport(h.Left, h.Top)
		out[i] = spotPos{col: int(math.Floor(x)), row: int(math.Floor(y / 2))}
	}
	return out
}

// spotAt returns the hotspot whose marker covers x, y, or -1. Hidden
// hotspots cannot be hit.
func (m Model) spotAt(x, y int) int {
	if !m.loaded {
		return -1
	}
	for i, p := range m.spotPositions() {
		if y == p.row && x >= p.col-1 && x <= p.col+1 {
			return i
		}
	}
	return -1
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) roomView() string {
	room := m.nav.Current(m.catalog)
	if room == nil {
		return m.loadingView("Returning to the hall")
	}
	if !m.loaded || m.roomImg == nil {
		return m.loadingView("Entering " + room.Title)
	}

	cols, rows := m.viewCols(), m.viewRows()
	off := m.pan.Offset()
	s := m.opts.Settings

	g := m.painter.Frame(m.roomImg, cols, rows, off, s.Overscale)
	backdrop.Vignette(g, 0.35)
	backdrop.EdgeGlow(g, panner.Cues(off, s.Limit), backdrop.Gold)

	// Title plate
	g.Label(SpaceSM, 1, " "+room.Title+" ", backdrop.Gold, backdrop.Midnight, true)
	if room.Description != "" {
		desc := runewidth.Truncate(room.Description, max(0, cols-SpaceLG-2), "…")
		g.Label(SpaceSM, 2, " "+desc+" ", backdrop.Paper, backdrop.Midnight, false)
	}

	m.drawSpots(g)
	m.drawControls(g, controlLayout(cols, rows, true))

	if m.archive == nil {
		return g.Render(m.theme.Renderer)
	}
	g.Tint(0, 0, g.W, g.H, backdrop.Midnight, 0.55)
	left := g.Crop(cols - m.panelWidth()).Render(m.theme.Renderer)
	if cols-m.panelWidth() <= 0 {
		return m.archive.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, m.archive.View())
}

func (m Model) drawSpots(g *backdrop.Grid) {
	room := m.nav.Current(m.catalog)
	for i, p := range m.spotPositions() {
		h := room.Hotspots[i]
		active := i == m.spotFocus || i == m.hoverSpot
		fg, bg := backdrop.Gold, backdrop.Midnight
		if active {
			fg, bg = backdrop.Midnight, backdrop.Gold
		}
		g.Label(p.col-1, p.row, " "+string(HotspotGlyph(h))+" ", fg, bg, true)
		if !active {
			continue
		}
		name := runewidth.Truncate(h.Name, 32, "…")
		desc := runewidth.Truncate(h.Description, 32, "…")
		w := max(runewidth.StringWidth(name), runewidth.StringWidth(desc)) + 2
		x := min(max(0, p.col-w/2), max(0, g.W-w))
		g.Label(x, p.row+1, " "+name+spaces(w-2-runewidth.StringWidth(name))+" ", backdrop.Paper, backdrop.Midnight, true)
		g.Label(x, p.row+2, " "+desc+spaces(w-2-runewidth.StringWidth(desc))+" ", backdrop.Gold, backdrop.Midnight, false)
	}
}

func (m Model) drawControls(g *backdrop.Grid, boxes []hitbox) {
	for _, b := range boxes {
		fg, bg := backdrop.Gold, backdrop.Midnight
		if b.ctrl == ctrlNone {
			fg = backdrop.Blend(backdrop.Gold, backdrop.Midnight, 0.6)
		} else if b.ctrl == m.holdCtrl || b.ctrl == m.hoverCtrl {
			fg, bg = backdrop.Midnight, backdrop.Gold
		}
		g.Label(b.x, b.y, b.label, fg, bg, true)
	}
}
