package ui

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/museum/pkg/backdrop"
	"github.com/Dicklesworthstone/museum/pkg/nav"
)

// cellRect is a half-open rectangle of cells
type cellRect struct {
	x0, y0, x1, y1 int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

func (r cellRect) empty() bool {
	return r.x1 <= r.x0 || r.y1 <= r.y0
}

// doorRect maps door i onto a cols x rows hall. The door is centred on its
// catalog span and narrowed by its horizontal scale.
func (m Model) doorRect(i, cols, rows int) cellRect {
	d := m.catalog.Doors[i]
	scale := d.ScaleX
	if scale <= 0 {
		scale = 1
	}
	center := (d.Left + d.Width/2) / 100 * float64(cols)
	half := d.Width / 2 / 100 * float64(cols) * scale
	return cellRect{
		x0: int(math.Round(center - half)),
		x1: int(math.Round(center + half)),
		y0: int(math.Round(backdrop.DoorTop / 100 * float64(rows))),
		y1: int(math.Round((100 - backdrop.DoorBottom) / 100 * float64(rows))),
	}
}

// doorAt returns the door under x, y, or -1
func (m Model) doorAt(x, y int) int {
	cols, rows := m.viewCols(), m.viewRows()
	for i := range m.catalog.Doors {
		if m.doorRect(i, cols, rows).contains(x, y) {
			return i
		}
	}
	return -1
}

// openDoor starts the opening transition. The room is entered once the
// door has finished opening; clicks on an opening door are ignored.
func (m *Model) openDoor(i int) tea.Cmd {
	if m.opening != "" || i < 0 || i >= len(m.catalog.Doors) {
		return nil
	}
	id := m.catalog.Doors[i].RoomID
	if m.catalog.Room(id) == nil {
		m.status = "That door is locked"
		return nil
	}
	m.doorFocus = i
	m.opening = id
	return tea.Tick(nav.DoorOpenDelay, func(time.Time) tea.Msg {
		return doorOpenedMsg{roomID: id}
	})
}

func (m *Model) moveDoor(delta int) {
	n := len(m.catalog.Doors)
	if n == 0 {
		return
	}
	if m.doorFocus < 0 {
		if delta > 0 {
			m.doorFocus = 0
		} else {
			m.doorFocus = n - 1
		}
		return
	}
	m.doorFocus = ((m.doorFocus+delta)%n + n) % n
}

func (m *Model) hallKey(msg tea.KeyMsg) tea.Cmd {
	if m.opening != "" || !m.hallLoaded {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.DoorPrev):
		m.moveDoor(-1)
	case key.Matches(msg, m.keys.DoorNext):
		m.moveDoor(1)
	case key.Matches(msg, m.keys.Enter):
		if m.doorFocus >= 0 {
			return m.openDoor(m.doorFocus)
		}
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.catalog.Doors) {
			return m.openDoor(n - 1)
		}
	}
	return nil
}

func (m *Model) hallMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.hallLoaded {
		return nil
	}
	ctrl := hitControl(controlLayout(m.viewCols(), m.viewRows(), false), msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		m.hoverCtrl = ctrl
		if m.opening == "" {
			m.doorFocus = m.doorAt(msg.X, msg.Y)
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if ctrl == ctrlHelp {
			m.help.Show()
			return nil
		}
		if i := m.doorAt(msg.X, msg.Y); i >= 0 {
			return m.openDoor(i)
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) hallView() string {
	if !m.hallLoaded || m.hallImg == nil {
		return m.loadingView("Opening the Main Hall")
	}
	cols, rows := m.viewCols(), m.viewRows()
	g := backdrop.FromImage(m.hallPainter.Layer(m.hallImg, cols, rows*2), cols, rows)

	title := " THE MUSEUM OF SACRED SCIENCE "
	g.Label(max(0, (cols-runewidth.StringWidth(title))/2), 1, title, backdrop.Gold, backdrop.Midnight, true)

	for i, d := range m.catalog.Doors {
		r := m.doorRect(i, cols, rows)
		if r.empty() {
			continue
		}
		focused := i == m.doorFocus
		opening := d.RoomID == m.opening

		switch {
		case opening:
			g.Tint(r.x0, r.y0, r.x1, r.y1, backdrop.Gold, 0.45)
		case focused:
			m.peek(g, r, d.RoomID)
			g.Tint(r.x0, r.y0, r.x1, r.y1, backdrop.Gold, 0.2)
		}

		chip := fmt.Sprintf(" %d ", i+1)
		fg, bg := backdrop.Gold, backdrop.Midnight
		if focused || opening {
			fg, bg = backdrop.Midnight, backdrop.Gold
		}
		cx := (r.x0 + r.x1) / 2
		g.Label(cx-runewidth.StringWidth(chip)/2, max(0, r.y0-1), chip, fg, bg, true)
		if opening {
			note := "opening…"
			g.Label(cx-runewidth.StringWidth(note)/2, r.y1, note, backdrop.Paper, backdrop.Midnight, false)
		}
	}

	m.drawCaption(g)
	m.drawControls(g, controlLayout(cols, rows, false))
	return g.Render(m.theme.Renderer)
}

// peek shows the focused room's backdrop through the door frame. Only
// images already in the cache are used so View never blocks.
func (m Model) peek(g *backdrop.Grid, r cellRect, roomID string) {
	room := m.catalog.Room(roomID)
	if room == nil {
		return
	}
	img, ok := m.cache.Peek(room.Image)
	if !ok {
		return
	}
	w, h := r.x1-r.x0, (r.y1-r.y0)*2
	if w < 1 || h < 1 {
		return
	}
	g.Blit(backdrop.Cover(img, w, h), r.x0, r.y0)
}

// drawCaption names the focused door's room along the bottom of the hall
func (m Model) drawCaption(g *backdrop.Grid) {
	rows := g.H
	var title, desc string
	switch {
	case m.opening != "":
		if room := m.catalog.Room(m.opening); room != nil {
			title, desc = room.Title, "The doors swing open…"
		}
	case m.doorFocus >= 0 && m.doorFocus < len(m.catalog.Doors):
		if room := m.catalog.Room(m.catalog.Doors[m.doorFocus].RoomID); room != nil {
			title, desc = room.Title, room.Description
		}
	default:
		title = "Choose a chamber"
		desc = fmt.Sprintf("←/→ or hover to look • enter, click or 1-%d to enter", len(m.catalog.Doors))
	}
	if title == "" {
		return
	}
	width := max(0, g.W-SpaceLG)
	title = runewidth.Truncate(title, width, "…")
	desc = runewidth.Truncate(desc, width, "…")
	g.Label(max(0, (g.W-runewidth.StringWidth(title)-2)/2), rows-3, " "+title+" ", backdrop.Gold, backdrop.Midnight, true)
	if desc != "" {
		g.Label(max(0, (g.W-runewidth.StringWidth(desc)-2)/2), rows-2, " "+desc+" ", backdrop.Paper, backdrop.Midnight, false)
	}
}
