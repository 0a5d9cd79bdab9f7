package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/museum/pkg/panner"
)

type keyMap struct {
	Quit key.Binding
	Help key.Binding

	// Hall
	DoorPrev key.Binding
	DoorNext key.Binding
	Enter    key.Binding

	// Room
	PanLeft   key.Binding
	PanRight  key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	HoldLeft  key.Binding
	HoldRight key.Binding
	HoldUp    key.Binding
	HoldDown  key.Binding
	Recenter  key.Binding
	NextSpot  key.Binding
	PrevSpot  key.Binding
	Back      key.Binding

	// Archive
	Search key.Binding
	Copy   key.Binding
	Close  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "user guide")),

		DoorPrev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous door")),
		DoorNext: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next door")),
		Enter:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),

		PanLeft:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "look left")),
		PanRight:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "look right")),
		PanUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "look up")),
		PanDown:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "look down")),
		HoldLeft:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "keep turning left")),
		HoldRight: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "keep turning right")),
		HoldUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "keep looking up")),
		HoldDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "keep looking down")),
		Recenter:  key.NewBinding(key.WithKeys("0", "c"), key.WithHelp("0", "recenter")),
		NextSpot:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next artifact")),
		PrevSpot:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "previous artifact")),
		Back:      key.NewBinding(key.WithKeys("esc", "b", "backspace"), key.WithHelp("esc/b", "return to hall")),

		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search entries")),
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy entry")),
		Close:  key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc/x", "close archives")),
	}
}

// holdDirection maps a sustained-hold key to its direction
func (k keyMap) holdDirection(msg tea.KeyMsg) (panner.Direction, bool) {
	switch {
	case key.Matches(msg, k.HoldLeft):
		return panner.Left, true
	case key.Matches(msg, k.HoldRight):
		return panner.Right, true
	case key.Matches(msg, k.HoldUp):
		return panner.Up, true
	case key.Matches(msg, k.HoldDown):
		return panner.Down, true
	}
	return 0, false
}

// panDirection maps a single-step pan key to its direction
func (k keyMap) panDirection(msg tea.KeyMsg) (panner.Direction, bool) {
	switch {
	case key.Matches(msg, k.PanLeft):
		return panner.Left, true
	case key.Matches(msg, k.PanRight):
		return panner.Right, true
	case key.Matches(msg, k.PanUp):
		return panner.Up, true
	case key.Matches(msg, k.PanDown):
		return panner.Down, true
	}
	return 0, false
}
