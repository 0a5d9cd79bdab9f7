package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows the user guide and key bindings
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
	keys    keyMap
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  defaultKeyMap(),
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Any key begins the journey
		m.visible = false
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.visible = false
		}
	}

	return m, nil
}

var guide = []struct{ title, body string }{
	{"Enter the Chambers", "In the Main Hall, hover over the four doors to reveal the rooms inside. Click a door, or press its number, to enter that realm of knowledge."},
	{"Explore the Room", "Once inside, hold the arrows in the bottom right corner, drag the backdrop, scroll, or use the arrow keys to look around the room."},
	{"Discover Wisdom", "Look for glowing stars and artifacts. Hover over them to see the topic, and click to open the archives and read the posts."},
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	t := m.theme
	width := min(64, max(30, m.width-8))

	var b strings.Builder

	titleStyle := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Ink).
		Width(width).
		Align(lipgloss.Center)
	b.WriteString(titleStyle.Render("User Guide"))
	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Width(width).Align(lipgloss.Center).
		Render(RenderDivider(8, t)))
	b.WriteString("\n\n")

	headStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	bodyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Width(width)
	for _, g := range guide {
		b.WriteString(headStyle.Render(g.title) + "\n")
		b.WriteString(bodyStyle.Render(g.body) + "\n\n")
	}

	sectionStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
	keyStyle := t.Renderer.NewStyle().Foreground(t.Primary).Width(10)
	descStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"HALL", []key.Binding{m.keys.DoorPrev, m.keys.DoorNext, m.keys.Enter}},
		{"ROOM", []key.Binding{m.keys.PanLeft, m.keys.PanUp, m.keys.HoldLeft, m.keys.Recenter, m.keys.NextSpot, m.keys.Back}},
		{"ARCHIVES", []key.Binding{m.keys.Search, m.keys.Copy, m.keys.Close}},
	}
	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.name) + "\n")
		for _, k := range s.bindings {
			h := k.Help()
			b.WriteString("  " + keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n")
		}
	}
	b.WriteString("\n")

	hintStyle := t.Renderer.NewStyle().Faint(true).Italic(true).Width(width).Align(lipgloss.Center)
	b.WriteString(hintStyle.Render("[ Press any key to begin your journey ]"))

	box := OverlayStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
