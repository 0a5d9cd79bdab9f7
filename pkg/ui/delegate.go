package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PostDelegate renders one archive card per entry: title with read mark,
// category line, and a one-line excerpt.
type PostDelegate struct {
	Theme  Theme
	IsRead func(postID string) bool
}

func (d PostDelegate) Height() int {
	return 3
}

func (d PostDelegate) Spacing() int {
	return 1
}

func (d PostDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d PostDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(PostItem)
	if !ok {
		return
	}
	t := d.Theme
	selected := index == m.Index()
	width := m.Width() - 2
	if width < 10 {
		width = 10
	}

	prefix := "  "
	titleStyle := t.Renderer.NewStyle().Foreground(t.Ink).Bold(true)
	if selected {
		prefix = "▸ "
		titleStyle = titleStyle.Foreground(t.Primary)
	}

	badge := ""
	if d.IsRead != nil && d.IsRead(i.Post.ID) {
		badge = " " + RenderReadBadge(true, t)
	}
	titleWidth := width - runewidth.StringWidth(prefix) - lipgloss.Width(badge)
	title := titleStyle.Render(prefix + runewidth.Truncate(i.Post.Title, titleWidth, "…"))

	meta := t.Renderer.NewStyle().Foreground(t.Subtext).Render(
		"  " + strings.ToUpper(i.Post.Category) + " • ")
	sub := t.Renderer.NewStyle().Foreground(t.Primary).Render(strings.ToUpper(i.Post.Subcategory))

	excerpt := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).Render(
		"  " + runewidth.Truncate(i.Post.Excerpt, width-2, "…"))

	fmt.Fprintf(w, "%s%s\n%s%s\n%s", title, badge, meta, sub, excerpt)
}
