package ui

import (
	"image"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/museum/pkg/backdrop"
	"github.com/Dicklesworthstone/museum/pkg/model"
)

// heroRows is the tallest the entry illustration may be, in cells
const heroRows = 8

// ReaderModel shows one entry in full, its markdown rendered with glamour
// inside a scrollable viewport
type ReaderModel struct {
	post     model.Post
	image    image.Image // nil until the illustration has loaded
	viewport viewport.Model
	theme    Theme
	width    int
	height   int
}

// NewReaderModel creates a reader sized to width x height
func NewReaderModel(post model.Post, width, height int, theme Theme) ReaderModel {
	r := ReaderModel{
		post:     post,
		theme:    theme,
		viewport: viewport.New(width, height),
	}
	r.SetSize(width, height)
	return r
}

// Post returns the entry being read
func (r ReaderModel) Post() model.Post {
	return r.post
}

// SetImage shows the entry's illustration above its text
func (r *ReaderModel) SetImage(img image.Image) {
	r.image = img
	r.viewport.SetContent(r.render())
}

// HasImage reports whether the illustration has arrived
func (r ReaderModel) HasImage() bool {
	return r.image != nil
}

// SetSize re-wraps the entry for the new dimensions
func (r *ReaderModel) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	r.width, r.height = width, height
	r.viewport.Width = width
	r.viewport.Height = height - 2
	r.viewport.SetContent(r.render())
}

func (r ReaderModel) render() string {
	t := r.theme
	var b strings.Builder

	kicker := t.Renderer.NewStyle().Foreground(t.Subtext).Bold(true).
		Render(strings.ToUpper(r.post.Category))
	sub := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).
		Render(strings.ToUpper(r.post.Subcategory))
	b.WriteString(kicker + " • " + sub + "\n\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Ink).Bold(true).
		Width(r.width).Render(r.post.Title))
	b.WriteString("\n")
	b.WriteString(RenderDivider(min(12, r.width), t))
	b.WriteString("\n")
	if hero := r.hero(); hero != "" {
		b.WriteString(hero)
		b.WriteString("\n\n")
	}
	b.WriteString(RenderMarkdown(r.post.Content, r.width))
	b.WriteString("\n")
	b.WriteString(RenderSubtleDivider(r.width, t))
	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Width(r.width).
		Align(lipgloss.Center).Render("SACRED SCIENCE ARCHIVES"))
	return b.String()
}

// hero draws the illustration in half blocks, or a shimmer while it loads.
// Entries without an image reference get neither.
func (r ReaderModel) hero() string {
	if r.post.Image == "" {
		return ""
	}
	rows := min(heroRows, max(2, r.height/4))
	if r.image == nil {
		line := r.theme.Renderer.NewStyle().Foreground(r.theme.Subtext).
			Render(strings.Repeat("░", r.width))
		return strings.TrimRight(strings.Repeat(line+"\n", rows), "\n")
	}
	g := backdrop.FromImage(backdrop.Cover(r.image, r.width, rows*2), r.width, rows)
	return g.Render(r.theme.Renderer)
}

// RenderMarkdown renders markdown for a terminal of the given width. On
// failure the raw text is returned.
func RenderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Printf("reader: glamour: %v", err)
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		log.Printf("reader: render: %v", err)
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Update scrolls the entry
func (r ReaderModel) Update(msg tea.Msg) (ReaderModel, tea.Cmd) {
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

// View renders the back link above the scrolling entry
func (r ReaderModel) View() string {
	t := r.theme
	back := t.Renderer.NewStyle().Foreground(t.Subtext).Bold(true).
		Render("← BACK TO ARCHIVES")
	pct := t.Renderer.NewStyle().Foreground(t.Subtext).
		Render(formatPercent(r.viewport.ScrollPercent()))
	return back + "  " + pct + "\n\n" + r.viewport.View()
}
