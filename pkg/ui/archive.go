package ui

import (
	"image"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// postOpenedMsg reports that an entry was opened in the reader
type postOpenedMsg struct {
	RoomID    string
	HotspotID string
	Post      model.Post
}

// archiveClosedMsg asks the parent to dismiss the archive panel
type archiveClosedMsg struct{}

// clipboardMsg reports the result of copying an entry
type clipboardMsg struct {
	title string
	err   error
}

// ArchiveModel is the slide-in panel listing a hotspot's entries, with
// fuzzy search and a reader for the selected entry
type ArchiveModel struct {
	roomID  string
	hotspot model.Hotspot

	list      list.Model
	search    textinput.Model
	searching bool
	reader    *ReaderModel

	theme  Theme
	keys   keyMap
	width  int
	height int
	isRead func(postID string) bool
}

// NewArchiveModel creates the panel for hotspot hs in room roomID
func NewArchiveModel(roomID string, hs model.Hotspot, theme Theme, isRead func(string) bool) ArchiveModel {
	ti := textinput.New()
	ti.Placeholder = "Search the archives..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	delegate := PostDelegate{Theme: theme, IsRead: isRead}
	l := list.New(postItems(hs.Posts), delegate, 40, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return ArchiveModel{
		roomID:  roomID,
		hotspot: hs,
		list:    l,
		search:  ti,
		theme:   theme,
		keys:    defaultKeyMap(),
		isRead:  isRead,
		width:   60,
		height:  20,
	}
}

func postItems(posts []model.Post) []list.Item {
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = PostItem{Post: p}
	}
	return items
}

// Hotspot returns the hotspot whose archive is shown
func (a ArchiveModel) Hotspot() model.Hotspot {
	return a.hotspot
}

// Reading reports whether an entry is open
func (a ArchiveModel) Reading() bool {
	return a.reader != nil
}

// Searching reports whether the search field has focus
func (a ArchiveModel) Searching() bool {
	return a.searching
}

// Query returns the current search text
func (a ArchiveModel) Query() string {
	return a.search.Value()
}

// VisibleCount returns how many entries match the current query
func (a ArchiveModel) VisibleCount() int {
	return len(a.list.Items())
}

// Selected returns the highlighted entry
func (a ArchiveModel) Selected() (model.Post, bool) {
	item, ok := a.list.SelectedItem().(PostItem)
	if !ok {
		return model.Post{}, false
	}
	return item.Post, true
}

// headerLines counts the rows above the first card
func (a ArchiveModel) headerLines() int {
	return 5 + len(wrapLines(a.hotspot.Description, a.contentWidth()))
}

func (a ArchiveModel) contentWidth() int {
	return max(20, a.width-SpaceLG)
}

// SetSize fits the panel into width x height
func (a *ArchiveModel) SetSize(width, height int) {
	a.width, a.height = width, height
	a.search.Width = max(10, a.contentWidth()-4)
	listHeight := height - a.headerLines() - 2
	a.list.SetSize(a.contentWidth(), max(4, listHeight))
	if a.reader != nil {
		a.reader.SetSize(a.contentWidth(), height-1)
	}
}

// filter narrows the list to entries fuzzily matching the query, best
// matches first
func (a *ArchiveModel) filter() {
	query := strings.TrimSpace(a.search.Value())
	if query == "" {
		a.list.SetItems(postItems(a.hotspot.Posts))
		a.list.ResetSelected()
		return
	}

	targets := make([]string, len(a.hotspot.Posts))
	for i, p := range a.hotspot.Posts {
		targets[i] = PostItem{Post: p}.FilterValue()
	}
	matches := fuzzy.Find(query, targets)

	posts := make([]model.Post, 0, len(matches))
	for _, match := range matches {
		posts = append(posts, a.hotspot.Posts[match.Index])
	}
	a.list.SetItems(postItems(posts))
	a.list.ResetSelected()
}

func (a *ArchiveModel) open(p model.Post) tea.Cmd {
	r := NewReaderModel(p, a.contentWidth(), a.height-1, a.theme)
	a.reader = &r
	roomID, hotspotID := a.roomID, a.hotspot.ID
	return func() tea.Msg {
		return postOpenedMsg{RoomID: roomID, HotspotID: hotspotID, Post: p}
	}
}

// SetPostImage hands a loaded illustration to the reader if it still shows
// that entry
func (a *ArchiveModel) SetPostImage(postID string, img image.Image) {
	if a.reader != nil && a.reader.Post().ID == postID {
		a.reader.SetImage(img)
	}
}

func copyPostCmd(p model.Post) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll("# " + p.Title + "\n\n" + p.Content)
		return clipboardMsg{title: p.Title, err: err}
	}
}

func closeArchive() tea.Msg {
	return archiveClosedMsg{}
}

// Update handles input while the panel is open
func (a ArchiveModel) Update(msg tea.Msg) (ArchiveModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.reader != nil {
			return a.updateReader(msg)
		}
		if a.searching {
			return a.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, a.keys.Close):
			return a, closeArchive
		case key.Matches(msg, a.keys.Search):
			a.searching = true
			cmd := a.search.Focus()
			return a, cmd
		case key.Matches(msg, a.keys.Enter):
			if p, ok := a.Selected(); ok {
				cmd := a.open(p)
				return a, cmd
			}
			return a, nil
		case key.Matches(msg, a.keys.Copy):
			if p, ok := a.Selected(); ok {
				return a, copyPostCmd(p)
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.updateMouse(msg)
	}
	return a, nil
}

func (a ArchiveModel) updateReader(msg tea.KeyMsg) (ArchiveModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "left", "h":
		a.reader = nil
		return a, nil
	case "x":
		return a, closeArchive
	case "y":
		return a, copyPostCmd(a.reader.Post())
	}
	r, cmd := a.reader.Update(msg)
	a.reader = &r
	return a, cmd
}

func (a ArchiveModel) updateSearch(msg tea.KeyMsg) (ArchiveModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.filter()
		return a, nil
	case "enter":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "up", "down":
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != before {
		a.filter()
	}
	return a, cmd
}

// updateMouse expects coordinates relative to the panel
func (a ArchiveModel) updateMouse(msg tea.MouseMsg) (ArchiveModel, tea.Cmd) {
	if a.reader != nil {
		r, cmd := a.reader.Update(msg)
		a.reader = &r
		return a, cmd
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.list.CursorUp()
		return a, nil
	case tea.MouseButtonWheelDown:
		a.list.CursorDown()
		return a, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	idx, ok := a.itemAt(msg.Y)
	if !ok {
		return a, nil
	}
	a.list.Select(idx)
	if p, ok := a.Selected(); ok {
		cmd := a.open(p)
		return a, cmd
	}
	return a, nil
}

// itemAt maps a panel row to the index of the card drawn there
func (a ArchiveModel) itemAt(y int) (int, bool) {
	top := a.headerLines()
	if y < top {
		return 0, false
	}
	var d PostDelegate
	stride := d.Height() + d.Spacing()
	slot := (y - top) / stride
	if (y-top)%stride >= d.Height() {
		return 0, false
	}
	start, end := a.list.Paginator.GetSliceBounds(len(a.list.Items()))
	idx := start + slot
	if idx >= end {
		return 0, false
	}
	return idx, true
}

// View renders the panel
func (a ArchiveModel) View() string {
	t := a.theme
	w := a.contentWidth()
	if a.reader != nil {
		return a.frame(a.reader.View())
	}

	var b strings.Builder
	category := "Archives"
	if len(a.hotspot.Posts) > 0 && a.hotspot.Posts[0].Category != "" {
		category = a.hotspot.Posts[0].Category
	}
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Render(strings.ToUpper(category)))
	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(strings.ToUpper(a.hotspot.Name)))
	b.WriteString("\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Ink).Bold(true).Render(
		strings.Join(wrapLines(a.hotspot.Description, w), "\n")))
	b.WriteString("\n")
	b.WriteString(RenderDivider(min(12, w), t))
	b.WriteString("\n\n")

	if a.searching || a.search.Value() != "" {
		b.WriteString(a.search.View())
	} else {
		b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
			Render("/ search • enter read • y copy • esc close"))
	}
	b.WriteString("\n")

	if len(a.list.Items()) == 0 {
		b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
			Render("  No entries match \"" + a.search.Value() + "\""))
		b.WriteString("\n")
	} else {
		b.WriteString(a.list.View())
		b.WriteString("\n")
	}

	b.WriteString(t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
		Width(w).Align(lipgloss.Center).Render("~ End of Archives ~"))

	return a.frame(b.String())
}

func (a ArchiveModel) frame(content string) string {
	return PanelStyle.
		Width(a.width - 1).
		Height(a.height).
		MaxHeight(a.height).
		Padding(0, 1).
		Render(content)
}
