// Package ui is the bubbletea front end of the museum: the entrance hall,
// the pannable rooms, the archive panel and the user guide.
package ui

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/museum/pkg/backdrop"
	"github.com/Dicklesworthstone/museum/pkg/config"
	"github.com/Dicklesworthstone/museum/pkg/journal"
	"github.com/Dicklesworthstone/museum/pkg/model"
	"github.com/Dicklesworthstone/museum/pkg/nav"
	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// Generated backdrops are painted at this size and then scaled like photos
const (
	GeneratedWidth  = 960
	GeneratedHeight = 540
)

// Recorder keeps the reading journal. *journal.Journal implements it.
type Recorder interface {
	EnterRoom(roomID string)
	LeaveRoom()
	MarkRead(roomID, hotspotID, postID string) error
	IsRead(postID string) bool
	Progress(c *model.Catalog) journal.Summary
}

// Options configures a Model
type Options struct {
	Settings  panner.Settings
	Terminal  config.TerminalConfig
	Journal   Recorder // nil disables read tracking
	StartRoom string   // enter this room immediately instead of the hall
	Renderer  *lipgloss.Renderer
	Cache     *backdrop.Cache
	Guide     *GuideStore // opens the guide on the first visit when set
}

// DefaultOptions returns options built from the default configuration
func DefaultOptions() Options {
	cfg := config.Default()
	return Options{
		Settings: cfg.Pan.Settings(),
		Terminal: cfg.Terminal,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// CatalogReloadedMsg delivers a catalog re-read from disk
type CatalogReloadedMsg struct {
	Catalog *model.Catalog
}

// roomBackdropMsg carries the room it was loaded for; results for a room
// no longer shown are dropped
type roomBackdropMsg struct {
	roomID string
	img    image.Image
	err    error
}

type hallBackdropMsg struct {
	img image.Image
	err error
}

// postImageMsg carries an entry illustration; a failed load carries a
// generated plate in img and the load error in err
type postImageMsg struct {
	postID string
	img    image.Image
	err    error
}

type preloadDoneMsg struct {
	failed int
	err    error
}

type holdTickMsg struct {
	tok panner.Token
}

type clearRoomMsg struct {
	tok nav.ClearToken
}

type doorOpenedMsg struct {
	roomID string
}

type enterRoomMsg struct {
	roomID string
}

// ══════════════════════════════════════════════════════════════════════════════
// MODEL
// ══════════════════════════════════════════════════════════════════════════════

// Model is the root bubbletea model
type Model struct {
	catalog *model.Catalog
	opts    Options
	theme   Theme
	keys    keyMap
	cache   *backdrop.Cache

	width  int
	height int

	// Hall
	nav        *nav.Switch
	doorFocus  int // -1 when no door is focused
	opening    string
	hallImg    image.Image
	hallLoaded bool

	// Room
	pan       *panner.Panner
	hold      *panner.Hold
	holdCtrl  control // on-screen control driving the hold; ctrlNone for keys
	hoverCtrl control
	loaded    bool
	roomImg   image.Image
	spotFocus int // -1 when no hotspot is focused
	hoverSpot int

	spinner     spinner.Model
	painter     *backdrop.Painter
	hallPainter *backdrop.Painter

	archive *ArchiveModel
	help    HelpOverlayModel
	status  string
}

// NewModel creates the root model for catalog c
func NewModel(c *model.Catalog, opts Options) Model {
	if opts.Settings == (panner.Settings{}) {
		opts.Settings = panner.DefaultSettings()
	}
	def := config.Default().Terminal
	if opts.Terminal.CellWidthPx <= 0 {
		opts.Terminal.CellWidthPx = def.CellWidthPx
	}
	if opts.Terminal.CellHeightPx <= 0 {
		opts.Terminal.CellHeightPx = def.CellHeightPx
	}
	if opts.Terminal.WheelNotchPx <= 0 {
		opts.Terminal.WheelNotchPx = def.WheelNotchPx
	}
	if opts.Cache == nil {
		opts.Cache = backdrop.NewCache()
	}
	theme := DefaultTheme(opts.Renderer)

	sp := spinner.New()
	sp.Spinner = spinner.Moon
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Primary)

	help := NewHelpOverlayModel(theme)
	if opts.Guide != nil && !opts.Guide.Seen() {
		help.Show()
	}

	return Model{
		catalog:     c,
		opts:        opts,
		theme:       theme,
		keys:        defaultKeyMap(),
		cache:       opts.Cache,
		nav:         nav.New(),
		doorFocus:   -1,
		pan:         panner.New(opts.Settings),
		hold:        &panner.Hold{},
		spotFocus:   -1,
		hoverSpot:   -1,
		spinner:     sp,
		painter:     &backdrop.Painter{},
		hallPainter: &backdrop.Painter{},
		help:        help,
	}
}

// Catalog returns the catalog being shown
func (m Model) Catalog() *model.Catalog {
	return m.catalog
}

// State returns HOME or ROOM
func (m Model) State() model.ViewState {
	return m.nav.State()
}

// RoomID returns the attached room, which outlives ROOM by nav.ExitDelay
func (m Model) RoomID() string {
	return m.nav.RoomID()
}

// Offset returns the pan offset of the current room
func (m Model) Offset() panner.Offset {
	return m.pan.Offset()
}

// Loaded reports whether the current room's backdrop has settled
func (m Model) Loaded() bool {
	return m.loaded
}

// Archive returns the open archive panel, if any
func (m Model) Archive() *ArchiveModel {
	return m.archive
}

// Init loads the hall, starts preloading every room and, when asked to,
// enters the start room
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadHallCmd(m.cache, m.catalog),
		preloadCmd(m.cache, m.catalog),
		m.spinner.Tick,
	}
	if id := m.opts.StartRoom; id != "" {
		cmds = append(cmds, func() tea.Msg { return enterRoomMsg{roomID: id} })
	}
	return tea.Batch(cmds...)
}

func loadHallCmd(cache *backdrop.Cache, c *model.Catalog) tea.Cmd {
	ref := c.HomeImage
	doors := append([]model.Door(nil), c.Doors...)
	return func() tea.Msg {
		img, err := cache.Get(ref)
		if err != nil {
			img = backdrop.Hall(doors, GeneratedWidth, GeneratedHeight)
		}
		return hallBackdropMsg{img: img, err: err}
	}
}

func loadRoomCmd(cache *backdrop.Cache, room model.Room) tea.Cmd {
	return func() tea.Msg {
		img, err := cache.Get(room.Image)
		if err != nil {
			img = backdrop.Room(&room, GeneratedWidth, GeneratedHeight)
		}
		return roomBackdropMsg{roomID: room.ID, img: img, err: err}
	}
}

// Generated entry plates match the 3:2 illustrations of the catalog
const (
	PlateWidth  = 600
	PlateHeight = 400
)

// loadPostImageCmd decodes an entry illustration off the event loop. Remote
// and broken references fail open to a generated plate.
func loadPostImageCmd(cache *backdrop.Cache, post model.Post) tea.Cmd {
	if post.Image == "" {
		return nil
	}
	return func() tea.Msg {
		img, err := cache.Get(post.Image)
		if err != nil {
			img = backdrop.Plate(post.ID, PlateWidth, PlateHeight)
		}
		return postImageMsg{postID: post.ID, img: img, err: err}
	}
}

func preloadCmd(cache *backdrop.Cache, c *model.Catalog) tea.Cmd {
	paths := make([]string, 0, len(c.Rooms))
	for _, r := range c.Rooms {
		paths = append(paths, r.Image)
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		failed, err := cache.Preload(ctx, paths)
		return preloadDoneMsg{failed: failed, err: err}
	}
}

func holdTick(tok panner.Token) tea.Cmd {
	return tea.Tick(panner.HoldInterval, func(time.Time) tea.Msg {
		return holdTickMsg{tok: tok}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		if m.archive != nil {
			m.archive.SetSize(m.panelWidth(), m.viewRows())
		}
		return m, nil

	case spinner.TickMsg:
		if m.hallLoaded && (!m.nav.InRoom() || m.loaded) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hallBackdropMsg:
		if msg.err != nil {
			log.Printf("hall backdrop: %v (using generated hall)", msg.err)
		}
		m.hallImg = msg.img
		m.hallLoaded = true
		return m, nil

	case roomBackdropMsg:
		if !m.nav.InRoom() || msg.roomID != m.nav.RoomID() {
			log.Printf("backdrop for %s arrived after leaving it", msg.roomID)
			return m, nil
		}
		if msg.err != nil {
			log.Printf("room %s backdrop: %v (using generated room)", msg.roomID, msg.err)
		}
		m.roomImg = msg.img
		m.loaded = true
		return m, nil

	case preloadDoneMsg:
		if msg.err != nil {
			log.Printf("preload: %v", msg.err)
		} else if msg.failed > 0 {
			log.Printf("preload: %d room image(s) unavailable", msg.failed)
		}
		return m, nil

	case holdTickMsg:
		dir, ok := m.hold.Accept(msg.tok)
		if !ok {
			return m, nil
		}
		if !m.nav.InRoom() {
			m.stopHold()
			return m, nil
		}
		m.pan.Pan(dir)
		return m, holdTick(msg.tok)

	case clearRoomMsg:
		if m.nav.Clear(msg.tok) {
			m.pan.Reset()
			m.roomImg = nil
			m.loaded = false
		}
		return m, nil

	case doorOpenedMsg:
		if m.opening != msg.roomID || m.nav.State() != model.ViewHome {
			return m, nil
		}
		m.opening = ""
		cmd := m.enterRoom(msg.roomID)
		return m, cmd

	case enterRoomMsg:
		cmd := m.enterRoom(msg.roomID)
		return m, cmd

	case postOpenedMsg:
		if rec := m.opts.Journal; rec != nil {
			if err := rec.MarkRead(msg.RoomID, msg.HotspotID, msg.Post.ID); err != nil {
				log.Printf("journal: %v", err)
			}
		}
		return m, loadPostImageCmd(m.cache, msg.Post)

	case postImageMsg:
		if m.archive != nil {
			m.archive.SetPostImage(msg.postID, msg.img)
		}
		return m, nil

	case archiveClosedMsg:
		m.archive = nil
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied \"" + msg.title + "\""
		}
		return m, nil

	case CatalogReloadedMsg:
		cmd := m.applyCatalog(msg.Catalog)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.status = ""
	if m.help.IsVisible() {
		m.updateHelp(msg)
		return m, nil
	}
	if m.archive != nil {
		a, cmd := m.archive.Update(msg)
		m.archive = &a
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.stopHold()
		m.help.Show()
		return m, nil
	}
	if m.nav.InRoom() {
		cmd := m.roomKey(msg)
		return m, cmd
	}
	cmd := m.hallKey(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help.IsVisible() {
		m.updateHelp(msg)
		return m, nil
	}
	if m.archive != nil {
		px := m.width - m.panelWidth()
		if msg.X >= px {
			local := msg
			local.X -= px
			a, cmd := m.archive.Update(local)
			m.archive = &a
			return m, cmd
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.archive = nil
		}
		return m, nil
	}
	if m.nav.InRoom() {
		cmd := m.roomMouse(msg)
		return m, cmd
	}
	cmd := m.hallMouse(msg)
	return m, cmd
}

// updateHelp forwards input to the guide and records its dismissal
func (m *Model) updateHelp(msg tea.Msg) {
	m.help, _ = m.help.Update(msg)
	if m.help.IsVisible() || m.opts.Guide == nil {
		return
	}
	m.opts.Guide.MarkSeen()
	if err := m.opts.Guide.Save(); err != nil {
		log.Printf("guide progress: %v", err)
	}
}

// applyCatalog swaps in a reloaded catalog. A room that disappeared sends
// the visitor back to the hall.
func (m *Model) applyCatalog(c *model.Catalog) tea.Cmd {
	if c == nil {
		return nil
	}
	m.catalog = c
	m.cache.Forget()
	m.painter = &backdrop.Painter{}
	m.hallPainter = &backdrop.Painter{}
	m.status = "Catalog reloaded"
	if m.doorFocus >= len(c.Doors) {
		m.doorFocus = -1
	}

	cmds := []tea.Cmd{loadHallCmd(m.cache, c)}
	if m.nav.InRoom() {
		room := c.Room(m.nav.RoomID())
		if room == nil {
			m.status = "Room removed from catalog"
			return tea.Batch(append(cmds, m.leaveRoom())...)
		}
		if m.archive != nil && room.Hotspot(m.archive.Hotspot().ID) == nil {
			m.archive = nil
		}
		m.spotFocus, m.hoverSpot = -1, -1
		cmds = append(cmds, loadRoomCmd(m.cache, *room))
	}
	return tea.Batch(cmds...)
}

// ══════════════════════════════════════════════════════════════════════════════
// LAYOUT
// ══════════════════════════════════════════════════════════════════════════════

// viewRows is the backdrop height in cells; the last row is the status bar
func (m Model) viewRows() int {
	return max(1, m.height-1)
}

func (m Model) viewCols() int {
	return max(1, m.width)
}

// panelWidth is the archive panel's share of the screen
func (m Model) panelWidth() int {
	if m.width < 60 {
		return m.width
	}
	return min(72, max(44, m.width/2))
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Opening the museum..."
	}
	if m.help.IsVisible() {
		return m.help.View()
	}
	var body string
	if m.nav.InRoom() {
		body = m.roomView()
	} else {
		body = m.hallView()
	}
	return body + "\n" + m.statusBar()
}

func (m Model) loadingView(caption string) string {
	t := m.theme
	text := m.spinner.View() + " " + t.Renderer.NewStyle().Foreground(t.Primary).Italic(true).Render(caption)
	return t.Renderer.Place(m.viewCols(), m.viewRows(), lipgloss.Center, lipgloss.Center, text,
		lipgloss.WithWhitespaceBackground(ColorMidnight))
}

func (m Model) statusBar() string {
	t := m.theme
	bar := t.Renderer.NewStyle().Background(t.Highlight).Foreground(t.Ink)

	left := " MAIN HALL "
	if m.nav.InRoom() {
		if room := m.nav.Current(m.catalog); room != nil {
			left = " " + room.Title + " "
		}
	}
	left = t.Renderer.NewStyle().Background(t.Primary).Foreground(ColorMidnight).
		Bold(true).Render(left)

	mid := ""
	if m.nav.InRoom() && m.loaded {
		mid = " " + m.pan.Offset().String()
		if m.hold.Active() {
			dir, _ := m.hold.Direction()
			mid += " • holding " + dir.String()
		}
		if kind, ok := m.pan.DragInput(); ok {
			mid += " • dragging (" + kind.String() + ")"
		}
	}
	if m.status != "" {
		mid += " • " + m.status
	}

	right := " ? guide • q quit "
	if rec := m.opts.Journal; rec != nil {
		p := rec.Progress(m.catalog)
		right = " " + RenderMiniBar(p.Explored, 8, t) + " " +
			formatCount(p.Read, p.Total) + " read •" + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + bar.Render(mid+spaces(gap)) + bar.Render(right)
}
