package ui

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/museum/pkg/journal"
	"github.com/Dicklesworthstone/museum/pkg/model"
	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func mouseWheel(up, shift bool) tea.MouseMsg {
	b := tea.MouseButtonWheelDown
	if up {
		b = tea.MouseButtonWheelUp
	}
	return tea.MouseMsg{Action: tea.MouseActionPress, Button: b, Shift: shift}
}

func testCatalog() *model.Catalog {
	posts := func(prefix string, n int) []model.Post {
		var out []model.Post
		for i := 0; i < n; i++ {
			out = append(out, model.Post{
				ID:          prefix + "-" + string(rune('a'+i)),
				Title:       prefix + " entry " + string(rune('A'+i)),
				Excerpt:     "An excerpt about " + prefix,
				Content:     "# Heading\n\nBody text.",
				Category:    "Consciousness",
				Subcategory: "General",
			})
		}
		return out
	}
	return &model.Catalog{
		HomeImage: "/nonexistent/hall.jpg",
		Rooms: []model.Room{
			{
				ID: "a", Title: "Room A", Image: "/nonexistent/a.jpg", Description: "First room",
				Hotspots: []model.Hotspot{
					{ID: "a-main", Name: "Telescope", Kind: model.HotspotMain, Description: "Stars", Top: 30, Left: 70, Posts: posts("alchemy", 3)},
					{ID: "a-sub", Name: "Old Scroll", Kind: model.HotspotSub, Description: "Ancient", Top: 60, Left: 40, Posts: posts("scroll", 2)},
				},
			},
			{ID: "b", Title: "Room B", Image: "/nonexistent/b.jpg", Description: "Second room"},
		},
		Doors: []model.Door{
			{RoomID: "a", Left: 20, Width: 14, ScaleX: 1},
			{RoomID: "b", Left: 60, Width: 14, ScaleX: 0.95},
		},
	}
}

// fakeRecorder is an in-memory journal
type fakeRecorder struct {
	entered []string
	left    int
	read    map[string]bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{read: make(map[string]bool)}
}

func (f *fakeRecorder) EnterRoom(id string) { f.entered = append(f.entered, id) }
func (f *fakeRecorder) LeaveRoom()          { f.left++ }
func (f *fakeRecorder) MarkRead(roomID, hotspotID, postID string) error {
	f.read[postID] = true
	return nil
}
func (f *fakeRecorder) IsRead(postID string) bool { return f.read[postID] }
func (f *fakeRecorder) Progress(c *model.Catalog) journal.Summary {
	return journal.Summarize(c, f.read)
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := NewModel(testCatalog(), opts)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

// enterLoaded enters a room and settles its backdrop
func enterLoaded(t *testing.T, m Model, id string) Model {
	t.Helper()
	m = update(t, m, enterRoomMsg{roomID: id})
	return update(t, m, roomBackdropMsg{roomID: id, img: image.NewRGBA(image.Rect(0, 0, 64, 36))})
}

func TestEnterRoomResetsOffset(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")
	m = update(t, m, keyMsg("left"))
	m = update(t, m, keyMsg("up"))
	if m.Offset() != (panner.Offset{X: 0.5, Y: 0.5}) {
		t.Fatalf("Expected offset (0.5, 0.5), got %v", m.Offset())
	}

	m = update(t, m, enterRoomMsg{roomID: "b"})
	if m.RoomID() != "b" || m.State() != model.ViewRoom {
		t.Fatalf("Expected ROOM b, got %s %s", m.State(), m.RoomID())
	}
	if !m.Offset().IsZero() {
		t.Errorf("Offset should reset on room switch, got %v", m.Offset())
	}
	if m.Loaded() {
		t.Error("New room should not be loaded before its backdrop arrives")
	}
}

func TestStaleBackdropIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, enterRoomMsg{roomID: "a"})
	m = update(t, m, roomBackdropMsg{roomID: "b", img: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	if m.Loaded() {
		t.Fatal("Backdrop for another room must not mark the room loaded")
	}
	m = update(t, m, roomBackdropMsg{roomID: "a", img: image.NewRGBA(image.Rect(0, 0, 4, 4))})
	if !m.Loaded() {
		t.Fatal("Expected room a loaded")
	}
}

func TestMissingBackdropFailsOpen(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, enterRoomMsg{roomID: "a"})

	room := m.Catalog().Room("a")
	msg := loadRoomCmd(m.cache, *room)()
	bm, ok := msg.(roomBackdropMsg)
	if !ok {
		t.Fatalf("Expected roomBackdropMsg, got %T", msg)
	}
	if bm.err == nil {
		t.Fatal("Expected a load error for a missing image")
	}
	if bm.img == nil {
		t.Fatal("Expected a generated backdrop in place of the missing image")
	}

	m = update(t, m, bm)
	if !m.Loaded() {
		t.Fatal("A failed load must still reveal the room")
	}
	if !strings.Contains(m.View(), "Room A") {
		t.Error("Room view should show the room title")
	}
}

func TestWheelPans(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")

	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.Offset() != (panner.Offset{X: 0, Y: 3}) {
		t.Fatalf("Expected wheel up to give (0, 3), got %v", m.Offset())
	}

	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true})
	if m.Offset() != (panner.Offset{X: -3, Y: 3}) {
		t.Errorf("Expected shift+wheel down to pan horizontally to (-3, 3), got %v", m.Offset())
	}
}

func TestDragPans(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")

	m = update(t, m, press(10, 10))
	if !m.pan.Dragging() {
		t.Fatal("Expected a drag to start on the backdrop")
	}
	if !strings.Contains(m.statusBar(), "dragging (pointer)") {
		t.Errorf("Expected the drag device in the status bar, got %q", m.statusBar())
	}
	// 25 cells of 8px at 0.05 per pixel
	m = update(t, m, motion(35, 10))
	if m.Offset() != (panner.Offset{X: 10, Y: 0}) {
		t.Fatalf("Expected (10, 0), got %v", m.Offset())
	}
	m = update(t, m, motion(110, 10))
	if m.Offset().X != 15 {
		t.Errorf("Expected drag clamped to 15, got %v", m.Offset())
	}
	m = update(t, m, release(110, 10))
	if m.pan.Dragging() {
		t.Error("Release should end the drag")
	}
	if strings.Contains(m.statusBar(), "dragging") {
		t.Error("Status bar still reports a drag after release")
	}
	before := m.Offset()
	m = update(t, m, motion(20, 20))
	if m.Offset() != before {
		t.Errorf("Motion after release moved the offset to %v", m.Offset())
	}
}

func TestHoldTickAfterReleaseIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")

	next, cmd := m.Update(keyMsg("L"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("Expected a hold tick to be scheduled")
	}
	if m.Offset().X != -0.5 {
		t.Fatalf("Expected one immediate step right, got %v", m.Offset())
	}
	tick := cmd()

	// Pressing the same hold key again releases it
	m = update(t, m, keyMsg("L"))
	m = update(t, m, tick)
	if m.Offset().X != -0.5 {
		t.Errorf("Stale tick moved the offset to %v", m.Offset())
	}

	next, cmd = m.Update(keyMsg("L"))
	m = next.(Model)
	m = update(t, m, cmd())
	if m.Offset().X != -1.5 {
		t.Errorf("Live tick should keep panning, got %v", m.Offset())
	}
}

func TestHeldControlReleasedOnPointerLeave(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")

	b, ok := controlAt(controlLayout(m.viewCols(), m.viewRows(), true), ctrlUp)
	if !ok {
		t.Fatal("Expected an up control")
	}
	m = update(t, m, press(b.x+1, b.y))
	if !m.hold.Active() {
		t.Fatal("Pressing a control should start a hold")
	}
	m = update(t, m, motion(b.x+1, b.y))
	if !m.hold.Active() {
		t.Fatal("Motion over the held control keeps the hold")
	}
	m = update(t, m, motion(5, 5))
	if m.hold.Active() {
		t.Error("Leaving the control should release the hold")
	}
}

func TestBackClearsRoomAfterDelay(t *testing.T) {
	rec := newFakeRecorder()
	m := newTestModel(t, Options{Journal: rec})
	m = enterLoaded(t, m, "a")

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(Model)
	if m.State() != model.ViewHome {
		t.Fatalf("Expected HOME after back, got %s", m.State())
	}
	if m.RoomID() != "a" {
		t.Fatal("Room should stay attached until the clear fires")
	}
	if rec.left != 1 {
		t.Errorf("Expected the visit to be closed, got %d", rec.left)
	}

	m = update(t, m, cmd())
	if m.RoomID() != "" {
		t.Errorf("Expected room cleared, got %q", m.RoomID())
	}
}

func TestSelectBeforeClearKeepsNewRoom(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")

	next, cmd := m.Update(keyMsg("esc"))
	m = next.(Model)
	m = update(t, m, enterRoomMsg{roomID: "b"})
	m = update(t, m, cmd())

	if m.State() != model.ViewRoom || m.RoomID() != "b" {
		t.Errorf("Pending clear must not detach a newly selected room, got %s %q", m.State(), m.RoomID())
	}
}

func TestDoorOpensAfterDelay(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, keyMsg("1"))
	if m.opening != "" {
		t.Fatal("Doors should not open before the hall is loaded")
	}
	m = update(t, m, hallBackdropMsg{img: image.NewRGBA(image.Rect(0, 0, 64, 36))})

	m = update(t, m, keyMsg("1"))
	if m.opening != "a" {
		t.Fatalf("Expected door to room a opening, got %q", m.opening)
	}
	m = update(t, m, keyMsg("2"))
	if m.opening != "a" {
		t.Error("A second selection while a door is opening must be ignored")
	}
	if m.State() != model.ViewHome {
		t.Fatal("Room must not be entered before the door has opened")
	}

	m = update(t, m, doorOpenedMsg{roomID: "a"})
	if m.State() != model.ViewRoom || m.RoomID() != "a" {
		t.Errorf("Expected ROOM a, got %s %q", m.State(), m.RoomID())
	}
}

func TestHallMouseFocusesDoor(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, hallBackdropMsg{img: image.NewRGBA(image.Rect(0, 0, 64, 36))})

	r := m.doorRect(1, m.viewCols(), m.viewRows())
	cx, cy := (r.x0+r.x1)/2, (r.y0+r.y1)/2
	m = update(t, m, motion(cx, cy))
	if m.doorFocus != 1 {
		t.Fatalf("Expected door 2 focused, got %d", m.doorFocus)
	}
	if !strings.Contains(m.View(), "Room B") {
		t.Error("Focused door should name its room")
	}
	m = update(t, m, press(cx, cy))
	if m.opening != "b" {
		t.Errorf("Expected click to open door 2, got %q", m.opening)
	}
}

func TestOpenHotspotMarksRead(t *testing.T) {
	rec := newFakeRecorder()
	m := newTestModel(t, Options{Journal: rec})
	m = enterLoaded(t, m, "a")
	if len(rec.entered) != 1 || rec.entered[0] != "a" {
		t.Fatalf("Expected a visit to room a, got %v", rec.entered)
	}

	m = update(t, m, keyMsg("tab"))
	m = update(t, m, keyMsg("enter"))
	if m.Archive() == nil {
		t.Fatal("Expected the archive to open on the focused hotspot")
	}
	if m.Archive().Hotspot().ID != "a-main" {
		t.Fatalf("Expected archive for a-main, got %s", m.Archive().Hotspot().ID)
	}

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if !m.Archive().Reading() {
		t.Fatal("Enter should open the selected entry")
	}
	m = update(t, m, cmd())
	if !rec.read["alchemy-a"] {
		t.Errorf("Expected alchemy-a marked read, got %v", rec.read)
	}

	m = update(t, m, keyMsg("esc"))
	if m.Archive().Reading() {
		t.Error("Esc should return from the reader to the list")
	}
	next, cmd = m.Update(keyMsg("esc"))
	m = update(t, next.(Model), cmd())
	if m.Archive() != nil {
		t.Error("Esc on the list should close the archive")
	}
}

func TestHotspotsHiddenUntilLoaded(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, enterRoomMsg{roomID: "a"})
	m = update(t, m, keyMsg("tab"))
	m = update(t, m, keyMsg("enter"))
	if m.Archive() != nil {
		t.Error("Hotspots must not be reachable before the backdrop settles")
	}
	p := m.spotPositions()[0]
	if m.spotAt(p.col, p.row) != -1 {
		t.Error("Hidden hotspot was hit")
	}
}

func TestHotspotClickOpensArchive(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")
	p := m.spotPositions()[1]
	m = update(t, m, press(p.col, p.row))
	if m.Archive() == nil || m.Archive().Hotspot().ID != "a-sub" {
		t.Fatal("Expected clicking the marker to open a-sub")
	}
	if !strings.Contains(m.View(), "End of Archives") {
		t.Error("Archive panel should be drawn")
	}
	// Clicking the dimmed room closes the panel
	m = update(t, m, press(1, 1))
	if m.Archive() != nil {
		t.Error("Click outside the panel should close it")
	}
}

func TestHotspotsFollowPan(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "a")
	before := m.spotPositions()[0]
	for i := 0; i < 10; i++ {
		m = update(t, m, keyMsg("left"))
	}
	after := m.spotPositions()[0]
	if after.col <= before.col {
		t.Errorf("Looking left should move markers right: %v -> %v", before, after)
	}
}

func TestHelpOverlayConsumesInput(t *testing.T) {
	m := newTestModel(t, Options{})
	m = update(t, m, keyMsg("?"))
	if !m.help.IsVisible() {
		t.Fatal("Expected the guide to show")
	}
	if !strings.Contains(m.View(), "User Guide") {
		t.Error("Guide should be rendered")
	}
	m = update(t, m, keyMsg("q"))
	if m.help.IsVisible() {
		t.Error("Any key should dismiss the guide")
	}
}

func TestCatalogReloadRemovesRoom(t *testing.T) {
	m := newTestModel(t, Options{})
	m = enterLoaded(t, m, "b")

	c := testCatalog()
	c.Rooms = c.Rooms[:1]
	c.Doors = c.Doors[:1]
	m = update(t, m, CatalogReloadedMsg{Catalog: c})
	if m.State() != model.ViewHome {
		t.Errorf("Expected HOME after the room was removed, got %s", m.State())
	}
	if len(m.Catalog().Rooms) != 1 {
		t.Error("Expected the reloaded catalog to be applied")
	}
}

func TestStatusBarShowsProgress(t *testing.T) {
	rec := newFakeRecorder()
	rec.read["alchemy-a"] = true
	m := newTestModel(t, Options{Journal: rec})
	if !strings.Contains(m.statusBar(), "1/5 read") {
		t.Errorf("Expected progress in status bar, got %q", m.statusBar())
	}
}

func TestGuideShownOnFirstVisit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.json")
	m := newTestModel(t, Options{Guide: NewGuideStore(path)})
	if !m.help.IsVisible() {
		t.Fatal("Expected the guide on the first visit")
	}
	m = update(t, m, keyMsg("x"))
	if m.help.IsVisible() {
		t.Fatal("Any key should dismiss the guide")
	}

	store := NewGuideStore(path)
	if !store.Seen() {
		t.Fatal("Dismissal should persist")
	}
	if store.Progress().TimesShown != 1 {
		t.Errorf("Expected one viewing, got %d", store.Progress().TimesShown)
	}
	m = newTestModel(t, Options{Guide: store})
	if m.help.IsVisible() {
		t.Error("Guide should not open by itself once seen")
	}
}

func TestGuideStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewGuideStore(path)
	if s.Seen() {
		t.Error("Corrupt progress should start fresh")
	}
	if err := s.Load(); err == nil {
		t.Error("Expected a decode error")
	}
}
