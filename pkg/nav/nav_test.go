package nav_test

import (
	"testing"

	"github.com/Dicklesworthstone/museum/pkg/model"
	"github.com/Dicklesworthstone/museum/pkg/nav"
)

func TestInitialState(t *testing.T) {
	s := nav.New()
	if s.State() != model.ViewHome {
		t.Errorf("initial state = %s, want HOME", s.State())
	}
	if s.RoomID() != "" || s.InRoom() {
		t.Error("no room should be attached initially")
	}

	var zero nav.Switch
	if zero.State() != model.ViewHome {
		t.Errorf("zero Switch state = %s, want HOME", zero.State())
	}
}

func TestSelectBackClear(t *testing.T) {
	s := nav.New()
	s.Select("power")
	if s.State() != model.ViewRoom || s.RoomID() != "power" || !s.InRoom() {
		t.Fatalf("after Select: state=%s room=%q", s.State(), s.RoomID())
	}

	tok := s.Back()
	if s.State() != model.ViewHome {
		t.Errorf("after Back: state = %s", s.State())
	}
	if s.RoomID() != "power" {
		t.Error("room should stay attached until Clear")
	}
	if !s.Clear(tok) {
		t.Error("Clear with live token reported false")
	}
	if s.RoomID() != "" {
		t.Errorf("room still attached after Clear: %q", s.RoomID())
	}
}

func TestReenterBeforeClear(t *testing.T) {
	s := nav.New()
	s.Select("power")
	tok := s.Back()
	s.Select("epistemology")

	if s.Clear(tok) {
		t.Error("stale clear applied after re-entering a room")
	}
	if s.RoomID() != "epistemology" || s.State() != model.ViewRoom {
		t.Errorf("state=%s room=%q, want ROOM epistemology", s.State(), s.RoomID())
	}
}

func TestCyclesIndefinitely(t *testing.T) {
	s := nav.New()
	for i := 0; i < 50; i++ {
		s.Select("consciousness")
		tok := s.Back()
		if !s.Clear(tok) {
			t.Fatalf("cycle %d: clear failed", i)
		}
	}
	if s.State() != model.ViewHome {
		t.Errorf("final state = %s", s.State())
	}
}

func TestCurrent(t *testing.T) {
	c := &model.Catalog{Rooms: []model.Room{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}
	s := nav.New()
	if s.Current(c) != nil {
		t.Error("Current should be nil in the hall")
	}
	s.Select("b")
	if r := s.Current(c); r == nil || r.Title != "B" {
		t.Errorf("Current = %+v", r)
	}
	s.Select("missing")
	if s.Current(c) != nil {
		t.Error("unknown room should resolve to nil")
	}
}
