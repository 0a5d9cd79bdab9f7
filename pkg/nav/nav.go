// Package nav switches between the museum hall and a room.
package nav

import (
	"time"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

const (
	// ExitDelay is how long a room stays attached after leaving it, so its
	// content does not vanish while the exit transition plays.
	ExitDelay = 500 * time.Millisecond

	// DoorOpenDelay is how long a door stays open before the room is entered
	DoorOpenDelay = 800 * time.Millisecond
)

// ClearToken identifies a pending room clear scheduled by Back
type ClearToken uint64

// Switch is the top-level view state: HOME or ROOM plus the current room.
// The zero value is a switch showing the hall.
type Switch struct {
	state  model.ViewState
	roomID string
	seq    ClearToken
}

// New returns a switch in its initial HOME state
func New() *Switch {
	return &Switch{state: model.ViewHome}
}

// State returns the view being shown
func (s *Switch) State() model.ViewState {
	if s.state == "" {
		return model.ViewHome
	}
	return s.state
}

// RoomID returns the attached room, which may outlive the ROOM state by
// ExitDelay.
func (s *Switch) RoomID() string {
	return s.roomID
}

// InRoom reports whether a room is being shown
func (s *Switch) InRoom() bool {
	return s.State() == model.ViewRoom && s.roomID != ""
}

// Select enters a room. Any clear still pending from an earlier Back is
// invalidated.
func (s *Switch) Select(roomID string) {
	s.seq++
	s.roomID = roomID
	s.state = model.ViewRoom
}

// Back returns to the hall immediately. The room stays attached until Clear
// is called with the returned token.
func (s *Switch) Back() ClearToken {
	s.seq++
	s.state = model.ViewHome
	return s.seq
}

// Clear detaches the room if tok is still the latest token and the hall is
// being shown. It reports whether the room was cleared.
func (s *Switch) Clear(tok ClearToken) bool {
	if tok != s.seq || s.State() != model.ViewHome {
		return false
	}
	s.roomID = ""
	return true
}

// Current resolves the attached room in the catalog
func (s *Switch) Current(c *model.Catalog) *model.Room {
	if s.roomID == "" {
		return nil
	}
	return c.Room(s.roomID)
}
