package model

import "time"

// ReadRecord marks an archive entry as read by the visitor
type ReadRecord struct {
	ID        int64     `json:"id"`
	PostID    string    `json:"post_id"`
	RoomID    string    `json:"room_id"`
	HotspotID string    `json:"hotspot_id"`
	ReadAt    time.Time `json:"read_at"`
}

// Visit groups everything done during one stay in a room
type Visit struct {
	ID          int64      `json:"id"`
	RoomID      string     `json:"room_id"`
	EnteredAt   time.Time  `json:"entered_at"`
	LeftAt      *time.Time `json:"left_at,omitempty"`
	EntriesRead int        `json:"entries_read"`
}

// Duration returns how long the visit lasted, or the time since entering
// if the visitor is still in the room.
func (v Visit) Duration(now time.Time) time.Duration {
	if v.LeftAt != nil {
		return v.LeftAt.Sub(v.EnteredAt)
	}
	return now.Sub(v.EnteredAt)
}

// RoomProgress summarizes how much of a room's archive has been read
type RoomProgress struct {
	RoomID string
	Read   int
	Total  int
}

// Coverage returns the read fraction in [0,1]
func (p RoomProgress) Coverage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Read) / float64(p.Total)
}
