package journal

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// Summary is the reading progress over a whole catalog
type Summary struct {
	Rooms    []model.RoomProgress
	Read     int
	Total    int
	Coverage float64 // Read/Total
	Explored float64 // Mean hotspot coverage, each exhibit counted once
}

// Summarize computes per-room progress. Explored gives every hotspot the
// same weight however many entries it holds, so reading the one note on a
// small exhibit counts as much as finishing a large one. Hotspots without
// entries are ignored.
func Summarize(c *model.Catalog, read map[string]bool) Summary {
	var s Summary
	if c == nil {
		return s
	}
	var spots []float64
	for _, room := range c.Rooms {
		p := model.RoomProgress{RoomID: room.ID}
		for _, h := range room.Hotspots {
			var n int
			for _, post := range h.Posts {
				if read[post.ID] {
					n++
				}
			}
			if len(h.Posts) > 0 {
				spots = append(spots, float64(n)/float64(len(h.Posts)))
			}
			p.Read += n
			p.Total += len(h.Posts)
		}
		s.Rooms = append(s.Rooms, p)
		s.Read += p.Read
		s.Total += p.Total
	}
	if s.Total > 0 {
		s.Coverage = float64(s.Read) / float64(s.Total)
	}
	if len(spots) > 0 {
		s.Explored = stat.Mean(spots, nil)
	}
	return s
}

// Room returns the progress of one room
func (s Summary) Room(id string) (model.RoomProgress, bool) {
	for _, p := range s.Rooms {
		if p.RoomID == id {
			return p, true
		}
	}
	return model.RoomProgress{}, false
}
