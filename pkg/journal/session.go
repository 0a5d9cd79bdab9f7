// Package journal remembers which archive entries a visitor has read and
// which rooms they entered, across sessions.
package journal

import (
	"log"
	"time"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// Journal tracks the current visit and caches the read set so list
// rendering never touches the database.
type Journal struct {
	db    *DB
	visit *model.Visit
	read  map[string]bool
}

// Open opens the journal database and loads the read set
func Open(dbPath, driver string) (*Journal, error) {
	db, err := OpenDB(dbPath, driver)
	if err != nil {
		return nil, err
	}
	read, err := db.ReadSet()
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, read: read}, nil
}

// DB exposes the underlying store
func (j *Journal) DB() *DB {
	return j.db
}

// EnterRoom starts a visit, closing any visit still open
func (j *Journal) EnterRoom(roomID string) {
	j.LeaveRoom()
	v, err := j.db.StartVisit(roomID)
	if err != nil {
		log.Printf("journal: start visit %s: %v", roomID, err)
		return
	}
	j.visit = v
}

// LeaveRoom completes the current visit, if any
func (j *Journal) LeaveRoom() {
	if j.visit == nil {
		return
	}
	if err := j.db.CompleteVisit(j.visit); err != nil {
		log.Printf("journal: complete visit %d: %v", j.visit.ID, err)
	}
	j.visit = nil
}

// CurrentVisit returns the open visit
func (j *Journal) CurrentVisit() *model.Visit {
	return j.visit
}

// MarkRead records an entry as read
func (j *Journal) MarkRead(roomID, hotspotID, postID string) error {
	if j.read[postID] {
		return nil
	}
	created, err := j.db.MarkRead(&model.ReadRecord{
		PostID:    postID,
		RoomID:    roomID,
		HotspotID: hotspotID,
		ReadAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	j.read[postID] = true
	if created && j.visit != nil {
		j.visit.EntriesRead++
	}
	return nil
}

// IsRead reports whether an entry has been read
func (j *Journal) IsRead(postID string) bool {
	return j.read[postID]
}

// ReadCount returns the number of distinct entries read
func (j *Journal) ReadCount() int {
	return len(j.read)
}

// Progress summarizes reading coverage over a catalog
func (j *Journal) Progress(c *model.Catalog) Summary {
	return Summarize(c, j.read)
}

// Close completes the open visit and closes the database
func (j *Journal) Close() error {
	j.LeaveRoom()
	return j.db.Close()
}
