package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/museum/pkg/model"
)

// Driver names registered by the two SQLite implementations
const (
	DriverPureGo = "sqlite"  // modernc.org/sqlite
	DriverCgo    = "sqlite3" // github.com/mattn/go-sqlite3
)

// DB handles reading journal persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the journal database at the given path
func OpenDB(dbPath, driver string) (*DB, error) {
	if driver == "" {
		driver = DriverPureGo
	}
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY between our own writers.
	db.SetMaxOpenConns(1)

	jdb := &DB{db: db}
	if err := jdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return jdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id TEXT NOT NULL UNIQUE,
		room_id TEXT NOT NULL,
		hotspot_id TEXT NOT NULL,
		read_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reads_room_id ON reads(room_id);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id TEXT NOT NULL,
		entered_at DATETIME NOT NULL,
		left_at DATETIME,
		entries_read INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_visits_room ON visits(room_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// MarkRead records an entry as read. Reading an entry again keeps the first
// record; the returned bool reports whether a new record was written.
func (d *DB) MarkRead(r *model.ReadRecord) (bool, error) {
	if r.ReadAt.IsZero() {
		r.ReadAt = time.Now()
	}
	result, err := d.db.Exec(`
		INSERT OR IGNORE INTO reads (post_id, room_id, hotspot_id, read_at)
		VALUES (?, ?, ?, ?)
	`, r.PostID, r.RoomID, r.HotspotID, r.ReadAt)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return true, err
	}
	r.ID = id
	return true, nil
}

// ReadSet returns the IDs of every entry read so far
func (d *DB) ReadSet() (map[string]bool, error) {
	rows, err := d.db.Query(`SELECT post_id FROM reads`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}

// ReadsForRoom returns the read records of a room, newest first
func (d *DB) ReadsForRoom(roomID string) ([]model.ReadRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, post_id, room_id, hotspot_id, read_at
		FROM reads
		WHERE room_id = ?
		ORDER BY read_at DESC, id DESC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ReadRecord
	for rows.Next() {
		var r model.ReadRecord
		if err := rows.Scan(&r.ID, &r.PostID, &r.RoomID, &r.HotspotID, &r.ReadAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// StartVisit records entering a room
func (d *DB) StartVisit(roomID string) (*model.Visit, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO visits (room_id, entered_at)
		VALUES (?, ?)
	`, roomID, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Visit{
		ID:        id,
		RoomID:    roomID,
		EnteredAt: now,
	}, nil
}

// CompleteVisit marks a visit as finished
func (d *DB) CompleteVisit(v *model.Visit) error {
	now := time.Now()
	v.LeftAt = &now
	_, err := d.db.Exec(`
		UPDATE visits
		SET left_at = ?, entries_read = ?
		WHERE id = ?
	`, now, v.EntriesRead, v.ID)
	return err
}

// GetVisit retrieves a visit by ID
func (d *DB) GetVisit(id int64) (*model.Visit, error) {
	var v model.Visit
	var leftAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT id, room_id, entered_at, left_at, entries_read
		FROM visits
		WHERE id = ?
	`, id).Scan(&v.ID, &v.RoomID, &v.EnteredAt, &leftAt, &v.EntriesRead)
	if err != nil {
		return nil, err
	}
	if leftAt.Valid {
		v.LeftAt = &leftAt.Time
	}
	return &v, nil
}

// VisitCount returns how many times each room has been entered
func (d *DB) VisitCount() (map[string]int, error) {
	rows, err := d.db.Query(`SELECT room_id, COUNT(*) FROM visits GROUP BY room_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var room string
		var n int
		if err := rows.Scan(&room, &n); err != nil {
			return nil, err
		}
		counts[room] = n
	}
	return counts, rows.Err()
}
