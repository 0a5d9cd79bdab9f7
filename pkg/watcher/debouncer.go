// Package watcher reloads content files when they change on disk.
package watcher

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces bursts of change events into a single flush.
// Editors often write a file several times in a row (truncate, write,
// chmod, rename); the paths touched during one window are delivered together
// once the window has been quiet for the full duration.
type Debouncer struct {
	duration time.Duration
	flush    func(paths []string)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending map[string]bool
}

// NewDebouncer creates a Debouncer that calls flush with the sorted set of
// paths seen during each quiet window. If duration is 0,
// DefaultDebounceDuration is used.
func NewDebouncer(duration time.Duration, flush func(paths []string)) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{
		duration: duration,
		flush:    flush,
		pending:  make(map[string]bool),
	}
}

// Trigger records a change to path and restarts the quiet window.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	d.pending[path] = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		paths := func() []string {
			d.mu.Lock()
			defer d.mu.Unlock()

			// A timer whose Stop lost the race must not flush; the newer
			// timer owns the pending set.
			if seq != d.seq {
				return nil
			}
			d.timer = nil
			out := make([]string, 0, len(d.pending))
			for p := range d.pending {
				out = append(out, p)
			}
			d.pending = make(map[string]bool)
			sort.Strings(out)
			return out
		}()
		if len(paths) == 0 {
			return
		}
		d.flush(paths)
	})
}

// Cancel drops any pending flush.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.pending = make(map[string]bool)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
