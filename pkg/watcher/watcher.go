package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a fixed set of files. The containing
// directories are watched rather than the files themselves so that editors
// which save by renaming a temp file over the original are still seen.
type Watcher struct {
	files    map[string]bool
	debounce *Debouncer
	onChange func(paths []string)
}

// New creates a watcher for paths. onChange runs on a timer goroutine.
func New(paths []string, onChange func(paths []string)) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool),
		onChange: onChange,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
	}
	w.debounce = NewDebouncer(DefaultDebounceDuration, onChange)
	return w, nil
}

// Files returns the watched files
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Watch blocks until ctx is cancelled or the fsnotify watcher fails.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	defer w.debounce.Cancel()

	dirs := make(map[string]bool)
	for f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Printf("watcher: watching %s", dir)
	}

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !w.files[abs] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	w.debounce.Trigger(abs)
}
