package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	var flushes [][]string
	d := NewDebouncer(30*time.Millisecond, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		flushes = append(flushes, paths)
	})

	d.Trigger("/b")
	d.Trigger("/a")
	d.Trigger("/b")
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(flushes) != 1 {
		t.Fatalf("Expected 1 flush, got %d", len(flushes))
	}
	if got := flushes[0]; len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("flushed paths = %v, want [/a /b]", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	d := NewDebouncer(20*time.Millisecond, func([]string) { fired <- struct{}{} })
	d.Trigger("/a")
	d.Cancel()

	select {
	case <-fired:
		t.Error("flush ran after Cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	d := NewDebouncer(0, func([]string) {})
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("Duration = %v", d.Duration())
	}
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "museum.yaml")
	if err := os.WriteFile(path, []byte("rooms: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 4)
	w, err := New([]string{path}, func(paths []string) { changed <- paths })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give fsnotify a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
	if err := os.WriteFile(path, []byte("rooms: [a]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changed:
		abs, _ := filepath.Abs(path)
		if len(paths) != 1 || paths[0] != abs {
			t.Errorf("changed = %v, want [%s]", paths, abs)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not stop")
	}
}
