package ui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GuideProgress records whether the visitor has been through the user guide.
// It persists across sessions so the guide only opens by itself once.
type GuideProgress struct {
	Seen       bool      `json:"seen"`
	SeenAt     time.Time `json:"seen_at"`
	TimesShown int       `json:"times_shown"`
}

// GuideStore loads and saves GuideProgress at a fixed path
type GuideStore struct {
	mu       sync.Mutex
	path     string
	progress GuideProgress
	dirty    bool
}

// DefaultGuidePath returns the guide progress file under the user config dir
func DefaultGuidePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "museum", "guide.json")
}

// NewGuideStore opens the store at path. A missing or unreadable file starts
// fresh; an empty path keeps progress in memory only.
func NewGuideStore(path string) *GuideStore {
	s := &GuideStore{path: path}
	_ = s.Load()
	return s
}

// Load reads progress from disk
func (s *GuideStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.progress = GuideProgress{}
			return nil
		}
		return err
	}

	var p GuideProgress
	if err := json.Unmarshal(data, &p); err != nil {
		// Corrupt file, start fresh
		s.progress = GuideProgress{}
		return err
	}
	s.progress = p
	s.dirty = false
	return nil
}

// Save writes progress to disk if it changed
func (s *GuideStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty || s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.progress, "", "  ")
	if err != nil {
		return err
	}

	// Write atomically via temp file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return err
	}
	s.dirty = false
	return nil
}

// MarkSeen records one viewing of the guide
func (s *GuideStore) MarkSeen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.progress.Seen {
		s.progress.Seen = true
		s.progress.SeenAt = time.Now()
	}
	s.progress.TimesShown++
	s.dirty = true
}

// Seen reports whether the guide has been shown before
func (s *GuideStore) Seen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Seen
}

// Progress returns a copy of the stored progress
func (s *GuideStore) Progress() GuideProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Reset forgets that the guide was seen
func (s *GuideStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = GuideProgress{}
	s.dirty = true
}
