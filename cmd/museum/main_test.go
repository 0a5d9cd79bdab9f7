package main

import (
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/museum/pkg/config"
	"github.com/Dicklesworthstone/museum/pkg/journal"
)

// captureJournal records the journal run opens
func captureJournal(t *testing.T) **journal.Journal {
	t.Helper()
	var opened *journal.Journal
	orig := openJournal
	openJournal = func(cfg config.JournalConfig) (*journal.Journal, error) {
		j, err := orig(cfg)
		opened = j
		return j, err
	}
	t.Cleanup(func() { openJournal = orig })
	return &opened
}

func TestRunClosesJournalOnFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	opened := captureJournal(t)

	dbPath := filepath.Join(t.TempDir(), "journal.db")
	plan := filepath.Join(t.TempDir(), "plan.txt")
	if code := run([]string{"--journal", dbPath, "--export-map", plan}); code != 1 {
		t.Fatalf("run = %d, want 1 for an unsupported floor plan format", code)
	}
	if *opened == nil {
		t.Fatal("Expected the journal to be opened")
	}
	if _, err := (*opened).DB().ReadSet(); err == nil {
		t.Error("Journal still open after run returned")
	}
}

func TestRunClosesJournalOnSuccess(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	opened := captureJournal(t)

	dbPath := filepath.Join(t.TempDir(), "journal.db")
	plan := filepath.Join(t.TempDir(), "plan.svg")
	if code := run([]string{"--journal", dbPath, "--export-map", plan}); code != 0 {
		t.Fatalf("run = %d, want 0", code)
	}
	if *opened == nil {
		t.Fatal("Expected the journal to be opened")
	}
	if _, err := (*opened).DB().ReadSet(); err == nil {
		t.Error("Journal still open after run returned")
	}
}

func TestRunExitCodes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"--version"}, 0},
		{"unknown flag", []string{"--no-such-flag"}, 2},
		{"missing catalog", []string{"--no-journal", "--catalog", "/nonexistent/catalog.yaml"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
