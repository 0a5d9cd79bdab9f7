package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/museum/pkg/config"
	"github.com/Dicklesworthstone/museum/pkg/panner"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsMatchPanner(t *testing.T) {
	cfg := config.Default()
	if got := cfg.Pan.Settings(); got != panner.DefaultSettings() {
		t.Errorf("default pan settings = %+v, want %+v", got, panner.DefaultSettings())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file failed: %v", err)
	}
	if cfg.Pan.Limit != 15 {
		t.Errorf("limit = %g, want 15", cfg.Pan.Limit)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeFile(t, `
catalog: /srv/museum.yaml
pan:
  limit: 10
  step: 1
terminal:
  wheel_notch_px: 120
journal:
  driver: sqlite3
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog != "/srv/museum.yaml" {
		t.Errorf("catalog = %q", cfg.Catalog)
	}
	if cfg.Pan.Limit != 10 || cfg.Pan.Step != 1 {
		t.Errorf("pan = %+v", cfg.Pan)
	}
	// Untouched keys keep their defaults.
	if cfg.Pan.TouchSensitivity != 0.08 {
		t.Errorf("touch sensitivity = %g, want default", cfg.Pan.TouchSensitivity)
	}
	if cfg.Terminal.WheelNotchPx != 120 || cfg.Terminal.CellWidthPx != 8 {
		t.Errorf("terminal = %+v", cfg.Terminal)
	}
	if cfg.Journal.Driver != "sqlite3" {
		t.Errorf("driver = %q", cfg.Journal.Driver)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "pan:\n  limit: 10\n")
	t.Setenv("MUSEUM_PAN_LIMIT", "12")
	t.Setenv("MUSEUM_JOURNAL_DISABLED", "true")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pan.Limit != 12 {
		t.Errorf("limit = %g, want env value 12", cfg.Pan.Limit)
	}
	if !cfg.Journal.Disabled {
		t.Error("journal should be disabled by env")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"limit beyond backdrop", "pan:\n  limit: 40\n", "pan"},
		{"zero cell", "terminal:\n  cell_width_px: 0\n", "cell size"},
		{"unknown driver", "journal:\n  driver: postgres\n", "journal driver"},
		{"malformed", "pan: [1, 2\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
