package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildMuseumBinary compiles the command once per test into a temp dir
func buildMuseumBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e build in short mode")
	}
	bin := filepath.Join(t.TempDir(), "museum")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return bin
}

// run executes the binary with an isolated HOME so no real config or
// journal is touched
func run(t *testing.T, bin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersion(t *testing.T) {
	bin := buildMuseumBinary(t)
	out, err := run(t, bin, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "museum v") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestListBuiltInCatalog(t *testing.T) {
	bin := buildMuseumBinary(t)
	out, err := run(t, bin, "--list")
	if err != nil {
		t.Fatalf("--list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "4 rooms") {
		t.Errorf("expected four rooms in listing:\n%s", out)
	}
	if !strings.Contains(out, "Read 0 of") {
		t.Errorf("expected journal progress in listing:\n%s", out)
	}
}

func TestExports(t *testing.T) {
	bin := buildMuseumBinary(t)
	dir := t.TempDir()

	plan := filepath.Join(dir, "plan.svg")
	if out, err := run(t, bin, "--no-journal", "--export-map", plan); err != nil {
		t.Fatalf("--export-map failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(plan)
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Errorf("floor plan not written: %v", err)
	}

	site := filepath.Join(dir, "site")
	if out, err := run(t, bin, "--no-journal", "--export-site", site); err != nil {
		t.Fatalf("--export-site failed: %v\n%s", err, out)
	}
	for _, name := range []string{"index.html", "map.svg"} {
		if _, err := os.Stat(filepath.Join(site, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestMissingCatalogFails(t *testing.T) {
	bin := buildMuseumBinary(t)
	out, err := run(t, bin, "--no-journal", "--catalog", "/nonexistent/catalog.yaml", "--list")
	if err == nil {
		t.Fatal("expected a non-zero exit for a missing catalog")
	}
	if !strings.Contains(out, "catalog not found") {
		t.Errorf("error message not helpful: %s", out)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	bin := buildMuseumBinary(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("pan:\n  limit: 90\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, bin, "--config", cfg, "--list")
	if err == nil {
		t.Fatal("expected a non-zero exit for an out-of-range pan limit")
	}
	if !strings.Contains(out, "pan limit") {
		t.Errorf("error message not helpful: %s", out)
	}
}
