// Package config loads museum settings from defaults, an optional YAML file
// and MUSEUM_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/museum/pkg/panner"
)

// PanConfig mirrors panner.Settings for file and environment loading
type PanConfig struct {
	Limit              float64 `yaml:"limit" env:"MUSEUM_PAN_LIMIT"`
	Step               float64 `yaml:"step" env:"MUSEUM_PAN_STEP"`
	WheelSensitivity   float64 `yaml:"wheel_sensitivity" env:"MUSEUM_PAN_WHEEL_SENSITIVITY"`
	PointerSensitivity float64 `yaml:"pointer_sensitivity" env:"MUSEUM_PAN_POINTER_SENSITIVITY"`
	TouchSensitivity   float64 `yaml:"touch_sensitivity" env:"MUSEUM_PAN_TOUCH_SENSITIVITY"`
	Overscale          float64 `yaml:"overscale" env:"MUSEUM_PAN_OVERSCALE"`
}

// Settings converts to the panner's settings
func (p PanConfig) Settings() panner.Settings {
	return panner.Settings{
		Limit:              p.Limit,
		Step:               p.Step,
		WheelSensitivity:   p.WheelSensitivity,
		PointerSensitivity: p.PointerSensitivity,
		TouchSensitivity:   p.TouchSensitivity,
		Overscale:          p.Overscale,
	}
}

// TerminalConfig describes how terminal cells map onto pointer pixels
type TerminalConfig struct {
	CellWidthPx  float64 `yaml:"cell_width_px" env:"MUSEUM_CELL_WIDTH_PX"`
	CellHeightPx float64 `yaml:"cell_height_px" env:"MUSEUM_CELL_HEIGHT_PX"`
	WheelNotchPx float64 `yaml:"wheel_notch_px" env:"MUSEUM_WHEEL_NOTCH_PX"`
}

// JournalConfig controls the reading journal database
type JournalConfig struct {
	Path     string `yaml:"path" env:"MUSEUM_JOURNAL_PATH"`
	Driver   string `yaml:"driver" env:"MUSEUM_JOURNAL_DRIVER"` // "sqlite" (pure Go) or "sqlite3" (cgo)
	Disabled bool   `yaml:"disabled" env:"MUSEUM_JOURNAL_DISABLED"`
}

// Config is the complete museum configuration
type Config struct {
	Catalog  string         `yaml:"catalog" env:"MUSEUM_CATALOG"`
	Watch    bool           `yaml:"watch" env:"MUSEUM_WATCH"`
	Debug    bool           `yaml:"debug" env:"MUSEUM_DEBUG"`
	LogFile  string         `yaml:"log_file" env:"MUSEUM_LOG_FILE"`
	Pan      PanConfig      `yaml:"pan"`
	Terminal TerminalConfig `yaml:"terminal"`
	Journal  JournalConfig  `yaml:"journal"`
}

// Dir returns ~/.config/museum, or "" when the home directory is unknown
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "museum")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Default returns the built-in configuration
func Default() Config {
	s := panner.DefaultSettings()
	cfg := Config{
		Pan: PanConfig{
			Limit:              s.Limit,
			Step:               s.Step,
			WheelSensitivity:   s.WheelSensitivity,
			PointerSensitivity: s.PointerSensitivity,
			TouchSensitivity:   s.TouchSensitivity,
			Overscale:          s.Overscale,
		},
		Terminal: TerminalConfig{
			CellWidthPx:  8,
			CellHeightPx: 16,
			WheelNotchPx: 60,
		},
		Journal: JournalConfig{
			Driver: "sqlite",
		},
	}
	if dir := Dir(); dir != "" {
		cfg.Journal.Path = filepath.Join(dir, "journal.db")
		cfg.LogFile = filepath.Join(dir, "debug.log")
	}
	return cfg
}

// Load builds the configuration. A missing file at path is not an error;
// an empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the loaded values
func (c Config) Validate() error {
	if err := c.Pan.Settings().Validate(); err != nil {
		return fmt.Errorf("pan: %w", err)
	}
	if c.Terminal.CellWidthPx <= 0 || c.Terminal.CellHeightPx <= 0 {
		return fmt.Errorf("terminal cell size must be positive, got %gx%g", c.Terminal.CellWidthPx, c.Terminal.CellHeightPx)
	}
	if c.Terminal.WheelNotchPx <= 0 {
		return fmt.Errorf("wheel notch must be positive, got %g", c.Terminal.WheelNotchPx)
	}
	switch c.Journal.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unknown journal driver %q (want sqlite or sqlite3)", c.Journal.Driver)
	}
	return nil
}
