// Package config handles loading and saving user settings for dive.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/f3rmion/dive/internal/dictionary"
	"github.com/f3rmion/dive/internal/gesture"
	"github.com/f3rmion/dive/internal/layout"
	"github.com/f3rmion/dive/internal/logging"
	"github.com/f3rmion/dive/internal/physics"
	"github.com/f3rmion/dive/internal/session"
)

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "settings.yaml"

// Settings holds all user configuration.
type Settings struct {
	Prediction Prediction         `yaml:"prediction"`
	Physics    physics.Tuning     `yaml:"physics"`
	Gesture    gesture.Thresholds `yaml:"gesture"`
	Layout     layout.Sphere      `yaml:"layout"`
	Paths      Paths              `yaml:"paths"`
	Logging    logging.Config     `yaml:"logging"`
	UI         UI                 `yaml:"ui"`
}

// Prediction controls candidate presentation.
type Prediction struct {
	MaxVisible     int `yaml:"max_visible"`     // Candidates around the viewer
	TopPredictions int `yaml:"top_predictions"` // Completions listed in the sidebar
}

// Paths locates data files. Relative paths resolve against the config
// directory.
type Paths struct {
	Dictionary string `yaml:"dictionary"`
	Concepts   string `yaml:"concepts"`
	Hanzi      string `yaml:"hanzi,omitempty"`
	Database   string `yaml:"database"`
	Font       string `yaml:"font,omitempty"` // TrueType/OpenType font for the large glyph
}

// UI controls the terminal front end.
type UI struct {
	FPS          int     `yaml:"fps"`
	CellWidthPx  float64 `yaml:"cell_width_px"`  // Pointer scale per column
	CellHeightPx float64 `yaml:"cell_height_px"` // Pointer scale per row
	Mouse        bool    `yaml:"mouse"`
	Watch        bool    `yaml:"watch"` // Reload dictionaries when they change
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		Prediction: Prediction{MaxVisible: 8, TopPredictions: 5},
		Physics:    physics.DefaultTuning(),
		Gesture:    gesture.DefaultThresholds(),
		Layout:     layout.DefaultSphere(),
		Paths: Paths{
			Dictionary: "dictionary.jsonl",
			Concepts:   "concepts.yaml",
			Database:   "userdata.db",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "text",
			Output: "file",
			File:   "dive.log",
		},
		UI: UI{
			FPS:          60,
			CellWidthPx:  10,
			CellHeightPx: 20,
			Mouse:        true,
			Watch:        true,
		},
	}
}

// Validate reports every out-of-range setting.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Prediction.MaxVisible > 0, "prediction.max_visible must be positive, got %d", s.Prediction.MaxVisible)
	check(s.Prediction.TopPredictions >= 0, "prediction.top_predictions must not be negative, got %d", s.Prediction.TopPredictions)

	p := s.Physics
	check(p.Smoothing >= 0 && p.Smoothing < 1, "physics.smoothing must be in [0, 1), got %g", p.Smoothing)
	check(p.Friction >= 0, "physics.friction must not be negative, got %g", p.Friction)
	check(p.MaxAngularVelocity > 0, "physics.max_angular_velocity must be positive, got %g", p.MaxAngularVelocity)
	check(p.SelectionThreshold > 0 && p.SelectionThreshold <= 1, "physics.selection_threshold must be in (0, 1], got %g", p.SelectionThreshold)
	check(p.PolarMargin > 0 && p.PolarMargin < 1.5, "physics.polar_margin must be in (0, 1.5), got %g", p.PolarMargin)
	check(p.RadiusShrink >= 0 && p.RadiusShrink < 1, "physics.radius_shrink must be in [0, 1), got %g", p.RadiusShrink)
	check(p.MaxStep > 0, "physics.max_step must be positive, got %g", p.MaxStep)
	check(p.ZoomSpeed > 0 && p.MagnetismRate > 0, "physics.zoom_speed and magnetism_rate must be positive")

	g := s.Gesture
	check(g.MaxSwipeTime > 0, "gesture.max_swipe_time must be positive, got %s", g.MaxSwipeTime)
	check(g.DisqualifyAfter >= g.MaxSwipeTime, "gesture.disqualify_after must not be shorter than max_swipe_time")
	check(g.MinSwipeDistance > 0, "gesture.min_swipe_distance must be positive, got %g", g.MinSwipeDistance)
	check(g.DirectionRatio >= 1, "gesture.direction_ratio must be at least 1, got %g", g.DirectionRatio)

	l := s.Layout
	check(l.Radius > 0, "layout.radius must be positive, got %g", l.Radius)
	check(l.Cone > 0 && l.Cone < 1.6, "layout.cone must be in (0, 1.6), got %g", l.Cone)
	check(l.FOV > 0 && l.FOV < 3.1, "layout.fov must be in (0, 3.1), got %g", l.FOV)

	check(s.UI.FPS > 0 && s.UI.FPS <= 240, "ui.fps must be in [1, 240], got %d", s.UI.FPS)
	check(s.UI.CellWidthPx > 0 && s.UI.CellHeightPx > 0, "ui cell sizes must be positive")

	if err := s.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

// Session converts the settings into session tuning.
func (s Settings) Session() session.Config {
	return session.Config{
		MaxVisible:     s.Prediction.MaxVisible,
		TopPredictions: s.Prediction.TopPredictions,
		Physics:        s.Physics,
		Gesture:        s.Gesture,
		Layout:         s.Layout,
	}
}

// Resolve returns the settings with relative paths joined to dir.
func (s Settings) Resolve(dir string) Settings {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	s.Paths.Dictionary = join(s.Paths.Dictionary)
	s.Paths.Concepts = join(s.Paths.Concepts)
	s.Paths.Hanzi = join(s.Paths.Hanzi)
	s.Paths.Database = join(s.Paths.Database)
	s.Paths.Font = join(s.Paths.Font)
	s.Logging.File = join(s.Logging.File)
	return s
}

// Sources returns the dictionary feeds named by the settings.
func (s Settings) Sources() dictionary.Sources {
	return dictionary.Sources{
		Dictionary: s.Paths.Dictionary,
		Concepts:   s.Paths.Concepts,
		Hanzi:      s.Paths.Hanzi,
	}
}

// Load reads settings from a YAML file. Fields the file omits keep their
// defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

// LoadDir loads settings.yaml from dir, falling back to defaults when the
// file does not exist. Paths in the result are resolved against dir.
func LoadDir(dir string) (Settings, error) {
	s, err := Load(filepath.Join(dir, SettingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return Default().Resolve(dir), nil
	}
	if err != nil {
		return s, err
	}
	return s.Resolve(dir), nil
}

// Save writes settings to a YAML file.
func Save(path string, s Settings) error {
	out, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dive"), nil
}

// EnsureDir creates dir if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}
