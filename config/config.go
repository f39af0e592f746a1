// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gabor/kernel"
	"github.com/pthm-cable/gabor/palette"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Kernel    KernelConfig    `yaml:"kernel"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Grids     []string        `yaml:"grids"`
	Palettes  []string        `yaml:"palettes"`
	Tiers     []TierConfig    `yaml:"tiers"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"` // On-screen patch size in pixels
	CellGap   int `yaml:"cell_gap"`  // Gap between patches in pixels
}

// KernelConfig holds the fixed patch generation parameters shared by every tier.
type KernelConfig struct {
	Size        int     `yaml:"size"`
	Sigma       float64 `yaml:"sigma"`
	AspectRatio float64 `yaml:"aspect_ratio"`
	Resolution  float64 `yaml:"resolution"`
}

// ScoringConfig holds match/mismatch rules.
type ScoringConfig struct {
	MatchReward     int     `yaml:"match_reward"`
	MismatchPenalty int     `yaml:"mismatch_penalty"`
	MismatchDelayMs int     `yaml:"mismatch_delay_ms"` // How long a mismatched pair stays visible
	AbsTolerance    float64 `yaml:"abs_tolerance"`
	RelTolerance    float64 `yaml:"rel_tolerance"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogSelections bool `yaml:"log_selections"` // Emit a debug record for every selection
}

// DefaultsConfig holds the start screen's initial choices.
type DefaultsConfig struct {
	Palette string `yaml:"palette"`
	Grid    string `yaml:"grid"`
	Tier    string `yaml:"tier"`
}

// TierConfig defines one difficulty tier's parameter space.
// Orientation and phase are in degrees.
type TierConfig struct {
	Name        string     `yaml:"name"`
	Orientation AxisConfig `yaml:"orientation"`
	Wavelength  AxisConfig `yaml:"wavelength"`
	Phase       AxisConfig `yaml:"phase"`
	Contrast    AxisConfig `yaml:"contrast"`
	LockedGrid  string     `yaml:"locked_grid,omitempty"` // Start screen forces this grid
}

// AxisConfig is a finite set of values, given explicitly or as an inclusive span.
type AxisConfig struct {
	Values []float64   `yaml:"values,omitempty"`
	Span   *SpanConfig `yaml:"span,omitempty"`
}

// SpanConfig describes Count evenly spaced samples over [Start, Stop].
type SpanConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Count int     `yaml:"count"`
}

// Expand returns the axis values. Explicit values take precedence over a span.
func (a AxisConfig) Expand() []float64 {
	if len(a.Values) > 0 {
		out := make([]float64, len(a.Values))
		copy(out, a.Values)
		return out
	}
	if a.Span == nil || a.Span.Count <= 0 {
		return nil
	}
	if a.Span.Count == 1 {
		return []float64{a.Span.Start}
	}
	return floats.Span(make([]float64, a.Span.Count), a.Span.Start, a.Span.Stop)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MismatchDelay time.Duration  // Scoring.MismatchDelayMs as a duration
	TierIndex     map[string]int // name -> index into Tiers
	Radians       []TierRadians  // Tiers with angles converted, same order
}

// TierRadians is a tier's expanded axes with angles in radians.
type TierRadians struct {
	Orientations []float64
	Wavelengths  []float64
	Phases       []float64
	Contrasts    []float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the game cannot run with.
func (c *Config) validate() error {
	if c.Kernel.Size <= 0 || c.Kernel.Size%2 == 0 {
		return fmt.Errorf("%w: kernel.size %d must be odd and positive", ErrInvalid, c.Kernel.Size)
	}
	if !finite(c.Kernel.Sigma, c.Kernel.AspectRatio, c.Kernel.Resolution) {
		return fmt.Errorf("%w: kernel values must be finite", ErrInvalid)
	}
	if c.Kernel.Sigma <= 0 || c.Kernel.AspectRatio <= 0 {
		return fmt.Errorf("%w: kernel.sigma and kernel.aspect_ratio must be positive", ErrInvalid)
	}
	if c.Kernel.Resolution < 1 {
		return fmt.Errorf("%w: kernel.resolution %g must be at least 1", ErrInvalid, c.Kernel.Resolution)
	}
	if float64(c.Kernel.Size)*c.Kernel.Resolution > kernel.MaxSamples {
		return fmt.Errorf("%w: kernel.size %d at resolution %g exceeds %d samples per axis",
			ErrInvalid, c.Kernel.Size, c.Kernel.Resolution, kernel.MaxSamples)
	}
	if c.Scoring.MismatchDelayMs < 0 {
		return fmt.Errorf("%w: scoring.mismatch_delay_ms must not be negative", ErrInvalid)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers defined", ErrInvalid)
	}
	if len(c.Grids) == 0 || len(c.Palettes) == 0 {
		return fmt.Errorf("%w: grids and palettes must not be empty", ErrInvalid)
	}

	for _, g := range c.Grids {
		rows, cols, err := ParseGrid(g)
		if err != nil {
			return fmt.Errorf("%w: grids: %v", ErrInvalid, err)
		}
		if rows*cols%2 != 0 {
			return fmt.Errorf("%w: grid %q has an odd cell count", ErrInvalid, g)
		}
	}

	for _, name := range c.Palettes {
		if _, ok := palette.Lookup(name); !ok {
			return fmt.Errorf("%w: unknown palette %q", ErrInvalid, name)
		}
	}

	seen := make(map[string]bool, len(c.Tiers))
	for _, t := range c.Tiers {
		if t.Name == "" {
			return fmt.Errorf("%w: tier without a name", ErrInvalid)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate tier %q", ErrInvalid, t.Name)
		}
		seen[t.Name] = true

		axes := map[string]AxisConfig{
			"orientation": t.Orientation,
			"wavelength":  t.Wavelength,
			"phase":       t.Phase,
			"contrast":    t.Contrast,
		}
		for axis, a := range axes {
			values := a.Expand()
			if len(values) == 0 {
				return fmt.Errorf("%w: tier %q has an empty %s axis", ErrInvalid, t.Name, axis)
			}
			if !finite(values...) {
				return fmt.Errorf("%w: tier %q has a non-finite %s", ErrInvalid, t.Name, axis)
			}
		}
		for _, v := range t.Wavelength.Expand() {
			if v == 0 {
				return fmt.Errorf("%w: tier %q has a zero wavelength", ErrInvalid, t.Name)
			}
		}
		for _, v := range t.Contrast.Expand() {
			if v == 0 {
				return fmt.Errorf("%w: tier %q has a zero contrast", ErrInvalid, t.Name)
			}
		}
		if t.LockedGrid != "" {
			if _, _, err := ParseGrid(t.LockedGrid); err != nil {
				return fmt.Errorf("%w: tier %q: %v", ErrInvalid, t.Name, err)
			}
		}
	}

	if !seen[c.Defaults.Tier] {
		return fmt.Errorf("%w: default tier %q is not defined", ErrInvalid, c.Defaults.Tier)
	}
	if _, _, err := ParseGrid(c.Defaults.Grid); err != nil {
		return fmt.Errorf("%w: defaults: %v", ErrInvalid, err)
	}
	if !slices.Contains(c.Palettes, c.Defaults.Palette) {
		return fmt.Errorf("%w: default palette %q is not offered", ErrInvalid, c.Defaults.Palette)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MismatchDelay = time.Duration(c.Scoring.MismatchDelayMs) * time.Millisecond

	c.Derived.TierIndex = make(map[string]int, len(c.Tiers))
	c.Derived.Radians = make([]TierRadians, len(c.Tiers))
	for i, t := range c.Tiers {
		c.Derived.TierIndex[t.Name] = i
		c.Derived.Radians[i] = TierRadians{
			Orientations: degreesToRadians(t.Orientation.Expand()),
			Wavelengths:  t.Wavelength.Expand(),
			Phases:       degreesToRadians(t.Phase.Expand()),
			Contrasts:    t.Contrast.Expand(),
		}
	}
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Tier returns the tier named name.
func (c *Config) Tier(name string) (TierConfig, bool) {
	i, ok := c.Derived.TierIndex[name]
	if !ok {
		return TierConfig{}, false
	}
	return c.Tiers[i], true
}

// TierNames returns tier names in configured order.
func (c *Config) TierNames() []string {
	names := make([]string, len(c.Tiers))
	for i, t := range c.Tiers {
		names[i] = t.Name
	}
	return names
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ParseGrid parses a "RxC" grid label into rows and columns.
func ParseGrid(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("grid %q: expected RxC", s)
	}
	rows, err = strconv.Atoi(r)
	if err != nil {
		return 0, 0, fmt.Errorf("grid %q: rows: %w", s, err)
	}
	cols, err = strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("grid %q: cols: %w", s, err)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, fmt.Errorf("grid %q: dimensions must be positive", s)
	}
	return rows, cols, nil
}

// FormatGrid is the inverse of ParseGrid.
func FormatGrid(rows, cols int) string {
	return fmt.Sprintf("%dx%d", rows, cols)
}

func degreesToRadians(deg []float64) []float64 {
	out := make([]float64, len(deg))
	for i, d := range deg {
		out[i] = d * math.Pi / 180
	}
	return out
}
