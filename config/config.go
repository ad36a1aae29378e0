// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   KindConfig      `yaml:"physics"`
	Liquid    KindConfig      `yaml:"liquid"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Grid      GridConfig      `yaml:"grid"`
	Effects   EffectsConfig   `yaml:"effects"`
	Theme     ThemeConfig     `yaml:"theme"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// Range is an inclusive-exclusive [Min, Max) interval for randomized spawn values.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// KindConfig holds the constant bundle and seed parameters for one particle kind.
type KindConfig struct {
	SeedCount        int       `yaml:"seed_count"`
	AttractionRadius float64   `yaml:"attraction_radius"`
	AttractionGain   float64   `yaml:"attraction_gain"`
	Gravity          float64   `yaml:"gravity"`     // Added to vy each tick (physics only)
	Friction         float64   `yaml:"friction"`    // Velocity scale after integration (physics only)
	Restitution      float64   `yaml:"restitution"` // Fraction of velocity kept on a wall bounce
	OpacityScale     float64   `yaml:"opacity_scale"`
	Blur             bool      `yaml:"blur"`
	SpawnChance      float64   `yaml:"spawn_chance"` // Per-tick top-up probability (liquid only)
	Speed            Range     `yaml:"speed"`        // Seed velocity per axis
	Size             Range     `yaml:"size"`
	Decay            Range     `yaml:"decay"`
	Viscosity        Range     `yaml:"viscosity"`
	Palette          []string  `yaml:"palette"` // Hex colors
	PaletteAlpha     []float64 `yaml:"palette_alpha"`
}

// ExplosionConfig holds the click burst parameters.
type ExplosionConfig struct {
	Count int     `yaml:"count"`
	Speed Range   `yaml:"speed"`
	Size  Range   `yaml:"size"`
	Decay float64 `yaml:"decay"`
}

// GridConfig holds the deformation field parameters.
type GridConfig struct {
	Spacing            float64 `yaml:"spacing"`
	DistortionStrength float64 `yaml:"distortion_strength"`
	WaveAmplitude      float64 `yaml:"wave_amplitude"`
	Opacity            float64 `yaml:"opacity"`
	InfluenceRadius    float64 `yaml:"influence_radius"`
	Easing             float64 `yaml:"easing"`
	FixedTimeStep      float64 `yaml:"fixed_time_step"` // 0 = wall clock
}

// EffectsConfig holds presentation radii for the grid decorations.
type EffectsConfig struct {
	ConnectorRadius float64 `yaml:"connector_radius"`
	HoverRadius     float64 `yaml:"hover_radius"`
	OrbRadius       float64 `yaml:"orb_radius"`
	RingSegments    int     `yaml:"ring_segments"`
	MagneticRings   bool    `yaml:"magnetic_rings"`
	Ripples         bool    `yaml:"ripples"`
	EnergyLines     bool    `yaml:"energy_lines"`
	Orbs            bool    `yaml:"orbs"`
}

// ThemeConfig holds color theme settings.
type ThemeConfig struct {
	Dark       bool   `yaml:"dark"`
	Background string `yaml:"background"`
	Light      string `yaml:"light_background"`
}

// HeadlessConfig holds the scripted pointer used without a window.
type HeadlessConfig struct {
	OrbitRadius   float64 `yaml:"orbit_radius"`
	OrbitSpeed    float64 `yaml:"orbit_speed"` // Radians per frame
	ClickInterval int     `yaml:"click_interval"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT              float64          // Seconds per frame at the target FPS
	ScreenW         float64          // Screen.Width as float64
	ScreenH         float64          // Screen.Height as float64
	PhysicsColors   []colorful.Color // Parsed Physics.Palette
	LiquidColors    []colorful.Color // Parsed Liquid.Palette
	DarkBackground  colorful.Color
	LightBackground colorful.Color
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

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1.0 / float64(fps)
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	var err error
	if c.Derived.PhysicsColors, err = parsePalette(c.Physics.Palette); err != nil {
		return fmt.Errorf("physics palette: %w", err)
	}
	if c.Derived.LiquidColors, err = parsePalette(c.Liquid.Palette); err != nil {
		return fmt.Errorf("liquid palette: %w", err)
	}
	if c.Derived.DarkBackground, err = colorful.Hex(c.Theme.Background); err != nil {
		return fmt.Errorf("theme background: %w", err)
	}
	if c.Derived.LightBackground, err = colorful.Hex(c.Theme.Light); err != nil {
		return fmt.Errorf("theme light background: %w", err)
	}
	return nil
}

func parsePalette(hexes []string) ([]colorful.Color, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("color %d (%q): %w", i, h, err)
		}
		colors[i] = c
	}
	return colors, nil
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
