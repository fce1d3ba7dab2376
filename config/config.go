// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Clock     ClockConfig     `yaml:"clock"`
	Predator  PredatorConfig  `yaml:"predator"`
	Prey      PreyConfig      `yaml:"prey"`
	Scorers   ScorersConfig   `yaml:"scorers"`
	Thinker   ThinkerConfig   `yaml:"thinker"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the camera framing of the world.
type WorldConfig struct {
	CameraHeight float64 `yaml:"camera_height"` // Top-down camera distance above the z=0 plane
	CameraFOV    float64 `yaml:"camera_fov"`    // Vertical field of view in degrees
}

// ClockConfig holds the two simulation clocks.
type ClockConfig struct {
	FixedHz float64 `yaml:"fixed_hz"` // Steps per second of the physiological clock
	FrameDT float64 `yaml:"frame_dt"` // Frame delta used by headless runs (seconds)
}

// PredatorConfig holds predator attributes and action rates.
type PredatorConfig struct {
	InitialHunger float64 `yaml:"initial_hunger"`
	HungerPerStep float64 `yaml:"hunger_per_step"` // Added on every fixed step
	Speed         float64 `yaml:"speed"`           // Pursue speed, world units per second
	EatRate       float64 `yaml:"eat_rate"`        // Points consumed per second of eating
}

// PreyConfig holds prey population parameters.
type PreyConfig struct {
	Count  int     `yaml:"count"`
	Points float64 `yaml:"points"` // Remaining value of a fresh prey
	Spread float64 `yaml:"spread"` // Side length of the square spawn region
}

// ScorersConfig holds scorer constants.
type ScorersConfig struct {
	Distance float64 `yaml:"distance"` // Range of the distance scorer
}

// ThinkerConfig holds the predator's behavior tree parameters.
type ThinkerConfig struct {
	Picker          string  `yaml:"picker"`           // first_to_score or highest
	PickerThreshold float64 `yaml:"picker_threshold"` // Minimum score a choice needs to be picked
	GateThreshold   float64 `yaml:"gate_threshold"`   // AllOrNothing threshold for eat+pursue
	RestFallback    bool    `yaml:"rest_fallback"`    // Rest when nothing else qualifies
}

// Picker names accepted by thinker.picker.
const (
	PickerFirstToScore = "first_to_score"
	PickerHighest      = "highest"
)

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FixedStep32  float32 // 1 / Clock.FixedHz
	FrameDT32    float32 // Clock.FrameDT as float32
	HungerStep32 float32 // Predator.HungerPerStep as float32
	Speed32      float32 // Predator.Speed as float32
	EatRate32    float32 // Predator.EatRate as float32
	PreyPoints32 float32 // Prey.Points as float32
	Distance32   float32 // Scorers.Distance as float32
	PickerThresh float32 // Thinker.PickerThreshold as float32
	GateThresh   float32 // Thinker.GateThreshold as float32
	InitHunger32 float32 // Predator.InitialHunger as float32
	CameraFOVRad float32 // World.CameraFOV in radians
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects values the simulation cannot run with.
// Thresholds outside [0,1] are clamped rather than rejected.
func (c *Config) Validate() error {
	var errs []error
	if c.Clock.FixedHz <= 0 {
		errs = append(errs, fmt.Errorf("clock.fixed_hz must be positive, got %v", c.Clock.FixedHz))
	}
	if c.Clock.FrameDT <= 0 {
		errs = append(errs, fmt.Errorf("clock.frame_dt must be positive, got %v", c.Clock.FrameDT))
	}
	if c.Predator.Speed < 0 {
		errs = append(errs, fmt.Errorf("predator.speed must not be negative, got %v", c.Predator.Speed))
	}
	if c.Predator.EatRate < 0 {
		errs = append(errs, fmt.Errorf("predator.eat_rate must not be negative, got %v", c.Predator.EatRate))
	}
	if c.Prey.Count < 0 {
		errs = append(errs, fmt.Errorf("prey.count must not be negative, got %d", c.Prey.Count))
	}
	if c.Prey.Points <= 0 {
		errs = append(errs, fmt.Errorf("prey.points must be positive, got %v", c.Prey.Points))
	}
	switch c.Thinker.Picker {
	case PickerFirstToScore, PickerHighest:
	default:
		errs = append(errs, fmt.Errorf("thinker.picker must be %q or %q, got %q", PickerFirstToScore, PickerHighest, c.Thinker.Picker))
	}
	if c.Scorers.Distance < 0 {
		errs = append(errs, fmt.Errorf("scorers.distance must not be negative, got %v", c.Scorers.Distance))
	}

	c.Thinker.PickerThreshold = clamp01(c.Thinker.PickerThreshold)
	c.Thinker.GateThreshold = clamp01(c.Thinker.GateThreshold)
	c.Predator.InitialHunger = clamp01(c.Predator.InitialHunger)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FixedStep32 = float32(1.0 / c.Clock.FixedHz)
	c.Derived.FrameDT32 = float32(c.Clock.FrameDT)
	c.Derived.HungerStep32 = float32(c.Predator.HungerPerStep)
	c.Derived.Speed32 = float32(c.Predator.Speed)
	c.Derived.EatRate32 = float32(c.Predator.EatRate)
	c.Derived.PreyPoints32 = float32(c.Prey.Points)
	c.Derived.Distance32 = float32(c.Scorers.Distance)
	c.Derived.PickerThresh = float32(c.Thinker.PickerThreshold)
	c.Derived.GateThresh = float32(c.Thinker.GateThreshold)
	c.Derived.InitHunger32 = float32(c.Predator.InitialHunger)
	c.Derived.CameraFOVRad = float32(c.World.CameraFOV * math.Pi / 180)
}

// Recompute refreshes derived values after fields were edited in place.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
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

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
