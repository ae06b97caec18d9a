// Package config provides configuration loading and access for the engine
// demo and tools.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/cinder/particles"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runtime configuration parameters.
type Config struct {
	Screen    ScreenConfig             `yaml:"screen"`
	Sim       SimConfig                `yaml:"sim"`
	Camera    CameraConfig             `yaml:"camera"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`
	Effects   []particles.EffectConfig `yaml:"effects"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds simulation stepping parameters.
type SimConfig struct {
	DT             float64 `yaml:"dt"`               // Seconds per simulation tick
	StepsPerUpdate int     `yaml:"steps_per_update"` // Ticks per rendered frame
	Effect         string  `yaml:"effect"`           // Name of the effect preset to run
}

// CameraConfig holds the orbit camera's starting pose.
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Yaw      float64 `yaml:"yaw"`   // Radians around the vertical axis
	Pitch    float64 `yaml:"pitch"` // Radians above the horizontal plane
	FOV      float64 `yaml:"fov"`   // Vertical field of view in degrees
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32        // Screen.Width as float32
	ScreenH32   float32        // Screen.Height as float32
	EffectIndex map[string]int // name -> index into Effects
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	cfg.computeDerived()
	return cfg, nil
}

// Effect returns the effect preset named by Sim.Effect.
func (c *Config) Effect() (particles.EffectConfig, error) {
	i, ok := c.Derived.EffectIndex[c.Sim.Effect]
	if !ok {
		return particles.EffectConfig{}, fmt.Errorf("unknown effect %q", c.Sim.Effect)
	}
	return c.Effects[i], nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.EffectIndex = make(map[string]int, len(c.Effects))
	for i, eff := range c.Effects {
		c.Derived.EffectIndex[eff.Name] = i
	}
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
