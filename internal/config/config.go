// Package config loads the YAML configuration for wigglybands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"wigglybands/internal/band"
	"wigglybands/internal/sim"
)

// Config holds all configuration.
type Config struct {
	Field      FieldConfig      `yaml:"field"`
	Simulation SimulationConfig `yaml:"simulation"`
	Audio      AudioConfig      `yaml:"audio"`
	Render     RenderConfig     `yaml:"render"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// FieldConfig is the size of the simulated field in field units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationConfig configures collision behavior and the force model.
type SimulationConfig struct {
	band.Chances `yaml:",inline"`

	SpeedLimit     float64 `yaml:"speed_limit"`
	ChargeStrength float64 `yaml:"charge_strength"`
	TetherStrength float64 `yaml:"tether_strength"`
	Physics        bool    `yaml:"physics"`
	Debounce       string  `yaml:"debounce"` // contact debounce window, e.g. "100ms"

	Seed              int64  `yaml:"seed"` // 0 picks a time-based seed
	InitialBands      int    `yaml:"initial_bands"`
	AutoSpawn         bool   `yaml:"auto_spawn"`
	AutoSpawnInterval string `yaml:"auto_spawn_interval"`
	MaxBands          int    `yaml:"max_bands"` // auto spawn stops at this count
}

// AudioConfig configures band sonification.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
	MaxVoices  int     `yaml:"max_voices"`
}

// RenderConfig configures the window and overlay.
type RenderConfig struct {
	Scale       float64 `yaml:"scale"` // window pixels per field unit
	Segments    int     `yaml:"segments"`
	ShowOverlay bool    `yaml:"show_overlay"`
	ShowTethers bool    `yaml:"show_tethers"`
}

// StoreConfig configures scene persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	s := sim.DefaultSettings()
	return &Config{
		Field: FieldConfig{
			Width:  s.Bounds.Width,
			Height: s.Bounds.Height,
		},

		Simulation: SimulationConfig{
			Chances:           s.Chances,
			SpeedLimit:        s.SpeedLimit,
			ChargeStrength:    s.ChargeStrength,
			TetherStrength:    s.TetherStrength,
			Physics:           s.PhysicsEnabled,
			Debounce:          "100ms",
			InitialBands:      12,
			AutoSpawn:         false,
			AutoSpawnInterval: "2s",
			MaxBands:          64,
		},

		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 48000,
			Volume:     0.5,
			MaxVoices:  16,
		},

		Render: RenderConfig{
			Scale:       1,
			Segments:    72,
			ShowOverlay: true,
			ShowTethers: true,
		},

		Store: StoreConfig{
			Path: "data/wigglybands.db",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("WIGGLY_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WIGGLY_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("WIGGLY_STORE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("WIGGLY_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := parseDuration("debounce", c.Simulation.Debounce); err != nil {
		errs = append(errs, err)
	}
	if err := c.settings(0).Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.AutoSpawnInterval(); err != nil {
		errs = append(errs, err)
	}
	if c.Simulation.InitialBands < 0 {
		errs = append(errs, fmt.Errorf("initial_bands %d must not be negative", c.Simulation.InitialBands))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio sample_rate %d must be positive", c.Audio.SampleRate))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %v outside [0,1]", c.Audio.Volume))
	}
	if c.Render.Scale <= 0 {
		errs = append(errs, fmt.Errorf("render scale %v must be positive", c.Render.Scale))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// Settings maps the simulation and field sections onto world settings.
func (c *Config) Settings() (sim.Settings, error) {
	debounce, err := parseDuration("debounce", c.Simulation.Debounce)
	if err != nil {
		return sim.Settings{}, err
	}
	s := c.settings(debounce)
	if s.HarmonizeBehavior, err = band.ParseHarmonizeMode(string(s.HarmonizeBehavior)); err != nil {
		return sim.Settings{}, err
	}
	if s.MergeMode, err = band.ParseMergeMode(string(s.MergeMode)); err != nil {
		return sim.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return sim.Settings{}, err
	}
	return s, nil
}

func (c *Config) settings(debounce time.Duration) sim.Settings {
	return sim.Settings{
		Chances:        c.Simulation.Chances,
		Bounds:         band.Bounds{Width: c.Field.Width, Height: c.Field.Height},
		SpeedLimit:     c.Simulation.SpeedLimit,
		ChargeStrength: c.Simulation.ChargeStrength,
		TetherStrength: c.Simulation.TetherStrength,
		PhysicsEnabled: c.Simulation.Physics,
		DebounceWindow: debounce.Seconds(),
	}
}

// AutoSpawnInterval parses the auto spawn interval.
func (c *Config) AutoSpawnInterval() (time.Duration, error) {
	return parseDuration("auto_spawn_interval", c.Simulation.AutoSpawnInterval)
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s %s must not be negative", name, v)
	}
	return d, nil
}
