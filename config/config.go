// Package config provides configuration loading for the trainer.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/neuralcar/evolution"
	"github.com/pthm-cable/neuralcar/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all trainer configuration parameters.
type Config struct {
	Genetics  evolution.Config `yaml:"genetics"`
	Network   NetworkConfig    `yaml:"network"`
	Track     TrackConfig      `yaml:"track"`
	Car       CarConfig        `yaml:"car"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Training  TrainingConfig   `yaml:"training"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// NetworkConfig holds the controller topology.
type NetworkConfig struct {
	Layers []int `yaml:"layers"` // Widths from input to output, e.g. [5, 4, 2]
}

// TrackConfig describes a stadium-shaped track: a corridor between two walls at
// inner and outer radius from a horizontal spine of length 2*half_length.
type TrackConfig struct {
	CenterX     float64 `yaml:"center_x"`
	CenterY     float64 `yaml:"center_y"`
	HalfLength  float64 `yaml:"half_length"` // 0 = ring
	InnerRadius float64 `yaml:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius"`
}

// CarConfig holds car handling and sensor parameters.
type CarConfig struct {
	MaxSpeed       float64   `yaml:"max_speed"`
	DriveForce     float64   `yaml:"drive_force"`
	Drag           float64   `yaml:"drag"`
	MaxTurnRateDeg float64   `yaml:"max_turn_rate_deg"`
	RayLength      float64   `yaml:"ray_length"`
	RayAnglesDeg   []float64 `yaml:"ray_angles_deg"`
	StartAngleDeg  float64   `yaml:"start_angle_deg"`
}

// PhysicsConfig holds the fixed time step.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// TrainingConfig holds trial and run limits.
type TrainingConfig struct {
	MaxTrialTicks           int `yaml:"max_trial_ticks"`
	TargetLaps              int `yaml:"target_laps"`               // Leader laps that end training successfully
	RestartAfterGenerations int `yaml:"restart_after_generations"` // Reseed when no lap was completed by then
	MaxGenerations          int `yaml:"max_generations"`           // 0 = unlimited
	HallOfFameSize          int `yaml:"hall_of_fame_size"`
	ReseedCount             int `yaml:"reseed_count"`       // Hall of fame entries carried into a restart
	ParallelThreshold       int `yaml:"parallel_threshold"` // Minimum active cars to evaluate brains concurrently
}

// TelemetryConfig holds logging cadence.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"` // Generations between progress logs
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GeneCount  int       // Genes per genotype for Network.Layers
	RayAngles  []float64 // Car.RayAnglesDeg in radians
	TurnRate   float64   // Car.MaxTurnRateDeg in radians
	StartAngle float64   // Car.StartAngleDeg in radians
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

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults. It panics if they are invalid, which
// can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: invalid embedded defaults: %v", err))
	}
	return cfg
}

// Refresh recomputes derived values and validates after fields were changed in code.
func (c *Config) Refresh() error {
	if err := c.computeDerived(); err != nil {
		return err
	}
	return c.Validate()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	count, err := neural.GeneCount(c.Network.Layers)
	if err != nil {
		return fmt.Errorf("network layers: %w", err)
	}
	c.Derived.GeneCount = count

	c.Derived.RayAngles = make([]float64, len(c.Car.RayAnglesDeg))
	for i, deg := range c.Car.RayAnglesDeg {
		c.Derived.RayAngles[i] = deg * math.Pi / 180
	}
	c.Derived.TurnRate = c.Car.MaxTurnRateDeg * math.Pi / 180
	c.Derived.StartAngle = c.Car.StartAngleDeg * math.Pi / 180
	return nil
}

// Validate checks cross-field constraints. Errors wrap neural.ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.Genetics.Validate(); err != nil {
		return fmt.Errorf("genetics: %w", err)
	}

	layers := c.Network.Layers
	if len(layers) < 2 {
		return fmt.Errorf("%w: network needs at least 2 layers", neural.ErrConfiguration)
	}
	if layers[0] != len(c.Car.RayAnglesDeg) {
		return fmt.Errorf("%w: input layer width %d does not match %d sensor rays",
			neural.ErrConfiguration, layers[0], len(c.Car.RayAnglesDeg))
	}
	if layers[len(layers)-1] != 2 {
		return fmt.Errorf("%w: output layer must have 2 neurons (steering, throttle), got %d",
			neural.ErrConfiguration, layers[len(layers)-1])
	}

	if c.Track.InnerRadius <= 0 || c.Track.OuterRadius <= c.Track.InnerRadius {
		return fmt.Errorf("%w: track radii must satisfy 0 < inner (%v) < outer (%v)",
			neural.ErrConfiguration, c.Track.InnerRadius, c.Track.OuterRadius)
	}
	if c.Track.HalfLength < 0 {
		return fmt.Errorf("%w: track half length must not be negative", neural.ErrConfiguration)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics dt must be positive", neural.ErrConfiguration)
	}
	if c.Training.MaxTrialTicks <= 0 {
		return fmt.Errorf("%w: max trial ticks must be positive", neural.ErrConfiguration)
	}
	if c.Training.TargetLaps < 1 {
		return fmt.Errorf("%w: target laps must be at least 1, got %d", neural.ErrConfiguration, c.Training.TargetLaps)
	}
	if c.Training.RestartAfterGenerations < 1 {
		return fmt.Errorf("%w: restart after generations must be at least 1, got %d",
			neural.ErrConfiguration, c.Training.RestartAfterGenerations)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Bytes returns the effective configuration as YAML.
func (c *Config) Bytes() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
