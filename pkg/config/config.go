// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate and Load for out-of-range values.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix is prepended to every environment override, e.g.
// MOONMISSION_SIMULATION_TIMESTEP.
const EnvPrefix = "MOONMISSION"

// Config contains configuration for a moon mission simulation
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" json:"simulation" yaml:"simulation"`
	Earth      PlanetConfig     `mapstructure:"earth" json:"earth" yaml:"earth"`
	Moon       PlanetConfig     `mapstructure:"moon" json:"moon" yaml:"moon"`
	Rocket     RocketConfig     `mapstructure:"rocket" json:"rocket" yaml:"rocket"`
	Breaker    BreakerConfig    `mapstructure:"breaker" json:"breaker" yaml:"breaker"`
	LogLevel   string           `mapstructure:"logLevel" json:"logLevel" yaml:"logLevel"`
	LogFormat  string           `mapstructure:"logFormat" json:"logFormat" yaml:"logFormat"`
}

// SimulationConfig contains stepping and prediction parameters
type SimulationConfig struct {
	// TimeStep is the dt handed to every physics step.
	TimeStep float64 `mapstructure:"timeStep" json:"timeStep" yaml:"timeStep"`
	// PhysicsInterval is the wall-clock period of the live physics loop.
	PhysicsInterval time.Duration `mapstructure:"physicsInterval" json:"physicsInterval" yaml:"physicsInterval"`
	// AnalysisInterval is the wall-clock period of the prediction loop.
	AnalysisInterval time.Duration `mapstructure:"analysisInterval" json:"analysisInterval" yaml:"analysisInterval"`
	// MaxPredictionSteps bounds the number of steps one prediction may run.
	MaxPredictionSteps int `mapstructure:"maxPredictionSteps" json:"maxPredictionSteps" yaml:"maxPredictionSteps"`
	// RocketGravity makes the rocket attract earth and moon as well.
	RocketGravity bool `mapstructure:"rocketGravity" json:"rocketGravity" yaml:"rocketGravity"`
}

// PlanetConfig contains configuration for a celestial body. The moon's
// position is measured from the earth and it starts on a circular orbit.
type PlanetConfig struct {
	Mass   float64 `mapstructure:"mass" json:"mass" yaml:"mass"`
	Radius float64 `mapstructure:"radius" json:"radius" yaml:"radius"`
	X      float64 `mapstructure:"x" json:"x" yaml:"x"`
	Y      float64 `mapstructure:"y" json:"y" yaml:"y"`
}

// RocketConfig contains configuration for the rocket. It starts Altitude
// units above the earth's center on a circular orbit.
type RocketConfig struct {
	BodyMass        float64 `mapstructure:"bodyMass" json:"bodyMass" yaml:"bodyMass"`
	EngineMass      float64 `mapstructure:"engineMass" json:"engineMass" yaml:"engineMass"`
	FuelMass        float64 `mapstructure:"fuelMass" json:"fuelMass" yaml:"fuelMass"`
	Thrust          float64 `mapstructure:"thrust" json:"thrust" yaml:"thrust"`
	FuelConsumption float64 `mapstructure:"fuelConsumption" json:"fuelConsumption" yaml:"fuelConsumption"`
	Altitude        float64 `mapstructure:"altitude" json:"altitude" yaml:"altitude"`
}

// BreakerConfig tunes the circuit breaker guarding the prediction loop
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"maxRequests" json:"maxRequests" yaml:"maxRequests"`
	Interval            time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
	Timeout             time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutiveFailures" json:"consecutiveFailures" yaml:"consecutiveFailures"`
}

// DefaultConfig returns the reference mission: an earth of unit mass, a
// moon 3800 units away and a rocket in low orbit.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TimeStep:           1,
			PhysicsInterval:    5 * time.Millisecond,
			AnalysisInterval:   100 * time.Millisecond,
			MaxPredictionSteps: 200000,
			RocketGravity:      false,
		},
		Earth: PlanetConfig{
			Mass:   1.0,
			Radius: 64,
		},
		Moon: PlanetConfig{
			Mass:   0.0123,
			Radius: 10,
			X:      3800,
		},
		Rocket: RocketConfig{
			BodyMass:        1,
			EngineMass:      1,
			FuelMass:        10,
			Thrust:          0.01,
			FuelConsumption: 0.001,
			Altitude:        100,
		},
		Breaker: BreakerConfig{
			MaxRequests:         1,
			Interval:            time.Minute,
			Timeout:             5 * time.Second,
			ConsecutiveFailures: 3,
		},
		LogLevel:  "INFO",
		LogFormat: "text",
	}
}

// settings flattens the config into viper keys. Durations are rendered as
// strings so written files stay readable.
func (c *Config) settings() map[string]any {
	return map[string]any{
		"simulation.timeStep":           c.Simulation.TimeStep,
		"simulation.physicsInterval":    c.Simulation.PhysicsInterval.String(),
		"simulation.analysisInterval":   c.Simulation.AnalysisInterval.String(),
		"simulation.maxPredictionSteps": c.Simulation.MaxPredictionSteps,
		"simulation.rocketGravity":      c.Simulation.RocketGravity,
		"earth.mass":                    c.Earth.Mass,
		"earth.radius":                  c.Earth.Radius,
		"earth.x":                       c.Earth.X,
		"earth.y":                       c.Earth.Y,
		"moon.mass":                     c.Moon.Mass,
		"moon.radius":                   c.Moon.Radius,
		"moon.x":                        c.Moon.X,
		"moon.y":                        c.Moon.Y,
		"rocket.bodyMass":               c.Rocket.BodyMass,
		"rocket.engineMass":             c.Rocket.EngineMass,
		"rocket.fuelMass":               c.Rocket.FuelMass,
		"rocket.thrust":                 c.Rocket.Thrust,
		"rocket.fuelConsumption":        c.Rocket.FuelConsumption,
		"rocket.altitude":               c.Rocket.Altitude,
		"breaker.maxRequests":           c.Breaker.MaxRequests,
		"breaker.interval":              c.Breaker.Interval.String(),
		"breaker.timeout":               c.Breaker.Timeout.String(),
		"breaker.consecutiveFailures":   c.Breaker.ConsecutiveFailures,
		"logLevel":                      c.LogLevel,
		"logFormat":                     c.LogFormat,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range DefaultConfig().settings() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load builds a configuration from defaults, the optional file at path
// (format chosen by extension) and MOONMISSION_* environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to path; the extension selects the format
// (json, yaml, yml or toml).
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	v := viper.New()
	for key, value := range cfg.settings() {
		v.Set(key, value)
	}
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports the first out-of-range field
func (c *Config) Validate() error {
	checks := []struct {
		field string
		ok    bool
	}{
		{"simulation.timeStep", c.Simulation.TimeStep > 0},
		{"simulation.physicsInterval", c.Simulation.PhysicsInterval > 0},
		{"simulation.analysisInterval", c.Simulation.AnalysisInterval > 0},
		{"simulation.maxPredictionSteps", c.Simulation.MaxPredictionSteps > 0},
		{"earth.mass", c.Earth.Mass > 0},
		{"earth.radius", c.Earth.Radius >= 0},
		{"moon.mass", c.Moon.Mass >= 0},
		{"moon.radius", c.Moon.Radius >= 0},
		{"moon position", c.Moon.X != c.Earth.X || c.Moon.Y != c.Earth.Y},
		{"rocket.bodyMass", c.Rocket.BodyMass >= 0},
		{"rocket.engineMass", c.Rocket.EngineMass >= 0},
		{"rocket.fuelMass", c.Rocket.FuelMass >= 0},
		{"rocket mass", c.Rocket.BodyMass+c.Rocket.EngineMass+c.Rocket.FuelMass > 0},
		{"rocket.thrust", c.Rocket.Thrust >= 0},
		{"rocket.fuelConsumption", c.Rocket.FuelConsumption >= 0},
		{"rocket.altitude", c.Rocket.Altitude > 0},
		{"breaker.interval", c.Breaker.Interval >= 0},
		{"breaker.timeout", c.Breaker.Timeout >= 0},
		{"breaker.consecutiveFailures", c.Breaker.ConsecutiveFailures > 0},
		{"logLevel", validLogLevel(c.LogLevel)},
		{"logFormat", validLogFormat(c.LogFormat)},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, check.field)
		}
	}
	return nil
}

func validLogLevel(level string) bool {
	switch strings.ToUpper(level) {
	case "", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

func validLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", "text", "json", "logfmt":
		return true
	}
	return false
}
