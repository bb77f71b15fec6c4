package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 1.0, cfg.Earth.Mass)
	assert.Equal(t, 64.0, cfg.Earth.Radius)
	assert.Equal(t, 0.0123, cfg.Moon.Mass)
	assert.Equal(t, 10.0, cfg.Moon.Radius)
	assert.Equal(t, 3800.0, cfg.Moon.X)
	assert.Equal(t, 1.0, cfg.Rocket.BodyMass)
	assert.Equal(t, 1.0, cfg.Rocket.EngineMass)
	assert.Equal(t, 10.0, cfg.Rocket.FuelMass)
	assert.Equal(t, 0.01, cfg.Rocket.Thrust)
	assert.Equal(t, 0.001, cfg.Rocket.FuelConsumption)
	assert.Equal(t, 100.0, cfg.Rocket.Altitude)
	assert.Equal(t, 5*time.Millisecond, cfg.Simulation.PhysicsInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.AnalysisInterval)
	assert.False(t, cfg.Simulation.RocketGravity)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	content := `
simulation:
  timeStep: 0.5
  physicsInterval: 10ms
  rocketGravity: true
rocket:
  fuelMass: 3
logLevel: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Simulation.TimeStep)
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.PhysicsInterval)
	assert.True(t, cfg.Simulation.RocketGravity)
	assert.Equal(t, 3.0, cfg.Rocket.FuelMass)
	assert.Equal(t, "DEBUG", cfg.LogLevel)

	// untouched keys keep their defaults
	assert.Equal(t, 100*time.Millisecond, cfg.Simulation.AnalysisInterval)
	assert.Equal(t, 0.0123, cfg.Moon.Mass)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.json")
	content := `{"moon": {"mass": 0.02, "x": 4000}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.Moon.Mass)
	assert.Equal(t, 4000.0, cfg.Moon.X)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOONMISSION_SIMULATION_TIMESTEP", "2.5")
	t.Setenv("MOONMISSION_ROCKET_THRUST", "0.05")
	t.Setenv("MOONMISSION_LOGFORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Simulation.TimeStep)
	assert.Equal(t, 0.05, cfg.Rocket.Thrust)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  timeStep: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSave_RoundTrip(t *testing.T) {
	for _, ext := range []string{"yaml", "json", "toml"} {
		t.Run(ext, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Rocket.FuelMass = 7
			cfg.Simulation.PhysicsInterval = 20 * time.Millisecond

			path := filepath.Join(t.TempDir(), "mission."+ext)
			require.NoError(t, Save(cfg, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestSave_NilConfig(t *testing.T) {
	err := Save(nil, filepath.Join(t.TempDir(), "mission.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSave_InvalidPath(t *testing.T) {
	err := Save(DefaultConfig(), filepath.Join(t.TempDir(), "missing", "dir", "mission.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero time step", func(c *Config) { c.Simulation.TimeStep = 0 }},
		{"zero physics interval", func(c *Config) { c.Simulation.PhysicsInterval = 0 }},
		{"zero analysis interval", func(c *Config) { c.Simulation.AnalysisInterval = 0 }},
		{"zero prediction budget", func(c *Config) { c.Simulation.MaxPredictionSteps = 0 }},
		{"massless earth", func(c *Config) { c.Earth.Mass = 0 }},
		{"negative moon mass", func(c *Config) { c.Moon.Mass = -1 }},
		{"moon on earth", func(c *Config) { c.Moon.X = 0 }},
		{"negative fuel", func(c *Config) { c.Rocket.FuelMass = -1 }},
		{"massless rocket", func(c *Config) {
			c.Rocket.BodyMass, c.Rocket.EngineMass, c.Rocket.FuelMass = 0, 0, 0
		}},
		{"negative thrust", func(c *Config) { c.Rocket.Thrust = -0.1 }},
		{"zero altitude", func(c *Config) { c.Rocket.Altitude = 0 }},
		{"zero breaker failures", func(c *Config) { c.Breaker.ConsecutiveFailures = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "LOUD" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
