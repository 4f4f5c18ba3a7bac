package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModelPendulum, cfg.Model)
	assert.Positive(t, cfg.Duration)
	assert.Positive(t, cfg.Samples)
	assert.InDelta(t, 9.81, cfg.Params.Gravity, 1e-12)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(ModelPendulum, "small")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.2, cfg.InitState.Theta)
	require.NoError(t, cfg.Validate())

	cfg.InitState.Theta = 9
	assert.Equal(t, 0.2, GetPreset(ModelPendulum, "small").InitState.Theta, "GetPreset must return a copy")
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset(ModelPendulum, "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "small"))
}

func TestAllPresetsValidate(t *testing.T) {
	for model := range Presets {
		for _, name := range ListPresets(model) {
			cfg := GetPreset(model, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
			assert.Equal(t, model, cfg.Model)
		}
	}
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"damped", "large", "long", "small", "spinning"}, ListPresets(ModelPendulum))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{Theta: 1, Omega: 2, Theta2: 3, Omega2: 4}

	assert.Equal(t, dynamo.State{1, 2}, cfg.GetInitState())

	cfg.Model = ModelDoublePendulum
	assert.Equal(t, dynamo.State{1, 2, 3, 4}, cfg.GetInitState())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"model":      func(c *Config) { c.Model = "cartpole" },
		"duration":   func(c *Config) { c.Duration = 0 },
		"samples":    func(c *Config) { c.Samples = 0 },
		"units":      func(c *Config) { c.AngleUnits = "gradians" },
		"length":     func(c *Config) { c.Params.Length = -1 },
		"damping":    func(c *Config) { c.Params.Damping = -0.1 },
		"integrator": func(c *Config) { c.Integrator = "verlet" },
		"dt":         func(c *Config) { c.Solver.Dt = -1 },
		"m2": func(c *Config) {
			c.Model = ModelDoublePendulum
			c.Params.M2 = 0
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewSolverOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver = SolverConfig{RelTol: 1e-6, AbsTol: 1e-8}

	s, err := cfg.NewSolver()
	require.NoError(t, err)
	rk45, ok := s.(*integrators.RK45)
	require.True(t, ok)
	assert.Equal(t, 1e-6, rk45.RelTol)
	assert.Equal(t, 1e-8, rk45.AbsTol)

	cfg.Integrator = "rk4"
	cfg.Solver = SolverConfig{Dt: 0.002}
	s, err = cfg.NewSolver()
	require.NoError(t, err)
	assert.Equal(t, 0.002, s.(*integrators.RK4).Dt)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset(ModelDoublePendulum, "heavy_top")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: pendulum\nangle_units: degrees\ninit_state:\n  theta: 30\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.InitState.Theta)
	assert.Equal(t, 9.81, cfg.Params.Gravity)
	assert.Equal(t, "rk45", cfg.Integrator)

	units, err := cfg.Units()
	require.NoError(t, err)
	assert.Equal(t, dynamo.Degrees, units)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: pendulum\nparams:\n  mass: -2\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameters)
}

func TestSetGet(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Set("damping", 0.4))
	require.NoError(t, cfg.Set("theta2", -1))
	assert.Equal(t, 0.4, cfg.Params.Damping)
	assert.Equal(t, -1.0, cfg.InitState.Theta2)

	v, ok := cfg.Get("damping")
	assert.True(t, ok)
	assert.Equal(t, 0.4, v)

	_, ok = cfg.Get("spin")
	assert.False(t, ok)
	err := cfg.Set("spin", 1)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameters)

	assert.Contains(t, FieldNames(), "gravity")
	assert.Len(t, FieldNames(), 16)
}
