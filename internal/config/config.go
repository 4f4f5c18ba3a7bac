package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
)

const (
	ModelPendulum       = "pendulum"
	ModelDoublePendulum = "double_pendulum"
)

const (
	DefaultDuration = 10.0
	DefaultSamples  = 1001
	DefaultTheta    = 0.5
)

// Config describes one run: which model, its parameters, the initial state
// and how to integrate it.
type Config struct {
	Model      string          `yaml:"model"`
	Integrator string          `yaml:"integrator"`
	Duration   float64         `yaml:"duration"`
	Samples    int             `yaml:"samples"`
	AngleUnits string          `yaml:"angle_units"`
	Params     ParamsConfig    `yaml:"params"`
	InitState  InitStateConfig `yaml:"init_state"`
	Solver     SolverConfig    `yaml:"solver"`
}

type ParamsConfig struct {
	Mass    float64 `yaml:"mass"`
	Length  float64 `yaml:"length"`
	Damping float64 `yaml:"damping"`
	M1      float64 `yaml:"m1"`
	M2      float64 `yaml:"m2"`
	L1      float64 `yaml:"l1"`
	L2      float64 `yaml:"l2"`
	Gravity float64 `yaml:"gravity"`
}

type InitStateConfig struct {
	Theta  float64 `yaml:"theta"`
	Omega  float64 `yaml:"omega"`
	Theta2 float64 `yaml:"theta2"`
	Omega2 float64 `yaml:"omega2"`
}

// SolverConfig overrides integrator defaults. Zero values keep them.
type SolverConfig struct {
	Dt     float64 `yaml:"dt,omitempty"`
	RelTol float64 `yaml:"rtol,omitempty"`
	AbsTol float64 `yaml:"atol,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      ModelPendulum,
		Integrator: "rk45",
		Duration:   DefaultDuration,
		Samples:    DefaultSamples,
		AngleUnits: "radians",
		Params: ParamsConfig{
			Mass: 1, Length: 1,
			M1: 1, M2: 1, L1: 1, L2: 1,
			Gravity: physics.DefaultGravity,
		},
		InitState: InitStateConfig{
			Theta:  DefaultTheta,
			Theta2: DefaultTheta,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Model {
	case ModelPendulum:
		if err := c.PendulumParams().Validate(); err != nil {
			return err
		}
	case ModelDoublePendulum:
		if err := c.DoublePendulumParams().Validate(); err != nil {
			return err
		}
	default:
		return &dynamo.ParamError{Name: "model", Value: c.Model, Reason: "must be pendulum or double_pendulum"}
	}
	if err := dynamo.Positive("duration", c.Duration); err != nil {
		return err
	}
	if c.Samples < 1 {
		return &dynamo.ParamError{Name: "samples", Value: c.Samples, Reason: "must be at least 1"}
	}
	if _, err := c.Units(); err != nil {
		return err
	}
	_, err := c.NewSolver()
	return err
}

func (c *Config) Units() (dynamo.AngleUnit, error) {
	return dynamo.ParseAngleUnit(c.AngleUnits)
}

func (c *Config) PendulumParams() physics.PendulumParams {
	return physics.PendulumParams{
		Mass:    c.Params.Mass,
		Length:  c.Params.Length,
		Gravity: c.Params.Gravity,
		Damping: c.Params.Damping,
	}
}

func (c *Config) DoublePendulumParams() physics.DoublePendulumParams {
	return physics.DoublePendulumParams{
		M1: c.Params.M1, M2: c.Params.M2,
		L1: c.Params.L1, L2: c.Params.L2,
		Gravity: c.Params.Gravity,
	}
}

// GetInitState returns the initial state in the model's layout, in the
// configured angle units.
func (c *Config) GetInitState() dynamo.State {
	if c.Model == ModelDoublePendulum {
		return dynamo.State{c.InitState.Theta, c.InitState.Omega, c.InitState.Theta2, c.InitState.Omega2}
	}
	return dynamo.State{c.InitState.Theta, c.InitState.Omega}
}

// NewSolver builds the configured integrator with any overrides applied.
func (c *Config) NewSolver() (dynamo.Solver, error) {
	s, err := integrators.New(c.Integrator)
	if err != nil {
		return nil, err
	}
	if c.Solver.Dt < 0 || c.Solver.RelTol < 0 || c.Solver.AbsTol < 0 {
		return nil, &dynamo.ParamError{Name: "solver", Value: c.Solver, Reason: "overrides must be non-negative"}
	}

	switch s := s.(type) {
	case *integrators.Euler:
		if c.Solver.Dt > 0 {
			s.Dt = c.Solver.Dt
		}
	case *integrators.RK4:
		if c.Solver.Dt > 0 {
			s.Dt = c.Solver.Dt
		}
	case *integrators.RK45:
		if c.Solver.RelTol > 0 {
			s.RelTol = c.Solver.RelTol
		}
		if c.Solver.AbsTol > 0 {
			s.AbsTol = c.Solver.AbsTol
		}
	}
	return s, nil
}

// fields maps the numeric settings that can be addressed by name, as used by
// scenario files and parameter sweeps.
func (c *Config) fields() map[string]*float64 {
	return map[string]*float64{
		"duration": &c.Duration,
		"theta":    &c.InitState.Theta,
		"omega":    &c.InitState.Omega,
		"theta2":   &c.InitState.Theta2,
		"omega2":   &c.InitState.Omega2,
		"mass":     &c.Params.Mass,
		"length":   &c.Params.Length,
		"damping":  &c.Params.Damping,
		"m1":       &c.Params.M1,
		"m2":       &c.Params.M2,
		"l1":       &c.Params.L1,
		"l2":       &c.Params.L2,
		"gravity":  &c.Params.Gravity,
		"dt":       &c.Solver.Dt,
		"rtol":     &c.Solver.RelTol,
		"atol":     &c.Solver.AbsTol,
	}
}

// Set assigns a numeric setting by name. It does not validate the result.
func (c *Config) Set(name string, v float64) error {
	dst, ok := c.fields()[name]
	if !ok {
		return &dynamo.ParamError{Name: name, Value: v, Reason: "unknown setting"}
	}
	*dst = v
	return nil
}

// Get reads a numeric setting by name.
func (c *Config) Get(name string) (float64, bool) {
	src, ok := c.fields()[name]
	if !ok {
		return 0, false
	}
	return *src, true
}

// FieldNames lists the names accepted by Set, sorted.
func FieldNames() []string {
	var c Config
	names := make([]string, 0, 16)
	for name := range c.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
