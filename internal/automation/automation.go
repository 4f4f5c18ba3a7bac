// Package automation runs scripted batches of pendulum simulations from
// YAML scenario files, and one-dimensional parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/optim"
)

// Scenario defines a scripted simulation sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Settings start from the preset when one is
// named, otherwise from the defaults; Set then overrides them by name.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Model      string             `yaml:"model"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Samples    int                `yaml:"samples"`
	AngleUnits string             `yaml:"angle_units"`
	Set        map[string]float64 `yaml:"set"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(s.Model))
		}
	}
	cfg.Model = s.Model
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Samples > 0 {
		cfg.Samples = s.Samples
	}
	if s.AngleUnits != "" {
		cfg.AngleUnits = s.AngleUnits
	}

	// Sorted so that the first bad key reported is stable.
	names := make([]string, 0, len(s.Set))
	for name := range s.Set {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Set(name, s.Set[name]); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// Label names the step in output.
func (s ScenarioStep) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step%d_%s", i+1, s.Model)
}

// RunScenario resolves every step up front, then runs them concurrently.
// Results keep step order.
func RunScenario(ctx context.Context, scenario *Scenario, log zerolog.Logger) ([]*experiment.Result, error) {
	exps := make([]*experiment.Experiment, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Label(i), err)
		}
		exps[i] = experiment.New(cfg, log.With().Str("step", step.Label(i)).Logger())
	}
	log.Info().Str("scenario", scenario.Name).Int("steps", len(exps)).Msg("running scenario")
	return experiment.RunAll(ctx, exps)
}

// ParameterSweep varies one named setting of Base over [Min, Max].
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	Steps    int
}

// SweepResult holds the outcome of one sweep point.
type SweepResult struct {
	Value      float64
	FinalState dynamo.State
	Metrics    map[string]float64
}

// RunSweep executes the sweep, one run per value, concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log zerolog.Logger) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, &dynamo.ParamError{Name: "base", Value: nil, Reason: "missing base config"}
	}
	if _, ok := sweep.Base.Get(sweep.Param); !ok {
		return nil, &dynamo.ParamError{Name: sweep.Param, Value: sweep.Min, Reason: fmt.Sprintf("unknown setting (available: %v)", config.FieldNames())}
	}
	axis, err := optim.Span(sweep.Param, sweep.Min, sweep.Max, sweep.Steps)
	if err != nil {
		return nil, err
	}

	exps := make([]*experiment.Experiment, len(axis.Values))
	for i, v := range axis.Values {
		cfg := *sweep.Base
		if err := cfg.Set(sweep.Param, v); err != nil {
			return nil, err
		}
		exps[i] = experiment.New(&cfg, log.With().Float64(sweep.Param, v).Logger())
	}

	results, err := experiment.RunAll(ctx, exps)
	if err != nil {
		return nil, err
	}
	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{
			Value:      axis.Values[i],
			FinalState: r.Trajectory.Final(),
			Metrics:    r.Metrics,
		}
	}
	return out, nil
}
