package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
)

// Model is what the runner needs from a pendulum model.
type Model interface {
	dynamo.System
	dynamo.Hamiltonian
	dynamo.Configurable
	Solve(ctx context.Context, y0 dynamo.State, T float64, n int, units dynamo.AngleUnit) error
	Trajectory() (*dynamo.Trajectory, error)
}

// ModelSpec ties a model name to its constructor and post-processing.
type ModelSpec struct {
	Name       string
	StateNames []string
	// Angles are the state indices holding angles.
	Angles  []int
	New     func(cfg *config.Config, solver dynamo.Solver) (Model, error)
	Derive  func(m Model) (*export.Derived, error)
	Metrics func(m Model) []metrics.Metric
}

type Registry struct {
	models map[string]ModelSpec
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]ModelSpec)}

	r.models[config.ModelPendulum] = ModelSpec{
		Name:       config.ModelPendulum,
		StateNames: []string{"theta", "omega"},
		Angles:     []int{0},
		New: func(cfg *config.Config, solver dynamo.Solver) (Model, error) {
			return physics.NewPendulum(cfg.PendulumParams(), solver)
		},
		Derive: func(m Model) (*export.Derived, error) {
			return export.FromPendulum(m.(*physics.Pendulum))
		},
		Metrics: func(m Model) []metrics.Metric {
			return []metrics.Metric{
				metrics.NewEnergyDrift(m),
				metrics.NewMeanEnergy(m),
				metrics.NewMaxAmplitude("max_theta", 0),
				metrics.NewFlips(0),
			}
		},
	}

	r.models[config.ModelDoublePendulum] = ModelSpec{
		Name:       config.ModelDoublePendulum,
		StateNames: []string{"theta1", "omega1", "theta2", "omega2"},
		Angles:     []int{0, 2},
		New: func(cfg *config.Config, solver dynamo.Solver) (Model, error) {
			return physics.NewDoublePendulum(cfg.DoublePendulumParams(), solver)
		},
		Derive: func(m Model) (*export.Derived, error) {
			return export.FromDoublePendulum(m.(*physics.DoublePendulum))
		},
		Metrics: func(m Model) []metrics.Metric {
			return []metrics.Metric{
				metrics.NewEnergyDrift(m),
				metrics.NewMeanEnergy(m),
				metrics.NewMaxAmplitude("max_theta1", 0),
				metrics.NewMaxAmplitude("max_theta2", 2),
				metrics.NewFlips(0),
				metrics.NewFlips(2),
			}
		},
	}

	return r
}

func (r *Registry) GetModel(name string) (ModelSpec, error) {
	spec, ok := r.models[name]
	if !ok {
		return ModelSpec{}, &dynamo.ParamError{Name: "model", Value: name, Reason: fmt.Sprintf("must be one of %v", r.ListModels())}
	}
	return spec, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
