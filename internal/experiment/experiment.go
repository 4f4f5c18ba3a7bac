// Package experiment runs a configured pendulum model end to end: build
// the solver and model, integrate, derive kinematics and energies, and
// score the result.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/metrics"
)

type Experiment struct {
	cfg      config.Config
	registry *Registry
	log      zerolog.Logger
}

// New copies cfg; later changes to it do not affect the experiment.
func New(cfg *config.Config, log zerolog.Logger) *Experiment {
	return &Experiment{cfg: *cfg, registry: NewRegistry(), log: log}
}

func (e *Experiment) Config() config.Config { return e.cfg }

type Result struct {
	Config     config.Config
	Spec       ModelSpec
	Trajectory *dynamo.Trajectory
	Derived    *export.Derived
	Metrics    map[string]float64
	Elapsed    time.Duration
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := e.registry.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	units, err := cfg.Units()
	if err != nil {
		return nil, err
	}
	model, err := spec.New(&cfg, solver)
	if err != nil {
		return nil, err
	}

	log := e.log.With().Str("model", cfg.Model).Str("integrator", cfg.Integrator).Logger()
	log.Debug().
		Float64("duration", cfg.Duration).
		Int("samples", cfg.Samples).
		Str("units", units.String()).
		Msg("solving")

	start := time.Now()
	if err := model.Solve(ctx, cfg.GetInitState(), cfg.Duration, cfg.Samples, units); err != nil {
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			log.Error().Err(err).Float64("t", simErr.Time).Int("step", simErr.Step).Msg("solve failed")
		}
		return nil, fmt.Errorf("%s: %w", cfg.Model, err)
	}
	elapsed := time.Since(start)

	tr, err := model.Trajectory()
	if err != nil {
		return nil, err
	}
	derived, err := spec.Derive(model)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:     cfg,
		Spec:       spec,
		Trajectory: tr,
		Derived:    derived,
		Metrics:    metrics.Evaluate(tr, spec.Metrics(model)...),
		Elapsed:    elapsed,
	}
	res.analyse(log)

	log.Info().
		Dur("elapsed", elapsed).
		Int("samples", tr.Len()).
		Float64("energy_drift", res.Metrics["energy_drift"]).
		Msg("solved")
	return res, nil
}

// analyse adds the figures computed from derived series rather than from
// the state samples.
func (r *Result) analyse(log zerolog.Logger) {
	if total, ok := r.Derived.Get("total_energy"); ok {
		if drift, err := analysis.EnergyDrift(total); err == nil {
			r.Metrics["derived_energy_drift"] = drift.MaxRelative
		}
	}
	theta, ok := r.Derived.Get(r.Spec.StateNames[0])
	if !ok || len(theta) < 16 {
		return
	}
	period, err := analysis.DominantPeriod(theta, r.Derived.T)
	if err != nil {
		log.Debug().Err(err).Msg("no dominant period")
		return
	}
	r.Metrics["period"] = period
}
