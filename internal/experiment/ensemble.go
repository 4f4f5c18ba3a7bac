package experiment

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
)

// RunAll runs every experiment on its own goroutine. Each experiment owns
// its model, so nothing is shared. Results keep the input order; the
// errors of all failed runs are joined.
func RunAll(ctx context.Context, exps []*Experiment) ([]*Result, error) {
	results := make([]*Result, len(exps))
	errs := make([]error, len(exps))

	var wg sync.WaitGroup
	for i, e := range exps {
		wg.Add(1)
		go func(idx int, e *Experiment) {
			defer wg.Done()
			results[idx], errs[idx] = e.Run(ctx)
		}(i, e)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// Compare solves the same configuration with each named integrator.
func Compare(ctx context.Context, cfg *config.Config, integrators []string, log zerolog.Logger) ([]*Result, error) {
	if len(integrators) == 0 {
		return nil, &dynamo.ParamError{Name: "integrators", Value: 0, Reason: "need at least one"}
	}
	exps := make([]*Experiment, len(integrators))
	for i, name := range integrators {
		c := *cfg
		c.Integrator = name
		c.Solver = config.SolverConfig{}
		exps[i] = New(&c, log)
	}
	return RunAll(ctx, exps)
}

// Divergence solves cfg and a copy whose first angle is shifted by eps, and
// estimates the largest Lyapunov exponent from their separation.
func Divergence(ctx context.Context, cfg *config.Config, eps, saturation float64, log zerolog.Logger) (float64, error) {
	if err := dynamo.Positive("eps", eps); err != nil {
		return 0, err
	}
	perturbed := *cfg
	perturbed.InitState.Theta += eps

	results, err := RunAll(ctx, []*Experiment{New(cfg, log), New(&perturbed, log)})
	if err != nil {
		return 0, err
	}
	return analysis.Divergence(results[0].Trajectory, results[1].Trajectory, saturation)
}
