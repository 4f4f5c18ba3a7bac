// Package optim searches configuration space for the settings that
// minimise a run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
)

// Axis is one searched setting and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Span returns an axis of n evenly spaced values from lo to hi inclusive.
func Span(name string, lo, hi float64, n int) (Axis, error) {
	if n < 2 {
		return Axis{}, &dynamo.ParamError{Name: "steps", Value: n, Reason: "must be at least 2"}
	}
	if !(hi > lo) {
		return Axis{}, &dynamo.ParamError{Name: name, Value: [2]float64{lo, hi}, Reason: "range must be increasing"}
	}
	return Axis{Name: name, Values: floats.Span(make([]float64, n), lo, hi)}, nil
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	axes []Axis
	log  zerolog.Logger
}

func NewGridSearch(log zerolog.Logger, axes ...Axis) (*GridSearch, error) {
	if len(axes) == 0 {
		return nil, &dynamo.ParamError{Name: "axes", Value: 0, Reason: "need at least one"}
	}
	probe := config.DefaultConfig()
	for _, a := range axes {
		if _, ok := probe.Get(a.Name); !ok {
			return nil, &dynamo.ParamError{Name: a.Name, Value: a.Values, Reason: fmt.Sprintf("unknown setting (available: %v)", config.FieldNames())}
		}
		if len(a.Values) == 0 {
			return nil, &dynamo.ParamError{Name: a.Name, Value: a.Values, Reason: "no values"}
		}
	}
	return &GridSearch{axes: axes, log: log}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Search runs base at every grid point and returns the point with the
// smallest metric together with every evaluated point. Points whose run
// fails or whose metric is missing or NaN are kept with Err set and never
// win. It fails only when the context ends or no point succeeds.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string) (Point, []Point, error) {
	points := make([]Point, 0, g.Size())
	g.searchRecursive(ctx, 0, base, map[string]float64{}, metric, &points)
	if err := ctx.Err(); err != nil {
		return Point{}, points, fmt.Errorf("%w: %v", dynamo.ErrCanceled, err)
	}

	best := Point{Value: math.Inf(1)}
	found := false
	for _, p := range points {
		if p.Err == nil && p.Value < best.Value {
			best, found = p, true
		}
	}
	if !found {
		return Point{}, points, fmt.Errorf("no grid point produced %q", metric)
	}
	return best, points, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, base *config.Config, current map[string]float64, metric string, points *[]Point) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.axes) {
		*points = append(*points, g.evaluate(ctx, base, current, metric))
		return
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val
		g.searchRecursive(ctx, depth+1, base, next, metric, points)
	}
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metric string) Point {
	p := Point{Params: params, Value: math.NaN()}
	cfg := *base
	for name, v := range params {
		if err := cfg.Set(name, v); err != nil {
			p.Err = err
			return p
		}
	}

	res, err := experiment.New(&cfg, g.log).Run(ctx)
	if err != nil {
		g.log.Debug().Err(err).Interface("params", params).Msg("grid point failed")
		p.Err = err
		return p
	}
	v, ok := res.Metrics[metric]
	switch {
	case !ok:
		p.Err = fmt.Errorf("metric %q not produced by %s", metric, cfg.Model)
	case math.IsNaN(v):
		p.Err = fmt.Errorf("metric %q is NaN", metric)
	default:
		p.Value = v
	}
	return p
}
