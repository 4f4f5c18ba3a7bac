package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/export"
	"github.com/san-kum/pendsim/internal/storage"
)

// Record converts the result into a storable run. Series that duplicate a
// state component are not stored twice.
func (r *Result) Record() *storage.Run {
	run := &storage.Run{
		Meta: storage.RunMetadata{
			Model:      r.Config.Model,
			Integrator: r.Config.Integrator,
			Duration:   r.Config.Duration,
			StateNames: r.Spec.StateNames,
			Params:     r.Derived.Params,
			Metrics:    r.Metrics,
		},
		Trajectory: r.Trajectory,
	}
	for _, s := range r.Derived.Series {
		if slices.Contains(r.Spec.StateNames, s.Name) {
			continue
		}
		run.Derived = append(run.Derived, storage.Column{Name: s.Name, Values: s.Values})
	}
	return run
}

// DerivedFromRun rebuilds the export document of a stored run: the state
// components first, then the stored derived columns.
func DerivedFromRun(run *storage.Run) (*export.Derived, error) {
	if run == nil || run.Trajectory == nil || run.Trajectory.Len() == 0 {
		return nil, dynamo.ErrNoTrajectory
	}
	tr := run.Trajectory
	if len(run.Meta.StateNames) != tr.Dim() {
		return nil, fmt.Errorf("run %s: %d state names for %d components: %w",
			run.Meta.ID, len(run.Meta.StateNames), tr.Dim(), dynamo.ErrDimensionMismatch)
	}

	d := &export.Derived{
		Model:  run.Meta.Model,
		Params: run.Meta.Params,
		T:      append([]float64(nil), tr.Times...),
		Series: make([]export.Series, 0, tr.Dim()+len(run.Derived)),
	}
	for i, name := range run.Meta.StateNames {
		d.Series = append(d.Series, export.Series{Name: name, Values: tr.Component(i)})
	}
	for _, c := range run.Derived {
		d.Series = append(d.Series, export.Series{Name: c.Name, Values: c.Values})
	}
	return d, d.Validate()
}
