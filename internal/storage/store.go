// Package storage archives solved runs: their metadata, the trajectory and
// any derived series computed from it.
//
// Two backends implement [Store]. [FileStore] writes one directory per run
// holding metadata.json and states.csv. [SQLStore] keeps everything in a
// SQLite database through gorm.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/pendsim/internal/dynamo"
)

var ErrRunNotFound = errors.New("storage: run not found")

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	StateNames []string           `json:"state_names"`
	Params     map[string]float64 `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Column is a named series aligned with the trajectory times.
type Column struct {
	Name   string
	Values []float64
}

type Run struct {
	Meta       RunMetadata
	Trajectory *dynamo.Trajectory
	Derived    []Column
}

// Column returns the derived series with the given name.
func (r *Run) Column(name string) ([]float64, bool) {
	for _, c := range r.Derived {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

type Store interface {
	Init() error
	// Save assigns an ID to the run, stores it and returns the ID.
	Save(run *Run) (string, error)
	List() ([]RunMetadata, error)
	Load(id string) (*Run, error)
	Close() error
}

func newRunID(model string, now time.Time) string {
	return fmt.Sprintf("%s_%d", model, now.UnixNano())
}

// check validates a run before it is written.
func check(run *Run) error {
	if run == nil || run.Trajectory == nil {
		return dynamo.ErrNoTrajectory
	}
	if err := run.Trajectory.Validate(); err != nil {
		return err
	}
	if n := len(run.Meta.StateNames); n != 0 && n != run.Trajectory.Dim() {
		return fmt.Errorf("%d state names for %d-dim trajectory: %w", n, run.Trajectory.Dim(), dynamo.ErrDimensionMismatch)
	}
	for _, c := range run.Derived {
		if len(c.Values) != run.Trajectory.Len() {
			return fmt.Errorf("column %q has %d values for %d samples: %w", c.Name, len(c.Values), run.Trajectory.Len(), dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}

func stamp(run *Run) {
	now := time.Now().UTC()
	run.Meta.ID = newRunID(run.Meta.Model, now)
	run.Meta.Timestamp = now
	run.Meta.Samples = run.Trajectory.Len()
	if len(run.Meta.StateNames) == 0 {
		names := make([]string, run.Trajectory.Dim())
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i)
		}
		run.Meta.StateNames = names
	}
}
