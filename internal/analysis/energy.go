package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Drift summarises a total-energy series.
type Drift struct {
	Initial float64
	Min     float64
	Max     float64
	// MaxRelative is max |E(t) - E(0)| / |E(0)|, or the absolute deviation
	// when E(0) is zero.
	MaxRelative float64
}

func EnergyDrift(total []float64) (Drift, error) {
	if len(total) == 0 {
		return Drift{}, fmt.Errorf("energy drift: %w", dynamo.ErrNoTrajectory)
	}
	for i, e := range total {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return Drift{}, &dynamo.SimulationError{Step: i, Wrapped: dynamo.ErrNonFinite}
		}
	}

	d := Drift{
		Initial: total[0],
		Min:     floats.Min(total),
		Max:     floats.Max(total),
	}
	dev := math.Max(d.Max-d.Initial, d.Initial-d.Min)
	if d.Initial != 0 {
		dev /= math.Abs(d.Initial)
	}
	d.MaxRelative = dev
	return d, nil
}

func (d Drift) String() string {
	return fmt.Sprintf("E0=%.6g min=%.6g max=%.6g drift=%.3e", d.Initial, d.Min, d.Max, d.MaxRelative)
}
