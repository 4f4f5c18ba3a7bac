package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Divergence estimates the largest Lyapunov exponent from two trajectories
// sampled at the same times and started close together. It fits a line to
// ln |xb(t) - xa(t)| over the samples before the separation first reaches
// saturation; the slope is the exponent. A positive value indicates chaos.
func Divergence(a, b *dynamo.Trajectory, saturation float64) (float64, error) {
	if a == nil || b == nil || a.Len() == 0 || b.Len() == 0 {
		return 0, dynamo.ErrNoTrajectory
	}
	if a.Len() != b.Len() || a.Dim() != b.Dim() {
		return 0, fmt.Errorf("divergence: %dx%d vs %dx%d: %w", a.Len(), a.Dim(), b.Len(), b.Dim(), dynamo.ErrDimensionMismatch)
	}
	if err := dynamo.Positive("saturation", saturation); err != nil {
		return 0, err
	}

	var ts, logs []float64
	for i := range a.States {
		if a.Times[i] != b.Times[i] {
			return 0, &dynamo.ParamError{Name: "times", Value: b.Times[i], Reason: "trajectories are sampled at different times"}
		}
		sep := b.States[i].Sub(a.States[i]).Norm()
		if sep >= saturation {
			break
		}
		if sep > 0 {
			ts = append(ts, a.Times[i])
			logs = append(logs, math.Log(sep))
		}
	}
	if len(ts) < 2 {
		return 0, &dynamo.ParamError{Name: "trajectories", Value: len(ts), Reason: "too few separated samples below saturation"}
	}

	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope, nil
}
