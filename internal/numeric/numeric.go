// Package numeric holds the finite-difference and sampling helpers used to
// post-process trajectories.
package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Gradient approximates df/dt from samples f taken at strictly increasing
// times t. Interior points use the second-order central difference for
// uneven spacing; the two end points use first-order one-sided
// differences. A single sample has zero gradient.
func Gradient(f, t []float64) ([]float64, error) {
	n := len(f)
	if n != len(t) {
		return nil, fmt.Errorf("gradient: %d values vs %d times: %w", n, len(t), dynamo.ErrDimensionMismatch)
	}
	out := make([]float64, n)
	if n < 2 {
		return out, nil
	}

	out[0] = (f[1] - f[0]) / (t[1] - t[0])
	out[n-1] = (f[n-1] - f[n-2]) / (t[n-1] - t[n-2])

	for i := 1; i < n-1; i++ {
		hs := t[i] - t[i-1]
		hd := t[i+1] - t[i]
		a := -hd / (hs * (hs + hd))
		b := (hd - hs) / (hs * hd)
		c := hs / (hd * (hs + hd))
		out[i] = a*f[i-1] + b*f[i] + c*f[i+1]
	}
	return out, nil
}

// Linspace returns n evenly spaced samples over [start, stop], endpoints
// included. n == 1 yields [start].
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Map applies fn to every element of xs.
func Map(xs []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = fn(x)
	}
	return out
}
