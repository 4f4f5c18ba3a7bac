package numeric

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func TestGradientLinearIsExact(t *testing.T) {
	times := []float64{0, 0.1, 0.35, 0.4, 1.0}
	f := make([]float64, len(times))
	for i, x := range times {
		f[i] = 3*x - 2
	}

	g, err := Gradient(f, times)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}
	for i, v := range g {
		if math.Abs(v-3) > 1e-12 {
			t.Errorf("g[%d] = %v, want 3", i, v)
		}
	}
}

func TestGradientQuadraticInteriorExact(t *testing.T) {
	// Second-order interior stencil is exact for quadratics on any spacing.
	times := []float64{0, 0.2, 0.5, 0.6, 1.1, 1.5}
	f := make([]float64, len(times))
	for i, x := range times {
		f[i] = x * x
	}

	g, err := Gradient(f, times)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}
	for i := 1; i < len(times)-1; i++ {
		if math.Abs(g[i]-2*times[i]) > 1e-12 {
			t.Errorf("g[%d] = %v, want %v", i, g[i], 2*times[i])
		}
	}

	// One-sided ends: forward and backward differences.
	if want := (f[1] - f[0]) / (times[1] - times[0]); math.Abs(g[0]-want) > 1e-12 {
		t.Errorf("g[0] = %v, want %v", g[0], want)
	}
	last := len(times) - 1
	if want := (f[last] - f[last-1]) / (times[last] - times[last-1]); math.Abs(g[last]-want) > 1e-12 {
		t.Errorf("g[last] = %v, want %v", g[last], want)
	}
}

func TestGradientUniformMatchesCentralDifference(t *testing.T) {
	times := Linspace(0, 1, 11)
	f := Map(times, math.Sin)

	g, err := Gradient(f, times)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}
	for i := 1; i < len(f)-1; i++ {
		want := (f[i+1] - f[i-1]) / (times[i+1] - times[i-1])
		if math.Abs(g[i]-want) > 1e-12 {
			t.Errorf("g[%d] = %v, want %v", i, g[i], want)
		}
	}
}

func TestGradientEdgeCases(t *testing.T) {
	g, err := Gradient([]float64{5}, []float64{0})
	if err != nil || len(g) != 1 || g[0] != 0 {
		t.Errorf("single sample: got %v, %v", g, err)
	}

	g, err = Gradient(nil, nil)
	if err != nil || len(g) != 0 {
		t.Errorf("empty: got %v, %v", g, err)
	}

	_, err = Gradient([]float64{1, 2}, []float64{0})
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("mismatch: got %v, want ErrDimensionMismatch", err)
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		start, stop float64
		n           int
		want        []float64
	}{
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
		{0, 10, 2, []float64{0, 10}},
		{3, 7, 1, []float64{3}},
		{0, 1, 0, nil},
	}

	for _, tt := range tests {
		got := Linspace(tt.start, tt.stop, tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("Linspace(%v, %v, %d) len = %d, want %d", tt.start, tt.stop, tt.n, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Errorf("Linspace(%v, %v, %d)[%d] = %v, want %v", tt.start, tt.stop, tt.n, i, got[i], tt.want[i])
			}
		}
	}
}

func TestAngleConversion(t *testing.T) {
	if got := DegToRad(180); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("DegToRad(180) = %v", got)
	}
	if got := RadToDeg(DegToRad(37.5)); math.Abs(got-37.5) > 1e-12 {
		t.Errorf("round trip = %v", got)
	}
}
