package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// FFT is a radix-2 Cooley-Tukey transform. len(data) must be a power of 2.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitude of the first half of the FFT of data,
// zero-padded to the next power of 2.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(padPow2(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

func padPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}

// DominantPeriod estimates the period of the strongest oscillation in a
// signal sampled at evenly spaced times.
func DominantPeriod(signal, times []float64) (float64, error) {
	if len(signal) != len(times) {
		return 0, fmt.Errorf("dominant period: %d values vs %d times: %w", len(signal), len(times), dynamo.ErrDimensionMismatch)
	}
	if len(signal) < 4 {
		return 0, &dynamo.ParamError{Name: "signal", Value: len(signal), Reason: "needs at least 4 samples"}
	}
	dt := times[1] - times[0]
	if !(dt > 0) {
		return 0, &dynamo.ParamError{Name: "times", Value: dt, Reason: "must be increasing"}
	}

	centered := make([]float64, len(signal))
	copy(centered, signal)
	floats.AddConst(-floats.Sum(signal)/float64(len(signal)), centered)

	ps := PowerSpectrum(centered)
	k := 1 + floats.MaxIdx(ps[1:])
	if ps[k] == 0 {
		return 0, fmt.Errorf("dominant period: signal is constant: %w", dynamo.ErrInvalidParameters)
	}

	// Parabolic interpolation around the peak bin.
	bin := float64(k)
	if k > 0 && k < len(ps)-1 {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}

	n := 2 * len(ps)
	freq := bin / (float64(n) * dt)
	return 1 / freq, nil
}
