package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// MaxAmplitude tracks the largest |x[index]|.
type MaxAmplitude struct {
	name  string
	index int
	max   float64
}

func NewMaxAmplitude(name string, index int) *MaxAmplitude {
	return &MaxAmplitude{name: name, index: index}
}

func (m *MaxAmplitude) Name() string { return m.name }

func (m *MaxAmplitude) Observe(_ float64, x dynamo.State) {
	if m.index < len(x) {
		m.max = math.Max(m.max, math.Abs(x[m.index]))
	}
}

func (m *MaxAmplitude) Value() float64 { return m.max }

func (m *MaxAmplitude) Reset() { m.max = 0 }

// Flips counts how often the angle x[index] goes over the top, that is
// crosses an odd multiple of pi.
type Flips struct {
	index   int
	count   int
	last    float64
	samples int
}

func NewFlips(index int) *Flips {
	return &Flips{index: index}
}

func (f *Flips) Name() string { return fmt.Sprintf("flips_x%d", f.index) }

// sector numbers the 2*pi wide band centred on 0 that holds theta.
func sector(theta float64) float64 {
	return math.Floor((theta + math.Pi) / (2 * math.Pi))
}

func (f *Flips) Observe(_ float64, x dynamo.State) {
	if f.index >= len(x) {
		return
	}
	theta := x[f.index]
	if f.samples > 0 {
		f.count += int(math.Abs(sector(theta) - sector(f.last)))
	}
	f.last = theta
	f.samples++
}

func (f *Flips) Value() float64 { return float64(f.count) }

func (f *Flips) Reset() {
	f.count = 0
	f.last = 0
	f.samples = 0
}

// Bounded is the fraction of samples whose every component stays within
// threshold.
type Bounded struct {
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{threshold: threshold}
}

func (s *Bounded) Name() string { return "bounded" }

func (s *Bounded) Observe(_ float64, x dynamo.State) {
	s.samples++
	for _, val := range x {
		if math.Abs(val) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Bounded) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Bounded) Reset() {
	s.violations = 0
	s.samples = 0
}
