package physics

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

// angle draws a magnitude in [0.2, 1.2] rad with a random sign, keeping the
// initial energy away from zero.
func angle(rng *rand.Rand) float64 {
	a := 0.2 + rng.Float64()
	if rng.Intn(2) == 0 {
		return -a
	}
	return a
}

func maxRelativeDrift(total []float64) float64 {
	worst := 0.0
	for _, e := range total {
		worst = math.Max(worst, math.Abs(e-total[0])/math.Abs(total[0]))
	}
	return worst
}

var _ = Describe("Pendulum", func() {
	var (
		rng *rand.Rand
		ctx context.Context
	)

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		ctx = context.Background()
	})

	It("conserves total energy without damping", func() {
		for trial := 0; trial < 5; trial++ {
			params := PendulumParams{
				Mass:    0.5 + 2*rng.Float64(),
				Length:  0.5 + 2*rng.Float64(),
				Gravity: DefaultGravity,
			}
			p, err := NewPendulum(params, integrators.NewRK45())
			Expect(err).NotTo(HaveOccurred())

			y0 := dynamo.State{angle(rng), rng.Float64() - 0.5}
			Expect(p.Solve(ctx, y0, 5, 10001, dynamo.Radians)).To(Succeed())

			total, err := p.TotalEnergy()
			Expect(err).NotTo(HaveOccurred())
			Expect(maxRelativeDrift(total)).To(BeNumerically("<", 0.01), "params %+v, y0 %v", params, y0)
		}
	})

	It("keeps the bob on the rod", func() {
		params := PendulumParams{Mass: 1, Length: 0.5 + rng.Float64(), Gravity: DefaultGravity}
		p, err := NewPendulum(params, integrators.NewRK4())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Solve(ctx, dynamo.State{angle(rng), 0}, 3, 301, dynamo.Radians)).To(Succeed())

		x, _ := p.X()
		y, _ := p.Y()
		for i := range x {
			Expect(x[i]*x[i] + y[i]*y[i]).To(BeNumerically("~", params.Length*params.Length, 1e-12))
		}
	})

	It("treats degrees as converted radians", func() {
		deg := 180 * angle(rng) / math.Pi
		a, _ := NewPendulum(DefaultPendulumParams(), integrators.NewRK45())
		b, _ := NewPendulum(DefaultPendulumParams(), integrators.NewRK45())

		Expect(a.Solve(ctx, dynamo.State{deg, 0.1}, 2, 101, dynamo.Degrees)).To(Succeed())
		Expect(b.Solve(ctx, dynamo.State{deg * math.Pi / 180, 0.1}, 2, 101, dynamo.Radians)).To(Succeed())

		ta, _ := a.Theta()
		tb, _ := b.Theta()
		Expect(ta).To(HaveLen(len(tb)))
		for i := range ta {
			Expect(ta[i]).To(BeNumerically("~", tb[i], 1e-9))
		}
	})
})

var _ = Describe("DoublePendulum", func() {
	var (
		rng *rand.Rand
		ctx context.Context
	)

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
		ctx = context.Background()
	})

	It("conserves total energy", func() {
		for trial := 0; trial < 3; trial++ {
			d, err := NewDoublePendulum(DefaultDoublePendulumParams(), integrators.NewRK45())
			Expect(err).NotTo(HaveOccurred())

			y0 := dynamo.State{angle(rng), rng.Float64() - 0.5, angle(rng), rng.Float64() - 0.5}
			Expect(d.Solve(ctx, y0, 5, 10001, dynamo.Radians)).To(Succeed())

			total, err := d.TotalEnergy()
			Expect(err).NotTo(HaveOccurred())
			Expect(maxRelativeDrift(total)).To(BeNumerically("<", 0.01), "y0 %v", y0)
		}
	})

	It("returns NoTrajectory before Solve", func() {
		d, err := NewDoublePendulum(DefaultDoublePendulumParams(), integrators.NewRK45())
		Expect(err).NotTo(HaveOccurred())
		Expect(d.HasTrajectory()).To(BeFalse())

		_, err = d.TotalEnergy()
		Expect(err).To(MatchError(dynamo.ErrNoTrajectory))
	})

	It("reports Delta exactly", func() {
		for i := 0; i < 100; i++ {
			t1, t2 := 10*(rng.Float64()-0.5), 10*(rng.Float64()-0.5)
			Expect(Delta(t1, t2)).To(BeNumerically("~", t2-t1, 1e-10))
		}
	})
})
