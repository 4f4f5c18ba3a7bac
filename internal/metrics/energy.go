// Package metrics summarises a solved trajectory with scalar figures of
// merit. Each [Metric] observes the samples one by one.
package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type Metric interface {
	Name() string
	Observe(t float64, x dynamo.State)
	Value() float64
	Reset()
}

// Evaluate feeds every sample of tr to each metric and collects the values
// by name. Metrics are reset first.
func Evaluate(tr *dynamo.Trajectory, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, x := range tr.States {
			m.Observe(tr.Times[i], x)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// EnergyDrift is the largest relative departure of the model's exact
// energy from its initial value.
type EnergyDrift struct {
	dyn           dynamo.Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{dyn: dyn}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(_ float64, x dynamo.State) {
	energy := e.dyn.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	diff := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		diff /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, diff)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MeanEnergy averages the exact energy over all samples.
type MeanEnergy struct {
	dyn     dynamo.Hamiltonian
	sum     float64
	samples int
}

func NewMeanEnergy(dyn dynamo.Hamiltonian) *MeanEnergy {
	return &MeanEnergy{dyn: dyn}
}

func (e *MeanEnergy) Name() string { return "mean_energy" }

func (e *MeanEnergy) Observe(_ float64, x dynamo.State) {
	e.sum += e.dyn.Energy(x)
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}
