package metrics

import (
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
)

// EnergyDrift tracks the largest relative deviation of the conserved
// quantity from its value at the first observed state. Systems that do
// not implement dynamo.Hamiltonian are ignored, as are states where the
// quantity is undefined.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sys dynamo.System, x dynamo.State, lam float64) {
	h, ok := sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
