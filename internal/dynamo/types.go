package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dX/dλ = f(X, λ). Derive must not retain or
// mutate x.
type System interface {
	Derive(x State, lam float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems with a quantity conserved along
// exact solutions.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(sys System, x State, lam float64, dlam float64) State
}

type Metric interface {
	Name() string
	Observe(sys System, x State, lam float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, x State, lam float64)
}
