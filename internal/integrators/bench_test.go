package integrators

import (
	"testing"

	"github.com/san-kum/lensim/internal/dynamo"
)

// benchGeodesic mimics the cost profile of the Schwarzschild right-hand side.
type benchGeodesic struct{ rs, e float64 }

func (b *benchGeodesic) StateDim() int { return 4 }
func (b *benchGeodesic) Derive(x dynamo.State, lam float64) dynamo.State {
	r, dr, dphi := x[0], x[2], x[3]
	f := 1 - b.rs/r
	dt := b.e / f
	return dynamo.State{
		dr,
		dphi,
		-(b.rs/(2*r*r))*f*dt*dt + (b.rs/(2*r*r*f))*dr*dr + (r-b.rs)*dphi*dphi,
		-2 * dr * dphi / r,
	}
}

func benchState() dynamo.State {
	return dynamo.State{1e6, 0, 0, 0.05}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	sys := &benchGeodesic{rs: 14852, e: 49627}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 1e-3)
	}
}

func BenchmarkVerlet(b *testing.B) {
	integrator := NewVerlet()
	sys := &benchGeodesic{rs: 14852, e: 49627}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 1e-3)
	}
}

func BenchmarkLeapfrog(b *testing.B) {
	integrator := NewLeapfrog()
	sys := &benchGeodesic{rs: 14852, e: 49627}
	x := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 1e-3)
	}
}
