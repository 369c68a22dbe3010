package geodesic

import (
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
)

// Rates holds d/dλ of the four integrated quantities.
type Rates struct {
	R, Phi, Dr, Dphi float64
}

// Derivative evaluates the equatorial Schwarzschild geodesic equation for
// ray. The caller must ensure ray.R > rs.
func Derivative(ray RayState, rs float64) Rates {
	return rates(ray.R, ray.Dr, ray.Dphi, ray.E, rs)
}

func rates(r, dr, dphi, e, rs float64) Rates {
	f := 1.0 - rs/r
	dtDlam := e / f
	return Rates{
		R:    dr,
		Phi:  dphi,
		Dr:   -(rs/(2.0*r*r))*f*(dtDlam*dtDlam) + (rs/(2.0*r*r*f))*(dr*dr) + (r-rs)*(dphi*dphi),
		Dphi: -2.0 * dr * dphi / r,
	}
}

// Schwarzschild adapts the geodesic equation to dynamo.System over the
// vector (r, φ, dr/dλ, dφ/dλ). Rs and E are fixed for a trace.
type Schwarzschild struct {
	Rs float64
	E  float64
}

func (s *Schwarzschild) StateDim() int { return 4 }

func (s *Schwarzschild) Derive(x dynamo.State, lam float64) dynamo.State {
	d := rates(x[0], x[2], x[3], s.E, s.Rs)
	return dynamo.State{d.R, d.Phi, d.Dr, d.Dphi}
}

// Energy recovers E from the null condition at x. Along an exact null
// geodesic it equals s.E; the difference measures integration error.
// Returns NaN at or inside the horizon.
func (s *Schwarzschild) Energy(x dynamo.State) float64 {
	r, dr, dphi := x[0], x[2], x[3]
	f := 1.0 - s.Rs/r
	if f <= 0 {
		return math.NaN()
	}
	return math.Sqrt(dr*dr + f*r*r*dphi*dphi)
}
