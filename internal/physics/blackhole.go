package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
)

// BlackHole is a non-rotating, uncharged point mass. It is immutable and
// safe to share between goroutines.
type BlackHole struct {
	mass float64
}

func NewBlackHole(mass float64) (BlackHole, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return BlackHole{}, fmt.Errorf("%w: got %g", dynamo.ErrInvalidMass, mass)
	}
	return BlackHole{mass: mass}, nil
}

// Mass in kilograms.
func (b BlackHole) Mass() float64 { return b.mass }

// Radius is the event horizon radius rs.
func (b BlackHole) Radius() float64 { return SchwarzschildRadius(b.mass) }

// PhotonSphere is the radius of the unstable circular light orbit, 1.5 rs.
func (b BlackHole) PhotonSphere() float64 { return 1.5 * b.Radius() }

// CriticalImpact is the impact parameter separating captured from
// escaping rays arriving from infinity, (3√3/2) rs.
func (b BlackHole) CriticalImpact() float64 {
	return 1.5 * math.Sqrt(3) * b.Radius()
}
