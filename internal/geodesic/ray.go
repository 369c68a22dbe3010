package geodesic

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/physics"
)

// Point is a Cartesian position in metres. It encodes as a two-element
// JSON array.
type Point struct {
	X, Y float64
}

func (p Point) Radius() float64 { return math.Hypot(p.X, p.Y) }

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Launch is the initial Cartesian position and velocity of a photon.
type Launch struct {
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
	VX float64 `json:"vx" yaml:"vx"`
	VY float64 `json:"vy" yaml:"vy"`
}

func (l Launch) Validate() error {
	for _, v := range []float64{l.X, l.Y, l.VX, l.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", dynamo.ErrInvalidInput, l)
		}
	}
	if l.X == 0 && l.Y == 0 {
		return dynamo.ErrDegenerateOrigin
	}
	return nil
}

// RayState is the integration state of one photon. It is owned by a
// single trace and never shared.
type RayState struct {
	X, Y   float64
	R, Phi float64
	Dr     float64
	Dphi   float64
	E      float64
	Trail  []Point
}

// maxTrailReserve bounds the up-front trail allocation. Longer traces
// grow the trail as they go.
const maxTrailReserve = 1 << 16

// NewRayState converts a Cartesian launch to polar coordinates and fixes
// the conserved energy from the null condition. capacity reserves room
// in the trail, up to maxTrailReserve; the launch point is always its
// first entry.
//
// A launch at or inside the horizon is accepted: E is then not finite,
// and the tracer takes no steps.
func NewRayState(bh physics.BlackHole, l Launch, capacity int) (*RayState, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	capacity = min(max(capacity, 1), maxTrailReserve)

	rs := bh.Radius()
	r := math.Hypot(l.X, l.Y)
	phi := math.Atan2(l.Y, l.X)
	sin, cos := math.Sincos(phi)
	dr := l.VX*cos + l.VY*sin
	dphi := (-l.VX*sin + l.VY*cos) / r

	f := 1.0 - rs/r
	dtDlam := math.Sqrt(dr*dr/(f*f) + r*r*dphi*dphi/f)

	trail := make([]Point, 1, capacity)
	trail[0] = Point{X: l.X, Y: l.Y}

	return &RayState{
		X:     l.X,
		Y:     l.Y,
		R:     r,
		Phi:   phi,
		Dr:    dr,
		Dphi:  dphi,
		E:     f * dtDlam,
		Trail: trail,
	}, nil
}

// Captured reports whether the ray has reached the horizon.
func (s *RayState) Captured(rs float64) bool {
	return s.R <= rs
}

func (s *RayState) vector() dynamo.State {
	return dynamo.State{s.R, s.Phi, s.Dr, s.Dphi}
}

func (s *RayState) setVector(x dynamo.State) {
	s.R, s.Phi, s.Dr, s.Dphi = x[0], x[1], x[2], x[3]
}

// record refreshes the Cartesian cache and appends it to the trail.
func (s *RayState) record() {
	sin, cos := math.Sincos(s.Phi)
	s.X = s.R * cos
	s.Y = s.R * sin
	s.Trail = append(s.Trail, Point{X: s.X, Y: s.Y})
}
