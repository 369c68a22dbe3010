package metrics

import (
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
)

// Periapsis is the smallest radius x[0] seen along a trace.
type Periapsis struct {
	min     float64
	samples int
}

func NewPeriapsis() *Periapsis {
	return &Periapsis{}
}

func (p *Periapsis) Name() string { return "periapsis" }

func (p *Periapsis) Observe(sys dynamo.System, x dynamo.State, lam float64) {
	if len(x) < 1 {
		return
	}
	if p.samples == 0 || x[0] < p.min {
		p.min = x[0]
	}
	p.samples++
}

func (p *Periapsis) Value() float64 {
	if p.samples == 0 {
		return math.NaN()
	}
	return p.min
}

func (p *Periapsis) Reset() {
	p.min = 0
	p.samples = 0
}

// Deflection is the angle x[1] swept since the first observed state,
// minus π. For a ray launched and ending far from the hole this is the
// lensing deflection angle; it is zero for a straight line.
type Deflection struct {
	start   float64
	last    float64
	samples int
}

func NewDeflection() *Deflection {
	return &Deflection{}
}

func (d *Deflection) Name() string { return "deflection" }

func (d *Deflection) Observe(sys dynamo.System, x dynamo.State, lam float64) {
	if len(x) < 2 {
		return
	}
	if d.samples == 0 {
		d.start = x[1]
	}
	d.last = x[1]
	d.samples++
}

func (d *Deflection) Value() float64 {
	if d.samples < 2 {
		return 0
	}
	return math.Abs(d.last-d.start) - math.Pi
}

func (d *Deflection) Reset() {
	d.start, d.last = 0, 0
	d.samples = 0
}

// Defaults returns a fresh set of the metrics attached to every CLI trace.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(),
		NewPeriapsis(),
		NewDeflection(),
	}
}
