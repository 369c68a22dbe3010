package geodesic

import (
	"fmt"
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/integrators"
	"github.com/san-kum/lensim/internal/physics"
)

const (
	DefaultSteps    = 1000
	BatchSteps      = 50000
	DefaultStepSize = 1.0
)

type Options struct {
	Steps      int
	StepSize   float64
	Integrator string
}

func DefaultOptions() Options {
	return Options{
		Steps:      DefaultSteps,
		StepSize:   DefaultStepSize,
		Integrator: integrators.Default,
	}
}

func (o Options) Validate() error {
	if o.Steps < 0 {
		return fmt.Errorf("%w: got %d", dynamo.ErrInvalidSteps, o.Steps)
	}
	if !(o.StepSize > 0) || math.IsInf(o.StepSize, 0) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidStepSize, o.StepSize)
	}
	return nil
}

// Result is the outcome of one trace. len(Trail) == StepsTaken+1.
//
// HitHorizon is true when the last trail point is at or inside rs, or
// when the trace diverged. A diverged ray ends on its last finite point,
// which may lie outside the horizon.
type Result struct {
	Trail      []Point            `json:"trail"`
	HitHorizon bool               `json:"hit_horizon"`
	Rs         float64            `json:"rs"`
	E          float64            `json:"energy"`
	StepsTaken int                `json:"steps_taken"`
	Diverged   bool               `json:"diverged,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`

	// Divergence is set when a step produced a non-finite state; the
	// step was discarded.
	Divergence *dynamo.TraceError `json:"-"`
}

// Tracer integrates single rays and feeds every recorded state to its
// metrics and observers. A Tracer is not safe for concurrent use: its
// metrics accumulate per run.
type Tracer struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func NewTracer() *Tracer {
	return &Tracer{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (t *Tracer) AddMetric(m dynamo.Metric)     { t.metrics = append(t.metrics, m) }
func (t *Tracer) AddObserver(o dynamo.Observer) { t.observers = append(t.observers, o) }

func (t *Tracer) Run(bh physics.BlackHole, launch Launch, opts Options) (*Result, error) {
	if bh.Mass() <= 0 {
		return nil, dynamo.ErrInvalidMass
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(opts.Integrator)
	if err != nil {
		return nil, err
	}

	rs := bh.Radius()
	ray, err := NewRayState(bh, launch, min(opts.Steps, maxTrailReserve)+1)
	if err != nil {
		return nil, err
	}

	sys := &Schwarzschild{Rs: rs, E: ray.E}
	result := &Result{
		Rs:      rs,
		E:       ray.E,
		Metrics: make(map[string]float64),
	}

	for _, m := range t.metrics {
		m.Reset()
	}

	x := ray.vector()
	lam := 0.0
	t.observe(sys, 0, x, lam)

	for i := 0; i < opts.Steps; i++ {
		if ray.Captured(rs) {
			break
		}

		next := integ.Step(sys, x, lam, opts.StepSize)
		if !next.IsValid() {
			result.Divergence = &dynamo.TraceError{Step: i, Lambda: lam, State: next, Wrapped: dynamo.ErrInvalidState}
			break
		}

		x = next
		lam += opts.StepSize
		ray.setVector(x)
		ray.record()
		result.StepsTaken++

		t.observe(sys, i+1, x, lam)
	}

	result.Trail = ray.Trail
	result.Diverged = result.Divergence != nil
	// A non-finite state only arises from a stage evaluated on r = 0 or
	// r = rs, so divergence counts as capture.
	result.HitHorizon = ray.Captured(rs) || result.Diverged

	for _, m := range t.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (t *Tracer) observe(sys dynamo.System, step int, x dynamo.State, lam float64) {
	for _, m := range t.metrics {
		m.Observe(sys, x, lam)
	}
	for _, o := range t.observers {
		o.OnStep(step, x, lam)
	}
}

// Trace runs a single ray with no metrics attached.
func Trace(bh physics.BlackHole, launch Launch, opts Options) (*Result, error) {
	return NewTracer().Run(bh, launch, opts)
}

// IntegrateTrajectory traces one photon around a black hole of the given
// mass using fixed-step RK4.
func IntegrateTrajectory(mass, x, y, vx, vy float64, steps int, dlam float64) (*Result, error) {
	bh, err := physics.NewBlackHole(mass)
	if err != nil {
		return nil, err
	}
	return Trace(bh, Launch{X: x, Y: y, VX: vx, VY: vy}, Options{
		Steps:      steps,
		StepSize:   dlam,
		Integrator: integrators.Default,
	})
}
