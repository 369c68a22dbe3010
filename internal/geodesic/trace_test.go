package geodesic_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

const mass = 1.0e31

// energyRecorder records the E the derivative function sees at every state.
type energyRecorder struct {
	seen []float64
}

func (p *energyRecorder) Name() string { return "energy_seen" }
func (p *energyRecorder) Observe(sys dynamo.System, x dynamo.State, lam float64) {
	p.seen = append(p.seen, sys.(*geodesic.Schwarzschild).E)
}
func (p *energyRecorder) Value() float64 { return float64(len(p.seen)) }
func (p *energyRecorder) Reset()         { p.seen = p.seen[:0] }

type stepCounter struct {
	steps []int
}

func (c *stepCounter) OnStep(step int, x dynamo.State, lam float64) {
	c.steps = append(c.steps, step)
}

var _ = Describe("IntegrateTrajectory", func() {
	var rs float64

	BeforeEach(func() {
		rs = physics.SchwarzschildRadius(mass)
	})

	Context("with a wide tangential flyby", func() {
		var res *geodesic.Result

		BeforeEach(func() {
			var err error
			res, err = geodesic.IntegrateTrajectory(mass, 1e6, 0, 0, 5e4, 1000, 1.0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("escapes and uses the whole step budget", func() {
			Expect(res.HitHorizon).To(BeFalse())
			Expect(res.Diverged).To(BeFalse())
			Expect(res.StepsTaken).To(Equal(1000))
			Expect(res.Trail).To(HaveLen(1001))
		})

		It("reports the horizon radius", func() {
			Expect(res.Rs).To(BeNumerically("~", 2*physics.G*mass/(physics.C*physics.C), 1e-9))
		})

		It("starts the trail at the launch point", func() {
			Expect(res.Trail[0]).To(Equal(geodesic.Point{X: 1e6, Y: 0}))
		})

		It("moves monotonically outward from periapsis", func() {
			prev := res.Trail[0].Radius()
			for _, p := range res.Trail[1:] {
				r := p.Radius()
				Expect(r).To(BeNumerically(">=", prev*(1-1e-12)))
				prev = r
			}
			Expect(prev).To(BeNumerically(">", 1e6))
		})

		It("keeps the flag consistent with the final radius", func() {
			last := res.Trail[len(res.Trail)-1]
			Expect(res.HitHorizon).To(Equal(last.Radius() <= res.Rs))
		})

		It("conserves the null condition", func() {
			sys := &geodesic.Schwarzschild{Rs: res.Rs, E: res.E}
			bh, _ := physics.NewBlackHole(mass)
			ray, err := geodesic.NewRayState(bh, geodesic.Launch{X: 1e6, VY: 5e4}, 1)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 200; i++ {
				geodesic.Step(ray, 1.0, res.Rs)
			}
			x := dynamo.State{ray.R, ray.Phi, ray.Dr, ray.Dphi}
			Expect(sys.Energy(x)).To(BeNumerically("~", res.E, 1e-4*res.E))
		})
	})

	Context("with a ray aimed at the centre", func() {
		It("is captured within a bounded number of steps", func() {
			res, err := geodesic.IntegrateTrajectory(mass, 1e6, 0, -3e4, 0, 1000, 1.0)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.HitHorizon).To(BeTrue())
			Expect(res.Diverged).To(BeFalse())
			Expect(res.StepsTaken).To(Equal(33))
			Expect(res.Trail).To(HaveLen(res.StepsTaken + 1))

			last := res.Trail[len(res.Trail)-1]
			Expect(last.Radius()).To(BeNumerically("<=", rs))
			for _, p := range res.Trail[:len(res.Trail)-1] {
				Expect(p.Radius()).To(BeNumerically(">", rs))
				Expect(p.Y).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("reports capture when a stage lands on the singularity", func() {
			res, err := geodesic.IntegrateTrajectory(mass, 1e6, 0, -5e4, 0, 1000, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.HitHorizon).To(BeTrue())
			Expect(res.Diverged).To(BeTrue())
			Expect(res.StepsTaken).To(BeNumerically("<", 1000))
			Expect(res.Trail).To(HaveLen(res.StepsTaken + 1))

			last := res.Trail[len(res.Trail)-1]
			Expect(res.HitHorizon).To(Equal(last.Radius() <= res.Rs || res.Diverged))
		})
	})

	DescribeTable("stops at capture whatever the step budget",
		func(steps int) {
			res, err := geodesic.IntegrateTrajectory(mass, 1e6, 0, -3e4, 0, steps, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.HitHorizon).To(BeTrue())
			Expect(res.StepsTaken).To(Equal(33))
			Expect(res.Trail).To(HaveLen(34))
		},
		Entry("a billion steps", 1_000_000_000),
		Entry("2^45 steps", 1<<45),
		Entry("the largest int", math.MaxInt),
	)

	Context("at the boundaries", func() {
		It("returns only the launch point for zero steps", func() {
			res, err := geodesic.IntegrateTrajectory(mass, 1e6, 0, 0, 5e4, 0, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trail).To(HaveLen(1))
			Expect(res.HitHorizon).To(BeFalse())
		})

		It("reports immediate capture for a launch inside the horizon", func() {
			res, err := geodesic.IntegrateTrajectory(mass, 1e4, 0, 0, 0, 1000, 1.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trail).To(HaveLen(1))
			Expect(res.StepsTaken).To(BeZero())
			Expect(res.HitHorizon).To(BeTrue())
		})

		It("is deterministic", func() {
			a, err := geodesic.IntegrateTrajectory(mass, 3e5, 2e5, -4e4, 1e4, 500, 0.5)
			Expect(err).NotTo(HaveOccurred())
			b, err := geodesic.IntegrateTrajectory(mass, 3e5, 2e5, -4e4, 1e4, 500, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Trail).To(Equal(b.Trail))
			Expect(a.HitHorizon).To(Equal(b.HitHorizon))
		})
	})

	DescribeTable("rejects invalid input",
		func(m, x, y float64, steps int, dlam float64, want error) {
			_, err := geodesic.IntegrateTrajectory(m, x, y, 0, 5e4, steps, dlam)
			Expect(err).To(MatchError(want))
		},
		Entry("zero mass", 0.0, 1e6, 0.0, 10, 1.0, dynamo.ErrInvalidMass),
		Entry("negative mass", -1e31, 1e6, 0.0, 10, 1.0, dynamo.ErrInvalidMass),
		Entry("origin", mass, 0.0, 0.0, 10, 1.0, dynamo.ErrDegenerateOrigin),
		Entry("NaN position", mass, math.NaN(), 0.0, 10, 1.0, dynamo.ErrInvalidInput),
		Entry("negative steps", mass, 1e6, 0.0, -1, 1.0, dynamo.ErrInvalidSteps),
		Entry("zero step size", mass, 1e6, 0.0, 10, 0.0, dynamo.ErrInvalidStepSize),
		Entry("infinite step size", mass, 1e6, 0.0, 10, math.Inf(1), dynamo.ErrInvalidStepSize),
	)
})

var _ = Describe("Tracer", func() {
	var bh physics.BlackHole

	BeforeEach(func() {
		var err error
		bh, err = physics.NewBlackHole(mass)
		Expect(err).NotTo(HaveOccurred())
	})

	It("holds E fixed for the whole integration", func() {
		rec := &energyRecorder{}
		tracer := geodesic.NewTracer()
		tracer.AddMetric(rec)

		res, err := tracer.Run(bh, geodesic.Launch{X: 5e5, Y: -2e5, VX: -1e4, VY: 4e4}, geodesic.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.seen).To(HaveLen(res.StepsTaken + 1))
		for _, e := range rec.seen {
			Expect(e).To(Equal(res.E))
		}
		Expect(res.Metrics).To(HaveKeyWithValue("energy_seen", float64(res.StepsTaken+1)))
	})

	It("notifies observers once per recorded point", func() {
		counter := &stepCounter{}
		tracer := geodesic.NewTracer()
		tracer.AddObserver(counter)

		res, err := tracer.Run(bh, geodesic.Launch{X: 1e6, VY: 5e4}, geodesic.Options{Steps: 25, StepSize: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(counter.steps).To(HaveLen(len(res.Trail)))
		Expect(counter.steps[0]).To(Equal(0))
		Expect(counter.steps[len(counter.steps)-1]).To(Equal(25))
	})

	It("rejects an unknown integrator", func() {
		_, err := newTracer().Run(bh, geodesic.Launch{X: 1e6, VY: 5e4}, geodesic.Options{Steps: 1, StepSize: 1, Integrator: "euler"})
		Expect(err).To(MatchError(dynamo.ErrUnknownIntegrator))
	})

	It("rejects a zero-value black hole", func() {
		_, err := newTracer().Run(physics.BlackHole{}, geodesic.Launch{X: 1e6, VY: 5e4}, geodesic.DefaultOptions())
		Expect(err).To(MatchError(dynamo.ErrInvalidMass))
	})

	It("matches a manual RK4 step", func() {
		launch := geodesic.Launch{X: 1e6, VY: 5e4}
		res, err := geodesic.Trace(bh, launch, geodesic.Options{Steps: 1, StepSize: 1})
		Expect(err).NotTo(HaveOccurred())

		ray, err := geodesic.NewRayState(bh, launch, 2)
		Expect(err).NotTo(HaveOccurred())
		geodesic.Step(ray, 1, bh.Radius())

		Expect(res.Trail[1].X).To(BeNumerically("~", ray.R*math.Cos(ray.Phi), 1e-6))
		Expect(res.Trail[1].Y).To(BeNumerically("~", ray.R*math.Sin(ray.Phi), 1e-6))
	})
})

func newTracer() *geodesic.Tracer { return geodesic.NewTracer() }
