package ensemble

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/metrics"
	"github.com/san-kum/lensim/internal/physics"
)

// Fan describes parallel rays travelling in +x from x = -Distance, spread
// evenly in impact parameter over [ImpactMin, ImpactMax].
type Fan struct {
	Distance  float64
	Speed     float64
	ImpactMin float64
	ImpactMax float64
	Rays      int
}

func (f Fan) Validate() error {
	if !(f.Distance > 0) || !(f.Speed > 0) {
		return fmt.Errorf("%w: fan distance and speed must be positive", dynamo.ErrInvalidInput)
	}
	if f.Rays < 1 {
		return fmt.Errorf("%w: fan needs at least one ray", dynamo.ErrInvalidInput)
	}
	if f.ImpactMax < f.ImpactMin {
		return fmt.Errorf("%w: impact range [%g, %g] is inverted", dynamo.ErrInvalidInput, f.ImpactMin, f.ImpactMax)
	}
	return nil
}

// Launches returns one launch per ray, ordered by impact parameter.
func (f Fan) Launches() []geodesic.Launch {
	launches := make([]geodesic.Launch, f.Rays)
	for i := range launches {
		b := f.ImpactMin
		if f.Rays > 1 {
			b += (f.ImpactMax - f.ImpactMin) * float64(i) / float64(f.Rays-1)
		}
		launches[i] = geodesic.Launch{X: -f.Distance, Y: b, VX: f.Speed}
	}
	return launches
}

// Ray pairs a launch with its traced result.
type Ray struct {
	Launch geodesic.Launch
	Result *geodesic.Result
}

// Trace runs every launch on at most workers goroutines (GOMAXPROCS when
// workers < 1). Each worker builds its own tracer and metrics. The
// context is checked between rays; a single trace always runs to
// completion.
func Trace(ctx context.Context, bh physics.BlackHole, launches []geodesic.Launch, opts geodesic.Options, workers int) ([]Ray, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	rays := make([]Ray, len(launches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, l := range launches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
			}

			tracer := geodesic.NewTracer()
			for _, m := range metrics.Defaults() {
				tracer.AddMetric(m)
			}

			res, err := tracer.Run(bh, l, opts)
			if err != nil {
				return fmt.Errorf("ray %d: %w", i, err)
			}
			rays[i] = Ray{Launch: l, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
	}
	return rays, nil
}

// Summary condenses a fan into the lensing quantities of interest.
type Summary struct {
	Rays     int
	Captured int
	Diverged int
	// MinEscapeImpact is the smallest |impact parameter| that escaped, or
	// NaN if every ray was captured.
	MinEscapeImpact float64
	// MaxCaptureImpact is the largest |impact parameter| that was
	// captured, or NaN if none were.
	MaxCaptureImpact float64
	// CriticalImpact is the theoretical capture threshold (3√3/2) rs.
	CriticalImpact float64
	MaxDeflection  float64
}

func Summarize(bh physics.BlackHole, rays []Ray) Summary {
	s := Summary{
		Rays:             len(rays),
		MinEscapeImpact:  math.NaN(),
		MaxCaptureImpact: math.NaN(),
		CriticalImpact:   bh.CriticalImpact(),
	}

	for _, r := range rays {
		b := math.Abs(r.Launch.Y)
		if r.Result.HitHorizon {
			s.Captured++
			if r.Result.Diverged {
				s.Diverged++
			}
			if math.IsNaN(s.MaxCaptureImpact) || b > s.MaxCaptureImpact {
				s.MaxCaptureImpact = b
			}
			continue
		}
		if math.IsNaN(s.MinEscapeImpact) || b < s.MinEscapeImpact {
			s.MinEscapeImpact = b
		}
		if d, ok := r.Result.Metrics["deflection"]; ok && d > s.MaxDeflection {
			s.MaxDeflection = d
		}
	}

	return s
}
