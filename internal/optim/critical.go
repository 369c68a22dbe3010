package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

// Probe reports whether a ray with impact parameter b is captured.
type Probe func(ctx context.Context, b float64) (bool, error)

// Bisection narrows a bracket [Lo, Hi] with Probe(Lo) captured and
// Probe(Hi) escaping until it is narrower than Tol.
type Bisection struct {
	Tol     float64
	MaxIter int
}

func NewBisection(tol float64) *Bisection {
	return &Bisection{Tol: tol, MaxIter: 64}
}

type Threshold struct {
	Impact     float64
	Lo, Hi     float64
	Iterations int
}

func (s *Bisection) Search(ctx context.Context, probe Probe, lo, hi float64) (Threshold, error) {
	if !(hi > lo) || !(s.Tol > 0) {
		return Threshold{}, fmt.Errorf("%w: bracket [%g, %g] with tolerance %g", dynamo.ErrInvalidInput, lo, hi, s.Tol)
	}

	for _, end := range []struct {
		b    float64
		want bool
	}{{lo, true}, {hi, false}} {
		captured, err := probe(ctx, end.b)
		if err != nil {
			return Threshold{}, err
		}
		if captured != end.want {
			return Threshold{}, fmt.Errorf("%w: b = %g does not bracket the capture threshold", dynamo.ErrInvalidInput, end.b)
		}
	}

	th := Threshold{Lo: lo, Hi: hi}
	for th.Hi-th.Lo > s.Tol && th.Iterations < s.MaxIter {
		if err := ctx.Err(); err != nil {
			return th, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
		}

		mid := 0.5 * (th.Lo + th.Hi)
		captured, err := probe(ctx, mid)
		if err != nil {
			return th, err
		}
		if captured {
			th.Lo = mid
		} else {
			th.Hi = mid
		}
		th.Iterations++
	}

	th.Impact = 0.5 * (th.Lo + th.Hi)
	return th, nil
}

// CaptureProbe traces rays launched along +x from x = -distance with
// y = b.
func CaptureProbe(bh physics.BlackHole, distance, speed float64, opts geodesic.Options) Probe {
	return func(ctx context.Context, b float64) (bool, error) {
		res, err := geodesic.Trace(bh, geodesic.Launch{X: -distance, Y: b, VX: speed}, opts)
		if err != nil {
			return false, err
		}
		return res.HitHorizon, nil
	}
}

// CriticalImpact locates the capture threshold to within rtol times the
// theoretical value, bracketing it with [0, 2·(3√3/2) rs].
func CriticalImpact(ctx context.Context, bh physics.BlackHole, distance, speed float64, opts geodesic.Options, rtol float64) (Threshold, error) {
	crit := bh.CriticalImpact()
	if math.IsNaN(rtol) || rtol <= 0 {
		rtol = 1e-3
	}
	return NewBisection(rtol*crit).Search(ctx, CaptureProbe(bh, distance, speed, opts), 0, 2*crit)
}
