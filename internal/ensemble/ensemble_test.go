package ensemble

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lensim/internal/dynamo"
	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

func testFan() Fan {
	return Fan{Distance: 1e6, Speed: 2000, ImpactMin: 0, ImpactMax: 8e4, Rays: 9}
}

func TestFanLaunches(t *testing.T) {
	launches := testFan().Launches()
	if len(launches) != 9 {
		t.Fatalf("expected 9 launches, got %d", len(launches))
	}
	for i, l := range launches {
		want := float64(i) * 1e4
		if math.Abs(l.Y-want) > 1e-6 {
			t.Errorf("launch %d: expected impact %g, got %g", i, want, l.Y)
		}
		if l.X != -1e6 || l.VX != 2000 || l.VY != 0 {
			t.Errorf("launch %d: unexpected launch %+v", i, l)
		}
	}

	single := Fan{Distance: 1, Speed: 1, ImpactMin: 5, ImpactMax: 9, Rays: 1}.Launches()
	if len(single) != 1 || single[0].Y != 5 {
		t.Errorf("single-ray fan should launch at ImpactMin, got %+v", single)
	}
}

func TestFanValidate(t *testing.T) {
	tests := []struct {
		name string
		fan  Fan
	}{
		{"zero distance", Fan{Distance: 0, Speed: 1, Rays: 1}},
		{"negative speed", Fan{Distance: 1, Speed: -1, Rays: 1}},
		{"no rays", Fan{Distance: 1, Speed: 1, Rays: 0}},
		{"inverted range", Fan{Distance: 1, Speed: 1, ImpactMin: 2, ImpactMax: 1, Rays: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fan.Validate(); !errors.Is(err, dynamo.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if err := testFan().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTraceFan(t *testing.T) {
	bh, err := physics.NewBlackHole(1e31)
	if err != nil {
		t.Fatal(err)
	}

	fan := testFan()
	opts := geodesic.Options{Steps: 3000, StepSize: 1}
	rays, err := Trace(context.Background(), bh, fan.Launches(), opts, 3)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}

	if len(rays) != fan.Rays {
		t.Fatalf("expected %d rays, got %d", fan.Rays, len(rays))
	}
	for i, r := range rays {
		if r.Result == nil {
			t.Fatalf("ray %d has no result", i)
		}
		if r.Launch != fan.Launches()[i] {
			t.Errorf("ray %d out of order", i)
		}
	}

	s := Summarize(bh, rays)
	if s.Rays != 9 {
		t.Errorf("expected 9 rays in summary, got %d", s.Rays)
	}
	if s.Captured < 3 {
		t.Errorf("expected rays inside the critical impact to be captured, got %d", s.Captured)
	}
	if s.Captured == s.Rays {
		t.Error("expected wide rays to escape")
	}
	if s.MaxCaptureImpact >= s.MinEscapeImpact {
		t.Errorf("captured impact %g should lie below escaped impact %g", s.MaxCaptureImpact, s.MinEscapeImpact)
	}
	if s.MaxCaptureImpact > 1.1*s.CriticalImpact || s.MinEscapeImpact < 0.9*s.CriticalImpact {
		t.Errorf("capture threshold [%g, %g] far from theory %g", s.MaxCaptureImpact, s.MinEscapeImpact, s.CriticalImpact)
	}
	if s.MaxDeflection <= 0 {
		t.Errorf("expected positive deflection for escaping rays, got %g", s.MaxDeflection)
	}
}

func TestTraceCanceled(t *testing.T) {
	bh, _ := physics.NewBlackHole(1e31)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Trace(ctx, bh, testFan().Launches(), geodesic.DefaultOptions(), 2)
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
}

func TestTracePropagatesRayErrors(t *testing.T) {
	bh, _ := physics.NewBlackHole(1e31)
	_, err := Trace(context.Background(), bh, testFan().Launches(), geodesic.Options{Steps: 10, StepSize: 0}, 0)
	if !errors.Is(err, dynamo.ErrInvalidStepSize) {
		t.Errorf("expected ErrInvalidStepSize, got %v", err)
	}
}

func TestSummarizeAllCaptured(t *testing.T) {
	bh, _ := physics.NewBlackHole(1e31)
	rays := []Ray{
		{Launch: geodesic.Launch{Y: 1}, Result: &geodesic.Result{HitHorizon: true}},
		{Launch: geodesic.Launch{Y: -3}, Result: &geodesic.Result{HitHorizon: true, Diverged: true}},
	}

	s := Summarize(bh, rays)
	if s.Captured != 2 || s.Diverged != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !math.IsNaN(s.MinEscapeImpact) {
		t.Errorf("expected NaN escape impact, got %g", s.MinEscapeImpact)
	}
	if s.MaxCaptureImpact != 3 {
		t.Errorf("expected max capture impact 3, got %g", s.MaxCaptureImpact)
	}
}
