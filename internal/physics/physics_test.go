package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lensim/internal/dynamo"
)

func TestSchwarzschildRadiusFormula(t *testing.T) {
	mass := 1.0e31
	expected := 2 * 6.67430e-11 * mass / (299792458.0 * 299792458.0)

	rs := SchwarzschildRadius(mass)
	if math.Abs(rs-expected) > 1e-9*expected {
		t.Errorf("expected rs %.6f, got %.6f", expected, rs)
	}

	// roughly 14.85 km for five solar masses
	if rs < 14800 || rs > 14900 {
		t.Errorf("rs out of expected range: %.3f", rs)
	}
}

func TestSchwarzschildRadiusMonotonic(t *testing.T) {
	masses := []float64{1, 1e3, 1.989e30, 1e31, 8.26e36}
	prev := 0.0
	for _, m := range masses {
		rs := SchwarzschildRadius(m)
		if rs <= 0 {
			t.Errorf("mass %g: expected positive radius, got %g", m, rs)
		}
		if rs <= prev {
			t.Errorf("mass %g: radius %g not greater than %g", m, rs, prev)
		}
		prev = rs
	}
}

func TestNewBlackHole(t *testing.T) {
	tests := []struct {
		name  string
		mass  float64
		valid bool
	}{
		{"solar", 1.989e30, true},
		{"tiny", 1e-3, true},
		{"zero", 0, false},
		{"negative", -1e30, false},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bh, err := NewBlackHole(tt.mass)
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if bh.Mass() != tt.mass {
					t.Errorf("expected mass %g, got %g", tt.mass, bh.Mass())
				}
				return
			}
			if !errors.Is(err, dynamo.ErrInvalidMass) {
				t.Errorf("expected ErrInvalidMass, got %v", err)
			}
		})
	}
}

func TestBlackHoleDerivedRadii(t *testing.T) {
	bh, err := NewBlackHole(1e31)
	if err != nil {
		t.Fatal(err)
	}

	rs := bh.Radius()
	if rs != SchwarzschildRadius(1e31) {
		t.Errorf("Radius() = %g, want %g", rs, SchwarzschildRadius(1e31))
	}
	if math.Abs(bh.PhotonSphere()-1.5*rs) > 1e-9 {
		t.Errorf("PhotonSphere() = %g, want %g", bh.PhotonSphere(), 1.5*rs)
	}
	if math.Abs(bh.CriticalImpact()-2.598076211*rs) > 1e-6*rs {
		t.Errorf("CriticalImpact() = %g, want %g", bh.CriticalImpact(), 2.598076211*rs)
	}
}
