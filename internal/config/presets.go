package config

import (
	"math"
	"sort"

	"github.com/san-kum/lensim/internal/geodesic"
	"github.com/san-kum/lensim/internal/physics"
)

var rsDefault = physics.SchwarzschildRadius(DefaultMass)

var Presets = map[string]*Config{
	// wide tangential pass, escapes
	"flyby": {
		Mass: DefaultMass, Integrator: "rk4", Steps: 1000, Dlam: 1.0,
		Launch: geodesic.Launch{X: 1e6, Y: 0, VX: 0, VY: 5e4},
	},
	// radial infall, captured
	"plunge": {
		Mass: DefaultMass, Integrator: "rk4", Steps: 1000, Dlam: 1.0,
		Launch: geodesic.Launch{X: 1e6, Y: 0, VX: -3e4, VY: 0},
	},
	// impact parameter just above critical, loops before escaping
	"grazing": {
		Mass: DefaultMass, Integrator: "rk4", Steps: 20000, Dlam: 0.25,
		Launch: geodesic.Launch{X: -60 * rsDefault, Y: 1.02 * 1.5 * math.Sqrt(3) * rsDefault, VX: 2000, VY: 0},
	},
	// tangential launch on the unstable circular photon orbit
	"photon_orbit": {
		Mass: DefaultMass, Integrator: "rk4", Steps: 5000, Dlam: 0.5,
		Launch: geodesic.Launch{X: 1.5 * rsDefault, Y: 0, VX: 0, VY: 1000},
	},
	// worker-sized run
	"batch": {
		Mass: DefaultMass, Integrator: "rk4", Steps: geodesic.BatchSteps, Dlam: 1.0,
		Launch: geodesic.Launch{X: 1e6, Y: 0, VX: 0, VY: 5e4},
	},
}

// GetPreset returns a copy of the named preset with the default fan block,
// or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Fan = DefaultConfig().Fan
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
