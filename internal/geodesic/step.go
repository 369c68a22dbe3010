package geodesic

import "github.com/san-kum/lensim/internal/integrators"

// Step advances ray by one RK4 step of size dlam in place. E and rs are
// held fixed. There is no horizon check: callers must not step a ray
// with ray.R <= rs.
//
// Step is the single-step entry point for callers holding a RayState.
// It builds a fresh integrator per call; Tracer.Run reuses one across
// the whole trace.
func Step(ray *RayState, dlam, rs float64) {
	sys := &Schwarzschild{Rs: rs, E: ray.E}
	ray.setVector(integrators.NewRK4().Step(sys, ray.vector(), 0, dlam))
}
