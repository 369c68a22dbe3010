// Package geodesic traces light rays in the equatorial plane of a
// Schwarzschild black hole.
//
// The integrated vector is (r, φ, dr/dλ, dφ/dλ) with λ the affine
// parameter. The conserved energy E is fixed once from the launch
// conditions and enters the equations as a constant.
//
// # Example
//
//	res, err := geodesic.IntegrateTrajectory(1e31, 1e6, 0, 0, 5e4, 1000, 1.0)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(res.Trail), res.HitHorizon, res.Rs)
//
// A trace stops when the step budget runs out or when r <= rs is
// observed before a step. Each trace owns its RayState and integrator,
// so independent traces may run on separate goroutines.
package geodesic
