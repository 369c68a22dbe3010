package physics

const (
	// C is the speed of light in m/s.
	C = 299_792_458.0
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67430e-11
)

// SchwarzschildRadius returns rs = 2GM/c^2 in metres. The mass is not
// validated; see NewBlackHole.
func SchwarzschildRadius(mass float64) float64 {
	return 2.0 * G * mass / (C * C)
}
