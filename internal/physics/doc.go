// Package physics holds the physical constants and the gravitating source.
//
//   - [SchwarzschildRadius]: event horizon radius for a mass
//   - [BlackHole]: validated, immutable mass with derived radii
//
// All quantities are SI: kilograms and metres.
package physics
