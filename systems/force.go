package systems

import "gonum.org/v1/gonum/spatial/r2"

// Attraction returns the velocity impulse pulling a particle at pos toward the pointer.
// The impulse is zero at or beyond the radius and when the particle sits on the pointer.
func Attraction(pos, pointer r2.Vec, radius, gain float64) r2.Vec {
	d := r2.Sub(pointer, pos)
	dist := r2.Norm(d)
	if dist == 0 || !(dist < radius) {
		return r2.Vec{}
	}
	force := (radius - dist) / radius
	return r2.Scale(force*gain/dist, d)
}
