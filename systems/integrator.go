package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
)

// Integrate advances one particle by one tick. The order matters: attraction,
// gravity or viscosity, explicit Euler position update, friction, then walls.
// Life is handled by the store so expiry and removal stay in one place.
func Integrate(pos *components.Position, vel *components.Velocity, p *components.Particle, kp *KindParams, pointer, bounds r2.Vec) {
	// 1. Pointer attraction
	imp := Attraction(r2.Vec{X: pos.X, Y: pos.Y}, pointer, kp.AttractionRadius, kp.AttractionGain)
	vel.X += imp.X
	vel.Y += imp.Y

	// 2-3. Kind-specific forces
	switch p.Kind {
	case components.KindLiquid:
		damp := 1 - clamp(p.Viscosity, 0, 1)
		vel.X *= damp
		vel.Y *= damp
	default:
		vel.Y += kp.Gravity
	}
	vel.X = finite(vel.X)
	vel.Y = finite(vel.Y)

	// 4. Position
	pos.X = finite(pos.X + vel.X)
	pos.Y = finite(pos.Y + vel.Y)

	// 5. Friction
	if p.Kind != components.KindLiquid {
		vel.X *= kp.Friction
		vel.Y *= kp.Friction
	}

	// 6. Walls
	bounce(&pos.X, &vel.X, bounds.X, kp.Restitution)
	bounce(&pos.Y, &vel.Y, bounds.Y, kp.Restitution)
}

// bounce clamps x to [0, limit] and reflects v scaled by restitution when x left the range.
func bounce(x, v *float64, limit, restitution float64) {
	if limit < 0 {
		limit = 0
	}
	switch {
	case *x < 0:
		*x = 0
		*v *= -restitution
	case *x > limit:
		*x = limit
		*v *= -restitution
	}
}
