// Package components defines ECS components for the particle store.
package components

import "image/color"

// Kind distinguishes energetic free-body particles from damped liquid ones.
type Kind uint8

const (
	KindPhysics Kind = iota
	KindLiquid
)

// NumKinds is the number of particle kinds.
const NumKinds = 2

// String returns the kind name used in logs and telemetry.
func (k Kind) String() string {
	switch k {
	case KindPhysics:
		return "physics"
	case KindLiquid:
		return "liquid"
	default:
		return "unknown"
	}
}

// Position represents a particle's canvas position in pixels.
type Position struct {
	X, Y float64
}

// Velocity represents a particle's per-tick displacement.
type Velocity struct {
	X, Y float64
}

// Particle holds the per-particle state that is fixed at spawn, plus Life.
type Particle struct {
	Kind      Kind
	Size      float64     // Render radius
	Life      float64     // 1 at spawn, removed at <= 0
	Decay     float64     // Subtracted from Life each tick
	Color     color.NRGBA // A carries the palette alpha
	Viscosity float64     // Fractional damping per tick (liquid only)
}
