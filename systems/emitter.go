package systems

import (
	"math/rand"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// Emitter creates randomized particles for seeding, click bursts and top-ups.
type Emitter struct {
	rng            *rand.Rand
	physics        config.KindConfig
	liquid         config.KindConfig
	explosion      config.ExplosionConfig
	physicsPalette Palette
	liquidPalette  Palette
}

// NewEmitter creates an emitter from the particle sections of cfg.
func NewEmitter(cfg *config.Config, rng *rand.Rand) *Emitter {
	return &Emitter{
		rng:            rng,
		physics:        cfg.Physics,
		liquid:         cfg.Liquid,
		explosion:      cfg.Explosion,
		physicsPalette: NewPalette(cfg.Derived.PhysicsColors, cfg.Physics.PaletteAlpha),
		liquidPalette:  NewPalette(cfg.Derived.LiquidColors, cfg.Liquid.PaletteAlpha),
	}
}

// uniform samples [r.Min, r.Max).
func (e *Emitter) uniform(r config.Range) float64 {
	return r.Min + e.rng.Float64()*(r.Max-r.Min)
}

// SeedPhysics adds n physics particles at random positions with small random velocities.
func (e *Emitter) SeedPhysics(s *ParticleStore, n int, width, height float64) {
	for i := 0; i < n; i++ {
		s.Add(
			components.Position{X: e.rng.Float64() * width, Y: e.rng.Float64() * height},
			components.Velocity{X: e.uniform(e.physics.Speed), Y: e.uniform(e.physics.Speed)},
			components.Particle{
				Size:  e.uniform(e.physics.Size),
				Life:  1,
				Decay: e.uniform(e.physics.Decay),
				Color: e.physicsPalette.Pick(e.rng),
			},
		)
	}
}

// SeedLiquid adds n resting liquid particles at random positions.
func (e *Emitter) SeedLiquid(s *ParticleStore, n int, width, height float64) {
	for i := 0; i < n; i++ {
		e.addLiquid(s, width, height)
	}
}

// Burst adds the click explosion at (x, y) and returns how many particles were added.
func (e *Emitter) Burst(s *ParticleStore, x, y float64) int {
	for i := 0; i < e.explosion.Count; i++ {
		s.Add(
			components.Position{X: x, Y: y},
			components.Velocity{X: e.uniform(e.explosion.Speed), Y: e.uniform(e.explosion.Speed)},
			components.Particle{
				Size:  e.uniform(e.explosion.Size),
				Life:  1,
				Decay: e.explosion.Decay,
				Color: e.physicsPalette.Pick(e.rng),
			},
		)
	}
	return e.explosion.Count
}

// TopUp adds one liquid particle with the configured per-tick probability.
// Returns true if a particle was added.
func (e *Emitter) TopUp(s *ParticleStore, width, height float64) bool {
	if e.rng.Float64() >= e.liquid.SpawnChance {
		return false
	}
	e.addLiquid(s, width, height)
	return true
}

func (e *Emitter) addLiquid(s *ParticleStore, width, height float64) {
	s.Add(
		components.Position{X: e.rng.Float64() * width, Y: e.rng.Float64() * height},
		components.Velocity{},
		components.Particle{
			Size:      e.uniform(e.liquid.Size),
			Life:      1,
			Decay:     e.uniform(e.liquid.Decay),
			Color:     e.liquidPalette.Pick(e.rng),
			Viscosity: e.uniform(e.liquid.Viscosity),
		},
	)
}
