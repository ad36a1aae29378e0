package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
)

// EmitFunc receives each particle that survived the tick, in store order.
type EmitFunc func(pos *components.Position, p *components.Particle, kp *KindParams)

// ParticleStore owns all particles of one kind in an ECS world.
// Order is irrelevant; particles leave only by expiry or Clear.
type ParticleStore struct {
	kind   components.Kind
	params KindParams

	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Particle]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Particle]

	count int
	dead  []ecs.Entity // scratch, reused across ticks
}

// NewParticleStore creates an empty store for one kind.
func NewParticleStore(kind components.Kind, params KindParams) *ParticleStore {
	world := ecs.NewWorld()
	return &ParticleStore{
		kind:   kind,
		params: params,
		world:  world,
		mapper: ecs.NewMap3[components.Position, components.Velocity, components.Particle](world),
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Particle](world),
		dead:   make([]ecs.Entity, 0, 64),
	}
}

// Kind returns the kind of particle this store holds.
func (s *ParticleStore) Kind() components.Kind {
	return s.kind
}

// Params returns the constant bundle used for this store's particles.
func (s *ParticleStore) Params() KindParams {
	return s.params
}

// Add inserts a particle. The kind tag is forced to the store's kind, a
// negative size is treated as zero and non-finite coordinates become zero.
func (s *ParticleStore) Add(pos components.Position, vel components.Velocity, p components.Particle) {
	p.Kind = s.kind
	pos.X, pos.Y = finite(pos.X), finite(pos.Y)
	vel.X, vel.Y = finite(vel.X), finite(vel.Y)
	if p.Size < 0 || math.IsNaN(p.Size) {
		p.Size = 0
	}
	s.mapper.NewEntity(&pos, &vel, &p)
	s.count++
}

// Step integrates every particle once, decays life, removes expired particles
// and passes survivors to emit. Returns the number of particles that expired.
func (s *ParticleStore) Step(pointer, bounds r2.Vec, emit EmitFunc) int {
	s.dead = s.dead[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()

		Integrate(pos, vel, p, &s.params, pointer, bounds)

		p.Life -= p.Decay
		if p.Life <= 0 {
			s.dead = append(s.dead, query.Entity())
			continue
		}

		if emit != nil {
			emit(pos, p, &s.params)
		}
	}

	// World is locked during iteration, remove afterwards
	for _, e := range s.dead {
		s.mapper.Remove(e)
	}
	s.count -= len(s.dead)

	return len(s.dead)
}

// Each visits every particle without modifying it.
func (s *ParticleStore) Each(fn func(pos components.Position, vel components.Velocity, p components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		fn(*pos, *vel, *p)
	}
}

// Count returns the number of live particles.
func (s *ParticleStore) Count() int {
	return s.count
}

// Clear removes every particle.
func (s *ParticleStore) Clear() {
	s.dead = s.dead[:0]
	query := s.filter.Query()
	for query.Next() {
		s.dead = append(s.dead, query.Entity())
	}
	for _, e := range s.dead {
		s.mapper.Remove(e)
	}
	s.dead = s.dead[:0]
	s.count = 0
}
