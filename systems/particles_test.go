package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

var (
	farPointer = r2.Vec{X: -10000, Y: -10000}
	bigBounds  = r2.Vec{X: 1e6, Y: 1e6}
)

func physicsParams() KindParams {
	return DefaultKindTable()[components.KindPhysics]
}

func liquidParams() KindParams {
	return DefaultKindTable()[components.KindLiquid]
}

func TestIntegratePhysicsThresholdScenario(t *testing.T) {
	kp := physicsParams()
	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{}
	p := components.Particle{Kind: components.KindPhysics, Size: 5, Life: 1, Decay: 0.02}

	// Pointer exactly 200 away: the threshold excludes equality, only gravity applies
	Integrate(&pos, &vel, &p, &kp, r2.Vec{X: 100, Y: 300}, r2.Vec{X: 800, Y: 600})

	if vel.X != 0 {
		t.Errorf("expected no horizontal velocity, got %f", vel.X)
	}
	if math.Abs(pos.Y-100.05) > 1e-12 {
		t.Errorf("expected y 100.05 after gravity, got %f", pos.Y)
	}
	if math.Abs(vel.Y-0.05*0.98) > 1e-12 {
		t.Errorf("expected vy %f after friction, got %f", 0.05*0.98, vel.Y)
	}
}

func TestBounce(t *testing.T) {
	testCases := []struct {
		x, v         float64
		wantX, wantV float64
	}{
		{-3, -10, 0, 8},
		{805, 10, 800, -8},
		{400, 10, 400, 10},
		{0, -1, 0, -1},
		{800, 1, 800, 1},
	}

	for _, tc := range testCases {
		x, v := tc.x, tc.v
		bounce(&x, &v, 800, 0.8)
		if x != tc.wantX || math.Abs(v-tc.wantV) > 1e-12 {
			t.Errorf("bounce(%f, %f): expected (%f, %f), got (%f, %f)",
				tc.x, tc.v, tc.wantX, tc.wantV, x, v)
		}
	}
}

func TestIntegratePhysicsWallRebound(t *testing.T) {
	kp := physicsParams()
	pos := components.Position{X: 795, Y: 300}
	vel := components.Velocity{X: 10, Y: 0}
	p := components.Particle{Kind: components.KindPhysics, Life: 1}

	Integrate(&pos, &vel, &p, &kp, farPointer, r2.Vec{X: 800, Y: 600})

	if pos.X != 800 {
		t.Errorf("expected x clamped to 800, got %f", pos.X)
	}
	// Velocity at impact is 10 after friction (0.98), reflected by 0.8
	want := -0.8 * (10 * 0.98)
	if math.Abs(vel.X-want) > 1e-12 {
		t.Errorf("expected vx %f, got %f", want, vel.X)
	}
}

func TestIntegrateLiquidViscosity(t *testing.T) {
	kp := liquidParams()
	pos := components.Position{X: 50, Y: 50}
	vel := components.Velocity{X: 10, Y: 0}
	p := components.Particle{Kind: components.KindLiquid, Life: 1, Viscosity: 0.1}

	Integrate(&pos, &vel, &p, &kp, farPointer, bigBounds)

	if math.Abs(vel.X-9) > 1e-12 || vel.Y != 0 {
		t.Errorf("expected velocity (9, 0), got (%f, %f)", vel.X, vel.Y)
	}
	if math.Abs(pos.X-59) > 1e-12 || pos.Y != 50 {
		t.Errorf("expected position (59, 50), got (%f, %f)", pos.X, pos.Y)
	}
}

func TestIntegrateLiquidSoftWall(t *testing.T) {
	kp := liquidParams()
	pos := components.Position{X: 10, Y: 2}
	vel := components.Velocity{X: 0, Y: -4}
	p := components.Particle{Kind: components.KindLiquid, Life: 1}

	Integrate(&pos, &vel, &p, &kp, farPointer, r2.Vec{X: 100, Y: 100})

	if pos.Y != 0 {
		t.Errorf("expected y clamped to 0, got %f", pos.Y)
	}
	if math.Abs(vel.Y-2) > 1e-12 {
		t.Errorf("expected vy 2 after soft bounce, got %f", vel.Y)
	}
}

func TestStoreDecayLaw(t *testing.T) {
	s := NewParticleStore(components.KindPhysics, physicsParams())
	s.Add(components.Position{X: 10, Y: 10}, components.Velocity{}, components.Particle{Size: 3, Life: 1, Decay: 0.02})

	for n := 1; n <= 49; n++ {
		if expired := s.Step(farPointer, bigBounds, nil); expired != 0 {
			t.Fatalf("tick %d: expected no expiry, got %d", n, expired)
		}
		s.Each(func(_ components.Position, _ components.Velocity, p components.Particle) {
			want := math.Max(0, 1-float64(n)*0.02)
			if math.Abs(p.Life-want) > 1e-9 {
				t.Errorf("tick %d: expected life %f, got %f", n, want, p.Life)
			}
		})
	}

	// The 50th tick reaches zero (allowing for float drift on either side of it)
	expired := s.Step(farPointer, bigBounds, nil)
	if expired == 0 {
		expired = s.Step(farPointer, bigBounds, nil)
	}
	if expired != 1 || s.Count() != 0 {
		t.Errorf("expected particle expired and removed, got expired=%d count=%d", expired, s.Count())
	}
}

func TestStoreExpiredNeverEmitted(t *testing.T) {
	s := NewParticleStore(components.KindLiquid, liquidParams())
	for i := 0; i < 10; i++ {
		s.Add(components.Position{X: float64(i), Y: 5}, components.Velocity{},
			components.Particle{Size: 4, Life: 1, Decay: 0.1 * float64(i+1)})
	}

	for tick := 0; tick < 12; tick++ {
		emitted := 0
		s.Step(farPointer, bigBounds, func(_ *components.Position, p *components.Particle, kp *KindParams) {
			emitted++
			if p.Life <= 0 {
				t.Errorf("tick %d: emitted particle with life %f", tick, p.Life)
			}
			if !kp.Blur {
				t.Error("expected liquid params to carry the blur hint")
			}
		})
		if emitted != s.Count() {
			t.Errorf("tick %d: emitted %d but store holds %d", tick, emitted, s.Count())
		}
	}

	if s.Count() != 0 {
		t.Errorf("expected all particles expired, got %d", s.Count())
	}
}

func TestStoreForcesKindAndSize(t *testing.T) {
	s := NewParticleStore(components.KindLiquid, liquidParams())
	s.Add(components.Position{}, components.Velocity{}, components.Particle{Kind: components.KindPhysics, Size: -4, Life: 1})

	s.Each(func(_ components.Position, _ components.Velocity, p components.Particle) {
		if p.Kind != components.KindLiquid {
			t.Errorf("expected kind liquid, got %s", p.Kind)
		}
		if p.Size != 0 {
			t.Errorf("expected negative size clamped to 0, got %f", p.Size)
		}
	})
}

func TestIntegrateNonFinitePosition(t *testing.T) {
	kp := physicsParams()
	pos := components.Position{X: math.NaN(), Y: math.Inf(1)}
	vel := components.Velocity{X: 1, Y: 1}
	p := components.Particle{Kind: components.KindPhysics, Size: 5, Life: 1}

	Integrate(&pos, &vel, &p, &kp, r2.Vec{X: 100, Y: 100}, r2.Vec{X: 800, Y: 600})

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
		t.Fatalf("expected finite position, got (%f, %f)", pos.X, pos.Y)
	}
	if pos.X < 0 || pos.X > 800 || pos.Y < 0 || pos.Y > 600 {
		t.Errorf("expected position inside bounds, got (%f, %f)", pos.X, pos.Y)
	}
}

func TestStoreAddSanitizesCoordinates(t *testing.T) {
	s := NewParticleStore(components.KindPhysics, physicsParams())
	s.Add(components.Position{X: math.NaN(), Y: 5}, components.Velocity{X: math.Inf(-1)}, components.Particle{Size: 2, Life: 1})

	s.Each(func(pos components.Position, vel components.Velocity, _ components.Particle) {
		if pos.X != 0 || pos.Y != 5 {
			t.Errorf("expected position (0, 5), got (%f, %f)", pos.X, pos.Y)
		}
		if vel.X != 0 {
			t.Errorf("expected velocity reset to 0, got %f", vel.X)
		}
	})
}

func TestStoreClear(t *testing.T) {
	s := NewParticleStore(components.KindPhysics, physicsParams())
	for i := 0; i < 25; i++ {
		s.Add(components.Position{}, components.Velocity{}, components.Particle{Life: 1, Decay: 0.01})
	}
	if s.Count() != 25 {
		t.Fatalf("expected 25 particles, got %d", s.Count())
	}

	s.Clear()

	if s.Count() != 0 {
		t.Errorf("expected empty store, got %d", s.Count())
	}
	visited := 0
	s.Each(func(components.Position, components.Velocity, components.Particle) { visited++ })
	if visited != 0 {
		t.Errorf("expected no particles visited, got %d", visited)
	}
}

func TestEmitterBurst(t *testing.T) {
	cfg := config.Default()
	e := NewEmitter(cfg, rand.New(rand.NewSource(7)))
	s := NewParticleStore(components.KindPhysics, physicsParams())

	n := e.Burst(s, 320, 240)

	if n != 20 || s.Count() != 20 {
		t.Fatalf("expected 20 particles, got n=%d count=%d", n, s.Count())
	}
	s.Each(func(pos components.Position, vel components.Velocity, p components.Particle) {
		if pos.X != 320 || pos.Y != 240 {
			t.Errorf("expected spawn at (320, 240), got (%f, %f)", pos.X, pos.Y)
		}
		if math.Abs(vel.X) > 5 || math.Abs(vel.Y) > 5 {
			t.Errorf("expected velocity within [-5, 5], got (%f, %f)", vel.X, vel.Y)
		}
		if p.Decay != 0.02 || p.Life != 1 {
			t.Errorf("expected decay 0.02 and life 1, got %f and %f", p.Decay, p.Life)
		}
	})
}

func TestEmitterTopUp(t *testing.T) {
	cfg := config.Default()
	s := NewParticleStore(components.KindLiquid, liquidParams())

	cfg.Liquid.SpawnChance = 0
	if NewEmitter(cfg, rand.New(rand.NewSource(1))).TopUp(s, 800, 600) {
		t.Error("expected no spawn with zero chance")
	}

	cfg.Liquid.SpawnChance = 1
	if !NewEmitter(cfg, rand.New(rand.NewSource(1))).TopUp(s, 800, 600) {
		t.Error("expected spawn with chance 1")
	}
	s.Each(func(pos components.Position, vel components.Velocity, p components.Particle) {
		if vel.X != 0 || vel.Y != 0 {
			t.Errorf("expected liquid to spawn at rest, got (%f, %f)", vel.X, vel.Y)
		}
		if p.Viscosity < 0.05 || p.Viscosity >= 0.15 {
			t.Errorf("expected viscosity in [0.05, 0.15), got %f", p.Viscosity)
		}
		if pos.X < 0 || pos.X >= 800 || pos.Y < 0 || pos.Y >= 600 {
			t.Errorf("expected position inside canvas, got (%f, %f)", pos.X, pos.Y)
		}
	})
}

func BenchmarkStoreStep(b *testing.B) {
	cfg := config.Default()
	e := NewEmitter(cfg, rand.New(rand.NewSource(3)))
	s := NewParticleStore(components.KindPhysics, physicsParams())
	pointer := r2.Vec{X: 640, Y: 360}
	bounds := r2.Vec{X: 1280, Y: 720}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if s.Count() < 500 {
			e.SeedPhysics(s, 500-s.Count(), 1280, 720)
		}
		s.Step(pointer, bounds, nil)
	}
}
