package field

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/draw"
	"github.com/pthm-cable/backdrop/telemetry"
)

// quietConfig returns defaults with every grid decoration disabled, so a frame
// holds only lattice lines followed by particles.
func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Effects = config.EffectsConfig{}
	return cfg
}

func newTestSim(cfg *config.Config) (*Simulator, *draw.Recorder) {
	rec := &draw.Recorder{}
	sim := New(cfg, rec, Options{Seed: 1, Width: 800, Height: 600})
	return sim, rec
}

func TestStartStopIdempotent(t *testing.T) {
	sim, rec := newTestSim(quietConfig())

	if err := sim.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sim.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}

	physics, liquid := sim.Counts()
	if physics != 150 || liquid != 100 {
		t.Errorf("expected 150/100 seeded particles after double start, got %d/%d", physics, liquid)
	}
	if !rec.Opened {
		t.Error("expected renderer to be opened")
	}

	if err := sim.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := sim.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if rec.Closed != 1 {
		t.Errorf("expected renderer closed once, got %d", rec.Closed)
	}

	physics, liquid = sim.Counts()
	if physics != 0 || liquid != 0 {
		t.Errorf("expected no particles after stop, got %d/%d", physics, liquid)
	}
	if n := len(sim.LastFrame().Commands); n != 0 {
		t.Errorf("expected empty last frame after stop, got %d commands", n)
	}
}

func TestStoppedIsInert(t *testing.T) {
	sim, rec := newTestSim(quietConfig())

	if sim.Frame(time.Now()) {
		t.Error("expected no frame before start")
	}

	sim.Start()
	sim.Frame(time.Now())
	sim.Stop()

	frames := rec.Frames
	if sim.Frame(time.Now()) {
		t.Error("expected no frame after stop")
	}
	sim.Trigger(100, 100)

	if rec.Frames != frames {
		t.Errorf("expected no render after stop, got %d extra", rec.Frames-frames)
	}
	if physics, _ := sim.Counts(); physics != 0 {
		t.Errorf("expected trigger to be ignored after stop, got %d particles", physics)
	}
}

func TestRestartReseeds(t *testing.T) {
	sim, _ := newTestSim(quietConfig())

	sim.Start()
	sim.Stop()
	sim.Start()

	physics, liquid := sim.Counts()
	if physics != 150 || liquid != 100 {
		t.Errorf("expected fresh seed after restart, got %d/%d", physics, liquid)
	}
}

func TestFramePaintOrder(t *testing.T) {
	cfg := quietConfig()
	cfg.Liquid.SpawnChance = 0
	sim, rec := newTestSim(cfg)
	sim.SetPointer(-1000, -1000)
	sim.Start()
	sim.Frame(time.Now())

	f := rec.Last
	rows, cols := sim.GridSize()
	lines := rows + cols

	if len(f.Commands) != lines+250 {
		t.Fatalf("expected %d commands, got %d", lines+250, len(f.Commands))
	}

	for i, c := range f.Commands {
		switch {
		case i < lines:
			if _, ok := c.(draw.Polyline); !ok {
				t.Fatalf("command %d: expected grid polyline, got %T", i, c)
			}
		case i < lines+100:
			circle, ok := c.(draw.Circle)
			if !ok || !circle.Blur {
				t.Fatalf("command %d: expected blurred liquid circle, got %#v", i, c)
			}
			if circle.Alpha > 0.6 || circle.Alpha <= 0 {
				t.Errorf("command %d: expected liquid alpha in (0, 0.6], got %f", i, circle.Alpha)
			}
		default:
			circle, ok := c.(draw.Circle)
			if !ok || circle.Blur {
				t.Fatalf("command %d: expected sharp physics circle, got %#v", i, c)
			}
			if circle.Alpha < 0.975 || circle.Alpha > 0.995 {
				t.Errorf("command %d: expected physics alpha = life after one decay, got %f", i, circle.Alpha)
			}
		}
	}

	if pl := f.Commands[0].(draw.Polyline); pl.Alpha != 0.3 || len(pl.Points) != cols {
		t.Errorf("expected row line with %d points at opacity 0.3, got %d at %f", cols, len(pl.Points), pl.Alpha)
	}
}

func TestExpiredNeverDrawn(t *testing.T) {
	cfg := quietConfig()
	cfg.Liquid.SeedCount = 0
	cfg.Liquid.SpawnChance = 0
	cfg.Physics.Decay = config.Range{Min: 0.6, Max: 0.6}
	sim, rec := newTestSim(cfg)
	sim.Start()

	sim.Frame(time.Now())
	circles, _ := rec.Last.Counts()
	if circles != 150 {
		t.Fatalf("expected 150 circles on first frame, got %d", circles)
	}

	sim.Frame(time.Now())
	circles, _ = rec.Last.Counts()
	if circles != 0 {
		t.Errorf("expected expired particles not drawn, got %d circles", circles)
	}
	if physics, _ := sim.Counts(); physics != 0 {
		t.Errorf("expected expired particles removed, got %d", physics)
	}
}

func TestTriggerBurst(t *testing.T) {
	collector := telemetry.NewCollector(1, 1.0/60.0)
	rec := &draw.Recorder{}
	sim := New(quietConfig(), rec, Options{Seed: 3, Width: 800, Height: 600, Collector: collector})
	sim.Start()

	sim.Trigger(400, 300)

	if physics, _ := sim.Counts(); physics != 170 {
		t.Errorf("expected 170 physics particles after burst, got %d", physics)
	}

	stats := collector.Flush(60, sim.Sample())
	if stats.Bursts != 1 {
		t.Errorf("expected 1 burst, got %d", stats.Bursts)
	}
	if stats.PhysicsSpawned != 170 {
		t.Errorf("expected 170 physics spawned, got %d", stats.PhysicsSpawned)
	}
}

func TestSetGridSpacingSameValue(t *testing.T) {
	sim, _ := newTestSim(quietConfig())
	sim.Start()

	phase := sim.grid.Points()[5].Phase
	sim.SetGridSpacing(40)
	sim.SetGridSpacing(40)

	if got := sim.grid.Points()[5].Phase; got != phase {
		t.Errorf("expected lattice untouched by same spacing, phase %f became %f", phase, got)
	}

	sim.SetGridSpacing(20)
	rows, cols := sim.GridSize()
	if rows != 32 || cols != 42 {
		t.Errorf("expected 32x42 lattice at spacing 20, got %dx%d", rows, cols)
	}
}

func TestResizeRebuilds(t *testing.T) {
	sim, _ := newTestSim(quietConfig())
	sim.Start()

	sim.Resize(400, 300)

	rows, cols := sim.GridSize()
	if rows != 10 || cols != 12 {
		t.Errorf("expected 10x12 lattice, got %dx%d", rows, cols)
	}
	if w, h := sim.Size(); w != 400 || h != 300 {
		t.Errorf("expected size 400x300, got %fx%f", w, h)
	}
}

func TestSettersClamp(t *testing.T) {
	sim, _ := newTestSim(quietConfig())

	sim.SetDistortionStrength(500)
	sim.SetWaveAmplitude(-3)
	sim.SetGridOpacity(2)
	sim.SetGridSpacing(1)

	got := sim.GridSettings()
	if got.DistortionStrength != 100 || got.WaveAmplitude != 0 || got.Opacity != 1 || got.Spacing != 10 {
		t.Errorf("expected clamped settings, got %+v", got)
	}
}

func TestFixedTimeStep(t *testing.T) {
	cfg := quietConfig()
	cfg.Grid.FixedTimeStep = 0.016
	sim, _ := newTestSim(cfg)
	sim.Start()

	for i := 0; i < 10; i++ {
		sim.Frame(time.Time{})
	}
	if math.Abs(sim.gridTime-0.16) > 1e-9 {
		t.Errorf("expected grid time 0.16, got %f", sim.gridTime)
	}
}

func TestWallClock(t *testing.T) {
	sim, _ := newTestSim(quietConfig())
	sim.Start()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sim.Frame(t0)
	sim.Frame(t0.Add(1500 * time.Millisecond))

	if math.Abs(sim.gridTime-1.5) > 1e-9 {
		t.Errorf("expected grid time 1.5, got %f", sim.gridTime)
	}
}

func TestThemeToggle(t *testing.T) {
	sim, rec := newTestSim(quietConfig())
	sim.Start()

	sim.Frame(time.Now())
	dark := rec.Last.Background

	sim.ToggleTheme()
	sim.Frame(time.Now())
	if rec.Last.Background == dark {
		t.Error("expected background to change with theme")
	}
	if sim.Theme().Dark {
		t.Error("expected light theme after toggle")
	}
}

func TestSetPointerIgnoresNaN(t *testing.T) {
	sim, _ := newTestSim(quietConfig())
	sim.SetPointer(10, 20)
	sim.SetPointer(math.NaN(), 5)

	if p := sim.Pointer(); p.X != 10 || p.Y != 20 {
		t.Errorf("expected pointer (10, 20), got %v", p)
	}
}

func TestResizeIgnoresNonFinite(t *testing.T) {
	sim, _ := newTestSim(quietConfig())
	sim.Start()
	rows, cols := sim.GridSize()

	for _, size := range [][2]float64{
		{math.NaN(), 600},
		{800, math.NaN()},
		{math.Inf(1), 600},
		{800, math.Inf(-1)},
	} {
		sim.Resize(size[0], size[1])
	}

	if w, h := sim.Size(); w != 800 || h != 600 {
		t.Errorf("expected size 800x600 kept, got %fx%f", w, h)
	}
	if r, c := sim.GridSize(); r != rows || c != cols {
		t.Errorf("expected %dx%d lattice kept, got %dx%d", rows, cols, r, c)
	}
	if !sim.Frame(time.Now()) {
		t.Error("expected frames to continue after ignored resize")
	}
}

func TestTriggerIgnoresNonFinite(t *testing.T) {
	cfg := quietConfig()
	cfg.Physics.SeedCount = 0
	cfg.Liquid.SeedCount = 0
	cfg.Liquid.SpawnChance = 0
	sim, rec := newTestSim(cfg)
	sim.Start()

	sim.Trigger(math.NaN(), 100)
	sim.Trigger(100, math.Inf(1))
	sim.Frame(time.Now())

	if physics, _ := sim.Counts(); physics != 0 {
		t.Errorf("expected non-finite clicks ignored, got %d particles", physics)
	}
	for i, c := range rec.Last.Commands {
		if circle, ok := c.(draw.Circle); ok && (math.IsNaN(circle.Center.X) || math.IsNaN(circle.Center.Y)) {
			t.Errorf("command %d: expected finite circle center, got %v", i, circle.Center)
		}
	}
}

func TestPerfPhasesRecorded(t *testing.T) {
	perf := telemetry.NewPerfCollector(8)
	rec := &draw.Recorder{}
	sim := New(quietConfig(), rec, Options{Seed: 1, Width: 800, Height: 600, Perf: perf})
	sim.Start()

	for i := 0; i < 4; i++ {
		sim.Frame(time.Now())
	}

	stats := perf.Stats()
	for _, phase := range []string{telemetry.PhaseGrid, telemetry.PhaseLiquid, telemetry.PhasePhysics} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected phase %q to be timed", phase)
		}
	}
}

func BenchmarkFrame(b *testing.B) {
	rec := &draw.Recorder{}
	sim := New(config.Default(), rec, Options{Seed: 1, Width: 1280, Height: 720})
	sim.Start()
	sim.SetPointer(640, 360)
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Frame(now.Add(time.Duration(i) * 16 * time.Millisecond))
	}
}
