// Package field drives the animated backdrop: two particle stores and a
// deformable grid, advanced once per display refresh and turned into draw
// commands for a renderer.
package field

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/draw"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// Options configures a Simulator.
type Options struct {
	Seed   int64   // RNG seed
	Width  float64 // Initial bounds (0 = cfg.Screen)
	Height float64

	Perf      *telemetry.PerfCollector // Optional phase timing
	Collector *telemetry.Collector     // Optional window statistics
}

// Simulator owns all per-frame state. It is not safe for concurrent use:
// every method must be called from the host's refresh goroutine.
type Simulator struct {
	cfg      *config.Config
	renderer draw.Renderer
	rng      *rand.Rand

	physics *systems.ParticleStore
	liquid  *systems.ParticleStore
	emitter *systems.Emitter
	grid    *systems.GridField
	theme   Theme

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector

	// State
	running       bool
	width, height float64
	pointer       r2.Vec
	frame         draw.Frame
	frames        int64

	// Grid clock
	gridTime  float64
	startTime time.Time
}

// New creates a stopped simulator that will submit frames to r.
func New(cfg *config.Config, r draw.Renderer, opts Options) *Simulator {
	rng := rand.New(rand.NewSource(opts.Seed))
	kinds := systems.KindTableFromConfig(cfg)

	w, h := opts.Width, opts.Height
	if !finitePoint(w, h) || w <= 0 || h <= 0 {
		w, h = cfg.Derived.ScreenW, cfg.Derived.ScreenH
	}

	s := &Simulator{
		cfg:      cfg,
		renderer: r,
		rng:      rng,
		physics:  systems.NewParticleStore(components.KindPhysics, *kinds.Of(components.KindPhysics)),
		liquid:   systems.NewParticleStore(components.KindLiquid, *kinds.Of(components.KindLiquid)),
		emitter:  systems.NewEmitter(cfg, rng),
		grid: systems.NewGridField(systems.GridSettings{
			Spacing:            cfg.Grid.Spacing,
			DistortionStrength: cfg.Grid.DistortionStrength,
			WaveAmplitude:      cfg.Grid.WaveAmplitude,
			Opacity:            cfg.Grid.Opacity,
			InfluenceRadius:    cfg.Grid.InfluenceRadius,
			Easing:             cfg.Grid.Easing,
		}, rng),
		theme:     NewTheme(cfg, cfg.Theme.Dark),
		perf:      opts.Perf,
		collector: opts.Collector,
		width:     w,
		height:    h,
	}
	s.grid.Rebuild(w, h)
	return s
}

// Start acquires the renderer, seeds both particle kinds and lays out the
// grid. Calling Start on a running simulator does nothing.
func (s *Simulator) Start() error {
	if s.running {
		return nil
	}
	if err := s.renderer.Open(int(s.width), int(s.height)); err != nil {
		return fmt.Errorf("opening renderer: %w", err)
	}

	s.emitter.SeedPhysics(s.physics, s.cfg.Physics.SeedCount, s.width, s.height)
	s.emitter.SeedLiquid(s.liquid, s.cfg.Liquid.SeedCount, s.width, s.height)
	s.collector.RecordSpawn(components.KindPhysics, s.cfg.Physics.SeedCount)
	s.collector.RecordSpawn(components.KindLiquid, s.cfg.Liquid.SeedCount)
	s.rebuildGrid()

	s.gridTime = 0
	s.startTime = time.Time{}
	s.running = true

	slog.Info("simulator_start",
		"width", s.width,
		"height", s.height,
		"physics", s.physics.Count(),
		"liquid", s.liquid.Count(),
		"grid_points", s.grid.Len(),
	)
	return nil
}

// Stop halts the frame loop, drops every particle and releases the renderer.
// Calling Stop on a stopped simulator does nothing.
func (s *Simulator) Stop() error {
	if !s.running {
		return nil
	}
	s.running = false

	s.physics.Clear()
	s.liquid.Clear()
	s.frame.Reset(s.width, s.height, s.theme.Background)

	slog.Info("simulator_stop", "frames", s.frames)

	if err := s.renderer.Close(); err != nil {
		return fmt.Errorf("closing renderer: %w", err)
	}
	return nil
}

// Running reports whether frames are being produced.
func (s *Simulator) Running() bool {
	return s.running
}

// Frame advances the simulation by one refresh and submits the resulting
// commands to the renderer. now drives the grid clock unless a fixed time
// step is configured. Returns false if the simulator is stopped.
func (s *Simulator) Frame(now time.Time) bool {
	if !s.running {
		return false
	}

	s.perf.StartFrame()

	s.perf.StartPhase(telemetry.PhaseInput)
	pointer := s.pointer
	bounds := r2.Vec{X: s.width, Y: s.height}
	t := s.advanceClock(now)
	s.frame.Reset(s.width, s.height, s.theme.Background)

	// Paint order: grid, liquid, physics
	s.perf.StartPhase(telemetry.PhaseGrid)
	s.grid.Step(pointer, t)

	s.perf.StartPhase(telemetry.PhaseEffects)
	s.emitGrid(pointer, t)

	s.perf.StartPhase(telemetry.PhaseLiquid)
	expired := s.liquid.Step(pointer, bounds, s.emitParticle)
	s.collector.RecordExpired(components.KindLiquid, expired)

	s.perf.StartPhase(telemetry.PhasePhysics)
	expired = s.physics.Step(pointer, bounds, s.emitParticle)
	s.collector.RecordExpired(components.KindPhysics, expired)

	s.perf.StartPhase(telemetry.PhaseSpawn)
	if s.emitter.TopUp(s.liquid, s.width, s.height) {
		s.collector.RecordSpawn(components.KindLiquid, 1)
	}

	s.perf.StartPhase(telemetry.PhaseRender)
	s.renderer.Render(&s.frame)

	s.perf.EndFrame()
	s.frames++
	return true
}

// advanceClock returns the grid time for this frame.
func (s *Simulator) advanceClock(now time.Time) float64 {
	if step := s.cfg.Grid.FixedTimeStep; step > 0 {
		s.gridTime += step
		return s.gridTime
	}
	if s.startTime.IsZero() {
		s.startTime = now
	}
	s.gridTime = now.Sub(s.startTime).Seconds()
	return s.gridTime
}

// SetPointer records the latest pointer position in surface pixels.
// It takes effect at the next frame.
func (s *Simulator) SetPointer(x, y float64) {
	if !finitePoint(x, y) {
		return
	}
	s.pointer = r2.Vec{X: x, Y: y}
}

// Pointer returns the latest pointer position.
func (s *Simulator) Pointer() r2.Vec {
	return s.pointer
}

// Trigger spawns a click burst of physics particles at (x, y).
// Ignored while stopped or when the position is not finite.
func (s *Simulator) Trigger(x, y float64) {
	if !s.running || !finitePoint(x, y) {
		return
	}
	n := s.emitter.Burst(s.physics, x, y)
	s.collector.RecordSpawn(components.KindPhysics, n)
	s.collector.RecordBurst()
}

// Resize sets new surface bounds and rebuilds the grid lattice.
// Non-finite bounds are ignored.
func (s *Simulator) Resize(width, height float64) {
	if !finitePoint(width, height) {
		return
	}
	s.width = math.Max(width, 0)
	s.height = math.Max(height, 0)
	s.rebuildGrid()
}

// Size returns the current surface bounds.
func (s *Simulator) Size() (width, height float64) {
	return s.width, s.height
}

func (s *Simulator) rebuildGrid() {
	s.grid.Rebuild(s.width, s.height)
	s.collector.RecordRebuild()
	slog.Debug("grid_rebuild",
		"rows", s.grid.Rows(),
		"cols", s.grid.Cols(),
		"spacing", s.grid.Settings().Spacing,
	)
}

// SetDistortionStrength sets the pointer push strength, clamped to [0, 100].
func (s *Simulator) SetDistortionStrength(v float64) {
	s.grid.SetDistortionStrength(v)
}

// SetWaveAmplitude sets the idle wave amplitude, clamped to [0, 50].
func (s *Simulator) SetWaveAmplitude(v float64) {
	s.grid.SetWaveAmplitude(v)
}

// SetGridOpacity sets the lattice line opacity, clamped to [0, 1].
func (s *Simulator) SetGridOpacity(v float64) {
	s.grid.SetOpacity(v)
}

// SetGridSpacing sets the lattice spacing, clamped to [10, 100].
// The lattice is rebuilt only when the clamped value changes.
func (s *Simulator) SetGridSpacing(v float64) {
	if s.grid.SetSpacing(v) {
		s.collector.RecordRebuild()
		slog.Debug("grid_rebuild",
			"rows", s.grid.Rows(),
			"cols", s.grid.Cols(),
			"spacing", s.grid.Settings().Spacing,
		)
	}
}

// GridSettings returns the current grid settings.
func (s *Simulator) GridSettings() systems.GridSettings {
	return s.grid.Settings()
}

// SetDarkTheme switches between the dark and light color themes.
func (s *Simulator) SetDarkTheme(dark bool) {
	if dark == s.theme.Dark {
		return
	}
	s.theme = NewTheme(s.cfg, dark)
}

// ToggleTheme flips the color theme.
func (s *Simulator) ToggleTheme() {
	s.SetDarkTheme(!s.theme.Dark)
}

// Theme returns the active color theme.
func (s *Simulator) Theme() Theme {
	return s.theme
}

// LastFrame returns the most recently built frame. It is empty before the
// first frame and after Stop, and is only valid until the next call to Frame.
func (s *Simulator) LastFrame() *draw.Frame {
	return &s.frame
}

// Frames returns the number of frames produced since construction.
func (s *Simulator) Frames() int64 {
	return s.frames
}

// Counts returns the live particle count for each kind.
func (s *Simulator) Counts() (physics, liquid int) {
	return s.physics.Count(), s.liquid.Count()
}

// GridSize returns the lattice dimensions.
func (s *Simulator) GridSize() (rows, cols int) {
	return s.grid.Rows(), s.grid.Cols()
}

// Sample captures the state reported at the end of a telemetry window.
func (s *Simulator) Sample() telemetry.Sample {
	out := telemetry.Sample{
		PhysicsLives:     lives(s.physics),
		LiquidLives:      lives(s.liquid),
		GridPoints:       s.grid.Len(),
		GridDisplacement: s.grid.MeanDisplacement(),
		Commands:         len(s.frame.Commands),
	}
	return out
}

func lives(store *systems.ParticleStore) []float64 {
	out := make([]float64, 0, store.Count())
	store.Each(func(_ components.Position, _ components.Velocity, p components.Particle) {
		out = append(out, p.Life)
	})
	return out
}

func finitePoint(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}
