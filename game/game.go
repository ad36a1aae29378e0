// Package game hosts the simulator in a raylib window, or headless with a
// scripted pointer, and routes telemetry to logs and CSV.
package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/draw"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/telemetry"
)

// headlessTimeStep is the grid clock advance per frame when no window paces the loop.
const headlessTimeStep = 0.016

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
}

// Game holds the host state around one simulator.
type Game struct {
	cfg *config.Config
	sim *field.Simulator

	// Rendering (nil when headless)
	view  *renderer.Raylib
	panel *Panel

	// Headless
	headless  bool
	autopilot *field.Autopilot
	recorder  *draw.Recorder

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	// State
	frame  int64
	paused bool

	// Window dimensions
	screenWidth, screenHeight float32
}

// NewGameWithOptions creates and starts a game. In windowed mode it must be
// called after rl.InitWindow.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	if opts.Headless && cfg.Grid.FixedTimeStep <= 0 {
		c := *cfg
		c.Grid.FixedTimeStep = headlessTimeStep
		cfg = &c
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:           cfg,
		headless:      opts.Headless,
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		logStats:      opts.LogStats,
		screenWidth:   float32(cfg.Screen.Width),
		screenHeight:  float32(cfg.Screen.Height),
	}

	var r draw.Renderer
	if opts.Headless {
		g.recorder = &draw.Recorder{}
		g.autopilot = field.NewAutopilot(cfg.Headless)
		r = g.recorder
	} else {
		g.view = renderer.NewRaylib()
		g.panel = NewPanel(10, 10)
		r = g.view
	}

	g.sim = field.New(cfg, r, field.Options{
		Seed:      opts.Seed,
		Width:     float64(g.screenWidth),
		Height:    float64(g.screenHeight),
		Perf:      g.perfCollector,
		Collector: g.collector,
	})
	if err := g.sim.Start(); err != nil {
		om.Close()
		return nil, err
	}

	return g, nil
}

// Update processes input and advances one frame.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	g.sim.Frame(time.Now())
	g.frame++
	g.flushTelemetry()
}

// UpdateHeadless advances one frame with the scripted pointer.
func (g *Game) UpdateHeadless() {
	g.autopilot.Step(g.sim)
	g.sim.Frame(time.Time{})
	g.frame++
	g.flushTelemetry()
}

// Draw presents the last frame and the overlays.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.view.Present()
	if g.panel.Visible {
		g.panel.Draw(g.sim)
	}
	g.drawHUD()

	rl.EndDrawing()
	g.perfCollector.RecordPresent()
}

// drawHUD shows frame rate and particle counts in the bottom-left corner.
func (g *Game) drawHUD() {
	physics, liquid := g.sim.Counts()
	text := fmt.Sprintf("FPS %d  physics %d  liquid %d", rl.GetFPS(), physics, liquid)
	if g.paused {
		text += "  [paused]"
	}
	y := int32(g.screenHeight) - 24
	rl.DrawText(text, 10, y, 16, rl.Gray)
}

// Unload stops the simulator and closes the output files.
func (g *Game) Unload() {
	if err := g.sim.Stop(); err != nil {
		slog.Error("failed to stop simulator", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Frame returns the number of frames advanced.
func (g *Game) Frame() int64 {
	return g.frame
}

// Simulator returns the hosted simulator.
func (g *Game) Simulator() *field.Simulator {
	return g.sim
}
