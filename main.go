package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/game"
)

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	os.Exit(run(os.Args[1:]))
}

// run parses args, runs the simulation and returns the process exit code.
func run(args []string) int {
	// CLI flags
	fs := flag.NewFlagSet("backdrop", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := fs.Bool("headless", false, "Run without graphics")
	logStats := fs.Bool("log-stats", false, "Output stats via slog")
	statsWindow := fs.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := fs.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
	}

	var err error
	if *headless {
		err = runHeadless(opts, *maxFrames)
	} else {
		err = runWindowed(cfg, opts, *maxFrames)
	}
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	return 0
}

// runHeadless drives the scripted pointer with no window.
func runHeadless(opts game.Options, maxFrames int) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_frames", maxFrames,
	)

	for {
		g.UpdateHeadless()

		if maxFrames > 0 && int(g.Frame()) >= maxFrames {
			slog.Info("max frames reached", "frame", g.Frame())
			return nil
		}
	}
}

// runWindowed owns the raylib window so its deferred cleanup runs before exit.
func runWindowed(cfg *config.Config, opts game.Options, maxFrames int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if maxFrames > 0 && int(g.Frame()) >= maxFrames {
			break
		}
	}
	return nil
}
