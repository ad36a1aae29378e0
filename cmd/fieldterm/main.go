// Terminal host for the backdrop simulator.
//
// Usage: go run ./cmd/fieldterm [-fps 30]
//
// Mouse moves the pointer, click bursts, the usual preset keys apply,
// space pauses and Esc or Ctrl-C quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/terminal"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	fps := flag.Int("fps", 30, "Frames per second")
	flag.Parse()

	// Logs go to stderr so they do not fight the screen
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(*configPath, *seed, *fps); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, fps int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if fps <= 0 {
		fps = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	// Simulate at the configured surface size and scale down to the terminal
	sim := field.New(cfg, terminal.NewRenderer(screen), field.Options{Seed: seed})
	if err := sim.Start(); err != nil {
		return err
	}
	defer sim.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go pollEvents(screen, events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	paused := false
	buttons := tcell.ButtonNone
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					paused = !paused
				case ev.Key() == tcell.KeyRune:
					sim.HandleKey(ev.Rune())
				}

			case *tcell.EventMouse:
				col, row := ev.Position()
				x, y := toSurface(screen, sim, col, row)
				sim.SetPointer(x, y)
				pressed := ev.Buttons()&tcell.Button1 != 0
				if pressed && buttons&tcell.Button1 == 0 {
					sim.Trigger(x, y)
				}
				buttons = ev.Buttons()

			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			if !paused {
				sim.Frame(now)
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or quit closes.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// toSurface maps a terminal cell to simulator pixels at the cell center.
func toSurface(screen tcell.Screen, sim *field.Simulator, col, row int) (float64, float64) {
	cols, rows := screen.Size()
	w, h := sim.Size()
	if cols == 0 || rows == 0 {
		return 0, 0
	}
	return (float64(col) + 0.5) * w / float64(cols), (float64(row) + 0.5) * h / float64(rows)
}
