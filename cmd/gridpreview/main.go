// Grid field preview tool - tune the deformation field with sliders.
//
// Usage: go run ./cmd/gridpreview
//
// Move the mouse over the preview to push the lattice. Press C to copy the
// grid section as YAML.
package main

import (
	"fmt"
	"math/rand"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 720
	previewH     = 540
	panelX       = previewW + 30
	panelWidth   = windowWidth - panelX - 20
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Grid Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	defaults := config.Default().Grid
	params := defaults
	rng := rand.New(rand.NewSource(1))

	grid := newGrid(params, rng)
	var t float64
	animating := true

	for !rl.WindowShouldClose() {
		if animating {
			t += float64(rl.GetFrameTime())
		}

		// Pointer relative to the preview origin
		mouse := rl.GetMousePosition()
		pointer := r2.Vec{X: float64(mouse.X - 10), Y: float64(mouse.Y - 10)}
		grid.Step(pointer, t)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangle(10, 10, previewW, previewH, rl.NewColor(11, 15, 26, 255))
		rl.BeginScissorMode(10, 10, previewW, previewH)
		drawLattice(grid, float32(params.Opacity))
		rl.EndScissorMode()
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Points: %d (%dx%d)  Mean displacement: %.2f",
			grid.Len(), grid.Rows(), grid.Cols(), grid.MeanDisplacement()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1f", t), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		y := float32(10)
		rl.DrawText("Grid Field Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		rebuild := false
		y, params.DistortionStrength = slider("Distortion strength", y, params.DistortionStrength,
			systems.MinDistortionStrength, systems.MaxDistortionStrength, "%.0f")
		y, params.WaveAmplitude = slider("Wave amplitude", y, params.WaveAmplitude,
			systems.MinWaveAmplitude, systems.MaxWaveAmplitude, "%.0f")
		y, params.Opacity = slider("Line opacity", y, params.Opacity,
			systems.MinGridOpacity, systems.MaxGridOpacity, "%.2f")

		var v float64
		y, v = slider("Spacing (rebuilds)", y, params.Spacing, systems.MinGridSpacing, systems.MaxGridSpacing, "%.0f")
		if v = float64(int(v + 0.5)); v != params.Spacing {
			params.Spacing = v
			rebuild = true
		}
		y, v = slider("Influence radius", y, params.InfluenceRadius, 50, 400, "%.0f")
		if v != params.InfluenceRadius {
			params.InfluenceRadius = v
			rebuild = true
		}
		y, v = slider("Easing", y, params.Easing, 0.01, 1, "%.2f")
		if v != params.Easing {
			params.Easing = v
			rebuild = true
		}

		grid.SetDistortionStrength(params.DistortionStrength)
		grid.SetWaveAmplitude(params.WaveAmplitude)
		grid.SetOpacity(params.Opacity)

		y += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			t = 0
			rebuild = true
		}
		y += 55

		if rebuild {
			grid = newGrid(params, rng)
		}

		// Output YAML
		out := gridYAML(params)
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		y += 25
		for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			rl.DrawText(line, panelX, int32(y), 14, rl.Gray)
			y += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func newGrid(p config.GridConfig, rng *rand.Rand) *systems.GridField {
	g := systems.NewGridField(systems.GridSettings{
		Spacing:            p.Spacing,
		DistortionStrength: p.DistortionStrength,
		WaveAmplitude:      p.WaveAmplitude,
		Opacity:            p.Opacity,
		InfluenceRadius:    p.InfluenceRadius,
		Easing:             p.Easing,
	}, rng)
	g.Rebuild(previewW, previewH)
	return g
}

// drawLattice strokes every row and column through the current positions.
func drawLattice(g *systems.GridField, opacity float32) {
	col := rl.Fade(rl.NewColor(99, 102, 241, 255), 0.3*opacity+0.05)
	at := func(r, c int) rl.Vector2 {
		p := g.At(r, c).Current
		return rl.NewVector2(float32(p.X)+10, float32(p.Y)+10)
	}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols()-1; c++ {
			rl.DrawLineV(at(r, c), at(r, c+1), col)
		}
	}
	for c := 0; c < g.Cols(); c++ {
		for r := 0; r < g.Rows()-1; r++ {
			rl.DrawLineV(at(r, c), at(r+1, c), col)
		}
	}
}

// slider draws a labelled slider and returns the next y and the new value.
func slider(label string, y float32, value, lo, hi float64, format string) (float32, float64) {
	rl.DrawText(label, panelX, int32(y), 14, rl.Gray)
	y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(panelX+panelWidth-70), int32(y+2), 16, rl.DarkGray)
	if next != float32(value) {
		value = float64(next)
	}
	return y + 35, value
}

func gridYAML(p config.GridConfig) string {
	data, err := yaml.Marshal(map[string]config.GridConfig{"grid": p})
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
