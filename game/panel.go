package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/systems"
)

const (
	panelWidth  = 300
	panelHeight = 250
	sliderWidth = panelWidth - 90
)

// Panel is the slider overlay for the grid settings.
type Panel struct {
	X, Y    float32
	Visible bool
}

// NewPanel creates a hidden panel anchored at (x, y).
func NewPanel(x, y float32) *Panel {
	return &Panel{X: x, Y: y}
}

// Contains reports whether p lies inside the panel.
func (p *Panel) Contains(v rl.Vector2) bool {
	return rl.CheckCollisionPointRec(v, rl.Rectangle{X: p.X, Y: p.Y, Width: panelWidth, Height: panelHeight})
}

// Draw renders the sliders and applies any change to sim.
func (p *Panel) Draw(sim *field.Simulator) {
	rl.DrawRectangle(int32(p.X), int32(p.Y), panelWidth, panelHeight, rl.Fade(rl.Black, 0.6))

	x := p.X + 10
	y := p.Y + 10
	rl.DrawText("Grid", int32(x), int32(y), 20, rl.RayWhite)
	y += 30

	set := sim.GridSettings()
	y = p.slider(sim, field.SettingStrength, "Distortion strength", x, y,
		set.DistortionStrength, systems.MinDistortionStrength, systems.MaxDistortionStrength, "%.0f")
	y = p.slider(sim, field.SettingAmplitude, "Wave amplitude", x, y,
		set.WaveAmplitude, systems.MinWaveAmplitude, systems.MaxWaveAmplitude, "%.0f")
	y = p.slider(sim, field.SettingOpacity, "Grid opacity", x, y,
		set.Opacity, systems.MinGridOpacity, systems.MaxGridOpacity, "%.2f")
	y = p.slider(sim, field.SettingSpacing, "Grid spacing", x, y,
		set.Spacing, systems.MinGridSpacing, systems.MaxGridSpacing, "%.0f")

	label := "Light theme"
	if !sim.Theme().Dark {
		label = "Dark theme"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 24}, label) {
		sim.ToggleTheme()
	}
}

// slider draws one labelled slider and returns the next row's y.
func (p *Panel) slider(sim *field.Simulator, s field.Setting, label string, x, y float32, value, lo, hi float64, format string) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.LightGray)
	y += 16

	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 16},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+sliderWidth+10), int32(y), 14, rl.RayWhite)

	// Spacing rebuilds the lattice, so only whole pixels count as a change
	if s == field.SettingSpacing {
		next = float32(int(next + 0.5))
	}
	if next != float32(value) {
		sim.Set(s, float64(next))
	}
	return y + 30
}
