package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes mouse and keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.panel.Visible = !g.panel.Visible
	}

	// Presets and theme, by typed character so layouts map naturally
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		g.sim.HandleKey(rune(ch))
	}

	mouse := rl.GetMousePosition()
	g.sim.SetPointer(float64(mouse.X), float64(mouse.Y))

	// Clicks on the panel belong to the panel
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !(g.panel.Visible && g.panel.Contains(mouse)) {
		g.sim.Trigger(float64(mouse.X), float64(mouse.Y))
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.view.Resize(int(w), int(h))
	g.sim.Resize(float64(w), float64(h))
}
