package field

import (
	"math"

	"github.com/pthm-cable/backdrop/config"
)

// Autopilot scripts the pointer for runs without a window: it circles the
// surface center and clicks at a fixed interval.
type Autopilot struct {
	radius   float64
	speed    float64 // Radians per frame
	interval int     // Frames between clicks, 0 = never

	angle float64
	frame int
}

// NewAutopilot creates an autopilot from the headless config section.
func NewAutopilot(cfg config.HeadlessConfig) *Autopilot {
	return &Autopilot{
		radius:   cfg.OrbitRadius,
		speed:    cfg.OrbitSpeed,
		interval: cfg.ClickInterval,
	}
}

// Step moves the pointer one increment along the orbit and clicks when due.
// Call once per frame before Simulator.Frame.
func (a *Autopilot) Step(s *Simulator) {
	w, h := s.Size()
	x := w/2 + a.radius*math.Cos(a.angle)
	y := h/2 + a.radius*math.Sin(a.angle)
	s.SetPointer(x, y)

	a.frame++
	if a.interval > 0 && a.frame%a.interval == 0 {
		s.Trigger(x, y)
	}
	a.angle = math.Mod(a.angle+a.speed, 2*math.Pi)
}
