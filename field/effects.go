package field

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/draw"
	"github.com/pthm-cable/backdrop/systems"
)

// Fixed decoration parameters.
const (
	connectorAlpha = 0.3
	connectorWidth = 0.5
	hoverAlpha     = 0.6

	ringMinRadius = 50.0
	ringMaxRadius = 200.0
	ringStep      = 25.0
	ringAlpha     = 0.1
	ringWidth     = 2.0

	rippleCount   = 5
	rippleSpeed   = 50.0
	rippleSpacing = 40.0
	rippleMax     = 300.0
	rippleAlpha   = 0.05

	energyStretch = 1.5
	energyAlpha   = 0.15
	energyWidth   = 0.5

	orbStride = 2
)

// emitGrid appends the lattice and its pointer decorations to the frame.
// Everything reads Current positions; nothing here mutates the field.
func (s *Simulator) emitGrid(pointer r2.Vec, t float64) {
	g := s.grid
	rows, cols := g.Rows(), g.Cols()
	if rows == 0 || cols == 0 {
		return
	}
	pts := g.Points()
	set := g.Settings()
	fx := s.cfg.Effects
	th := &s.theme

	for r := 0; r < rows; r++ {
		line := make([]r2.Vec, cols)
		for c := 0; c < cols; c++ {
			line[c] = pts[r*cols+c].Current
		}
		s.frame.Add(draw.Polyline{Points: line, Color: th.Grid, Alpha: set.Opacity, Width: 1})
	}
	for c := 0; c < cols; c++ {
		line := make([]r2.Vec, rows)
		for r := 0; r < rows; r++ {
			line[r] = pts[r*cols+c].Current
		}
		s.frame.Add(draw.Polyline{Points: line, Color: th.Grid, Alpha: set.Opacity, Width: 1})
	}

	if fx.ConnectorRadius > 0 {
		for i := range pts {
			d := r2.Norm(r2.Sub(pointer, pts[i].Current))
			if d < fx.ConnectorRadius {
				alpha := (fx.ConnectorRadius - d) / fx.ConnectorRadius * connectorAlpha
				s.frame.Line(pts[i].Current, pointer, th.Accent, alpha, connectorWidth)
			}
		}
	}

	if fx.HoverRadius > 0 {
		for i := range pts {
			d := r2.Norm(r2.Sub(pointer, pts[i].Current))
			if d < fx.HoverRadius {
				s.frame.Add(draw.Circle{
					Center: pts[i].Current,
					Radius: 1 + 3*(fx.HoverRadius-d)/fx.HoverRadius,
					Color:  th.Grid,
					Alpha:  hoverAlpha,
				})
			}
		}
	}

	if fx.MagneticRings {
		for radius := ringMinRadius; radius <= ringMaxRadius; radius += ringStep {
			s.frame.Add(ring(pointer, radius, fx.RingSegments, th.Rings, ringAlpha, ringWidth))
		}
	}

	if fx.Ripples {
		for i := 0; i < rippleCount; i++ {
			radius := math.Mod(t*rippleSpeed+float64(i)*rippleSpacing, rippleMax)
			if radius <= 0 {
				continue
			}
			s.frame.Add(ring(pointer, radius, fx.RingSegments, th.Ripples, rippleAlpha, 1))
		}
	}

	if fx.EnergyLines {
		limit := set.Spacing * energyStretch
		for r := 0; r < rows-1; r++ {
			for c := 0; c < cols-1; c++ {
				p := pts[r*cols+c].Current
				below := pts[(r+1)*cols+c].Current
				right := pts[r*cols+c+1].Current
				if r2.Norm(r2.Sub(p, below)) > limit {
					s.frame.Line(p, below, th.Energy, energyAlpha, energyWidth)
				}
				if r2.Norm(r2.Sub(p, right)) > limit {
					s.frame.Line(p, right, th.Energy, energyAlpha, energyWidth)
				}
			}
		}
	}

	if fx.Orbs && fx.OrbRadius > 0 {
		for r := 0; r < rows; r += orbStride {
			for c := 0; c < cols; c += orbStride {
				pt := &pts[r*cols+c]
				d := r2.Norm(r2.Sub(pointer, pt.Current))
				if d >= fx.OrbRadius {
					continue
				}
				pulse := math.Sin(t*3+pt.Phase)*0.5 + 0.5
				s.frame.Add(draw.Circle{
					Center: pt.Current,
					Radius: 1 + 2*pulse,
					Color:  th.Orbs,
					Alpha:  (fx.OrbRadius - d) / fx.OrbRadius * pulse * 0.3,
				})
			}
		}
	}
}

// emitParticle appends one surviving particle as a circle.
func (s *Simulator) emitParticle(pos *components.Position, p *components.Particle, kp *systems.KindParams) {
	s.frame.Add(draw.Circle{
		Center: r2.Vec{X: pos.X, Y: pos.Y},
		Radius: p.Size,
		Color:  p.Color,
		Alpha:  p.Life * kp.OpacityScale,
		Blur:   kp.Blur,
	})
}

// ring approximates a circle outline with a closed polyline.
func ring(center r2.Vec, radius float64, segments int, c color.NRGBA, alpha, width float64) draw.Polyline {
	if segments < 8 {
		segments = 8
	}
	pts := make([]r2.Vec, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = r2.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return draw.Polyline{Points: pts, Color: c, Alpha: alpha, Width: width, Closed: true}
}
