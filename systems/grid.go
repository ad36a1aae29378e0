package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Configuration ranges for the grid field. Setters clamp into these.
const (
	MinDistortionStrength = 0.0
	MaxDistortionStrength = 100.0
	MinWaveAmplitude      = 0.0
	MaxWaveAmplitude      = 50.0
	MinGridOpacity        = 0.0
	MaxGridOpacity        = 1.0
	MinGridSpacing        = 10.0
	MaxGridSpacing        = 100.0
)

// GridPoint is one lattice node.
type GridPoint struct {
	Current  r2.Vec // Eased toward Target every tick
	Original r2.Vec // Rest position
	Target   r2.Vec // Recomputed every tick

	Phase     float64
	Frequency float64
}

// GridSettings holds the tunable parameters of the field.
type GridSettings struct {
	Spacing            float64
	DistortionStrength float64
	WaveAmplitude      float64
	Opacity            float64
	InfluenceRadius    float64
	Easing             float64
}

// clamped returns s with every field in its documented range.
func (s GridSettings) clamped() GridSettings {
	s.Spacing = clamp(s.Spacing, MinGridSpacing, MaxGridSpacing)
	s.DistortionStrength = clamp(s.DistortionStrength, MinDistortionStrength, MaxDistortionStrength)
	s.WaveAmplitude = clamp(s.WaveAmplitude, MinWaveAmplitude, MaxWaveAmplitude)
	s.Opacity = clamp(s.Opacity, MinGridOpacity, MaxGridOpacity)
	if !(s.InfluenceRadius > 0) {
		s.InfluenceRadius = 200
	}
	if !(s.Easing > 0) || s.Easing > 1 {
		s.Easing = 0.1
	}
	return s
}

// GridField is a lattice of control points displaced by the pointer and an
// idle oscillator. Points are stored row-major.
type GridField struct {
	settings GridSettings
	rng      *rand.Rand

	width, height float64
	rows, cols    int
	points        []GridPoint
}

// NewGridField creates an empty field. Call Rebuild before Step.
func NewGridField(settings GridSettings, rng *rand.Rand) *GridField {
	return &GridField{
		settings: settings.clamped(),
		rng:      rng,
	}
}

// Rebuild discards every point and lays out a fresh lattice covering width x height
// with two spare rows and columns so displaced edges never show a gap.
func (g *GridField) Rebuild(width, height float64) {
	g.width = extent(width)
	g.height = extent(height)

	s := g.settings.Spacing
	g.cols = int(math.Ceil(g.width/s)) + 2
	g.rows = int(math.Ceil(g.height/s)) + 2

	g.points = make([]GridPoint, g.rows*g.cols)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			rest := r2.Vec{X: float64(col) * s, Y: float64(row) * s}
			g.points[row*g.cols+col] = GridPoint{
				Current:   rest,
				Original:  rest,
				Target:    rest,
				Phase:     g.rng.Float64() * 2 * math.Pi,
				Frequency: g.rng.Float64()*0.02 + 0.01,
			}
		}
	}
}

// Step recomputes every target from its rest position, the pointer and time t
// (seconds), then eases the current position toward it.
func (g *GridField) Step(pointer r2.Vec, t float64) {
	radius := g.settings.InfluenceRadius
	strength := g.settings.DistortionStrength
	amp := g.settings.WaveAmplitude
	ease := g.settings.Easing

	for i := range g.points {
		p := &g.points[i]

		target := p.Original

		d := r2.Sub(pointer, p.Original)
		dist := r2.Norm(d)
		if dist < radius {
			influence := (radius - dist) / radius
			angle := math.Atan2(d.Y, d.X)
			force := influence * strength
			target.X += math.Cos(angle) * force
			target.Y += math.Sin(angle) * force
		}

		target.X += math.Sin(t*2+p.Phase) * amp
		target.Y += math.Cos(t*1.5+p.Phase*1.3) * amp * 0.5

		p.Target = target
		p.Current = r2.Add(p.Current, r2.Scale(ease, r2.Sub(target, p.Current)))
	}
}

// Settings returns the current (clamped) settings.
func (g *GridField) Settings() GridSettings {
	return g.settings
}

// SetDistortionStrength clamps to [0, 100].
func (g *GridField) SetDistortionStrength(v float64) {
	g.settings.DistortionStrength = clamp(v, MinDistortionStrength, MaxDistortionStrength)
}

// SetWaveAmplitude clamps to [0, 50].
func (g *GridField) SetWaveAmplitude(v float64) {
	g.settings.WaveAmplitude = clamp(v, MinWaveAmplitude, MaxWaveAmplitude)
}

// SetOpacity clamps to [0, 1].
func (g *GridField) SetOpacity(v float64) {
	g.settings.Opacity = clamp(v, MinGridOpacity, MaxGridOpacity)
}

// SetSpacing clamps to [10, 100] and rebuilds the lattice at the current size
// when the clamped value differs. Returns true if a rebuild happened.
func (g *GridField) SetSpacing(v float64) bool {
	v = clamp(v, MinGridSpacing, MaxGridSpacing)
	if v == g.settings.Spacing {
		return false
	}
	g.settings.Spacing = v
	g.Rebuild(g.width, g.height)
	return true
}

// Rows returns the number of lattice rows.
func (g *GridField) Rows() int {
	return g.rows
}

// Cols returns the number of lattice columns.
func (g *GridField) Cols() int {
	return g.cols
}

// At returns the point at (row, col).
func (g *GridField) At(row, col int) *GridPoint {
	return &g.points[row*g.cols+col]
}

// Points returns the lattice in row-major order. Callers must not retain it
// across a rebuild.
func (g *GridField) Points() []GridPoint {
	return g.points
}

// Len returns the number of points.
func (g *GridField) Len() int {
	return len(g.points)
}

// MeanDisplacement returns the average distance between current and rest positions.
func (g *GridField) MeanDisplacement() float64 {
	if len(g.points) == 0 {
		return 0
	}
	var sum float64
	for i := range g.points {
		sum += r2.Norm(r2.Sub(g.points[i].Current, g.points[i].Original))
	}
	return sum / float64(len(g.points))
}
