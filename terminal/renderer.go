// Package terminal rasterizes draw frames onto a tcell screen.
//
// Each terminal cell shows two vertical pixels using the upper half block:
// the foreground paints the top pixel and the background the bottom one.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/backdrop/draw"
)

const halfBlock = '▀'

// Renderer draws frames onto a tcell screen. It owns neither the screen's
// lifetime nor its event loop; Open and Close only manage its pixel buffer.
type Renderer struct {
	screen tcell.Screen

	cols, rows int              // Screen size in cells
	pixels     []colorful.Color // cols x (2*rows), row-major
}

// NewRenderer creates a renderer bound to an initialized screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Open sizes the pixel buffer to the screen.
func (r *Renderer) Open(width, height int) error {
	r.fit()
	return nil
}

// Close drops the pixel buffer.
func (r *Renderer) Close() error {
	r.pixels = nil
	r.cols, r.rows = 0, 0
	return nil
}

// fit reallocates the buffer when the screen size changed.
func (r *Renderer) fit() {
	cols, rows := r.screen.Size()
	if cols == r.cols && rows == r.rows && r.pixels != nil {
		return
	}
	r.cols, r.rows = cols, rows
	r.pixels = make([]colorful.Color, cols*rows*2)
}

// PixelSize returns the pixel grid the renderer rasterizes into.
func (r *Renderer) PixelSize() (w, h int) {
	return r.cols, r.rows * 2
}

// Pixel returns the color of pixel (x, y) from the last frame.
func (r *Renderer) Pixel(x, y int) colorful.Color {
	w, h := r.PixelSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return colorful.Color{}
	}
	return r.pixels[y*w+x]
}

// Render rasterizes f and shows it.
func (r *Renderer) Render(f *draw.Frame) {
	r.fit()
	w, h := r.PixelSize()
	if w == 0 || h == 0 {
		return
	}

	bg := toColorful(f.Background)
	for i := range r.pixels {
		r.pixels[i] = bg
	}

	// Frame pixels to terminal pixels
	sx, sy := 1.0, 1.0
	if f.Width > 0 {
		sx = float64(w) / f.Width
	}
	if f.Height > 0 {
		sy = float64(h) / f.Height
	}

	for _, cmd := range f.Commands {
		switch c := cmd.(type) {
		case draw.Circle:
			r.fillCircle(c, sx, sy)
		case draw.Polyline:
			r.strokePolyline(c, sx, sy)
		}
	}

	for row := 0; row < r.rows; row++ {
		for col := 0; col < r.cols; col++ {
			top := r.pixels[(2*row)*w+col]
			bottom := r.pixels[(2*row+1)*w+col]
			style := tcell.StyleDefault.
				Foreground(tcellColor(top)).
				Background(tcellColor(bottom))
			r.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	r.screen.Show()
}

func (r *Renderer) fillCircle(c draw.Circle, sx, sy float64) {
	a := float64(draw.EffectiveAlpha(c.Color, c.Alpha)) / 255
	if a == 0 {
		return
	}
	col := toColorful(c.Color)

	cx, cy := c.Center.X*sx, c.Center.Y*sy
	rx, ry := c.Radius*sx, c.Radius*sy
	if c.Blur {
		// Soft edge: widen and thin out
		rx, ry = rx*1.5, ry*1.5
		a *= 0.6
	}

	x0, x1 := int(math.Floor(cx-rx)), int(math.Ceil(cx+rx))
	y0, y1 := int(math.Floor(cy-ry)), int(math.Ceil(cy+ry))
	hit := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - cx) / math.Max(rx, 1e-9)
			dy := (float64(y) + 0.5 - cy) / math.Max(ry, 1e-9)
			if dx*dx+dy*dy <= 1 {
				r.blend(x, y, col, a)
				hit = true
			}
		}
	}
	// Small discs still cover the pixel they sit in
	if !hit {
		r.blend(int(cx), int(cy), col, a)
	}
}

func (r *Renderer) strokePolyline(p draw.Polyline, sx, sy float64) {
	a := float64(draw.EffectiveAlpha(p.Color, p.Alpha)) / 255
	if a == 0 || len(p.Points) < 2 {
		return
	}
	col := toColorful(p.Color)

	n := len(p.Points)
	segments := n - 1
	if p.Closed {
		segments = n
	}
	for i := 0; i < segments; i++ {
		a0 := p.Points[i]
		b0 := p.Points[(i+1)%n]
		r.line(r2.Vec{X: a0.X * sx, Y: a0.Y * sy}, r2.Vec{X: b0.X * sx, Y: b0.Y * sy}, col, a)
	}
}

// line walks the segment one pixel at a time. The end pixel is left to the
// next segment so joints are not blended twice.
func (r *Renderer) line(a, b r2.Vec, col colorful.Color, alpha float64) {
	d := r2.Sub(b, a)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	if steps == 0 {
		r.blend(int(a.X), int(a.Y), col, alpha)
		return
	}
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i < steps; i++ {
		p := r2.Add(a, r2.Scale(float64(i)/float64(steps), d))
		x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if x == lastX && y == lastY {
			continue
		}
		r.blend(x, y, col, alpha)
		lastX, lastY = x, y
	}
}

func (r *Renderer) blend(x, y int, col colorful.Color, alpha float64) {
	w, h := r.PixelSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := y*w + x
	r.pixels[i] = r.pixels[i].BlendRgb(col, alpha)
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
