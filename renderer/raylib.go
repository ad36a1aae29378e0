package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/draw"
)

// blurSpread is how far past its radius a blurred circle fades out, in pixels.
const blurSpread = 4.0

// Raylib draws frames in a raylib window. Blurred circles are painted into an
// offscreen layer during Render and composited in paint order by Present.
// Must be used after rl.InitWindow.
type Raylib struct {
	layer  rl.RenderTexture2D
	width  int32
	height int32
	loaded bool

	frame  *draw.Frame
	blurAt int // Index of the first blurred circle, -1 if none
}

// NewRaylib creates an unopened renderer.
func NewRaylib() *Raylib {
	return &Raylib{blurAt: -1}
}

// Open allocates the blur layer.
func (r *Raylib) Open(width, height int) error {
	r.Resize(width, height)
	return nil
}

// Resize recreates the blur layer when the size changed.
func (r *Raylib) Resize(width, height int) {
	w, h := int32(width), int32(height)
	if r.loaded && w == r.width && h == r.height {
		return
	}
	if r.loaded {
		rl.UnloadRenderTexture(r.layer)
		r.loaded = false
	}
	if w <= 0 || h <= 0 {
		return
	}
	r.layer = rl.LoadRenderTexture(w, h)
	r.width, r.height = w, h
	r.loaded = true
}

// Close releases the blur layer.
func (r *Raylib) Close() error {
	if r.loaded {
		rl.UnloadRenderTexture(r.layer)
		r.loaded = false
	}
	r.frame = nil
	r.blurAt = -1
	return nil
}

// Render keeps f for Present and paints its blurred circles into the layer.
// Call outside BeginDrawing.
func (r *Raylib) Render(f *draw.Frame) {
	r.frame = f
	r.blurAt = FirstBlur(f)
	if r.blurAt < 0 || !r.loaded {
		return
	}

	rl.BeginTextureMode(r.layer)
	rl.ClearBackground(rl.Blank)
	for _, cmd := range f.Commands[r.blurAt:] {
		c, ok := cmd.(draw.Circle)
		if !ok || !c.Blur {
			continue
		}
		inner := toRL(c.Color, c.Alpha)
		outer := inner
		outer.A = 0
		rl.DrawCircleGradient(int32(c.Center.X), int32(c.Center.Y), float32(c.Radius+blurSpread), inner, outer)
		rl.DrawCircleV(vec(c.Center.X, c.Center.Y), float32(c.Radius*0.6), inner)
	}
	rl.EndTextureMode()
}

// Present draws the last rendered frame. Call between BeginDrawing and EndDrawing.
func (r *Raylib) Present() {
	f := r.frame
	if f == nil {
		return
	}
	rl.ClearBackground(toRL(f.Background, 1))

	for i, cmd := range f.Commands {
		if i == r.blurAt && r.loaded {
			r.drawLayer()
		}
		switch c := cmd.(type) {
		case draw.Circle:
			if c.Blur {
				continue
			}
			rl.DrawCircleV(vec(c.Center.X, c.Center.Y), float32(c.Radius), toRL(c.Color, c.Alpha))
		case draw.Polyline:
			drawPolyline(c)
		}
	}
}

// drawLayer composites the blur layer. Render textures are stored upside down.
func (r *Raylib) drawLayer() {
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.width), Height: -float32(r.height)}
	rl.DrawTextureRec(r.layer.Texture, src, rl.Vector2{}, rl.White)
}

func drawPolyline(p draw.Polyline) {
	n := len(p.Points)
	if n < 2 {
		return
	}
	col := toRL(p.Color, p.Alpha)
	if col.A == 0 {
		return
	}
	width := float32(p.Width)
	if width <= 0 {
		width = 1
	}
	for i := 0; i < n-1; i++ {
		a, b := p.Points[i], p.Points[i+1]
		rl.DrawLineEx(vec(a.X, a.Y), vec(b.X, b.Y), width, col)
	}
	if p.Closed {
		a, b := p.Points[n-1], p.Points[0]
		rl.DrawLineEx(vec(a.X, a.Y), vec(b.X, b.Y), width, col)
	}
}

// FirstBlur returns the index of the first blurred circle in f, or -1.
func FirstBlur(f *draw.Frame) int {
	for i, cmd := range f.Commands {
		if c, ok := cmd.(draw.Circle); ok && c.Blur {
			return i
		}
	}
	return -1
}

func toRL(c color.NRGBA, alpha float64) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, draw.EffectiveAlpha(c, alpha))
}

func vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}
