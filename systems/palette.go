package systems

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a small fixed set of colors with per-entry alpha.
type Palette struct {
	colors []colorful.Color
	alphas []float64
}

// NewPalette creates a palette. Missing alphas default to 1.
func NewPalette(colors []colorful.Color, alphas []float64) Palette {
	a := make([]float64, len(colors))
	for i := range a {
		a[i] = 1
		if i < len(alphas) {
			a[i] = clamp(alphas[i], 0, 1)
		}
	}
	return Palette{colors: colors, alphas: a}
}

// Len returns the number of palette entries.
func (p Palette) Len() int {
	return len(p.colors)
}

// At returns entry i as a straight-alpha color.
func (p Palette) At(i int) color.NRGBA {
	r, g, b := p.colors[i].Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(p.alphas[i]*255 + 0.5)}
}

// Pick returns a uniformly chosen entry. An empty palette yields opaque white.
func (p Palette) Pick(rng *rand.Rand) color.NRGBA {
	if len(p.colors) == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return p.At(rng.Intn(len(p.colors)))
}
