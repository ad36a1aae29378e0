package field

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/backdrop/config"
)

// Theme holds the colors used for the grid and its decorations.
// Alpha baked into a color is the base opacity before per-command alpha.
type Theme struct {
	Dark       bool
	Background color.NRGBA

	Grid    color.NRGBA // Lattice lines and hover dots
	Accent  color.NRGBA // Pointer connectors
	Rings   color.NRGBA
	Ripples color.NRGBA
	Energy  color.NRGBA
	Orbs    color.NRGBA
}

// NewTheme builds the dark or light theme from cfg.
func NewTheme(cfg *config.Config, dark bool) Theme {
	if dark {
		return Theme{
			Dark:       true,
			Background: nrgba(cfg.Derived.DarkBackground, 1),
			Grid:       hexColor("#6366f1", 0.3),
			Accent:     hexColor("#7c3aed", 0.4),
			Rings:      hexColor("#6366f1", 1),
			Ripples:    hexColor("#f59e0b", 1),
			Energy:     hexColor("#10b981", 1),
			Orbs:       hexColor("#ec4899", 1),
		}
	}
	return Theme{
		Background: nrgba(cfg.Derived.LightBackground, 1),
		Grid:       hexColor("#6366f1", 0.2),
		Accent:     hexColor("#7c3aed", 0.3),
		Rings:      hexColor("#8b5cf6", 1),
		Ripples:    hexColor("#10b981", 1),
		Energy:     hexColor("#f59e0b", 1),
		Orbs:       hexColor("#8b5cf6", 1),
	}
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}

// hexColor parses a constant theme color. Unparseable input yields mid gray.
func hexColor(hex string, alpha float64) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return nrgba(c, alpha)
}
