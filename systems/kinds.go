package systems

import (
	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

// KindParams is the constant bundle selected by a particle's kind tag.
type KindParams struct {
	AttractionRadius float64
	AttractionGain   float64
	Gravity          float64
	Friction         float64
	Restitution      float64
	OpacityScale     float64
	Blur             bool
}

// KindTable maps each kind to its constants.
type KindTable [components.NumKinds]KindParams

// DefaultKindTable returns the built-in constants for both kinds.
func DefaultKindTable() KindTable {
	return KindTable{
		components.KindPhysics: {
			AttractionRadius: 200,
			AttractionGain:   0.1,
			Gravity:          0.05,
			Friction:         0.98,
			Restitution:      0.8,
			OpacityScale:     1.0,
		},
		components.KindLiquid: {
			AttractionRadius: 150,
			AttractionGain:   0.05,
			Friction:         1,
			Restitution:      0.5,
			OpacityScale:     0.6,
			Blur:             true,
		},
	}
}

// KindTableFromConfig builds the lookup from the physics and liquid sections.
func KindTableFromConfig(cfg *config.Config) KindTable {
	return KindTable{
		components.KindPhysics: paramsFromConfig(cfg.Physics),
		components.KindLiquid:  paramsFromConfig(cfg.Liquid),
	}
}

func paramsFromConfig(kc config.KindConfig) KindParams {
	return KindParams{
		AttractionRadius: kc.AttractionRadius,
		AttractionGain:   kc.AttractionGain,
		Gravity:          kc.Gravity,
		Friction:         kc.Friction,
		Restitution:      kc.Restitution,
		OpacityScale:     kc.OpacityScale,
		Blur:             kc.Blur,
	}
}

// Of returns the params for kind. Unknown kinds fall back to physics.
func (t *KindTable) Of(kind components.Kind) *KindParams {
	if int(kind) >= len(t) {
		return &t[components.KindPhysics]
	}
	return &t[kind]
}
