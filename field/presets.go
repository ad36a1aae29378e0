package field

// Setting identifies a tunable grid parameter.
type Setting uint8

const (
	SettingStrength Setting = iota
	SettingAmplitude
	SettingOpacity
	SettingSpacing
)

// Preset is a keyboard shortcut that sets one grid parameter.
type Preset struct {
	Key     rune
	Setting Setting
	Value   float64
}

// Presets lists the keyboard shortcuts, three per setting.
var Presets = []Preset{
	{'1', SettingStrength, 25}, {'2', SettingStrength, 50}, {'3', SettingStrength, 75},
	{'q', SettingAmplitude, 10}, {'w', SettingAmplitude, 20}, {'e', SettingAmplitude, 30},
	{'a', SettingOpacity, 0.1}, {'s', SettingOpacity, 0.3}, {'d', SettingOpacity, 0.5},
	{'z', SettingSpacing, 20}, {'x', SettingSpacing, 40}, {'c', SettingSpacing, 60},
}

// Set applies v to the given setting.
func (s *Simulator) Set(setting Setting, v float64) {
	switch setting {
	case SettingStrength:
		s.SetDistortionStrength(v)
	case SettingAmplitude:
		s.SetWaveAmplitude(v)
	case SettingOpacity:
		s.SetGridOpacity(v)
	case SettingSpacing:
		s.SetGridSpacing(v)
	}
}

// HandleKey applies the preset bound to key, or toggles the theme on 't'.
// Returns false if the key is not bound.
func (s *Simulator) HandleKey(key rune) bool {
	if key == 't' || key == 'T' {
		s.ToggleTheme()
		return true
	}
	for _, p := range Presets {
		if p.Key == key {
			s.Set(p.Setting, p.Value)
			return true
		}
	}
	return false
}
