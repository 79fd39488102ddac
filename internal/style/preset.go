package style

// PresetDefault names the preset matching the built-in colors.
const PresetDefault = "default"

var presets = map[string]Config{
	PresetDefault: {"primary": "#667eea", "secondary": "#764ba2", "bg": "#f8f9fa", "card": "#ffffff", "radius": "8"},
	"dark":        {"primary": "#4c63d2", "secondary": "#5a67d8", "bg": "#1a202c", "card": "#2d3748", "radius": "8"},
	"green":       {"primary": "#38a169", "secondary": "#48bb78", "bg": "#f0fff4", "card": "#ffffff", "radius": "8"},
	"orange":      {"primary": "#ed8936", "secondary": "#f6ad55", "bg": "#fffaf0", "card": "#ffffff", "radius": "8"},
	"purple":      {"primary": "#805ad5", "secondary": "#9f7aea", "bg": "#faf5ff", "card": "#ffffff", "radius": "8"},
}

var presetOrder = []string{PresetDefault, "dark", "green", "orange", "purple"}

// PresetNames returns preset names in display order.
func PresetNames() []string {
	return append([]string(nil), presetOrder...)
}

// Preset returns a copy of the named partial config.
func Preset(name string) (Config, bool) {
	p, ok := presets[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// MatchPreset returns the name of the preset whose keys all match c, or "".
func MatchPreset(c Config) string {
	r := Resolve(c)
	for _, name := range presetOrder {
		match := true
		for k, v := range presets[name] {
			if r[k] != v {
				match = false
				break
			}
		}
		if match {
			return name
		}
	}
	return ""
}
