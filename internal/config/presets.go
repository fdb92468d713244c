package config

import (
	"sort"

	"github.com/san-kum/wavesim/internal/wave"
)

// Presets are weather settings for the surface. Grid and timing come from
// DefaultConfig.
var Presets = map[string]Preset{
	"calm": {
		Description: "glassy water, slow swell",
		Params: wave.Params{
			Amplitude: 0.2, Frequency: 0.03, Speed: 0.5,
			Stiffness: 0.5, Damping: 0.5, HorizontalDamping: 1.2,
			Tension: 2.0, Viscosity: 0.15, MaxVelocity: 5.0,
		},
	},
	"breezy": {
		Description: "light chop with occasional splashes",
		Params:      wave.DefaultParams(),
		Splash:      SplashConfig{Rate: 0.5, MaxForce: 2, MinRadius: 1, MaxRadius: 3},
	},
	"choppy": {
		Description: "short steep waves, frequent splashes",
		Params: wave.Params{
			Amplitude: 0.8, Frequency: 0.12, Speed: 1.8,
			Stiffness: 0.8, Damping: 0.2, HorizontalDamping: 0.6,
			Tension: 3.0, Viscosity: 0.08, MaxVelocity: 12.0,
		},
		Splash: SplashConfig{Rate: 2, MaxForce: 4, MinRadius: 1, MaxRadius: 4},
	},
	"storm": {
		Description: "large swell, heavy splashes",
		Params: wave.Params{
			Amplitude: 2.0, Frequency: 0.04, Speed: 2.5,
			Stiffness: 1.0, Damping: 0.1, HorizontalDamping: 0.4,
			Tension: 4.0, Viscosity: 0.05, MaxVelocity: 20.0,
		},
		Splash: SplashConfig{Rate: 5, MaxForce: 10, MinRadius: 2, MaxRadius: 8},
	},
}

type Preset struct {
	Description string
	Params      wave.Params
	Splash      SplashConfig
}

// GetPreset returns DefaultConfig with the named weather applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Params = p.Params
	cfg.Splash = p.Splash
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
