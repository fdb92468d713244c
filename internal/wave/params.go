package wave

import (
	"fmt"
	"math"
	"sort"
)

// Default tuning. The stiffness/tension pair is calibrated against the
// smoothing and clamp constants in step.go.
const (
	DefaultAmplitude         = 0.5
	DefaultFrequency         = 0.05
	DefaultSpeed             = 1.0
	DefaultStiffness         = 0.5
	DefaultDamping           = 0.3
	DefaultHorizontalDamping = 0.8
	DefaultTension           = 2.0
	DefaultViscosity         = 0.1
	DefaultMaxVelocity       = 10.0
)

// Params is the externally owned tuning block. The stepper re-reads it on
// every call and keeps no copy.
type Params struct {
	Amplitude         float64 `yaml:"amplitude" json:"amplitude"`
	Frequency         float64 `yaml:"frequency" json:"frequency"`
	Speed             float64 `yaml:"speed" json:"speed"`
	Stiffness         float64 `yaml:"stiffness" json:"stiffness"`
	Damping           float64 `yaml:"damping" json:"damping"`
	HorizontalDamping float64 `yaml:"horizontal_damping" json:"horizontal_damping"`
	Tension           float64 `yaml:"tension" json:"tension"`
	Viscosity         float64 `yaml:"viscosity" json:"viscosity"`
	MaxVelocity       float64 `yaml:"max_velocity" json:"max_velocity"`
}

func DefaultParams() Params {
	return Params{
		Amplitude:         DefaultAmplitude,
		Frequency:         DefaultFrequency,
		Speed:             DefaultSpeed,
		Stiffness:         DefaultStiffness,
		Damping:           DefaultDamping,
		HorizontalDamping: DefaultHorizontalDamping,
		Tension:           DefaultTension,
		Viscosity:         DefaultViscosity,
		MaxVelocity:       DefaultMaxVelocity,
	}
}

// ParamSource supplies the current parameters. Implementations are read once
// per Step and once per sampling call.
type ParamSource interface {
	Params() Params
}

// ParamFunc adapts a plain function to ParamSource.
type ParamFunc func() Params

func (f ParamFunc) Params() Params { return f() }

// BaseWave returns the analytic overlay described by p.
func (p Params) BaseWave() BaseWave {
	return BaseWave{Amplitude: p.Amplitude, Frequency: p.Frequency}
}

// Validate reports values the stepper cannot use. MaxVelocity must be
// positive; every field must be finite and the decay coefficients must not be
// negative.
func (p Params) Validate() error {
	for name, v := range p.GetParams() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParams, name, v)
		}
	}
	if p.MaxVelocity <= 0 {
		return fmt.Errorf("%w: max_velocity must be positive, got %f", ErrInvalidParams, p.MaxVelocity)
	}
	if p.Damping < 0 || p.HorizontalDamping < 0 {
		return fmt.Errorf("%w: damping must be non-negative", ErrInvalidParams)
	}
	if p.Viscosity < 0 {
		return fmt.Errorf("%w: viscosity must be non-negative, got %f", ErrInvalidParams, p.Viscosity)
	}
	return nil
}

// GetParams returns the parameters keyed by their yaml names.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"amplitude":          p.Amplitude,
		"frequency":          p.Frequency,
		"speed":              p.Speed,
		"stiffness":          p.Stiffness,
		"damping":            p.Damping,
		"horizontal_damping": p.HorizontalDamping,
		"tension":            p.Tension,
		"viscosity":          p.Viscosity,
		"max_velocity":       p.MaxVelocity,
	}
}

func (p *Params) SetParam(name string, v float64) error {
	switch name {
	case "amplitude":
		p.Amplitude = v
	case "frequency":
		p.Frequency = v
	case "speed":
		p.Speed = v
	case "stiffness":
		p.Stiffness = v
	case "damping":
		p.Damping = v
	case "horizontal_damping":
		p.HorizontalDamping = v
	case "tension":
		p.Tension = v
	case "viscosity":
		p.Viscosity = v
	case "max_velocity":
		p.MaxVelocity = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// ParamNames lists the settable parameter names in sorted order.
func ParamNames() []string {
	names := make([]string, 0, 9)
	for k := range DefaultParams().GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
