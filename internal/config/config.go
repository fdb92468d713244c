package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavesim/internal/wave"
)

const (
	DefaultResolution  = 128
	DefaultWidth       = 100.0
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 20.0
	DefaultRecordEvery = 1
	DefaultRadius      = 2.0
)

var ErrInvalidConfig = errors.New("wavesim: invalid config")

type Config struct {
	Grid        GridConfig      `yaml:"grid"`
	Params      wave.Params     `yaml:"params"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Seed        int64           `yaml:"seed"`
	Probe       float64         `yaml:"probe"`
	RecordEvery int             `yaml:"record_every"`
	Splash      SplashConfig    `yaml:"splash"`
	Impulses    []ImpulseConfig `yaml:"impulses,omitempty"`
}

type GridConfig struct {
	Resolution int     `yaml:"resolution"`
	Width      float64 `yaml:"width"`
	OriginX    float64 `yaml:"origin_x"`
}

// SplashConfig drives seeded random impulses. A zero Rate disables them.
type SplashConfig struct {
	Rate      float64 `yaml:"rate"`
	MaxForce  float64 `yaml:"max_force"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
}

// ImpulseConfig is a scheduled impulse at simulated time Time.
type ImpulseConfig struct {
	Time   float64 `yaml:"time"`
	X      float64 `yaml:"x"`
	Force  float64 `yaml:"force"`
	Radius float64 `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Resolution: DefaultResolution,
			Width:      DefaultWidth,
		},
		Params:      wave.DefaultParams(),
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Probe:       DefaultWidth / 2,
		RecordEvery: DefaultRecordEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, DefaultConfig())
}

// Parse decodes yaml over base, so fields missing from data keep base's
// values.
func Parse(data []byte, base *Config) (*Config, error) {
	cfg := *base
	cfg.Impulses = append([]ImpulseConfig(nil), base.Impulses...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports settings the runner cannot use.
func (c *Config) Validate() error {
	if c.Grid.Resolution < wave.MinResolution {
		return fmt.Errorf("%w: resolution must be at least %d, got %d", ErrInvalidConfig, wave.MinResolution, c.Grid.Resolution)
	}
	if !(c.Grid.Width > 0) || math.IsInf(c.Grid.Width, 0) {
		return fmt.Errorf("%w: width must be positive, got %f", ErrInvalidConfig, c.Grid.Width)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Duration < c.Dt {
		return fmt.Errorf("%w: duration %f shorter than dt %f", ErrInvalidConfig, c.Duration, c.Dt)
	}
	if c.RecordEvery < 1 {
		return fmt.Errorf("%w: record_every must be at least 1", ErrInvalidConfig)
	}
	if c.Splash.Rate < 0 || c.Splash.MinRadius > c.Splash.MaxRadius {
		return fmt.Errorf("%w: bad splash settings", ErrInvalidConfig)
	}
	for i, imp := range c.Impulses {
		if imp.Time < 0 || !(imp.Radius > 0) {
			return fmt.Errorf("%w: impulse %d needs time >= 0 and radius > 0", ErrInvalidConfig, i)
		}
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Steps is the number of fixed ticks covering Duration.
func (c *Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Impulses = append([]ImpulseConfig(nil), c.Impulses...)
	return &cp
}
