package sim

import (
	"fmt"

	"github.com/san-kum/wavesim/internal/wave"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(r wave.Reader, st wave.StepStats, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every committed tick.
type Observer interface {
	OnStep(r wave.Reader, t float64)
}

// Clock is advanced to the tick's start time before each step. weather.Clock
// implements it.
type Clock interface {
	SetTime(t float64)
}

// Impulse is a splash scheduled at simulated time Time.
type Impulse struct {
	Time   float64
	X      float64
	Force  float64
	Radius float64
}

// Splash configures seeded random impulses: on average Rate per second, with
// force uniform in ±MaxForce and radius uniform in [MinRadius, MaxRadius].
type Splash struct {
	Rate      float64
	MaxForce  float64
	MinRadius float64
	MaxRadius float64
}

type Config struct {
	Dt          float64
	Duration    float64
	Seed        int64
	Probe       float64
	RecordEvery int
	Impulses    []Impulse
	Splash      Splash
}

func DefaultConfig() Config {
	return Config{
		Dt:          1.0 / 60,
		Duration:    10.0,
		RecordEvery: 1,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Splash.Rate < 0 {
		return fmt.Errorf("splash rate must be non-negative, got %f", c.Splash.Rate)
	}
	return nil
}

// Result is everything recorded during a run. Frames hold the dynamic heights
// every RecordEvery ticks at the matching entries of FrameTimes; Probe holds
// the sampled surface height (base wave included) at every tick and
// ProbeVelocity the vertical velocity of the probe's nearest node.
type Result struct {
	Frames        [][]float64
	FrameTimes    []float64
	Probe         []float64
	ProbeVelocity []float64
	Times         []float64
	Metrics       map[string]float64
	Stats         wave.Stats
	StepsTaken    int
	Impulses      int
	Errors        []error
}
