// Package weather supplies time-varying wave parameters: the external tuning
// system a surface re-reads on every tick.
package weather

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/wavesim/internal/wave"
)

var ErrEmptySchedule = errors.New("wavesim: schedule has no keyframes")

// Source maps simulated time to parameters.
type Source interface {
	At(t float64) wave.Params
}

// Static is a Source that never changes.
type Static wave.Params

func (s Static) At(float64) wave.Params { return wave.Params(s) }

// Keyframe pins the parameters at a point in simulated time.
type Keyframe struct {
	Time   float64     `yaml:"time" json:"time"`
	Params wave.Params `yaml:"params" json:"params"`
}

// Schedule interpolates linearly between keyframes and holds the first and
// last keyframe outside their range.
type Schedule struct {
	frames []Keyframe
}

func NewSchedule(frames []Keyframe) (*Schedule, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySchedule
	}
	sorted := append([]Keyframe(nil), frames...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for _, kf := range sorted {
		if err := kf.Params.Validate(); err != nil {
			return nil, fmt.Errorf("keyframe at t=%.3f: %w", kf.Time, err)
		}
	}
	return &Schedule{frames: sorted}, nil
}

func (s *Schedule) At(t float64) wave.Params {
	f := s.frames
	if t <= f[0].Time {
		return f[0].Params
	}
	last := f[len(f)-1]
	if t >= last.Time {
		return last.Params
	}
	j := sort.Search(len(f), func(i int) bool { return f[i].Time > t })
	a, b := f[j-1], f[j]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Params
	}
	return Lerp(a.Params, b.Params, (t-a.Time)/span)
}

// Keyframes returns a copy of the sorted keyframes.
func (s *Schedule) Keyframes() []Keyframe {
	return append([]Keyframe(nil), s.frames...)
}

// Lerp blends every field of a and b by f in [0, 1].
func Lerp(a, b wave.Params, f float64) wave.Params {
	mix := func(x, y float64) float64 { return x + (y-x)*f }
	return wave.Params{
		Amplitude:         mix(a.Amplitude, b.Amplitude),
		Frequency:         mix(a.Frequency, b.Frequency),
		Speed:             mix(a.Speed, b.Speed),
		Stiffness:         mix(a.Stiffness, b.Stiffness),
		Damping:           mix(a.Damping, b.Damping),
		HorizontalDamping: mix(a.HorizontalDamping, b.HorizontalDamping),
		Tension:           mix(a.Tension, b.Tension),
		Viscosity:         mix(a.Viscosity, b.Viscosity),
		MaxVelocity:       mix(a.MaxVelocity, b.MaxVelocity),
	}
}

// Clock binds a Source to a simulated time so it can serve as a
// wave.ParamSource. The runner advances it before each step. The stream
// server reads it from sampling goroutines, so access is guarded.
type Clock struct {
	mu  sync.RWMutex
	src Source
	t   float64
}

func NewClock(src Source) *Clock {
	return &Clock{src: src}
}

func (c *Clock) SetTime(t float64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *Clock) Time() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

func (c *Clock) Params() wave.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.src.At(c.t)
}
