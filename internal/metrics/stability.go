package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/wave"
)

// HeightThreshold is the default stability bound in world units.
const HeightThreshold = 5.0

// Stability is the fraction of ticks on which every node stayed within
// ±threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(r wave.Reader, st wave.StepStats, t float64) {
	s.samples++
	for i := 0; i < r.Resolution(); i++ {
		if math.Abs(r.Height(i)) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// MaxHeight is the largest |height| seen on any node.
type MaxHeight struct {
	name string
	max  float64
}

func NewMaxHeight() *MaxHeight {
	return &MaxHeight{name: "max_height"}
}

func (m *MaxHeight) Name() string { return m.name }

func (m *MaxHeight) Observe(r wave.Reader, st wave.StepStats, t float64) {
	for i := 0; i < r.Resolution(); i++ {
		m.max = math.Max(m.max, math.Abs(r.Height(i)))
	}
}

func (m *MaxHeight) Value() float64 { return m.max }
func (m *MaxHeight) Reset()         { m.max = 0 }
