package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/wave"
)

func newSurface(t *testing.T) *wave.Surface {
	t.Helper()
	s, err := wave.NewSurface(40, 40, nil)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	return s
}

func TestEnergy(t *testing.T) {
	s := newSurface(t)
	m := NewEnergy()

	m.Observe(s, wave.StepStats{}, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero energy on a flat surface, got %f", m.Value())
	}

	s.AddImpulse(20, 2, 3)
	m.Observe(s, wave.StepStats{}, 0)
	if math.Abs(m.Last()-s.Energy()) > 1e-12 {
		t.Errorf("expected last %f, got %f", s.Energy(), m.Last())
	}
	if math.Abs(m.Value()-s.Energy()/2) > 1e-12 {
		t.Errorf("expected mean %f, got %f", s.Energy()/2, m.Value())
	}
	if m.Peak() != m.Last() {
		t.Error("peak should equal the only non-zero sample")
	}

	m.Reset()
	if m.Value() != 0 || m.Peak() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyGrowth_DampedRun(t *testing.T) {
	s := newSurface(t)
	s.AddImpulse(20, 2, 3)

	m := NewEnergyGrowth()
	for i := 0; i < 500; i++ {
		s.Step(0.02)
		m.Observe(s, wave.StepStats{}, 0)
	}
	if m.Value() <= 0 {
		t.Error("expected growth ratio to be recorded")
	}
	if m.Value() > 1.5 {
		t.Errorf("energy grew to %f of its initial value", m.Value())
	}
}

func TestStability(t *testing.T) {
	s := newSurface(t)
	m := NewStability(0.5)

	m.Observe(s, wave.StepStats{}, 0)
	if m.Value() != 1 {
		t.Errorf("expected stability 1, got %f", m.Value())
	}

	// clamped at max velocity, one tick lifts the centre close to 1
	s.AddImpulse(20, 100, 3)
	s.Step(0.1)
	m.Observe(s, wave.StepStats{}, 0)
	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestMaxHeight(t *testing.T) {
	s := newSurface(t)
	m := NewMaxHeight()
	s.AddImpulse(20, 2, 3)
	s.Step(0.1)
	m.Observe(s, wave.StepStats{}, 0)

	c := s.WorldXToIndex(20)
	if m.Value() < s.Height(c) {
		t.Errorf("max %f below centre height %f", m.Value(), s.Height(c))
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCorrectionCounters(t *testing.T) {
	nf := NewNonFinite()
	cr := NewClampRate()
	s := newSurface(t)

	nf.Observe(s, wave.StepStats{NonFinite: 3}, 0)
	nf.Observe(s, wave.StepStats{NonFinite: 2}, 0)
	if nf.Value() != 5 {
		t.Errorf("expected 5, got %f", nf.Value())
	}

	cr.Observe(s, wave.StepStats{AdvectionClamps: 1, DeltaClamps: 3}, 0)
	cr.Observe(s, wave.StepStats{}, 0)
	if cr.Value() != 2 {
		t.Errorf("expected 2, got %f", cr.Value())
	}
}

func TestMetrics_WithSimulator(t *testing.T) {
	s := newSurface(t)
	s.AddImpulse(20, 3, 2)
	runner := sim.New(s)
	for _, m := range []sim.Metric{
		NewEnergy(),
		NewEnergyGrowth(),
		NewMaxHeight(),
		NewStability(HeightThreshold),
		NewNonFinite(),
		NewClampRate(),
	} {
		runner.AddMetric(m)
	}

	res, err := runner.Run(context.Background(), sim.Config{Dt: 0.02, Duration: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, name := range []string{"energy", "energy_growth", "max_height", "stability", "non_finite", "clamp_rate"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("expected stable run, got %f", res.Metrics["stability"])
	}
}
