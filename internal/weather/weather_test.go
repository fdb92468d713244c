package weather

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/wavesim/internal/wave"
)

func TestStatic(t *testing.T) {
	p := wave.DefaultParams()
	p.Tension = 3
	s := Static(p)
	if s.At(0) != p || s.At(1e6) != p {
		t.Error("static source should not change")
	}
}

func TestSchedule_Empty(t *testing.T) {
	if _, err := NewSchedule(nil); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("expected ErrEmptySchedule, got %v", err)
	}
}

func TestSchedule_InvalidKeyframe(t *testing.T) {
	bad := wave.DefaultParams()
	bad.MaxVelocity = 0
	_, err := NewSchedule([]Keyframe{{Time: 0, Params: bad}})
	if !errors.Is(err, wave.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSchedule_At(t *testing.T) {
	a := wave.DefaultParams()
	b := a
	a.Amplitude, b.Amplitude = 0, 2
	a.Damping, b.Damping = 0.2, 0.4

	// out of order on purpose
	s, err := NewSchedule([]Keyframe{{Time: 20, Params: b}, {Time: 10, Params: a}})
	if err != nil {
		t.Fatalf("new schedule: %v", err)
	}

	tests := []struct {
		t         float64
		amplitude float64
		damping   float64
	}{
		{0, 0, 0.2},
		{10, 0, 0.2},
		{15, 1, 0.3},
		{17.5, 1.5, 0.35},
		{20, 2, 0.4},
		{100, 2, 0.4},
	}

	for _, tt := range tests {
		p := s.At(tt.t)
		if math.Abs(p.Amplitude-tt.amplitude) > 1e-12 {
			t.Errorf("t=%v: expected amplitude %f, got %f", tt.t, tt.amplitude, p.Amplitude)
		}
		if math.Abs(p.Damping-tt.damping) > 1e-12 {
			t.Errorf("t=%v: expected damping %f, got %f", tt.t, tt.damping, p.Damping)
		}
	}

	if kf := s.Keyframes(); kf[0].Time != 10 {
		t.Errorf("keyframes not sorted: %+v", kf)
	}
}

func TestClock(t *testing.T) {
	a := wave.DefaultParams()
	b := a
	b.Speed = 3
	s, _ := NewSchedule([]Keyframe{{Time: 0, Params: a}, {Time: 2, Params: b}})

	c := NewClock(s)
	var src wave.ParamSource = c
	c.SetTime(1)
	if got := src.Params().Speed; math.Abs(got-2) > 1e-12 {
		t.Errorf("expected speed 2, got %f", got)
	}
	if c.Time() != 1 {
		t.Errorf("expected time 1, got %f", c.Time())
	}
}
