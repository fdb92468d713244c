package wave

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestSurface_RereadsParamsEveryStep(t *testing.T) {
	p := DefaultParams()
	calls := 0
	src := ParamFunc(func() Params {
		calls++
		return p
	})

	s, err := NewSurface(20, 10, src)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	s.Step(0.02)
	s.Step(0.02)
	if calls != 2 {
		t.Errorf("expected 2 param reads, got %d", calls)
	}

	p.Speed = 0
	phase := s.Phase()
	s.Step(0.02)
	if s.Phase() != phase {
		t.Error("updated speed was not picked up")
	}
}

func TestSurface_Stats(t *testing.T) {
	s, _ := NewSurface(20, 10, nil)
	s.Step(0.02)
	s.Step(0.02)
	s.Step(-1)

	st := s.Stats()
	if st.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", st.Steps)
	}
	if st.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", st.Skipped)
	}
	if math.Abs(st.Time-0.04) > 1e-12 {
		t.Errorf("expected time 0.04, got %f", st.Time)
	}
}

func TestSurface_LogsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, _ := NewSurface(20, 10, nil, WithLogger(logger))
	s.grid.height[4] = math.Inf(1)
	st := s.Step(0.02)

	if st.NonFinite == 0 {
		t.Fatal("expected non-finite values")
	}
	if !strings.Contains(buf.String(), "non-finite values discarded") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
	if s.Stats().NonFinite != st.NonFinite {
		t.Errorf("expected totals %d, got %d", st.NonFinite, s.Stats().NonFinite)
	}
}

func TestSurface_ImpulseUsesMaxVelocity(t *testing.T) {
	p := DefaultParams()
	p.MaxVelocity = 0.5
	s, _ := NewSurface(50, 100, ParamFunc(func() Params { return p }), WithOrigin(-50))

	if s.OriginX() != -50 {
		t.Fatalf("expected origin -50, got %f", s.OriginX())
	}
	s.AddImpulse(0, 100, 3)
	if v := s.SampleSurfaceVelocity(0); v != 0.5 {
		t.Errorf("expected clamp at 0.5, got %f", v)
	}
	if hv := s.SampleHorizontalVelocity(0); hv != 0.5 {
		t.Errorf("expected clamp at 0.5, got %f", hv)
	}
}

func TestSurface_SampleIncludesBaseWave(t *testing.T) {
	p := DefaultParams()
	p.Amplitude = 1
	p.Frequency = 0.5
	s, _ := NewSurface(11, 10, ParamFunc(func() Params { return p }))

	// node 1 sits at x=1: sin(pi/2) = 1
	if h := s.SampleHeight(1); math.Abs(h-1) > 1e-9 {
		t.Errorf("expected 1, got %f", h)
	}
	if s.Height(1) != 0 {
		t.Error("base wave must not be stored in the grid")
	}
}

func TestSurface_Resize(t *testing.T) {
	s, _ := NewSurface(20, 10, nil)
	s.AddImpulse(5, 1, 1)
	if err := s.Resize(40, 20); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if s.Resolution() != 40 || s.Width() != 20 {
		t.Errorf("unexpected shape %d/%f", s.Resolution(), s.Width())
	}
	if s.Energy() != 0 {
		t.Error("resize should discard state")
	}
}

var _ Reader = (*Surface)(nil)
