package sim

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/san-kum/wavesim/internal/wave"
)

func newTestSurface(t *testing.T) *wave.Surface {
	t.Helper()
	s, err := wave.NewSurface(50, 100, nil)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	return s
}

func TestSimulatorRun(t *testing.T) {
	sim := New(newTestSurface(t))

	cfg := Config{Dt: 0.1, Duration: 1.0, Probe: 25, RecordEvery: 1}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Probe) != 11 {
		t.Errorf("expected 11 probe samples, got %d", len(result.Probe))
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if math.Abs(result.Times[10]-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", result.Times[10])
	}
}

func TestSimulatorRecordEvery(t *testing.T) {
	sim := New(newTestSurface(t))

	cfg := Config{Dt: 0.1, Duration: 1.0, RecordEvery: 5}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(result.Frames))
	}
	if len(result.FrameTimes) != len(result.Frames) {
		t.Errorf("frame times %d != frames %d", len(result.FrameTimes), len(result.Frames))
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(newTestSurface(t))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"negative splash rate", Config{Dt: 0.1, Duration: 1.0, Splash: Splash{Rate: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorScheduledImpulses(t *testing.T) {
	surf := newTestSurface(t)
	sim := New(surf)

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
		Impulses: []Impulse{
			{Time: 0.5, X: 50, Force: 5, Radius: 3},
			{Time: 0, X: 5, Force: 5, Radius: 3},
			{Time: 0.3, X: 1e6, Force: 5, Radius: 3},
		},
	}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// the far one is outside the grid
	if result.Impulses != 2 {
		t.Errorf("expected 2 impulses, got %d", result.Impulses)
	}
	if result.Frames[1][surf.WorldXToIndex(5)] <= 0 {
		t.Error("impulse at t=0 should lift its node after one step")
	}
	if result.Frames[5][surf.WorldXToIndex(50)] != 0 {
		t.Error("impulse at t=0.5 fired early")
	}
}

func TestSimulatorSplashDeterministic(t *testing.T) {
	run := func() *Result {
		sim := New(newTestSurface(t))
		cfg := Config{
			Dt:       0.05,
			Duration: 5,
			Seed:     11,
			Splash:   Splash{Rate: 4, MaxForce: 3, MinRadius: 1, MaxRadius: 4},
		}
		r, err := sim.Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return r
	}

	a, b := run(), run()
	if a.Impulses == 0 {
		t.Fatal("expected random splashes")
	}
	if a.Impulses != b.Impulses {
		t.Errorf("impulse counts differ: %d vs %d", a.Impulses, b.Impulses)
	}
	for i := range a.Probe {
		if a.Probe[i] != b.Probe[i] {
			t.Fatalf("probe differs at %d", i)
		}
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(newTestSurface(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Error("expected empty partial result")
	}
}

func TestSimulatorSkippedSteps(t *testing.T) {
	bad := wave.DefaultParams()
	bad.MaxVelocity = 0
	surf, _ := wave.NewSurface(20, 10, wave.ParamFunc(func() wave.Params { return bad }))
	sim := New(surf)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 5 || !errors.Is(result.Errors[0], wave.ErrInvalidParams) {
		t.Errorf("expected 5 ErrInvalidParams, got %v", result.Errors)
	}
}

type testClock struct{ times []float64 }

func (c *testClock) SetTime(t float64) { c.times = append(c.times, t) }

func TestSimulatorClock(t *testing.T) {
	sim := New(newTestSurface(t))
	clk := &testClock{}
	sim.SetClock(clk)

	if _, err := sim.Run(context.Background(), Config{Dt: 0.25, Duration: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(clk.times) != 4 || clk.times[0] != 0 || clk.times[3] != 0.75 {
		t.Errorf("unexpected clock times %v", clk.times)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(r wave.Reader, st wave.StepStats, time float64) {
	t.count++
	t.sum += r.Energy()
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countObserver struct{ n int }

func (c *countObserver) OnStep(r wave.Reader, t float64) { c.n++ }

func TestSimulatorMetrics(t *testing.T) {
	surf := newTestSurface(t)
	surf.AddImpulse(50, 2, 3)
	sim := New(surf)

	metric := &testMetric{}
	obs := &countObserver{}
	sim.AddMetric(metric)
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if v, ok := result.Metrics["test"]; !ok || v <= 0 {
		t.Errorf("metric missing or zero: %v", result.Metrics)
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if obs.n != 10 {
		t.Errorf("expected 10 notifications, got %d", obs.n)
	}
	if result.Stats.Steps != 10 {
		t.Errorf("expected 10 surface steps, got %d", result.Stats.Steps)
	}
}

func TestEnsemble(t *testing.T) {
	var built atomic.Int32
	factory := func(seed int64) (*Simulator, error) {
		built.Add(1)
		s, err := wave.NewSurface(30, 30, nil)
		if err != nil {
			return nil, err
		}
		return New(s), nil
	}

	cfg := Config{Dt: 0.05, Duration: 1, Splash: Splash{Rate: 5, MaxForce: 2, MinRadius: 1, MaxRadius: 2}}
	results, err := NewEnsemble(factory, 4, 100).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 || built.Load() != 4 {
		t.Fatalf("expected 4 results, got %d (built %d)", len(results), built.Load())
	}
	for i, r := range results {
		if r == nil || r.StepsTaken != 20 {
			t.Errorf("run %d incomplete", i)
		}
	}
}
