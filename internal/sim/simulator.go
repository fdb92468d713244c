package sim

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/wavesim/internal/wave"
)

type Simulator struct {
	surface   *wave.Surface
	clock     Clock
	metrics   []Metric
	observers []Observer
}

func New(surface *wave.Surface) *Simulator {
	return &Simulator{
		surface:   surface,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetClock(c Clock)       { s.clock = c }
func (s *Simulator) Surface() *wave.Surface { return s.surface }

// Run steps the surface at a fixed dt for cfg.Duration. Scheduled impulses
// fire on the first tick whose start time reaches them. A canceled context
// returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Frames:        make([][]float64, 0, steps/every+1),
		FrameTimes:    make([]float64, 0, steps/every+1),
		Probe:         make([]float64, 0, steps+1),
		ProbeVelocity: make([]float64, 0, steps+1),
		Times:         make([]float64, 0, steps+1),
		Metrics:       make(map[string]float64),
		Errors:        make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	pending := append([]Impulse(nil), cfg.Impulses...)
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Time < pending[j].Time })
	rng := rand.New(rand.NewSource(cfg.Seed))

	t := 0.0
	dt := cfg.Dt
	s.record(result, cfg.Probe, t, true)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return s.finish(result), ctx.Err()
		default:
		}

		if s.clock != nil {
			s.clock.SetTime(t)
		}

		for len(pending) > 0 && pending[0].Time <= t+dt/2 {
			imp := pending[0]
			pending = pending[1:]
			if s.surface.AddImpulse(imp.X, imp.Force, imp.Radius) > 0 {
				result.Impulses++
			}
		}
		if s.splash(rng, cfg.Splash, dt) {
			result.Impulses++
		}

		st := s.surface.Step(dt)
		if st.Skipped {
			result.Errors = append(result.Errors, &wave.StepError{Step: i, Time: t, Wrapped: wave.ErrInvalidParams})
			continue
		}
		if st.NonFinite > 0 {
			result.Errors = append(result.Errors, &wave.StepError{Step: i, Time: t, Wrapped: wave.ErrNonFinite})
		}

		t += dt
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(s.surface, st, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.surface, t)
		}

		s.record(result, cfg.Probe, t, result.StepsTaken%every == 0)
	}

	return s.finish(result), nil
}

func (s *Simulator) record(r *Result, probe, t float64, frame bool) {
	r.Times = append(r.Times, t)
	r.Probe = append(r.Probe, s.surface.SampleHeight(probe))
	r.ProbeVelocity = append(r.ProbeVelocity, s.surface.SampleSurfaceVelocity(probe))
	if frame {
		r.Frames = append(r.Frames, s.surface.Heights(nil))
		r.FrameTimes = append(r.FrameTimes, t)
	}
}

func (s *Simulator) finish(r *Result) *Result {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	r.Stats = s.surface.Stats()
	return r
}

// splash fires at most one random impulse per tick with probability
// Rate*dt.
func (s *Simulator) splash(rng *rand.Rand, sp Splash, dt float64) bool {
	if sp.Rate <= 0 || rng.Float64() >= sp.Rate*dt {
		return false
	}
	x := s.surface.OriginX() + rng.Float64()*s.surface.Width()
	force := (2*rng.Float64() - 1) * sp.MaxForce
	radius := sp.MinRadius + rng.Float64()*(sp.MaxRadius-sp.MinRadius)
	return s.surface.AddImpulse(x, force, radius) > 0
}
