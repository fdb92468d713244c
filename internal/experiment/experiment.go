package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/storage"
	"github.com/san-kum/wavesim/internal/wave"
	"github.com/san-kum/wavesim/internal/weather"
)

// Experiment wires a config into a surface, its weather clock and a runner.
type Experiment struct {
	cfg       *config.Config
	surface   *wave.Surface
	clock     *weather.Clock
	simulator *sim.Simulator
}

// New validates cfg and builds the surface. A nil src holds cfg.Params for
// the whole run.
func New(cfg *config.Config, src weather.Source, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = weather.Static(cfg.Params)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clock := weather.NewClock(src)
	surf, err := wave.NewSurface(cfg.Grid.Resolution, cfg.Grid.Width, clock,
		wave.WithLogger(logger),
		wave.WithOrigin(cfg.Grid.OriginX),
	)
	if err != nil {
		return nil, fmt.Errorf("build surface: %w", err)
	}

	s := sim.New(surf)
	s.SetClock(clock)

	return &Experiment{
		cfg:       cfg,
		surface:   surf,
		clock:     clock,
		simulator: s,
	}, nil
}

func (e *Experiment) AddMetrics(ms ...sim.Metric) {
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Surface() *wave.Surface { return e.surface }
func (e *Experiment) Config() *config.Config { return e.cfg }

// Metadata describes this experiment for the run store.
func (e *Experiment) Metadata(preset string) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:     preset,
		Seed:       e.cfg.Seed,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Resolution: e.cfg.Grid.Resolution,
		Width:      e.cfg.Grid.Width,
		OriginX:    e.cfg.Grid.OriginX,
		Probe:      e.cfg.Probe,
		Params:     e.clock.Params(),
	}
}

// SimConfig converts the file-level config into runner settings.
func SimConfig(cfg *config.Config) sim.Config {
	impulses := make([]sim.Impulse, len(cfg.Impulses))
	for i, imp := range cfg.Impulses {
		impulses[i] = sim.Impulse{Time: imp.Time, X: imp.X, Force: imp.Force, Radius: imp.Radius}
	}
	return sim.Config{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Seed:        cfg.Seed,
		Probe:       cfg.Probe,
		RecordEvery: cfg.RecordEvery,
		Impulses:    impulses,
		Splash: sim.Splash{
			Rate:      cfg.Splash.Rate,
			MaxForce:  cfg.Splash.MaxForce,
			MinRadius: cfg.Splash.MinRadius,
			MaxRadius: cfg.Splash.MaxRadius,
		},
	}
}
