package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
)

// ParameterSweep runs the same disturbance across a range of one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Force     float64
	Radius    float64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Stability  float64
	PeakEnergy float64
	MaxHeight  float64
	NonFinite  int
}

// RunSweep executes every sweep point concurrently. Each point gets its own
// surface; a centred impulse of Force/Radius fires at t=0.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if sweep.Base == nil {
		sweep.Base = config.DefaultConfig()
	}
	probe := sweep.Base.Params
	if err := probe.SetParam(sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, sweep.NumSteps)
	errs := make([]error, sweep.NumSteps)

	sim.ParallelFor(sweep.NumSteps, 1, func(start, end int) {
		for i := start; i < end; i++ {
			val := sweep.ParamMin + float64(i)*paramStep
			results[i], errs[i] = runSweepPoint(ctx, sweep, val)
		}
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%.4f: %w", sweep.ParamName, results[i].ParamValue, err)
		}
	}
	return results, nil
}

func runSweepPoint(ctx context.Context, sweep *ParameterSweep, val float64) (SweepResult, error) {
	out := SweepResult{ParamValue: val}

	cfg := sweep.Base.Clone()
	if err := cfg.Params.SetParam(sweep.ParamName, val); err != nil {
		return out, err
	}
	center := cfg.Grid.OriginX + cfg.Grid.Width/2
	cfg.Impulses = append(cfg.Impulses, config.ImpulseConfig{X: center, Force: sweep.Force, Radius: sweep.Radius})

	exp, err := experiment.New(cfg, nil, slog.Default())
	if err != nil {
		return out, err
	}
	energy := metrics.NewEnergy()
	stability := metrics.NewStability(metrics.HeightThreshold)
	maxH := metrics.NewMaxHeight()
	nonFinite := metrics.NewNonFinite()
	exp.AddMetrics(energy, stability, maxH, nonFinite)

	if _, err := exp.Run(ctx); err != nil {
		return out, err
	}

	out.Stability = stability.Value()
	out.PeakEnergy = energy.Peak()
	out.MaxHeight = maxH.Value()
	out.NonFinite = int(math.Round(nonFinite.Value()))
	return out, nil
}
