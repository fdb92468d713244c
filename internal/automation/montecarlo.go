package automation

import (
	"context"
	"log/slog"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/experiment"
	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
)

// MonteCarloConfig runs Base under NumTrials different splash seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	SeedStart int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	Seed       int64
	Impulses   int
	MaxHeight  float64
	MeanEnergy float64
	Stable     bool
}

// RunMonteCarlo executes the trials concurrently as a sim.Ensemble.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	factory := func(seed int64) (*sim.Simulator, error) {
		c := base.Clone()
		c.Seed = seed
		exp, err := experiment.New(c, nil, slog.Default())
		if err != nil {
			return nil, err
		}
		exp.AddMetrics(
			metrics.NewMaxHeight(),
			metrics.NewEnergy(),
			metrics.NewStability(metrics.HeightThreshold),
		)
		return exp.GetSimulator(), nil
	}

	results, err := sim.NewEnsemble(factory, cfg.NumTrials, cfg.SeedStart).Run(ctx, experiment.SimConfig(base))
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, r := range results {
		out[i] = MonteCarloResult{
			Seed:       cfg.SeedStart + int64(i),
			Impulses:   r.Impulses,
			MaxHeight:  r.Metrics["max_height"],
			MeanEnergy: r.Metrics["energy"],
			Stable:     r.Metrics["stability"] == 1,
		}
	}
	return out, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
