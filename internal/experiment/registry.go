package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/sim"
)

// Registry maps metric names to constructors so runs can select them by
// name.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_growth"] = func() sim.Metric { return metrics.NewEnergyGrowth() }
	r.metrics["max_height"] = func() sim.Metric { return metrics.NewMaxHeight() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(metrics.HeightThreshold) }
	r.metrics["non_finite"] = func() sim.Metric { return metrics.NewNonFinite() }
	r.metrics["clamp_rate"] = func() sim.Metric { return metrics.NewClampRate() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
