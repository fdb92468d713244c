package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wavesim/internal/experiment"
)

// GridSearch tries every combination of the candidate values and keeps the
// one with the lowest score.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseRanges turns name -> candidates into parallel slices in name order.
func ParseRanges(spec map[string][]float64) *GridSearch {
	names := make([]string, 0, len(spec))
	for k := range spec {
		names = append(names, k)
	}
	sort.Strings(names)
	ranges := make([][]float64, len(names))
	for i, n := range names {
		ranges[i] = spec[n]
	}
	return NewGridSearch(names, ranges)
}

// Objective scores a finished run; lower is better.
type Objective func(metrics map[string]float64) float64

// Minimize returns the named metric as-is.
func Minimize(metric string) Objective {
	return func(m map[string]float64) float64 { return m[metric] }
}

// Maximize negates the named metric.
func Maximize(metric string) Objective {
	return func(m map[string]float64) float64 { return -m[metric] }
}

// Search runs one experiment per combination. Combinations whose
// experiment cannot be built or run are skipped; it fails only if none
// succeed.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no combination completed")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val := objective(result.Metrics)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams)
	}
}
