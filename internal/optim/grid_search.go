// Package optim searches world parameters for the best value of a run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hexbounce/internal/physics"
	"github.com/san-kum/hexbounce/internal/sim"
)

// Builder returns a fresh world and the metrics to observe on it.
type Builder func() (*physics.World, []sim.Metric, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination of parameter values and returns the one
// with the lowest (or highest) metricName. Combinations rejected by
// SetParam are skipped; ctx cancellation stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	build Builder,
	cfg sim.Config,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("got %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, cfg, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no valid combination produced %s", metricName)
	}

	return bestParams, best, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.Maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	cfg sim.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		w, ms, err := build()
		if err != nil {
			return err
		}
		for k, v := range current {
			if err := w.SetParam(k, v); err != nil {
				return nil
			}
		}

		s := sim.New(w)
		for _, m := range ms {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, cfg)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %s not observed", metricName)
		}
		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, cfg, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
