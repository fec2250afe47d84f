package sim

import (
	"context"
	"sync"

	"github.com/san-kum/hexbounce/internal/physics"
)

// WorldBuilder returns a fresh world for the given seed.
type WorldBuilder func(seed int64) (*physics.World, error)

// Ensemble runs independent worlds that differ only in their seed.
type Ensemble struct {
	build     WorldBuilder
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// metrics, if non-nil, is called once per run so no Metric is shared
// between goroutines.
func NewEnsemble(build WorldBuilder, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New(w)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
