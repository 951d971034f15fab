package batch

import (
	"context"
	"fmt"
	"sync"
)

// Ensemble runs the same recorder over consecutive seeds in parallel.
type Ensemble struct {
	rec       *Recorder
	numRuns   int
	seedStart int64
}

func NewEnsemble(r *Recorder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{rec: r, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order.
func (e *Ensemble) Run(ctx context.Context, frames int) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoRuns, e.numRuns)
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cfg := Config{Frames: frames, Seed: e.seedStart + int64(idx)}
			results[idx], errs[idx] = e.rec.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", e.seedStart+int64(i), err)
		}
	}

	return results, nil
}
