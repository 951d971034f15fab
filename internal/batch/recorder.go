package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/pillacela/animaciones/internal/metrics"
	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/pillacela/animaciones/internal/storage"
)

var (
	ErrNoFrames = errors.New("batch: frame count must be positive")
	ErrNoRuns   = errors.New("batch: run count must be positive")
)

// InvalidStateError reports an agent whose position stopped being finite.
type InvalidStateError struct {
	Frame int
	Agent int
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("frame %d: agent %d left the finite plane", e.Frame, e.Agent)
}

// Factory builds a simulation for one seed. The returned cleanup releases
// whatever the simulation's spectrum provider holds and may be nil.
type Factory func(seed int64) (*sketch.Simulation, func(), error)

// Observer sees every frame of a run right after it is rendered.
type Observer interface {
	OnFrame(s *sketch.Simulation, b sketch.Bands)
}

type Config struct {
	Frames int
	Seed   int64
}

type Result struct {
	Seed    int64
	Frames  []storage.FrameRecord
	Metrics map[string]float64
}

// Recorder runs simulations headless and captures every frame.
type Recorder struct {
	factory   Factory
	metrics   func() []metrics.Metric
	observers []Observer
}

// New returns a recorder. metricSet is called once per run so concurrent
// runs never share accumulators; nil means metrics.Default.
func New(factory Factory, metricSet func() []metrics.Metric) *Recorder {
	if metricSet == nil {
		metricSet = metrics.Default
	}
	return &Recorder{factory: factory, metrics: metricSet}
}

func (r *Recorder) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Recorder) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoFrames, cfg.Frames)
	}

	sim, cleanup, err := r.factory(cfg.Seed)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	ms := r.metrics()
	result := &Result{
		Seed:   cfg.Seed,
		Frames: make([]storage.FrameRecord, 0, cfg.Frames),
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		bands := sim.Frame(sketch.Discard)

		for _, m := range ms {
			m.Observe(sim, bands)
		}
		for _, obs := range r.observers {
			obs.OnFrame(sim, bands)
		}

		rec := storage.Capture(sim, bands)
		for j, p := range rec.Positions {
			if !p.IsValid() {
				return result, InvalidStateError{Frame: rec.Frame, Agent: j}
			}
		}
		result.Frames = append(result.Frames, rec)
	}

	result.Metrics = metrics.Collect(ms)
	return result, nil
}
