package metrics

import "github.com/pillacela/animaciones/internal/sketch"

// Metric accumulates a scalar over the frames of a run. Observe is called
// after every frame with the bands that drove it.
type Metric interface {
	Name() string
	Observe(s *sketch.Simulation, b sketch.Bands)
	Value() float64
	Reset()
}

// Default returns a fresh set of the metrics stored with every recorded run.
func Default() []Metric {
	return []Metric{
		NewBandEnergy(Low),
		NewBandEnergy(Mid),
		NewBandEnergy(High),
		NewMeanSpeed(),
		NewSaturation(),
		NewLinkDensity(),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
