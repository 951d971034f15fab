package metrics

import "github.com/pillacela/animaciones/internal/sketch"

type Band int

const (
	Low Band = iota
	Mid
	High
)

func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Mid:
		return "mid"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

func (b Band) of(bands sketch.Bands) float64 {
	switch b {
	case Low:
		return bands.Low
	case Mid:
		return bands.Mid
	default:
		return bands.High
	}
}

// BandEnergy is the mean energy of one band over a run.
type BandEnergy struct {
	band    Band
	sum     float64
	samples int
}

func NewBandEnergy(b Band) *BandEnergy {
	return &BandEnergy{band: b}
}

func (e *BandEnergy) Name() string { return "mean_" + e.band.String() }

func (e *BandEnergy) Observe(_ *sketch.Simulation, b sketch.Bands) {
	e.sum += e.band.of(b)
	e.samples++
}

func (e *BandEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *BandEnergy) Reset() {
	e.sum = 0
	e.samples = 0
}
