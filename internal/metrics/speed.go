package metrics

import (
	"math"

	"github.com/pillacela/animaciones/internal/sketch"
)

// components within this of the clamp count as saturated
const saturationEps = 1e-9

type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(s *sketch.Simulation, _ sketch.Bands) {
	m.sum += s.MeanSpeed()
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// Saturation is the fraction of agent-frames with a velocity component
// pinned at MaxSpeed.
type Saturation struct {
	clamped int
	samples int
}

func NewSaturation() *Saturation { return &Saturation{} }

func (m *Saturation) Name() string { return "saturation" }

func (m *Saturation) Observe(s *sketch.Simulation, _ sketch.Bands) {
	for _, a := range s.Agents() {
		m.samples++
		if math.Abs(a.Vel.X) >= sketch.MaxSpeed-saturationEps || math.Abs(a.Vel.Y) >= sketch.MaxSpeed-saturationEps {
			m.clamped++
		}
	}
}

func (m *Saturation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.clamped) / float64(m.samples)
}

func (m *Saturation) Reset() {
	m.clamped = 0
	m.samples = 0
}
