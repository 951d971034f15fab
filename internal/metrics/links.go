package metrics

import "github.com/pillacela/animaciones/internal/sketch"

// LinkDensity is the mean fraction of agent pairs close enough to be
// connected by a line.
type LinkDensity struct {
	sum     float64
	samples int
}

func NewLinkDensity() *LinkDensity { return &LinkDensity{} }

func (m *LinkDensity) Name() string { return "link_density" }

func (m *LinkDensity) Observe(s *sketch.Simulation, _ sketch.Bands) {
	pairs, linked := 0, 0
	s.Pairs(func(_, _ int, dist float64) {
		pairs++
		if dist <= sketch.LinkDistance {
			linked++
		}
	})
	if pairs > 0 {
		m.sum += float64(linked) / float64(pairs)
	}
	m.samples++
}

func (m *LinkDensity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *LinkDensity) Reset() {
	m.sum = 0
	m.samples = 0
}
