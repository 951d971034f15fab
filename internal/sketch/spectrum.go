package sketch

import "math"

// Bands holds the mean energy of the low, mid and high thirds of the
// spectrum. Each value is nominally in [0, 255].
type Bands struct {
	Low, Mid, High float64
}

// sanitize maps NaN and infinite readings to zero.
func (b Bands) sanitize() Bands {
	fix := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	return Bands{Low: fix(b.Low), Mid: fix(b.Mid), High: fix(b.High)}
}

// SpectrumProvider yields the band energies for the current frame.
// It is queried exactly once per frame.
type SpectrumProvider interface {
	BandEnergies() (Bands, error)
}
