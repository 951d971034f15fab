package audio

import "github.com/pillacela/animaciones/internal/sketch"

// Silence is the fallback provider when no track can be played.
type Silence struct{}

func (Silence) BandEnergies() (sketch.Bands, error) { return sketch.Bands{}, nil }

// Constant always reports the same band energies.
type Constant sketch.Bands

func (c Constant) BandEnergies() (sketch.Bands, error) { return sketch.Bands(c), nil }
