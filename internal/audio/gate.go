package audio

import (
	"sync/atomic"

	"github.com/pillacela/animaciones/internal/sketch"
)

// Gate pauses an offline provider. While paused it reports silence and
// does not poll the wrapped provider, so a Track keeps its position.
type Gate struct {
	src    sketch.SpectrumProvider
	paused atomic.Bool
}

func NewGate(src sketch.SpectrumProvider) *Gate {
	if src == nil {
		src = Silence{}
	}
	return &Gate{src: src}
}

func (g *Gate) Play()  { g.paused.Store(false) }
func (g *Gate) Pause() { g.paused.Store(true) }

// Toggle flips between playing and paused and returns true when playing.
func (g *Gate) Toggle() bool {
	for {
		cur := g.paused.Load()
		if g.paused.CompareAndSwap(cur, !cur) {
			return cur
		}
	}
}

func (g *Gate) Playing() bool { return !g.paused.Load() }

func (g *Gate) BandEnergies() (sketch.Bands, error) {
	if g.paused.Load() {
		return sketch.Bands{}, nil
	}
	return g.src.BandEnergies()
}
