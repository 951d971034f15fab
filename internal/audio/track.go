package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/pillacela/animaciones/internal/sketch"
)

// Track analyses a Source without an audio device. Every BandEnergies call
// consumes one frame worth of samples, so headless runs are reproducible.
type Track struct {
	src      Source
	analyser *Analyser
	loop     bool
	ended    bool

	left, right, mono []float32
}

// NewTrack prepares offline analysis of src at fps frames per second.
func NewTrack(src Source, fps int, loop bool) (*Track, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadFrameRate, fps)
	}
	n := src.SampleRate() / fps
	if n < 1 {
		n = 1
	}
	return &Track{
		src:      src,
		analyser: NewAnalyser(),
		loop:     loop,
		left:     make([]float32, n),
		right:    make([]float32, n),
		mono:     make([]float32, n),
	}, nil
}

// Ended reports whether the source ran out and looping is off.
func (t *Track) Ended() bool { return t.ended }

func (t *Track) BandEnergies() (sketch.Bands, error) {
	n := 0
	if !t.ended {
		var err error
		n, err = t.fill()
		if err != nil {
			return sketch.Bands{}, err
		}
	}
	for i := n; i < len(t.left); i++ {
		t.left[i], t.right[i] = 0, 0
	}
	downmix(t.mono, t.left, t.right)
	t.analyser.Write(t.mono)
	return t.analyser.BandEnergies()
}

func (t *Track) fill() (int, error) {
	n, err := t.src.ReadFrames(t.left, t.right)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, io.EOF) {
		return n, err
	}
	rw, ok := t.src.(Rewinder)
	if !t.loop || !ok {
		t.ended = true
		return n, nil
	}
	if err := rw.Rewind(); err != nil {
		return n, fmt.Errorf("rewind track: %w", err)
	}
	m, err := t.src.ReadFrames(t.left[n:], t.right[n:])
	if err != nil && !errors.Is(err, io.EOF) {
		return n + m, err
	}
	return n + m, nil
}
