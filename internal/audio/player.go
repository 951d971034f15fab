package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/hashicorp/go-hclog"
	"github.com/pillacela/animaciones/internal/sketch"
)

const BufferSize = 1024

// Player plays a Source on the default output device and analyses what it
// plays. Play/Pause only gate the audio; the analyser keeps receiving
// silence while paused so the bands decay to zero.
type Player struct {
	src      Source
	analyser *Analyser
	stream   *portaudio.Stream
	logger   hclog.Logger
	loop     bool

	playing atomic.Bool
	ended   atomic.Bool
	active  bool

	// owned by the audio callback
	mono []float32

	closeOnce sync.Once
}

func NewPlayer(src Source, loop bool, logger hclog.Logger) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Player{
		src:      src,
		analyser: NewAnalyser(),
		logger:   logger,
		loop:     loop,
		mono:     make([]float32, BufferSize),
	}
}

// Start opens an output-only stream and begins playback.
func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(p.src.SampleRate()), BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open output stream: %w", err)
	}
	p.playing.Store(true)
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start output stream: %w", err)
	}

	p.stream = stream
	p.active = true
	p.logger.Info("audio started", "sample_rate", p.src.SampleRate(), "buffer", BufferSize)
	return nil
}

// Close stops the stream and releases the device and the source.
func (p *Player) Close() error {
	var errs []error
	p.closeOnce.Do(func() {
		if p.stream != nil {
			errs = append(errs, p.stream.Stop(), p.stream.Close())
		}
		if p.active {
			errs = append(errs, portaudio.Terminate())
		}
		if c, ok := p.src.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
		p.active = false
	})
	return errors.Join(errs...)
}

func (p *Player) Play()  { p.playing.Store(true) }
func (p *Player) Pause() { p.playing.Store(false) }

// Toggle flips between playing and paused and returns the new state.
func (p *Player) Toggle() bool {
	for {
		cur := p.playing.Load()
		if p.playing.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

func (p *Player) Playing() bool { return p.playing.Load() }

func (p *Player) Ended() bool { return p.ended.Load() }

func (p *Player) BandEnergies() (sketch.Bands, error) {
	return p.analyser.BandEnergies()
}

func (p *Player) process(out [][]float32) {
	left, right := out[0], out[1]
	n := 0
	if p.playing.Load() && !p.ended.Load() {
		n = p.read(left, right)
	}
	for i := n; i < len(left); i++ {
		left[i], right[i] = 0, 0
	}

	if cap(p.mono) < len(left) {
		p.mono = make([]float32, len(left))
	}
	mono := p.mono[:len(left)]
	downmix(mono, left, right)
	p.analyser.Write(mono)
}

func (p *Player) read(left, right []float32) int {
	n, err := p.src.ReadFrames(left, right)
	if err == nil {
		return n
	}
	if !errors.Is(err, io.EOF) {
		p.logger.Error("decode failed, stopping playback", "error", err)
		p.ended.Store(true)
		return n
	}

	rw, ok := p.src.(Rewinder)
	if !p.loop || !ok {
		p.logger.Info("track finished")
		p.ended.Store(true)
		return n
	}
	if err := rw.Rewind(); err != nil {
		p.logger.Error("rewind failed", "error", err)
		p.ended.Store(true)
		return n
	}
	m, err := p.src.ReadFrames(left[n:], right[n:])
	if err != nil && !errors.Is(err, io.EOF) {
		p.logger.Error("decode failed after rewind, stopping playback", "error", err)
		p.ended.Store(true)
	}
	return n + m
}
