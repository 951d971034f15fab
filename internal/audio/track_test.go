package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toneSource emits a finite sine tone on both channels.
type toneSource struct {
	rate    int
	freq    float64
	total   int
	pos     int
	rewinds int
	failAt  int
	// fail every read once the source has been rewound
	failRewound bool
}

func (s *toneSource) SampleRate() int { return s.rate }

func (s *toneSource) ReadFrames(left, right []float32) (int, error) {
	if (s.failAt > 0 && s.pos >= s.failAt) || (s.failRewound && s.rewinds > 0) {
		return 0, errors.New("corrupt frame")
	}
	n := 0
	for n < len(left) && s.pos < s.total {
		v := float32(0.8 * math.Sin(2*math.Pi*s.freq*float64(s.pos)/float64(s.rate)))
		left[n], right[n] = v, v
		n++
		s.pos++
	}
	if n < len(left) {
		return n, io.EOF
	}
	return n, nil
}

func (s *toneSource) Rewind() error {
	s.pos = 0
	s.rewinds++
	return nil
}

func TestNewTrackFrameRate(t *testing.T) {
	_, err := NewTrack(&toneSource{rate: 44100}, 0, false)
	require.ErrorIs(t, err, ErrBadFrameRate)
}

func TestTrackConsumesOneFramePerCall(t *testing.T) {
	src := &toneSource{rate: 44100, freq: 300, total: 44100}
	tr, err := NewTrack(src, 60, false)
	require.NoError(t, err)

	var b sketch.Bands
	for i := 0; i < 10; i++ {
		b, err = tr.BandEnergies()
		require.NoError(t, err)
	}
	assert.Equal(t, 10*(44100/60), src.pos)
	assert.Greater(t, b.Low, b.High)
	assert.False(t, tr.Ended())
}

func TestTrackEndsWithSilence(t *testing.T) {
	src := &toneSource{rate: 1000, freq: 50, total: 50}
	tr, err := NewTrack(src, 10, false)
	require.NoError(t, err)

	_, err = tr.BandEnergies()
	require.NoError(t, err)
	assert.True(t, tr.Ended())

	var b sketch.Bands
	for i := 0; i < 300; i++ {
		b, err = tr.BandEnergies()
		require.NoError(t, err)
	}
	assert.Equal(t, sketch.Bands{}, b)
}

func TestTrackLoops(t *testing.T) {
	src := &toneSource{rate: 1000, freq: 50, total: 150}
	tr, err := NewTrack(src, 10, true)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = tr.BandEnergies()
		require.NoError(t, err)
	}
	assert.False(t, tr.Ended())
	assert.Equal(t, 3, src.rewinds)
}

func TestTrackDecodeError(t *testing.T) {
	src := &toneSource{rate: 1000, freq: 50, total: 1000, failAt: 100}
	tr, err := NewTrack(src, 10, false)
	require.NoError(t, err)

	_, err = tr.BandEnergies()
	require.NoError(t, err)
	_, err = tr.BandEnergies()
	assert.Error(t, err)
}

func TestOpenMP3Errors(t *testing.T) {
	_, err := OpenMP3("")
	assert.ErrorIs(t, err, ErrNoTrack)

	_, err = OpenMP3("testdata/does-not-exist.mp3")
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	b, err := Silence{}.BandEnergies()
	require.NoError(t, err)
	assert.Equal(t, sketch.Bands{}, b)

	want := sketch.Bands{Low: 1, Mid: 2, High: 3}
	b, err = Constant(want).BandEnergies()
	require.NoError(t, err)
	assert.Equal(t, want, b)
}

func TestPlayerProcessWithoutDevice(t *testing.T) {
	src := &toneSource{rate: 44100, freq: 440, total: 4096}
	p := NewPlayer(src, false, nil)
	p.Play()

	out := [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
	p.process(out)
	assert.Equal(t, BufferSize, src.pos)
	assert.NotZero(t, out[0][10])

	assert.False(t, p.Toggle())
	assert.False(t, p.Playing())
	p.process(out)
	assert.Equal(t, BufferSize, src.pos, "paused player must not consume the source")
	for _, v := range out[0] {
		require.Zero(t, v)
	}

	p.Play()
	for i := 0; i < 4; i++ {
		p.process(out)
	}
	assert.True(t, p.Ended())
	assert.NoError(t, p.Close())
}

func TestPlayerStopsOnDecodeErrorAfterRewind(t *testing.T) {
	src := &toneSource{rate: 44100, freq: 440, total: 100, failRewound: true}
	p := NewPlayer(src, true, nil)
	p.Play()

	out := [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
	p.process(out)

	assert.Equal(t, 1, src.rewinds)
	assert.True(t, p.Ended(), "a failed read after rewind must end playback")
	assert.NotZero(t, out[0][99], "frames read before the rewind are kept")
	assert.Zero(t, out[0][100])

	p.process(out)
	assert.Equal(t, 1, src.rewinds, "ended player must not keep rewinding")
}
