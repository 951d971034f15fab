package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

var (
	// ErrNoTrack indicates that no track path was configured.
	ErrNoTrack = errors.New("audio: no track configured")

	// ErrBadFrameRate indicates a non-positive frame rate for offline analysis.
	ErrBadFrameRate = errors.New("audio: frame rate must be positive")
)

// Source yields stereo PCM frames in [-1, 1].
type Source interface {
	SampleRate() int
	// ReadFrames fills left and right (same length) and returns the number
	// of frames written. It returns io.EOF once the source is exhausted.
	ReadFrames(left, right []float32) (int, error)
}

// Rewinder is implemented by sources that can restart from the beginning.
type Rewinder interface {
	Rewind() error
}

// MP3 is a Source decoding an MP3 file.
type MP3 struct {
	file *os.File
	dec  *mp3.Decoder
	buf  []byte
}

// OpenMP3 opens and starts decoding the file at path.
func OpenMP3(path string) (*MP3, error) {
	if path == "" {
		return nil, ErrNoTrack
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &MP3{file: f, dec: dec}, nil
}

func (m *MP3) SampleRate() int { return m.dec.SampleRate() }

// Duration is the decoded length of the track in seconds.
func (m *MP3) Duration() float64 {
	// 16-bit stereo
	return float64(m.dec.Length()) / 4 / float64(m.dec.SampleRate())
}

func (m *MP3) ReadFrames(left, right []float32) (int, error) {
	need := len(left) * 4
	if cap(m.buf) < need {
		m.buf = make([]byte, need)
	}
	buf := m.buf[:need]

	n, err := io.ReadFull(m.dec, buf)
	frames := n / 4
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(buf[i*4:]))
		r := int16(binary.LittleEndian.Uint16(buf[i*4+2:]))
		left[i] = float32(l) / 32768
		right[i] = float32(r) / 32768
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return frames, err
}

func (m *MP3) Rewind() error {
	_, err := m.dec.Seek(0, io.SeekStart)
	return err
}

func (m *MP3) Close() error {
	return m.file.Close()
}

// downmix averages two channels into dst.
func downmix(dst, left, right []float32) {
	for i := range dst {
		dst[i] = (left[i] + right[i]) / 2
	}
}
