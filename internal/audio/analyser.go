package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pillacela/animaciones/internal/sketch"
)

// Analyser mirrors a browser AnalyserNode with its default settings: a
// Blackman-windowed 2048-point FFT, 0.8 temporal smoothing and a
// [-100, -30] dB range mapped onto bytes.
const (
	FFTSize     = 2048
	BinCount    = FFTSize / 2
	Smoothing   = 0.8
	MinDecibels = -100.0
	MaxDecibels = -30.0
)

// Analyser turns a stream of mono samples into byte frequency data.
// Write may be called from the audio thread while another goroutine
// reads the spectrum.
type Analyser struct {
	mu       sync.Mutex
	ring     []float64
	head     int
	window   []float64
	frame    []float64
	smoothed []float64
	bins     []uint8
}

func NewAnalyser() *Analyser {
	a := &Analyser{
		ring:     make([]float64, FFTSize),
		window:   make([]float64, FFTSize),
		frame:    make([]float64, FFTSize),
		smoothed: make([]float64, BinCount),
		bins:     make([]uint8, BinCount),
	}
	for i := range a.window {
		x := 2 * math.Pi * float64(i) / FFTSize
		a.window[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
	return a
}

// Write appends samples to the analysis window, keeping the newest FFTSize.
func (a *Analyser) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range samples {
		a.ring[a.head] = float64(v)
		a.head = (a.head + 1) % FFTSize
	}
}

// ByteFrequencyData analyses the current window and copies BinCount bytes
// into dst, growing it if needed.
func (a *Analyser) ByteFrequencyData(dst []uint8) []uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.analyse()
	if cap(dst) < BinCount {
		dst = make([]uint8, BinCount)
	}
	dst = dst[:BinCount]
	copy(dst, a.bins)
	return dst
}

// BandEnergies implements sketch.SpectrumProvider.
func (a *Analyser) BandEnergies() (sketch.Bands, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.analyse()
	return SplitBands(a.bins), nil
}

func (a *Analyser) analyse() {
	for i := range a.frame {
		a.frame[i] = a.ring[(a.head+i)%FFTSize] * a.window[i]
	}
	spectrum := fft.FFTReal(a.frame)

	scale := 255 / (MaxDecibels - MinDecibels)
	for k := 0; k < BinCount; k++ {
		mag := cmplx.Abs(spectrum[k]) / FFTSize
		a.smoothed[k] = Smoothing*a.smoothed[k] + (1-Smoothing)*mag

		if a.smoothed[k] <= 0 {
			a.bins[k] = 0
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		v := math.Floor(scale * (db - MinDecibels))
		a.bins[k] = uint8(math.Max(0, math.Min(255, v)))
	}
}

// SplitBands averages the low, mid and high thirds of bins. An empty third
// yields 0.
func SplitBands(bins []uint8) sketch.Bands {
	n := len(bins)
	lo, hi := n/3, 2*n/3
	return sketch.Bands{
		Low:  mean(bins[:lo]),
		Mid:  mean(bins[lo:hi]),
		High: mean(bins[hi:]),
	}
}

func mean(vs []uint8) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vs {
		sum += int(v)
	}
	return float64(sum) / float64(len(vs))
}
