package sketch_test

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/sketch"
)

type call struct {
	op   string
	args []float64
	fill colorful.Color
	line float64
}

// recorder is a Surface that keeps every call for inspection.
type recorder struct {
	calls []call
	depth int
}

func (r *recorder) Save() {
	r.depth++
	r.calls = append(r.calls, call{op: "save"})
}

func (r *recorder) Restore() {
	r.depth--
	r.calls = append(r.calls, call{op: "restore"})
}

func (r *recorder) Translate(x, y float64) {
	r.calls = append(r.calls, call{op: "translate", args: []float64{x, y}})
}

func (r *recorder) FillRect(x, y, w, h float64, c colorful.Color) {
	r.calls = append(r.calls, call{op: "fillrect", args: []float64{x, y, w, h}, fill: c})
}

func (r *recorder) Line(x0, y0, x1, y1, width float64, c colorful.Color) {
	r.calls = append(r.calls, call{op: "line", args: []float64{x0, y0, x1, y1}, fill: c, line: width})
}

func (r *recorder) Circle(cx, cy, rad float64, s sketch.Style) {
	r.calls = append(r.calls, call{op: "circle", args: []float64{cx, cy, rad}, fill: s.Fill, line: s.LineWidth})
}

func (r *recorder) Rect(x, y, w, h float64, s sketch.Style) {
	r.calls = append(r.calls, call{op: "rect", args: []float64{x, y, w, h}, fill: s.Fill, line: s.LineWidth})
}

func (r *recorder) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type fixedSpectrum struct {
	bands sketch.Bands
}

func (f fixedSpectrum) BandEnergies() (sketch.Bands, error) { return f.bands, nil }

// flakySpectrum succeeds for the first ok calls, then fails.
type flakySpectrum struct {
	bands sketch.Bands
	ok    int
	calls int
}

func (f *flakySpectrum) BandEnergies() (sketch.Bands, error) {
	f.calls++
	if f.calls > f.ok {
		return sketch.Bands{}, errors.New("device lost")
	}
	return f.bands, nil
}
