package raster

import (
	"image"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Canvas renders frames off-screen through an HTML5-style canvas API, so
// Save/Translate/Restore map one to one.
type Canvas struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
}

func New(width, height int) *Canvas {
	backend := softwarebackend.New(width, height)
	return &Canvas{backend: backend, cv: canvas.New(backend)}
}

func (c *Canvas) Save() { c.cv.Save() }

func (c *Canvas) Restore() { c.cv.Restore() }

func (c *Canvas) Translate(x, y float64) { c.cv.Translate(x, y) }

func (c *Canvas) FillRect(x, y, w, h float64, col colorful.Color) {
	c.cv.SetFillStyle(col.Hex())
	c.cv.FillRect(x, y, w, h)
}

func (c *Canvas) Line(x0, y0, x1, y1, width float64, col colorful.Color) {
	c.cv.SetLineWidth(width)
	c.cv.SetStrokeStyle(col.Hex())
	c.cv.BeginPath()
	c.cv.MoveTo(x0, y0)
	c.cv.LineTo(x1, y1)
	c.cv.Stroke()
}

func (c *Canvas) Circle(cx, cy, r float64, s sketch.Style) {
	c.cv.BeginPath()
	c.cv.Arc(cx, cy, r, 0, math.Pi*2, false)
	c.paint(s)
}

func (c *Canvas) Rect(x, y, w, h float64, s sketch.Style) {
	c.cv.BeginPath()
	c.cv.Rect(x, y, w, h)
	c.paint(s)
}

func (c *Canvas) paint(s sketch.Style) {
	c.cv.SetFillStyle(s.Fill.Hex())
	c.cv.Fill()
	c.cv.SetLineWidth(s.LineWidth)
	c.cv.SetStrokeStyle(s.Stroke.Hex())
	c.cv.Stroke()
}

func (c *Canvas) Image() *image.RGBA { return c.backend.Image }

func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.backend.Image)
}
