package sketch

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/geom"
)

// Style describes how a closed shape is painted: filled first, then stroked.
type Style struct {
	Fill      colorful.Color
	Stroke    colorful.Color
	LineWidth float64
}

// Surface is the immediate-mode 2D drawing API a frame is rendered into.
// Coordinates are canvas pixels; Translate shifts the origin until the
// matching Restore.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	FillRect(x, y, w, h float64, c colorful.Color)
	Line(x0, y0, x1, y1, width float64, c colorful.Color)
	Circle(cx, cy, r float64, s Style)
	Rect(x, y, w, h float64, s Style)
}

// Discard is a Surface that draws nothing. It is used for headless runs.
var Discard Surface = discard{}

type discard struct{}

func (discard) Save() {}

func (discard) Restore() {}

func (discard) Translate(x, y float64) {}

func (discard) FillRect(x, y, w, h float64, c colorful.Color) {}

func (discard) Line(x0, y0, x1, y1, w float64, c colorful.Color) {}

func (discard) Circle(cx, cy, r float64, s Style) {}

func (discard) Rect(x, y, w, h float64, s Style) {}

// RGB255 builds a colour from 0-255 channel values.
func RGB255(r, g, b float64) colorful.Color {
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}
}

var White = colorful.Color{R: 1, G: 1, B: 1}

// OffsetStack tracks Save/Translate/Restore for backends that only take
// absolute coordinates. A Restore without a matching Save is ignored.
type OffsetStack struct {
	cur   geom.Vec2
	saved []geom.Vec2
}

func (o *OffsetStack) Save() { o.saved = append(o.saved, o.cur) }

func (o *OffsetStack) Restore() {
	if len(o.saved) == 0 {
		return
	}
	o.cur = o.saved[len(o.saved)-1]
	o.saved = o.saved[:len(o.saved)-1]
}

func (o *OffsetStack) Translate(x, y float64) { o.cur = o.cur.Add(geom.V(x, y)) }

// Apply maps local coordinates to absolute ones.
func (o *OffsetStack) Apply(x, y float64) (float64, float64) {
	return x + o.cur.X, y + o.cur.Y
}
