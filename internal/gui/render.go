package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/sketch"
)

const ringSegments = 48

// Surface draws sketch frames with raylib. Must be used between
// rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	sketch.OffsetStack
}

func toColor(c colorful.Color) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}

func vec(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x), float32(y))
}

func (s *Surface) FillRect(x, y, w, h float64, c colorful.Color) {
	x, y = s.Apply(x, y)
	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), toColor(c))
}

func (s *Surface) Line(x0, y0, x1, y1, width float64, c colorful.Color) {
	x0, y0 = s.Apply(x0, y0)
	x1, y1 = s.Apply(x1, y1)
	rl.DrawLineEx(vec(x0, y0), vec(x1, y1), float32(width), toColor(c))
}

// Circle fills the disc and strokes an outline centred on its edge,
// like a canvas arc stroke.
func (s *Surface) Circle(cx, cy, r float64, st sketch.Style) {
	cx, cy = s.Apply(cx, cy)
	center := vec(cx, cy)
	half := float32(st.LineWidth / 2)

	rl.DrawCircleV(center, float32(r), toColor(st.Fill))
	rl.DrawRing(center, float32(r)-half, float32(r)+half, 0, 360, ringSegments, toColor(st.Stroke))
}

func (s *Surface) Rect(x, y, w, h float64, st sketch.Style) {
	x, y = s.Apply(x, y)
	lw := float32(st.LineWidth)

	rl.DrawRectangleRec(rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)), toColor(st.Fill))
	outline := rl.NewRectangle(float32(x)-lw/2, float32(y)-lw/2, float32(w)+lw, float32(h)+lw)
	rl.DrawRectangleLinesEx(outline, lw, toColor(st.Stroke))
}
