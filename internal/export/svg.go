package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/geom"
	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/pillacela/animaciones/internal/storage"
)

// SVG is a sketch.Surface that records one frame as an SVG document.
type SVG struct {
	sketch.OffsetStack
	sb            strings.Builder
	width, height float64
}

func NewSVG(width, height float64) *SVG {
	s := &SVG{width: width, height: height}
	s.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))
	return s
}

func (s *SVG) FillRect(x, y, w, h float64, c colorful.Color) {
	x, y = s.Apply(x, y)
	s.sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, x, y, w, h, c.Hex()))
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, c colorful.Color) {
	x0, y0 = s.Apply(x0, y0)
	x1, y1 = s.Apply(x1, y1)
	s.sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>
`, x0, y0, x1, y1, c.Hex(), width))
}

func (s *SVG) Circle(cx, cy, r float64, st sketch.Style) {
	cx, cy = s.Apply(cx, cy)
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>
`, cx, cy, r, st.Fill.Hex(), st.Stroke.Hex(), st.LineWidth))
}

func (s *SVG) Rect(x, y, w, h float64, st sketch.Style) {
	x, y = s.Apply(x, y)
	s.sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>
`, x, y, w, h, st.Fill.Hex(), st.Stroke.Hex(), st.LineWidth))
}

// String closes the document. Drawing after String is not supported.
func (s *SVG) String() string {
	return s.sb.String() + "</svg>\n"
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// TrajectoriesToSVG draws the path of every agent across recorded frames.
// A path is split wherever the agent wrapped to the other side of the canvas.
func TrajectoriesToSVG(frames []storage.FrameRecord, width, height float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(frames) == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	n := len(frames[0].Positions)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / float64(n)
		stroke := colorful.Hsv(hue, 0.6, 1).Hex()
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke))

		var prev geom.Vec2
		for f, frame := range frames {
			if i >= len(frame.Positions) {
				break
			}
			p := frame.Positions[i]
			jump := f > 0 && (abs(p.X-prev.X) > width/2 || abs(p.Y-prev.Y) > height/2)
			if f == 0 || jump {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", p.X, p.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
			}
			prev = p
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
