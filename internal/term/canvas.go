package term

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/sketch"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille grid that implements sketch.Surface. Sketch
// coordinates are scaled onto the (Width*2) x (Height*4) sub-pixel grid.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	fg     [][]colorful.Color
	bg     colorful.Color
	scaleX float64
	scaleY float64

	sketch.OffsetStack
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		fg:     make([][]colorful.Color, h),
		scaleX: 1,
		scaleY: 1,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.fg[i] = make([]colorful.Color, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Fit scales a sketch of the given size onto the whole grid.
func (c *Canvas) Fit(width, height float64) {
	if width > 0 {
		c.scaleX = width / float64(c.Width*2)
	}
	if height > 0 {
		c.scaleY = height / float64(c.Height*4)
	}
}

// ToSketch maps a terminal cell to the sketch coordinate at its centre.
func (c *Canvas) ToSketch(col, row int) (float64, float64) {
	return (float64(col)*2 + 1) * c.scaleX, (float64(row)*4 + 2) * c.scaleY
}

// Set lights the sub-pixel (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int, col colorful.Color) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	c.fg[row][cx] = col
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) toSub(x, y float64) (int, int) {
	x, y = c.Apply(x, y)
	return int(math.Floor(x / c.scaleX)), int(math.Floor(y / c.scaleY))
}

// FillRect sets the background colour. Braille cells have no background
// dots, so a fill also clears every cell it covers.
func (c *Canvas) FillRect(x, y, w, h float64, col colorful.Color) {
	x0, y0 := c.toSub(x, y)
	x1, y1 := c.toSub(x+w, y+h)
	c.bg = col
	for row := max(y0/4, 0); row <= min(y1/4, c.Height-1); row++ {
		for cx := max(x0/2, 0); cx <= min(x1/2, c.Width-1); cx++ {
			c.Grid[row][cx] = blank
		}
	}
}

func (c *Canvas) Line(x0, y0, x1, y1, width float64, col colorful.Color) {
	ax, ay := c.toSub(x0, y0)
	bx, by := c.toSub(x1, y1)
	c.DrawLine(ax, ay, bx, by, col)
}

// Circle fills the ellipse the circle becomes under the grid's aspect
// ratio. Tiny circles still light their centre dot.
func (c *Canvas) Circle(cx, cy, r float64, s sketch.Style) {
	px, py := c.toSub(cx, cy)
	rx, ry := r/c.scaleX, r/c.scaleY
	c.Set(px, py, s.Fill)
	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(rx); dx <= int(rx); dx++ {
			nx, ny := float64(dx)/math.Max(rx, 1), float64(dy)/math.Max(ry, 1)
			if nx*nx+ny*ny <= 1 {
				c.Set(px+dx, py+dy, s.Fill)
			}
		}
	}
}

func (c *Canvas) Rect(x, y, w, h float64, s sketch.Style) {
	x0, y0 := c.toSub(x, y)
	x1, y1 := c.toSub(x+w, y+h)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			c.Set(px, py, s.Fill)
		}
	}
}

// String returns the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the grid with each run of same-coloured cells styled by
// lipgloss.
func (c *Canvas) Render() string {
	bg := lipgloss.Color(c.bg.Clamped().Hex())
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.cellColor(i, j) == c.cellColor(i, start) {
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.cellColor(i, start))).
				Background(bg)
			b.WriteString(style.Render(string(row[start:j])))
			start = j
		}
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Canvas) cellColor(row, col int) string {
	if c.Grid[row][col] == blank {
		return c.bg.Clamped().Hex()
	}
	return c.fg[row][col].Clamped().Hex()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
