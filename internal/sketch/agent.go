package sketch

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/geom"
)

const (
	RepelRadius  = 50.0
	RepelForce   = 0.5
	MouseForce   = 0.1
	MaxSpeed     = 2.0
	MinRadius    = 4.0
	MaxRadius    = 12.0
	OutlineWidth = 2.0

	// energyScale turns a 0-255 band energy into a velocity multiplier;
	// 100 leaves the velocity unchanged.
	energyScale = 0.01
)

type Shape int

const (
	Circle Shape = iota
	Square
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

type Agent struct {
	Pos    geom.Vec2
	Vel    geom.Vec2
	Radius float64
	Shape  Shape
	Color  colorful.Color
}

// NewAgent places an agent at pos with a random velocity in [-1, 1] per axis,
// a radius in [4, 12), a random shape and a random colour.
func NewAgent(pos geom.Vec2, rng *rand.Rand) *Agent {
	a := &Agent{
		Pos: pos,
		Vel: geom.V(rng.Float64()*2-1, rng.Float64()*2-1),
	}
	a.Radius = MinRadius + rng.Float64()*(MaxRadius-MinRadius)
	a.Shape = Square
	if rng.Float64() > 0.5 {
		a.Shape = Circle
	}
	a.Color = colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
	return a
}

// Update advances the agent by one frame.
func (a *Agent) Update(b Bands, agents []*Agent, mouse geom.Vec2) {
	// Bass scales x and mids scale y. This compounds every frame, so long
	// quiet passages freeze the agent and loud ones saturate the clamp below.
	// Kept as the sketch always behaved, not as a stable control law.
	a.Vel.X *= b.Low * energyScale
	a.Vel.Y *= b.Mid * energyScale

	a.Color = RGB255(math.Min(b.High, 255), math.Min(b.Mid, 255), 255)

	for _, other := range agents {
		if other == a {
			continue
		}
		if a.Pos.Distance(other.Pos) < RepelRadius {
			a.Vel = a.Vel.Add(other.Pos.Heading(a.Pos).Scale(RepelForce))
		}
	}

	a.Vel = a.Vel.Add(a.Pos.Heading(mouse).Scale(MouseForce))

	a.Vel.X = geom.Clamp(a.Vel.X, -MaxSpeed, MaxSpeed)
	a.Vel.Y = geom.Clamp(a.Vel.Y, -MaxSpeed, MaxSpeed)

	a.Pos = a.Pos.Add(a.Vel)
}

// Wrap teleports the agent to the opposite edge once it leaves the canvas,
// keeping Pos inside [0, width) x [0, height).
func (a *Agent) Wrap(width, height float64) {
	a.Pos.X = wrapAxis(a.Pos.X, width)
	a.Pos.Y = wrapAxis(a.Pos.Y, height)
}

func wrapAxis(v, size float64) float64 {
	if v >= size {
		return 0
	}
	if v < 0 {
		return math.Nextafter(size, 0)
	}
	return v
}

// Draw renders the agent's shape centred on its position with a white outline.
func (a *Agent) Draw(s Surface) {
	style := Style{Fill: a.Color, Stroke: White, LineWidth: OutlineWidth}

	s.Save()
	s.Translate(a.Pos.X, a.Pos.Y)
	switch a.Shape {
	case Circle:
		s.Circle(0, 0, a.Radius, style)
	case Square:
		s.Rect(-a.Radius/2, -a.Radius/2, a.Radius, a.Radius, style)
	default:
		panic(fmt.Sprintf("sketch: cannot draw %v", a.Shape))
	}
	s.Restore()
}
