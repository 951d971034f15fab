package sketch_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pillacela/animaciones/internal/geom"
	"github.com/pillacela/animaciones/internal/sketch"
)

var _ = Describe("Agent", func() {
	var silent sketch.Bands

	Describe("NewAgent", func() {
		It("draws attributes from the documented ranges", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				a := sketch.NewAgent(geom.V(1, 2), rng)
				Expect(a.Radius).To(BeNumerically(">=", sketch.MinRadius))
				Expect(a.Radius).To(BeNumerically("<", sketch.MaxRadius))
				Expect(math.Abs(a.Vel.X)).To(BeNumerically("<=", 1))
				Expect(math.Abs(a.Vel.Y)).To(BeNumerically("<=", 1))
				Expect(a.Shape).To(BeElementOf(sketch.Circle, sketch.Square))
				Expect(a.Pos).To(Equal(geom.V(1, 2)))
			}
		})
	})

	Describe("Update", func() {
		It("is attracted towards the mouse", func() {
			a := &sketch.Agent{Pos: geom.V(100, 0)}
			a.Update(silent, []*sketch.Agent{a}, geom.V(0, 0))

			Expect(a.Vel.X).To(BeNumerically("~", -sketch.MouseForce, 1e-12))
			Expect(a.Vel.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(a.Pos.X).To(BeNumerically("<", 100))
		})

		It("applies band damping before the steering forces", func() {
			a := &sketch.Agent{Pos: geom.V(0, 0), Vel: geom.V(1.5, -1.5)}
			a.Update(silent, []*sketch.Agent{a}, geom.V(0, 300))

			Expect(a.Vel.X).To(BeNumerically("~", 0, 1e-12))
			Expect(a.Vel.Y).To(BeNumerically("~", sketch.MouseForce, 1e-12))
		})

		It("scales velocity by band energy", func() {
			a := &sketch.Agent{Pos: geom.V(0, 0), Vel: geom.V(1, 1)}
			a.Update(sketch.Bands{Low: 150, Mid: 50}, []*sketch.Agent{a}, geom.V(0, 0))

			// coincident mouse pushes along +x
			Expect(a.Vel.X).To(BeNumerically("~", 1.5+sketch.MouseForce, 1e-12))
			Expect(a.Vel.Y).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("recolours from the high and mid bands", func() {
			a := &sketch.Agent{}
			a.Update(sketch.Bands{Low: 10, Mid: 120, High: 400}, []*sketch.Agent{a}, geom.V(0, 0))

			Expect(a.Color.R).To(BeNumerically("~", 1, 1e-12))
			Expect(a.Color.G).To(BeNumerically("~", 120.0/255, 1e-12))
			Expect(a.Color.B).To(BeNumerically("~", 1, 1e-12))
		})

		It("pushes coincident agents by the full repulsion without NaN", func() {
			a := &sketch.Agent{Pos: geom.V(50, 50)}
			b := &sketch.Agent{Pos: geom.V(50, 50)}
			mouse := geom.V(50, 50)
			a.Update(silent, []*sketch.Agent{a, b}, mouse)

			Expect(a.Vel.IsValid()).To(BeTrue())
			repel := a.Vel.Sub(geom.V(sketch.MouseForce, 0))
			Expect(repel.Len()).To(BeNumerically("~", sketch.RepelForce, 1e-12))
		})

		It("accumulates repulsion from every close neighbour", func() {
			a := &sketch.Agent{Pos: geom.V(100, 100)}
			left := &sketch.Agent{Pos: geom.V(90, 100)}
			farLeft := &sketch.Agent{Pos: geom.V(80, 100)}
			tooFar := &sketch.Agent{Pos: geom.V(30, 100)}
			a.Update(silent, []*sketch.Agent{left, a, farLeft, tooFar}, geom.V(100, 1000))

			Expect(a.Vel.X).To(BeNumerically("~", 2*sketch.RepelForce, 1e-12))
			Expect(a.Vel.Y).To(BeNumerically("~", sketch.MouseForce, 1e-12))
		})

		It("keeps both velocity components within the speed limit", func() {
			crowd := make([]*sketch.Agent, 12)
			for i := range crowd {
				crowd[i] = &sketch.Agent{Pos: geom.V(200+float64(i), 200-float64(i)), Vel: geom.V(5, -5)}
			}
			loud := sketch.Bands{Low: 255, Mid: 255, High: 255}
			for _, a := range crowd {
				a.Update(loud, crowd, geom.V(0, 0))
				Expect(a.Vel.X).To(BeNumerically(">=", -sketch.MaxSpeed))
				Expect(a.Vel.X).To(BeNumerically("<=", sketch.MaxSpeed))
				Expect(a.Vel.Y).To(BeNumerically(">=", -sketch.MaxSpeed))
				Expect(a.Vel.Y).To(BeNumerically("<=", sketch.MaxSpeed))
			}
		})
	})

	Describe("Wrap", func() {
		It("resets to the left edge after leaving on the right", func() {
			a := &sketch.Agent{Pos: geom.V(700, 300), Vel: geom.V(1, 0)}
			a.Pos = a.Pos.Add(a.Vel)
			a.Wrap(600, 400)
			Expect(a.Pos.X).To(Equal(0.0))
			Expect(a.Pos.Y).To(Equal(300.0))
		})

		It("reappears just inside the far edge after leaving on the left or top", func() {
			a := &sketch.Agent{Pos: geom.V(-3, -0.5)}
			a.Wrap(600, 400)
			Expect(a.Pos.X).To(BeNumerically("<", 600))
			Expect(a.Pos.X).To(BeNumerically(">", 599.999))
			Expect(a.Pos.Y).To(BeNumerically("<", 400))
			Expect(a.Pos.Y).To(BeNumerically(">", 399.999))
		})

		It("treats the far edge itself as outside", func() {
			a := &sketch.Agent{Pos: geom.V(600, 400)}
			a.Wrap(600, 400)
			Expect(a.Pos).To(Equal(geom.V(0, 0)))
		})
	})

	Describe("Draw", func() {
		It("draws a circle in local coordinates with a white outline", func() {
			a := &sketch.Agent{Pos: geom.V(10, 20), Radius: 6, Shape: sketch.Circle, Color: sketch.RGB255(1, 2, 3)}
			r := &recorder{}
			a.Draw(r)

			Expect(r.calls).To(HaveLen(4))
			Expect(r.calls[0].op).To(Equal("save"))
			Expect(r.calls[1]).To(Equal(call{op: "translate", args: []float64{10, 20}}))
			Expect(r.calls[2].op).To(Equal("circle"))
			Expect(r.calls[2].args).To(Equal([]float64{0, 0, 6}))
			Expect(r.calls[2].line).To(Equal(sketch.OutlineWidth))
			Expect(r.calls[3].op).To(Equal("restore"))
			Expect(r.depth).To(BeZero())
		})

		It("centres a square of side radius on the origin", func() {
			a := &sketch.Agent{Pos: geom.V(0, 0), Radius: 8, Shape: sketch.Square}
			r := &recorder{}
			a.Draw(r)

			Expect(r.calls[2].op).To(Equal("rect"))
			Expect(r.calls[2].args).To(Equal([]float64{-4, -4, 8, 8}))
		})

		It("leaves the agent untouched", func() {
			a := &sketch.Agent{Pos: geom.V(3, 4), Vel: geom.V(1, 1), Radius: 5, Shape: sketch.Square}
			before := *a
			a.Draw(&recorder{})
			Expect(*a).To(Equal(before))
		})

		It("panics on an unknown shape", func() {
			a := &sketch.Agent{Shape: sketch.Shape(9)}
			Expect(func() { a.Draw(&recorder{}) }).To(Panic())
		})
	})
})
