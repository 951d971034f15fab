package sketch_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pillacela/animaciones/internal/geom"
	"github.com/pillacela/animaciones/internal/sketch"
)

func positions(s *sketch.Simulation) []geom.Vec2 {
	out := make([]geom.Vec2, 0, len(s.Agents()))
	for _, a := range s.Agents() {
		out = append(out, a.Pos)
	}
	return out
}

var _ = Describe("Simulation", func() {
	It("rejects invalid canvas sizes and populations", func() {
		_, err := sketch.New(0, 100)
		Expect(err).To(MatchError(sketch.ErrInvalidCanvas))

		_, err = sketch.New(100, 100, sketch.WithAgents(-1))
		Expect(err).To(MatchError(sketch.ErrInvalidPopulation))

		s, err := sketch.New(100, 100, sketch.WithSeed(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Resize(-5, 10)).To(MatchError(sketch.ErrInvalidCanvas))
		w, h := s.Size()
		Expect([]float64{w, h}).To(Equal([]float64{100, 100}))
	})

	It("creates the default population inside the canvas", func() {
		s, err := sketch.New(640, 480, sketch.WithSeed(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Agents()).To(HaveLen(sketch.DefaultAgents))
		for _, p := range positions(s) {
			Expect(p.X).To(BeNumerically(">=", 0))
			Expect(p.X).To(BeNumerically("<", 640))
			Expect(p.Y).To(BeNumerically(">=", 0))
			Expect(p.Y).To(BeNumerically("<", 480))
		}
	})

	It("visits every unordered pair exactly once", func() {
		for _, n := range []int{0, 1, 2, 7, 50} {
			s, err := sketch.New(300, 300, sketch.WithAgents(n), sketch.WithSeed(int64(n)))
			Expect(err).NotTo(HaveOccurred())

			seen := map[[2]int]bool{}
			s.Pairs(func(i, j int, dist float64) {
				Expect(i).To(BeNumerically("<", j))
				key := [2]int{i, j}
				Expect(seen).NotTo(HaveKey(key))
				seen[key] = true
				Expect(dist).To(Equal(s.Agents()[i].Pos.Distance(s.Agents()[j].Pos)))
			})
			Expect(seen).To(HaveLen(n * (n - 1) / 2))
		}
	})

	It("styles links by distance", func() {
		Expect(sketch.LinkWidth(0)).To(Equal(sketch.LinkMaxWidth))
		Expect(sketch.LinkWidth(sketch.LinkDistance)).To(BeNumerically("~", sketch.LinkMinWidth, 1e-12))

		near := sketch.LinkColor(0)
		Expect(near.R).To(BeNumerically("~", 1, 1e-12))
		Expect(near.G).To(BeNumerically("~", 50.0/255, 1e-12))
		far := sketch.LinkColor(sketch.LinkDistance)
		Expect(far.R).To(BeNumerically("~", 50.0/255, 1e-12))
		Expect(far.G).To(BeNumerically("~", 1, 1e-12))
		Expect(far.B).To(BeNumerically("~", 1, 1e-12))
	})

	Describe("Frame", func() {
		It("draws background, links within range, then every agent", func() {
			s, err := sketch.New(800, 600, sketch.WithSeed(11))
			Expect(err).NotTo(HaveOccurred())

			linked := 0
			s.Pairs(func(i, j int, dist float64) {
				if dist <= sketch.LinkDistance {
					linked++
				}
			})

			r := &recorder{}
			s.Frame(r)

			Expect(r.calls[0].op).To(Equal("fillrect"))
			Expect(r.calls[0].args).To(Equal([]float64{0, 0, 800, 600}))
			bg := r.calls[0].fill
			for _, ch := range []float64{bg.R, bg.G, bg.B} {
				Expect(ch).To(BeNumerically(">=", 0))
				Expect(ch).To(BeNumerically("<=", sketch.BackgroundMax/255))
			}

			Expect(r.count("line")).To(Equal(linked))
			for _, c := range r.calls {
				if c.op == "line" {
					Expect(c.line).To(BeNumerically(">=", sketch.LinkMinWidth))
					Expect(c.line).To(BeNumerically("<=", sketch.LinkMaxWidth))
				}
			}
			Expect(r.count("circle") + r.count("rect")).To(Equal(sketch.DefaultAgents))
			Expect(r.count("save")).To(Equal(r.count("restore")))
			Expect(r.depth).To(BeZero())
			Expect(s.FrameCount()).To(Equal(1))
		})

		It("keeps every agent on the canvas and under the speed limit", func() {
			s, err := sketch.New(400, 300,
				sketch.WithSeed(5),
				sketch.WithSpectrum(fixedSpectrum{sketch.Bands{Low: 255, Mid: 255, High: 255}}),
			)
			Expect(err).NotTo(HaveOccurred())
			s.SetMouse(390, 10)

			for f := 0; f < 300; f++ {
				s.Frame(sketch.Discard)
				for _, a := range s.Agents() {
					Expect(a.Pos.X).To(BeNumerically(">=", 0))
					Expect(a.Pos.X).To(BeNumerically("<", 400))
					Expect(a.Pos.Y).To(BeNumerically(">=", 0))
					Expect(a.Pos.Y).To(BeNumerically("<", 300))
					Expect(a.Vel.X).To(BeNumerically(">=", -sketch.MaxSpeed))
					Expect(a.Vel.X).To(BeNumerically("<=", sketch.MaxSpeed))
					Expect(a.Vel.Y).To(BeNumerically(">=", -sketch.MaxSpeed))
					Expect(a.Vel.Y).To(BeNumerically("<=", sketch.MaxSpeed))
				}
			}
		})

		It("wraps against the resized canvas", func() {
			s, err := sketch.New(1000, 1000, sketch.WithSeed(8))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Resize(100, 50)).To(Succeed())

			s.Frame(sketch.Discard)
			for _, a := range s.Agents() {
				Expect(a.Pos.X).To(BeNumerically("<", 100))
				Expect(a.Pos.Y).To(BeNumerically("<", 50))
			}
		})

		It("is deterministic for a fixed seed and silent audio", func() {
			run := func(seed int64) []geom.Vec2 {
				s, err := sketch.New(600, 400,
					sketch.WithRand(rand.New(rand.NewSource(seed))),
					sketch.WithSpectrum(fixedSpectrum{}),
				)
				Expect(err).NotTo(HaveOccurred())
				s.SetMouse(300, 200)
				s.Step(100)
				return positions(s)
			}

			first := run(2024)
			Expect(first).To(HaveLen(sketch.DefaultAgents))
			Expect(run(2024)).To(Equal(first))
			Expect(run(2025)).NotTo(Equal(first))
		})

		It("reproduces known positions for seed 2024 after 100 frames", func() {
			s, err := sketch.New(800, 600,
				sketch.WithAgents(3),
				sketch.WithRand(rand.New(rand.NewSource(2024))),
				sketch.WithSpectrum(fixedSpectrum{bands: sketch.Bands{Low: 150, Mid: 50}}),
			)
			Expect(err).NotTo(HaveOccurred())

			// pinned starts: one heads straight for the pointer, two begin
			// inside each other's repulsion radius
			start := []struct{ pos, vel geom.Vec2 }{
				{geom.V(100, 300), geom.V(1, 0)},
				{geom.V(600, 100), geom.V(0.5, -0.5)},
				{geom.V(620, 130), geom.V(0, 0)},
			}
			for i, a := range s.Agents() {
				a.Pos, a.Vel = start[i].pos, start[i].vel
			}
			s.SetMouse(400, 300)
			s.Step(100)

			want := []geom.Vec2{
				geom.V(299.6, 300),
				geom.V(410.40397555938796, 110.75414331019749),
				geom.V(14.0, 144.26922024870413),
			}
			for i, p := range positions(s) {
				Expect(p.X).To(BeNumerically("~", want[i].X, 1e-6), "agent %d x", i)
				Expect(p.Y).To(BeNumerically("~", want[i].Y, 1e-6), "agent %d y", i)
			}
		})

		It("switches to a new spectrum provider between frames", func() {
			s, err := sketch.New(200, 200, sketch.WithSeed(1), sketch.WithSpectrum(fixedSpectrum{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Frame(sketch.Discard)).To(Equal(sketch.Bands{}))

			loud := sketch.Bands{Low: 10, Mid: 20, High: 30}
			s.SetSpectrum(fixedSpectrum{bands: loud})
			Expect(s.Frame(sketch.Discard)).To(Equal(loud))
		})

		It("holds the last known bands while the spectrum fails", func() {
			loud := sketch.Bands{Low: 120, Mid: 80, High: 200}
			p := &flakySpectrum{bands: loud, ok: 2}
			s, err := sketch.New(200, 200, sketch.WithSeed(1), sketch.WithSpectrum(p))
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Frame(sketch.Discard)).To(Equal(loud))
			Expect(s.Frame(sketch.Discard)).To(Equal(loud))
			Expect(s.Frame(sketch.Discard)).To(Equal(loud))
			Expect(s.Frame(sketch.Discard)).To(Equal(loud))
			Expect(p.calls).To(Equal(4))
		})

		It("runs on zero energy when no spectrum is attached", func() {
			s, err := sketch.New(200, 200, sketch.WithSeed(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Frame(sketch.Discard)).To(Equal(sketch.Bands{}))
		})
	})
})
