package sketch

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pillacela/animaciones/internal/geom"
)

const (
	DefaultAgents = 50

	LinkDistance  = 200.0
	LinkMaxWidth  = 12.0
	LinkMinWidth  = 1.0
	BackgroundMax = 50.0
)

var (
	linkNear = RGB255(255, 50, 255)
	linkFar  = RGB255(50, 255, 255)
)

// Simulation owns the agent population and runs one frame per Frame call.
// It is not safe for concurrent use; the host calls SetMouse, Resize and
// Frame from the same goroutine.
type Simulation struct {
	agents   []*Agent
	mouse    geom.Vec2
	width    float64
	height   float64
	spectrum SpectrumProvider
	bands    Bands
	degraded bool
	rng      *rand.Rand
	frame    int
	logger   hclog.Logger

	numAgents int
}

type Option func(*Simulation)

func WithAgents(n int) Option {
	return func(s *Simulation) { s.numAgents = n }
}

// WithSeed makes agent placement and background flicker reproducible.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

func WithSpectrum(p SpectrumProvider) Option {
	return func(s *Simulation) { s.spectrum = p }
}

func WithLogger(l hclog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// New creates a simulation on a width x height canvas and scatters the
// agents uniformly over it.
func New(width, height float64, opts ...Option) (*Simulation, error) {
	if err := validateSize(width, height); err != nil {
		return nil, err
	}

	s := &Simulation{
		width:     width,
		height:    height,
		numAgents: DefaultAgents,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.numAgents < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPopulation, s.numAgents)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.agents = make([]*Agent, s.numAgents)
	for i := range s.agents {
		pos := geom.V(s.rng.Float64()*width, s.rng.Float64()*height)
		s.agents[i] = NewAgent(pos, s.rng)
	}

	s.logger.Debug("simulation created", "agents", s.numAgents, "width", width, "height", height)
	return s, nil
}

func validateSize(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, width, height)
	}
	return nil
}

func (s *Simulation) Agents() []*Agent { return s.agents }

func (s *Simulation) Size() (float64, float64) { return s.width, s.height }

func (s *Simulation) Mouse() geom.Vec2 { return s.mouse }

func (s *Simulation) FrameCount() int { return s.frame }

// Bands returns the band energies used by the most recent frame.
func (s *Simulation) Bands() Bands { return s.bands }

// SetMouse records the latest pointer position in canvas coordinates.
func (s *Simulation) SetMouse(x, y float64) {
	s.mouse = geom.V(x, y)
}

// Resize changes the canvas size used for the background and for wrapping.
func (s *Simulation) Resize(width, height float64) error {
	if err := validateSize(width, height); err != nil {
		return err
	}
	s.width, s.height = width, height
	s.logger.Debug("canvas resized", "width", width, "height", height)
	return nil
}

// SetSpectrum swaps the band energy source, e.g. after a track finished loading.
func (s *Simulation) SetSpectrum(p SpectrumProvider) {
	s.spectrum = p
	s.degraded = false
}

// Pairs calls fn once for every unordered pair of agents i < j together
// with their distance.
func (s *Simulation) Pairs(fn func(i, j int, dist float64)) {
	for i := 0; i < len(s.agents); i++ {
		for j := i + 1; j < len(s.agents); j++ {
			fn(i, j, s.agents[i].Pos.Distance(s.agents[j].Pos))
		}
	}
}

// LinkWidth is the stroke width of a connection between agents dist apart.
func LinkWidth(dist float64) float64 {
	return geom.MapRange(dist, 0, LinkDistance, LinkMaxWidth, LinkMinWidth)
}

// LinkColor blends from warm magenta at distance 0 to cyan at LinkDistance.
func LinkColor(dist float64) colorful.Color {
	return linkNear.BlendRgb(linkFar, dist/LinkDistance)
}

// Frame renders one frame into surf and advances every agent by one step.
// It returns the band energies the frame was driven by.
func (s *Simulation) Frame(surf Surface) Bands {
	s.pollSpectrum()

	bg := RGB255(s.rng.Float64()*BackgroundMax, s.rng.Float64()*BackgroundMax, s.rng.Float64()*BackgroundMax)
	surf.FillRect(0, 0, s.width, s.height, bg)

	s.Pairs(func(i, j int, dist float64) {
		if dist > LinkDistance {
			return
		}
		a, b := s.agents[i].Pos, s.agents[j].Pos
		surf.Line(a.X, a.Y, b.X, b.Y, LinkWidth(dist), LinkColor(dist))
	})

	for _, a := range s.agents {
		a.Update(s.bands, s.agents, s.mouse)
		a.Draw(surf)
		a.Wrap(s.width, s.height)
	}

	s.frame++
	return s.bands
}

// Step runs n frames without drawing.
func (s *Simulation) Step(n int) {
	for i := 0; i < n; i++ {
		s.Frame(Discard)
	}
}

// MeanSpeed is the average velocity magnitude over the population.
func (s *Simulation) MeanSpeed() float64 {
	if len(s.agents) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.agents {
		sum += a.Vel.Len()
	}
	return sum / float64(len(s.agents))
}

func (s *Simulation) pollSpectrum() {
	if s.spectrum == nil {
		return
	}

	b, err := s.spectrum.BandEnergies()
	if err != nil {
		if !s.degraded {
			s.logger.Warn("spectrum unavailable, holding last band energies", "frame", s.frame, "error", err)
			s.degraded = true
		}
		return
	}
	if s.degraded {
		s.logger.Info("spectrum recovered", "frame", s.frame)
		s.degraded = false
	}
	s.bands = b.sanitize()
}
