package term

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pillacela/animaciones/internal/audio"
	"github.com/pillacela/animaciones/internal/sketch"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	panelBx = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

const (
	panelWidth  = 40
	historySize = 60
)

type tickMsg time.Time

// Model is the bubbletea model of terminal mode. The simulation keeps its
// own size; the braille canvas scales it to whatever the terminal offers.
// Pausing gates the audio feed only; frames keep running.
type Model struct {
	sim     *sketch.Simulation
	canvas  *Canvas
	audio   *audio.Gate
	fps     int
	history [3][]float64
	bands   sketch.Bands

	width  int
	height int
}

// NewModel drives sim from src through a pausable gate.
func NewModel(sim *sketch.Simulation, src sketch.SpectrumProvider, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	gate := audio.NewGate(src)
	sim.SetSpectrum(gate)
	m := Model{sim: sim, audio: gate, fps: fps}
	m.layout(80+panelWidth, 24)
	return m
}

func (m *Model) layout(w, h int) {
	m.width, m.height = w, h
	m.canvas = NewCanvas(w-panelWidth-2, h-1)
	m.canvas.Fit(m.sim.Size())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.audio.Toggle()
		}
	case tea.MouseMsg:
		if msg.X < m.canvas.Width && msg.Y < m.canvas.Height {
			m.sim.SetMouse(m.canvas.ToSketch(msg.X, msg.Y))
		}
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
	case tickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.bands = m.sim.Frame(m.canvas)
	for i, v := range [3]float64{m.bands.Low, m.bands.Mid, m.bands.High} {
		m.history[i] = append(m.history[i], v)
		if len(m.history[i]) > historySize {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m Model) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), m.panel())
}

func (m Model) panel() string {
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("animaciones") + "\n\n")

	w, h := m.sim.Size()
	mouse := m.sim.Mouse()
	row := func(label, value string) {
		b.WriteString(dim.Render(fmt.Sprintf("%-8s", label)) + white.Render(value) + "\n")
	}
	row("frame", fmt.Sprintf("%d", m.sim.FrameCount()))
	row("agents", fmt.Sprintf("%d", len(m.sim.Agents())))
	row("canvas", fmt.Sprintf("%.0fx%.0f", w, h))
	row("mouse", fmt.Sprintf("%.0f,%.0f", mouse.X, mouse.Y))
	row("speed", fmt.Sprintf("%.2f", m.sim.MeanSpeed()))
	row("low", fmt.Sprintf("%.1f", m.bands.Low))
	row("mid", fmt.Sprintf("%.1f", m.bands.Mid))
	row("high", fmt.Sprintf("%.1f", m.bands.High))

	if len(m.history[0]) > 1 {
		chart := asciigraph.PlotMany(m.history[:],
			asciigraph.Height(6),
			asciigraph.Width(panelWidth-12),
			asciigraph.LowerBound(0),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
			asciigraph.Caption("low/mid/high"))
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString("\n")
	if !m.audio.Playing() {
		b.WriteString(yellow.Render("AUDIO PAUSED") + "\n")
	}
	b.WriteString(dim.Render("[space] play/pause audio  [q] quit"))
	return panelBx.Width(panelWidth).Render(b.String())
}

// Run starts the terminal program and blocks until the user quits.
func Run(sim *sketch.Simulation, src sketch.SpectrumProvider, fps int) error {
	p := tea.NewProgram(NewModel(sim, src, fps), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
