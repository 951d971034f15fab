package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/hashicorp/go-hclog"
	"github.com/pillacela/animaciones/internal/audio"
	"github.com/pillacela/animaciones/internal/sketch"
)

var (
	ColText    = rl.NewColor(220, 220, 220, 255)
	ColTextDim = rl.NewColor(120, 120, 120, 255)
	ColLow     = rl.NewColor(255, 80, 120, 255)
	ColMid     = rl.NewColor(120, 255, 140, 255)
	ColHigh    = rl.NewColor(90, 160, 255, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 140)
)

const telemetrySize = 240

type Options struct {
	Width, Height int
	FPS           int
	Title         string
}

type App struct {
	Sim     *sketch.Simulation
	Surface *Surface
	Player  *audio.Player
	Logger  hclog.Logger

	ShowHUD   bool
	Telemetry [][3]float64
	quit      bool
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// NewApp wires a simulation to the window. player may be nil, in which
// case the play/pause key does nothing.
func NewApp(sim *sketch.Simulation, player *audio.Player, logger hclog.Logger) *App {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &App{
		Sim:       sim,
		Surface:   &Surface{},
		Player:    player,
		Logger:    logger,
		ShowHUD:   true,
		Telemetry: make([][3]float64, 0, telemetrySize),
	}
}

// Run opens the window and blocks until it is closed.
func Run(sim *sketch.Simulation, player *audio.Player, opts Options, logger hclog.Logger) {
	if opts.Title == "" {
		opts.Title = "animaciones"
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(sim, player, logger)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

// Update feeds input events to the simulation and the player.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if err := a.Sim.Resize(float64(w), float64(h)); err != nil {
			// minimised windows report 0x0; keep the previous size
			a.Logger.Debug("ignoring resize", "width", w, "height", h, "error", err)
		}
	}

	mouse := rl.GetMousePosition()
	a.Sim.SetMouse(float64(mouse.X), float64(mouse.Y))

	if rl.IsKeyPressed(rl.KeySpace) && a.Player != nil {
		playing := a.Player.Toggle()
		a.Logger.Info("playback toggled", "playing", playing)
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
}

// Draw runs one simulation frame into the window.
func (a *App) Draw() {
	rl.BeginDrawing()

	bands := a.Sim.Frame(a.Surface)
	a.Telemetry = append(a.Telemetry, [3]float64{bands.Low, bands.Mid, bands.High})
	if len(a.Telemetry) > telemetrySize {
		a.Telemetry = a.Telemetry[1:]
	}

	if a.ShowHUD {
		a.DrawHUD(bands)
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD(bands sketch.Bands) {
	h := int32(rl.GetScreenHeight())

	rl.DrawRectangle(16, 16, 300, 96, ColPanel)
	rl.DrawText("animaciones", 28, 24, 20, ColText)
	a.drawBar("LOW", bands.Low, 52, ColLow)
	a.drawBar("MID", bands.Mid, 68, ColMid)
	a.drawBar("HIGH", bands.High, 84, ColHigh)

	a.DrawTelemetry(16, h-96, 300, 60)

	status := "AUDIO [OFF]"
	col := rl.Red
	if a.Player != nil {
		switch {
		case a.Player.Ended():
			status, col = "AUDIO [END]", ColTextDim
		case a.Player.Playing():
			status, col = "AUDIO [PLAYING]", ColText
		default:
			status, col = "AUDIO [PAUSED]", ColTextDim
		}
	}
	rl.DrawText(status, 16, h-28, 14, col)
	rl.DrawText(fmt.Sprintf("%d FPS  [SPACE] PLAY/PAUSE  [H] HUD  [Q] QUIT", rl.GetFPS()), 200, h-28, 14, ColTextDim)
}

func (a *App) drawBar(label string, v float64, y int32, col rl.Color) {
	bars := int(v / 255 * 24)
	if bars > 24 {
		bars = 24
	}
	rl.DrawText(fmt.Sprintf("%-4s [%-24s] %3.0f", label, strings.Repeat("|", bars), v), 28, y, 12, col)
}

// DrawTelemetry plots the recent band history as three line strips.
func (a *App) DrawTelemetry(x, y, width, height int32) {
	if len(a.Telemetry) < 2 {
		return
	}
	rl.DrawRectangle(x, y, width, height, ColPanel)

	colors := [3]rl.Color{ColLow, ColMid, ColHigh}
	for band := 0; band < 3; band++ {
		points := make([]rl.Vector2, len(a.Telemetry))
		for i, sample := range a.Telemetry {
			px := float32(x) + float32(i)/float32(telemetrySize)*float32(width)
			py := float32(y+height) - float32(sample[band]/255)*float32(height)
			points[i] = rl.NewVector2(px, py)
		}
		rl.DrawLineStrip(points, colors[band])
	}
}
