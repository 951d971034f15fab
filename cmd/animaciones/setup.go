package main

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pillacela/animaciones/internal/audio"
	"github.com/pillacela/animaciones/internal/config"
	"github.com/pillacela/animaciones/internal/sketch"
	"github.com/spf13/cobra"
)

// resolveConfig layers the preset, then the config file, then any flag the
// user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("agents") {
		cfg.Agents = agents
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("track") {
		cfg.Track = track
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulation(cfg *config.Config, spectrum sketch.SpectrumProvider, logger hclog.Logger) (*sketch.Simulation, error) {
	return sketch.New(float64(cfg.Width), float64(cfg.Height),
		sketch.WithAgents(cfg.Agents),
		sketch.WithSeed(cfg.Seed),
		sketch.WithSpectrum(spectrum),
		sketch.WithLogger(logger.Named("sim")),
	)
}

// openPlayer starts live playback of the configured track. Any failure is
// logged and leaves the sketch running on silence.
func openPlayer(cfg *config.Config, logger hclog.Logger) (sketch.SpectrumProvider, *audio.Player) {
	log := logger.Named("audio")

	src, err := audio.OpenMP3(cfg.Track)
	if err != nil {
		log.Warn("track unavailable, running silent", "track", cfg.Track, "error", err)
		return audio.Silence{}, nil
	}

	player := audio.NewPlayer(src, cfg.Loop, log)
	if err := player.Start(); err != nil {
		log.Warn("audio device unavailable, running silent", "error", err)
		if cerr := player.Close(); cerr != nil {
			log.Debug("close after failed start", "error", cerr)
		}
		return audio.Silence{}, nil
	}
	return player, player
}

// openTrack analyses the configured track offline, one frame of samples per
// simulation frame. The returned close func is never nil.
func openTrack(cfg *config.Config, logger hclog.Logger) (sketch.SpectrumProvider, func()) {
	log := logger.Named("audio")
	noop := func() {}

	if cfg.Track == "" {
		return audio.Silence{}, noop
	}
	src, err := audio.OpenMP3(cfg.Track)
	if err != nil {
		log.Warn("track unavailable, running silent", "track", cfg.Track, "error", err)
		return audio.Silence{}, noop
	}

	tr, err := audio.NewTrack(src, cfg.FPS, cfg.Loop)
	if err != nil {
		src.Close()
		log.Warn("offline analysis unavailable, running silent", "error", err)
		return audio.Silence{}, noop
	}
	return tr, func() { src.Close() }
}
