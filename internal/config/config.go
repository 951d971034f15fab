package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultAgents   = 50
	DefaultFPS      = 60
	DefaultTrack    = "mp3/laraja.mp3"
	DefaultLogLevel = "info"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Agents   int    `yaml:"agents"`
	Seed     int64  `yaml:"seed"`
	FPS      int    `yaml:"fps"`
	Track    string `yaml:"track"`
	Loop     bool   `yaml:"loop"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Agents:   DefaultAgents,
		FPS:      DefaultFPS,
		Track:    DefaultTrack,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a yaml file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Agents < 0 {
		return fmt.Errorf("%w: agents %d", ErrInvalid, c.Agents)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.FPS)
	}
	return nil
}

// Clone returns a copy so presets are never mutated by flag overrides.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
