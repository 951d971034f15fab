package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"crowd": {
		Width: 1280, Height: 720, Agents: 120, FPS: 60,
		Track: DefaultTrack, LogLevel: DefaultLogLevel,
	},
	"sparse": {
		Width: 1280, Height: 720, Agents: 20, FPS: 60,
		Track: DefaultTrack, LogLevel: DefaultLogLevel,
	},
	"cinema": {
		Width: 1920, Height: 1080, Agents: 80, FPS: 30, Loop: true,
		Track: DefaultTrack, LogLevel: DefaultLogLevel,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
