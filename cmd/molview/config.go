package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration loaded from a YAML file. Every field
// has a working default so the viewer runs with no config file at all.
type Config struct {
	Window struct {
		Title  string `yaml:"title"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"window"`

	Input struct {
		// Path is the XYZ file loaded at startup. Empty starts with an
		// empty molecule.
		Path string `yaml:"path"`
		// Watch reloads the file automatically when it changes on disk.
		Watch bool `yaml:"watch"`
	} `yaml:"input"`

	Render struct {
		// PresentMode is "vsync" or "uncapped".
		PresentMode string `yaml:"present_mode"`
		// MSAA is the multisample count: 1, 4, 8 or 16.
		MSAA uint32 `yaml:"msaa"`
		// FrameLimit caps the render loop in frames per second; 0 uncaps.
		FrameLimit float64 `yaml:"frame_limit"`
		// Representation is "ball-and-stick" or "space-filling".
		Representation string `yaml:"representation"`
	} `yaml:"render"`

	Shaders struct {
		Atom string `yaml:"atom"`
		Bond string `yaml:"bond"`
	} `yaml:"shaders"`

	Editor struct {
		// HistoryCapacity bounds the undo stack.
		HistoryCapacity int `yaml:"history_capacity"`
		// PlaceDepth is the distance from the camera at which new atoms
		// are placed when clicking empty space.
		PlaceDepth float32 `yaml:"place_depth"`
	} `yaml:"editor"`

	// TickRate is the engine tick frequency in ticks per second.
	TickRate float64 `yaml:"tick_rate"`

	Profiling bool `yaml:"profiling"`
}

// DefaultConfig returns the configuration used when no file is present.
//
// Returns:
//   - *Config: the default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Window.Title = "Molecule Viewer"
	cfg.Window.Width = 1280
	cfg.Window.Height = 800
	cfg.Render.PresentMode = "vsync"
	cfg.Render.MSAA = 4
	cfg.Render.Representation = "ball-and-stick"
	cfg.Shaders.Atom = "assets/shaders/atom.wgsl"
	cfg.Shaders.Bond = "assets/shaders/bond.wgsl"
	cfg.Editor.HistoryCapacity = 100
	cfg.Editor.PlaceDepth = 12
	cfg.TickRate = 60
	return cfg
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the merged configuration
//   - error: an error if the file exists but cannot be read or parsed
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
